// Copyright (c) 2025 Justin Cranford

// Command stir-shaken is the CA/CSR tooling CLI plus a small set of
// debug leaves (authorize, verify, inspect) built directly on the core
// library, none of which this core depends on to function.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stir-shaken",
		Short: "STIR/SHAKEN call-authentication tooling",
		Long: `stir-shaken issues the CA and end-entity certificates STIR/SHAKEN call
authentication relies on, and exercises the authorize/verify core for
local testing.

Subcommands:
  keys          generate an ES256 key pair
  csr           generate a CSR carrying a TNAuthList request attribute
  cert          issue a CA or service-provider certificate
  install-cert  index a certificate into a trust-anchor directory
  authorize     build and sign a PASSporT, emit a SIP Identity header
  verify        verify a SIP Identity header against a trust-anchor directory
  inspect       decode an Identity header and its PASSporT without verifying it`,
	}

	rootCmd.AddCommand(
		newKeysCommand(),
		newCSRCommand(),
		newCertCommand(),
		newInstallCertCommand(),
		newAuthorizeCommand(),
		newVerifyCommand(),
		newInspectCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the CLI's exit code convention: 1 for
// validation failures, 2 for crypto/IO failures.
func exitCodeFor(err error) int {
	if isValidationError(err) {
		return 1
	}

	return 2
}
