// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stirshaken/internal/ca/trust"
)

func newInstallCertCommand() *cobra.Command {
	var certPath, caDir string

	cmd := &cobra.Command{
		Use:   "install-cert",
		Short: "Index a CA certificate into a trust-anchor directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			der, err := readPEMFile(certPath)
			if err != nil {
				return err
			}

			installedPath, err := trust.WriteTrustAnchor(caDir, der)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", installedPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&certPath, "file", "cert.pem", "path to the CA certificate PEM to install")
	cmd.Flags().StringVar(&caDir, "ca-dir", "trust", "trust-anchor directory to index the certificate into")

	return cmd
}
