// Copyright (c) 2025 Justin Cranford

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stirshaken/internal/apperr"
	"stirshaken/internal/as"
	"stirshaken/internal/audit"
	"stirshaken/internal/crypto/keygen"
	"stirshaken/internal/passport"
)

func newAuthorizeCommand() *cobra.Command {
	var (
		privPath  string
		certURL   string
		attest    string
		origKey   string
		origValue string
		destKey   string
		destValue string
		origID    string
	)

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Build, sign, and emit a SIP Identity header for a call",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := keygen.LoadPrivateKeyPEM(privPath)
			if err != nil {
				return err
			}

			result, err := as.Authorize(priv, certURL, as.Params{
				Attest: attest,
				Orig:   passport.Endpoint{Key: origKey, Value: origValue},
				Dest:   passport.Endpoint{Key: destKey, Value: destValue},
				OrigID: origID,
			}, true)

			recordAuthorizeAudit(cmd, origValue, destValue, attest, result, err)

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Header)

			return nil
		},
	}

	cmd.Flags().StringVar(&privPath, "private-key", "key.pem", "path to the signing EC private key PEM")
	cmd.Flags().StringVar(&certURL, "cert-url", "", "public URL of the signing certificate (x5u)")
	cmd.Flags().StringVar(&attest, "attest", passport.AttestFull, "attestation level: A, B, or C")
	cmd.Flags().StringVar(&origKey, "orig-type", passport.KeyTN, "orig identity shape: tn or uri")
	cmd.Flags().StringVar(&origValue, "orig", "", "originating telephone number or URI")
	cmd.Flags().StringVar(&destKey, "dest-type", passport.KeyTN, "dest identity shape: tn or uri")
	cmd.Flags().StringVar(&destValue, "dest", "", "destination telephone number or URI")
	cmd.Flags().StringVar(&origID, "origid", "", "call origination identifier (auto-generated when empty)")

	return cmd
}

// recordAuthorizeAudit logs one C9 audit event for an authorize invocation:
// the correlation ID is the PASSporT's origid on success, or the
// apperr.Error's own ID on failure, so a sign failure and its root cause
// stay joinable in the audit trail.
func recordAuthorizeAudit(cmd *cobra.Command, origValue, destValue, attest string, result *as.Result, err error) {
	corrID := ""

	switch {
	case err != nil:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			corrID = appErr.ID.String()
		}
	case result.Passport != nil:
		corrID = result.Passport.Payload.OrigID
	}

	newAuditLogger().Record(cmd.Context(), audit.Event{
		Operation:     "authorize",
		Outcome:       outcomeOf(err),
		CorrelationID: corrID,
		Detail: map[string]any{
			"orig":   origValue,
			"dest":   destValue,
			"attest": attest,
		},
	})
}
