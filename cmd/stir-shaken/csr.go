// Copyright (c) 2025 Justin Cranford

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stirshaken/internal/apperr"
	"stirshaken/internal/audit"
	"stirshaken/internal/ca/issuer"
	"stirshaken/internal/ca/subject"
	"stirshaken/internal/crypto/keygen"
)

func newCSRCommand() *cobra.Command {
	var (
		privPath  string
		spc       string
		subjectC  string
		subjectCN string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "csr",
		Short: "Generate a CSR carrying a TNAuthList request attribute",
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := keygen.LoadPrivateKeyPEM(privPath)
			if err != nil {
				return err
			}

			der, err := issuer.GenerateCSR(priv, issuer.CSRConfig{
				Subject: subject.Name{Country: subjectC, CommonName: subjectCN},
				SPC:     spc,
			})

			recordCSRAudit(cmd, subjectCN, spc, err)

			if err != nil {
				return err
			}

			if err := writeCertificatePEM(outPath, "CERTIFICATE REQUEST", der); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&privPath, "private-key", "key.pem", "path to the requester's EC private key PEM")
	cmd.Flags().StringVar(&spc, "spc", "", "service provider code to bind in the TNAuthList request attribute")
	cmd.Flags().StringVar(&subjectC, "subject-c", "", "subject country code")
	cmd.Flags().StringVar(&subjectCN, "subject-cn", "", "subject common name")
	cmd.Flags().StringVar(&outPath, "file", "request.csr.pem", "path to write the CSR PEM")

	return cmd
}

func writeCertificatePEM(path, blockType string, der []byte) error {
	return os.WriteFile(path, pemEncode(blockType, der), 0o644)
}

// recordCSRAudit logs one C9 audit event for a CSR-generation operation.
func recordCSRAudit(cmd *cobra.Command, subjectCN, spc string, err error) {
	corrID := ""

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		corrID = appErr.ID.String()
	}

	newAuditLogger().Record(cmd.Context(), audit.Event{
		Operation:     "generate-csr",
		Outcome:       outcomeOf(err),
		CorrelationID: corrID,
		Detail: map[string]any{
			"subject_cn": subjectCN,
			"spc":        spc,
		},
	})
}
