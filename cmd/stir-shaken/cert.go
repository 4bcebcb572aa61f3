// Copyright (c) 2025 Justin Cranford

package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"stirshaken/internal/apperr"
	"stirshaken/internal/audit"
	"stirshaken/internal/ca/bootstrap"
	"stirshaken/internal/ca/issuer"
	"stirshaken/internal/ca/subject"
	"stirshaken/internal/crypto/keygen"
)

func newCertCommand() *cobra.Command {
	var (
		certType      string
		privPath      string
		pubPath       string
		issuerC       string
		issuerCN      string
		serial        int64
		expiryDays    int
		csrPath       string
		caCertPath    string
		tnAuthListURI string
		outPath       string
	)

	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Issue a CA or service-provider certificate",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch certType {
			case "ca":
				return issueCACert(cmd, privPath, pubPath, issuerC, issuerCN, serial, expiryDays, outPath)
			case "sp":
				return issueSPCert(cmd, privPath, csrPath, caCertPath, issuerC, issuerCN, serial, expiryDays, tnAuthListURI, outPath)
			default:
				return apperr.New(apperr.KindGeneral, "cert --type must be \"ca\" or \"sp\"", nil)
			}
		},
	}

	cmd.Flags().StringVar(&certType, "type", "", "certificate type: ca or sp")
	cmd.Flags().StringVar(&privPath, "private-key", "key.pem", "path to the signing EC private key PEM")
	cmd.Flags().StringVar(&pubPath, "public-key", "key.pub.pem", "path to the CA's own public key PEM (--type ca only)")
	cmd.Flags().StringVar(&issuerC, "issuer-c", "", "issuer country code")
	cmd.Flags().StringVar(&issuerCN, "issuer-cn", "", "issuer common name")
	cmd.Flags().Int64Var(&serial, "serial", 0, "certificate serial number")
	cmd.Flags().IntVar(&expiryDays, "expiry-days", 365, "certificate validity in days")
	cmd.Flags().StringVar(&csrPath, "csr", "", "path to the CSR PEM (--type sp only)")
	cmd.Flags().StringVar(&caCertPath, "ca-cert", "", "path to the issuing CA certificate PEM (--type sp only)")
	cmd.Flags().StringVar(&tnAuthListURI, "tn-auth-list-uri", "", "TNAuthList URI to embed (--type sp only)")
	cmd.Flags().StringVar(&outPath, "file", "cert.pem", "path to write the issued certificate PEM")

	return cmd
}

func issueCACert(cmd *cobra.Command, privPath, pubPath, issuerC, issuerCN string, serial int64, expiryDays int, outPath string) error {
	priv, err := keygen.LoadPrivateKeyPEM(privPath)
	if err != nil {
		return err
	}

	pub, err := keygen.LoadPublicKeyPEM(pubPath)
	if err != nil {
		return err
	}

	der, err := bootstrap.Issue(priv, pub, bootstrap.Config{
		Issuer:       subject.Name{Country: issuerC, CommonName: issuerCN},
		Serial:       big.NewInt(serial),
		ValidityDays: expiryDays,
	})

	recordIssueAudit(cmd, "issue-ca-cert", issuerCN, serial, err)

	if err != nil {
		return err
	}

	if err := writeCertificatePEM(outPath, "CERTIFICATE", der); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)

	return nil
}

func issueSPCert(cmd *cobra.Command, caPrivPath, csrPath, caCertPath, issuerC, issuerCN string, serial int64, expiryDays int, tnAuthListURI, outPath string) error {
	caPriv, err := keygen.LoadPrivateKeyPEM(caPrivPath)
	if err != nil {
		return err
	}

	csrDER, err := readPEMFile(csrPath)
	if err != nil {
		return err
	}

	caCertDER, err := readPEMFile(caCertPath)
	if err != nil {
		return err
	}

	der, err := issuer.IssueEECert(caCertDER, caPriv, csrDER, issuer.EECertConfig{
		Issuer:        subject.Name{Country: issuerC, CommonName: issuerCN},
		Serial:        big.NewInt(serial),
		ValidityDays:  expiryDays,
		TNAuthListURI: tnAuthListURI,
	})

	recordIssueAudit(cmd, "issue-sp-cert", issuerCN, serial, err)

	if err != nil {
		return err
	}

	if err := writeCertificatePEM(outPath, "CERTIFICATE", der); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)

	return nil
}

// recordIssueAudit logs one C9 audit event for a CA/CSR issuance operation.
func recordIssueAudit(cmd *cobra.Command, operation, issuerCN string, serial int64, err error) {
	corrID := ""

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		corrID = appErr.ID.String()
	}

	newAuditLogger().Record(cmd.Context(), audit.Event{
		Operation:     operation,
		Outcome:       outcomeOf(err),
		CorrelationID: corrID,
		Detail: map[string]any{
			"issuer_cn": issuerCN,
			"serial":    serial,
		},
	})
}

func readPEMFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.New(apperr.KindGeneral, "read "+path, err)
	}

	return decodePEMOrRaw(raw), nil
}
