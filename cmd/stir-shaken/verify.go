// Copyright (c) 2025 Justin Cranford

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stirshaken/internal/apperr"
	"stirshaken/internal/audit"
	"stirshaken/internal/config"
	"stirshaken/internal/fetch"
	"stirshaken/internal/vs"
)

func newVerifyCommand() *cobra.Command {
	var (
		header     string
		caDir      string
		crlDir     string
		requireCRL bool
		configPath string
		certPath   string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a SIP Identity header value against a trust-anchor directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("ca-dir") || cfg.TrustDir == "" {
				cfg.TrustDir = caDir
			}

			if cmd.Flags().Changed("crl-dir") {
				cfg.CRLDir = crlDir
			}

			if cmd.Flags().Changed("require-crl") {
				cfg.RequireCRL = requireCRL
			}

			// --cert takes precedence over a network fetch: the info= URL is
			// only resolved via HTTP when the caller has not already staged
			// the signing certificate on disk, per the offline-verify mode
			// the CLI surface commits to.
			fetcher := fetch.NewHTTPFetcher(nil)
			if certPath != "" {
				certBytes, err := readPEMFile(certPath)
				if err != nil {
					return err
				}

				fetcher = fetch.Static(certBytes)
			}

			result, err := vs.Verify(context.Background(), header, fetcher, cfg)

			recordVerifyAudit(cmd, result, err)

			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL state=%s status=%d: %s\n", result.State, result.Status, err)

				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK orig=%s dest=%s attest=%s origid=%s\n",
				result.Claims.Orig.Value, result.Claims.Dest.Value, result.Claims.Attest, result.Claims.OrigID)

			return nil
		},
	}

	cmd.Flags().StringVar(&header, "header", "", "the SIP Identity header value to verify")
	cmd.Flags().StringVar(&caDir, "ca-dir", "trust", "trust-anchor directory")
	cmd.Flags().StringVar(&crlDir, "crl-dir", "", "CRL directory (optional)")
	cmd.Flags().BoolVar(&requireCRL, "require-crl", true, "reject a certificate whose issuer has no CRL in --crl-dir")
	cmd.Flags().StringVar(&configPath, "config", "", "policy config file (YAML/JSON/TOML); flags above override its values")
	cmd.Flags().StringVar(&certPath, "cert", "", "verify offline against this cert file instead of fetching info= over the network")

	return cmd
}

// recordVerifyAudit logs one C9 audit event for a verify invocation. The
// correlation ID is the verified PASSporT's origid on success, or the
// apperr.Error's own ID on failure.
func recordVerifyAudit(cmd *cobra.Command, result *vs.Result, err error) {
	corrID := ""
	detail := map[string]any{"state": string(result.State), "sip_status": result.Status}

	switch {
	case err != nil:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			corrID = appErr.ID.String()
		}
	case result.Claims != nil:
		corrID = result.Claims.OrigID
		detail["orig"] = result.Claims.Orig.Value
		detail["dest"] = result.Claims.Dest.Value
	}

	newAuditLogger().Record(cmd.Context(), audit.Event{
		Operation:     "verify",
		Outcome:       outcomeOf(err),
		CorrelationID: corrID,
		Detail:        detail,
	})
}
