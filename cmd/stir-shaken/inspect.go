// Copyright (c) 2025 Justin Cranford

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stirshaken/internal/passport"
	"stirshaken/internal/sipidentity"
)

func newInspectCommand() *cobra.Command {
	var header string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Decode a SIP Identity header and its PASSporT without verifying the signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sipidentity.Parse(header, sipidentity.ParseOptions{AllowMissingPpt: true})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "info=%s alg=%s ppt=%s\n", id.InfoURL, id.Alg, id.Ppt)

			parsed, err := passport.Parse(id.JWS)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "header: alg=%s typ=%s ppt=%s x5u=%s\n",
				parsed.Header.Alg, parsed.Header.Typ, parsed.Header.Ppt, parsed.Header.X5u)
			fmt.Fprintf(cmd.OutOrStdout(), "payload: attest=%s iat=%d origid=%s orig=%s dest=%s\n",
				parsed.Payload.Attest, parsed.Payload.IAT, parsed.Payload.OrigID,
				string(parsed.Payload.Orig), string(parsed.Payload.Dest))

			return nil
		},
	}

	cmd.Flags().StringVar(&header, "header", "", "the SIP Identity header value to decode")

	return cmd
}
