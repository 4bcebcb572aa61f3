// Copyright (c) 2025 Justin Cranford

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/spf13/cobra"

	"stirshaken/internal/apperr"
	cacrypto "stirshaken/internal/ca/crypto"
	"stirshaken/internal/crypto/keygen"
)

func newKeysCommand() *cobra.Command {
	var privPath, pubPath, jwkPath string

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate an ES256 (P-256) key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := cacrypto.NewSoftwareProvider().GenerateKeyPair(cacrypto.KeySpec{Type: cacrypto.KeyTypeECDSA})
			if err != nil {
				return err
			}

			if err := keygen.WritePrivateKeyPEM(privPath, pair.PrivateKey); err != nil {
				return err
			}

			if err := keygen.WritePublicKeyPEM(pubPath, pair.PublicKey); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privPath, pubPath)

			if jwkPath != "" {
				if err := exportPublicJWK(jwkPath, pair); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", jwkPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&privPath, "private-key", "key.pem", "path to write the EC private key PEM")
	cmd.Flags().StringVar(&pubPath, "public-key", "key.pub.pem", "path to write the PKIX public key PEM")
	cmd.Flags().StringVar(&jwkPath, "export-jwk", "", "also write the public key as a JWK to this path, for interop/debugging")

	return cmd
}

// exportPublicJWK renders pair's public key as a JWK and writes it to path.
// This is a diagnostic convenience only: the PASSporT sign/verify path
// never goes through jwx, since it needs the exact received H.P bytes that
// a round-tripping JWK/JWS library would not preserve.
func exportPublicJWK(path string, pair *cacrypto.KeyPair) error {
	key, err := jwk.Import(pair.PublicKey)
	if err != nil {
		return apperr.New(apperr.KindCrypto, "import public key as JWK", err)
	}

	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return apperr.New(apperr.KindCrypto, "set JWK alg", err)
	}

	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature.String()); err != nil {
		return apperr.New(apperr.KindCrypto, "set JWK key usage", err)
	}

	encoded, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return apperr.New(apperr.KindCrypto, "marshal JWK", err)
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return apperr.New(apperr.KindGeneral, "write "+path, err)
	}

	return nil
}
