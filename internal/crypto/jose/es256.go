// Copyright (c) 2025 Justin Cranford

package jose

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"

	cryptoutilDigests "stirshaken/internal/crypto/digests"
)

// rawSignatureLen is the fixed JWS ES256 signature length: two 32-byte
// big-endian coordinates, r concatenated with s. RFC 7518 §3.4.
const rawSignatureLen = 64

const keyCoordinateLen = 32

var (
	// ErrWrongCurve is returned when a key does not sit on P-256.
	ErrWrongCurve = errors.New("jose: key is not on curve P-256")
	// ErrSignatureLength is returned when a decoded signature is neither
	// 64 raw bytes nor a parseable ASN.1 DER sequence.
	ErrSignatureLength = errors.New("jose: signature is not a valid ES256 signature")
	// ErrInvalidSignature is returned by Verify on a cryptographic mismatch.
	ErrInvalidSignature = errors.New("jose: signature verification failed")
)

// GenerateES256KeyPair creates a fresh P-256 keypair for ES256 signing. It
// also returns the private scalar's 32-byte big-endian form ("raw32"), which
// PrivateKeyFromRaw32 turns back into a key. The CLI's --private-key files
// are PEM, not raw32.
func GenerateES256KeyPair() (*ecdsa.PrivateKey, *ecdsa.PublicKey, [32]byte, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, [32]byte{}, fmt.Errorf("jose: generate P-256 key: %w", err)
	}

	var raw32 [32]byte
	priv.D.FillBytes(raw32[:])

	return priv, &priv.PublicKey, raw32, nil
}

// PrivateKeyFromRaw32 reconstructs a P-256 private key from its 32-byte
// big-endian scalar form, the inverse of GenerateES256KeyPair's raw32 output.
func PrivateKeyFromRaw32(raw32 [32]byte) (*ecdsa.PrivateKey, error) {
	d := new(big.Int).SetBytes(raw32[:])
	curve := elliptic.P256()
	x, y := curve.ScalarBaseMult(raw32[:])

	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
		D:         d,
	}

	return priv, nil
}

// SignES256 computes the SHA-256 digest of msg and produces a 64-byte raw
// r||s ECDSA signature. The JWS format mandates this encoding; DER is never
// emitted on the sign path.
func SignES256(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	if priv.Curve.Params().BitSize != 256 {
		return nil, ErrWrongCurve
	}

	digest := cryptoutilDigests.SHA256(msg)

	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("jose: ecdsa sign: %w", err)
	}

	out := make([]byte, rawSignatureLen)
	r.FillBytes(out[:keyCoordinateLen])
	s.FillBytes(out[keyCoordinateLen:])

	return out, nil
}

// VerifyES256 checks sig against msg under pub. It accepts the mandatory
// 64-byte raw r||s form and, for interop with peers that emit DER, tolerates
// an ASN.1 SEQUENCE{r,s} encoding as a fallback decode.
func VerifyES256(pub *ecdsa.PublicKey, msg, sig []byte) error {
	if pub.Curve.Params().BitSize != 256 {
		return ErrWrongCurve
	}

	r, s, err := decodeSignature(sig)
	if err != nil {
		return err
	}

	digest := cryptoutilDigests.SHA256(msg)
	if !ecdsa.Verify(pub, digest[:], r, s) {
		return ErrInvalidSignature
	}

	return nil
}

func decodeSignature(sig []byte) (r, s *big.Int, err error) {
	if len(sig) == rawSignatureLen {
		r = new(big.Int).SetBytes(sig[:keyCoordinateLen])
		s = new(big.Int).SetBytes(sig[keyCoordinateLen:])

		return r, s, nil
	}

	var der struct {
		R, S *big.Int
	}
	if _, derErr := asn1.Unmarshal(sig, &der); derErr != nil {
		return nil, nil, ErrSignatureLength
	}

	return der.R, der.S, nil
}
