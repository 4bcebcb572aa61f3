// Copyright (c) 2025 Justin Cranford

package passport

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stirshaken/internal/apperr"
	cryptoutilJose "stirshaken/internal/crypto/jose"
)

func TestBuild_CanonicalFieldOrder(t *testing.T) {
	t.Parallel()

	header, payload, err := Build(Params{
		X5U:    "https://cert.example.com/sp.pem",
		Attest: AttestFull,
		IAT:    1609459200,
		OrigID: "ref-1",
		Orig:   Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest:   Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)

	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)
	require.Equal(t, `{"alg":"ES256","ppt":"shaken","typ":"passport","x5u":"https://cert.example.com/sp.pem"}`, string(headerJSON))

	payloadJSON, err := json.Marshal(payload)
	require.NoError(t, err)
	require.Equal(t,
		`{"attest":"A","dest":{"tn":["12025550199"]},"iat":1609459200,"orig":{"tn":"12025550123"},"origid":"ref-1"}`,
		string(payloadJSON))
}

func TestBuild_OrigURIIsArray(t *testing.T) {
	t.Parallel()

	_, payload, err := Build(Params{
		X5U:  "https://cert.example.com/sp.pem",
		IAT:  1,
		Orig: Endpoint{Key: KeyURI, Value: "sip:alice@example.com"},
		Dest: Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)
	require.Equal(t, `{"uri":["sip:alice@example.com"]}`, string(payload.Orig))
}

func TestBuild_RejectsMissingOrigDest(t *testing.T) {
	t.Parallel()

	_, _, err := Build(Params{X5U: "https://cert.example.com/sp.pem", IAT: 1, Dest: Endpoint{Key: KeyTN, Value: "1"}})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindGeneral, appErr.Kind)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	header, payload, err := Build(Params{
		X5U:    "https://cert.example.com/sp.pem",
		Attest: AttestFull,
		IAT:    time.Now().Unix(),
		OrigID: "ref-1",
		Orig:   Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest:   Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)

	compact, err := Sign(priv, header, payload)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(compact, "."))

	parsed, err := Parse(compact)
	require.NoError(t, err)

	claims, err := Verify(parsed, pub, VerifyOptions{FreshnessWindow: time.Minute})
	require.NoError(t, err)
	require.Equal(t, AttestFull, claims.Attest)
	require.Equal(t, "12025550123", claims.Orig.Value)
	require.Equal(t, "12025550199", claims.Dest.Value)
	require.Equal(t, "ref-1", claims.OrigID)
}

func TestVerify_TamperedPayloadFailsSignature(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	header, payload, err := Build(Params{
		X5U:  "https://cert.example.com/sp.pem",
		IAT:  time.Now().Unix(),
		Orig: Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest: Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)

	compact, err := Sign(priv, header, payload)
	require.NoError(t, err)

	segments := strings.Split(compact, ".")
	tampered := segments[0] + "." + cryptoutilJose.EncodeSegment([]byte(`{"attest":"A","dest":{"tn":["99999999999"]},"iat":1,"orig":{"tn":"12025550123"}}`)) + "." + segments[2]

	parsed, err := Parse(tampered)
	require.NoError(t, err)

	_, err = Verify(parsed, pub, VerifyOptions{})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindInvalidSignature, appErr.Kind)
	require.Equal(t, 438, appErr.Kind.SIPStatus())
}

func TestVerify_StaleIATMapsTo403(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	header, payload, err := Build(Params{
		X5U:  "https://cert.example.com/sp.pem",
		IAT:  time.Now().Add(-time.Hour).Unix(),
		Orig: Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest: Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)

	compact, err := Sign(priv, header, payload)
	require.NoError(t, err)

	parsed, err := Parse(compact)
	require.NoError(t, err)

	_, err = Verify(parsed, pub, VerifyOptions{FreshnessWindow: 60 * time.Second})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindStaleDate, appErr.Kind)
	require.Equal(t, 403, appErr.Kind.SIPStatus())
}

func TestVerify_MissingPptRejectedByDefault(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	header, payload, err := Build(Params{
		X5U:     "https://cert.example.com/sp.pem",
		IAT:     time.Now().Unix(),
		Orig:    Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest:    Endpoint{Key: KeyTN, Value: "12025550199"},
		OmitPpt: true,
	})
	require.NoError(t, err)

	compact, err := Sign(priv, header, payload)
	require.NoError(t, err)

	parsed, err := Parse(compact)
	require.NoError(t, err)

	_, err = Verify(parsed, pub, VerifyOptions{})
	require.Error(t, err)

	_, err = Verify(parsed, pub, VerifyOptions{AllowMissingPpt: true})
	require.NoError(t, err)
}

func TestVerify_DestTNScalarRejectedUnlessLenient(t *testing.T) {
	t.Parallel()

	priv, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	header, payload, err := Build(Params{
		X5U:  "https://cert.example.com/sp.pem",
		IAT:  time.Now().Unix(),
		Orig: Endpoint{Key: KeyTN, Value: "12025550123"},
		Dest: Endpoint{Key: KeyTN, Value: "12025550199"},
	})
	require.NoError(t, err)

	payload.Dest = json.RawMessage(`{"tn":"12025550199"}`)

	compact, err := Sign(priv, header, payload)
	require.NoError(t, err)

	parsed, err := Parse(compact)
	require.NoError(t, err)

	_, err = Verify(parsed, pub, VerifyOptions{})
	require.Error(t, err)

	claims, err := Verify(parsed, pub, VerifyOptions{AllowDestTNScalar: true})
	require.NoError(t, err)
	require.Equal(t, "12025550199", claims.Dest.Value)
}

func TestVerify_UnsupportedAlgRejected(t *testing.T) {
	t.Parallel()

	_, pub, _, err := cryptoutilJose.GenerateES256KeyPair()
	require.NoError(t, err)

	parsed := &Parsed{
		Header: Header{Alg: "RS256", Typ: Typ, Ppt: Ppt, X5u: "https://cert.example.com/sp.pem"},
	}

	_, err = Verify(parsed, pub, VerifyOptions{})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindInvalidIdentityHeader, appErr.Kind)
}

func TestParse_RejectsWrongSegmentCount(t *testing.T) {
	t.Parallel()

	_, err := Parse("only.two")
	require.Error(t, err)
}
