// Copyright (c) 2025 Justin Cranford

package jose

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestB64URLInvariants verifies the round-trip and alphabet invariants
// RFC 7515 §2 base64url encoding must hold for any byte string.
func TestB64URLInvariants(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(nil)

	properties.Property("decode(encode(x)) == x for any byte string", prop.ForAll(
		func(data []byte) bool {
			decoded, err := DecodeSegment(EncodeSegment(data))
			if err != nil {
				return false
			}

			if len(decoded) != len(data) {
				return false
			}

			for i := range decoded {
				if decoded[i] != data[i] {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("encoded segments never contain '=' padding", prop.ForAll(
		func(data []byte) bool {
			encoded := EncodeSegment(data)
			for _, r := range encoded {
				if r == '=' {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
