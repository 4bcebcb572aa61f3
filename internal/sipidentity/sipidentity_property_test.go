// Copyright (c) 2025 Justin Cranford

package sipidentity

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSerializeParseInvariants verifies the round-trip property spec.md §8
// requires: parse(serialize(jws, url)) == (jws, url), for any JWS-shaped
// compact string and any absolute info URL.
func TestSerializeParseInvariants(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(nil)

	properties.Property("parse(serialize(jws, url)) recovers jws and url", prop.ForAll(
		func(headerSeg, payloadSeg, sigSeg, host, path string) bool {
			jws := fmt.Sprintf("%s.%s.%s", headerSeg, payloadSeg, sigSeg)
			infoURL := fmt.Sprintf("https://%s.example/%s", host, path)

			serialized := Serialize(jws, infoURL)

			id, err := Parse(serialized, ParseOptions{})
			if err != nil {
				return false
			}

			return id.JWS == jws && id.InfoURL == infoURL && id.Alg == algValue && id.Ppt == pptValue
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
