// Copyright (c) 2025 Justin Cranford

// Package digests provides the hash primitives the signing and verification
// paths need. STIR/SHAKEN pins ES256, so SHA-256 is the only digest in play,
// but the function is kept standalone (rather than inlined into the signer)
// so tests can exercise it independently of any key material.
package digests

import "crypto/sha256"

// SHA256 returns the 32-byte SHA-256 digest of data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
