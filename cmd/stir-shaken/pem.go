// Copyright (c) 2025 Justin Cranford

package main

import "encoding/pem"

func pemEncode(blockType string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}

// decodePEMOrRaw returns the DER bytes of raw: its first PEM block if one
// decodes, otherwise raw itself unchanged.
func decodePEMOrRaw(raw []byte) []byte {
	if block, _ := pem.Decode(raw); block != nil {
		return block.Bytes
	}

	return raw
}
