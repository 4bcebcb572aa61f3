// Copyright (c) 2025 Justin Cranford

package main

import (
	"errors"

	"stirshaken/internal/apperr"
)

// isValidationError reports whether err represents a caller/input mistake
// (exit code 1) rather than a crypto or IO failure (exit code 2). Every
// *apperr.Error this core raises with a SIP mapping, plus KindGeneral, is
// treated as a validation failure; KindCrypto and unrecognized errors
// (file-not-found, network failures surfaced by os/net) are not.
func isValidationError(err error) bool {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Kind != apperr.KindCrypto
	}

	return false
}
