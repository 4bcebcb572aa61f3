// Copyright (c) 2025 Justin Cranford

package main

import (
	"log/slog"
	"os"

	"stirshaken/internal/audit"
)

// newAuditLogger builds the CLI's default audit sink: a single text
// handler on stderr. Callers that want to mirror audit events elsewhere
// (file, network) pass additional handlers to audit.NewLogger themselves;
// the CLI only ever needs the one.
func newAuditLogger() *audit.Logger {
	return audit.NewLogger(slog.NewTextHandler(os.Stderr, nil))
}

// outcomeOf renders a nil/non-nil error as the audit event's outcome field.
func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
