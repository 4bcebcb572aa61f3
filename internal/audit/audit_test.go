// Copyright (c) 2025 Justin Cranford

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_WritesStructuredEventToEachHandler(t *testing.T) {
	t.Parallel()

	var bufA, bufB bytes.Buffer

	logger := NewLogger(
		slog.NewJSONHandler(&bufA, nil),
		slog.NewJSONHandler(&bufB, nil),
	)

	logger.Record(context.Background(), Event{
		Operation:     "verify",
		Outcome:       "ok",
		CorrelationID: "corr-1",
		Detail:        map[string]any{"status": 200},
	})

	for _, buf := range []*bytes.Buffer{&bufA, &bufB} {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Equal(t, "verify", decoded["operation"])
		require.Equal(t, "ok", decoded["outcome"])
		require.Equal(t, "corr-1", decoded["correlation_id"])
	}
}

func TestNewLogger_DefaultsToDiscard(t *testing.T) {
	t.Parallel()

	logger := NewLogger()
	logger.Record(context.Background(), Event{Operation: "noop"})
}
