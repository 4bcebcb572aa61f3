// Copyright (c) 2025 Justin Cranford

package subject

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_RequiresCountryAndCommonName(t *testing.T) {
	t.Parallel()

	require.Error(t, Name{}.Validate())
	require.Error(t, Name{Country: "US"}.Validate())
	require.NoError(t, Name{Country: "US", CommonName: "Example SP CA"}.Validate())
}

func TestPKIXName_RendersSingleValuedFields(t *testing.T) {
	t.Parallel()

	n := Name{Country: "US", CommonName: "Example SP CA"}
	pkixName := n.PKIXName()

	require.Equal(t, []string{"US"}, pkixName.Country)
	require.Equal(t, "Example SP CA", pkixName.CommonName)
}
