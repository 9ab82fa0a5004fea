package helper

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// GivenUniqueID returns a fresh time-ordered identifier.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenUniqueTableSuffix returns an identifier usable inside a Postgres table name.
func GivenUniqueTableSuffix(t testing.TB) string {
	t.Helper()

	return strings.ReplaceAll(GivenUniqueID(t), "-", "")
}
