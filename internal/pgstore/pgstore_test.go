package pgstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-rag/internal/vectordb"
)

func TestWrapMissingTable_MapsToNotFound(t *testing.T) {
	err := wrapMissingTable(errors.New(`ERROR: relation "documents" does not exist (SQLSTATE=42P01)`))
	require.ErrorIs(t, err, vectordb.ErrNotFound)
}

func TestWrapMissingTable_PassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("pgdriver: connection refused")
	assert.Equal(t, cause, wrapMissingTable(cause))
	assert.NoError(t, wrapMissingTable(nil))
}

func TestDSN_DefaultsSSLModeWhenUnset(t *testing.T) {
	assert.Equal(t,
		"postgres://db.example.com:5432/rag?sslmode=disable",
		dsn("postgres://db.example.com:5432/rag"))
}

func TestDSN_KeepsExistingQueryParameters(t *testing.T) {
	assert.Equal(t,
		"postgres://db.example.com:5432/rag?application_name=campus&sslmode=disable",
		dsn("postgres://db.example.com:5432/rag?application_name=campus"))
}

func TestDSN_RespectsExplicitSSLMode(t *testing.T) {
	assert.Equal(t,
		"postgres://db.example.com:5432/rag?sslmode=require",
		dsn("postgres://db.example.com:5432/rag?sslmode=require"))
}
