package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesOnType(t *testing.T) {
	err := DuplicateIdentifierError("user", "42")

	assert.True(t, stderrors.Is(err, ErrDuplicateIdentifier))
	assert.False(t, stderrors.Is(err, ErrUnknownIdentifier))

	wrapped := fmt.Errorf("building nodes: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrDuplicateIdentifier))
}

func TestIdentifierErrorsCarryContext(t *testing.T) {
	err := UnknownIdentifierError("account", "99")

	assert.Equal(t, "99", err.Context["id"])
	assert.Equal(t, "account", err.Context["entity_type"])
	assert.Equal(t, "unknown account id 99", err.Error())
	assert.False(t, err.IsFatal())
}

func TestSourceFetchWrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := SourceFetchErrorf(cause, "fetch %s nodes", "Transaction")
	require.NotNil(t, err)

	assert.True(t, stderrors.Is(err, ErrSourceFetch))
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, IsFatal(err))
	assert.Equal(t, ErrorTypeSourceFetch, GetType(err))
	assert.Contains(t, err.DetailedString(), "[CRITICAL] [SOURCE_FETCH]")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeDatabase, SeverityLow, "noop"))
}

func TestGetSeverityForeignError(t *testing.T) {
	assert.Equal(t, SeverityMedium, GetSeverity(stderrors.New("plain")))
	assert.Equal(t, SeverityLow, GetSeverity(nil))
	assert.Equal(t, SeverityHigh, GetSeverity(CoercionErrorf("ragged")))
}

func TestStackTraceSkippedForLowSeverity(t *testing.T) {
	assert.Empty(t, UnknownIdentifierError("account", "99").StackTrace)
	assert.NotEmpty(t, DuplicateIdentifierError("account", "99").StackTrace)
	assert.NotEmpty(t, Wrap(stderrors.New("x"), ErrorTypeDatabase, SeverityHigh, "op").StackTrace)
	assert.Empty(t, Wrap(stderrors.New("x"), ErrorTypeDatabase, SeverityLow, "op").StackTrace)
}
