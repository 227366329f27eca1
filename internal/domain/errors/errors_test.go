package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	err := ConfigError("unknown bridge")
	assert.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, "unknown bridge", err.Error())
}

func TestRPCFailure_WrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := RPCFailure("rpc call failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestHandlerError_IncludesContext(t *testing.T) {
	err := HandlerError("router", "ethereum", 100, 200, "0xabc", "boom", nil)
	assert.Contains(t, err.Error(), "router")
	assert.Contains(t, err.Error(), "ethereum")
	assert.Contains(t, err.Error(), "[100,200]")
}

func TestIntegrityInvariantViolation(t *testing.T) {
	err := IntegrityInvariantViolation("missing natural key")
	assert.ErrorIs(t, err, ErrIntegrityInvariant)
}

func TestHandlerDuplicateError(t *testing.T) {
	cause := stderrors.New("unique constraint")
	err := HandlerDuplicateError("duplicate natural key", cause)
	assert.ErrorIs(t, err, cause)
}
