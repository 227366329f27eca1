// Package errors defines the error taxonomy shared by every bridge package.
package errors

import "errors"

// Sentinel errors, one per taxonomy member.
var (
	ErrConfig               = errors.New("config error")
	ErrRPCFailure           = errors.New("rpc failure")
	ErrDecode               = errors.New("decode error")
	ErrHandlerDuplicate     = errors.New("handler error: duplicate key")
	ErrHandler              = errors.New("handler error")
	ErrProvider             = errors.New("provider error")
	ErrIntegrityInvariant   = errors.New("integrity invariant violation")
)

// AppError carries a taxonomy tag alongside a message and wrapped cause.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// ConfigError reports an unknown bridge/chain or missing argument. Fatal.
func ConfigError(message string) *AppError {
	return newAppError(ErrConfig, message, ErrConfig)
}

// RPCFailure reports a transient JSON-RPC/HTTP error, retried by the caller.
func RPCFailure(message string, err error) *AppError {
	return newAppError(ErrRPCFailure, message, err)
}

// DecodeError reports an unknown topic0 or malformed payload. Non-fatal.
func DecodeError(message string) *AppError {
	return newAppError(ErrDecode, message, ErrDecode)
}

// HandlerDuplicateError reports a natural-key unique-constraint violation.
func HandlerDuplicateError(message string, err error) *AppError {
	return newAppError(ErrHandlerDuplicate, message, err)
}

// HandlerError reports any other per-kind handler failure. Event is skipped.
func HandlerError(bridge, chain string, start, end uint64, contract string, message string, err error) *AppError {
	return newAppError(ErrHandler, message+" ("+bridge+" "+chain+" ["+itoa(start)+","+itoa(end)+"] "+contract+")", err)
}

// ProviderError reports a token metadata/price lookup failure.
func ProviderError(message string, err error) *AppError {
	return newAppError(ErrProvider, message, err)
}

// IntegrityInvariantViolation reports a programmer error; callers should treat
// this as fatal and stop extraction loudly.
func IntegrityInvariantViolation(message string) *AppError {
	return newAppError(ErrIntegrityInvariant, message, ErrIntegrityInvariant)
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
