package entities

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrorKind tags an engine error with a stable taxonomy. The HTTP
// layer is the only place a Kind is mapped to a status code.
type ErrorKind string

const (
	ErrInvalidInput ErrorKind = "InvalidInput"
	ErrUnknownToken ErrorKind = "UnknownToken"
	ErrNoLiquidity  ErrorKind = "NoLiquidity"
	ErrTimeout      ErrorKind = "Timeout"
	ErrInternal     ErrorKind = "Internal"
)

// Error is a structured engine error. Engine-internal failures are
// always this type, never bare strings, so callers can branch on Kind
// without string matching.
type Error struct {
	Kind    ErrorKind
	Message string
	Token   *common.Address
	Cause   error
}

func (e *Error) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("%s: %s (token %s)", e.Kind, e.Message, e.Token.Hex())
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewInvalidInput(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NewUnknownToken(token common.Address, cause error) *Error {
	return &Error{Kind: ErrUnknownToken, Message: "failed to resolve token metadata", Token: &token, Cause: cause}
}

func NewNoLiquidity(message string) *Error {
	return &Error{Kind: ErrNoLiquidity, Message: message}
}

func NewTimeout(cause error) *Error {
	return &Error{Kind: ErrTimeout, Message: "request deadline exceeded", Cause: cause}
}

func NewInternal(message string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Cause: cause}
}
