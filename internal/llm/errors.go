package llm

import (
	"errors"
	"fmt"
)

// Code classifies why a remote call did not produce a usable answer.
type Code string

const (
	CodeAPIKeyRequired Code = "API_KEY_REQUIRED"
	CodeNetwork        Code = "NETWORK"
	CodeHTTPStatus     Code = "HTTP_STATUS"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeEmptyResponse  Code = "EMPTY_RESPONSE"
	CodeParse          Code = "PARSE"
)

type EngineError struct {
	Code       Code
	Message    string
	StatusCode int
	Err        error
}

func (e *EngineError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func newError(code Code, message string, err error) *EngineError {
	return &EngineError{Code: code, Message: message, Err: err}
}

// ErrAPIKeyRequired is returned by operations that have no local fallback.
var ErrAPIKeyRequired = newError(CodeAPIKeyRequired, "an API key is required for this feature", nil)

// CodeOf extracts the EngineError code from err, or "" when err is not one.
func CodeOf(err error) Code {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
