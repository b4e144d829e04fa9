package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeValue      = errors.New("vbyte: negative value")
	ErrVByteOverflow      = errors.New("vbyte: value too large")
	ErrTruncatedValue     = errors.New("vbyte: truncated value")
	ErrInvalidPostingList = errors.New("invalid posting list")
	ErrIndexNotLoaded     = errors.New("index not loaded")
	ErrEmptyDictionary    = errors.New("lemma dictionary is empty")
	ErrCorruptIndexFile   = errors.New("corrupt index file")
)

// EngineError attaches a component name and message to a sentinel error.
type EngineError struct {
	Err       error
	Component string
	Message   string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Err.Error(), e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func New(sentinel error, component string, message string) *EngineError {
	return &EngineError{
		Err:       sentinel,
		Component: component,
		Message:   message,
	}
}

func Newf(sentinel error, component string, format string, args ...any) *EngineError {
	return &EngineError{
		Err:       sentinel,
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	}
}
