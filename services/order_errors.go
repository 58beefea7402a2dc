package services

import (
	"errors"
	"fmt"
)

// Kategori error domain order. Controller memetakan masing-masing ke status HTTP.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrConflict          = errors.New("conflict")
)

// OrderError membawa pesan untuk caller dan kategori untuk errors.Is
type OrderError struct {
	Kind    error
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Kind
}

func newOrderError(kind error, format string, args ...interface{}) *OrderError {
	return &OrderError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...interface{}) error {
	return newOrderError(ErrInvalidInput, format, args...)
}

func notFound(format string, args ...interface{}) error {
	return newOrderError(ErrNotFound, format, args...)
}

func forbidden(format string, args ...interface{}) error {
	return newOrderError(ErrForbidden, format, args...)
}
