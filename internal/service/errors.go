package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("dados inválidos")
	ErrTaskNotFound     = errors.New("Tarefa não encontrada")
	ErrCategoryNotFound = errors.New("Categoria não encontrada")
)

// InputError carries a client-facing validation message and matches ErrInvalidInput.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// CategoryInUseError rejects deleting a category that tasks still reference.
type CategoryInUseError struct {
	Tasks int64
}

func (e *CategoryInUseError) Error() string {
	return "Não é possível deletar categoria com tarefas associadas"
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrInvalidInput }

// StoreError wraps a persistence failure. Msg names the failed operation and
// Err keeps the driver's detail.
type StoreError struct {
	Msg string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Detail is the underlying error text, or empty.
func (e *StoreError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func storeErr(msg string, err error) error {
	return &StoreError{Msg: msg, Err: err}
}
