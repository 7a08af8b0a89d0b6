package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTrainingFailure    = errors.New("training failure")
	ErrTrainingInProgress = errors.New("training already in progress")
	ErrPersistence        = errors.New("persistence failure")
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrTagConflict        = errors.New("intent tag already in use")
)

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

func (*InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func NewInvalidRequestError(message string) error {
	return &InvalidRequestError{Message: message}
}

type TrainingError struct {
	Reason string
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("training failure: %s", e.Reason)
}

func (*TrainingError) Unwrap() error {
	return ErrTrainingFailure
}

func NewTrainingError(reason string) error {
	return &TrainingError{Reason: reason}
}

// PersistenceError wraps an I/O or encoding error on a persisted document.
// errors.Is matches both ErrPersistence and the underlying cause.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

func NewPersistenceError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}

type ShapeMismatchError struct {
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("input vector has %d dimensions, classifier expects %d", e.Got, e.Expected)
}

func (*ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

func NewShapeMismatchError(expected, got int) error {
	return &ShapeMismatchError{Expected: expected, Got: got}
}

type TagConflictError struct {
	Tag string
}

func (e *TagConflictError) Error() string {
	return fmt.Sprintf("intent tag %q already in use", e.Tag)
}

func (*TagConflictError) Unwrap() error {
	return ErrTagConflict
}

func NewTagConflictError(tag string) error {
	return &TagConflictError{Tag: tag}
}
