package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates no draft question carries the given index.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound is returned when no credentials are known for a user.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when credentials exist but are no longer valid.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownCategory indicates a category name outside the closed vocabulary.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownQuestionType indicates a type code or label outside 0..3.
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// ValidationError reports a draft that cannot be submitted.
// Index is the question index, or -1 for quiz-level fields.
type ValidationError struct {
	Field  string
	Index  int
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s of question %d: %s", e.Field, e.Index, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeError reports a malformed upload row. Row is -1 for table-level problems.
type DecodeError struct {
	Row    int
	Column string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("decode upload: %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("decode upload: row %d, %s: %s", e.Row, e.Column, e.Reason)
}

// NetworkError means the backend could not be reached or no response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError means the backend answered with a non-success status.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.Status, e.Message)
}

// BoundsError reports a page outside 1..Total.
type BoundsError struct {
	Page  int
	Total int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.Total)
}
