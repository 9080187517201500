package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories of a conversion
var (
	ErrDestinationExists = errors.New("destination already exists")
	ErrHookLoad          = errors.New("cannot load transform hook")
	ErrHookExecution     = errors.New("transform hook failed")
	ErrSourceRead        = errors.New("cannot read password store")
	ErrDestinationWrite  = errors.New("cannot write destination database")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DestinationAlreadyExistsError is returned when the destination path is
// occupied and overwriting was not requested
type DestinationAlreadyExistsError struct {
	Path string
}

func (e *DestinationAlreadyExistsError) Error() string {
	return fmt.Sprintf("destination %s already exists (use --force-overwrite to replace it)", e.Path)
}

func (e *DestinationAlreadyExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// HookLoadError represents a transform hook that could not be loaded
type HookLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *HookLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot load hook %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot load hook %s: %s", e.Path, e.Reason)
}

func (e *HookLoadError) Unwrap() error {
	return e.Err
}

func (e *HookLoadError) Is(target error) bool {
	return target == ErrHookLoad
}

// HookExecutionError represents a transform hook failing on one record
type HookExecutionError struct {
	Identifier string
	Err        error
}

func (e *HookExecutionError) Error() string {
	return fmt.Sprintf("hook failed on %s: %v", e.Identifier, e.Err)
}

func (e *HookExecutionError) Unwrap() error {
	return e.Err
}

func (e *HookExecutionError) Is(target error) bool {
	return target == ErrHookExecution
}

// SourceReadError represents a scan or decryption failure
type SourceReadError struct {
	Identifier string // Empty when the failure is not tied to a record
	Err        error
}

func (e *SourceReadError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("cannot read password store: %v", e.Err)
	}
	return fmt.Sprintf("cannot read %s: %v", e.Identifier, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

func (e *SourceReadError) Is(target error) bool {
	return target == ErrSourceRead
}

// DestinationWriteError represents a failure creating or persisting the
// destination database
type DestinationWriteError struct {
	Path string
	Err  error
}

func (e *DestinationWriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *DestinationWriteError) Unwrap() error {
	return e.Err
}

func (e *DestinationWriteError) Is(target error) bool {
	return target == ErrDestinationWrite
}

// Category returns the short operator-facing message for err
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDestinationExists):
		return "keepass database file already exists! Use -f if you want to force overwriting."
	case errors.Is(err, ErrHookLoad):
		return "error while importing the provided transform hook."
	case errors.Is(err, ErrHookExecution):
		return "error while executing the provided transform hook."
	case errors.Is(err, ErrSourceRead):
		return "error while reading the password-store."
	case errors.Is(err, ErrDestinationWrite):
		return "error while writing the new keepass database."
	default:
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return vErr.Error()
		}
		return "unexpected error."
	}
}
