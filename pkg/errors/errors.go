// Package errors provides custom error types for the kidgame system.
// These errors enable programmatic error checking with errors.Is and
// carry enough context to report exactly which file or entry failed.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library helpers so callers can
// stay on one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the kidgame system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoBackup indicates that a revert was requested with no applicable snapshot
	ErrNoBackup = errors.New("no backup available")

	// ErrConflict indicates a duplicate identity within one system's catalog
	ErrConflict = errors.New("identity conflict")
)

// ParseError represents a malformed catalog or overlay document.
// Parse failures are fatal for the whole run: nothing is written after one.
type ParseError struct {
	Format  string // "xml", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "delete"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// IdentityConflictError reports two entries in one system's catalog that
// resolve to the same identity. The conflict is reported and processing
// continues for unaffected entries; the entries are never silently merged.
type IdentityConflictError struct {
	System   string
	Identity string
	Paths    []string
}

// Error implements the error interface
func (e *IdentityConflictError) Error() string {
	return fmt.Sprintf("identity %q in system %s claimed by multiple entries: %v", e.Identity, e.System, e.Paths)
}

// Is implements errors.Is support
func (e *IdentityConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NoBackupError indicates a revert was requested while the snapshot stack
// holds nothing covering the requested scope. Fatal for that invocation only.
type NoBackupError struct {
	Scope []string
}

// Error implements the error interface
func (e *NoBackupError) Error() string {
	if len(e.Scope) > 0 {
		return fmt.Sprintf("no backup covering systems %v", e.Scope)
	}
	return "no backup available"
}

// Is implements errors.Is support
func (e *NoBackupError) Is(target error) bool {
	return target == ErrNoBackup
}

// MissingAssetWarning reports a referenced media file that is absent on
// disk. Non-fatal: collected and surfaced to the user, acted on only by
// remove-incomplete.
type MissingAssetWarning struct {
	System string
	Name   string
	Asset  string // "rom", "image", "video"
	Path   string
}

// Error implements the error interface
func (e *MissingAssetWarning) Error() string {
	return fmt.Sprintf("%s/%s: missing %s %s", e.System, e.Name, e.Asset, e.Path)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Output    string // Stdout/stderr output from the process
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsNoBackup checks if an error indicates an empty snapshot stack
func IsNoBackup(err error) bool {
	return errors.Is(err, ErrNoBackup)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
