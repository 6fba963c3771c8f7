package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseFailed indicates a source file could not be parsed in either dialect
	ParseFailed ErrorCode = "PARSE_FAILED"
	// ConfigInvalid indicates a config value failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ConfigNotFound indicates an explicitly requested config file is missing
	ConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// ScoreCapExceeded indicates a file scored above the configured cap
	ScoreCapExceeded ErrorCode = "SCORE_CAP_EXCEEDED"
	// IOError indicates a filesystem or database failure
	IOError ErrorCode = "IO_ERROR"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// EditConfig suggests changing a config value
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// FtaError represents an error with code, message, and suggestions
type FtaError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a FtaError carrying the default fixes for its code.
func New(code ErrorCode, message string, cause error) *FtaError {
	return &FtaError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *FtaError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *FtaError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *FtaError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *FtaError) WithDetails(details interface{}) *FtaError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first FtaError in err's chain, or
// InternalError when there is none. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var fe *FtaError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return InternalError
}

// HasCode reports whether any FtaError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var fe *FtaError
		if !stderrors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.cause
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ParseFailed: {
		{
			Type:        EditConfig,
			Description: "Add the file to exclude_filenames in fta.json if it is not JavaScript or TypeScript",
		},
	},
	ConfigInvalid: {
		{
			Type:        OpenDocs,
			URL:         "https://ftaproject.dev/docs/configuration",
			Description: "Check the configuration reference",
		},
	},
	ConfigNotFound: {
		{
			Type:        RunCommand,
			Command:     "fta --config-path ./fta.json .",
			Safe:        true,
			Description: "Point --config-path at an existing file or drop the flag",
		},
	},
	ScoreCapExceeded: {
		{
			Type:        EditConfig,
			Description: "Refactor the file or raise score_cap in fta.json",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
