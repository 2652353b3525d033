package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every wrapper type below reports itself as one of these via errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrProcessing    = errors.New("processing error")
)

// Configuration sentinels.
var (
	ErrCacheMismatch   = errors.New("embedding cache does not match corpus")
	ErrEncoderMismatch = errors.New("embedding cache was built by a different encoder")
	ErrCorpusSchema    = errors.New("corpus is missing a required column")
	ErrUnknownProvider = errors.New("unknown embedding provider")
)

// Validation sentinels.
var (
	ErrInvalidClusterCount       = errors.New("number of clusters must be greater than 0")
	ErrInsufficientCorpus        = errors.New("corpus must have at least 2 sentences")
	ErrClusterCountExceedsCorpus = errors.New("number of sentences must be greater than or equal to number of clusters")
	ErrInvalidTopK               = errors.New("number of results must be greater than 0")
)

// Processing sentinels.
var (
	ErrEncoding         = errors.New("encoding failed")
	ErrClusteringFailed = errors.New("clustering failed")
)

// ConfigurationError is fatal at startup.
type ConfigurationError struct {
	Detail  string
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("configuration: %s", e.Wrapped)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Wrapped, e.Detail)
}

func (e *ConfigurationError) Unwrap() error { return e.Wrapped }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(wrapped error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...), Wrapped: wrapped}
}

// ValidationError is a caller-correctable input error.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return e.Wrapped.Error()
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// ProcessingError reports a failure while handling otherwise valid input.
type ProcessingError struct {
	Op      string
	Size    int
	Wrapped error // ErrEncoding or ErrClusteringFailed
	Cause   error
}

func (e *ProcessingError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s (inputs=%d)", e.Op, e.Wrapped, e.Size)
	}
	return fmt.Sprintf("%s: %s (inputs=%d): %v", e.Op, e.Wrapped, e.Size, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ProcessingError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Wrapped}
	}
	return []error{e.Wrapped, e.Cause}
}

func (e *ProcessingError) Is(target error) bool { return target == ErrProcessing }

// NewEncodingError wraps an encoder failure.
func NewEncodingError(op string, size int, cause error) *ProcessingError {
	return &ProcessingError{Op: op, Size: size, Wrapped: ErrEncoding, Cause: cause}
}

// NewClusteringError wraps an internal clustering failure.
func NewClusteringError(op string, size int, cause error) *ProcessingError {
	return &ProcessingError{Op: op, Size: size, Wrapped: ErrClusteringFailed, Cause: cause}
}
