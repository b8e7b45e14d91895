// pkg/mvt/errors.go - Error taxonomy for vector tile parsing
package mvt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the feature-level failure modes. Both are deterministic
// functions of the input bytes, so callers should never retry on them.
var (
	// ErrGeometry indicates a malformed geometry command stream: an Unknown
	// geometry type, or a ClosePath with no coordinates accumulated.
	ErrGeometry = errors.New("geometry section contains errors")

	// ErrTags indicates a malformed tag list: odd length or an index outside
	// the layer's key or value dictionary.
	ErrTags = errors.New("tags section contains errors")
)

// ParserError is the unified error wrapper returned by the public API. It
// carries exactly one underlying cause, reachable via errors.Is/errors.As:
// a *VersionError, ErrGeometry, ErrTags, or a *DecodeError.
type ParserError struct {
	Err error
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *ParserError) Unwrap() error {
	return e.Err
}

func newParserError(err error) *ParserError {
	return &ParserError{Err: err}
}

// VersionError indicates a layer declaring an unsupported vector tile
// version. Only versions 1 and 2 are supported.
type VersionError struct {
	LayerName string
	Version   uint32
}

// Error implements the error interface.
func (e *VersionError) Error() string {
	return fmt.Sprintf("vector tile version not supported for layer %q (found version: %d)", e.LayerName, e.Version)
}

// DecodeError indicates that the byte buffer is not a well-formed tile
// envelope, or that a feature field could not be interpreted (for example a
// geometry type integer outside the known range).
type DecodeError struct {
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode vector tile: %v", e.Cause)
}

// Unwrap returns the wrapped decode failure.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
