package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrMalformedSource   = errors.New("malformed resource source")
	ErrUnsupportedFormat = errors.New("unsupported resource format")
	ErrNoSources         = errors.New("no resource sources found")
	ErrNoRepository      = errors.New("no translation repository configured")
	ErrUnknownLocale     = errors.New("unknown locale")
)

// ParseError reports a resource source that could not be parsed.
// Line is 0 when the position is unknown.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrMalformedSource.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedSource
}

// Code returns a stable identifier for err, or "" when err is not a domain error.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedSource):
		return "malformed_source"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrNoSources):
		return "no_sources"
	case errors.Is(err, ErrNoRepository):
		return "no_repository"
	case errors.Is(err, ErrUnknownLocale):
		return "unknown_locale"
	default:
		return ""
	}
}
