package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	cause := errors.New("element <message> closed by </context>")
	err := &ParseError{Source: "SUIT_msg_fr.ts", Line: 12, Err: cause}

	require.Equal(t, "parse SUIT_msg_fr.ts:12: element <message> closed by </context>", err.Error())
	require.ErrorIs(t, err, ErrMalformedSource)
	require.ErrorIs(t, err, cause)

	noLine := &ParseError{Source: "x.toml", Err: cause}
	require.Equal(t, "parse x.toml: element <message> closed by </context>", noLine.Error())
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{err: nil, code: ""},
		{err: &ParseError{Source: "a.ts", Err: errors.New("x")}, code: "malformed_source"},
		{err: fmt.Errorf("load: %w", ErrNoSources), code: "no_sources"},
		{err: ErrUnsupportedFormat, code: "unsupported_format"},
		{err: ErrNoRepository, code: "no_repository"},
		{err: ErrUnknownLocale, code: "unknown_locale"},
		{err: errors.New("other"), code: ""},
	}
	for _, tc := range tests {
		require.Equal(t, tc.code, Code(tc.err))
	}
}

func TestLoadReportErr(t *testing.T) {
	r := &LoadReport{}
	require.NoError(t, r.Err())
	require.False(t, r.HasErrors())

	r.Errors = append(r.Errors, &ParseError{Source: "a.ts", Err: errors.New("bad")})
	require.True(t, r.HasErrors())
	require.ErrorIs(t, r.Err(), ErrMalformedSource)
}
