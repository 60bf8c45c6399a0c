package qtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArg(t *testing.T) {
	tests := []struct {
		name string
		text string
		args []string
		want string
	}{
		{name: "single", text: `The directory "%1" does not exist!`, args: []string{"/tmp"}, want: `The directory "/tmp" does not exist!`},
		{name: "repeated marker", text: "%1 and %1", args: []string{"x"}, want: "x and x"},
		{name: "ordered by number", text: "%2 before %1", args: []string{"a", "b"}, want: "b before a"},
		{name: "gaps in numbering", text: "%3 then %7", args: []string{"a", "b"}, want: "a then b"},
		{name: "missing argument", text: "%1 of %2", args: []string{"3"}, want: "3 of %2"},
		{name: "no arguments", text: "%1", want: "%1"},
		{name: "locale marker", text: "%L1 items", args: []string{"1,000"}, want: "1,000 items"},
		{name: "two digits", text: "%10|%2", args: []string{"two", "ten"}, want: "ten|two"},
		{name: "argument is not rescanned", text: "%1 %2", args: []string{"%2", "b"}, want: "%2 b"},
		{name: "percent alone", text: "100%", args: []string{"x"}, want: "100%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Arg(tc.text, tc.args...))
		})
	}
}

func TestStripAccelerator(t *testing.T) {
	tests := map[string]string{
		"&Window":         "Window",
		"Pre&ferences...": "Preferences...",
		"Save && Close":   "Save & Close",
		"ウィンドウ(&W)":      "ウィンドウ",
		"Fit All":         "Fit All",
		"trailing&":       "trailing",
		"":                "",
	}
	for in, want := range tests {
		require.Equal(t, want, StripAccelerator(in), in)
	}
}
