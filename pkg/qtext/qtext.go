// Package qtext implements the text conventions of Qt translation strings.
package qtext

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	markerRe   = regexp.MustCompile(`%L?([1-9][0-9]?)`)
	cjkAccelRe = regexp.MustCompile(`\(&[^&\s]\)`)
)

// Arg substitutes place markers (%1 .. %99, optionally written %L1) the way
// chained QString::arg calls do: the lowest-numbered marker receives the first
// argument, the next lowest the second, and so on. Markers left without an
// argument are kept.
func Arg(text string, args ...string) string {
	if len(args) == 0 {
		return text
	}
	matches := markerRe.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	seen := map[int]struct{}{}
	for _, m := range matches {
		seen[markerNumber(text, m)] = struct{}{}
	}
	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	repl := make(map[int]string, len(args))
	for i, n := range numbers {
		if i >= len(args) {
			break
		}
		repl[n] = args[i]
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		r, ok := repl[markerNumber(text, m)]
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(r)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func markerNumber(text string, m []int) int {
	n, _ := strconv.Atoi(text[m[2]:m[3]])
	return n
}

// StripAccelerator removes keyboard accelerator markers: "&File" becomes
// "File", "&&" becomes "&" and CJK style suffixes such as "(&W)" are dropped.
func StripAccelerator(text string) string {
	text = cjkAccelRe.ReplaceAllString(text, "")
	if !strings.Contains(text, "&") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] != '&' {
			b.WriteByte(text[i])
			continue
		}
		if i+1 < len(text) && text[i+1] == '&' {
			b.WriteByte('&')
			i++
		}
	}
	return b.String()
}
