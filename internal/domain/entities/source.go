package entities

import "time"

// Source is one parsed resource: a TS file, a message file or a set of stored rows.
type Source struct {
	Name      string
	Format    string
	Locale    string // empty when the resource does not name its language
	Entries   []Entry
	Skipped   []SkippedEntry
	UpdatedAt time.Time
}

// SkippedEntry records a message that was dropped while parsing a source.
type SkippedEntry struct {
	Source  string
	Line    int
	Context string
	Key     string
	Reason  string
}

// Malformed reports whether the entry was dropped because it is broken,
// as opposed to deliberately ignored (obsolete, empty or unfinished translations).
func (s SkippedEntry) Malformed() bool {
	switch s.Reason {
	case ReasonObsolete, ReasonEmptyTranslation, ReasonUnfinished:
		return false
	default:
		return true
	}
}

// Skip reasons.
const (
	ReasonMissingSource    = "message has no source"
	ReasonDuplicateSource  = "message has several sources"
	ReasonBlankKey         = "message key is blank"
	ReasonMissingContext   = "context has no name"
	ReasonObsolete         = "translation is obsolete"
	ReasonEmptyTranslation = "translation is empty"
	ReasonUnfinished       = "translation is unfinished"
)
