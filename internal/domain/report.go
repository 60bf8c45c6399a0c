package domain

import (
	"errors"

	"tscatalog/internal/domain/entities"
)

// LoadReport summarizes one catalog load.
type LoadReport struct {
	Sources    []string // names of the sources that were loaded
	Entries    int
	Duplicates int
	Skipped    []entities.SkippedEntry
	Errors     []*ParseError
}

// HasErrors reports whether at least one source was rejected.
func (r *LoadReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// Malformed returns the skipped entries that were dropped because they are broken.
func (r *LoadReport) Malformed() []entities.SkippedEntry {
	var out []entities.SkippedEntry
	for _, s := range r.Skipped {
		if s.Malformed() {
			out = append(out, s)
		}
	}
	return out
}

// Err joins the parse errors, or returns nil.
func (r *LoadReport) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
