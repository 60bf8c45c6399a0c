package output

import (
	"io"

	"tscatalog/internal/domain/entities"
)

// SourceParser turns the bytes of one resource file into a Source.
type SourceParser interface {
	Format() string
	// Match reports whether the parser handles the file name.
	Match(name string) bool
	// Parse returns a *domain.ParseError when the resource cannot be read at all.
	// Broken individual messages are reported in Source.Skipped instead.
	Parse(name string, data []byte) (*entities.Source, error)
}

// SourceWriter serializes a Source in one resource format.
type SourceWriter interface {
	Format() string
	// FileName returns the conventional file name for a resource of locale.
	FileName(name, locale string) string
	Write(w io.Writer, src *entities.Source) error
}
