package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"tscatalog/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

type translationRow struct {
	Source     string
	Format     string
	Locale     string
	Context    string
	Key        string
	Text       string
	Unfinished bool
	Forms      []string
	UpdatedAt  pgtype.Timestamptz
}

func rowToEntry(r translationRow) entities.Entry {
	e := entities.Entry{
		Context:    r.Context,
		Key:        r.Key,
		Text:       r.Text,
		Unfinished: r.Unfinished,
	}
	if len(r.Forms) > 0 {
		e.Forms = r.Forms
	}
	return e
}

func entryToRow(src *entities.Source, e entities.Entry) []any {
	forms := e.Forms
	if forms == nil {
		forms = []string{}
	}
	return []any{
		src.Name,
		src.Format,
		src.Locale,
		e.Context,
		e.Key,
		e.Text,
		e.Unfinished,
		forms,
		timeToPgtypeTimestamptz(src.UpdatedAt),
	}
}
