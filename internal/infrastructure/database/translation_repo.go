package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tscatalog/internal/domain/entities"
	"tscatalog/internal/ports/output"
)

var _ output.TranslationRepository = (*TranslationRepository)(nil)

var translationColumns = []string{
	"source", "format", "locale", "context", "key", "text", "unfinished", "forms", "updated_at",
}

const selectTranslations = `
SELECT source, format, locale, context, key, text, unfinished, forms, updated_at
FROM translations
ORDER BY source, id`

const countByLocale = `
SELECT locale, COUNT(*)
FROM translations
GROUP BY locale`

type TranslationRepository struct {
	pool *pgxpool.Pool
}

func NewTranslationRepository(pool *pgxpool.Pool) *TranslationRepository {
	return &TranslationRepository{pool: pool}
}

// ReplaceSource swaps every stored row of src.Name for the entries of src in
// one transaction. A key repeated in src keeps its last occurrence.
func (r *TranslationRepository) ReplaceSource(ctx context.Context, src *entities.Source) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM translations WHERE source = $1`, src.Name); err != nil {
		return fmt.Errorf("delete source %s: %w", src.Name, err)
	}

	entries := lastWins(src.Entries)
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = entryToRow(src, e)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"translations"}, translationColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy source %s: %w", src.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit source %s: %w", src.Name, err)
	}
	return nil
}

// FindSources returns the stored sources ordered by name, entries in insertion order.
func (r *TranslationRepository) FindSources(ctx context.Context) ([]entities.Source, error) {
	rows, err := r.pool.Query(ctx, selectTranslations)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	var out []entities.Source
	for rows.Next() {
		var row translationRow
		if err := rows.Scan(&row.Source, &row.Format, &row.Locale, &row.Context, &row.Key,
			&row.Text, &row.Unfinished, &row.Forms, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].Name != row.Source {
			out = append(out, entities.Source{
				Name:      row.Source,
				Format:    row.Format,
				Locale:    row.Locale,
				UpdatedAt: pgtypeTimestamptzToTime(row.UpdatedAt),
			})
		}
		last := &out[len(out)-1]
		last.Entries = append(last.Entries, rowToEntry(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read translations: %w", err)
	}
	return out, nil
}

func (r *TranslationRepository) DeleteSource(ctx context.Context, name string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM translations WHERE source = $1`, name); err != nil {
		return fmt.Errorf("delete source %s: %w", name, err)
	}
	return nil
}

func (r *TranslationRepository) CountByLocale(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, countByLocale)
	if err != nil {
		return nil, fmt.Errorf("count by locale: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			locale string
			n      int64
		)
		if err := rows.Scan(&locale, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[locale] = n
	}
	return out, rows.Err()
}

// lastWins drops earlier duplicates of a (context, key) pair, keeping the
// position of the first occurrence.
func lastWins(entries []entities.Entry) []entities.Entry {
	type id struct{ context, key string }
	index := make(map[id]int, len(entries))
	out := make([]entities.Entry, 0, len(entries))
	for _, e := range entries {
		k := id{e.Context, e.Key}
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}
