package output

import (
	"context"

	"tscatalog/internal/domain/entities"
)

type TranslationRepository interface {
	// ReplaceSource stores src, dropping every row previously stored under src.Name.
	ReplaceSource(ctx context.Context, src *entities.Source) error
	FindSources(ctx context.Context) ([]entities.Source, error)
	DeleteSource(ctx context.Context, name string) error
	CountByLocale(ctx context.Context) (map[string]int64, error)
}
