package input

import (
	"context"
	"io"
	"io/fs"

	"tscatalog/internal/domain"
)

type CatalogUseCase interface {
	Load(ctx context.Context, fsys fs.FS) (*domain.Catalog, *domain.LoadReport, error)
	LoadRepository(ctx context.Context) (*domain.Catalog, *domain.LoadReport, error)
	Import(ctx context.Context, fsys fs.FS) (*domain.LoadReport, error)
	Export(cat *domain.Catalog, locale string, w io.Writer) error
}
