package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"

	"tscatalog/internal/domain"
	"tscatalog/internal/domain/entities"
	"tscatalog/internal/ports/input"
	"tscatalog/internal/ports/output"
)

// ExportName is the base name of exported message files.
const ExportName = "messages"

// AppNameKey is the @default message holding the application name.
const AppNameKey = "APP_NAME"

var (
	_ input.CatalogUseCase = (*CatalogService)(nil)
	_ output.Translator    = (*domain.Catalog)(nil)
)

// Options controls discovery and catalog construction.
type Options struct {
	DefaultLocale     string
	IncludeUnfinished bool
	// Translators lists file name patterns (%A, %P, %L). When empty, Prefixes
	// select DefaultTranslators; without prefixes either, every file accepted
	// by a parser is loaded.
	Translators []string
	Prefixes    []string
	Languages   []string
	AppName     string
	// AppNameOverride, when set, replaces the @default APP_NAME translation
	// of every locale that defines one.
	AppNameOverride string
}

type CatalogService struct {
	opts    Options
	parsers []output.SourceParser
	writer  output.SourceWriter
	repo    output.TranslationRepository
	logger  *slog.Logger
}

// NewCatalogService wires the catalog use cases. writer and repo may be nil;
// the operations that need them then fail with ErrUnsupportedFormat or
// ErrNoRepository.
func NewCatalogService(
	opts Options,
	parsers []output.SourceParser,
	writer output.SourceWriter,
	repo output.TranslationRepository,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if def, ok := domain.NormalizeLocale(opts.DefaultLocale); ok {
		opts.DefaultLocale = def
	} else {
		opts.DefaultLocale = "en"
	}
	if len(opts.Translators) == 0 && len(opts.Prefixes) > 0 {
		opts.Translators = SplitPatterns(DefaultTranslators)
	}
	return &CatalogService{
		opts:    opts,
		parsers: parsers,
		writer:  writer,
		repo:    repo,
		logger:  logger,
	}
}

// Load discovers, parses and merges every resource source of fsys. Sources
// that cannot be parsed are logged, listed in the report and skipped.
func (s *CatalogService) Load(ctx context.Context, fsys fs.FS) (*domain.Catalog, *domain.LoadReport, error) {
	sources, report, err := s.ParseAll(ctx, fsys)
	if err != nil {
		return nil, report, err
	}
	return s.build(sources, report), report, nil
}

// LoadRepository builds a catalog from the translations stored in the repository.
func (s *CatalogService) LoadRepository(ctx context.Context) (*domain.Catalog, *domain.LoadReport, error) {
	if s.repo == nil {
		return nil, nil, domain.ErrNoRepository
	}
	stored, err := s.repo.FindSources(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("find sources: %w", err)
	}
	if len(stored) == 0 {
		return nil, &domain.LoadReport{}, domain.ErrNoSources
	}

	report := &domain.LoadReport{}
	sources := make([]*entities.Source, len(stored))
	for i := range stored {
		sources[i] = &stored[i]
		s.prepare(sources[i], report)
	}
	return s.build(sources, report), report, nil
}

// Import parses fsys and stores every readable source in the repository.
func (s *CatalogService) Import(ctx context.Context, fsys fs.FS) (*domain.LoadReport, error) {
	if s.repo == nil {
		return nil, domain.ErrNoRepository
	}
	sources, report, err := s.ParseAll(ctx, fsys)
	if err != nil {
		return report, err
	}
	keep := make(map[string]struct{}, len(sources)+len(report.Errors))
	for _, src := range sources {
		if err := s.repo.ReplaceSource(ctx, src); err != nil {
			return report, fmt.Errorf("store source %s: %w", src.Name, err)
		}
		keep[src.Name] = struct{}{}
		s.logger.Info("imported source", "source", src.Name, "locale", src.Locale, "entries", len(src.Entries))
	}
	for _, perr := range report.Errors {
		keep[perr.Source] = struct{}{}
	}
	return report, s.prune(ctx, keep)
}

// prune deletes stored sources that are not in keep.
func (s *CatalogService) prune(ctx context.Context, keep map[string]struct{}) error {
	stored, err := s.repo.FindSources(ctx)
	if err != nil {
		return fmt.Errorf("find sources: %w", err)
	}
	for _, src := range stored {
		if _, ok := keep[src.Name]; ok {
			continue
		}
		if err := s.repo.DeleteSource(ctx, src.Name); err != nil {
			return fmt.Errorf("delete source %s: %w", src.Name, err)
		}
		s.logger.Info("removed stale source", "source", src.Name)
	}
	return nil
}

// Export writes every entry of locale with the configured writer.
func (s *CatalogService) Export(cat *domain.Catalog, locale string, w io.Writer) error {
	if s.writer == nil {
		return domain.ErrUnsupportedFormat
	}
	if !cat.HasLocale(locale) {
		return fmt.Errorf("export %q: %w", locale, domain.ErrUnknownLocale)
	}
	base, ok := domain.NormalizeLocale(locale)
	if !ok {
		base = locale
	}
	src := &entities.Source{
		Name:    ExportName,
		Format:  s.writer.Format(),
		Locale:  base,
		Entries: cat.Entries(base),
	}
	return s.writer.Write(w, src)
}

// ExportFileName returns the file name Export output should be stored under.
func (s *CatalogService) ExportFileName(locale string) string {
	if s.writer == nil {
		return ""
	}
	return s.writer.FileName(ExportName, locale)
}

// ParseAll parses every discovered source. The error is non-nil only when
// discovery fails, nothing was found or ctx is done.
func (s *CatalogService) ParseAll(ctx context.Context, fsys fs.FS) ([]*entities.Source, *domain.LoadReport, error) {
	paths, err := s.Discover(fsys)
	if err != nil {
		return nil, nil, err
	}
	report := &domain.LoadReport{}
	if len(paths) == 0 {
		return nil, report, domain.ErrNoSources
	}

	var sources []*entities.Source
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		src, err := s.parseFile(fsys, p)
		if err != nil {
			var perr *domain.ParseError
			if !errors.As(err, &perr) {
				perr = &domain.ParseError{Source: p, Err: err}
			}
			s.logger.Warn("skipping resource source", "source", p, "error", perr.Error())
			report.Errors = append(report.Errors, perr)
			continue
		}
		s.prepare(src, report)
		sources = append(sources, src)
	}
	return sources, report, nil
}

// Discover lists the resource files of fsys that will be loaded, in load order.
func (s *CatalogService) Discover(fsys fs.FS) ([]string, error) {
	var all []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && s.parserFor(p) != nil {
			all = append(all, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk resources: %w", err)
	}
	if len(s.opts.Translators) == 0 {
		return all, nil
	}

	byBase := map[string][]string{}
	for _, p := range all {
		byBase[path.Base(p)] = append(byBase[path.Base(p)], p)
	}
	var out []string
	for _, name := range TranslatorFiles(s.opts.Translators, s.opts.Prefixes, s.languages(), s.opts.AppName) {
		paths, ok := byBase[name]
		if !ok {
			s.logger.Debug("translator file not found", "file", name)
			continue
		}
		out = append(out, paths...)
	}
	return out, nil
}

// languages returns the configured languages with the default locale first,
// so that fallback entries are always loaded.
func (s *CatalogService) languages() []string {
	out := []string{s.opts.DefaultLocale}
	for _, l := range s.opts.Languages {
		if l != s.opts.DefaultLocale {
			out = append(out, l)
		}
	}
	return out
}

func (s *CatalogService) parserFor(name string) output.SourceParser {
	for _, p := range s.parsers {
		if p.Match(name) {
			return p
		}
	}
	return nil
}

func (s *CatalogService) parseFile(fsys fs.FS, name string) (*entities.Source, error) {
	parser := s.parserFor(name)
	if parser == nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrUnsupportedFormat)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", name, err)
	}
	src, err := parser.Parse(name, data)
	if err != nil {
		return nil, err
	}
	if info, err := fs.Stat(fsys, name); err == nil {
		src.UpdatedAt = info.ModTime()
	}
	return src, nil
}

// prepare assigns the default locale to language-neutral sources and records
// skipped entries.
func (s *CatalogService) prepare(src *entities.Source, report *domain.LoadReport) {
	if src.Locale == "" {
		s.logger.Debug("resource names no language, using default locale",
			"source", src.Name, "locale", s.opts.DefaultLocale)
		src.Locale = s.opts.DefaultLocale
	}
	for _, sk := range src.Skipped {
		if sk.Malformed() {
			s.logger.Warn("skipping malformed entry",
				"source", sk.Source, "line", sk.Line, "context", sk.Context, "key", sk.Key, "reason", sk.Reason)
		}
	}
	report.Skipped = append(report.Skipped, src.Skipped...)
	report.Sources = append(report.Sources, src.Name)
}

func (s *CatalogService) build(sources []*entities.Source, report *domain.LoadReport) *domain.Catalog {
	b := domain.NewBuilder(s.opts.DefaultLocale)
	for _, src := range sources {
		for _, e := range src.Entries {
			if e.Unfinished && !s.opts.IncludeUnfinished {
				report.Skipped = append(report.Skipped, entities.SkippedEntry{
					Source:  src.Name,
					Context: e.Context,
					Key:     e.Key,
					Reason:  entities.ReasonUnfinished,
				})
				continue
			}
			if b.Add(src.Locale, e) {
				s.logger.Debug("duplicate entry replaced",
					"source", src.Name, "locale", src.Locale, "context", e.Context, "key", e.Key)
			}
		}
	}
	if name := s.opts.AppNameOverride; name != "" {
		n := b.Override(domain.DefaultContext, AppNameKey, name)
		s.logger.Debug("application name overridden", "name", name, "locales", n)
	}
	cat := b.Build()
	report.Entries = cat.Len()
	report.Duplicates = b.Duplicates()
	s.logger.Info("catalog loaded",
		"sources", len(sources), "entries", report.Entries, "locales", cat.AvailableLocales())
	return cat
}
