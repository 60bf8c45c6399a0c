package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tscatalog/internal/adapters/httpapi"
	"tscatalog/internal/application"
	"tscatalog/internal/config"
	"tscatalog/internal/domain"
	"tscatalog/internal/infrastructure/database"
	"tscatalog/internal/infrastructure/i18n"
	"tscatalog/internal/infrastructure/logging"
	"tscatalog/internal/infrastructure/tsfile"
	"tscatalog/internal/ports/output"
	"tscatalog/pkg/qtext"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	dir           string
	defaultLocale string
	appName       string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Localized string catalog built from Qt Linguist resources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.dir, "dir", "", "resource directory (overrides CATALOG_RESOURCE_DIR)")
	root.PersistentFlags().StringVar(&a.defaultLocale, "default-locale", "", "fallback locale (overrides CATALOG_DEFAULT_LOCALE)")
	root.PersistentFlags().StringVar(&a.appName, "app-name", "", "text of the @default APP_NAME message (overrides CATALOG_APP_NAME_OVERRIDE)")

	root.AddCommand(
		a.lookupCmd(),
		a.localesCmd(),
		a.contextsCmd(),
		a.checkCmd(),
		a.exportCmd(),
		a.migrateCmd(),
		a.importCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dir") {
		cfg.ResourceDir = a.dir
	}
	if cmd.Flags().Changed("default-locale") {
		def, ok := domain.NormalizeLocale(a.defaultLocale)
		if !ok {
			return fmt.Errorf("invalid --default-locale %q", a.defaultLocale)
		}
		cfg.DefaultLocale = def
	}
	if cmd.Flags().Changed("app-name") {
		cfg.AppNameOverride = strings.TrimSpace(a.appName)
	}
	a.cfg = cfg
	a.logger = logging.New(a.stderr, cfg.LogLevel, cfg.LogNoColor)
	return nil
}

// service wires the catalog use cases. writer may be nil for commands that
// do not export.
func (a *app) service(repo output.TranslationRepository, writer output.SourceWriter) *application.CatalogService {
	return application.NewCatalogService(
		application.Options{
			DefaultLocale:     a.cfg.DefaultLocale,
			IncludeUnfinished: a.cfg.IncludeUnfinished,
			Translators:       a.cfg.Translators,
			Prefixes:          a.cfg.Prefixes,
			Languages:         a.cfg.Languages,
			AppName:           a.cfg.AppName,
			AppNameOverride:   a.cfg.AppNameOverride,
		},
		[]output.SourceParser{tsfile.NewParser(), i18n.NewMessageFile()},
		writer,
		repo,
		a.logger,
	)
}

// writerFor returns the export writer registered under format.
func writerFor(format string) (output.SourceWriter, error) {
	switch strings.ToLower(format) {
	case i18n.Format:
		return i18n.NewMessageFile(), nil
	case tsfile.Format:
		return tsfile.NewWriter(), nil
	default:
		return nil, fmt.Errorf("export format %q: %w", format, domain.ErrUnsupportedFormat)
	}
}

func (a *app) loadCatalog(ctx context.Context) (*domain.Catalog, *domain.LoadReport, error) {
	return a.service(nil, nil).Load(ctx, os.DirFS(a.cfg.ResourceDir))
}

// withRepository opens the database and hands a repository to fn.
func (a *app) withRepository(ctx context.Context, fn func(repo *database.TranslationRepository) error) error {
	if a.cfg.DatabaseURL == "" {
		return errNoDatabase
	}
	pool, err := database.NewPool(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(database.NewTranslationRepository(pool))
}

func (a *app) lookupCmd() *cobra.Command {
	var args []string
	cmd := &cobra.Command{
		Use:   "lookup LOCALE CONTEXT KEY",
		Short: "Print the translation of KEY in CONTEXT for LOCALE",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, pos []string) error {
			cat, _, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			text := cat.Lookup(pos[0], pos[1], pos[2])
			if len(args) > 0 {
				text = qtext.Arg(text, args...)
			}
			_, err = fmt.Fprintln(a.stdout, text)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&args, "arg", nil, "value substituted for %1, %2, ... (repeatable)")
	return cmd
}

func (a *app) localesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locales that have at least one entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range cat.AvailableLocales() {
				fmt.Fprintln(a.stdout, l)
			}
			return nil
		},
	}
}

func (a *app) contextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contexts LOCALE",
		Short: "List the contexts defined for LOCALE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			cat, _, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if !cat.HasLocale(pos[0]) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownLocale, pos[0])
			}
			for _, c := range cat.Contexts(pos[0]) {
				fmt.Fprintln(a.stdout, c)
			}
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every resource source and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, report, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "sources: %d\n", len(report.Sources))
			fmt.Fprintf(a.stdout, "entries: %d\n", report.Entries)
			fmt.Fprintf(a.stdout, "locales: %v\n", cat.AvailableLocales())
			fmt.Fprintf(a.stdout, "duplicates: %d\n", report.Duplicates)
			for _, sk := range report.Malformed() {
				fmt.Fprintf(a.stdout, "skipped %s:%d [%s] %s: %s\n", sk.Source, sk.Line, sk.Context, sk.Key, sk.Reason)
			}
			for _, perr := range report.Errors {
				fmt.Fprintf(a.stdout, "error %s\n", perr.Error())
			}
			if report.HasErrors() {
				return fmt.Errorf("%d source(s) could not be loaded: %w", len(report.Errors), domain.ErrMalformedSource)
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one message file per locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer, err := writerFor(format)
			if err != nil {
				return err
			}
			svc := a.service(nil, writer)
			cat, _, err := svc.Load(cmd.Context(), os.DirFS(a.cfg.ResourceDir))
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			for _, locale := range cat.AvailableLocales() {
				path := filepath.Join(out, svc.ExportFileName(locale))
				if err := exportFile(svc, cat, locale, path); err != nil {
					return err
				}
				a.logger.Info("exported locale", "locale", locale, "file", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", i18n.Format, "output format: toml (go-i18n) or ts (Qt Linguist)")
	return cmd
}

func exportFile(svc *application.CatalogService, cat *domain.Catalog, locale, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := svc.Export(cat, locale, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.cfg.DatabaseURL == "" {
				return errNoDatabase
			}
			return database.RunMigrations(a.cfg.DatabaseURL, a.logger)
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store the resource sources in PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRepository(cmd.Context(), func(repo *database.TranslationRepository) error {
				report, err := a.service(repo, nil).Import(cmd.Context(), os.DirFS(a.cfg.ResourceDir))
				if err != nil {
					return err
				}
				counts, err := repo.CountByLocale(cmd.Context())
				if err != nil {
					return err
				}
				a.logger.Info("import finished", "sources", len(report.Sources), "rejected", len(report.Errors), "rows", counts)
				return nil
			})
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var fromDB bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !fromDB {
				cat, _, err := a.loadCatalog(ctx)
				if err != nil {
					return err
				}
				return a.serve(ctx, cat)
			}
			return a.withRepository(ctx, func(repo *database.TranslationRepository) error {
				cat, _, err := a.service(repo, nil).LoadRepository(ctx)
				if err != nil {
					return err
				}
				return a.serve(ctx, cat)
			})
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "load translations from PostgreSQL instead of files")
	return cmd
}

func (a *app) serve(ctx context.Context, cat *domain.Catalog) error {
	handler := httpapi.NewHandler(cat, httpapi.NewMetrics(), a.logger)
	return httpapi.NewServer(a.cfg.HTTPAddr, handler.Routes(), a.cfg.ShutdownTimeout, a.logger).Run(ctx)
}
