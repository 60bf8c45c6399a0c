package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"tscatalog/internal/domain"
	"tscatalog/pkg/qtext"
)

// Handler exposes a catalog over HTTP. The catalog can be swapped at runtime.
type Handler struct {
	catalog atomic.Pointer[domain.Catalog]
	metrics *Metrics
	logger  *slog.Logger
}

func NewHandler(cat *domain.Catalog, metrics *Metrics, logger *slog.Logger) *Handler {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{metrics: metrics, logger: logger}
	h.catalog.Store(cat)
	return h
}

// Replace installs a freshly loaded catalog for subsequent requests.
func (h *Handler) Replace(cat *domain.Catalog) {
	h.catalog.Store(cat)
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(requestLogger(h.logger))

	r.Get("/health/live", h.live)
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/locales", h.locales)
		r.Get("/locales/{locale}/contexts", h.contexts)
		r.Get("/locales/{locale}/contexts/{context}", h.messages)
		r.Get("/translate", h.translate)
	})
	return r
}

type localesResponse struct {
	Default string   `json:"default"`
	Locales []string `json:"locales"`
}

type contextsResponse struct {
	Locale   string   `json:"locale"`
	Contexts []string `json:"contexts"`
}

type messagesResponse struct {
	Locale   string            `json:"locale"`
	Context  string            `json:"context"`
	Messages map[string]string `json:"messages"`
}

type translateResponse struct {
	Key        string `json:"key"`
	Text       string `json:"text"`
	Locale     string `json:"locale,omitempty"`
	Context    string `json:"context,omitempty"`
	Tier       string `json:"tier"`
	Found      bool   `json:"found"`
	Unfinished bool   `json:"unfinished,omitempty"`
}

func (h *Handler) live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) locales(w http.ResponseWriter, _ *http.Request) {
	cat := h.catalog.Load()
	writeJSON(w, http.StatusOK, localesResponse{
		Default: cat.DefaultLocale(),
		Locales: cat.AvailableLocales(),
	})
}

func (h *Handler) contexts(w http.ResponseWriter, r *http.Request) {
	cat := h.catalog.Load()
	locale := chi.URLParam(r, "locale")
	if !cat.HasLocale(locale) {
		writeDomainError(w, fmt.Errorf("%w: %q", domain.ErrUnknownLocale, locale))
		return
	}
	base, _ := domain.NormalizeLocale(locale)
	writeJSON(w, http.StatusOK, contextsResponse{Locale: base, Contexts: cat.Contexts(locale)})
}

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	cat := h.catalog.Load()
	locale := chi.URLParam(r, "locale")
	context := chi.URLParam(r, "context")
	if !cat.HasLocale(locale) {
		writeDomainError(w, fmt.Errorf("%w: %q", domain.ErrUnknownLocale, locale))
		return
	}
	msgs := cat.Messages(locale, context)
	if len(msgs) == 0 {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("context %q has no messages", context))
		return
	}
	base, _ := domain.NormalizeLocale(locale)
	writeJSON(w, http.StatusOK, messagesResponse{Locale: base, Context: context, Messages: msgs})
}

func (h *Handler) translate(w http.ResponseWriter, r *http.Request) {
	cat := h.catalog.Load()
	q := r.URL.Query()

	key := q.Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "key is required")
		return
	}
	context := q.Get("context")
	if context == "" {
		context = domain.DefaultContext
	}
	plain := false
	if v := q.Get("plain"); v != "" {
		var err error
		if plain, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "plain must be a boolean")
			return
		}
	}
	locale := q.Get("locale")
	if locale == "" {
		locale = matchLocale(cat, r.Header.Get("Accept-Language"))
	}

	res, found := cat.Resolve(locale, context, key)
	h.metrics.ObserveLookup(res.Tier)

	text := res.Text
	if args := q["arg"]; len(args) > 0 {
		text = qtext.Arg(text, args...)
	}
	if plain {
		text = qtext.StripAccelerator(text)
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Key:        key,
		Text:       text,
		Locale:     res.Locale,
		Context:    res.Context,
		Tier:       res.Tier.String(),
		Found:      found,
		Unfinished: res.Unfinished,
	})
}

// matchLocale picks the available locale that best serves an Accept-Language
// header, or the default locale.
func matchLocale(cat *domain.Catalog, header string) string {
	def := cat.DefaultLocale()
	if header == "" {
		return def
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return def
	}

	supported := []string{def}
	for _, l := range cat.AvailableLocales() {
		if l != def {
			supported = append(supported, l)
		}
	}
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = language.Make(l)
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return def
	}
	return supported[idx]
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
