package domain

import (
	"sort"
	"strings"

	"tscatalog/internal/domain/entities"
)

// DefaultContext is the global context: a key missing from the requested
// context is looked up there before moving to the next locale.
const DefaultContext = "@default"

// Tier identifies which step of the fallback chain answered a lookup.
type Tier int

const (
	TierExact Tier = iota
	TierGlobalContext
	TierDefaultLocale
	TierDefaultGlobalContext
	TierKey
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierGlobalContext:
		return "global-context"
	case TierDefaultLocale:
		return "default-locale"
	case TierDefaultGlobalContext:
		return "default-global-context"
	case TierKey:
		return "key"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of a lookup.
type Resolution struct {
	Text       string
	Locale     string
	Context    string
	Tier       Tier
	Unfinished bool
}

// ContextTable maps message keys of one context to entries.
type ContextTable map[string]entities.Entry

// LocaleTable maps context names to their tables.
type LocaleTable map[string]ContextTable

// Catalog is an immutable set of translation tables.
// It is safe for concurrent use once built.
type Catalog struct {
	defaultLocale string
	locales       map[string]LocaleTable
	size          int
}

// DefaultLocale returns the locale used when a translation is missing.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Lookup returns the text for key in context for locale.
// It never fails: missing translations fall back to the default locale and
// finally to the key itself.
func (c *Catalog) Lookup(locale, context, key string) string {
	res, _ := c.Resolve(locale, context, key)
	return res.Text
}

// Resolve is Lookup with the details of the fallback step that matched.
// The boolean is false when the key itself was returned.
func (c *Catalog) Resolve(locale, context, key string) (Resolution, bool) {
	if key == "" {
		return Resolution{Tier: TierKey}, false
	}
	locale = c.normalize(locale)

	type step struct {
		locale  string
		context string
		tier    Tier
	}
	steps := []step{{locale, context, TierExact}}
	if context != DefaultContext {
		steps = append(steps, step{locale, DefaultContext, TierGlobalContext})
	}
	if locale != c.defaultLocale {
		steps = append(steps, step{c.defaultLocale, context, TierDefaultLocale})
		if context != DefaultContext {
			steps = append(steps, step{c.defaultLocale, DefaultContext, TierDefaultGlobalContext})
		}
	}

	for _, s := range steps {
		if e, ok := c.entry(s.locale, s.context, key); ok {
			return Resolution{
				Text:       e.Text,
				Locale:     s.locale,
				Context:    s.context,
				Tier:       s.tier,
				Unfinished: e.Unfinished,
			}, true
		}
	}
	return Resolution{Text: key, Tier: TierKey}, false
}

// Entry returns the exact entry stored for the triple, without fallback.
func (c *Catalog) Entry(locale, context, key string) (entities.Entry, bool) {
	return c.entry(c.normalize(locale), context, key)
}

func (c *Catalog) entry(locale, context, key string) (entities.Entry, bool) {
	table, ok := c.locales[locale]
	if !ok {
		return entities.Entry{}, false
	}
	e, ok := table[context][key]
	return e, ok
}

// AvailableLocales returns the sorted locale identifiers present in the catalog.
func (c *Catalog) AvailableLocales() []string {
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// HasLocale reports whether the locale has at least one entry.
func (c *Catalog) HasLocale(locale string) bool {
	_, ok := c.locales[c.normalize(locale)]
	return ok
}

// Contexts returns the sorted context names of a locale.
func (c *Catalog) Contexts(locale string) []string {
	table := c.locales[c.normalize(locale)]
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Messages returns a copy of the key -> text map of one context, without fallback.
func (c *Catalog) Messages(locale, context string) map[string]string {
	table := c.locales[c.normalize(locale)][context]
	out := make(map[string]string, len(table))
	for key, e := range table {
		out[key] = e.Text
	}
	return out
}

// Entries returns every entry of a locale ordered by context then key.
func (c *Catalog) Entries(locale string) []entities.Entry {
	table := c.locales[c.normalize(locale)]
	var out []entities.Entry
	for _, ctx := range table {
		for _, e := range ctx {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Context != out[j].Context {
			return out[i].Context < out[j].Context
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Len returns the number of stored entries across all locales.
func (c *Catalog) Len() int {
	return c.size
}

func (c *Catalog) normalize(locale string) string {
	return normalizeOr(locale, c.defaultLocale)
}

func normalizeOr(locale, def string) string {
	if strings.TrimSpace(locale) == "" {
		return def
	}
	if base, ok := NormalizeLocale(locale); ok {
		return base
	}
	return strings.TrimSpace(locale)
}

// Builder accumulates entries into a Catalog. It is not safe for concurrent use
// and must not be used after Build.
type Builder struct {
	defaultLocale string
	locales       map[string]LocaleTable
	size          int
	duplicates    int
}

// NewBuilder creates a Builder whose catalog falls back to defaultLocale.
// An empty or unparsable defaultLocale means "en".
func NewBuilder(defaultLocale string) *Builder {
	def, ok := NormalizeLocale(defaultLocale)
	if !ok {
		def = "en"
	}
	return &Builder{
		defaultLocale: def,
		locales:       map[string]LocaleTable{},
	}
}

// DefaultLocale returns the normalized fallback locale.
func (b *Builder) DefaultLocale() string {
	return b.defaultLocale
}

// Add stores e under locale. A later entry for the same triple replaces the
// earlier one; the return value reports whether that happened.
func (b *Builder) Add(locale string, e entities.Entry) bool {
	locale = normalizeOr(locale, b.defaultLocale)
	table, ok := b.locales[locale]
	if !ok {
		table = LocaleTable{}
		b.locales[locale] = table
	}
	ctx, ok := table[e.Context]
	if !ok {
		ctx = ContextTable{}
		table[e.Context] = ctx
	}
	_, replaced := ctx[e.Key]
	ctx[e.Key] = e
	if replaced {
		b.duplicates++
	} else {
		b.size++
	}
	return replaced
}

// AddSource stores every entry of src and returns how many replaced an earlier one.
func (b *Builder) AddSource(src *entities.Source) int {
	replaced := 0
	for _, e := range src.Entries {
		if b.Add(src.Locale, e) {
			replaced++
		}
	}
	return replaced
}

// Override sets the text of the existing entry (context, key) in every locale
// and returns how many locales carried it. The patched entries are finished
// single-form messages; locales without the entry are left alone.
func (b *Builder) Override(context, key, text string) int {
	patched := 0
	for _, table := range b.locales {
		ctx, ok := table[context]
		if !ok {
			continue
		}
		e, ok := ctx[key]
		if !ok {
			continue
		}
		e.Text = text
		e.Forms = nil
		e.Unfinished = false
		ctx[key] = e
		patched++
	}
	return patched
}

// Duplicates returns how many entries replaced an earlier one so far.
func (b *Builder) Duplicates() int {
	return b.duplicates
}

// Build hands the accumulated tables over to a new Catalog.
func (b *Builder) Build() *Catalog {
	c := &Catalog{
		defaultLocale: b.defaultLocale,
		locales:       b.locales,
		size:          b.size,
	}
	b.locales = nil
	return c
}
