package i18n

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"

	"tscatalog/internal/domain"
	"tscatalog/internal/domain/entities"
	"tscatalog/internal/ports/output"
)

// Format is the format name reported for go-i18n message files.
const Format = "toml"

const unfinishedMarker = "unfinished"

// Ensure MessageFile implements the parser and writer ports.
var (
	_ output.SourceParser = (*MessageFile)(nil)
	_ output.SourceWriter = (*MessageFile)(nil)
)

// MessageFile reads and writes go-i18n TOML message files ("<name>.<lang>.toml").
// Message IDs are "<context>.<key>"; an ID without a dot belongs to the
// global context.
type MessageFile struct {
	unmarshalFuncs map[string]i18n.UnmarshalFunc
}

// NewMessageFile builds a MessageFile backed by go-i18n's message file parser.
func NewMessageFile() *MessageFile {
	return &MessageFile{
		unmarshalFuncs: map[string]i18n.UnmarshalFunc{Format: toml.Unmarshal},
	}
}

func (f *MessageFile) Format() string { return Format }

func (f *MessageFile) Match(name string) bool {
	return path.Ext(name) == "."+Format
}

// Parse reads one message file. The locale comes from the file name; it is
// left empty when the name carries no language tag.
func (f *MessageFile) Parse(name string, data []byte) (*entities.Source, error) {
	mf, err := i18n.ParseMessageFileBytes(data, name, f.unmarshalFuncs)
	if err != nil {
		return nil, &domain.ParseError{Source: name, Err: err}
	}

	src := &entities.Source{Name: name, Format: Format}
	if base, ok := domain.NormalizeLocale(mf.Tag.String()); ok {
		src.Locale = base
	}

	for _, m := range mf.Messages {
		context, key := SplitID(m.ID)
		if strings.TrimSpace(key) == "" {
			src.Skipped = append(src.Skipped, entities.SkippedEntry{
				Source: name, Context: context, Key: key, Reason: entities.ReasonBlankKey,
			})
			continue
		}
		if m.Other == "" {
			src.Skipped = append(src.Skipped, entities.SkippedEntry{
				Source: name, Context: context, Key: key, Reason: entities.ReasonEmptyTranslation,
			})
			continue
		}
		e := entities.Entry{
			Context:    context,
			Key:        key,
			Text:       m.Other,
			Unfinished: m.Description == unfinishedMarker,
		}
		if forms := pluralForms(m); len(forms) > 1 {
			e.Forms = forms
			e.Text = forms[0]
		}
		src.Entries = append(src.Entries, e)
	}

	// go-i18n hands messages back in map order.
	sort.Slice(src.Entries, func(i, j int) bool {
		if src.Entries[i].Context != src.Entries[j].Context {
			return src.Entries[i].Context < src.Entries[j].Context
		}
		return src.Entries[i].Key < src.Entries[j].Key
	})
	return src, nil
}

// FileName returns "<name>.<locale>.toml".
func (f *MessageFile) FileName(name, locale string) string {
	return fmt.Sprintf("%s.%s.%s", name, locale, Format)
}

// Write encodes src as a go-i18n message file. Finished singular translations
// are plain strings; unfinished or numerus ones are tables.
func (f *MessageFile) Write(w io.Writer, src *entities.Source) error {
	doc := make(map[string]any, len(src.Entries))
	for _, e := range src.Entries {
		id := JoinID(e.Context, e.Key)
		if !e.Unfinished && len(e.Forms) < 2 {
			doc[id] = e.Text
			continue
		}
		table := map[string]string{"other": e.Text}
		if len(e.Forms) > 1 {
			table = pluralTable(e.Forms)
		}
		if e.Unfinished {
			table["description"] = unfinishedMarker
		}
		doc[id] = table
	}
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", src.Name, err)
	}
	return nil
}

// SplitID splits a message ID on its first dot.
func SplitID(id string) (context, key string) {
	i := strings.IndexByte(id, '.')
	if i <= 0 {
		return domain.DefaultContext, strings.TrimPrefix(id, ".")
	}
	return id[:i], id[i+1:]
}

// JoinID is the inverse of SplitID.
func JoinID(context, key string) string {
	if context == "" {
		context = domain.DefaultContext
	}
	return context + "." + key
}

// pluralCategories maps a number of numerus forms to the plural categories
// they are written under, in CLDR order. Qt orders forms the same way, from
// the smallest quantity to "other".
var pluralCategories = [][]string{
	2: {"one", "other"},
	3: {"one", "few", "other"},
	4: {"one", "two", "few", "other"},
	5: {"one", "two", "few", "many", "other"},
	6: {"zero", "one", "two", "few", "many", "other"},
}

func pluralTable(forms []string) map[string]string {
	if len(forms) >= len(pluralCategories) {
		forms = forms[:len(pluralCategories)-1]
	}
	table := make(map[string]string, len(forms))
	for i, cat := range pluralCategories[len(forms)] {
		table[cat] = forms[i]
	}
	return table
}

// pluralForms returns the plural categories of m that are set, in CLDR order.
func pluralForms(m *i18n.Message) []string {
	var forms []string
	for _, v := range []string{m.Zero, m.One, m.Two, m.Few, m.Many, m.Other} {
		if v != "" {
			forms = append(forms, v)
		}
	}
	return forms
}
