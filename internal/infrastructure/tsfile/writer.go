package tsfile

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"tscatalog/internal/domain/entities"
	"tscatalog/internal/ports/output"
)

var _ output.SourceWriter = (*Writer)(nil)

const tsVersion = "2.1"

type tsFileOut struct {
	XMLName  xml.Name       `xml:"TS"`
	Version  string         `xml:"version,attr"`
	Language string         `xml:"language,attr,omitempty"`
	Contexts []tsContextOut `xml:"context"`
}

type tsContextOut struct {
	Name     string         `xml:"name"`
	Messages []tsMessageOut `xml:"message"`
}

type tsMessageOut struct {
	Numerus     string           `xml:"numerus,attr,omitempty"`
	Source      string           `xml:"source"`
	Translation tsTranslationOut `xml:"translation"`
}

type tsTranslationOut struct {
	Type  string   `xml:"type,attr,omitempty"`
	Text  string   `xml:",chardata"`
	Forms []string `xml:"numerusform"`
}

// Writer implements output.SourceWriter for TS files.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Format() string { return Format }

// FileName returns "<name>_msg_<locale>.ts", the name LocaleFromName understands.
func (w *Writer) FileName(name, locale string) string {
	return fmt.Sprintf("%s_msg_%s.ts", name, locale)
}

// Write encodes src as a TS document, contexts and keys in sorted order.
func (w *Writer) Write(out io.Writer, src *entities.Source) error {
	entries := make([]entities.Entry, len(src.Entries))
	copy(entries, src.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Context != entries[j].Context {
			return entries[i].Context < entries[j].Context
		}
		return entries[i].Key < entries[j].Key
	})

	doc := tsFileOut{Version: tsVersion, Language: src.Locale}
	for _, e := range entries {
		if n := len(doc.Contexts); n == 0 || doc.Contexts[n-1].Name != e.Context {
			doc.Contexts = append(doc.Contexts, tsContextOut{Name: e.Context})
		}
		ctx := &doc.Contexts[len(doc.Contexts)-1]
		ctx.Messages = append(ctx.Messages, messageOut(e))
	}

	if _, err := io.WriteString(out, xml.Header+"<!DOCTYPE TS>\n"); err != nil {
		return fmt.Errorf("write %s: %w", src.Name, err)
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", src.Name, err)
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return fmt.Errorf("write %s: %w", src.Name, err)
	}
	return nil
}

func messageOut(e entities.Entry) tsMessageOut {
	m := tsMessageOut{Source: e.Key}
	if e.Unfinished {
		m.Translation.Type = "unfinished"
	}
	if len(e.Forms) > 1 {
		m.Numerus = "yes"
		m.Translation.Forms = e.Forms
		return m
	}
	m.Translation.Text = e.Text
	return m
}
