// Package tsfile reads Qt Linguist translation sources (.ts files).
package tsfile

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"tscatalog/internal/domain"
	"tscatalog/internal/domain/entities"
	"tscatalog/internal/ports/output"
)

// Format is the format name reported for TS sources.
const Format = "ts"

var _ output.SourceParser = (*Parser)(nil)

var msgLocaleRe = regexp.MustCompile(`_msg_([A-Za-z]{2,3}(?:[_-][A-Za-z0-9]+)*)\.ts$`)

// Parser implements output.SourceParser for TS files.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Format() string { return Format }

func (p *Parser) Match(name string) bool {
	return strings.EqualFold(path.Ext(name), ".ts")
}

type tsMessage struct {
	ID          string         `xml:"id,attr"`
	Numerus     string         `xml:"numerus,attr"`
	Sources     []string       `xml:"source"`
	Translation *tsTranslation `xml:"translation"`
}

type tsTranslation struct {
	Type  string   `xml:"type,attr"`
	Text  string   `xml:",chardata"`
	Forms []string `xml:"numerusform"`
}

type pendingMessage struct {
	line int
	msg  tsMessage
}

// Parse reads a whole TS document. Markup errors reject the source with a
// *domain.ParseError; broken messages are listed in Source.Skipped.
func (p *Parser) Parse(name string, data []byte) (*entities.Source, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	src := &entities.Source{Name: name, Format: Format}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, dec, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "TS" {
				return nil, parseError(name, dec, fmt.Errorf("root element is %q, want TS", start.Name.Local))
			}
			sawRoot = true
			src.Locale = attr(start, "language")
			continue
		}
		if start.Name.Local != "context" {
			if err := dec.Skip(); err != nil {
				return nil, parseError(name, dec, err)
			}
			continue
		}
		if err := parseContext(dec, src); err != nil {
			return nil, parseError(name, dec, err)
		}
	}
	if !sawRoot {
		return nil, &domain.ParseError{Source: name, Err: errors.New("no TS element")}
	}

	if src.Locale == "" {
		src.Locale = LocaleFromName(name)
	}
	if base, ok := domain.NormalizeLocale(src.Locale); ok {
		src.Locale = base
	} else {
		src.Locale = ""
	}
	return src, nil
}

// LocaleFromName extracts the language of a "<prefix>_msg_<lang>.ts" file name.
func LocaleFromName(name string) string {
	m := msgLocaleRe.FindStringSubmatch(path.Base(name))
	if m == nil {
		return ""
	}
	return m[1]
}

func parseContext(dec *xml.Decoder, src *entities.Source) error {
	var (
		name    string
		hasName bool
		pending []pendingMessage
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return err
				}
				name = strings.TrimSpace(s)
				hasName = name != ""
			case "message":
				line, _ := dec.InputPos()
				var m tsMessage
				if err := dec.DecodeElement(&m, &t); err != nil {
					return err
				}
				pending = append(pending, pendingMessage{line: line, msg: m})
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			addMessages(src, name, hasName, pending)
			return nil
		}
	}
}

func addMessages(src *entities.Source, context string, hasName bool, pending []pendingMessage) {
	for _, pm := range pending {
		m := pm.msg
		skip := func(key, reason string) {
			src.Skipped = append(src.Skipped, entities.SkippedEntry{
				Source:  src.Name,
				Line:    pm.line,
				Context: context,
				Key:     key,
				Reason:  reason,
			})
		}

		key, reason := messageKey(m)
		if !hasName {
			skip(key, entities.ReasonMissingContext)
			continue
		}
		if reason != "" {
			skip(key, reason)
			continue
		}
		if m.Translation == nil {
			skip(key, entities.ReasonEmptyTranslation)
			continue
		}
		switch m.Translation.Type {
		case "obsolete", "vanished":
			skip(key, entities.ReasonObsolete)
			continue
		}

		e := entities.Entry{
			Context:    context,
			Key:        key,
			Text:       m.Translation.Text,
			Unfinished: m.Translation.Type == "unfinished",
		}
		if m.Numerus == "yes" && len(m.Translation.Forms) > 0 {
			e.Text = m.Translation.Forms[0]
			if len(m.Translation.Forms) > 1 {
				e.Forms = m.Translation.Forms
			}
		}
		if e.Text == "" {
			skip(key, entities.ReasonEmptyTranslation)
			continue
		}
		src.Entries = append(src.Entries, e)
	}
}

// messageKey picks the lookup key of a message: its source text, or its id
// attribute for id-based files.
func messageKey(m tsMessage) (string, string) {
	switch len(m.Sources) {
	case 0:
		if strings.TrimSpace(m.ID) != "" {
			return m.ID, ""
		}
		return "", entities.ReasonMissingSource
	case 1:
		if strings.TrimSpace(m.Sources[0]) == "" {
			return m.Sources[0], entities.ReasonBlankKey
		}
		return m.Sources[0], ""
	default:
		return m.Sources[0], entities.ReasonDuplicateSource
	}
}

func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func parseError(name string, dec *xml.Decoder, err error) *domain.ParseError {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &domain.ParseError{Source: name, Line: syn.Line, Err: errors.New(syn.Msg)}
	}
	line, _ := dec.InputPos()
	return &domain.ParseError{Source: name, Line: line, Err: err}
}
