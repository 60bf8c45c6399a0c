package tsfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tscatalog/internal/domain"
	"tscatalog/internal/domain/entities"
)

func parseFile(t *testing.T, name string) *entities.Source {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	src, err := NewParser().Parse(name, data)
	require.NoError(t, err)
	return src
}

func entryMap(src *entities.Source) map[string]entities.Entry {
	out := map[string]entities.Entry{}
	for _, e := range src.Entries {
		out[e.Context+"/"+e.Key] = e
	}
	return out
}

func TestParseFrenchMessages(t *testing.T) {
	src := parseFile(t, "SUIT_msg_fr.ts")

	require.Equal(t, "fr", src.Locale)
	require.Equal(t, Format, src.Format)

	entries := entryMap(src)
	require.Len(t, entries, 5)
	require.Equal(t, "Erreur", entries["@default/ERROR"].Text)
	require.Equal(t, "&Fenêtre", entries["@default/MEN_DESK_WINDOW"].Text)
	require.Equal(t, `Le répertoire "%1" n'existe pas!`, entries["@default/ERR_DIR_NOT_EXIST"].Text)
	require.Equal(t, "Étude", entries["SUIT_Study/TIT_STUDY"].Text)

	unfinished := entries["@default/PREF_STANDARD_STYLE"]
	require.True(t, unfinished.Unfinished)
	require.Equal(t, "Contrôls standards Salomé", unfinished.Text)

	reasons := map[string]string{}
	for _, s := range src.Skipped {
		reasons[s.Key] = s.Reason
	}
	require.Equal(t, map[string]string{
		"PREF_KEYFREE_STYLE": entities.ReasonEmptyTranslation,
		"MEN_OLD_ACTION":     entities.ReasonObsolete,
	}, reasons)
}

func TestParseLanguageNeutralIconTable(t *testing.T) {
	src := parseFile(t, "VTKViewer_images.ts")

	require.Empty(t, src.Locale)
	require.Equal(t, "view_fitall.png", entryMap(src)["VTKViewer_ViewWindow/ICON_VTKVIEWER_VIEW_FITALL"].Text)
}

func TestParseLocaleFromFileName(t *testing.T) {
	data := []byte(`<!DOCTYPE TS><TS>
<context>
  <name>OCCViewer_ViewWindow</name>
  <message>
    <source>MNU_FITALL</source>
    <translation>Fit All</translation>
  </message>
</context>
</TS>`)

	src, err := NewParser().Parse("resources/OCCViewer_msg_en.ts", data)
	require.NoError(t, err)
	require.Equal(t, "en", src.Locale)
	require.Equal(t, "Fit All", src.Entries[0].Text)
}

func TestParseSkipsMalformedMessage(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<TS version="2.0" language="en_US">
<context>
  <name>LightApp_Application</name>
  <message>
    <source>MEN_DESK_PREFERENCES</source>
    <translation>Pre&amp;ferences...</translation>
  </message>
  <message>
    <translation>orphan translation</translation>
  </message>
  <message>
    <source>   </source>
    <translation>blank key</translation>
  </message>
  <message>
    <source>TOT_DESK_PREFERENCES</source>
    <translation>Preferences</translation>
  </message>
</context>
<context>
  <message>
    <source>NO_CONTEXT</source>
    <translation>lost</translation>
  </message>
</context>
</TS>`)

	src, err := NewParser().Parse("LightApp_msg_en.ts", data)
	require.NoError(t, err)

	entries := entryMap(src)
	require.Len(t, entries, 2)
	require.Equal(t, "Pre&ferences...", entries["LightApp_Application/MEN_DESK_PREFERENCES"].Text)
	require.Equal(t, "Preferences", entries["LightApp_Application/TOT_DESK_PREFERENCES"].Text)

	require.Len(t, src.Skipped, 3)
	require.Equal(t, entities.ReasonMissingSource, src.Skipped[0].Reason)
	require.Equal(t, 9, src.Skipped[0].Line)
	require.Equal(t, entities.ReasonBlankKey, src.Skipped[1].Reason)
	require.Equal(t, entities.ReasonMissingContext, src.Skipped[2].Reason)
	for _, s := range src.Skipped {
		require.True(t, s.Malformed())
	}
}

func TestParseNumerusAndIDBasedMessages(t *testing.T) {
	data := []byte(`<TS version="2.1" language="fr">
<context>
  <name>SUIT_DataBrowser</name>
  <message numerus="yes">
    <source>%n object(s) selected</source>
    <translation>
      <numerusform>%n objet sélectionné</numerusform>
      <numerusform>%n objets sélectionnés</numerusform>
    </translation>
  </message>
  <message id="browser.refresh">
    <translation>Rafraîchir</translation>
  </message>
</context>
</TS>`)

	src, err := NewParser().Parse("browser.ts", data)
	require.NoError(t, err)

	entries := entryMap(src)
	numerus := entries["SUIT_DataBrowser/%n object(s) selected"]
	require.Equal(t, "%n objet sélectionné", numerus.Text)
	require.Equal(t, []string{"%n objet sélectionné", "%n objets sélectionnés"}, numerus.Forms)
	require.Equal(t, "Rafraîchir", entries["SUIT_DataBrowser/browser.refresh"].Text)
}

func TestParseRejectsBrokenMarkup(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unclosed message", data: "<TS>\n<context>\n<name>A</name>\n<message><source>K</source>\n</context>\n</TS>"},
		{name: "truncated", data: "<TS><context><name>A</name>"},
		{name: "wrong root", data: "<resources><string name=\"a\">b</string></resources>"},
		{name: "empty", data: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewParser().Parse("broken_msg_fr.ts", []byte(tc.data))
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrMalformedSource)

			var perr *domain.ParseError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "broken_msg_fr.ts", perr.Source)
		})
	}
}

func TestParseLatin1Source(t *testing.T) {
	// "Arrière" in ISO-8859-1.
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<TS language="fr"><context><name>@default</name><message><source>MNU_BACK_VIEW</source><translation>Arri`),
		0xE8, 'r', 'e')
	data = append(data, []byte(`</translation></message></context></TS>`)...)

	src, err := NewParser().Parse("latin1.ts", data)
	require.NoError(t, err)
	require.Equal(t, "Arrière", src.Entries[0].Text)
}

func TestMatchAndLocaleFromName(t *testing.T) {
	p := NewParser()
	require.True(t, p.Match("SUIT_msg_fr.ts"))
	require.True(t, p.Match("dir/OCCViewer_images.TS"))
	require.False(t, p.Match("messages.fr.toml"))

	require.Equal(t, "fr", LocaleFromName("SUIT_msg_fr.ts"))
	require.Equal(t, "pt_BR", LocaleFromName("a/b/LightApp_msg_pt_BR.ts"))
	require.Empty(t, LocaleFromName("OCCViewer_images.ts"))
}
