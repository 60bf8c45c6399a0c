package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tscatalog/internal/domain/entities"
)

func buildCatalog(t *testing.T) *Catalog {
	t.Helper()
	b := NewBuilder("en")
	b.AddSource(&entities.Source{Locale: "en", Entries: []entities.Entry{
		{Context: "OCCViewer_ViewWindow", Key: "MNU_FITALL", Text: "Fit All"},
		{Context: "OCCViewer_ViewWindow", Key: "DSC_FITALL", Text: "Fit all objects inside the view frame"},
		{Context: DefaultContext, Key: "ERROR", Text: "Error"},
		{Context: DefaultContext, Key: "CONTINUE", Text: "Continue"},
		{Context: "SUIT_Study", Key: "TIT_STUDY", Text: "Study"},
	}})
	b.AddSource(&entities.Source{Locale: "fr_FR", Entries: []entities.Entry{
		{Context: DefaultContext, Key: "ERROR", Text: "Erreur"},
		{Context: "OCCViewer_ViewWindow", Key: "MNU_FITALL", Text: "Tout afficher", Unfinished: true},
	}})
	b.AddSource(&entities.Source{Locale: "ja", Entries: []entities.Entry{
		{Context: DefaultContext, Key: "CONTINUE", Text: "続行"},
	}})
	return b.Build()
}

func TestLookupFallbackChain(t *testing.T) {
	c := buildCatalog(t)

	tests := []struct {
		name    string
		locale  string
		context string
		key     string
		text    string
		tier    Tier
	}{
		{name: "exact", locale: "fr", context: DefaultContext, key: "ERROR", text: "Erreur", tier: TierExact},
		{name: "exact english", locale: "en", context: "OCCViewer_ViewWindow", key: "MNU_FITALL", text: "Fit All", tier: TierExact},
		{name: "global context", locale: "fr", context: "SUIT_Desktop", key: "ERROR", text: "Erreur", tier: TierGlobalContext},
		{name: "default locale", locale: "fr", context: "SUIT_Study", key: "TIT_STUDY", text: "Study", tier: TierDefaultLocale},
		{name: "default global context", locale: "ja", context: "SUIT_Desktop", key: "ERROR", text: "Error", tier: TierDefaultGlobalContext},
		{name: "unknown locale", locale: "de", context: "OCCViewer_ViewWindow", key: "DSC_FITALL", text: "Fit all objects inside the view frame", tier: TierDefaultLocale},
		{name: "region is ignored", locale: "ja-JP", context: DefaultContext, key: "CONTINUE", text: "続行", tier: TierExact},
		{name: "empty locale is default", locale: "", context: DefaultContext, key: "CONTINUE", text: "Continue", tier: TierExact},
		{name: "literal key", locale: "fr", context: "SUIT_Study", key: "MEN_UNKNOWN", text: "MEN_UNKNOWN", tier: TierKey},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.text, c.Lookup(tc.locale, tc.context, tc.key))

			res, found := c.Resolve(tc.locale, tc.context, tc.key)
			require.Equal(t, tc.tier, res.Tier)
			require.Equal(t, tc.tier != TierKey, found)
		})
	}
}

func TestResolveReportsMatch(t *testing.T) {
	c := buildCatalog(t)

	res, ok := c.Resolve("fr_FR", "OCCViewer_ViewWindow", "MNU_FITALL")
	require.True(t, ok)
	require.Equal(t, Resolution{
		Text:       "Tout afficher",
		Locale:     "fr",
		Context:    "OCCViewer_ViewWindow",
		Tier:       TierExact,
		Unfinished: true,
	}, res)

	res, ok = c.Resolve("fr", "X", "")
	require.False(t, ok)
	require.Empty(t, res.Text)
}

func TestBuilderLastWriteWins(t *testing.T) {
	b := NewBuilder("en")
	require.False(t, b.Add("en", entities.Entry{Context: "C", Key: "K", Text: "first"}))
	require.True(t, b.Add("en-GB", entities.Entry{Context: "C", Key: "K", Text: "second"}))
	require.Equal(t, 1, b.Duplicates())

	c := b.Build()
	require.Equal(t, "second", c.Lookup("en", "C", "K"))
	require.Equal(t, 1, c.Len())
}

func TestBuilderOverride(t *testing.T) {
	b := NewBuilder("en")
	b.Add("en", entities.Entry{Context: DefaultContext, Key: "APP_NAME", Text: "SALOME"})
	b.Add("fr", entities.Entry{Context: DefaultContext, Key: "APP_NAME", Text: "SALOMÉ", Unfinished: true, Forms: []string{"a", "b"}})
	b.Add("ja", entities.Entry{Context: DefaultContext, Key: "ERROR", Text: "エラー"})

	require.Equal(t, 2, b.Override(DefaultContext, "APP_NAME", "MyApp"))
	require.Zero(t, b.Override("SUIT_Desktop", "APP_NAME", "MyApp"))

	c := b.Build()
	require.Equal(t, "MyApp", c.Lookup("en", DefaultContext, "APP_NAME"))
	fr, ok := c.Entry("fr", DefaultContext, "APP_NAME")
	require.True(t, ok)
	require.Equal(t, entities.Entry{Context: DefaultContext, Key: "APP_NAME", Text: "MyApp"}, fr)

	// ja has no entry of its own and still falls back to the default locale.
	_, ok = c.Entry("ja", DefaultContext, "APP_NAME")
	require.False(t, ok)
	require.Equal(t, "MyApp", c.Lookup("ja", DefaultContext, "APP_NAME"))
	require.Equal(t, 3, c.Len())
}

func TestBuilderDefaultLocale(t *testing.T) {
	require.Equal(t, "fr", NewBuilder("fr_FR").DefaultLocale())
	require.Equal(t, "en", NewBuilder("").DefaultLocale())
	require.Equal(t, "en", NewBuilder("not a locale!").DefaultLocale())

	b := NewBuilder("ja")
	b.Add("", entities.Entry{Context: "C", Key: "K", Text: "v"})
	require.Equal(t, []string{"ja"}, b.Build().AvailableLocales())
}

func TestCatalogIntrospection(t *testing.T) {
	c := buildCatalog(t)

	require.Equal(t, "en", c.DefaultLocale())
	require.Equal(t, []string{"en", "fr", "ja"}, c.AvailableLocales())
	require.True(t, c.HasLocale("fr_FR"))
	require.False(t, c.HasLocale("de"))
	require.Equal(t, []string{DefaultContext, "OCCViewer_ViewWindow", "SUIT_Study"}, c.Contexts("en"))
	require.Empty(t, c.Contexts("de"))
	require.Equal(t, 8, c.Len())

	_, ok := c.Entry("fr", "SUIT_Study", "TIT_STUDY")
	require.False(t, ok)

	entries := c.Entries("en")
	require.Len(t, entries, 5)
	require.Equal(t, DefaultContext, entries[0].Context)
	require.Equal(t, "CONTINUE", entries[0].Key)
	require.Equal(t, "TIT_STUDY", entries[4].Key)
}

func TestMessagesReturnsCopy(t *testing.T) {
	c := buildCatalog(t)

	msgs := c.Messages("en", "OCCViewer_ViewWindow")
	require.Equal(t, map[string]string{
		"MNU_FITALL": "Fit All",
		"DSC_FITALL": "Fit all objects inside the view frame",
	}, msgs)

	msgs["MNU_FITALL"] = "changed"
	require.Equal(t, "Fit All", c.Lookup("en", "OCCViewer_ViewWindow", "MNU_FITALL"))
	require.Empty(t, c.Messages("en", "Missing"))
}

func TestConcurrentLookups(t *testing.T) {
	c := buildCatalog(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if c.Lookup("fr", DefaultContext, "ERROR") != "Erreur" {
					t.Error("unexpected lookup result")
					return
				}
				_ = c.AvailableLocales()
			}
		}()
	}
	wg.Wait()
}

func TestTierString(t *testing.T) {
	require.Equal(t, "exact", TierExact.String())
	require.Equal(t, "default-global-context", TierDefaultGlobalContext.String())
	require.Equal(t, "key", TierKey.String())
	require.Equal(t, "unknown", Tier(42).String())
}
