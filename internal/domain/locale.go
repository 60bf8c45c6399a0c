package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeLocale reduces a locale identifier to its base language subtag
// ("fr_FR" -> "fr", "en-US" -> "en", "ja_JP.UTF-8" -> "ja").
func NormalizeLocale(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if i := strings.IndexAny(id, ".@"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No || base.String() == "und" {
		return "", false
	}
	return base.String(), true
}
