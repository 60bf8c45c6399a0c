package application

import "strings"

// DefaultTranslators is the translator pattern list used when prefixes are
// configured without explicit patterns.
const DefaultTranslators = "%P_msg_%L.ts|%P_images.ts"

// ExpandPattern replaces %X macros of a translator pattern with values from
// subst. "%%" yields a literal percent sign; macros without a value are kept.
func ExpandPattern(pattern string, subst map[byte]string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 >= len(pattern) {
			b.WriteByte(c)
			continue
		}
		macro := pattern[i+1]
		if macro == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		if v, ok := subst[macro]; ok && v != "" {
			b.WriteString(v)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// SplitPatterns splits a "|"-separated translator list, dropping blanks.
func SplitPatterns(list string) []string {
	var out []string
	for _, p := range strings.Split(list, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TranslatorFiles expands every pattern for every prefix and language, in
// that order, without duplicates.
func TranslatorFiles(patterns, prefixes, languages []string, appName string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, prefix := range prefixes {
		for _, lang := range languages {
			subst := map[byte]string{'A': appName, 'P': prefix, 'L': lang}
			for _, p := range patterns {
				name := strings.TrimSpace(ExpandPattern(p, subst))
				if _, ok := seen[name]; ok || name == "" {
					continue
				}
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	return out
}
