package generic

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the last step of every name lookup.
const DefaultLocale = "en"

// NormalizeLocale canonicalizes a locale identifier: "es_CL" and "es-cl"
// both become "es-CL". Identifiers x/text cannot parse are returned trimmed
// with underscores replaced, so lookups still work on exact matches.
func NormalizeLocale(locale string) string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	return tag.String()
}

// LocaleChain lists the locales consulted for a lookup in order: the
// locale itself, its parents, then fallback. Entries are normalized and
// unique.
func LocaleChain(locale, fallback string) []string {
	var chain []string
	seen := make(map[string]struct{}, 4)
	add := func(l string) {
		if l == "" {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		chain = append(chain, l)
	}

	locale = NormalizeLocale(locale)
	add(locale)
	if tag, err := language.Parse(locale); err == nil && locale != "" {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			add(parent.String())
		}
	}
	for cur := parentLocale(locale); cur != ""; cur = parentLocale(cur) {
		add(cur)
	}
	add(NormalizeLocale(fallback))
	return chain
}

// parentLocale strips the last subtag; it covers identifiers x/text rejects.
func parentLocale(locale string) string {
	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}
	return ""
}

// normalizeNames returns a copy of names with normalized locale keys.
func normalizeNames(names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for locale, name := range names {
		if name == "" {
			continue
		}
		out[NormalizeLocale(locale)] = name
	}
	return out
}
