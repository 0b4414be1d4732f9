/*
Package translations provides the read-only holiday name table.

PURPOSE:
  Maps a holiday key ("goodFriday") to its display names per locale. Rule
  functions consult the table through generic.Translator when building a
  holiday; region-specific names are given inline and override it.

FILE FORMAT:
  One file per holiday key, named after the key, YAML or JSON:

    # maundyThursday.yaml
    en: Maundy Thursday
    es: Jueves Santo

FALLBACK:
  Lookup(key, locale) tries the locale, its parents ("es-CL" -> "es") and
  finally the table's fallback locale. Unknown locales never fail.

CONCURRENCY:
  A Table is immutable after construction and safe to share.

SEE ALSO:
  - generic/locale.go: Locale normalization and chains
  - data/: Embedded default table
*/
package translations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/warp/holiday-engine/generic"
)

//go:embed data/*.yaml
var defaultData embed.FS

// Table is an immutable key -> locale -> name mapping.
type Table struct {
	entries  map[string]map[string]string
	fallback string
}

var _ generic.Translator = (*Table)(nil)

// New builds a table from entries. Locale keys are normalized and the
// input is copied. An empty fallback means generic.DefaultLocale.
func New(fallback string, entries map[string]map[string]string) *Table {
	if fallback == "" {
		fallback = generic.DefaultLocale
	}
	t := &Table{
		entries:  make(map[string]map[string]string, len(entries)),
		fallback: generic.NormalizeLocale(fallback),
	}
	for key, names := range entries {
		t.entries[key] = normalize(names)
	}
	return t
}

// Default returns the embedded table.
func Default() (*Table, error) {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub, generic.DefaultLocale)
}

// Load reads every .yaml, .yml and .json file at the root of fsys.
func Load(fsys fs.FS, fallback string) (*Table, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("translations: read dir: %w", err)
	}

	entries := make(map[string]map[string]string, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(f.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, f.Name())
		if err != nil {
			return nil, fmt.Errorf("translations: read %s: %w", f.Name(), err)
		}
		// JSON is a subset of YAML, one decoder covers both.
		var names map[string]string
		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("translations: decode %s: %w", f.Name(), err)
		}
		key := strings.TrimSuffix(f.Name(), path.Ext(f.Name()))
		entries[key] = names
	}
	return New(fallback, entries), nil
}

// Merge returns a new table with other's entries layered over t's.
func (t *Table) Merge(other *Table) *Table {
	merged := make(map[string]map[string]string, len(t.entries))
	for key, names := range t.entries {
		merged[key] = names
	}
	for key, names := range other.entries {
		combined := make(map[string]string, len(names))
		for l, n := range merged[key] {
			combined[l] = n
		}
		for l, n := range names {
			combined[l] = n
		}
		merged[key] = combined
	}
	return New(t.fallback, merged)
}

// Names returns a copy of every translation of key, nil if unknown.
func (t *Table) Names(key string) map[string]string {
	if t == nil {
		return nil
	}
	names, ok := t.entries[key]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(names))
	for l, n := range names {
		out[l] = n
	}
	return out
}

// Lookup resolves the name of key for locale through the fallback chain.
func (t *Table) Lookup(key, locale string) (string, bool) {
	names, ok := t.entries[key]
	if !ok {
		return "", false
	}
	for _, l := range generic.LocaleChain(locale, t.fallback) {
		if name, ok := names[l]; ok {
			return name, true
		}
	}
	return "", false
}

// Fallback returns the locale every lookup ends with.
func (t *Table) Fallback() string { return t.fallback }

// Keys returns the known holiday keys, sorted.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Locales returns every locale present in the table, sorted.
func (t *Table) Locales() []string {
	seen := make(map[string]struct{})
	for _, names := range t.entries {
		for l := range names {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func normalize(names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	for l, n := range names {
		if n == "" {
			continue
		}
		out[generic.NormalizeLocale(l)] = n
	}
	return out
}
