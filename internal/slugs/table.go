package slugs

import (
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// Table holds curated title → slug overrides consulted before the
// generic rich rule. Overrides exist for titles whose automatic slug
// differs from the identifier the site already serves.
type Table struct {
	overrides map[string]string
}

// NewTable builds a Table from an in-memory override map. Keys are
// matched case-insensitively against whole titles.
func NewTable(overrides map[string]string) *Table {
	t := &Table{overrides: make(map[string]string, len(overrides))}
	for title, s := range overrides {
		t.overrides[strings.ToLower(strings.TrimSpace(title))] = s
	}
	return t
}

// LoadTable reads a YAML override file mapping titles to slugs.
// A missing file yields an empty table, not an error.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return NewTable(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("reading slug overrides: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing slug overrides: %w", err)
	}
	return NewTable(overrides), nil
}

// Rich slugifies a title with diacritic and punctuation awareness,
// consulting the override table first.
func (t *Table) Rich(title string) string {
	if t != nil {
		if s, ok := t.overrides[strings.ToLower(strings.TrimSpace(title))]; ok {
			return s
		}
	}
	return slug.Make(title)
}

// Len reports how many overrides the table carries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.overrides)
}
