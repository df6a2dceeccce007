package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/triplet/pkg/domain"
	"github.com/aretw0/triplet/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIDField   = "id"
	DefaultTextField = "triplet"
)

var _ ports.DatasetLoader = (*Loader)(nil)

// Loader reads a dataset file: a JSON or YAML array of objects carrying an
// identifier field and a text field.
type Loader struct {
	Path      string
	IDField   string
	TextField string
}

// Option configures a Loader.
type Option func(*Loader)

// WithFields overrides the names of the id and text fields.
func WithFields(idField, textField string) Option {
	return func(l *Loader) {
		if idField != "" {
			l.IDField = idField
		}
		if textField != "" {
			l.TextField = textField
		}
	}
}

// New creates a Loader for path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		Path:      path,
		IDField:   DefaultIDField,
		TextField: DefaultTextField,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the dataset file.
func (l *Loader) Load(ctx context.Context) ([]domain.Item, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Decode(data, strings.ToLower(filepath.Ext(l.Path)), l.IDField, l.TextField)
}

// Decode parses raw dataset bytes. ext selects the format: ".json" uses
// encoding/json, anything else is parsed as YAML.
func Decode(data []byte, ext, idField, textField string) ([]domain.Item, error) {
	var rows []map[string]any
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber() // keep large numeric ids exact
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to parse dataset json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to parse dataset yaml: %w", err)
		}
	}

	items := make([]domain.Item, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		id, err := field(row, idField)
		if err != nil {
			return nil, fmt.Errorf("dataset entry %d: %w", i, err)
		}
		if id == "" {
			return nil, fmt.Errorf("dataset entry %d: empty %q", i, idField)
		}
		text, err := field(row, textField)
		if err != nil {
			return nil, fmt.Errorf("dataset entry %d (%s): %w", i, id, err)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("dataset entry %d: duplicate id %q (first seen at %d)", i, id, prev)
		}
		seen[id] = i
		items = append(items, domain.Item{ID: id, Text: text})
	}
	return items, nil
}

// field extracts name from row as a string; numbers and booleans are converted.
func field(row map[string]any, name string) (string, error) {
	raw, ok := row[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	var out string
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return out, nil
}
