// Package content loads the static roadmap document.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// Format is the on-disk encoding of a content document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format by extension; anything unknown is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and decodes a roadmap document from path.
func LoadFile(path string) (*domain.Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	r, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a roadmap document. YAML is converted to JSON first so both
// formats share the same lenient decoding. Only a document that is not an
// object at all is an error; malformed sub-structures decode as empty.
func Parse(data []byte, format Format) (*domain.Roadmap, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if !isJSONObject(doc) {
		return nil, fmt.Errorf("roadmap document must be an object")
	}
	var r domain.Roadmap
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("decoding roadmap: %w", err)
	}
	return &r, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yamlToJSON(data)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return data, nil
}

func isJSONObject(doc []byte) bool {
	trimmed := strings.TrimSpace(string(doc))
	return strings.HasPrefix(trimmed, "{")
}
