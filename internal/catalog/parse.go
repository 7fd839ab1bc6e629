// This file reads datasets in YAML, JSON, or JSONL form. All formats are
// strict: unknown fields are an error, not silently dropped.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Dataset formats.
const (
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// ErrUnknownFormat is returned for dataset formats other than the ones above.
var ErrUnknownFormat = errors.New("unknown dataset format")

// FormatFromPath infers the dataset format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// Load reads and validates the dataset at path.
func Load(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes data in the given format and builds a Catalog.
func Parse(data []byte, format string) (*Catalog, error) {
	foods, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return New(foods)
}

// Decode decodes data in the given format without validating rows.
func Decode(data []byte, format string) ([]*types.Food, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatJSON:
		return decodeJSON(data)
	case FormatJSONL:
		return decodeJSONL(data)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func decodeYAML(data []byte) ([]*types.Food, error) {
	var foods []*types.Food
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&foods); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return foods, nil
}

func decodeJSON(data []byte) ([]*types.Food, error) {
	var foods []*types.Food
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&foods); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return foods, nil
}

func decodeJSONL(data []byte) ([]*types.Food, error) {
	var foods []*types.Food
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.DisallowUnknownFields()
		var f types.Food
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding jsonl line %d: %w", line, err)
		}
		foods = append(foods, &f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning jsonl: %w", err)
	}
	return foods, nil
}

// Encode writes foods in the given format. Store IDs are kept so an export
// can be re-imported without losing them.
func Encode(w io.Writer, foods []*types.Food, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if foods == nil {
			foods = []*types.Food{}
		}
		if err := enc.Encode(foods); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		if foods == nil {
			foods = []*types.Food{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(foods); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for _, f := range foods {
			if err := enc.Encode(f); err != nil {
				return fmt.Errorf("encoding jsonl: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}
