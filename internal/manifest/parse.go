package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension; anything but .yaml/.yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a manifest and checks the fields every consumer depends on.
// source is used in error messages.
func Parse(data []byte, format Format, source string) (*Manifest, error) {
	m, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: "+messages.ManifestParseFmt, ErrInvalidManifest, source, err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("%w: "+messages.ManifestMissingFieldFmt, ErrInvalidManifest, source, "name")
	}
	if err := state.CheckName(m.Name); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ManifestInvalidNameFmt, ErrInvalidManifest, source, err)
	}
	if strings.TrimSpace(m.Version) == "" {
		return nil, fmt.Errorf("%w: "+messages.ManifestMissingFieldFmt, ErrInvalidManifest, source, "version")
	}
	m.normalize()
	return m, nil
}

// Load reads and parses a manifest file, choosing the format from its extension.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestReadFmt, path, err)
	}
	return Parse(data, FormatForPath(path), path)
}

// Marshal renders m in the given format.
func Marshal(m *Manifest, format Format) ([]byte, error) {
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf(messages.ManifestEncodeFmt, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf(messages.ManifestEncodeFmt, err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestEncodeFmt, err)
	}
	return append(data, '\n'), nil
}

func decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	if format == FormatYAML {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return &m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
