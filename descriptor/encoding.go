package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a text encoding of descriptors.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format of a file from its extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown descriptor file extension %q", ext)
	}
}

// Unmarshal decodes a descriptor. YAML and TOML documents have the same
// structure as the JSON form: a single key naming the curve family.
func Unmarshal(b []byte, f Format) (Descriptor, error) {
	var d Descriptor
	if f == FormatJSON {
		err := json.Unmarshal(b, &d)
		return d, err
	}
	var generic map[string]any
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(b, &generic)
	case FormatTOML:
		err = toml.Unmarshal(b, &generic)
	default:
		return d, fmt.Errorf("unsupported descriptor format %q", f)
	}
	if err != nil {
		return d, fmt.Errorf("parsing %s descriptor: %w", f, err)
	}
	b, err = json.Marshal(generic)
	if err != nil {
		return d, fmt.Errorf("converting %s descriptor: %w", f, err)
	}
	err = json.Unmarshal(b, &d)
	return d, err
}

// Marshal encodes d in format f.
func Marshal(d Descriptor, f Format) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(d)
	if err != nil || f == FormatJSON {
		return b, err
	}
	var generic map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(generic)
	case FormatTOML:
		return toml.Marshal(generic)
	}
	return nil, fmt.Errorf("unsupported descriptor format %q", f)
}

// Load reads the descriptor stored at path, in the format given by its
// extension.
func Load(path string) (Descriptor, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Descriptor{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading descriptor: %w", err)
	}
	d, err := Unmarshal(b, f)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes d to path in the format given by its extension.
func Save(path string, d Descriptor) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	b, err := Marshal(d, f)
	if err != nil {
		return fmt.Errorf("marshaling descriptor: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}
