// Package palette maps port type tags to link display colors.
package palette

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Map implements ports.Palette over a plain lookup table.
type Map map[domain.TypeTag]string

// Color returns the color registered for t.
func (m Map) Color(t domain.TypeTag) (string, error) {
	c, ok := m[t]
	if !ok || c == "" {
		return "", fmt.Errorf("%q: %w", t, domain.ErrPaletteMiss)
	}
	return c, nil
}

// Merge returns a new Map holding m overlaid with other.
func (m Map) Merge(other Map) Map {
	out := make(Map, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Default returns the editor's built-in link colors.
// The wildcard tag has no entry, so untyped junctions keep their links' colors.
func Default() Map {
	return Map{
		"CLIP":               "#FFD500",
		"CLIP_VISION":        "#A8DADC",
		"CLIP_VISION_OUTPUT": "#ad7452",
		"CONDITIONING":       "#FFA931",
		"CONTROL_NET":        "#6EE7B7",
		"IMAGE":              "#64B5F6",
		"LATENT":             "#FF9CF9",
		"MASK":               "#81C784",
		"MODEL":              "#B39DDB",
		"STYLE_MODEL":        "#C2FFAE",
		"VAE":                "#FF6E6E",
		"NOISE":              "#B0B0B0",
		"GUIDER":             "#66FFFF",
		"SAMPLER":            "#ECB4B4",
		"SIGMAS":             "#CDFFCD",
		"TAESD":              "#DCC274",
	}
}

// File is the structure of a palette YAML file.
//
//	colors:
//	  IMAGE: "#64B5F6"
//	  MY_TYPE: "#123456"
type File struct {
	// Replace drops the built-in colors instead of extending them.
	Replace bool              `yaml:"replace"`
	Colors  map[string]string `yaml:"colors"`
}

// Load reads a palette file and returns it merged over Default.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	return Parse(data)
}

// Parse decodes palette YAML and returns it merged over Default.
func Parse(data []byte) (Map, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}

	custom := make(Map, len(f.Colors))
	for k, v := range f.Colors {
		custom[domain.TypeTag(k)] = v
	}
	if f.Replace {
		return custom, nil
	}
	return Default().Merge(custom), nil
}
