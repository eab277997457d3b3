package emotion

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type scaleFile struct {
	FallbackRank  int     `yaml:"fallback_rank"`
	FallbackColor string  `yaml:"fallback_color"`
	Levels        []Level `yaml:"levels"`
}

// Load reads a scale definition from a YAML file.
func Load(path string) (*Scale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scale %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scale definition. Unknown keys are rejected so typos
// in a hand-written file surface early.
func Parse(r io.Reader) (*Scale, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc scaleFile
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyScale
		}
		return nil, fmt.Errorf("decode scale: %w", err)
	}
	return New(doc.Levels, doc.FallbackRank, doc.FallbackColor)
}
