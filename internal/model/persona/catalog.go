package persona

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a persona catalog.
type catalogFile struct {
	Personas []catalogEntry `yaml:"personas"`
}

type catalogEntry struct {
	Persona  `yaml:",inline"`
	IsActive *bool `yaml:"isActive"`
}

// LoadFile reads a YAML persona catalog. Entries without isActive are active.
func LoadFile(path string) ([]Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML persona catalog and validates its entries.
func Parse(raw []byte) ([]Persona, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode persona catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Personas))
	out := make([]Persona, 0, len(file.Personas))
	for i, entry := range file.Personas {
		p := entry.Persona
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidPersona, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePersona, p.ID)
		}
		if strings.TrimSpace(p.SystemPrompt) == "" {
			return nil, fmt.Errorf("%w: %s has no systemPrompt", ErrInvalidPersona, p.ID)
		}
		seen[p.ID] = struct{}{}

		p.IsActive = entry.IsActive == nil || *entry.IsActive
		out = append(out, p)
	}
	return out, nil
}
