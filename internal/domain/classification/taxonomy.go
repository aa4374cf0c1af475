package classification

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

type Group struct {
	Name   string   `yaml:"name" json:"name"`
	Labels []string `yaml:"labels" json:"labels"`
}

type taxonomyFile struct {
	FallbackGroup string  `yaml:"fallback_group"`
	Groups        []Group `yaml:"groups"`
}

// Taxonomy is the static label -> group table. It is immutable after Load.
type Taxonomy struct {
	groups   []Group
	labels   []string
	byLabel  map[string]string
	fallback string
}

func Load(raw []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("taxonomy has no groups")
	}
	t := &Taxonomy{
		byLabel:  map[string]string{},
		fallback: strings.TrimSpace(f.FallbackGroup),
	}
	if t.fallback == "" {
		t.fallback = "Other"
	}
	for _, g := range f.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("taxonomy group without a name")
		}
		cleaned := Group{Name: name}
		for _, label := range g.Labels {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			key := strings.ToLower(label)
			if prev, ok := t.byLabel[key]; ok {
				return nil, fmt.Errorf("label %q listed in both %q and %q", label, prev, name)
			}
			t.byLabel[key] = name
			t.labels = append(t.labels, label)
			cleaned.Labels = append(cleaned.Labels, label)
		}
		t.groups = append(t.groups, cleaned)
	}
	if len(t.labels) == 0 {
		return nil, fmt.Errorf("taxonomy has no labels")
	}
	return t, nil
}

// Default returns the taxonomy embedded in the binary.
func Default() *Taxonomy {
	t, err := Load(defaultTaxonomyYAML)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Taxonomy) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Groups maps each group name to a copy of its labels.
func (t *Taxonomy) Groups() map[string][]string {
	out := make(map[string][]string, len(t.groups))
	for _, g := range t.groups {
		out[g.Name] = append([]string(nil), g.Labels...)
	}
	return out
}

func (t *Taxonomy) GroupNames() []string {
	out := make([]string, 0, len(t.groups))
	for _, g := range t.groups {
		out = append(out, g.Name)
	}
	return out
}

// GroupOf resolves a label case-insensitively; unknown labels land in the fallback group.
func (t *Taxonomy) GroupOf(label string) string {
	if g, ok := t.byLabel[strings.ToLower(strings.TrimSpace(label))]; ok {
		return g
	}
	return t.fallback
}
