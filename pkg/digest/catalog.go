package digest

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

//go:embed proteases.yaml
var defaultCatalogYAML string

type catalogFile struct {
	Proteases []struct {
		Name   string   `yaml:"name"`
		Motifs []string `yaml:"motifs"`
	} `yaml:"proteases"`
}

// Catalog is a named set of proteases.
type Catalog struct {
	proteases map[string]*core.Protease
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{proteases: make(map[string]*core.Protease)}
}

// DefaultCatalog returns the built-in proteases.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	if err := c.Load(strings.NewReader(defaultCatalogYAML)); err != nil {
		panic(fmt.Sprintf("built-in protease catalog is invalid: %v", err))
	}
	return c
}

// Load reads proteases from YAML. Proteases already in the catalog are replaced
// by entries of the same name.
func (c *Catalog) Load(r io.Reader) error {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode protease catalog: %w", err)
	}

	for i, entry := range file.Proteases {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return fmt.Errorf("protease %d: name is required", i+1)
		}
		p, err := core.NewProtease(name, entry.Motifs...)
		if err != nil {
			return err
		}
		c.Add(p)
	}
	return nil
}

// Add adds or replaces a protease
func (c *Catalog) Add(p *core.Protease) {
	c.proteases[p.Name] = p
}

// Lookup returns the protease with the given name. Unknown names produce an
// error listing similarly named proteases.
func (c *Catalog) Lookup(name string) (*core.Protease, error) {
	if p, ok := c.proteases[name]; ok {
		return p, nil
	}

	// case-insensitive exact match
	for _, n := range c.Names() {
		if strings.EqualFold(n, name) {
			return c.proteases[n], nil
		}
	}

	var similar []string
	lower := strings.ToLower(name)
	for _, n := range c.Names() {
		ln := strings.ToLower(n)
		if strings.Contains(ln, lower) || strings.Contains(lower, ln) {
			similar = append(similar, n)
		}
	}
	if len(similar) > 0 {
		return nil, fmt.Errorf("unknown protease '%s', did you mean: %s", name, strings.Join(similar, ", "))
	}
	return nil, fmt.Errorf("unknown protease '%s'", name)
}

// LookupAll resolves names in order.
func (c *Catalog) LookupAll(names []string) ([]*core.Protease, error) {
	proteases := make([]*core.Protease, 0, len(names))
	for _, name := range names {
		p, err := c.Lookup(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		proteases = append(proteases, p)
	}
	return proteases, nil
}

// Names returns the sorted protease names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.proteases))
	for n := range c.proteases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
