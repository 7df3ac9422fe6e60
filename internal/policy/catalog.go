// Package policy defines the investable policy tree and the per-game ledger
// that tracks investment levels against it.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/talgya/ohi-sim/internal/pillar"
)

// Definition is one static entry in the policy tree.
type Definition struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Description   string        `yaml:"description" json:"description"`
	Pillar        pillar.Pillar `yaml:"pillar" json:"pillar"`
	MaxLevel      int           `yaml:"maxLevel" json:"maxLevel"`
	UnlockYear    int           `yaml:"unlockYear" json:"unlockYear"`
	Prerequisites []string      `yaml:"prerequisites" json:"prerequisites"`
	SuggestedCost float64       `yaml:"suggestedCost" json:"suggestedCost"` // points per level, advisory
	Impact        float64       `yaml:"impact" json:"impact"`               // pillar points per cycle at max level and reference spend
}

func (d Definition) clone() Definition {
	d.Prerequisites = slices.Clone(d.Prerequisites)
	return d
}

// Catalog is an immutable, indexed policy table. Build it once and pass it
// to anything that needs policy lookups.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

// NewCatalog validates defs and builds the index. Definition order is kept and
// is the order the scoring engine applies policies in.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("policy #%d: empty id", i)
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("policy %q: duplicate id", d.ID)
		}
		if !d.Pillar.Valid() {
			return nil, fmt.Errorf("policy %q: invalid pillar", d.ID)
		}
		if d.MaxLevel < 1 {
			return nil, fmt.Errorf("policy %q: maxLevel must be >= 1, got %d", d.ID, d.MaxLevel)
		}
		c.defs[i] = d.clone()
		c.index[d.ID] = i
	}
	for _, d := range c.defs {
		for _, pre := range d.Prerequisites {
			if pre == d.ID {
				return nil, fmt.Errorf("policy %q: lists itself as prerequisite", d.ID)
			}
			if _, ok := c.index[pre]; !ok {
				return nil, fmt.Errorf("policy %q: unknown prerequisite %q", d.ID, pre)
			}
		}
	}
	if err := c.checkCycles(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) checkCycles() error {
	const (
		unseen = iota
		visiting
		done
	)
	state := make([]int, len(c.defs))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case visiting:
			return fmt.Errorf("policy %q: prerequisite cycle", c.defs[i].ID)
		case done:
			return nil
		}
		state[i] = visiting
		for _, pre := range c.defs[i].Prerequisites {
			if err := visit(c.index[pre]); err != nil {
				return err
			}
		}
		state[i] = done
		return nil
	}
	for i := range c.defs {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of policies.
func (c *Catalog) Len() int { return len(c.defs) }

// Index returns the catalog position of id.
func (c *Catalog) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i].clone(), true
}

// At returns the definition at catalog position i.
func (c *Catalog) At(i int) Definition {
	return c.defs[i].clone()
}

// Definitions returns every definition in catalog order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	for i, d := range c.defs {
		out[i] = d.clone()
	}
	return out
}

// ForPillar returns the definitions owned by p, in catalog order.
func (c *Catalog) ForPillar(p pillar.Pillar) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if d.Pillar == p {
			out = append(out, d.clone())
		}
	}
	return out
}

type catalogFile struct {
	Policies []Definition `yaml:"policies"`
}

// Parse decodes a YAML policy catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse policy catalog: %w", err)
	}
	if len(f.Policies) == 0 {
		return nil, errors.New("policy catalog is empty")
	}
	return NewCatalog(f.Policies)
}

// Load reads a YAML policy catalog from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

//go:embed policies.yaml
var defaultCatalog []byte

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog. It panics if the embedded data is
// invalid, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded policy catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}
