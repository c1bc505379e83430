package catalog

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Pair is one catalogue entry.
type Pair struct {
	Key   string
	Value string
}

// Catalog is a read-only, insertion-ordered string mapping. Values handed out
// by the stages are shared between callers, so Catalog has no mutators.
type Catalog struct {
	entries *orderedmap.OrderedMap[string, string]
}

// identityCatalog maps each name to itself in order.
func identityCatalog(names []string) *Catalog {
	c := &Catalog{entries: orderedmap.New[string, string]()}
	for _, name := range names {
		c.entries.Set(name, name)
	}
	return c
}

// extend returns a copy of c with every fixed entry set to itself, applied in
// order after the existing entries. A fixed key that already exists keeps its
// position and takes the fixed value. The overwritten keys are returned.
func (c *Catalog) extend(fixed ...string) (*Catalog, []string) {
	out := &Catalog{entries: orderedmap.New[string, string]()}
	for _, p := range c.Pairs() {
		out.entries.Set(p.Key, p.Value)
	}

	var overwritten []string
	for _, key := range fixed {
		if _, present := out.entries.Set(key, key); present {
			overwritten = append(overwritten, key)
		}
	}
	return out, overwritten
}

// Get returns the value stored under key.
func (c *Catalog) Get(key string) (string, bool) {
	if c == nil || c.entries == nil {
		return "", false
	}
	return c.entries.Get(key)
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Keys returns the keys in insertion order.
func (c *Catalog) Keys() []string {
	pairs := c.Pairs()
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}

// Values returns the values in insertion order.
func (c *Catalog) Values() []string {
	pairs := c.Pairs()
	values := make([]string, len(pairs))
	for i, p := range pairs {
		values[i] = p.Value
	}
	return values
}

// Pairs returns the entries in insertion order.
func (c *Catalog) Pairs() []Pair {
	pairs := make([]Pair, 0, c.Len())
	if c.Len() == 0 {
		return pairs
	}
	for el := c.entries.Oldest(); el != nil; el = el.Next() {
		pairs = append(pairs, Pair{Key: el.Key, Value: el.Value})
	}
	return pairs
}

// ToMap returns an unordered copy of the entries.
func (c *Catalog) ToMap() map[string]string {
	m := make(map[string]string, c.Len())
	for _, p := range c.Pairs() {
		m[p.Key] = p.Value
	}
	return m
}

// Equal reports whether both catalogues hold the same entries in the same order.
func (c *Catalog) Equal(other *Catalog) bool {
	a, b := c.Pairs(), other.Pairs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the catalogue as a JSON object in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	if c.Len() == 0 {
		return []byte("{}"), nil
	}
	return c.entries.MarshalJSON()
}

// MarshalYAML encodes the catalogue as a YAML mapping in insertion order.
func (c *Catalog) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range c.Pairs() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Value},
		)
	}
	return node, nil
}
