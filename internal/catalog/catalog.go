// Package catalog provides the read-only property lookup consumed by the
// workflow engine. The workflow never mutates the catalog.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a property name has no catalog entry.
var ErrNotFound = errors.New("property not found")

// Property is an immutable catalog record. Values are display strings as
// published by the listing source; only room counts are numeric.
type Property struct {
	Ref         string   `json:"ref"`
	Price       string   `json:"price"`
	Location    string   `json:"location"`
	Size        string   `json:"size"`
	Plot        string   `json:"plot"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// Catalog is the lookup interface the workflow depends on. Lookups are by
// exact name key.
type Catalog interface {
	Lookup(name string) (Property, error)
	Names() []string
}

// Memory is an in-memory Catalog. Insertion order of names is preserved so
// the welcome turn lists properties deterministically.
type Memory struct {
	names      []string
	properties map[string]Property
}

func NewMemory() *Memory {
	return &Memory{properties: make(map[string]Property)}
}

// Add registers a property under its display name. Re-adding a name
// overwrites the record but keeps its original position.
func (m *Memory) Add(name string, p Property) {
	if _, exists := m.properties[name]; !exists {
		m.names = append(m.names, name)
	}
	m.properties[name] = p
}

func (m *Memory) Lookup(name string) (Property, error) {
	p, ok := m.properties[name]
	if !ok {
		return Property{}, fmt.Errorf("lookup %q: %w", name, ErrNotFound)
	}
	return p, nil
}

func (m *Memory) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
