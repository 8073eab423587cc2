// Package graph holds the in-memory system model the engine traverses:
// components keyed by id plus a deduplicated adjacency index.
package graph

import (
	"sort"

	"taramap/internal/domain"
)

// Model is an immutable view over a set of components and their connections.
// Connections referencing unknown ids are skipped at build time; callers that
// need a hard failure run CheckIntegrity first.
type Model struct {
	components map[string]domain.Component
	adjacency  map[string][]string
	directed   bool
}

// Option configures model construction
type Option func(*Model)

// Directed keeps connection edges as declared instead of mirroring them
func Directed() Option {
	return func(m *Model) { m.directed = true }
}

// NewModel builds a model from caller-supplied components. Edges are
// symmetric unless the Directed option is given.
func NewModel(components []domain.Component, opts ...Option) *Model {
	m := &Model{
		components: make(map[string]domain.Component, len(components)),
		adjacency:  make(map[string][]string, len(components)),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range components {
		m.components[c.ID] = c
	}

	seen := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		key := [2]string{from, to}
		if seen[key] {
			return
		}
		seen[key] = true
		m.adjacency[from] = append(m.adjacency[from], to)
	}

	for _, c := range components {
		for _, peer := range c.Connections {
			if _, ok := m.components[peer]; !ok {
				continue // dangling id, caller was warned by CheckIntegrity
			}
			if peer == c.ID {
				continue
			}
			addEdge(c.ID, peer)
			if !m.directed {
				addEdge(peer, c.ID)
			}
		}
	}

	for id := range m.adjacency {
		sort.Strings(m.adjacency[id])
	}

	return m
}

// Component returns the component with the given id
func (m *Model) Component(id string) (domain.Component, bool) {
	c, ok := m.components[id]
	return c, ok
}

// Contains reports whether the model holds the given id
func (m *Model) Contains(id string) bool {
	_, ok := m.components[id]
	return ok
}

// Neighbors returns the ids reachable in one hop from the given component
func (m *Model) Neighbors(id string) []string {
	return m.adjacency[id]
}

// Connected reports whether an edge exists from a to b
func (m *Model) Connected(a, b string) bool {
	for _, peer := range m.adjacency[a] {
		if peer == b {
			return true
		}
	}
	return false
}

// IDs returns all component ids in sorted order
func (m *Model) IDs() []string {
	ids := make([]string, 0, len(m.components))
	for id := range m.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of components in the model
func (m *Model) Len() int {
	return len(m.components)
}

// ByTrustZone returns sorted ids of components in any of the given zones
func (m *Model) ByTrustZone(zones ...domain.TrustZone) []string {
	zoneSet := make(map[domain.TrustZone]bool, len(zones))
	for _, z := range zones {
		zoneSet[z] = true
	}
	ids := make([]string, 0)
	for id, c := range m.components {
		if zoneSet[c.TrustZone] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ByLocation returns sorted ids of components at the given location
func (m *Model) ByLocation(loc domain.Location) []string {
	ids := make([]string, 0)
	for id, c := range m.components {
		if c.Location == loc {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// CheckIntegrity reports the first dangling connection reference found.
// The component-management layer runs this before handing a graph to the
// engine; the engine itself only skips bad edges.
func CheckIntegrity(components []domain.Component) error {
	known := make(map[string]bool, len(components))
	for _, c := range components {
		known[c.ID] = true
	}
	for _, c := range components {
		for _, peer := range c.Connections {
			if !known[peer] {
				return &domain.GraphIntegrityError{ComponentID: c.ID, DanglingID: peer}
			}
		}
	}
	return nil
}
