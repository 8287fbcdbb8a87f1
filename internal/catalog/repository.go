package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

//go:embed data/destinations.json
var destinationsJSON []byte

// ErrDestinationNotFound is returned when a lookup by ID misses.
var ErrDestinationNotFound = errors.New("destination not found")

// Repository is an immutable in-memory destination registry. All
// accessors return copies so callers cannot mutate the shared state.
type Repository struct {
	mu    sync.RWMutex
	byID  map[string]Destination
	order []string
}

// NewRepository loads the embedded destination dataset.
func NewRepository() (*Repository, error) {
	return NewRepositoryFromJSON(destinationsJSON)
}

// NewRepositoryFromJSON builds a repository from raw JSON, validating
// every record.
func NewRepositoryFromJSON(data []byte) (*Repository, error) {
	var destinations []Destination
	if err := json.Unmarshal(data, &destinations); err != nil {
		return nil, fmt.Errorf("parse destinations: %w", err)
	}

	r := &Repository{
		byID:  make(map[string]Destination, len(destinations)),
		order: make([]string, 0, len(destinations)),
	}
	for i, d := range destinations {
		if d.ID == "" {
			return nil, fmt.Errorf("destination %d: empty id", i)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("destination %q: empty name", d.ID)
		}
		if !d.Category.Valid() {
			return nil, fmt.Errorf("destination %q: unknown category %q", d.ID, d.Category)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("destination %q: duplicate id", d.ID)
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// All returns every destination in load order.
func (r *Repository) All() []Destination {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Destination, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Get returns the destination with the given ID.
func (r *Repository) Get(id string) (Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return Destination{}, ErrDestinationNotFound
	}
	return d, nil
}

// FilterCategories returns destinations whose category is in the set.
// An empty set matches everything.
func (r *Repository) FilterCategories(set map[Category]bool) []Destination {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Destination, 0, len(r.order))
	for _, id := range r.order {
		d := r.byID[id]
		if len(set) == 0 || set[d.Category] {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of loaded destinations.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
