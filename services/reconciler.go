package services

import (
	"strings"

	"github.com/kfinlab/ipo-calendar-backend/models"
)

// EntitySet accumulates reconciled IPO entities keyed by trimmed company
// name. The name is the identity across all three listings and is used
// verbatim beyond trimming: whitespace or suffix variants of the same
// company will not merge, matching the source's documented behavior.
//
// The merge order is load-bearing and enforced by the orchestrator, not
// here: forecast results first, forecast schedule second (skip-on-existing),
// subscription schedule third (patch-or-create). That order guarantees a
// completed status is never downgraded.
type EntitySet struct {
	order  []string
	byName map[string]*models.IPO
}

// NewEntitySet creates an empty accumulator for one crawl pass.
func NewEntitySet() *EntitySet {
	return &EntitySet{byName: make(map[string]*models.IPO)}
}

// Lookup returns the entity for a company name, if present.
func (s *EntitySet) Lookup(name string) (*models.IPO, bool) {
	entity, ok := s.byName[strings.TrimSpace(name)]
	return entity, ok
}

// Add inserts a new entity. Returns false without modifying the set when the
// name is already present: the first listing to produce a name wins identity
// and later listings may only patch fields.
func (s *EntitySet) Add(entity *models.IPO) bool {
	name := strings.TrimSpace(entity.Name)
	if name == "" {
		return false
	}
	if _, exists := s.byName[name]; exists {
		return false
	}

	entity.Name = name
	s.byName[name] = entity
	s.order = append(s.order, name)
	return true
}

// All returns the accumulated entities in insertion order. The pointers are
// the live entities; enrichment mutates them in place.
func (s *EntitySet) All() []*models.IPO {
	entities := make([]*models.IPO, 0, len(s.order))
	for _, name := range s.order {
		entities = append(entities, s.byName[name])
	}
	return entities
}

// Completed returns the subset eligible for secondary-market enrichment:
// completed entities carrying a confirmed offering price.
func (s *EntitySet) Completed() []*models.IPO {
	var completed []*models.IPO
	for _, name := range s.order {
		entity := s.byName[name]
		if entity.Status == models.IPOStatusCompleted && entity.ConfirmedPrice != nil {
			completed = append(completed, entity)
		}
	}
	return completed
}

// Len returns the number of accumulated entities.
func (s *EntitySet) Len() int {
	return len(s.order)
}
