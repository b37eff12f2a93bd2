package stage

import (
	"errors"
	"fmt"
)

// ErrUnknownStage is returned when a stage id is not present in the registry.
var ErrUnknownStage = errors.New("unknown stage")

// Registry is an immutable catalog of stage specs. It is constructed once and
// passed explicitly to every component that needs it; there is no package
// level instance.
type Registry struct {
	specs map[string]Spec
	// order is the canonical dependency-compatible ordering of all ids: a
	// topological sort of the catalog with ties broken by declaration order.
	order []string
}

// NewRegistry builds a registry from the given specs. It fails if an id is
// duplicated, a dependency references an unknown or self id, or the
// dependency relation contains a cycle.
func NewRegistry(specs []Spec) (*Registry, error) {
	byID := make(map[string]Spec, len(specs))
	declared := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.ID == "" {
			return nil, errors.New("stage spec with empty id")
		}
		if _, exists := byID[s.ID]; exists {
			return nil, fmt.Errorf("duplicate stage id %q", s.ID)
		}
		byID[s.ID] = s
		declared = append(declared, s.ID)
	}

	for _, s := range specs {
		for _, dep := range s.DependsOn {
			if dep == s.ID {
				return nil, fmt.Errorf("stage %q depends on itself", s.ID)
			}
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("stage %q depends on %w %q", s.ID, ErrUnknownStage, dep)
			}
		}
	}

	order, err := sortTopological(declared, byID)
	if err != nil {
		return nil, err
	}

	return &Registry{specs: byID, order: order}, nil
}

// Resolve returns the spec for id, or ErrUnknownStage.
func (r *Registry) Resolve(id string) (Spec, error) {
	s, ok := r.specs[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w %q", ErrUnknownStage, id)
	}
	return s, nil
}

// AllIDs returns the canonical ordering of every stage id. The result is a
// copy; callers may not mutate registry state through it.
func (r *Registry) AllIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of stages in the catalog.
func (r *Registry) Len() int {
	return len(r.specs)
}

// sortTopological is Kahn's algorithm over the dependency edges. On every
// round it picks the first declared id whose dependencies are all emitted,
// which keeps the output deterministic for a given declaration order. A round
// with no eligible id means the remaining stages form a cycle.
func sortTopological(declared []string, byID map[string]Spec) ([]string, error) {
	emitted := make(map[string]bool, len(declared))
	order := make([]string, 0, len(declared))

	for len(order) < len(declared) {
		progressed := false
		for _, id := range declared {
			if emitted[id] {
				continue
			}
			ready := true
			for _, dep := range byID[id].DependsOn {
				if !emitted[dep] {
					ready = false
					break
				}
			}
			if ready {
				emitted[id] = true
				order = append(order, id)
				progressed = true
			}
		}
		if !progressed {
			for _, id := range declared {
				if !emitted[id] {
					return nil, fmt.Errorf("dependency cycle involving stage %q", id)
				}
			}
		}
	}

	return order, nil
}
