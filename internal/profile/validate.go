package profile

import (
	"fmt"

	"github.com/avk/specpipe/internal/stage"
)

// DependencyViolation reports a stage whose declared dependency is enabled in
// the same profile but positioned after it.
type DependencyViolation struct {
	StageID string
	Missing string
}

func (e *DependencyViolation) Error() string {
	return fmt.Sprintf("stage %q requires %q to run earlier in the profile", e.StageID, e.Missing)
}

// Validate checks the profile's step order against the registry's dependency
// edges. A dependency is satisfied when it either ran earlier in this profile
// or is entirely absent from it; an absent stage is assumed to have been run
// externally beforehand. This lets a run skip whole sub-pipelines (mocking,
// say) while still executing downstream stages against pre-staged data.
//
// Validate is a pure function; it is called once, before any stage launches.
func Validate(p *Profile, reg *stage.Registry) error {
	enabled := make(map[string]bool, p.Len())
	for _, step := range p.steps {
		enabled[step.StageID] = true
	}

	seen := make(map[string]bool, p.Len())
	for _, step := range p.steps {
		spec, err := reg.Resolve(step.StageID)
		if err != nil {
			return err
		}
		for _, dep := range spec.DependsOn {
			if enabled[dep] && !seen[dep] {
				return &DependencyViolation{StageID: step.StageID, Missing: dep}
			}
		}
		seen[step.StageID] = true
	}
	return nil
}
