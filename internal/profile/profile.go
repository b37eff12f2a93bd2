package profile

import (
	"errors"
	"fmt"

	"github.com/avk/specpipe/internal/stage"
)

var (
	// ErrUnknownFlag is returned when a selection enables a flag the stage
	// does not accept.
	ErrUnknownFlag = errors.New("unknown flag")
	// ErrInvalidBackend is returned for an unrecognized backend label, or for
	// a distributed selection on a stage that is not parallelizable.
	ErrInvalidBackend = errors.New("invalid backend")
)

// Backend selects how a stage's external program is launched.
type Backend int

const (
	// Sequential launches a single process and waits for it.
	Sequential Backend = iota
	// Distributed launches a cooperating group of worker processes.
	Distributed
)

func (b Backend) String() string {
	switch b {
	case Sequential:
		return "sequential"
	case Distributed:
		return "distributed"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend maps a configuration label onto a Backend. The empty string
// means Sequential so descriptions only have to spell out the exception.
func ParseBackend(label string) (Backend, error) {
	switch label {
	case "", "sequential":
		return Sequential, nil
	case "distributed":
		return Distributed, nil
	}
	return Sequential, fmt.Errorf("%w %q", ErrInvalidBackend, label)
}

// Selection is one entry of a run description.
type Selection struct {
	StageID string
	Flags   []string
	Backend Backend
}

// Step is one validated entry of a Profile.
type Step struct {
	StageID string
	Flags   []string
	Backend Backend
}

// Profile is an ordered, individually-validated execution plan. It is
// read-only after Build; dependency ordering across steps is checked
// separately by Validate.
type Profile struct {
	steps []Step
}

// Build validates each selection against the registry and assembles a
// Profile. It fails on the first unknown stage, unknown flag, or illegal
// backend; it does not check dependency ordering.
func Build(selections []Selection, reg *stage.Registry) (*Profile, error) {
	steps := make([]Step, 0, len(selections))
	for _, sel := range selections {
		spec, err := reg.Resolve(sel.StageID)
		if err != nil {
			return nil, err
		}
		for _, f := range sel.Flags {
			if !spec.AcceptsFlag(f) {
				return nil, fmt.Errorf("stage %q: %w %q", sel.StageID, ErrUnknownFlag, f)
			}
		}
		if sel.Backend == Distributed && !spec.Parallelizable {
			return nil, fmt.Errorf("stage %q: %w: distributed backend on a non-parallelizable stage", sel.StageID, ErrInvalidBackend)
		}

		flags := make([]string, len(sel.Flags))
		copy(flags, sel.Flags)
		steps = append(steps, Step{StageID: sel.StageID, Flags: flags, Backend: sel.Backend})
	}
	return &Profile{steps: steps}, nil
}

// Steps returns the ordered steps of the profile.
func (p *Profile) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Len returns the number of steps.
func (p *Profile) Len() int {
	return len(p.steps)
}
