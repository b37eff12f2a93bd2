// Package stage defines the catalog of pipeline stages: what program each
// stage runs, which modifier flags it accepts, and which stages must have
// completed before it.
package stage

// Spec describes one pipeline stage.
type Spec struct {
	// ID is the unique, stable name of the stage, e.g. "mcm" or "filterer".
	ID string
	// Command is the executable name or path of the external program.
	Command string
	// FixedArgs are arguments always passed to the program, after the shared
	// parameter file reference.
	FixedArgs []string
	// Flags lists the accepted modifier flags in their canonical order. The
	// order decides nothing about which flags a run enables; it only fixes
	// the order in which enabled flags are rendered onto the command line.
	Flags []string
	// DependsOn names stages that must have completed successfully earlier in
	// the same profile (or be absent from it entirely).
	DependsOn []string
	// Parallelizable marks stages that may run under the distributed
	// multi-worker backend.
	Parallelizable bool
}

// AcceptsFlag reports whether name is one of the stage's modifier flags.
func (s Spec) AcceptsFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}
