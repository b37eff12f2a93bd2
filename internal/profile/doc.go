// Package profile turns a declarative run description into a validated
// execution plan.
//
// A run description is an ordered list of stage activations: for each stage,
// which modifier flags are enabled and which backend it runs under. Build
// checks every entry individually against the stage registry (known stage,
// known flags, legal backend); Validate then checks the plan as a whole
// against the registry's dependency edges. The two checks are deliberately
// separate so a caller can report all per-entry problems before ordering
// problems.
//
// Descriptions are loaded from HCL (step blocks) or YAML files, or built
// directly from Selection values.
package profile
