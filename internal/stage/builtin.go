package stage

// Builtin returns the stage catalog of the standard B-mode power spectrum
// pipeline. The dependency edges encode the order the stages are normally run
// in; deployments with different conventions should build their own catalog
// (or load one from HCL manifests) instead of editing this one.
func Builtin() []Spec {
	return []Spec{
		{
			ID:             "mocker",
			Command:        "mocker",
			Flags:          []string{"sims", "plots", "verbose"},
			Parallelizable: true,
		},
		{
			ID:             "mcm",
			Command:        "mcm",
			Flags:          []string{"plots", "verbose"},
			DependsOn:      []string{"mocker"},
			Parallelizable: true,
		},
		{
			ID:             "filterer",
			Command:        "filterer",
			Flags:          []string{"sims", "data", "transfer", "plots", "verbose"},
			DependsOn:      []string{"mcm"},
			Parallelizable: true,
		},
		{
			ID:             "pcler",
			Command:        "pcler",
			Flags:          []string{"sims", "data", "tf_est", "tf_val", "plots", "verbose"},
			DependsOn:      []string{"filterer"},
			Parallelizable: true,
		},
		{
			ID:             "transfer",
			Command:        "transfer",
			Flags:          []string{"plots", "verbose"},
			DependsOn:      []string{"pcler"},
			Parallelizable: true,
		},
		{
			ID:        "coadder",
			Command:   "coadder",
			Flags:     []string{"sims", "data", "plots", "verbose"},
			DependsOn: []string{"pcler"},
		},
		{
			ID:             "covfefe",
			Command:        "covfefe",
			Flags:          []string{"sims", "data", "verbose"},
			DependsOn:      []string{"coadder"},
			Parallelizable: true,
		},
		{
			ID:        "saccer",
			Command:   "saccer",
			Flags:     []string{"sims", "data", "verbose"},
			DependsOn: []string{"covfefe"},
		},
		{
			ID:        "plotter",
			Command:   "plotter",
			Flags:     []string{"verbose"},
			DependsOn: []string{"saccer"},
		},
	}
}
