// Package params holds the shared parameter-file handle and the ambient
// resource settings threaded through every stage invocation of a run.
package params

import (
	"fmt"
	"os"

	"github.com/avk/specpipe/internal/stage"
)

// ConfigError reports an unusable run-level configuration value.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Context is the read-only per-run execution context: the path to the shared
// parameter file, plus the thread and worker budgets applied to distributed
// stages. It is built once at run start and shared by reference afterwards.
type Context struct {
	paramFile string
	threads   int
	workers   int
}

// Build constructs a Context. It verifies the parameter file is a readable
// regular file; parsing its contents is entirely the external programs'
// concern.
func Build(paramFile string, threads, workers int) (*Context, error) {
	if paramFile == "" {
		return nil, &ConfigError{Field: "parameter file", Err: fmt.Errorf("path is empty")}
	}
	info, err := os.Stat(paramFile)
	if err != nil {
		return nil, &ConfigError{Field: "parameter file", Err: err}
	}
	if info.IsDir() {
		return nil, &ConfigError{Field: "parameter file", Err: fmt.Errorf("%s is a directory", paramFile)}
	}
	f, err := os.Open(paramFile)
	if err != nil {
		return nil, &ConfigError{Field: "parameter file", Err: err}
	}
	f.Close()

	if threads < 1 {
		return nil, &ConfigError{Field: "threads", Err: fmt.Errorf("must be at least 1, got %d", threads)}
	}
	if workers < 1 {
		return nil, &ConfigError{Field: "workers", Err: fmt.Errorf("must be at least 1, got %d", workers)}
	}

	return &Context{paramFile: paramFile, threads: threads, workers: workers}, nil
}

// ParamFile returns the shared parameter file path.
func (c *Context) ParamFile() string { return c.paramFile }

// Threads returns the per-worker thread budget for distributed stages.
func (c *Context) Threads() int { return c.threads }

// Workers returns the worker-process count for distributed stages.
func (c *Context) Workers() int { return c.workers }

// Render produces the full argument list for one stage invocation: the shared
// parameter file reference first, then the stage's fixed arguments, then one
// argument per enabled flag. Flags are emitted in the spec's canonical order,
// never the caller's, so identical (stage, flags) pairs always render the
// identical command line.
func (c *Context) Render(spec stage.Spec, flags []string) []string {
	enabled := make(map[string]bool, len(flags))
	for _, f := range flags {
		enabled[f] = true
	}

	args := make([]string, 0, 2+len(spec.FixedArgs)+len(flags))
	args = append(args, "--globals", c.paramFile)
	args = append(args, spec.FixedArgs...)
	for _, f := range spec.Flags {
		if enabled[f] {
			args = append(args, "--"+f)
		}
	}
	return args
}
