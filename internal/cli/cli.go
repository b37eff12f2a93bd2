package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/avk/specpipe/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("specpipe", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
specpipe - drives a power-spectrum analysis pipeline of external programs.

Usage:
  specpipe [options] PROFILE_PATH

Arguments:
  PROFILE_PATH
    Path to a run description (.hcl, .yaml or .yml) listing the stages to
    run, their modifier flags and their backends.

Options:
`)
		flagSet.PrintDefaults()
	}

	profileFlag := flagSet.String("profile", "", "Path to the run description file.")
	pFlag := flagSet.String("p", "", "Path to the run description file (shorthand).")
	paramsFlag := flagSet.String("params", "", "Path to the shared parameter file passed to every stage.")
	threadsFlag := flagSet.Int("threads", 1, "Per-worker thread budget for distributed stages.")
	workersFlag := flagSet.Int("workers", 4, "Worker-process count for distributed stages.")
	stagesPathFlag := flagSet.String("stages-path", "", "Directory of HCL stage manifests. Empty uses the built-in catalog.")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Continue past a failed stage instead of aborting the run.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *profileFlag != "" {
		path = *profileFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ProfilePath: path,
		ParamsPath:  *paramsFlag,
		StagesPath:  *stagesPathFlag,
		Threads:     *threadsFlag,
		Workers:     *workersFlag,
		KeepGoing:   *keepGoingFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
