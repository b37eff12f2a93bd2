// Package runner drives a validated profile through the executor, one stage
// at a time, and assembles the run report.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avk/specpipe/internal/ctxlog"
	"github.com/avk/specpipe/internal/executor"
	"github.com/avk/specpipe/internal/params"
	"github.com/avk/specpipe/internal/profile"
	"github.com/avk/specpipe/internal/stage"
)

// StepState is the execution state of one profile step.
type StepState int

const (
	// Pending: the step has not been started yet.
	Pending StepState = iota
	// Running: the step's external process group is live.
	Running
	// Succeeded: every process of the step exited zero.
	Succeeded
	// Failed: the step exited non-zero or could not launch.
	Failed
	// Skipped: the step was never attempted because an earlier step failed.
	Skipped
)

func (s StepState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return fmt.Sprintf("StepState(%d)", int(s))
}

// StepReport is the final record for one profile step.
type StepReport struct {
	StageID string
	State   StepState
	// Result is nil for steps that never ran.
	Result *executor.StageResult
	// Err records a launch failure; non-zero exits live in Result instead.
	Err error
}

// Report is the outcome of a whole run, in profile order.
type Report struct {
	RunID uuid.UUID
	Steps []StepReport
}

// FailedStage returns the id of the failed stage, or "" when the run
// succeeded.
func (r *Report) FailedStage() string {
	for _, s := range r.Steps {
		if s.State == Failed {
			return s.StageID
		}
	}
	return ""
}

// StageFailure is the error returned when a stage fails under the default
// abort policy.
type StageFailure struct {
	StageID  string
	ExitCode int
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %q failed with exit code %d", e.StageID, e.ExitCode)
}

// StageExecutor launches a single stage. *executor.Executor is the production
// implementation; tests substitute fakes.
type StageExecutor interface {
	Run(ctx context.Context, spec stage.Spec, flags []string, backend profile.Backend, pctx *params.Context) (executor.StageResult, error)
}

// Options tunes the failure policy.
type Options struct {
	// KeepGoing continues past a failed stage instead of aborting the run.
	// Off by default: the external programs are long numerical jobs, and
	// running downstream stages against their partial outputs is worse than
	// stopping.
	KeepGoing bool
}

// Runner executes profiles strictly in order.
type Runner struct {
	exec StageExecutor
	opts Options
}

// New creates a Runner around the given stage executor.
func New(exec StageExecutor, opts Options) *Runner {
	return &Runner{exec: exec, opts: opts}
}

// Run walks the profile in order. Step n+1 never starts before step n's
// result is in. Under the default policy the first failure marks all later
// steps Skipped and the run returns a *StageFailure; with KeepGoing every
// step is attempted and the first failure is still reported as the error.
// The report is returned in both cases.
func (r *Runner) Run(ctx context.Context, p *profile.Profile, reg *stage.Registry, pctx *params.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{RunID: uuid.New()}

	steps := p.Steps()
	report.Steps = make([]StepReport, len(steps))
	for i, step := range steps {
		report.Steps[i] = StepReport{StageID: step.StageID, State: Pending}
	}

	var firstFailure *StageFailure
	for i, step := range steps {
		if firstFailure != nil && !r.opts.KeepGoing {
			report.Steps[i].State = Skipped
			continue
		}

		spec, err := reg.Resolve(step.StageID)
		if err != nil {
			// The profile was built against this registry, so this is a
			// programming error rather than a user one.
			return report, err
		}

		logger.Info("Stage starting.", "run_id", report.RunID, "stage", step.StageID, "backend", step.Backend.String(), "flags", step.Flags)
		report.Steps[i].State = Running

		res, err := r.exec.Run(ctx, spec, step.Flags, step.Backend, pctx)
		if err != nil {
			logger.Error("Stage could not be launched.", "stage", step.StageID, "error", err)
			report.Steps[i].State = Failed
			report.Steps[i].Err = err
			if firstFailure == nil {
				firstFailure = &StageFailure{StageID: step.StageID, ExitCode: -1}
			}
			continue
		}

		report.Steps[i].Result = &res
		if res.Succeeded() {
			logger.Info("Stage succeeded.", "stage", step.StageID, "duration", res.Duration)
			report.Steps[i].State = Succeeded
			continue
		}

		logger.Error("Stage failed.", "stage", step.StageID, "exit_code", res.ExitCode)
		report.Steps[i].State = Failed
		if firstFailure == nil {
			firstFailure = &StageFailure{StageID: step.StageID, ExitCode: res.ExitCode}
		}
	}

	if firstFailure != nil {
		return report, firstFailure
	}
	return report, nil
}
