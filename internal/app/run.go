package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/avk/specpipe/internal/ctxlog"
	"github.com/avk/specpipe/internal/executor"
	"github.com/avk/specpipe/internal/params"
	"github.com/avk/specpipe/internal/profile"
	"github.com/avk/specpipe/internal/runner"
)

// Run executes one pipeline run end to end: parameter context, profile,
// dependency validation, then the runner. The final report is rendered to the
// out writer whether or not the run succeeded.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "profile", a.config.ProfilePath)

	pctx, err := params.Build(a.config.ParamsPath, a.config.Threads, a.config.Workers)
	if err != nil {
		return err
	}

	prof, err := profile.Load(a.config.ProfilePath, a.registry)
	if err != nil {
		return fmt.Errorf("invalid run description: %w", err)
	}
	if err := profile.Validate(prof, a.registry); err != nil {
		return fmt.Errorf("invalid run description: %w", err)
	}
	a.logger.Info("Run description validated.", "steps", prof.Len())

	run := runner.New(executor.New(), runner.Options{KeepGoing: a.config.KeepGoing})
	report, runErr := run.Run(ctx, prof, a.registry, pctx)
	if report != nil {
		a.writeReport(report)
	}

	var failure *runner.StageFailure
	if errors.As(runErr, &failure) {
		return failure
	}
	return runErr
}

// writeReport renders the human-readable run summary.
func (a *App) writeReport(report *runner.Report) {
	fmt.Fprintf(a.outW, "run %s\n", report.RunID)

	w := tabwriter.NewWriter(a.outW, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tSTATE\tEXIT\tDURATION")
	for _, step := range report.Steps {
		exit := "-"
		duration := "-"
		if step.Result != nil {
			exit = fmt.Sprintf("%d", step.Result.ExitCode)
			duration = step.Result.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", step.StageID, step.State, exit, duration)
	}
	w.Flush()

	if failed := report.FailedStage(); failed != "" {
		fmt.Fprintf(a.outW, "run failed at stage %q\n", failed)
	}
}
