package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avk/specpipe/internal/ctxlog"
	"github.com/avk/specpipe/internal/params"
	"github.com/avk/specpipe/internal/profile"
	"github.com/avk/specpipe/internal/stage"
)

// Environment variables handed to every worker of a distributed stage.
const (
	EnvThreads = "OMP_NUM_THREADS"
	EnvRank    = "SPECPIPE_RANK"
	EnvNRanks  = "SPECPIPE_NRANKS"
)

// Executor launches stage processes. The zero value is usable.
type Executor struct{}

// New creates an Executor.
func New() *Executor {
	return &Executor{}
}

// Run invokes one stage and blocks until every launched process has
// terminated. A non-zero exit is reported through the StageResult, not the
// error; the error is reserved for failures to launch at all.
func (e *Executor) Run(ctx context.Context, spec stage.Spec, flags []string, backend profile.Backend, pctx *params.Context) (StageResult, error) {
	logger := ctxlog.FromContext(ctx).With("stage", spec.ID, "backend", backend.String())
	args := pctx.Render(spec, flags)
	logger.Debug("Launching stage.", "command", spec.Command, "args", args)

	start := time.Now()
	var result StageResult
	var err error
	switch backend {
	case profile.Distributed:
		result, err = e.runDistributed(ctx, spec, args, pctx)
	default:
		result, err = e.runSequential(ctx, spec, args)
	}
	if err != nil {
		return StageResult{}, err
	}

	result.StageID = spec.ID
	result.Duration = time.Since(start)
	result.CaptureID = uuid.New()
	logger.Debug("Stage finished.", "exit_code", result.ExitCode, "duration", result.Duration)
	return result, nil
}

func (e *Executor) runSequential(ctx context.Context, spec stage.Spec, args []string) (StageResult, error) {
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, spec.Command, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	code, err := waitExit(cmd.Run())
	if err != nil {
		return StageResult{}, fmt.Errorf("stage %q failed to launch: %w", spec.ID, err)
	}
	return StageResult{ExitCode: code, Output: output.Bytes()}, nil
}

// runDistributed launches pctx.Workers() peer processes with the identical
// argument list. Workers learn their place in the group and their thread
// budget from the environment. All of them must exit zero for the stage to
// count as succeeded.
func (e *Executor) runDistributed(ctx context.Context, spec stage.Spec, args []string, pctx *params.Context) (StageResult, error) {
	nWorkers := pctx.Workers()
	cmds := make([]*exec.Cmd, nWorkers)
	outputs := make([]bytes.Buffer, nWorkers)

	for rank := 0; rank < nWorkers; rank++ {
		cmd := exec.CommandContext(ctx, spec.Command, args...)
		cmd.Stdout = &outputs[rank]
		cmd.Stderr = &outputs[rank]
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("%s=%d", EnvThreads, pctx.Threads()),
			fmt.Sprintf("%s=%d", EnvRank, rank),
			fmt.Sprintf("%s=%d", EnvNRanks, nWorkers),
		)
		if err := cmd.Start(); err != nil {
			// Launch failed mid-group: reap whatever already started.
			for _, started := range cmds[:rank] {
				_ = started.Process.Kill()
				_ = started.Wait()
			}
			return StageResult{}, fmt.Errorf("stage %q worker %d failed to launch: %w", spec.ID, rank, err)
		}
		cmds[rank] = cmd
	}

	exits := make([]int, nWorkers)
	waitErrs := make([]error, nWorkers)
	var wg sync.WaitGroup
	for rank, cmd := range cmds {
		wg.Add(1)
		go func(rank int, cmd *exec.Cmd) {
			defer wg.Done()
			exits[rank], waitErrs[rank] = waitExit(cmd.Wait())
		}(rank, cmd)
	}
	wg.Wait()

	for rank, err := range waitErrs {
		if err != nil {
			return StageResult{}, fmt.Errorf("stage %q worker %d: %w", spec.ID, rank, err)
		}
	}

	exitCode := 0
	for _, code := range exits {
		if code != 0 {
			exitCode = code
			break
		}
	}

	var combined bytes.Buffer
	for rank := range outputs {
		combined.Write(outputs[rank].Bytes())
	}
	return StageResult{ExitCode: exitCode, WorkerExits: exits, Output: combined.Bytes()}, nil
}

// waitExit folds the result of Cmd.Run or Cmd.Wait into an exit code. Only
// errors that are not ordinary non-zero exits are passed through.
func waitExit(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
