package executor

import (
	"time"

	"github.com/google/uuid"
)

// StageResult is the outcome of one stage invocation.
type StageResult struct {
	// StageID names the stage that ran.
	StageID string
	// ExitCode is the process exit status; for a distributed stage it is the
	// exit status of the lowest-ranked failing worker, or zero when all
	// workers succeeded.
	ExitCode int
	// WorkerExits holds the per-worker exit codes of a distributed stage,
	// indexed by rank. Nil for sequential stages.
	WorkerExits []int
	// Duration is the wall-clock time from launch to the last exit.
	Duration time.Duration
	// CaptureID identifies the captured output of this invocation.
	CaptureID uuid.UUID
	// Output is the combined stdout and stderr of the process group.
	Output []byte
}

// Succeeded reports whether every launched process exited zero.
func (r StageResult) Succeeded() bool {
	if r.ExitCode != 0 {
		return false
	}
	for _, code := range r.WorkerExits {
		if code != 0 {
			return false
		}
	}
	return true
}
