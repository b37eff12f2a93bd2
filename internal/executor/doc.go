// Package executor launches one pipeline stage as an external process and
// reports how it exited.
//
// The sequential backend runs a single process and blocks until it
// terminates. The distributed backend launches a group of cooperating worker
// processes, all given the identical rendered command line; each worker
// receives its rank and the group size plus a thread budget through the
// environment, and the stage only succeeds when every worker exits zero.
//
// The executor never retries: retry and continuation policy belongs to the
// runner.
package executor
