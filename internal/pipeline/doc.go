// Package pipeline converts a numbered frame sequence into a compiled
// particle sheet.
//
// A run is single-shot and strictly linear:
//
//	Init -> FramesConverted -> ToolDirResolved -> ManifestWritten -> Packed
//	     -> IntermediatesCleaned -> Compiled -> Finalized
//
// Any stage may abort instead; Aborted is absorbing. The first failure ends
// the run, its cause is reported as a *StageError and as Result.Status, and
// intermediate files from stages that completed are left on disk for the next
// run to overwrite.
//
// Files:
//   - runner.go:  Run and the per-stage steps
//   - context.go: RunContext, the explicit inputs of one run
//   - layout.go:  every path a run reads or writes
//   - state.go:   State and transition reporting
//   - errors.go:  error kinds, StageError and status messages
//   - stats.go:   RunStats
//   - list.go:    frame listing for --list
package pipeline
