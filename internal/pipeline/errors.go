package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every abort wraps exactly one of these (or a context error
// when the run was cancelled).
var (
	ErrNoInputFrames         = errors.New("no input frames")
	ErrToolDirectoryNotFound = errors.New("tool directory not found")
	ErrManifestWrite         = errors.New("manifest write failed")
	ErrPack                  = errors.New("sheet pack failed")
	ErrCompile               = errors.New("texture compile failed")
	ErrDecode                = errors.New("frame decode failed")
	ErrParse                 = errors.New("malformed frame name")
	ErrFilesystem            = errors.New("filesystem operation failed")
	ErrToolTimeout           = errors.New("external tool timed out")
)

// StageError records the state a run aborted in, the error kind and the
// underlying cause. errors.Is matches both Kind and anything in Err's chain.
type StageError struct {
	Stage State
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// statusMessages maps error kinds to the one-line status shown to the user.
var statusMessages = []struct {
	kind error
	msg  string
}{
	{ErrNoInputFrames, "No input frames found"},
	{ErrToolDirectoryNotFound, "Tool directory not found"},
	{ErrManifestWrite, "Could not write the sheet manifest"},
	{ErrPack, "Sheet packing failed"},
	{ErrCompile, "Texture compile failed"},
	{ErrDecode, "Could not read an input frame"},
	{ErrParse, "Malformed frame file name"},
	{ErrToolTimeout, "External tool timed out"},
	{ErrFilesystem, "File operation failed"},
	{context.Canceled, "Cancelled"},
	{context.DeadlineExceeded, "Cancelled (deadline exceeded)"},
}

// Status renders err as the single human-readable status line of a run.
func Status(err error) string {
	if err == nil {
		return "Done"
	}
	var se *StageError
	detail := err.Error()
	if errors.As(err, &se) {
		detail = ""
		if se.Err != nil {
			detail = se.Err.Error()
		}
	}
	for _, s := range statusMessages {
		if errors.Is(err, s.kind) {
			if detail == "" || detail == s.kind.Error() {
				return s.msg
			}
			return s.msg + ": " + detail
		}
	}
	if detail == "" {
		detail = err.Error()
	}
	return "Failed: " + detail
}
