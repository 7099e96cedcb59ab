package toolchain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrTimeout is returned when a tool is still running when its deadline
// expires. The process is killed.
var ErrTimeout = errors.New("tool timed out")

// outputTailLines bounds how much captured output a ToolFailure keeps.
const outputTailLines = 20

// ToolFailure reports an invocation that left expected outputs missing.
type ToolFailure struct {
	Stage    string   // "pack" or "compile"
	Tool     string   // executable as invoked
	Missing  []string // expected outputs absent after exit
	ExitCode int      // -1 when the process never started or was killed
	// OutputTail holds the last lines of combined stdout/stderr.
	OutputTail string
	// Err is the start or wait error from os/exec, if any.
	Err error
}

func (f *ToolFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s did not produce %s", f.Stage, f.Tool, strings.Join(f.Missing, ", "))
	if f.Err != nil && f.ExitCode < 0 {
		fmt.Fprintf(&b, " (%v)", f.Err)
	} else {
		fmt.Fprintf(&b, " (exit %d)", f.ExitCode)
	}
	if d := Diagnostic(f.OutputTail); d != "" {
		fmt.Fprintf(&b, ": %s", d)
	}
	return b.String()
}

func (f *ToolFailure) Unwrap() error { return f.Err }

// reToolError matches the lines the sheet tools print when they give up:
// "ERROR: ...", "Can't load ...", "Couldn't open ...", "Error loading ...".
var reToolError = regexp.MustCompile(
	`(?im)^.*(\berror\b|can't|cannot|couldn't|could not|unable to|failed).*$`)

// Diagnostic returns the first line of tool output that looks like an error
// message, or "" when none does.
func Diagnostic(output string) string {
	return strings.TrimSpace(reToolError.FindString(output))
}

// tail returns the last n lines of s, trimmed of surrounding blank space.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\r\n\t ")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
