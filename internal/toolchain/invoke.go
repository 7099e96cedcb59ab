package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after killing a tool
// whose children still hold them open.
const waitDelay = 2 * time.Second

// Invocation is one synchronous call to an external tool.
type Invocation struct {
	Stage    string   // label used in errors and logs
	Tool     string   // executable name or path
	Dir      string   // working directory
	Args     []string // positional arguments
	Expected []string // paths that must exist after the tool exits
}

// Options controls how an invocation runs.
type Options struct {
	// Timeout caps the tool's run time; zero means no limit.
	Timeout time.Duration
	// Echo, when set, receives tool output as it is produced.
	Echo io.Writer
}

// Result describes a tool run that produced every expected output.
type Result struct {
	Path     string // resolved executable
	ExitCode int
	Output   string // combined stdout and stderr
	Duration time.Duration
}

// Run starts inv.Tool in inv.Dir, waits for it to exit and verifies the
// expected outputs. It returns a *ToolFailure when any are missing, an error
// wrapping ErrTimeout when the deadline hit, and ctx.Err() when the caller
// cancelled.
func Run(ctx context.Context, inv Invocation, opts Options) (Result, error) {
	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	path := Executable(inv.Dir, inv.Tool)
	cmd := exec.CommandContext(runCtx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	var w io.Writer = &out
	if opts.Echo != nil {
		w = io.MultiWriter(&out, opts.Echo)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		Path:     path,
		ExitCode: -1,
		Output:   out.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%w: %s after %s", ErrTimeout, inv.Stage, opts.Timeout)
	}

	var missing []string
	for _, p := range inv.Expected {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			runErr = nil
		}
		return res, &ToolFailure{
			Stage:      inv.Stage,
			Tool:       inv.Tool,
			Missing:    missing,
			ExitCode:   res.ExitCode,
			OutputTail: tail(res.Output, outputTailLines),
			Err:        runErr,
		}
	}
	return res, nil
}

// Executable resolves tool the way the sheet tools are shipped: a bare name
// found in dir wins over the search path. Paths with a directory component
// are returned unchanged and resolve against the working directory.
func Executable(dir, tool string) string {
	if filepath.IsAbs(tool) || filepath.Base(tool) != tool {
		return tool
	}
	candidate := filepath.Join(dir, tool)
	if abs, err := filepath.Abs(candidate); err == nil {
		candidate = abs
	}
	if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
		return candidate
	}
	if p, err := exec.LookPath(tool); err == nil {
		return p
	}
	return candidate
}
