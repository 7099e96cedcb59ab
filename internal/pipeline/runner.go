package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/particlesheet/internal/artifact"
	"github.com/backmassage/particlesheet/internal/display"
	"github.com/backmassage/particlesheet/internal/frames"
	"github.com/backmassage/particlesheet/internal/imaging"
	"github.com/backmassage/particlesheet/internal/manifest"
	"github.com/backmassage/particlesheet/internal/material"
	"github.com/backmassage/particlesheet/internal/tga"
	"github.com/backmassage/particlesheet/internal/toolchain"
)

// outputLogLines caps how much tool output is replayed on failure.
const outputLogLines = 20

// Result is the outcome of one run.
type Result struct {
	ID     uuid.UUID
	State  State  // Finalized or Aborted
	Status string // one-line summary for the user
	Err    error  // *StageError when aborted

	Texture  string // final texture path, set on success
	Material string // material path, set when one was written

	// Leftovers lists files the run created that still exist after an
	// abort. They are overwritten by the next run.
	Leftovers []string

	Stats RunStats
}

// OK reports whether the run reached Finalized.
func (r *Result) OK() bool { return r.State == Finalized }

type runner struct {
	rc     *RunContext
	log    Logger
	state  State
	ledger *artifact.Ledger
	layout Layout
	stats  RunStats

	converted  []string // frames written to the output directory
	toolFrames []string // copies placed in the tool directory
	texture    string
	material   string
}

type step struct {
	to State
	fn func(context.Context) error
}

// Run executes one conversion from Init to Finalized, stopping at the first
// failure. It never panics on tool or filesystem errors; every failure is
// reported through Result.
func Run(ctx context.Context, rc *RunContext, log Logger) Result {
	start := time.Now()
	r := &runner{rc: rc, log: log, ledger: artifact.NewLedger()}

	steps := []step{
		{FramesConverted, r.convertFrames},
		{ToolDirResolved, r.resolveToolDir},
		{ManifestWritten, r.writeManifest},
		{Packed, r.pack},
		{IntermediatesCleaned, r.cleanIntermediates},
		{Compiled, r.compile},
		{Finalized, r.finalize},
	}

	res := Result{ID: rc.ID}
	for _, s := range steps {
		if r.state.Terminal() {
			break
		}
		if err := ctx.Err(); err != nil {
			res.Err = r.fail(err, nil)
			break
		}
		if err := s.fn(ctx); err != nil {
			res.Err = err
			break
		}
		r.advance(s.to)
	}

	r.stats.Elapsed = time.Since(start)
	res.Stats = r.stats
	if res.Err != nil {
		r.advance(Aborted)
		res.State = Aborted
		res.Status = Status(res.Err)
		res.Leftovers = r.leftovers()
		return res
	}

	res.State = Finalized
	res.Texture = r.texture
	res.Material = r.material
	res.Status = fmt.Sprintf("Done! %s written to %s", filepath.Base(r.texture), filepath.Dir(r.texture))
	return res
}

func (r *runner) advance(to State) {
	from := r.state
	r.state = to
	r.log.Debug(r.rc.Verbose, "State: %s -> %s", from, to)
	if r.rc.OnTransition != nil {
		r.rc.OnTransition(from, to)
	}
}

func (r *runner) fail(kind, err error) error {
	return &StageError{Stage: r.state, Kind: kind, Err: err}
}

// --- Stages ---

func (r *runner) convertFrames(ctx context.Context) error {
	rc := r.rc
	if fi, err := os.Stat(rc.FramesDir); err != nil || !fi.IsDir() {
		return r.fail(ErrNoInputFrames, fmt.Errorf("frames directory %s does not exist", rc.FramesDir))
	}
	if _, err := artifact.EnsureDir(rc.OutputDir); err != nil {
		return r.fail(ErrFilesystem, err)
	}

	entries, err := frames.Discover(rc.FramesDir, rc.FrameExt)
	if err != nil {
		return r.fail(discoveryKind(err), err)
	}
	if len(entries) == 0 {
		return r.fail(ErrNoInputFrames, fmt.Errorf("no %s in %s", frames.SourceName(0, rc.FrameExt), rc.FramesDir))
	}
	r.log.Info("Converting %d frame(s) from %s", len(entries), rc.FramesDir)

	var firstW, firstH int
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return r.fail(err, nil)
		}
		img, err := imaging.Load(e.Path)
		if err != nil {
			return r.fail(ErrDecode, err)
		}
		enc, err := tga.FromNRGBA(img)
		if err != nil {
			return r.fail(ErrDecode, fmt.Errorf("%s: %w", e.Name, err))
		}

		if i == 0 {
			firstW, firstH = enc.Width, enc.Height
		} else if enc.Width != firstW || enc.Height != firstH {
			r.log.Warn("Frame %s is %s, frame 0 is %s", e.Name,
				display.FormatDimensions(enc.Width, enc.Height), display.FormatDimensions(firstW, firstH))
		}

		dst := filepath.Join(rc.OutputDir, frames.ConvertedName(i+1, FrameExt))
		r.ledger.Claim(dst)
		if err := enc.WriteFile(dst); err != nil {
			return r.fail(ErrFilesystem, err)
		}
		r.converted = append(r.converted, dst)

		r.stats.Frames++
		r.stats.InputBytes += artifact.Size(e.Path)
		r.stats.ConvertedBytes += enc.Size()
		r.log.Debug(rc.Verbose, "  %s -> %s (%s)", e.Name, filepath.Base(dst),
			display.FormatDimensions(enc.Width, enc.Height))
	}

	r.log.Success("Converted %d frame(s) (%s)", r.stats.Frames, display.FormatBytes(r.stats.ConvertedBytes))
	return nil
}

func (r *runner) resolveToolDir(context.Context) error {
	if r.rc.Resolver == nil {
		return r.fail(ErrToolDirectoryNotFound, errors.New("no tool directory lookup configured"))
	}
	dir, err := r.rc.Resolver.ResolveToolDir()
	if err != nil {
		return r.fail(ErrToolDirectoryNotFound, err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return r.fail(ErrToolDirectoryNotFound, fmt.Errorf("%s is not a directory", dir))
	}
	r.layout = NewLayout(r.rc, dir)
	r.log.Info("Tool directory: %s", dir)
	return nil
}

func (r *runner) writeManifest(context.Context) error {
	l := r.layout
	if _, err := artifact.EnsureDir(l.MaterialSrcDir); err != nil {
		return r.fail(ErrFilesystem, err)
	}

	if r.ledger.ClaimIfAbsent(l.GameInfoDst) {
		r.log.Debug(r.rc.Verbose, "Copying %s into the tool directory", filepath.Base(l.GameInfoSrc))
	}
	if err := artifact.CopyFile(l.GameInfoSrc, l.GameInfoDst); err != nil {
		return r.fail(ErrFilesystem, err)
	}

	entries, err := frames.DiscoverConverted(l.OutputDir, FrameExt)
	if err != nil {
		return r.fail(discoveryKind(err), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !r.ledger.Owns(e.Path) {
			r.log.Warn("Ignoring %s left over from an earlier run", e.Name)
			continue
		}
		dst := l.ToolFrame(e.Name)
		r.ledger.Claim(dst)
		if err := artifact.CopyFile(e.Path, dst); err != nil {
			return r.fail(ErrFilesystem, err)
		}
		r.toolFrames = append(r.toolFrames, dst)
		names = append(names, e.Name)
	}
	if len(names) == 0 {
		return r.fail(ErrNoInputFrames, fmt.Errorf("no converted frames in %s", l.OutputDir))
	}

	m := manifest.Build(names, r.rc.Loop)
	r.ledger.Claim(l.Manifest)
	if err := m.Write(l.Manifest); err != nil {
		return r.fail(ErrManifestWrite, err)
	}
	r.log.Debug(r.rc.Verbose, "Manifest %s: %d frame(s), loop=%v", filepath.Base(l.Manifest), len(names), r.rc.Loop)
	return nil
}

func (r *runner) pack(ctx context.Context) error {
	l := r.layout
	if err := r.clearOutputs(l.Sheet, l.SheetImage); err != nil {
		return err
	}

	res, err := r.runTool(ctx, toolchain.Invocation{
		Stage:    "pack",
		Tool:     r.rc.PackTool,
		Dir:      l.ToolDir,
		Args:     toolchain.PackArgs(filepath.Base(l.Manifest), filepath.Base(l.Sheet), filepath.Base(l.SheetImage)),
		Expected: []string{l.Sheet, l.SheetImage},
	})
	if err != nil {
		return r.toolError(ErrPack, err)
	}
	r.stats.PackTime = res.Duration
	r.log.Success("Sheet packed in %s", res.Duration.Round(time.Millisecond))
	return nil
}

func (r *runner) cleanIntermediates(context.Context) error {
	l := r.layout
	if err := r.remove(l.Manifest); err != nil {
		return err
	}
	if err := r.move(l.Sheet, l.SrcSheet); err != nil {
		return err
	}
	if err := r.move(l.SheetImage, l.SrcSheetImage); err != nil {
		return err
	}
	for _, p := range r.toolFrames {
		if err := r.remove(p); err != nil {
			return err
		}
	}
	for _, p := range r.converted {
		if err := r.remove(p); err != nil {
			return err
		}
	}
	r.log.Debug(r.rc.Verbose, "Removed %d intermediate frame(s)", len(r.toolFrames)+len(r.converted))
	return nil
}

func (r *runner) compile(ctx context.Context) error {
	l := r.layout
	if err := r.clearOutputs(l.CompiledTexture); err != nil {
		return err
	}

	res, err := r.runTool(ctx, toolchain.Invocation{
		Stage:    "compile",
		Tool:     r.rc.CompileTool,
		Dir:      l.ToolDir,
		Args:     toolchain.CompileArgs(l.SrcSheet),
		Expected: []string{l.CompiledTexture},
	})
	if err != nil {
		return r.toolError(ErrCompile, err)
	}
	r.stats.CompileTime = res.Duration
	r.log.Success("Texture compiled in %s", res.Duration.Round(time.Millisecond))
	return nil
}

func (r *runner) finalize(context.Context) error {
	l := r.layout
	if err := r.move(l.CompiledTexture, l.Texture); err != nil {
		return err
	}
	r.ledger.Release(l.Texture)
	r.texture = l.Texture
	r.stats.OutputBytes = artifact.Size(l.Texture)

	for _, p := range []string{l.SrcSheet, l.SrcSheetImage} {
		if err := r.remove(p); err != nil {
			return err
		}
	}
	if r.ledger.Owns(l.GameInfoDst) {
		if err := r.remove(l.GameInfoDst); err != nil {
			return err
		}
	}

	if r.rc.CreateMaterial {
		opts := material.Options{
			Name:         r.rc.OutputName,
			MaterialPath: r.rc.MaterialPath,
			BlendFrames:  r.rc.BlendFrames,
			Translucent:  r.rc.Translucent,
		}
		if err := material.Write(l.Material, opts); err != nil {
			return r.fail(ErrFilesystem, err)
		}
		r.material = l.Material
		r.stats.MaterialBytes = artifact.Size(l.Material)
		r.log.Info("Material: %s -> %s", filepath.Base(l.Material), opts.BaseTexture())
	}
	return nil
}

// --- Helpers ---

func (r *runner) runTool(ctx context.Context, inv toolchain.Invocation) (toolchain.Result, error) {
	r.log.Info("Running %s: %s %s", inv.Stage, inv.Tool, strings.Join(inv.Args, " "))
	opts := toolchain.Options{Timeout: r.rc.ToolTimeout, Echo: r.rc.ToolOutput}
	res, err := toolchain.Run(ctx, inv, opts)

	var tf *toolchain.ToolFailure
	switch {
	case err == nil:
		r.log.Debug(r.rc.Verbose, "%s exited %d", res.Path, res.ExitCode)
		if opts.Echo != nil {
			break
		}
		for _, line := range outputLines(res.Output, outputLogLines) {
			r.log.Debug(r.rc.Verbose, "  %s", line)
		}
	case errors.As(err, &tf):
		r.log.Error("%s", tf.Error())
		if tf.OutputTail != "" {
			r.log.Error("Last %s output:", inv.Tool)
			for _, line := range outputLines(tf.OutputTail, outputLogLines) {
				r.log.Error("  %s", line)
			}
		}
	}
	return res, err
}

func (r *runner) toolError(kind, err error) error {
	switch {
	case errors.Is(err, toolchain.ErrTimeout):
		return r.fail(ErrToolTimeout, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return r.fail(err, nil)
	}
	return r.fail(kind, err)
}

func (r *runner) remove(path string) error {
	if err := artifact.Remove(path); err != nil {
		return r.fail(ErrFilesystem, err)
	}
	r.ledger.Release(path)
	return nil
}

// clearOutputs claims the paths a tool is about to write and deletes whatever
// an earlier run left there, so only files the tool produces now count.
func (r *runner) clearOutputs(paths ...string) error {
	for _, p := range paths {
		r.ledger.Claim(p)
		if err := artifact.Remove(p); err != nil {
			return r.fail(ErrFilesystem, err)
		}
	}
	return nil
}

func (r *runner) move(src, dst string) error {
	r.ledger.Claim(dst)
	if err := artifact.Relocate(src, dst, true); err != nil {
		return r.fail(ErrFilesystem, err)
	}
	r.ledger.Release(src)
	return nil
}

func (r *runner) leftovers() []string {
	var out []string
	for _, p := range r.ledger.Created() {
		if artifact.Exists(p) {
			out = append(out, p)
		}
	}
	return out
}

func discoveryKind(err error) error {
	var pe *frames.ParseError
	if errors.As(err, &pe) {
		return ErrParse
	}
	return ErrFilesystem
}

func outputLines(s string, n int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
