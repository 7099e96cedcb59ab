// Command particlesheet converts a numbered frame sequence into a compiled
// particle sheet texture and, optionally, its material.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), lists the frames a run would use (--list), or runs
// the conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/backmassage/particlesheet/internal/check"
	"github.com/backmassage/particlesheet/internal/config"
	"github.com/backmassage/particlesheet/internal/display"
	"github.com/backmassage/particlesheet/internal/logging"
	"github.com/backmassage/particlesheet/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: the logger doesn't exist yet, so errors go straight to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "particlesheet: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "particlesheet: %v\n", err)
		return 1
	}
	if err := absolutize(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "particlesheet: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "particlesheet: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stderr)
	resolver := pipeline.NewResolver(&cfg)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, resolver, log) {
			return 1
		}
		return 0
	}
	if cfg.ListOnly {
		return listFrames(&cfg, log)
	}

	rc := pipeline.NewRunContext(&cfg, resolver)
	runLog := log.With("run", rc.ID.String())

	runLog.Info("=== particlesheet v%s (%s) ===", version, commit)
	runLog.Info("Frames: %s (*.%s)", rc.FramesDir, rc.FrameExt)
	runLog.Info("Out:    %s", rc.OutputDir)
	runLog.Info("Sheet:  %s (loop: %s, material: %s)", rc.OutputName, onOff(rc.Loop), onOff(rc.CreateMaterial))

	// Fail fast on missing tools. An unresolvable tool directory is left to
	// the pipeline, which reports it after converting the frames.
	if dir, err := resolver.ResolveToolDir(); err == nil {
		if err := check.CheckDeps(&cfg, dir); err != nil {
			runLog.Error("%v", err)
			return 1
		}
	}

	// Cancel on SIGINT/SIGTERM; the running tool is killed and the run aborts
	// before its next stage.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			runLog.Warn("Received interrupt, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	res := pipeline.Run(ctx, rc, runLog)
	if !res.OK() {
		runLog.Error("%s", res.Status)
		for _, p := range res.Leftovers {
			runLog.Debug(cfg.Verbose, "  left on disk: %s", p)
		}
		return 1
	}

	st := res.Stats
	runLog.Success("%s", res.Status)
	runLog.Info("Texture: %s (%s from %d frame(s), %s of input)",
		filepath.Base(res.Texture), display.FormatBytes(st.OutputBytes), st.Frames, ratioLabel(st.Ratio()))
	if res.Material != "" {
		runLog.Info("Material: %s", filepath.Base(res.Material))
	}
	runLog.Debug(cfg.Verbose, "Pack %s, compile %s, total %s", st.PackTime, st.CompileTime, st.Elapsed)
	return 0
}

// listFrames reports the frames a conversion would use and exits 0 when at
// least one frame is ready.
func listFrames(cfg *config.Config, log *logging.Logger) int {
	l, err := pipeline.ListFrames(cfg.FramesDir, cfg.FrameExt)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	for _, f := range l.Frames {
		if f.Err != nil {
			log.Error("  %s: %v", f.Entry.Name, f.Err)
			continue
		}
		note := ""
		if !f.Info.HasAlpha() {
			note = " (no alpha)"
		}
		log.Info("  %-10s %-11s %s%s", f.Entry.Name,
			display.FormatDimensions(f.Info.Width, f.Info.Height), f.Info.Format, note)
	}
	if len(l.Excluded) > 0 {
		log.Warn("Not part of the run from 0.%s: %s", cfg.FrameExt, strings.Join(l.Excluded, ", "))
	}
	if !l.UniformSize() {
		log.Warn("Frames differ in size")
	}

	if !l.Ready() {
		if len(l.Frames) == 0 {
			log.Error("No 0.%s found in %s", cfg.FrameExt, cfg.FramesDir)
		}
		return 1
	}
	log.Success("Ready! %d frame(s)", len(l.Frames))
	return 0
}

// absolutize resolves the directory arguments once so the run never depends
// on the working directory.
func absolutize(cfg *config.Config) error {
	for _, p := range []*string{&cfg.FramesDir, &cfg.ConvertedDir, &cfg.ToolDir, &cfg.GameInfo} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func ratioLabel(pct int64) string {
	if pct < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", pct)
}
