// Package check provides system diagnostics (--check mode) and the pre-run
// dependency check for the sheet pack and compile tools.
package check

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/backmassage/particlesheet/internal/config"
	"github.com/backmassage/particlesheet/internal/display"
	"github.com/backmassage/particlesheet/internal/pipeline"
	"github.com/backmassage/particlesheet/internal/toolchain"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrPackToolNotFound    = errors.New("pack tool not found")
	ErrCompileToolNotFound = errors.New("compile tool not found")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck reports the resolved tool directory, both tool executables, the
// directories the tools write to, the game-info source and the frames
// directory. It returns false when anything a conversion needs is missing.
func RunCheck(cfg *config.Config, resolver toolchain.Resolver, log Logger) bool {
	log.Info("=== System Check ===")
	log.Info("Frame decoders: %s", strings.Join(config.FrameExtensions(), ", "))

	ok := checkFrames(cfg, log)

	dir, err := resolver.ResolveToolDir()
	if err != nil {
		log.Error("%v", err)
		log.Info("Set --tooldir or --steam-root to point at the Team Fortress 2 bin directory")
		return false
	}
	log.Success("Tool directory: %s", dir)

	for _, tool := range []string{cfg.PackTool, cfg.CompileTool} {
		if path, found := findTool(dir, tool); found {
			log.Success("%s: %s", tool, path)
		} else {
			log.Error("%s not found in %s or on PATH", tool, dir)
			ok = false
		}
	}

	layout := pipeline.NewLayout(pipeline.NewRunContext(cfg, resolver), dir)
	if isDir(layout.MaterialsDir) {
		log.Success("materials/: present")
	} else {
		log.Warn("materials/ missing in %s; the compile tool may not write its output", dir)
	}
	if isDir(layout.MaterialSrcDir) {
		log.Debug(cfg.Verbose, "usermod/materialsrc: present")
	} else {
		log.Info("usermod/materialsrc will be created on first run")
	}
	if _, err := os.Stat(layout.GameInfoSrc); err == nil {
		log.Success("Game info: %s", layout.GameInfoSrc)
	} else {
		log.Error("Game info not found: %s", layout.GameInfoSrc)
		ok = false
	}
	return ok
}

// checkFrames lists the frame run a conversion would pick up. A missing or
// empty frames directory is reported but does not fail the check.
func checkFrames(cfg *config.Config, log Logger) bool {
	if cfg.FramesDir == "" || !isDir(cfg.FramesDir) {
		log.Warn("Frames directory not found: %s", cfg.FramesDir)
		return true
	}
	l, err := pipeline.ListFrames(cfg.FramesDir, cfg.FrameExt)
	if err != nil {
		log.Error("Frames: %v", err)
		return false
	}
	if len(l.Frames) == 0 {
		log.Warn("Frames: no 0.%s in %s", cfg.FrameExt, cfg.FramesDir)
		return true
	}
	first := l.Frames[0].Info
	log.Success("Frames: %d ready in %s (%s)", len(l.Frames), cfg.FramesDir,
		display.FormatDimensions(first.Width, first.Height))
	if !l.UniformSize() {
		log.Warn("Frames differ in size")
	}
	return l.Ready()
}

// CheckDeps is the pre-run validation: both tools must be present in dir or
// on PATH.
func CheckDeps(cfg *config.Config, dir string) error {
	if _, found := findTool(dir, cfg.PackTool); !found {
		return fmt.Errorf("%w: %s", ErrPackToolNotFound, cfg.PackTool)
	}
	if _, found := findTool(dir, cfg.CompileTool); !found {
		return fmt.Errorf("%w: %s", ErrCompileToolNotFound, cfg.CompileTool)
	}
	return nil
}

// --- internal helpers ---

// findTool resolves tool the way the pipeline will and reports whether an
// executable file is actually there.
func findTool(dir, tool string) (string, bool) {
	path := toolchain.Executable(dir, tool)
	fi, err := os.Stat(path)
	return path, err == nil && !fi.IsDir()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
