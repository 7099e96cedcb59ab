package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/particlesheet/internal/config"
	"github.com/backmassage/particlesheet/internal/toolchain"
)

// Logger is the logging surface the pipeline needs. Defined here so tests
// can pass a recorder instead of the CLI logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunContext carries everything one conversion run reads. Paths are used as
// given; the caller resolves them once before calling [Run].
type RunContext struct {
	ID uuid.UUID

	FramesDir  string // numbered source frames
	OutputDir  string // converted frames, final texture and material
	FrameExt   string // source extension without dot
	OutputName string // base name of the texture and material

	Loop           bool
	CreateMaterial bool
	BlendFrames    bool
	Translucent    bool
	MaterialPath   string

	Resolver    toolchain.Resolver
	PackTool    string
	CompileTool string
	GameInfo    string        // game-info source; empty means <tooldir>/../tf/gameinfo.txt
	ToolTimeout time.Duration // per tool; zero means none

	Verbose bool
	// ToolOutput, when set, receives pack and compile output live.
	ToolOutput io.Writer

	// OnTransition, when set, is called after every state change.
	OnTransition func(from, to State)
}

// NewRunContext builds a RunContext from validated configuration.
func NewRunContext(cfg *config.Config, resolver toolchain.Resolver) *RunContext {
	rc := &RunContext{
		ID:             uuid.New(),
		FramesDir:      cfg.FramesDir,
		OutputDir:      cfg.OutputDir(),
		FrameExt:       cfg.FrameExt,
		OutputName:     cfg.OutputName,
		Loop:           cfg.Loop,
		CreateMaterial: cfg.CreateMaterial,
		BlendFrames:    cfg.BlendFrames,
		Translucent:    cfg.Translucent,
		MaterialPath:   cfg.MaterialPath,
		Resolver:       resolver,
		PackTool:       cfg.PackTool,
		CompileTool:    cfg.CompileTool,
		GameInfo:       cfg.GameInfo,
		ToolTimeout:    cfg.ToolTimeout,
		Verbose:        cfg.Verbose,
	}
	if cfg.Verbose {
		rc.ToolOutput = os.Stderr
	}
	return rc
}

// NewResolver returns the tool-directory lookup implied by cfg: the explicit
// directory when one is set, otherwise the Steam install search.
func NewResolver(cfg *config.Config) toolchain.Resolver {
	if cfg.ToolDir != "" {
		return toolchain.StaticResolver{Dir: cfg.ToolDir}
	}
	return toolchain.ChainResolver{toolchain.NewSteamResolver(cfg.SteamRoot)}
}
