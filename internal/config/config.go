// Package config holds runtime configuration: defaults, an optional YAML
// file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Supported source frame extensions (lowercase, without dot). Each one has a
// decoder registered by the imaging package.
var frameExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
	"webp": true,
}

// FrameExtensions returns the supported source extensions, sorted.
func FrameExtensions() []string {
	exts := make([]string, 0, len(frameExtensions))
	for ext := range frameExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], and then mutated by [ParseFlags] before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	FramesDir    string `yaml:"frames_dir"`    // Default: "frames" (positional arg overrides).
	ConvertedDir string `yaml:"converted_dir"` // Default: "<FramesDir>/converted".
	FrameExt     string `yaml:"frame_ext"`     // Default: "png".

	// Sheet options.
	OutputName     string `yaml:"name"`            // Default: "export".
	Loop           bool   `yaml:"loop"`            // Adds the "loop" manifest directive.
	CreateMaterial bool   `yaml:"create_material"` // Emit <name>.vmt next to the texture.
	BlendFrames    bool   `yaml:"blend_frames"`    // "$blendframes" in the material.
	Translucent    bool   `yaml:"translucent"`     // Default: true. "$translucent" in the material.
	MaterialPath   string `yaml:"material_path"`   // Default: "particles". Prefix of "$basetexture".

	// Tool chain.
	ToolDir     string        `yaml:"tool_dir"`     // Empty: look up the Steam install.
	SteamRoot   string        `yaml:"steam_root"`   // Extra Steam root to search first.
	PackTool    string        `yaml:"pack_tool"`    // Default: "mksheet" (".exe" on Windows).
	CompileTool string        `yaml:"compile_tool"` // Default: "vtex" (".exe" on Windows).
	GameInfo    string        `yaml:"gameinfo"`     // Empty: "<ToolDir>/../tf/gameinfo.txt".
	ToolTimeout time.Duration `yaml:"tool_timeout"` // Default: 10m. Zero disables the timeout.

	// Display and logging.
	Verbose   bool      `yaml:"verbose"`
	ColorMode ColorMode `yaml:"color"`    // Default: "auto".
	LogFile   string    `yaml:"log_file"` // Optional log file path.

	// Modes (CLI only).
	ConfigFile string `yaml:"-"`
	CheckOnly  bool   `yaml:"-"` // Run --check diagnostics and exit.
	ListOnly   bool   `yaml:"-"` // List discovered frames and exit.
}

// DefaultConfig returns a Config with stock defaults. Used as the base
// before [LoadFile] and [ParseFlags].
func DefaultConfig() Config {
	return Config{
		FramesDir:    "frames",
		FrameExt:     "png",
		OutputName:   "export",
		Translucent:  true,
		MaterialPath: "particles",
		PackTool:     executableName("mksheet"),
		CompileTool:  executableName("vtex"),
		ToolTimeout:  10 * time.Minute,
		ColorMode:    ColorAuto,
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// OutputDir returns the directory that receives converted frames and the
// final deliverables.
func (c *Config) OutputDir() string {
	if c.ConvertedDir != "" {
		return c.ConvertedDir
	}
	return filepath.Join(c.FramesDir, "converted")
}

// Validate checks enum fields and the output name, and normalizes the frame
// extension. Path existence is checked later by the pipeline.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	c.FrameExt = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.FrameExt), "."))
	if !frameExtensions[c.FrameExt] {
		return fmt.Errorf("unsupported frame extension %q", c.FrameExt)
	}

	c.OutputName = strings.TrimSpace(c.OutputName)
	if c.OutputName == "" {
		c.OutputName = "export"
	}
	if err := ValidateOutputName(c.OutputName); err != nil {
		return err
	}

	if strings.Contains(c.MaterialPath, `"`) {
		return fmt.Errorf("invalid material path %q (quotes are not allowed)", c.MaterialPath)
	}

	if c.ToolTimeout < 0 {
		return errors.New("tool timeout must not be negative")
	}
	if c.PackTool == "" || c.CompileTool == "" {
		return errors.New("pack and compile tool names must not be empty")
	}
	if c.CheckOnly {
		return nil
	}
	if c.FramesDir == "" {
		return errors.New("need a frames directory")
	}
	return nil
}

// ValidateOutputName rejects names that would escape the output directory
// once used as a file stem, and names a material file cannot quote.
func ValidateOutputName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\:"`) {
		return fmt.Errorf("invalid output name %q (use a plain file name)", name)
	}
	return nil
}
