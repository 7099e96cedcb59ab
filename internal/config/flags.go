package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into sheet, material, tool chain, display, and utility.
// Negated flags (e.g. --no-translucent) are applied after Parse so Config
// defaults hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg. When --config
// is given, the YAML file is loaded first and the flags are applied again on
// top of it, so explicit flags always win. On --help or --version it prints
// and exits.
func ParseFlags(cfg *Config, args []string, version string) error {
	n, fs, err := parseOnce(cfg, args, version)
	if err != nil {
		return err
	}
	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg.ConfigFile, cfg); err != nil {
			return err
		}
		if n, fs, err = parseOnce(cfg, args, version); err != nil {
			return err
		}
	}

	if n.showHelp {
		printUsage(os.Stderr, version)
		os.Exit(0)
	}
	if n.showVersion {
		fmt.Fprintln(os.Stdout, "particlesheet v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

func parseOnce(cfg *Config, args []string, version string) (*negatedFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("particlesheet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(os.Stderr, version) }

	n := &negatedFlags{}
	defineSheetFlags(fs, cfg)
	defineMaterialFlags(fs, cfg, n)
	defineToolFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, n)
	defineUtilityFlags(fs, cfg, n)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			n.showHelp = true
			return n, fs, nil
		}
		return nil, nil, err
	}
	applyNegatedFlags(cfg, n)
	return n, fs, nil
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noTranslucent -> Translucent=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noTranslucent bool
	forceColor    bool
	noColor       bool
	showVersion   bool
	showHelp      bool
}

// defineSheetFlags registers -n/--name, --loop, --ext, --out.
func defineSheetFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.OutputName, "name", cfg.OutputName, "Output base name")
	fs.StringVar(&cfg.OutputName, "n", cfg.OutputName, "Same as --name")
	fs.BoolVar(&cfg.Loop, "loop", cfg.Loop, "Loop the particle sequence")
	fs.StringVar(&cfg.FrameExt, "ext", cfg.FrameExt, "Source frame extension")
	fs.StringVar(&cfg.ConvertedDir, "out", cfg.ConvertedDir, "Output directory (default: <frames>/converted)")
	fs.StringVar(&cfg.ConvertedDir, "o", cfg.ConvertedDir, "Same as --out")
}

// defineMaterialFlags registers --vmt, --blend, --no-translucent, --material-path.
func defineMaterialFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.CreateMaterial, "vmt", cfg.CreateMaterial, "Write a material definition next to the texture")
	fs.BoolVar(&cfg.BlendFrames, "blend", cfg.BlendFrames, "Blend between frames in the material")
	fs.BoolVar(&n.noTranslucent, "no-translucent", false, "Write $translucent 0 in the material")
	fs.StringVar(&cfg.MaterialPath, "material-path", cfg.MaterialPath, "Texture path prefix in the material")
}

// defineToolFlags registers --tooldir, --steam-root, --pack-tool, --compile-tool, --gameinfo, --timeout.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ToolDir, "tooldir", cfg.ToolDir, "Tool-chain bin directory (default: Steam lookup)")
	fs.StringVar(&cfg.ToolDir, "t", cfg.ToolDir, "Same as --tooldir")
	fs.StringVar(&cfg.SteamRoot, "steam-root", cfg.SteamRoot, "Steam installation root to search first")
	fs.StringVar(&cfg.PackTool, "pack-tool", cfg.PackTool, "Sheet pack executable")
	fs.StringVar(&cfg.CompileTool, "compile-tool", cfg.CompileTool, "Texture compile executable")
	fs.StringVar(&cfg.GameInfo, "gameinfo", cfg.GameInfo, "Game info file copied into the tool directory")
	fs.DurationVar(&cfg.ToolTimeout, "timeout", cfg.ToolTimeout, "Per-tool timeout (0 disables)")
}

// defineDisplayFlags registers --color, --no-color, --color-mode, verbose, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color-mode", "Color mode: auto | always | never")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --config, --check, --list, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Load settings from a YAML file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Check the tool-chain directory and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.ListOnly, "list", false, "List the frames that would be converted and exit")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noTranslucent {
		cfg.Translucent = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets FramesDir from the optional positional arg.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		return nil
	case 1:
		cfg.FramesDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("expected at most one frames directory, got %d arguments", len(args))
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "particlesheet v" + version + " - numbered frames to particle sheet texture"},
		{"", ""},
		{"  particlesheet [OPTIONS] [frames_dir]", ""},
		{"", ""},
		{"Sheet", ""},
		{"  -n, --name <name>", "Output base name (default: export)"},
		{"  --loop", "Loop the sequence"},
		{"  --ext <ext>", "Source frame extension (default: png)"},
		{"  -o, --out <dir>", "Output directory (default: <frames>/converted)"},
		{"", ""},
		{"Material", ""},
		{"  --vmt", "Write <name>.vmt next to the texture"},
		{"  --blend", "Blend between frames"},
		{"  --no-translucent", "Write $translucent 0"},
		{"  --material-path <path>", "Texture path prefix (default: particles)"},
		{"", ""},
		{"Tool chain", ""},
		{"  -t, --tooldir <dir>", "Tool-chain bin directory (default: Steam lookup)"},
		{"  --steam-root <dir>", "Steam root to search first"},
		{"  --pack-tool <exe>", "Sheet pack executable (default: mksheet)"},
		{"  --compile-tool <exe>", "Texture compiler (default: vtex)"},
		{"  --gameinfo <path>", "Game info file (default: <tooldir>/../tf/gameinfo.txt)"},
		{"  --timeout <duration>", "Per-tool timeout, 0 disables (default: 10m)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  --color-mode <mode>", "auto | always | never (default: auto)"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "Load settings from YAML (flags still win)"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --list", "List the frames that would be converted"},
		{"  -c, --check", "Check the tool-chain directory"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so ColorMode can be used with flag.Var.

type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string {
	if c.p == nil {
		return ""
	}
	return string(*c.p)
}

func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
