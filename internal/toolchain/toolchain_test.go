package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestRun_ExitZeroWithoutOutputsFails(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "mksheet", "echo 'ERROR: no frames' >&2\nexit 0")

	inv := Invocation{
		Stage:    "pack",
		Tool:     "mksheet",
		Dir:      dir,
		Args:     PackArgs("a.mks", "a.sht", "a.tga"),
		Expected: []string{filepath.Join(dir, "a.sht"), filepath.Join(dir, "a.tga")},
	}
	_, err := Run(context.Background(), inv, Options{})
	var tf *ToolFailure
	if !errors.As(err, &tf) {
		t.Fatalf("Run error = %v, want *ToolFailure", err)
	}
	if tf.Stage != "pack" || len(tf.Missing) != 2 {
		t.Errorf("failure = %+v", tf)
	}
	if tf.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", tf.ExitCode)
	}
	if !strings.Contains(tf.OutputTail, "no frames") {
		t.Errorf("OutputTail = %q", tf.OutputTail)
	}
	if !strings.Contains(tf.Error(), "ERROR: no frames") {
		t.Errorf("Error() should carry the diagnostic line: %s", tf.Error())
	}
}

func TestRun_NonZeroExitWithOutputsSucceeds(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "mksheet", `echo sheet > "$2"; echo img > "$3"; exit 3`)

	inv := Invocation{
		Stage:    "pack",
		Tool:     "mksheet",
		Dir:      dir,
		Args:     PackArgs("a.mks", "a.sht", "a.tga"),
		Expected: []string{filepath.Join(dir, "a.sht"), filepath.Join(dir, "a.tga")},
	}
	res, err := Run(context.Background(), inv, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Path != filepath.Join(dir, "mksheet") {
		t.Errorf("Path = %q, want the copy in the tool dir", res.Path)
	}
}

func TestRun_ArgumentWithSpaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Team Fortress 2", "bin")
	if err := os.MkdirAll(filepath.Join(dir, "materials"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTool(t, dir, "vtex", `b=$(basename "$1" .sht); echo vtf > "materials/$b.vtf"`)

	sheet := filepath.Join(dir, "usermod", "materialsrc", "mks_export.sht")
	want := filepath.Join(dir, "materials", "mks_export.vtf")
	_, err := Run(context.Background(), Invocation{
		Stage:    "compile",
		Tool:     "vtex",
		Dir:      dir,
		Args:     CompileArgs(sheet),
		Expected: []string{want},
	}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "vtex", "sleep 5")

	start := time.Now()
	_, err := Run(context.Background(), Invocation{Stage: "compile", Tool: "vtex", Dir: dir},
		Options{Timeout: 100 * time.Millisecond})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run error = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Run took %s; the tool should have been killed", elapsed)
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "vtex", "sleep 5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Invocation{Stage: "compile", Tool: "vtex", Dir: dir}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "x.vtf")
	_, err := Run(context.Background(), Invocation{
		Stage:    "compile",
		Tool:     "no-such-tool-here",
		Dir:      dir,
		Expected: []string{out},
	}, Options{})
	var tf *ToolFailure
	if !errors.As(err, &tf) {
		t.Fatalf("Run error = %v, want *ToolFailure", err)
	}
	if tf.ExitCode != -1 || tf.Err == nil {
		t.Errorf("failure = %+v, want start error and exit -1", tf)
	}
}

func TestRun_Echo(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "mksheet", "echo packing")

	var echo strings.Builder
	res, err := Run(context.Background(), Invocation{Stage: "pack", Tool: "mksheet", Dir: dir},
		Options{Echo: &echo})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(echo.String(), "packing") || !strings.Contains(res.Output, "packing") {
		t.Errorf("echo = %q, output = %q", echo.String(), res.Output)
	}
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"loading frames\nERROR: frame_2.tga has a different size\ndone\n", "ERROR: frame_2.tga has a different size"},
		{"Can't load file mks_export.sht\n", "Can't load file mks_export.sht"},
		{"all good\n", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Diagnostic(tt.output); got != tt.want {
			t.Errorf("Diagnostic(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestTail(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("line\n")
	}
	b.WriteString("last\n")
	got := tail(b.String(), 3)
	if got != "line\nline\nlast" {
		t.Errorf("tail = %q", got)
	}
	if tail("\n\n", 3) != "" {
		t.Error("blank output should have an empty tail")
	}
}

func TestStaticResolver(t *testing.T) {
	dir := t.TempDir()
	got, err := StaticResolver{Dir: dir}.ResolveToolDir()
	if err != nil || got != dir {
		t.Errorf("ResolveToolDir = %q, %v", got, err)
	}

	for _, d := range []string{"", filepath.Join(dir, "missing")} {
		if _, err := (StaticResolver{Dir: d}).ResolveToolDir(); !errors.Is(err, ErrToolDirNotFound) {
			t.Errorf("ResolveToolDir(%q) error = %v, want ErrToolDirNotFound", d, err)
		}
	}
}

func TestSteamResolver(t *testing.T) {
	empty := t.TempDir()
	steam := t.TempDir()
	bin := filepath.Join(steam, SteamToolSubdir)
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := SteamResolver{Roots: []string{empty, steam}}.ResolveToolDir()
	if err != nil {
		t.Fatalf("ResolveToolDir: %v", err)
	}
	if got != bin {
		t.Errorf("got %q, want %q", got, bin)
	}

	if _, err := (SteamResolver{Roots: []string{empty}}).ResolveToolDir(); !errors.Is(err, ErrToolDirNotFound) {
		t.Errorf("error = %v, want ErrToolDirNotFound", err)
	}
}

func TestChainResolver(t *testing.T) {
	dir := t.TempDir()
	chain := ChainResolver{
		StaticResolver{},
		StaticResolver{Dir: filepath.Join(dir, "nope")},
		StaticResolver{Dir: dir},
	}
	got, err := chain.ResolveToolDir()
	if err != nil || got != dir {
		t.Errorf("ResolveToolDir = %q, %v", got, err)
	}

	_, err = ChainResolver{StaticResolver{}}.ResolveToolDir()
	if !errors.Is(err, ErrToolDirNotFound) {
		t.Errorf("error = %v, want ErrToolDirNotFound", err)
	}
	if _, err := (ChainResolver{}).ResolveToolDir(); !errors.Is(err, ErrToolDirNotFound) {
		t.Errorf("empty chain error = %v", err)
	}
}

func TestNewSteamResolver_Order(t *testing.T) {
	t.Setenv("STEAM_ROOT", "/env/steam")
	r := NewSteamResolver("", "/flag/steam")
	if len(r.Roots) < 2 || r.Roots[0] != "/flag/steam" || r.Roots[1] != "/env/steam" {
		t.Errorf("Roots = %v", r.Roots)
	}
}

// writeTool creates an executable shell script named name in dir.
func writeTool(t *testing.T, dir, name, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script tools need a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}
