package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/particlesheet/internal/config"
	"github.com/backmassage/particlesheet/internal/toolchain"
)

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, tool string)
		want   bool
		errMsg string
	}{
		{"complete", func(t *testing.T, tool string) {}, true, ""},
		{"missing compile tool", func(t *testing.T, tool string) {
			os.Remove(filepath.Join(tool, "vtex"))
		}, false, "vtex not found"},
		{"missing game info", func(t *testing.T, tool string) {
			os.Remove(filepath.Join(tool, "..", "tf", "gameinfo.txt"))
		}, false, "Game info not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := toolDir(t)
			tt.setup(t, tool)
			cfg := testConfig(t)
			log := &recLogger{}

			if got := RunCheck(&cfg, toolchain.StaticResolver{Dir: tool}, log); got != tt.want {
				t.Errorf("RunCheck = %v, want %v\n%s", got, tt.want, log)
			}
			if tt.errMsg != "" && !log.has("ERROR", tt.errMsg) {
				t.Errorf("missing error %q\n%s", tt.errMsg, log)
			}
		})
	}
}

func TestRunCheck_Unresolved(t *testing.T) {
	cfg := testConfig(t)
	log := &recLogger{}
	if RunCheck(&cfg, toolchain.StaticResolver{}, log) {
		t.Error("RunCheck should fail without a tool directory")
	}
	if !log.has("ERROR", "tool directory not found") {
		t.Errorf("log:\n%s", log)
	}
}

func TestRunCheck_ReportsFrames(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.FramesDir, "0.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	log := &recLogger{}
	if RunCheck(&cfg, toolchain.StaticResolver{Dir: toolDir(t)}, log) {
		t.Errorf("an unreadable frame should fail the check\n%s", log)
	}
}

func TestCheckDeps(t *testing.T) {
	tool := toolDir(t)
	cfg := testConfig(t)
	if err := CheckDeps(&cfg, tool); err != nil {
		t.Fatalf("CheckDeps: %v", err)
	}

	cfg.PackTool = "no-such-mksheet"
	if err := CheckDeps(&cfg, tool); !errors.Is(err, ErrPackToolNotFound) {
		t.Errorf("error = %v, want ErrPackToolNotFound", err)
	}
	cfg.PackTool = "mksheet"
	cfg.CompileTool = "no-such-vtex"
	if err := CheckDeps(&cfg, tool); !errors.Is(err, ErrCompileToolNotFound) {
		t.Errorf("error = %v, want ErrCompileToolNotFound", err)
	}
}

// --- Helpers ---

// toolDir builds <tmp>/bin with both tools and materials/, plus
// <tmp>/tf/gameinfo.txt.
func toolDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	for _, d := range []string{filepath.Join(bin, "materials"), filepath.Join(root, "tf")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		filepath.Join(bin, "mksheet"):             "#!/bin/sh\n",
		filepath.Join(bin, "vtex"):                "#!/bin/sh\n",
		filepath.Join(root, "tf", "gameinfo.txt"): "GameInfo {}\n",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return bin
}

func testConfig(t *testing.T) config.Config {
	cfg := config.DefaultConfig()
	cfg.FramesDir = t.TempDir()
	cfg.PackTool = "mksheet"
	cfg.CompileTool = "vtex"
	return cfg
}

type recLogger struct{ lines []string }

func (l *recLogger) add(level, f string, a []interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(f, a...))
}
func (l *recLogger) Info(f string, a ...interface{})    { l.add("INFO", f, a) }
func (l *recLogger) Success(f string, a ...interface{}) { l.add("SUCCESS", f, a) }
func (l *recLogger) Warn(f string, a ...interface{})    { l.add("WARN", f, a) }
func (l *recLogger) Error(f string, a ...interface{})   { l.add("ERROR", f, a) }
func (l *recLogger) Debug(bool, string, ...interface{}) {}

func (l *recLogger) has(level, substr string) bool {
	for _, line := range l.lines {
		if strings.HasPrefix(line, level) && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (l *recLogger) String() string { return strings.Join(l.lines, "\n") }
