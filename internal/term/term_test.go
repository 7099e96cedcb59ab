package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/particlesheet/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever, nil) })

	if !Configure(config.ColorAlways, nil) || NC == "" || Green == "" {
		t.Error("ColorAlways should enable colors")
	}
	if Configure(config.ColorNever, nil) || NC != "" || Green != "" {
		t.Error("ColorNever should disable colors")
	}
}

func TestConfigure_AutoOnRegularFile(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever, nil) })

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if Configure(config.ColorAuto, f) {
		t.Error("ColorAuto should stay off when output is not a terminal")
	}
}

func TestIsTerminal_Nil(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) = true, want false")
	}
}
