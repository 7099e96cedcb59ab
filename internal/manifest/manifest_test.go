package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		n    int
		loop bool
		want int
	}{
		{"loop", 3, true, 5},
		{"no loop", 3, false, 4},
		{"single frame", 1, true, 3},
		{"empty", 0, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := make([]string, tt.n)
			for i := range files {
				files[i] = fmt.Sprintf("frame_%d.tga", i+1)
			}
			lines := Build(files, tt.loop).Lines()
			if len(lines) != tt.want {
				t.Fatalf("got %d lines, want %d: %q", len(lines), tt.want, lines)
			}
			if lines[0] != "sequence 0" {
				t.Errorf("first line = %q", lines[0])
			}
			rest := lines[1:]
			if tt.loop {
				if lines[1] != "loop" {
					t.Errorf("second line = %q, want loop", lines[1])
				}
				rest = lines[2:]
			}
			for i, l := range rest {
				if want := fmt.Sprintf("frame frame_%d.tga 1", i+1); l != want {
					t.Errorf("line %q, want %q", l, want)
				}
			}
		})
	}
}

func TestWrite_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mks_export.mks")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 50)), 0o444); err != nil {
		t.Fatal(err)
	}

	m := Build([]string{"frame_1.tga"}, false)
	if err := m.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "sequence 0\nframe frame_1.tga 1\n"; string(b) != want {
		t.Errorf("content = %q, want %q", b, want)
	}
}

func TestWrite_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "mks_export.mks")
	err := Build(nil, false).Write(path)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Write error = %v, want *WriteError", err)
	}
	if we.Path != path {
		t.Errorf("WriteError.Path = %q", we.Path)
	}
}
