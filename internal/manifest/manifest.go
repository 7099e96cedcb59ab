// Package manifest builds the line-oriented sheet manifest consumed by the
// pack tool:
//
//	sequence 0
//	loop
//	frame frame_1.tga 1
//	frame frame_2.tga 1
//
// The loop line is present only when looping is requested. Every frame is
// shown for exactly one tick.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FrameDuration is the fixed per-frame duration written to every entry.
const FrameDuration = 1

// Entry is one frame reference.
type Entry struct {
	File     string
	Duration int
}

// Manifest describes a single animation sequence.
type Manifest struct {
	Sequence int
	Loop     bool
	Entries  []Entry
}

// WriteError reports a failure to replace the manifest file on disk.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write manifest %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Build returns a sequence-0 manifest listing files in the given order.
func Build(files []string, loop bool) *Manifest {
	m := &Manifest{Loop: loop, Entries: make([]Entry, 0, len(files))}
	for _, f := range files {
		m.Entries = append(m.Entries, Entry{File: f, Duration: FrameDuration})
	}
	return m
}

// Lines returns the manifest as text lines without terminators.
func (m *Manifest) Lines() []string {
	lines := make([]string, 0, len(m.Entries)+2)
	lines = append(lines, fmt.Sprintf("sequence %d", m.Sequence))
	if m.Loop {
		lines = append(lines, "loop")
	}
	for _, e := range m.Entries {
		lines = append(lines, fmt.Sprintf("frame %s %d", e.File, e.Duration))
	}
	return lines
}

// String renders the manifest with a newline after every line.
func (m *Manifest) String() string {
	return strings.Join(m.Lines(), "\n") + "\n"
}

// Write replaces path with the rendered manifest. An existing file is removed
// first so stale content or read-only leftovers never survive.
func (m *Manifest) Write(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(m.String()), 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
