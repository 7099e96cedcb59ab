// Package artifact moves, copies and deletes the intermediate files a
// conversion run creates. Every operation is idempotent: removing a missing
// path succeeds, and relocating a file that already reached its destination
// succeeds.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OpError wraps a failed filesystem operation with the paths involved.
type OpError struct {
	Op  string
	Src string
	Dst string
	Err error
}

func (e *OpError) Error() string {
	if e.Dst == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Src, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Src, e.Dst, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// EnsureDir creates dir and any missing parents. It reports whether dir was
// created by this call.
func EnsureDir(dir string) (bool, error) {
	if fi, err := os.Stat(dir); err == nil {
		if !fi.IsDir() {
			return false, &OpError{Op: "mkdir", Src: dir, Err: fs.ErrExist}
		}
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, &OpError{Op: "mkdir", Src: dir, Err: err}
	}
	return true, nil
}

// Remove deletes the file at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &OpError{Op: "remove", Src: path, Err: err}
	}
	return nil
}

// Relocate places src at dst, replacing any file already there. With
// deleteSrc the file is moved, otherwise copied. When src is gone but dst
// exists, the relocation already happened and Relocate returns nil.
func Relocate(src, dst string, deleteSrc bool) error {
	op := "copy"
	if deleteSrc {
		op = "move"
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		if _, derr := os.Stat(dst); derr == nil {
			return nil
		}
		return &OpError{Op: op, Src: src, Dst: dst, Err: err}
	}
	if !deleteSrc {
		return CopyFile(src, dst)
	}
	if err := Remove(dst); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across volumes; fall back to copy and delete.
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return Remove(src)
}

// CopyFile copies src to dst, truncating dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &OpError{Op: "copy", Src: src, Dst: dst, Err: err}
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return &OpError{Op: "copy", Src: src, Dst: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &OpError{Op: "copy", Src: src, Dst: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &OpError{Op: "copy", Src: src, Dst: dst, Err: err}
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the size of the file at path, or 0 if it cannot be read.
func Size(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// Clean returns path cleaned and made absolute when possible.
func Clean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
