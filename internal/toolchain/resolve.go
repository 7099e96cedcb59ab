package toolchain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrToolDirNotFound is returned by resolvers that could not find an
// existing tool directory.
var ErrToolDirNotFound = errors.New("tool directory not found")

// SteamToolSubdir is where the sheet tools live below a Steam library root.
var SteamToolSubdir = filepath.Join("steamapps", "common", "Team Fortress 2", "bin")

// Resolver locates the directory holding the pack and compile tools.
type Resolver interface {
	ResolveToolDir() (string, error)
}

// StaticResolver returns a fixed directory, provided it exists.
type StaticResolver struct {
	Dir string
}

func (r StaticResolver) ResolveToolDir() (string, error) {
	if r.Dir == "" {
		return "", fmt.Errorf("%w: no directory given", ErrToolDirNotFound)
	}
	if !isDir(r.Dir) {
		return "", fmt.Errorf("%w: %s", ErrToolDirNotFound, r.Dir)
	}
	return filepath.Abs(r.Dir)
}

// SteamResolver looks for SteamToolSubdir under each root in order.
type SteamResolver struct {
	Roots []string
}

// NewSteamResolver searches extra roots first, then $STEAM_ROOT, then the
// platform's default install locations.
func NewSteamResolver(extra ...string) SteamResolver {
	var roots []string
	for _, r := range extra {
		if r != "" {
			roots = append(roots, r)
		}
	}
	if env := os.Getenv("STEAM_ROOT"); env != "" {
		roots = append(roots, env)
	}
	return SteamResolver{Roots: append(roots, DefaultSteamRoots()...)}
}

func (r SteamResolver) ResolveToolDir() (string, error) {
	for _, root := range r.Roots {
		dir := filepath.Join(root, SteamToolSubdir)
		if isDir(dir) {
			return filepath.Abs(dir)
		}
	}
	return "", fmt.Errorf("%w: searched %d Steam root(s)", ErrToolDirNotFound, len(r.Roots))
}

// ChainResolver returns the first directory any of its resolvers finds.
type ChainResolver []Resolver

func (c ChainResolver) ResolveToolDir() (string, error) {
	var msgs []string
	for _, r := range c {
		dir, err := r.ResolveToolDir()
		if err == nil {
			return dir, nil
		}
		msgs = append(msgs, strings.TrimPrefix(err.Error(), ErrToolDirNotFound.Error()+": "))
	}
	if len(msgs) == 0 {
		return "", ErrToolDirNotFound
	}
	return "", fmt.Errorf("%w: %s", ErrToolDirNotFound, strings.Join(msgs, "; "))
}

// DefaultSteamRoots lists the usual Steam install roots for this platform.
func DefaultSteamRoots() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		roots := []string{}
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if pf := os.Getenv(env); pf != "" {
				roots = append(roots, filepath.Join(pf, "Steam"))
			}
		}
		return append(roots, `C:\Program Files (x86)\Steam`)
	case "darwin":
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		if home == "" {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		}
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
