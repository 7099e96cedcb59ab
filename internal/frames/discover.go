package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ConvertedPrefix is the stem prefix of encoded frames.
const ConvertedPrefix = "frame_"

// Entry is one numbered frame file.
type Entry struct {
	Name  string // Base name as found on disk.
	Path  string // dir joined with Name.
	Index int    // Number parsed from the stem.
}

// ParseError reports a matching file whose stem is not a frame number.
type ParseError struct {
	Dir  string
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("frame %q in %s: stem is not a non-negative integer", e.Name, e.Dir)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SourceName returns the file name of the source frame with zero-based index i.
func SourceName(i int, ext string) string {
	return fmt.Sprintf("%d.%s", i, ext)
}

// ConvertedName returns the file name of the encoded frame with one-based
// output index i.
func ConvertedName(i int, ext string) string {
	return fmt.Sprintf("%s%d.%s", ConvertedPrefix, i, ext)
}

// List returns every regular file in dir with extension ext (case-insensitive,
// without dot), ordered by the integer that follows prefix in its stem. Ties
// are broken by name so the order is deterministic.
func List(dir, ext, prefix string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	suffix := "." + strings.ToLower(ext)
	var out []Entry
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}
		name := d.Name()
		if !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		stem := name[:len(name)-len(suffix)]
		idx, err := parseIndex(stem, prefix)
		if err != nil {
			return nil, &ParseError{Dir: dir, Name: name, Err: err}
		}
		out = append(out, Entry{Name: name, Path: filepath.Join(dir, name), Index: idx})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func parseIndex(stem, prefix string) (int, error) {
	if prefix != "" {
		if !strings.HasPrefix(stem, prefix) {
			return 0, fmt.Errorf("missing %q prefix", prefix)
		}
		stem = stem[len(prefix):]
	}
	n, err := strconv.ParseUint(stem, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ContiguousRun selects, from entries sorted by [List], the files named
// exactly name(start), name(start+1), ... and stops at the first gap.
// Entries that parse to an already-passed index but are not spelled
// canonically (e.g. "01.png") are ignored.
func ContiguousRun(entries []Entry, start int, name func(int) string) []Entry {
	var run []Entry
	want := start
	for _, e := range entries {
		if e.Index > want {
			break
		}
		if e.Index == want && strings.EqualFold(e.Name, name(want)) {
			run = append(run, e)
			want++
		}
	}
	return run
}

// Discover lists the source frames "0.<ext>", "1.<ext>", ... in dir and
// returns the contiguous run starting at 0.
func Discover(dir, ext string) ([]Entry, error) {
	entries, err := List(dir, ext, "")
	if err != nil {
		return nil, err
	}
	return ContiguousRun(entries, 0, func(i int) string { return SourceName(i, ext) }), nil
}

// DiscoverConverted lists the encoded frames "frame_1.<ext>", ... in dir and
// returns the contiguous run starting at 1.
func DiscoverConverted(dir, ext string) ([]Entry, error) {
	entries, err := List(dir, ext, ConvertedPrefix)
	if err != nil {
		return nil, err
	}
	return ContiguousRun(entries, 1, func(i int) string { return ConvertedName(i, ext) }), nil
}
