package pipeline

import (
	"github.com/backmassage/particlesheet/internal/frames"
	"github.com/backmassage/particlesheet/internal/imaging"
)

// FrameInfo is one frame of the contiguous run with its probed header.
type FrameInfo struct {
	Entry frames.Entry
	Info  imaging.Info
	Err   error // probe failure; the frame would abort a conversion
}

// Listing is what a conversion of a frames directory would pick up.
type Listing struct {
	Frames   []FrameInfo
	Excluded []string // matching files outside the run, e.g. past a gap
}

// ListFrames discovers the contiguous frame run in dir and probes every
// frame without decoding pixels.
func ListFrames(dir, ext string) (*Listing, error) {
	all, err := frames.List(dir, ext, "")
	if err != nil {
		return nil, err
	}
	run := frames.ContiguousRun(all, 0, func(i int) string { return frames.SourceName(i, ext) })

	l := &Listing{Frames: make([]FrameInfo, 0, len(run))}
	inRun := make(map[string]bool, len(run))
	for _, e := range run {
		inRun[e.Path] = true
		info, err := imaging.Probe(e.Path)
		l.Frames = append(l.Frames, FrameInfo{Entry: e, Info: info, Err: err})
	}
	for _, e := range all {
		if !inRun[e.Path] {
			l.Excluded = append(l.Excluded, e.Name)
		}
	}
	return l, nil
}

// Ready reports whether at least one frame exists and every frame probed.
func (l *Listing) Ready() bool {
	if len(l.Frames) == 0 {
		return false
	}
	for _, f := range l.Frames {
		if f.Err != nil {
			return false
		}
	}
	return true
}

// UniformSize reports whether all probed frames share the first frame's size.
func (l *Listing) UniformSize() bool {
	var w, h int
	seen := false
	for _, f := range l.Frames {
		if f.Err != nil {
			continue
		}
		if !seen {
			w, h, seen = f.Info.Width, f.Info.Height, true
			continue
		}
		if f.Info.Width != w || f.Info.Height != h {
			return false
		}
	}
	return true
}
