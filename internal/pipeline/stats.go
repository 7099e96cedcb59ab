package pipeline

import "time"

// RunStats collects counters and sizes for the run summary.
type RunStats struct {
	Frames         int   // frames converted
	InputBytes     int64 // total size of the source frames
	ConvertedBytes int64 // total size of the converted frames
	OutputBytes    int64 // size of the final texture
	MaterialBytes  int64 // size of the material file, if written

	PackTime    time.Duration
	CompileTime time.Duration
	Elapsed     time.Duration
}

// Ratio returns the texture size as a percentage of the source frames, or
// -1 when either size is unknown.
func (s *RunStats) Ratio() int64 {
	if s.InputBytes <= 0 || s.OutputBytes <= 0 {
		return -1
	}
	return s.OutputBytes * 100 / s.InputBytes
}
