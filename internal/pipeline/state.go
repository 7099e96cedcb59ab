package pipeline

// State is a step of the conversion state machine.
type State int

const (
	Init State = iota
	FramesConverted
	ToolDirResolved
	ManifestWritten
	Packed
	IntermediatesCleaned
	Compiled
	Finalized
	Aborted
)

var stateNames = [...]string{
	Init:                 "init",
	FramesConverted:      "frames-converted",
	ToolDirResolved:      "tooldir-resolved",
	ManifestWritten:      "manifest-written",
	Packed:               "packed",
	IntermediatesCleaned: "intermediates-cleaned",
	Compiled:             "compiled",
	Finalized:            "finalized",
	Aborted:              "aborted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Finalized || s == Aborted
}
