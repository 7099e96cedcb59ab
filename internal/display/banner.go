package display

import (
	"fmt"
	"io"

	"github.com/backmassage/particlesheet/internal/term"
)

// PrintBanner writes the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `             _   _    _           _           _
 _ __  __ _ | |_| |_ (_)__ _ ___ | |___   ___| |_  ___ ___| |_
| '_ \/ _`+"`"+` ||  _| '_|| / _| / -_)| / -_) (_-<| ' \/ -_) -_)  _|
| .__/\__,_| \__|_|  |_\__|_\___||_\___| /__/|_||_\___\___|\__|
|_|
`)
	fmt.Fprint(w, term.NC)
}
