// Package frames discovers numbered frame files in a directory.
//
// Two naming schemes are recognized: source frames named "{i}.<ext>" counted
// from 0, and converted frames named "frame_{i}.<ext>" counted from 1. Both
// are listed in numeric (not lexical) order, and only the contiguous run
// starting at the expected first index is selected for processing.
//
// Files whose extension matches but whose stem is not a non-negative integer
// abort discovery with a [ParseError]: every matching file in these
// directories is expected to be machine-named.
package frames
