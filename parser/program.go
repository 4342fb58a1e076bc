package parser

import (
	"asm14/asmerr"
)

// Program is the full parsed representation of one source file: its
// preprocessed text (used by the .am writer and by the round-trip
// formatter) and the ALD sequence the first and second passes walk.
type Program struct {
	File     string
	Expanded []ExpandedLine
	Lines    []*ALD
}

// MaxLineLength is the longest .as source line the assembler accepts,
// excluding the line terminator (spec.md §6).
const MaxLineLength = 80

// ParseProgram preprocesses source and parses every resulting line into an
// ALD. It never stops early: every line is probed so a single bad line
// yields one diagnostic rather than aborting the remaining file (spec.md
// §4.2, §7). Preprocessor failures are the one exception (spec.md §4.1: a
// malformed macro name fails the whole file).
func ParseProgram(source, file string) (*Program, *asmerr.List) {
	pp := NewPreprocessor(file)
	expanded, list := pp.Expand(source)
	if list.HasErrors() {
		return nil, list
	}

	n := newNames(pp.MacroNames())
	prog := &Program{File: file, Expanded: expanded, Lines: make([]*ALD, 0, len(expanded))}

	for _, ln := range expanded {
		if len(ln.Text) > MaxLineLength {
			list.Addf(asmerr.Position{File: file, Line: ln.Line}, asmerr.KindSyntax,
				"line exceeds maximum length of %d characters", MaxLineLength)
			prog.Lines = append(prog.Lines, &ALD{Kind: LineEmpty, Pos: asmerr.Position{File: file, Line: ln.Line}})
			continue
		}
		ald := ParseLine(ln.Text, file, ln.Line, n)
		if ald.Err != nil {
			list.Add(ald.Err)
		}
		prog.Lines = append(prog.Lines, ald)
	}

	return prog, list
}
