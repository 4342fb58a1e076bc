package parser

import (
	"strings"

	"asm14/asmerr"
)

// ExpandedLine is one line of the preprocessor's output: expanded macro
// bodies inherit the line number of their invocation, since the body itself
// has no position in the original file worth reporting separately — any
// diagnostic raised against it points a user back at the call site.
type ExpandedLine struct {
	Text string
	Line int
}

// Preprocessor expands mcr/endmcr macro definitions into their call sites
// (spec.md §4.1). Definitions have no parameters and may not nest; a
// definition always precedes its uses.
type Preprocessor struct {
	file   string
	macros map[string][]string
}

// NewPreprocessor returns a Preprocessor for diagnostics against file.
func NewPreprocessor(file string) *Preprocessor {
	return &Preprocessor{file: file, macros: make(map[string][]string)}
}

// Expand runs the preprocessor over source, returning the expanded line
// sequence. A malformed macro name fails the entire file immediately
// (spec.md: "preprocessor terminated"), matching the original assembler's
// fail-fast behavior for this one error class.
func (p *Preprocessor) Expand(source string) ([]ExpandedLine, *asmerr.List) {
	var list asmerr.List
	var out []ExpandedLine

	lines := strings.Split(source, "\n")
	var defining string
	var body []string

	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		if defining != "" {
			if trimmed == "endmcr" {
				p.macros[defining] = body
				defining = ""
				body = nil
				continue
			}
			body = append(body, raw)
			continue
		}

		if name, ok := strings.CutPrefix(trimmed, "mcr "); ok {
			name = strings.TrimSpace(name)
			if !p.validMacroName(name) {
				list.Addf(asmerr.Position{File: p.file, Line: lineNo}, asmerr.KindPreprocessor,
					"preprocessor terminated: %q is not a valid macro name", name)
				return nil, &list
			}
			defining = name
			body = nil
			continue
		}

		if trimmed == "mcr" {
			list.Addf(asmerr.Position{File: p.file, Line: lineNo}, asmerr.KindPreprocessor,
				"preprocessor terminated: mcr directive missing a name")
			return nil, &list
		}

		if bodyLines, ok := p.macros[trimmed]; ok {
			for _, bl := range bodyLines {
				out = append(out, ExpandedLine{Text: bl, Line: lineNo})
			}
			continue
		}

		out = append(out, ExpandedLine{Text: raw, Line: lineNo})
	}

	if defining != "" {
		list.Addf(asmerr.Position{File: p.file, Line: len(lines)}, asmerr.KindPreprocessor,
			"preprocessor terminated: macro %q never closed with endmcr", defining)
		return nil, &list
	}

	return out, &list
}

// validMacroName enforces spec.md §4.1: a macro name must not be a reserved
// word, an opcode, a register name, a directive name, or an already-defined
// macro name.
func (p *Preprocessor) validMacroName(name string) bool {
	if !isValidIdentifierShape(name) {
		return false
	}
	if IsReservedWord(name) || IsOpcodeName(name) || IsDirectiveName(name) {
		return false
	}
	if _, ok := registerNumber(name); ok {
		return false
	}
	if _, exists := p.macros[name]; exists {
		return false
	}
	return true
}

// MacroNames returns the set of names defined by the time Expand returns,
// for the line parser's identifier-reservation check.
func (p *Preprocessor) MacroNames() map[string]bool {
	out := make(map[string]bool, len(p.macros))
	for name := range p.macros {
		out[name] = true
	}
	return out
}
