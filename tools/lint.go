package tools

import (
	"fmt"
	"sort"
	"strings"

	"asm14/parser"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
	LintInfo
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, independent of the assembler's own
// diagnostics (asmerr.Error): the linter runs as a best-effort style pass
// over a successfully parsed Program, not as a gate on assembly.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which passes Lint runs.
type LintOptions struct {
	CheckUnused  bool // warn on labels defined but never referenced
	CheckReach   bool // warn on code after an unconditional jmp/hlt/rts
	SuggestFixes bool // attach a "did you mean" suggestion to undefined references
}

// DefaultLintOptions returns the options used when no caller-supplied
// LintOptions is given.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{
		CheckUnused:  true,
		CheckReach:   true,
		SuggestFixes: true,
	}
}

// Linter analyzes a parsed program for issues the parser and first pass do
// not themselves report: dead code, unused labels, and typo'd references.
// It never blocks assembly — its findings are advisory.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue
	prog    *parser.Program

	definedLabels    map[string]int // label -> defining line
	referencedLabels map[string]bool
	externNames      map[string]bool
}

// NewLinter creates a Linter. A nil options uses DefaultLintOptions.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:          options,
		definedLabels:    make(map[string]int),
		referencedLabels: make(map[string]bool),
		externNames:      make(map[string]bool),
	}
}

// Lint parses source and returns every issue found, sorted by line.
func (l *Linter) Lint(source, file string) []*LintIssue {
	prog, list := parser.ParseProgram(source, file)
	if list.HasErrors() {
		for _, e := range list.Errors {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Line:    e.Pos.Line,
				Message: e.Message,
				Code:    "PARSE_ERROR",
			})
		}
	}
	if prog == nil {
		return l.issues
	}
	l.prog = prog

	l.collectLabels()
	l.checkReferences()

	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode()
	}

	sort.SliceStable(l.issues, func(i, j int) bool { return l.issues[i].Line < l.issues[j].Line })
	return l.issues
}

// collectLabels builds the defined-label table. A label reused across two
// non-entry lines parses cleanly — the line parser only checks identifier
// shape and keyword collisions, not symbol-table membership, so
// assemble.FirstPass's placeLabel is the assembler's sole authority for
// redefinition (spec.md S4). The linter runs independently of FirstPass, so
// it flags the same condition itself rather than silently keeping only the
// later line.
func (l *Linter) collectLabels() {
	for _, ald := range l.prog.Lines {
		if ald.Label != "" {
			if firstLine, seen := l.definedLabels[ald.Label]; seen {
				l.issues = append(l.issues, &LintIssue{
					Level:   LintError,
					Line:    ald.Pos.Line,
					Message: fmt.Sprintf("label %q redefines the one on line %d", ald.Label, firstLine),
					Code:    "DUPLICATE_LABEL",
				})
			} else {
				l.definedLabels[ald.Label] = ald.Pos.Line
			}
		}
		if ald.Kind == parser.LineDirective && ald.Directive.Kind == parser.DirExtern {
			l.externNames[ald.Directive.Name] = true
		}
	}
}

// checkReferences walks every operand that names a label (Direct or
// FixedIndex) and flags ones with no matching definition or .extern. A name
// given to .entry also counts as referenced.
func (l *Linter) checkReferences() {
	for _, ald := range l.prog.Lines {
		if ald.Kind == parser.LineDirective && ald.Directive.Kind == parser.DirEntry {
			l.referencedLabels[ald.Directive.Name] = true
			continue
		}
		if ald.Kind != parser.LineCommand {
			continue
		}
		ops := []parser.Operand{ald.Command.Target}
		if ald.Command.NumOps == 2 {
			ops = append(ops, ald.Command.Source)
		}
		for _, op := range ops {
			if op.Mode != parser.AddrDirect && op.Mode != parser.AddrFixedIndex {
				continue
			}
			l.referencedLabels[op.Label] = true
			l.checkLabelReference(op.Label, ald.Pos.Line)
		}
	}
}

func (l *Linter) checkLabelReference(label string, line int) {
	if l.externNames[label] {
		return
	}
	if _, exists := l.definedLabels[label]; exists {
		return
	}
	suggestion := l.findSimilarLabel(label)
	msg := fmt.Sprintf("reference to undefined label %q", label)
	if suggestion != "" && l.options.SuggestFixes {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	l.issues = append(l.issues, &LintIssue{Level: LintError, Line: line, Message: msg, Code: "UNDEF_LABEL"})
}

func (l *Linter) checkUnusedLabels() {
	for label, line := range l.definedLabels {
		if l.referencedLabels[label] {
			continue
		}
		l.issues = append(l.issues, &LintIssue{
			Level:   LintWarning,
			Line:    line,
			Message: fmt.Sprintf("label %q defined but never referenced", label),
			Code:    "UNUSED_LABEL",
		})
	}
}

// checkUnreachableCode warns about a command line following an
// unconditional jmp, rts, or hlt with no intervening label — such a line
// can never be reached by control flow.
func (l *Linter) checkUnreachableCode() {
	var prevTerminal bool
	for _, ald := range l.prog.Lines {
		if ald.Kind == parser.LineEmpty || ald.Kind == parser.LineComment {
			continue
		}
		if prevTerminal && ald.Label == "" && ald.Kind == parser.LineCommand {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintWarning,
				Line:    ald.Pos.Line,
				Message: "unreachable code after unconditional jmp/rts/hlt",
				Code:    "UNREACHABLE_CODE",
			})
		}
		prevTerminal = ald.Kind == parser.LineCommand && isTerminalOpcode(ald.Command.Op)
	}
}

func isTerminalOpcode(op parser.Opcode) bool {
	return op == parser.OpJmp || op == parser.OpRts || op == parser.OpHlt
}

func (l *Linter) findSimilarLabel(target string) string {
	best, bestDist := "", 999
	for label := range l.definedLabels {
		dist := levenshteinDistance(strings.ToLower(label), strings.ToLower(target))
		if dist < bestDist && dist <= 2 {
			best, bestDist = label, dist
		}
	}
	return best
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf3(matrix[i-1][j]+1, matrix[i][j-1]+1, matrix[i-1][j-1]+cost)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func minOf3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
