// Package tools provides developer-facing utilities over a parsed program:
// canonical re-emission (the P1 round-trip grounding), a best-effort lint
// pass, and a symbol cross-reference report.
package tools

import (
	"fmt"
	"strings"

	"asm14/parser"
)

// Format re-emits prog's ALD sequence as canonical .as source text, one
// line per ALD, with lines separated by '\n'. Re-parsing the result must reproduce the same ALD sequence
// (spec.md §8 P1) — this is the direct analogue of the teacher's
// tools.Formatter, generalized from re-indenting an already-parsed AST to
// reconstructing source text from the ALD tagged union itself.
func Format(prog *parser.Program) string {
	var sb strings.Builder
	for i, ald := range prog.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(FormatLine(ald))
	}
	return sb.String()
}

// FormatLine renders one ALD as a single canonical source line (no trailing
// newline). A line that failed to parse (ald.Err != nil) has no canonical
// form and renders as an empty line.
func FormatLine(ald *parser.ALD) string {
	if ald.Err != nil {
		return ""
	}

	var sb strings.Builder
	if ald.Label != "" {
		sb.WriteString(ald.Label)
		sb.WriteString(": ")
	}

	switch ald.Kind {
	case parser.LineEmpty:
		return ""
	case parser.LineComment:
		return "; "
	case parser.LineConstantDef:
		fmt.Fprintf(&sb, ".define %s = %d", ald.ConstantDef.Name, ald.ConstantDef.Value)
	case parser.LineDirective:
		sb.WriteString(formatDirective(ald.Directive))
	case parser.LineCommand:
		sb.WriteString(formatCommand(ald.Command))
	}
	return sb.String()
}

func formatDirective(d parser.Directive) string {
	switch d.Kind {
	case parser.DirData:
		elems := make([]string, len(d.Data))
		for i, el := range d.Data {
			if el.IsConstRef {
				elems[i] = el.ConstName
			} else {
				elems[i] = fmt.Sprintf("%d", el.Literal)
			}
		}
		return ".data " + strings.Join(elems, ", ")
	case parser.DirString:
		return fmt.Sprintf(".string %q", d.String)
	case parser.DirEntry:
		return ".entry " + d.Name
	case parser.DirExtern:
		return ".extern " + d.Name
	default:
		return ""
	}
}

func formatCommand(c parser.Command) string {
	mnemonic := c.Op.String()
	switch c.NumOps {
	case 0:
		return mnemonic
	case 1:
		return mnemonic + " " + formatOperand(c.Target)
	default:
		return mnemonic + " " + formatOperand(c.Source) + ", " + formatOperand(c.Target)
	}
}

func formatOperand(op parser.Operand) string {
	switch op.Mode {
	case parser.AddrImmediate:
		if op.IsConstRef {
			return "#" + op.ConstName
		}
		return fmt.Sprintf("#%d", op.Literal)
	case parser.AddrDirect:
		return op.Label
	case parser.AddrFixedIndex:
		if op.IndexIsConstRef {
			return fmt.Sprintf("%s[%s]", op.Label, op.IndexConstName)
		}
		return fmt.Sprintf("%s[%d]", op.Label, op.IndexLiteral)
	case parser.AddrDirectRegister:
		return fmt.Sprintf("r%d", op.Register)
	default:
		return ""
	}
}
