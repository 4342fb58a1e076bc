package parser

import (
	"fmt"
	"strings"

	"asm14/asmerr"
)

// ParseLine produces one ALD for a single already-preprocessed line,
// following the ordered line-taxonomy probe of spec.md §4.2. It never
// returns a nil ALD and never panics; the first syntactic or identifier
// violation is recorded on the returned ALD's Err field and probing for that
// line stops there. n supplies the macro names that label and constant names
// are checked against, alongside the keyword tables; redefinition of a label
// or constant is not checked here but by assemble.FirstPass.
func ParseLine(raw string, file string, lineNo int, n *names) *ALD {
	pos := asmerr.Position{File: file, Line: lineNo, Column: 1}
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return &ALD{Kind: LineEmpty, Pos: pos}
	}
	if strings.HasPrefix(trimmed, ";") {
		return &ALD{Kind: LineComment, Pos: pos}
	}
	if rest, ok := strings.CutPrefix(trimmed, ".define"); ok {
		return parseDefine(rest, pos, n)
	}

	label, rest := stripLabel(trimmed)
	if label != "" {
		if n.isTaken(label) {
			return lineErr(pos, asmerr.KindSemantic, "label %q collides with an existing name", label)
		}
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return lineErr(pos, asmerr.KindSyntax, "label %q with nothing following it", label)
	}

	if strings.HasPrefix(rest, ".") {
		ald := parseDirective(rest, pos)
		if ald.Err != nil {
			return ald
		}
		switch ald.Directive.Kind {
		case DirEntry, DirExtern:
			// Label-on-entry/extern is silently dropped (spec.md §9).
		default:
			ald.Label = label
		}
		return ald
	}

	ald := parseCommand(rest, pos)
	if ald.Err == nil {
		ald.Label = label
	}
	return ald
}

func lineErr(pos asmerr.Position, kind asmerr.Kind, format string, args ...any) *ALD {
	return &ALD{Pos: pos, Err: asmerr.New(pos, kind, format, args...)}
}

// stripLabel recognizes an optional "NAME:" prefix. It returns ("", trimmed)
// unverified against the identifier rule if no colon-terminated identifier
// prefix is present.
func stripLabel(trimmed string) (label, rest string) {
	idx := strings.IndexByte(trimmed, ':')
	if idx <= 0 {
		return "", trimmed
	}
	candidate := trimmed[:idx]
	if strings.ContainsAny(candidate, " \t") || !isValidIdentifierShape(candidate) {
		return "", trimmed
	}
	return candidate, trimmed[idx+1:]
}

func parseDefine(rest string, pos asmerr.Position, n *names) *ALD {
	rest = strings.TrimSpace(rest)
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Constant Definition Format::Missing '='")
	}
	name := strings.TrimSpace(rest[:eq])
	valueStr := strings.TrimSpace(rest[eq+1:])

	if !isValidIdentifierShape(name) {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Constant Definition Format::Invalid constant name %q", name)
	}
	if n.isTaken(name) {
		return lineErr(pos, asmerr.KindSemantic, "constant name %q collides with an existing name", name)
	}
	value, ok, err := parseDefineInt(valueStr)
	if !ok || err != nil {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Constant Definition Format::%q is not a valid integer", valueStr)
	}
	return &ALD{Kind: LineConstantDef, Pos: pos, ConstantDef: ConstantDef{Name: name, Value: value}}
}

func parseDirective(rest string, pos asmerr.Position) *ALD {
	nameTok, _, _ := strings.Cut(rest, " ")
	name := strings.TrimPrefix(nameTok, ".")

	switch name {
	case "data":
		return parseDataDirective(rest, pos)
	case "string":
		return parseStringDirective(rest, pos)
	case "entry":
		return parseSingleNameDirective(rest, pos, DirEntry)
	case "extern":
		return parseSingleNameDirective(rest, pos, DirExtern)
	default:
		return lineErr(pos, asmerr.KindSyntax, "Unknown Directive::%q", name)
	}
}

func parseDataDirective(rest string, pos asmerr.Position) *ALD {
	_, body, found := strings.Cut(rest, " ")
	if !found {
		body = ""
	}
	parts, err := splitCommaList(body)
	if err != nil {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Data Directive Format::%s", err)
	}
	elements := make([]DataElement, 0, len(parts))
	for _, p := range parts {
		if v, ok, verr := parseDataInt(p); ok {
			if verr != nil {
				return lineErr(pos, asmerr.KindSyntax, "Invalid Data Directive Format::%s", verr)
			}
			elements = append(elements, DataElement{Literal: v})
			continue
		}
		if !isValidIdentifierShape(p) {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Data Directive Format::%q is neither an integer nor a name", p)
		}
		elements = append(elements, DataElement{IsConstRef: true, ConstName: p})
	}
	return &ALD{Kind: LineDirective, Pos: pos, Directive: Directive{Kind: DirData, Data: elements}}
}

func parseStringDirective(rest string, pos asmerr.Position) *ALD {
	_, body, found := strings.Cut(rest, " ")
	if !found {
		return lineErr(pos, asmerr.KindSyntax, "Invalid String Directive Format::Missing string literal")
	}
	body = strings.TrimSpace(body)
	if len(body) < 2 || body[0] != '"' || body[len(body)-1] != '"' {
		return lineErr(pos, asmerr.KindSyntax, "Invalid String Directive Format::Missing quotes")
	}
	return &ALD{Kind: LineDirective, Pos: pos, Directive: Directive{Kind: DirString, String: body[1 : len(body)-1]}}
}

func parseSingleNameDirective(rest string, pos asmerr.Position, kind DirectiveKind) *ALD {
	_, body, found := strings.Cut(rest, " ")
	if !found {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Directive Format::Missing symbol name")
	}
	body = strings.TrimSpace(body)
	if strings.ContainsAny(body, " \t") {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Directive Format::Trailing content after symbol name")
	}
	if !isValidIdentifierShape(body) {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Directive Format::%q is not a valid identifier", body)
	}
	return &ALD{Kind: LineDirective, Pos: pos, Directive: Directive{Kind: kind, Name: body}}
}

func parseCommand(rest string, pos asmerr.Position) *ALD {
	mnemonicRaw, operandsRaw, hasOperands := strings.Cut(rest, " ")
	mnemonic := strings.ToLower(strings.TrimSpace(mnemonicRaw))
	op, ok := LookupOpcode(mnemonic)
	if !ok {
		return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::Unknown mnemonic %q", mnemonicRaw)
	}

	want := OperandCount(op)
	operandsRaw = strings.TrimSpace(operandsRaw)

	switch want {
	case 0:
		if hasOperands && operandsRaw != "" {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%q takes no operands", mnemonic)
		}
		return &ALD{Kind: LineCommand, Pos: pos, Command: Command{Op: op, NumOps: 0}}

	case 1:
		if operandsRaw == "" {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%q requires one operand", mnemonic)
		}
		if strings.Contains(operandsRaw, ",") {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%q takes exactly one operand; unexpected comma", mnemonic)
		}
		tgt, err := classifyOperand(operandsRaw)
		if err != nil {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%s", err)
		}
		return &ALD{Kind: LineCommand, Pos: pos, Command: Command{Op: op, NumOps: 1, Target: tgt, HasTgt: true}}

	default: // 2
		parts, err := splitCommaList(operandsRaw)
		if err != nil {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%s", err)
		}
		if len(parts) != 2 {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%q requires two comma-separated operands", mnemonic)
		}
		src, err := classifyOperand(parts[0])
		if err != nil {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%s", err)
		}
		tgt, err := classifyOperand(parts[1])
		if err != nil {
			return lineErr(pos, asmerr.KindSyntax, "Invalid Command Instruction Format::%s", err)
		}
		return &ALD{Kind: LineCommand, Pos: pos, Command: Command{Op: op, NumOps: 2, Source: src, HasSrc: true, Target: tgt, HasTgt: true}}
	}
}

// splitCommaList enforces spec.md's comma discipline: mandatory between
// elements, forbidden before the first or after the last, arbitrary
// whitespace around a comma accepted.
func splitCommaList(s string) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("empty list")
	}
	if strings.HasPrefix(s, ",") {
		return nil, fmt.Errorf("unexpected comma before first element")
	}
	if strings.HasSuffix(s, ",") {
		return nil, fmt.Errorf("unexpected comma after last element")
	}
	rawParts := strings.Split(s, ",")
	parts := make([]string, 0, len(rawParts))
	for _, p := range rawParts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty element between commas")
		}
		parts = append(parts, p)
	}
	return parts, nil
}
