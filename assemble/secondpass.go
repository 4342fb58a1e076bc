package assemble

import (
	"asm14/asmerr"
	"asm14/encode"
	"asm14/parser"
)

// SecondPass walks prog's ALDs again, emitting code words for each command
// now that symbol addresses are known (spec.md §4.4). It assumes FirstPass
// already ran on the same tu and prog; IC is reset to IC0 and must land back
// on tu.IC's first-pass value once every command has been encoded.
func SecondPass(tu *TranslationUnit, prog *parser.Program) {
	ic := IC0
	for _, ald := range prog.Lines {
		if ald.Err != nil || ald.Kind != parser.LineCommand {
			continue
		}
		ic += secondPassCommand(tu, ald, ic)
	}
}

func secondPassCommand(tu *TranslationUnit, ald *parser.ALD, ic int) int {
	cmd := ald.Command

	opcodeWord := encode.OpcodeWord(cmd.Op, cmd.HasSrc, cmd.Source.Mode, cmd.HasTgt, cmd.Target.Mode)
	tu.CodeImage = append(tu.CodeImage, opcodeWord)
	words := 1

	if cmd.HasSrc && cmd.HasTgt && cmd.Source.Mode == parser.AddrDirectRegister && cmd.Target.Mode == parser.AddrDirectRegister {
		word := encode.RegisterWord(true, cmd.Source.Register, true, cmd.Target.Register)
		tu.CodeImage = append(tu.CodeImage, word)
		return 2
	}

	if cmd.HasSrc {
		n := encodeOperand(tu, ald, ic+words, cmd.Source, false)
		words += n
	}
	if cmd.HasTgt {
		n := encodeOperand(tu, ald, ic+words, cmd.Target, true)
		words += n
	}
	return words
}

// encodeOperand appends the word(s) for one operand and returns how many
// words were appended. addr is the IC the first appended word will occupy.
func encodeOperand(tu *TranslationUnit, ald *parser.ALD, addr int, op parser.Operand, isTarget bool) int {
	switch op.Mode {
	case parser.AddrImmediate:
		value, ok := resolveImmediate(tu, ald, op)
		if !ok {
			tu.CodeImage = append(tu.CodeImage, 0)
			return 1
		}
		word, err := encode.ImmediateWord(value)
		if err != nil {
			tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "binary overflow: %s", err)
			tu.CodeImage = append(tu.CodeImage, 0)
			return 1
		}
		tu.CodeImage = append(tu.CodeImage, word)
		return 1

	case parser.AddrDirect:
		word := encodeDirect(tu, ald, addr, op.Label)
		tu.CodeImage = append(tu.CodeImage, word)
		return 1

	case parser.AddrFixedIndex:
		base := encodeDirect(tu, ald, addr, op.Label)
		tu.CodeImage = append(tu.CodeImage, base)

		index, ok := resolveIndex(tu, ald, op)
		if !ok {
			tu.CodeImage = append(tu.CodeImage, 0)
			return 2
		}
		if index < 0 {
			tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "negative index %d is not allowed", index)
			tu.CodeImage = append(tu.CodeImage, 0)
			return 2
		}
		word, err := encode.ImmediateWord(index)
		if err != nil {
			tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "binary overflow: %s", err)
			tu.CodeImage = append(tu.CodeImage, 0)
			return 2
		}
		tu.CodeImage = append(tu.CodeImage, word)
		return 2

	case parser.AddrDirectRegister:
		var word uint16
		if isTarget {
			word = encode.RegisterWord(false, 0, true, op.Register)
		} else {
			word = encode.RegisterWord(true, op.Register, false, 0)
		}
		tu.CodeImage = append(tu.CodeImage, word)
		return 1

	default:
		return 0
	}
}

func encodeDirect(tu *TranslationUnit, ald *parser.ALD, addr int, label string) uint16 {
	sym := tu.Lookup(label)
	if sym == nil {
		tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "undefined label %q", label)
		return 0
	}
	if sym.Kind == ExternLabel {
		tu.Externs = append(tu.Externs, ExternUse{Name: label, Address: addr})
		return encode.DirectWord(0, encode.AREExternal)
	}
	return encode.DirectWord(sym.Address, encode.ARERelocatable)
}

func resolveImmediate(tu *TranslationUnit, ald *parser.ALD, op parser.Operand) (int, bool) {
	if !op.IsConstRef {
		return op.Literal, true
	}
	v, ok := tu.Constants[op.ConstName]
	if !ok {
		tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "undefined constant %q", op.ConstName)
		return 0, false
	}
	return v, true
}

func resolveIndex(tu *TranslationUnit, ald *parser.ALD, op parser.Operand) (int, bool) {
	if !op.IndexIsConstRef {
		return op.IndexLiteral, true
	}
	v, ok := tu.Constants[op.IndexConstName]
	if !ok {
		tu.Errors.Addf(ald.Pos, asmerr.KindEncoding, "undefined constant %q", op.IndexConstName)
		return 0, false
	}
	return v, true
}
