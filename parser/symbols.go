package parser

// names is the line parser's namespace-shape check: macro names (supplied by
// the preprocessor), checked alongside reserved words, opcodes, registers,
// and directives. It enforces only the identifier rule's keyword-collision
// clauses (spec.md §4.2) during the single left-to-right pass the parser
// makes over a file. Whether a label or constant *name* collides with one
// already defined is a symbol-table question, not a shape question — the
// original's own label validator (is_valid_symbol in first_pass_utility.c)
// checks register/opcode/directive/reserved-word/macro but never consults
// the symbol table, and its first pass reports SYMBOL_REDEFINITION_ERR
// itself once a label or constant name resolves to an existing entry. This
// assembler follows the same split: redefinition detection belongs solely
// to assemble.FirstPass's placeLabel and firstPassConstant.
type names struct {
	macros map[string]bool
}

func newNames(macros map[string]bool) *names {
	n := &names{macros: macros}
	if n.macros == nil {
		n.macros = make(map[string]bool)
	}
	return n
}

func (n *names) isMacro(s string) bool { return n.macros[s] }

// isTaken reports whether name already denotes anything the identifier rule
// must reject at parse time: a reserved word, an opcode, a register, a
// directive, or a macro. Label/constant redefinition is left to the first
// pass, which alone has the address-bearing symbol table to check against.
func (n *names) isTaken(name string) bool {
	if IsReservedWord(name) || IsOpcodeName(name) || IsDirectiveName(name) {
		return true
	}
	if _, ok := registerNumber(name); ok {
		return true
	}
	return n.isMacro(name)
}
