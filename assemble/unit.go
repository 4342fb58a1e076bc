// Package assemble implements the first and second passes over a parsed
// Program (spec.md §4.3, §4.4), producing a TranslationUnit: the symbol
// table, code/data images, constants, entries, and extern-use records a
// completed assembly needs for object-file emission.
package assemble

import "asm14/asmerr"

// SymbolKind is the tagged-union discriminant for Symbol (spec.md §3).
type SymbolKind int

const (
	CodeLabel SymbolKind = iota
	DataLabel
	TempEntryLabel
	ExternLabel
	EntryCodeLabel
	EntryDataLabel
	DefinedConstant
)

func (k SymbolKind) String() string {
	switch k {
	case CodeLabel:
		return "CODE_LABEL"
	case DataLabel:
		return "DATA_LABEL"
	case TempEntryLabel:
		return "TEMP_ENTRY_LABEL"
	case ExternLabel:
		return "EXTERN_LABEL"
	case EntryCodeLabel:
		return "ENTRY_CODE_LABEL"
	case EntryDataLabel:
		return "ENTRY_DATA_LABEL"
	case DefinedConstant:
		return "DEFINED_CONSTANT"
	default:
		return "?"
	}
}

// Symbol is one entry of the translation unit's symbol table. After
// insertion, the first pass changes a symbol's Kind/Address only to promote
// it to an entry (TempEntryLabel, CodeLabel or DataLabel to
// EntryCodeLabel/EntryDataLabel) and, in finalizeFirstPass, to offset a
// data label's address by the final IC.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Address int

	// DeclLine is the line a still-unresolved TEMP_ENTRY_LABEL was declared
	// on, kept only so finalizeFirstPass can point its diagnostic somewhere
	// useful if the symbol is never defined.
	DeclLine int
}

// IC0 and DC0 are the starting values of the instruction and data counters
// (spec.md §3).
const (
	IC0 = 100
	DC0 = 0
)

// ExternUse is one occurrence of an extern symbol inside an encoded operand
// word (spec.md §3): the word's address, recorded by the second pass.
type ExternUse struct {
	Name    string
	Address int
}

// TranslationUnit is the shared, append-only (except for symbol promotion
// and data-label relocation) state one file's assembly builds up across both passes. Every dynamic
// list here follows the source's capacity-doubling-arena contract; a plain
// Go slice with amortized-O(1) append satisfies it without the constant 10
// being load-bearing (spec.md §9).
type TranslationUnit struct {
	File string

	IC int
	DC int

	Symbols   map[string]*Symbol
	order     []string // insertion order, for deterministic iteration
	Constants map[string]int

	CodeImage []uint16
	DataImage []uint16

	Externs []ExternUse
	Entries []*Symbol

	Errors asmerr.List
}

// NewTranslationUnit returns an empty unit ready for the first pass.
func NewTranslationUnit(file string) *TranslationUnit {
	return &TranslationUnit{
		File:      file,
		IC:        IC0,
		DC:        DC0,
		Symbols:   make(map[string]*Symbol, 10),
		Constants: make(map[string]int, 10),
		CodeImage: make([]uint16, 0, 10),
		DataImage: make([]uint16, 0, 10),
		Externs:   make([]ExternUse, 0, 10),
		Entries:   make([]*Symbol, 0, 10),
	}
}

// Lookup returns the symbol named name, or nil if undefined.
func (tu *TranslationUnit) Lookup(name string) *Symbol {
	return tu.Symbols[name]
}

// insert adds a brand-new symbol. Callers must have already checked that
// name is not present.
func (tu *TranslationUnit) insert(sym *Symbol) {
	tu.Symbols[sym.Name] = sym
	tu.order = append(tu.order, sym.Name)
}

// AllSymbols returns every symbol in insertion order, for tools (dump,
// browse, xref) that want deterministic output.
func (tu *TranslationUnit) AllSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(tu.order))
	for _, name := range tu.order {
		out = append(out, tu.Symbols[name])
	}
	return out
}
