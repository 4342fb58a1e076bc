package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asm14/assemble"
	"asm14/encode"
	"asm14/parser"
)

func run(t *testing.T, src string) (*assemble.TranslationUnit, *parser.Program) {
	t.Helper()
	prog, list := parser.ParseProgram(src, "t.as")
	if list.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", list.Error())
	}
	tu := assemble.NewTranslationUnit("t.as")
	assemble.FirstPass(tu, prog)
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected first-pass errors: %s", tu.Errors.Error())
	}
	assemble.SecondPass(tu, prog)
	return tu, prog
}

// S1
func TestScenarioHalt(t *testing.T) {
	tu, _ := run(t, "hlt\n")
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %s", tu.Errors.Error())
	}
	if len(tu.CodeImage) != 1 {
		t.Fatalf("expected 1 code word, got %d", len(tu.CodeImage))
	}
	want := encode.OpcodeWord(parser.OpHlt, false, 0, false, 0)
	if tu.CodeImage[0] != want {
		t.Fatalf("code word = %#x, want %#x", tu.CodeImage[0], want)
	}
	if len(tu.Entries) != 0 || len(tu.Externs) != 0 {
		t.Fatal("halt-only program should have no entries or externs")
	}
}

// S2
func TestScenarioConstantAndData(t *testing.T) {
	src := ".define sz = 3\nLIST: .data 4, -1, sz\nmov #sz, r1\n"
	tu, _ := run(t, src)
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %s", tu.Errors.Error())
	}
	// mov #sz, r1 occupies 3 words (opcode + immediate source + register
	// target); the double-register optimization only applies when *both*
	// operands are direct-register (spec.md §4.3 P5), which isn't the case
	// here since the source is immediate.
	if tu.IC != 103 {
		t.Fatalf("IC = %d, want 103", tu.IC)
	}
	if tu.DC != 3 {
		t.Fatalf("DC = %d, want 3", tu.DC)
	}
	sz := tu.Lookup("sz")
	if sz == nil || sz.Kind != assemble.DefinedConstant || sz.Address != 3 {
		t.Fatalf("unexpected sz symbol: %+v", sz)
	}
	list := tu.Lookup("LIST")
	if list == nil || list.Kind != assemble.DataLabel || list.Address != 103 {
		t.Fatalf("unexpected LIST symbol: %+v", list)
	}
	if len(tu.CodeImage) != 3 {
		t.Fatalf("expected 3 code words, got %d", len(tu.CodeImage))
	}
	wantData := []uint16{4, 0x3FFF, 3} // -1 as 14-bit two's complement
	for i, w := range wantData {
		if tu.DataImage[i] != w {
			t.Fatalf("data[%d] = %#x, want %#x", i, tu.DataImage[i], w)
		}
	}
}

// S3
func TestScenarioExtern(t *testing.T) {
	src := ".extern X\nmov X, r1\nhlt\n"
	tu, _ := run(t, src)
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %s", tu.Errors.Error())
	}
	// mov X, r1 is 3 words (opcode + direct source + register target), hlt 1.
	if len(tu.CodeImage) != 4 {
		t.Fatalf("expected 4 code words, got %d", len(tu.CodeImage))
	}
	if tu.DC != 0 {
		t.Fatalf("DC = %d, want 0", tu.DC)
	}
	if len(tu.Externs) != 1 {
		t.Fatalf("expected exactly one extern use, got %d", len(tu.Externs))
	}
	if tu.Externs[0].Name != "X" || tu.Externs[0].Address != 101 {
		t.Fatalf("unexpected extern use: %+v", tu.Externs[0])
	}
	areWord := tu.CodeImage[1]
	if ARE := areWord & 0b11; ARE != uint16(encode.AREExternal) {
		t.Fatalf("ARE = %b, want External", ARE)
	}
}

// S4
func TestScenarioDuplicateLabel(t *testing.T) {
	prog, list := parser.ParseProgram("A: hlt\nA: hlt\n", "t.as")
	if list.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", list.Error())
	}
	tu := assemble.NewTranslationUnit("t.as")
	assemble.FirstPass(tu, prog)
	if !tu.Errors.HasErrors() {
		t.Fatal("expected a symbol-redefinition error")
	}
}

// S5
func TestScenarioForwardEntry(t *testing.T) {
	src := ".entry ALPHA\nALPHA: mov r1, r2\n"
	tu, _ := run(t, src)
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %s", tu.Errors.Error())
	}
	if len(tu.Entries) != 1 || tu.Entries[0].Name != "ALPHA" {
		t.Fatalf("unexpected entries: %+v", tu.Entries)
	}
	if tu.Entries[0].Kind != assemble.EntryCodeLabel {
		t.Fatalf("ALPHA should be ENTRY_CODE_LABEL, got %v", tu.Entries[0].Kind)
	}
	// P5: both operands direct-register => 2 words total.
	if len(tu.CodeImage) != 2 {
		t.Fatalf("expected double-register optimization (2 words), got %d", len(tu.CodeImage))
	}
}

// S6
func TestScenarioImmediateOverflow(t *testing.T) {
	prog, list := parser.ParseProgram("mov #5000, r1\n", "t.as")
	if list.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", list.Error())
	}
	tu := assemble.NewTranslationUnit("t.as")
	assemble.FirstPass(tu, prog)
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected first-pass errors: %s", tu.Errors.Error())
	}
	assemble.SecondPass(tu, prog)
	if !tu.Errors.HasErrors() {
		t.Fatal("expected a binary-overflow error")
	}
}

// P2
func TestICDCInvariant(t *testing.T) {
	tu, _ := run(t, ".define n = 5\nARR: .data 1, 2, n\nadd r1, r2\nhlt\n")
	if tu.IC-assemble.IC0 != len(tu.CodeImage) {
		t.Fatalf("IC-IC0 (%d) != len(CodeImage) (%d)", tu.IC-assemble.IC0, len(tu.CodeImage))
	}
	if tu.DC != len(tu.DataImage) {
		t.Fatalf("DC (%d) != len(DataImage) (%d)", tu.DC, len(tu.DataImage))
	}
}

// P4
func TestAREDiscipline(t *testing.T) {
	tu, _ := run(t, ".extern E\njmp E\nhlt\n")
	for _, w := range tu.CodeImage {
		are := w & 0b11
		if are != 0b00 && are != 0b01 && are != 0b10 {
			t.Fatalf("word %#x has an invalid ARE field", w)
		}
	}
	var externAREWords int
	for _, w := range tu.CodeImage {
		if w&0b11 == 0b01 {
			externAREWords++
		}
	}
	if externAREWords != len(tu.Externs) {
		t.Fatalf("external-ARE word count (%d) != extern-use record count (%d)", externAREWords, len(tu.Externs))
	}
}

// P3: no two symbols in the final table share an address, within either the
// code range [IC0, IC) or the data range [IC, IC+DC).
func TestP3NoAddressCollisionAcrossSymbols(t *testing.T) {
	src := ".entry FIRST\nFIRST: mov r1, r2\nSECOND: add r3, r4\nN: .data 1\nM: .data 2\nhlt\n"
	tu, _ := run(t, src)
	require.False(t, tu.Errors.HasErrors(), "unexpected errors: %s", tu.Errors.Error())

	seen := make(map[int]string)
	for _, sym := range tu.AllSymbols() {
		if sym.Kind == assemble.DefinedConstant || sym.Kind == assemble.ExternLabel {
			continue
		}
		if prior, ok := seen[sym.Address]; ok {
			t.Fatalf("address %d shared by %q and %q", sym.Address, prior, sym.Name)
		}
		seen[sym.Address] = sym.Name
	}
}

// P5: the double-register optimization applies only when BOTH operands are
// AddrDirectRegister; any other pairing still costs one word per operand.
func TestP5DoubleRegisterOptimizationIsExact(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantWords int
	}{
		{"both registers share one word", "mov r1, r2\n", 2},
		{"immediate source costs its own word", "mov #3, r2\n", 3},
		{"direct source costs its own word", "N: .data 1\nmov N, r2\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, _ := run(t, tt.src)
			require.False(t, tu.Errors.HasErrors(), "unexpected errors: %s", tu.Errors.Error())
			assert.Equal(t, tt.wantWords, len(tu.CodeImage), "code word count for %q", tt.src)
		})
	}
}

// P6: every immediate/fixed-index operand outside the machine's signed
// 12-bit range is rejected during the second pass, never silently truncated.
func TestP6ImmediateOverflowRejected(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"max in range", "mov #2047, r1\n", false},
		{"min in range", "mov #-2048, r1\n", false},
		{"bare zero accepted", "mov #0, r1\n", false},
		{"one over max", "mov #2048, r1\n", true},
		{"one under min", "mov #-2049, r1\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, list := parser.ParseProgram(tt.src, "t.as")
			require.False(t, list.HasErrors(), "unexpected parse errors: %s", list.Error())
			tu := assemble.NewTranslationUnit("t.as")
			assemble.FirstPass(tu, prog)
			require.False(t, tu.Errors.HasErrors(), "unexpected first-pass errors: %s", tu.Errors.Error())
			assemble.SecondPass(tu, prog)
			assert.Equal(t, tt.wantErr, tu.Errors.HasErrors(), "second-pass error state for %q", tt.src)
		})
	}
}
