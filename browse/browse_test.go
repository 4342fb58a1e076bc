package browse_test

import (
	"testing"

	"asm14/assemble"
	"asm14/browse"
	"asm14/parser"
)

func buildUnit(t *testing.T, src string) *assemble.TranslationUnit {
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
	if tu.Errors.HasErrors() {
		t.Fatalf("unexpected second-pass errors: %s", tu.Errors.Error())
	}
	return tu
}

func TestNewBrowserPopulatesSymbolTable(t *testing.T) {
	tu := buildUnit(t, "L: hlt\njmp L\n")
	b := browse.NewBrowser(tu)

	if b.SymbolTable.GetRowCount() < 2 {
		t.Fatalf("expected a header row plus at least one symbol row, got %d rows", b.SymbolTable.GetRowCount())
	}
	header := b.SymbolTable.GetCell(0, 0).Text
	if header != "Name" {
		t.Fatalf("header cell = %q, want %q", header, "Name")
	}
}

func TestNewBrowserPopulatesListingTable(t *testing.T) {
	tu := buildUnit(t, "hlt\n")
	b := browse.NewBrowser(tu)

	if b.ListingTable.GetRowCount() != 2 {
		t.Fatalf("expected header + 1 code word row, got %d rows", b.ListingTable.GetRowCount())
	}
	addr := b.ListingTable.GetCell(1, 0).Text
	if addr != "0100" {
		t.Fatalf("first listing address = %q, want %q", addr, "0100")
	}
}

func TestFilterInputNarrowsSymbolTable(t *testing.T) {
	tu := buildUnit(t, "COUNT: .data 1\nTOTAL: .data 2\nhlt\n")
	b := browse.NewBrowser(tu)

	b.FilterInput.SetText("COUNT")
	names := make(map[string]bool)
	for row := 1; row < b.SymbolTable.GetRowCount(); row++ {
		names[b.SymbolTable.GetCell(row, 0).Text] = true
	}
	if !names["COUNT"] {
		t.Fatal("expected COUNT to survive the filter")
	}
	if names["TOTAL"] {
		t.Fatal("expected TOTAL to be filtered out")
	}
}
