package tools_test

import (
	"strings"
	"testing"

	"asm14/assemble"
	"asm14/parser"
	"asm14/tools"
)

func buildXref(t *testing.T, src string) (map[string]*tools.SymbolXRef, *parser.Program) {
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
	return tools.BuildXRef(tu, prog), prog
}

func TestBuildXRefCountsBranchReference(t *testing.T) {
	xrefs, _ := buildXref(t, "L: hlt\njmp L\n")
	xr, ok := xrefs["L"]
	if !ok {
		t.Fatal("expected symbol L in cross-reference table")
	}
	if !xr.Resolved || xr.Kind != assemble.CodeLabel {
		t.Fatalf("expected L resolved as CODE_LABEL, got %+v", xr)
	}
	if len(xr.References) != 1 || xr.References[0].Kind != tools.RefBranch {
		t.Fatalf("expected one branch reference, got %+v", xr.References)
	}
}

func TestBuildXRefTracksEntryReference(t *testing.T) {
	xrefs, _ := buildXref(t, "L: hlt\n.entry L\n")
	xr := xrefs["L"]
	found := false
	for _, ref := range xr.References {
		if ref.Kind == tools.RefEntry {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an entry reference for L, got %+v", xr.References)
	}
}

func TestUnusedSymbols(t *testing.T) {
	xrefs, _ := buildXref(t, "COUNT: .data 5\nhlt\n")
	unused := tools.UnusedSymbols(xrefs)
	if len(unused) != 1 || unused[0].Name != "COUNT" {
		t.Fatalf("expected COUNT to be unused, got %+v", unused)
	}
}

func TestXRefReportListsSymbol(t *testing.T) {
	xrefs, _ := buildXref(t, "L: hlt\njmp L\n")
	report := tools.XRefReport(xrefs)
	if !strings.Contains(report, "L") || !strings.Contains(report, "CODE_LABEL") {
		t.Fatalf("report missing symbol L / CODE_LABEL: %s", report)
	}
}
