package asmerr_test

import (
	"strings"
	"testing"

	"asm14/asmerr"
)

func TestErrorFormat(t *testing.T) {
	err := asmerr.New(asmerr.Position{File: "B.as", Line: 4}, asmerr.KindSyntax, "undefined label %q", "LOOP")
	want := `[Compilation Error] [File: "B.as", Line: 4] undefined label "LOOP".`
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestListKeepsEveryError(t *testing.T) {
	var list asmerr.List
	if list.HasErrors() {
		t.Fatal("empty list reports HasErrors")
	}

	list.Addf(asmerr.Position{File: "a.as", Line: 1}, asmerr.KindSyntax, "first")
	list.Addf(asmerr.Position{File: "a.as", Line: 2}, asmerr.KindSemantic, "second")

	if !list.HasErrors() {
		t.Fatal("HasErrors is false after Add")
	}
	if len(list.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(list.Errors))
	}

	rendered := list.Error()
	if !strings.Contains(rendered, "first") || !strings.Contains(rendered, "second") {
		t.Fatalf("rendered list missing a message: %q", rendered)
	}
}

func TestListAddNilIsNoOp(t *testing.T) {
	var list asmerr.List
	list.Add(nil)
	if list.HasErrors() {
		t.Fatal("adding a nil error should not register")
	}
}

func TestKindString(t *testing.T) {
	if asmerr.KindUnresolvedEntry.String() != "unresolved entry" {
		t.Fatalf("unexpected Kind.String(): %q", asmerr.KindUnresolvedEntry.String())
	}
}
