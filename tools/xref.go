package tools

import (
	"fmt"
	"sort"
	"strings"

	"asm14/assemble"
	"asm14/parser"
)

// RefKind classifies how a command line uses a symbol.
type RefKind int

const (
	RefBranch RefKind = iota // jmp/bne/jsr target
	RefData                  // mov/cmp/add/... operand
	RefEntry                 // named in a .entry directive
)

func (r RefKind) String() string {
	switch r {
	case RefBranch:
		return "branch"
	case RefData:
		return "data"
	case RefEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Reference is one line where a symbol is used.
type Reference struct {
	Kind RefKind
	Line int
}

// SymbolXRef is one symbol's full cross-reference record: its resolved
// identity from the completed TranslationUnit, plus every line that refers
// to it.
type SymbolXRef struct {
	Name       string
	Kind       assemble.SymbolKind
	Address    int
	Resolved   bool // true if tu's symbol table defines this name
	References []Reference
}

// BuildXRef cross-references every symbol in tu against prog's ALD
// sequence. tu must already have completed both passes (assemble.FirstPass
// and assemble.SecondPass) so addresses and kinds are resolved.
func BuildXRef(tu *assemble.TranslationUnit, prog *parser.Program) map[string]*SymbolXRef {
	out := make(map[string]*SymbolXRef)
	for _, sym := range tu.AllSymbols() {
		out[sym.Name] = &SymbolXRef{Name: sym.Name, Kind: sym.Kind, Address: sym.Address, Resolved: true}
	}

	branchOps := map[parser.Opcode]bool{parser.OpJmp: true, parser.OpBne: true, parser.OpJsr: true}

	for _, ald := range prog.Lines {
		switch ald.Kind {
		case parser.LineCommand:
			kind := RefData
			if branchOps[ald.Command.Op] {
				kind = RefBranch
			}
			ops := []parser.Operand{ald.Command.Target}
			if ald.Command.NumOps == 2 {
				ops = append(ops, ald.Command.Source)
			}
			for _, op := range ops {
				var name string
				switch op.Mode {
				case parser.AddrDirect, parser.AddrFixedIndex:
					name = op.Label
				default:
					continue
				}
				xr, ok := out[name]
				if !ok {
					xr = &SymbolXRef{Name: name}
					out[name] = xr
				}
				xr.References = append(xr.References, Reference{Kind: kind, Line: ald.Pos.Line})
			}
		case parser.LineDirective:
			if ald.Directive.Kind == parser.DirEntry {
				name := ald.Directive.Name
				xr, ok := out[name]
				if !ok {
					xr = &SymbolXRef{Name: name}
					out[name] = xr
				}
				xr.References = append(xr.References, Reference{Kind: RefEntry, Line: ald.Pos.Line})
			}
		}
	}
	return out
}

// XRefReport renders a BuildXRef result as sorted, human-readable text.
func XRefReport(xrefs map[string]*SymbolXRef) string {
	names := make([]string, 0, len(xrefs))
	for name := range xrefs {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, name := range names {
		xr := xrefs[name]
		fmt.Fprintf(&sb, "%-24s", xr.Name)
		if xr.Resolved {
			fmt.Fprintf(&sb, " [%s addr=%s]", xr.Kind, encodedAddress(xr.Address))
		} else {
			sb.WriteString(" [unresolved]")
		}
		sb.WriteByte('\n')

		if len(xr.References) == 0 {
			sb.WriteString("  referenced: (never)\n\n")
			continue
		}
		fmt.Fprintf(&sb, "  referenced: %d time(s)\n", len(xr.References))

		byKind := make(map[RefKind][]int)
		for _, ref := range xr.References {
			byKind[ref.Kind] = append(byKind[ref.Kind], ref.Line)
		}
		for _, kind := range []RefKind{RefBranch, RefData, RefEntry} {
			lines := byKind[kind]
			if len(lines) == 0 {
				continue
			}
			strs := make([]string, len(lines))
			for i, ln := range lines {
				strs[i] = fmt.Sprintf("%d", ln)
			}
			fmt.Fprintf(&sb, "    %-7s: line(s) %s\n", kind, strings.Join(strs, ", "))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func encodedAddress(addr int) string {
	return fmt.Sprintf("%d", addr)
}

// UnusedSymbols returns every CODE_LABEL or DATA_LABEL defined but never
// referenced, sorted by name.
func UnusedSymbols(xrefs map[string]*SymbolXRef) []*SymbolXRef {
	var out []*SymbolXRef
	for _, xr := range xrefs {
		if xr.Resolved && len(xr.References) == 0 && (xr.Kind == assemble.CodeLabel || xr.Kind == assemble.DataLabel) {
			out = append(out, xr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
