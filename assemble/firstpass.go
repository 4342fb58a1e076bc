package assemble

import (
	"sort"

	"asm14/asmerr"
	"asm14/encode"
	"asm14/parser"
)

// FirstPass walks prog's ALDs in source order, building the symbol table,
// constants list, and data image, and reserving instruction-counter space
// per command (spec.md §4.3). It reports diagnostics into tu.Errors but
// never stops early — every line is visited so a single bad line doesn't
// suppress diagnostics on the rest of the file.
func FirstPass(tu *TranslationUnit, prog *parser.Program) {
	for _, ald := range prog.Lines {
		if ald.Err != nil {
			continue // already recorded by the parser; nothing more to do
		}
		switch ald.Kind {
		case parser.LineEmpty, parser.LineComment:
			// nothing to do

		case parser.LineConstantDef:
			firstPassConstant(tu, ald)

		case parser.LineCommand:
			firstPassCommand(tu, ald)

		case parser.LineDirective:
			firstPassDirective(tu, ald)
		}
	}

	finalizeFirstPass(tu)
}

func firstPassConstant(tu *TranslationUnit, ald *parser.ALD) {
	name := ald.ConstantDef.Name
	if tu.Lookup(name) != nil {
		tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "symbol redefinition: %q is already defined", name)
		return
	}
	tu.insert(&Symbol{Name: name, Kind: DefinedConstant, Address: ald.ConstantDef.Value})
	tu.Constants[name] = ald.ConstantDef.Value
}

// placeLabel applies spec.md §4.3 step 1: promote a TempEntryLabel, reject a
// redefinition, or insert a fresh CodeLabel/DataLabel at addr.
func placeLabel(tu *TranslationUnit, ald *parser.ALD, addr int, isCommand bool) {
	if ald.Label == "" {
		return
	}
	existing := tu.Lookup(ald.Label)
	if existing == nil {
		kind := DataLabel
		if isCommand {
			kind = CodeLabel
		}
		tu.insert(&Symbol{Name: ald.Label, Kind: kind, Address: addr})
		return
	}
	if existing.Kind == TempEntryLabel {
		if isCommand {
			existing.Kind = EntryCodeLabel
		} else {
			existing.Kind = EntryDataLabel
		}
		existing.Address = addr
		return
	}
	tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "symbol redefinition: %q is already defined", ald.Label)
}

func firstPassCommand(tu *TranslationUnit, ald *parser.ALD) {
	cmd := ald.Command

	if cmd.HasSrc && !parser.SourceLegal(cmd.Op, cmd.Source.Mode) {
		tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "illegal source addressing mode for %q", cmd.Op)
		return
	}
	if cmd.HasTgt && !parser.TargetLegal(cmd.Op, cmd.Target.Mode) {
		tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "illegal target addressing mode for %q", cmd.Op)
		return
	}

	placeLabel(tu, ald, tu.IC, true)

	size := encode.InstructionWordCount(cmd.HasSrc, cmd.Source.Mode, cmd.HasTgt, cmd.Target.Mode)
	tu.IC += size
}

func firstPassDirective(tu *TranslationUnit, ald *parser.ALD) {
	dir := ald.Directive
	switch dir.Kind {
	case parser.DirData:
		placeLabel(tu, ald, tu.DC, false)
		for _, el := range dir.Data {
			v := el.Literal
			if el.IsConstRef {
				cv, ok := tu.Constants[el.ConstName]
				if !ok {
					tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "undefined constant %q", el.ConstName)
					continue
				}
				v = cv
			}
			tu.DataImage = append(tu.DataImage, uint16(v)&encode.WordMask)
			tu.DC++
		}

	case parser.DirString:
		placeLabel(tu, ald, tu.DC, false)
		for _, r := range dir.String {
			tu.DataImage = append(tu.DataImage, uint16(r)&encode.WordMask)
			tu.DC++
		}
		tu.DataImage = append(tu.DataImage, 0)
		tu.DC++

	case parser.DirEntry:
		firstPassEntry(tu, ald)

	case parser.DirExtern:
		firstPassExtern(tu, ald)
	}
}

func firstPassEntry(tu *TranslationUnit, ald *parser.ALD) {
	name := ald.Directive.Name
	existing := tu.Lookup(name)
	if existing == nil {
		tu.insert(&Symbol{Name: name, Kind: TempEntryLabel, DeclLine: ald.Pos.Line})
		return
	}
	switch existing.Kind {
	case CodeLabel:
		existing.Kind = EntryCodeLabel
	case DataLabel:
		existing.Kind = EntryDataLabel
	default:
		tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "%q cannot be declared .entry: already a %v", name, existing.Kind)
	}
}

func firstPassExtern(tu *TranslationUnit, ald *parser.ALD) {
	name := ald.Directive.Name
	if tu.Lookup(name) != nil {
		tu.Errors.Addf(ald.Pos, asmerr.KindSemantic, "symbol redefinition: %q is already defined", name)
		return
	}
	tu.insert(&Symbol{Name: name, Kind: ExternLabel, Address: 0})
}

// finalizeFirstPass implements spec.md §4.3's finalization step: flag any
// TempEntryLabel that was never defined, offset data-label addresses by the
// final IC so code and data share one flat address space, and sort the
// entries list by address.
func finalizeFirstPass(tu *TranslationUnit) {
	for _, sym := range tu.AllSymbols() {
		if sym.Kind == TempEntryLabel {
			tu.Errors.Addf(asmerr.Position{File: tu.File, Line: sym.DeclLine}, asmerr.KindUnresolvedEntry,
				"entry declared but never defined: %q", sym.Name)
		}
		if sym.Kind == DataLabel || sym.Kind == EntryDataLabel {
			sym.Address += tu.IC
		}
	}

	for _, sym := range tu.AllSymbols() {
		if sym.Kind == EntryCodeLabel || sym.Kind == EntryDataLabel {
			tu.Entries = append(tu.Entries, sym)
		}
	}
	sort.Slice(tu.Entries, func(i, j int) bool { return tu.Entries[i].Address < tu.Entries[j].Address })
}
