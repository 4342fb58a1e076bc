// Package objectfile writes the four output files a completed assembly
// produces (spec.md §6): the preprocessor listing (.am), the object file
// (.ob), the entries file (.ent), and the externs file (.ext). It never
// decides whether to write — TranslationUnit.Errors already recorded
// whether the file is clean — it only serializes an already-built image.
package objectfile

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"asm14/assemble"
	"asm14/encode"
)

// WriteAm writes the preprocessor's expanded output, one line per
// ExpandedLine, to base+".am". This is an intermediate file: it is
// overwritten on every run (spec.md §6.3).
func WriteAm(base string, lines []string) error {
	f, err := os.Create(base + ".am") // #nosec G304 -- base is a CLI-provided output basename
	if err != nil {
		return fmt.Errorf("creating %s.am: %w", base, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing %s.am: %w", base, err)
		}
	}
	return w.Flush()
}

// WriteOb writes base+".ob": the header line, then one line per code word
// and one line per data word, both in ascending address order starting at
// assemble.IC0 (spec.md §6.3).
func WriteOb(base string, tu *assemble.TranslationUnit) error {
	f, err := os.Create(base + ".ob") // #nosec G304 -- base is a CLI-provided output basename
	if err != nil {
		return fmt.Errorf("creating %s.ob: %w", base, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	codeCount := len(tu.CodeImage)
	dataCount := len(tu.DataImage)
	if _, err := fmt.Fprintf(w, "  %d %d\n", codeCount, dataCount); err != nil {
		return err
	}

	addr := assemble.IC0
	for _, word := range tu.CodeImage {
		if _, err := fmt.Fprintf(w, "%s %s\n", encode.FormatAddress(addr), encode.WordToBase4(word)); err != nil {
			return err
		}
		addr++
	}
	for _, word := range tu.DataImage {
		if _, err := fmt.Fprintf(w, "%s %s\n", encode.FormatAddress(addr), encode.WordToBase4(word)); err != nil {
			return err
		}
		addr++
	}
	return w.Flush()
}

// WriteEnt writes base+".ent" if tu has any entries, sorted by ascending
// address (P7). Returns (false, nil) without creating a file when there are
// none, matching spec.md §6.3's "produced only if entries exist".
func WriteEnt(base string, tu *assemble.TranslationUnit) (bool, error) {
	if len(tu.Entries) == 0 {
		return false, nil
	}
	f, err := os.Create(base + ".ent") // #nosec G304 -- base is a CLI-provided output basename
	if err != nil {
		return false, fmt.Errorf("creating %s.ent: %w", base, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, sym := range tu.Entries { // already sorted by FirstPass's finalization
		if _, err := fmt.Fprintf(w, "%s\t%s\n", sym.Name, encode.FormatAddress(sym.Address)); err != nil {
			return false, err
		}
	}
	return true, w.Flush()
}

// WriteExt writes base+".ext" if tu recorded any extern use, one line per
// use sorted by ascending address (P7).
func WriteExt(base string, tu *assemble.TranslationUnit) (bool, error) {
	if len(tu.Externs) == 0 {
		return false, nil
	}
	uses := make([]assemble.ExternUse, len(tu.Externs))
	copy(uses, tu.Externs)
	sort.Slice(uses, func(i, j int) bool { return uses[i].Address < uses[j].Address })

	f, err := os.Create(base + ".ext") // #nosec G304 -- base is a CLI-provided output basename
	if err != nil {
		return false, fmt.Errorf("creating %s.ext: %w", base, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, use := range uses {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", use.Name, encode.FormatAddress(use.Address)); err != nil {
			return false, err
		}
	}
	return true, w.Flush()
}
