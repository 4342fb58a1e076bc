// Command asm14 assembles 14-bit-word source files (spec.md §6.1): each
// FILE.as is preprocessed, parsed, and run through the two-pass assembler,
// producing FILE.am/.ob/.ent/.ext on success.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"asm14/asmerr"
	"asm14/assemble"
	"asm14/browse"
	"asm14/config"
	"asm14/encode"
	"asm14/objectfile"
	"asm14/parser"
)

// Version information, overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		verboseMode = flag.Bool("verbose", false, "print per-stage diagnostics")
		dumpSymbols = flag.Bool("dump-symbols", false, "print the final symbol table after a successful assemble")
		configPath  = flag.String("config", "", "explicit path to a TOML config file (default: platform config dir)")
		browseMode  = flag.Bool("browse", false, "open an interactive symbol/listing browser after assembling")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("asm14 %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm14: %v\n", err)
		os.Exit(1)
	}
	parser.AcceptBareZero = cfg.Dialect.AcceptBareZero

	anyErrors := false
	for _, base := range flag.Args() {
		tu, ok := assembleFile(base, cfg, *verboseMode)
		if !ok {
			anyErrors = true
			continue
		}
		if *dumpSymbols {
			dumpSymbolTable(tu)
		}
		if *browseMode {
			if err := browse.NewBrowser(tu).Run(); err != nil {
				fmt.Fprintf(os.Stderr, "asm14: browser error: %v\n", err)
			}
		}
	}

	if anyErrors && cfg.Diagnostics.ExitNonzeroOnError {
		os.Exit(1)
	}
	os.Exit(0)
}

// assembleFile runs the full pipeline for one FILE.as basename, writing the
// .am/.ob/.ent/.ext outputs on success. It returns ok=false (and has already
// printed every diagnostic) if any stage produced an error.
func assembleFile(base string, cfg *config.Config, verbose bool) (*assemble.TranslationUnit, bool) {
	file := base + ".as"
	source, err := os.ReadFile(file) // #nosec G304 -- CLI-provided source file path
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm14: cannot read %s: %v\n", file, err)
		return nil, false
	}

	if verbose {
		fmt.Printf("asm14: assembling %s\n", file)
	}

	prog, list := parser.ParseProgram(string(source), file)
	if list.HasErrors() {
		printErrors(list)
		return nil, false
	}

	if cfg.Output.EmitAm {
		lines := make([]string, len(prog.Expanded))
		for i, ln := range prog.Expanded {
			lines[i] = ln.Text
		}
		if err := objectfile.WriteAm(base, lines); err != nil {
			fmt.Fprintf(os.Stderr, "asm14: %v\n", err)
			return nil, false
		}
	}

	tu := assemble.NewTranslationUnit(file)
	assemble.FirstPass(tu, prog)
	assemble.SecondPass(tu, prog)
	if tu.Errors.HasErrors() {
		printErrors(&tu.Errors)
		return nil, false
	}

	if err := objectfile.WriteOb(base, tu); err != nil {
		fmt.Fprintf(os.Stderr, "asm14: %v\n", err)
		return nil, false
	}
	wroteEnt, err := objectfile.WriteEnt(base, tu)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm14: %v\n", err)
		return nil, false
	}
	wroteExt, err := objectfile.WriteExt(base, tu)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asm14: %v\n", err)
		return nil, false
	}

	printSuccessBanner(base, cfg.Output.EmitAm, wroteEnt, wroteExt)
	if verbose {
		dumpBase4Image(tu)
	}
	return tu, true
}

// printSuccessBanner reports which output files were generated, in the
// spirit of the original back end's print_compilation_success.
func printSuccessBanner(base string, wroteAm, wroteEnt, wroteExt bool) {
	written := []string{base + ".ob"}
	if wroteAm {
		written = append(written, base+".am")
	}
	if wroteEnt {
		written = append(written, base+".ent")
	}
	if wroteExt {
		written = append(written, base+".ext")
	}
	fmt.Printf("asm14: %s: generated %s\n", base, strings.Join(written, ", "))
}

// dumpBase4Image lists each code and data word in binary alongside its
// base-4 encoding, for cross-checking the object file by hand (the original
// back end's print_binary_machine_code / print_base4_code_image).
func dumpBase4Image(tu *assemble.TranslationUnit) {
	addr := assemble.IC0
	for _, w := range tu.CodeImage {
		fmt.Printf("  %s  %014b  %s  (code)\n", encode.FormatAddress(addr), w, encode.WordToBase4(w))
		addr++
	}
	for _, w := range tu.DataImage {
		fmt.Printf("  %s  %014b  %s  (data)\n", encode.FormatAddress(addr), w, encode.WordToBase4(w))
		addr++
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func printErrors(list *asmerr.List) {
	fmt.Fprint(os.Stderr, list.Error())
}

// dumpSymbolTable prints the symbol table in the teacher's aligned-column
// style (print_sym_table in original_source/.../file_generation.c).
func dumpSymbolTable(tu *assemble.TranslationUnit) {
	symbols := tu.AllSymbols()
	if len(symbols) == 0 {
		fmt.Println("no symbols defined")
		return
	}

	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Address < symbols[j].Address })

	fmt.Println("Symbol Table")
	fmt.Println("============")
	fmt.Printf("%-30s %-20s %s\n", "Name", "Kind", "Address")
	fmt.Println(strings.Repeat("-", 60))
	for _, sym := range symbols {
		fmt.Printf("%-30s %-20s %04d\n", sym.Name, sym.Kind.String(), sym.Address)
	}
}

func printUsage() {
	fmt.Printf(`asm14 %s - two-pass assembler for the 14-bit word machine

Usage: asm14 [options] FILE [FILE ...]

FILE names an extensionless basename; FILE.as is read and FILE.am/.ob/.ent/.ext
are written on success.

Options:
  -verbose        print per-stage diagnostics
  -dump-symbols   print the final symbol table after a successful assemble
  -config PATH    explicit path to a TOML config file
  -browse         open an interactive symbol/listing browser after assembling
  -version        show version information
`, Version)
}
