// Package browse implements the -browse interactive listing viewer
// (SPEC_FULL.md §6.5): a read-only tview/tcell terminal UI over a completed
// assembly's symbol table and code/data listing. It never mutates the
// TranslationUnit it is given — this is purely a post-assembly convenience,
// grounded on the teacher's debugger.TUI panel-and-table layout.
package browse

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"asm14/assemble"
	"asm14/encode"
)

// Browser is the two-pane symbol/listing viewer.
type Browser struct {
	App    *tview.Application
	Pages  *tview.Pages
	Layout *tview.Flex

	SymbolTable  *tview.Table
	ListingTable *tview.Table
	FilterInput  *tview.InputField

	symbols []*assemble.Symbol
	listing []listingRow
}

type listingRow struct {
	Address int
	Word    uint16
	Image   string // "code" or "data"
}

// NewBrowser builds a Browser over tu, which must already have completed
// both passes.
func NewBrowser(tu *assemble.TranslationUnit) *Browser {
	b := &Browser{
		App:     tview.NewApplication(),
		symbols: tu.AllSymbols(),
		listing: buildListing(tu),
	}
	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	b.refreshSymbolTable("")
	b.refreshListingTable()
	return b
}

func buildListing(tu *assemble.TranslationUnit) []listingRow {
	rows := make([]listingRow, 0, len(tu.CodeImage)+len(tu.DataImage))
	addr := assemble.IC0
	for _, w := range tu.CodeImage {
		rows = append(rows, listingRow{Address: addr, Word: w, Image: "code"})
		addr++
	}
	for _, w := range tu.DataImage {
		rows = append(rows, listingRow{Address: addr, Word: w, Image: "data"})
		addr++
	}
	return rows
}

func (b *Browser) initializeViews() {
	b.SymbolTable = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	b.SymbolTable.SetBorder(true).SetTitle(" Symbols (/ to filter) ")

	b.ListingTable = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	b.ListingTable.SetBorder(true).SetTitle(" Listing ")

	b.FilterInput = tview.NewInputField().SetLabel("/ ").SetFieldWidth(0)
	b.FilterInput.SetBorder(true).SetTitle(" Filter ")
	b.FilterInput.SetChangedFunc(func(text string) {
		b.refreshSymbolTable(text)
	})
}

func (b *Browser) buildLayout() {
	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.SymbolTable, 0, 5, true).
		AddItem(b.FilterInput, 3, 0, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, true).
		AddItem(b.ListingTable, 0, 1, false)

	b.Layout = tview.NewFlex().SetDirection(tview.FlexRow).AddItem(content, 0, 1, true)
	b.Pages = tview.NewPages().AddPage("main", b.Layout, true, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEsc:
			b.App.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == '/' && b.App.GetFocus() != b.FilterInput {
				b.App.SetFocus(b.FilterInput)
				return nil
			}
		case tcell.KeyTab:
			if b.App.GetFocus() == b.FilterInput {
				b.App.SetFocus(b.SymbolTable)
			} else {
				b.App.SetFocus(b.FilterInput)
			}
			return nil
		}
		return event
	})
}

func (b *Browser) refreshSymbolTable(filter string) {
	b.SymbolTable.Clear()
	headers := []string{"Name", "Kind", "Address"}
	for col, h := range headers {
		b.SymbolTable.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}

	row := 1
	for _, sym := range b.symbols {
		if filter != "" && !strings.Contains(strings.ToLower(sym.Name), strings.ToLower(filter)) {
			continue
		}
		b.SymbolTable.SetCell(row, 0, tview.NewTableCell(sym.Name))
		b.SymbolTable.SetCell(row, 1, tview.NewTableCell(sym.Kind.String()))
		b.SymbolTable.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%04d", sym.Address)))
		row++
	}
	b.SymbolTable.Select(1, 0).SetSelectable(true, false)
}

func (b *Browser) refreshListingTable() {
	b.ListingTable.Clear()
	headers := []string{"Address", "Word", "Segment"}
	for col, h := range headers {
		b.ListingTable.SetCell(0, col, tview.NewTableCell(h).SetSelectable(false).SetTextColor(tcell.ColorYellow))
	}
	for i, r := range b.listing {
		b.ListingTable.SetCell(i+1, 0, tview.NewTableCell(encode.FormatAddress(r.Address)))
		b.ListingTable.SetCell(i+1, 1, tview.NewTableCell(encode.WordToBase4(r.Word)))
		b.ListingTable.SetCell(i+1, 2, tview.NewTableCell(r.Image))
	}
	b.ListingTable.Select(1, 0).SetSelectable(true, false)
}

// Run starts the terminal UI and blocks until the user quits (Esc/Ctrl-C).
func (b *Browser) Run() error {
	return b.App.SetRoot(b.Pages, true).SetFocus(b.SymbolTable).Run()
}
