// Package export re-runs the layout engine at a fixed grid and splits
// the result into pages for a print renderer. It shares the layout
// implementation with the interactive view, so the exported form is
// cell-identical to what the editor would display at the same grid.
package export

import (
	"strings"

	"github.com/yomogi/tatedit/internal/layout"
)

// DefaultRows and DefaultCols are the submission-manuscript grid.
const (
	DefaultRows = 40
	DefaultCols = 40
)

// Page holds the layout units of one manuscript page.
type Page struct {
	Units []layout.Unit
}

// Document is a paginated export layout.
type Document struct {
	Pages []Page
	Rows  int
	Cols  int
}

// Paginate lays text out on a rows x cols grid and groups the units by
// page. Layout and pagination use the same cols within the pass.
func Paginate(text string, rows, cols int) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	res := layout.Compute([]rune(text), rows, cols)

	pages := make([]Page, res.TotalPages)
	for _, u := range res.Units {
		idx := u.GCol / cols
		if idx < 0 {
			idx = 0
		}
		if idx > len(pages)-1 {
			idx = len(pages) - 1
		}
		pages[idx].Units = append(pages[idx].Units, u)
	}
	return Document{Pages: pages, Rows: rows, Cols: cols}
}

// Merge joins texts in order, inserting a newline between chunks that
// are not already separated by one.
func Merge(texts []string) string {
	var b strings.Builder
	for i, chunk := range texts {
		if i > 0 && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && !strings.HasPrefix(chunk, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(chunk)
	}
	return b.String()
}

// RenderText renders every page as a rows-line block of runes, columns
// right to left, using vertical presentation glyphs. Pages are
// separated by a blank line. Empty cells render as ideographic space so
// each line has exactly cols glyph positions.
func (d Document) RenderText() string {
	var b strings.Builder
	for pi, page := range d.Pages {
		if pi > 0 {
			b.WriteByte('\n')
		}
		grid := make([][]string, d.Rows)
		for r := range grid {
			grid[r] = make([]string, d.Cols)
			for c := range grid[r] {
				grid[r][c] = "　"
			}
		}
		for _, u := range page.Units {
			colInPage := u.GCol % d.Cols
			// Column 0 is the rightmost text column.
			x := d.Cols - 1 - colInPage
			if u.Row < 0 || u.Row >= d.Rows || x < 0 || x >= d.Cols {
				continue
			}
			if u.Kind == layout.TCY {
				grid[u.Row][x] = u.Text
			} else {
				grid[u.Row][x] = layout.VerticalGlyph(u.Text)
			}
		}
		for _, row := range grid {
			for _, cell := range row {
				b.WriteString(cell)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
