package layout

// Unit is a non-newline token with its assigned grid position. GCol is
// the manuscript column index counted across the whole document; Row is
// the cell index within the column, top to bottom.
type Unit struct {
	Start int
	End   int
	Text  string
	Kind  Kind
	GCol  int
	Row   int
}

// Slot is the grid position of a single buffer offset.
type Slot struct {
	GCol int
	Row  int
}

// Result is the derived layout state for one (text, rows, cols) input.
// Slots always has len(text)+1 entries; the final entry is the resting
// position of a cursor at the end of the buffer.
type Result struct {
	Units      []Unit
	Slots      []Slot
	TotalPages int
	Rows       int
	Cols       int
}

// MinGrid and MaxGrid bound the rows/cols range accepted from
// configuration and commands. Compute itself trusts its caller so that
// tests can exercise tiny grids directly.
const (
	MinGrid = 8
	MaxGrid = 80
)

// ClampGrid clamps rows and cols to the supported range.
func ClampGrid(rows, cols int) (int, int) {
	return clampDim(rows), clampDim(cols)
}

func clampDim(v int) int {
	if v < MinGrid {
		return MinGrid
	}
	if v > MaxGrid {
		return MaxGrid
	}
	return v
}

// Compute lays out text on a rows x cols manuscript grid. It is a pure
// function: identical input yields an identical Result.
//
// The pass runs forward with one-unit lookbehind. A line-end prohibited
// token sitting on the last row wraps to the next column first. A
// line-head prohibited token that would open a column instead pulls the
// previous unit down from the end of the prior column and takes row 1.
func Compute(text []rune, rows, cols int) Result {
	slots := make([]Slot, len(text)+1)
	var units []Unit

	row := 0
	gcol := 0
	for _, tok := range Tokenize(text) {
		if tok.Kind == Newline {
			// The newline's own slot is the head of the column it
			// opens, so a cursor on either side of it rests there.
			gcol++
			row = 0
			slots[tok.Start] = Slot{GCol: gcol, Row: row}
			slots[tok.End] = Slot{GCol: gcol, Row: row}
			continue
		}

		slots[tok.Start] = Slot{GCol: gcol, Row: row}

		if row == rows-1 && LineEndProhibited(tok.Text) {
			gcol++
			row = 0
		}

		if row == 0 && LineHeadProhibited(tok.Text) && len(units) > 0 {
			prev := &units[len(units)-1]
			if prev.GCol == gcol-1 && prev.Row == rows-1 {
				prev.GCol = gcol
				prev.Row = 0
				row = 1
			}
		}

		for mid := tok.Start + 1; mid < tok.End; mid++ {
			slots[mid] = Slot{GCol: gcol, Row: row}
		}

		units = append(units, Unit{
			Start: tok.Start,
			End:   tok.End,
			Text:  tok.Text,
			Kind:  tok.Kind,
			GCol:  gcol,
			Row:   row,
		})
		row++
		if row >= rows {
			row = 0
			gcol++
		}

		slots[tok.End] = Slot{GCol: gcol, Row: row}
	}

	maxCol := 0
	for _, u := range units {
		if u.GCol > maxCol {
			maxCol = u.GCol
		}
	}
	for _, s := range slots {
		if s.GCol > maxCol {
			maxCol = s.GCol
		}
	}

	return Result{
		Units:      units,
		Slots:      slots,
		TotalPages: maxCol/cols + 1,
		Rows:       rows,
		Cols:       cols,
	}
}

// NearestSlot resolves a target grid position to the offset whose slot
// is closest. A full column of distance outweighs any row distance, so
// the cost is |Δgcol|*rows + |Δrow|. Ties go to the lowest offset.
func (r Result) NearestSlot(gcol, row int) int {
	best := 0
	bestDist := int(^uint(0) >> 1)
	for idx, s := range r.Slots {
		dg := s.GCol - gcol
		if dg < 0 {
			dg = -dg
		}
		dr := s.Row - row
		if dr < 0 {
			dr = -dr
		}
		dist := dg*r.Rows + dr
		if dist < bestDist {
			bestDist = dist
			best = idx
		}
	}
	return best
}

// SlotAt returns the slot for offset, clamped to the table bounds.
func (r Result) SlotAt(offset int) Slot {
	if len(r.Slots) == 0 {
		return Slot{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.Slots) {
		offset = len(r.Slots) - 1
	}
	return r.Slots[offset]
}

// PageColumnCell converts the slot at offset to the 1-based
// (page, column, cell) triple shown to the user.
func (r Result) PageColumnCell(offset int) (page, column, cell int) {
	s := r.SlotAt(offset)
	return s.GCol/r.Cols + 1, s.GCol%r.Cols + 1, s.Row + 1
}
