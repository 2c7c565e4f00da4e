package layout

// Metrics describes the cell geometry used for hit-testing and for
// placing page rectangles. The interactive view and the export path use
// different cell sizes but the same arithmetic.
type Metrics struct {
	CellW   int
	CellH   int
	PageGap int
	Margin  int
}

// Rect is a cell or page rectangle in world coordinates (scroll not
// applied).
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (m Metrics) PageWidth(cols int) int  { return cols * m.CellW }
func (m Metrics) PageHeight(rows int) int { return rows * m.CellH }

// PageOriginX returns the left edge of a page. Page 0 sits rightmost;
// later pages continue to the left.
func (m Metrics) PageOriginX(page, totalPages, cols int) int {
	return m.Margin + (totalPages-1-page)*(m.PageWidth(cols)+m.PageGap)
}

// TotalSize returns the world extent of totalPages pages plus margins.
func (m Metrics) TotalSize(totalPages, rows, cols int) (w, h int) {
	w = m.Margin*2 + totalPages*m.PageWidth(cols)
	if totalPages > 1 {
		w += (totalPages - 1) * m.PageGap
	}
	h = m.Margin*2 + m.PageHeight(rows)
	return w, h
}

// CellRect returns the world rectangle of the cell at (gcol, row).
func (m Metrics) CellRect(gcol, row, totalPages, cols int) Rect {
	page := gcol / cols
	colInPage := gcol % cols
	x := m.PageOriginX(page, totalPages, cols) + (cols-1-colInPage)*m.CellW
	y := m.Margin + row*m.CellH
	return Rect{X: x, Y: y, W: m.CellW, H: m.CellH}
}

// EnsureVisible returns scroll offsets adjusted so that cell is inside
// the viewport, with a small padding so the cursor never sits flush
// against the edge. Offsets are clamped to [0, max].
func EnsureVisible(scrollX, scrollY, viewW, viewH, maxX, maxY int, cell Rect) (int, int) {
	scrollX = ensureAxis(scrollX, viewW, maxX, cell.X, cell.X+cell.W)
	scrollY = ensureAxis(scrollY, viewH, maxY, cell.Y, cell.Y+cell.H)
	return scrollX, scrollY
}

func ensureAxis(scroll, view, max, lo, hi int) int {
	const pad = 1
	if lo < scroll+pad {
		scroll = lo - pad
	} else if hi > scroll+view-pad {
		scroll = hi - view + pad
	}
	if scroll > max {
		scroll = max
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}

// PointToGrid maps a world coordinate to the nearest (gcol, row). The
// page is chosen by horizontal proximity so clicks in the gaps and
// outside the margins still resolve.
func (m Metrics) PointToGrid(x, y, totalPages, rows, cols int) (gcol, row int) {
	pageW := m.PageWidth(cols)
	pageH := m.PageHeight(rows)

	worldY := y - m.Margin
	if worldY < 0 {
		worldY = 0
	}
	if worldY > pageH-1 {
		worldY = pageH - 1
	}
	row = worldY / m.CellH

	bestPage := 0
	bestDist := int(^uint(0) >> 1)
	for page := 0; page < totalPages; page++ {
		left := m.PageOriginX(page, totalPages, cols)
		right := left + pageW
		dist := 0
		if x < left {
			dist = left - x
		} else if x > right {
			dist = x - right
		}
		if dist < bestDist {
			bestDist = dist
			bestPage = page
		}
	}

	withinX := x - m.PageOriginX(bestPage, totalPages, cols)
	if withinX < 0 {
		withinX = 0
	}
	if withinX > pageW-1 {
		withinX = pageW - 1
	}
	colFromLeft := withinX / m.CellW
	colInPage := cols - 1 - colFromLeft
	if colInPage < 0 {
		colInPage = 0
	}
	if colInPage > cols-1 {
		colInPage = cols - 1
	}
	return bestPage*cols + colInPage, row
}
