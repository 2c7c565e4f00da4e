package document

// SelectedRange returns the active selection as [lo, hi) rune offsets.
// An empty selection has lo == hi.
func (d *Document) SelectedRange() (lo, hi int) {
	if d.cursor < d.anchor {
		return d.cursor, d.anchor
	}
	return d.anchor, d.cursor
}

func (d *Document) HasSelection() bool {
	return d.cursor != d.anchor
}

func (d *Document) SelectedText() string {
	lo, hi := d.SelectedRange()
	return string(d.text[lo:hi])
}

// SelectAll selects the whole buffer, leaving the cursor at the end.
func (d *Document) SelectAll() {
	d.anchor = 0
	d.cursor = len(d.text)
	d.emitCursor()
}

// ClearSelection collapses the selection onto the cursor.
func (d *Document) ClearSelection() {
	d.anchor = d.cursor
}

// MoveTo places the cursor at offset, clamped to the buffer. The anchor
// follows unless keepAnchor extends the selection.
func (d *Document) MoveTo(offset int, keepAnchor bool) {
	d.cursor = clamp(offset, 0, len(d.text))
	if !keepAnchor {
		d.anchor = d.cursor
	}
	d.emitCursor()
}

// MoveVisual moves the cursor by grid deltas. The target column floors
// at 0 and the row clamps to the grid; the cursor lands on the offset
// whose slot is nearest the target.
func (d *Document) MoveVisual(deltaCol, deltaRow int, keepAnchor bool) {
	s := d.res.SlotAt(d.cursor)
	targetCol := s.GCol + deltaCol
	if targetCol < 0 {
		targetCol = 0
	}
	targetRow := clamp(s.Row+deltaRow, 0, d.rows-1)
	d.MoveTo(d.res.NearestSlot(targetCol, targetRow), keepAnchor)
}

// HitTest resolves a world coordinate to its nearest buffer offset.
func (d *Document) HitTest(x, y int) int {
	gcol, row := d.metrics.PointToGrid(x, y, d.res.TotalPages, d.rows, d.cols)
	return d.res.NearestSlot(gcol, row)
}

// ClickAt moves the cursor to the offset nearest the world coordinate.
// With keepAnchor the click extends the selection instead of collapsing
// it.
func (d *Document) ClickAt(x, y int, keepAnchor bool) {
	d.MoveTo(d.HitTest(x, y), keepAnchor)
}
