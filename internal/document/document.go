package document

import (
	"strings"

	"github.com/yomogi/tatedit/internal/layout"
)

// Events carries the notifications a document emits after state
// changes. Nil callbacks are skipped. Page, column, and cell are
// 1-based.
type Events struct {
	CursorMoved     func(page, column, cell int)
	DirtyChanged    func(dirty bool)
	CountChanged    func(count int)
	ScrollRequested func(cell layout.Rect)
}

type snapshot struct {
	text   string
	cursor int
	anchor int
}

// Document owns one manuscript buffer together with its cursor,
// selection, linear undo history, and derived layout. All operations
// are synchronous; every mutation re-tokenizes and re-lays-out the
// whole buffer.
type Document struct {
	text    []rune
	cursor  int
	anchor  int
	rows    int
	cols    int
	saved   string
	dirty   bool
	preedit []rune

	history []snapshot
	histIdx int

	res     layout.Result
	metrics layout.Metrics
	events  Events
}

// New creates an empty document on a rows x cols grid. The grid is
// clamped to the supported range.
func New(rows, cols int) *Document {
	rows, cols = layout.ClampGrid(rows, cols)
	d := &Document{
		rows:    rows,
		cols:    cols,
		history: []snapshot{{}},
		metrics: layout.Metrics{CellW: 2, CellH: 1, PageGap: 2, Margin: 1},
	}
	d.relayout()
	return d
}

// SetEvents installs the notification callbacks.
func (d *Document) SetEvents(ev Events) {
	d.events = ev
}

// SetMetrics replaces the cell geometry used for hit-testing and
// scroll requests.
func (d *Document) SetMetrics(m layout.Metrics) {
	d.metrics = m
}

func (d *Document) Metrics() layout.Metrics { return d.metrics }

func (d *Document) Rows() int { return d.rows }
func (d *Document) Cols() int { return d.cols }

// Layout returns the current derived layout. It is recomputed on every
// mutation, never patched.
func (d *Document) Layout() layout.Result { return d.res }

func (d *Document) Text() string { return string(d.text) }

func (d *Document) Len() int { return len(d.text) }

func (d *Document) Cursor() int { return d.cursor }
func (d *Document) Anchor() int { return d.anchor }

func (d *Document) Dirty() bool { return d.dirty }

// CharacterCount counts the buffer's characters excluding newlines.
func (d *Document) CharacterCount() int {
	n := 0
	for _, r := range d.text {
		if r != '\n' {
			n++
		}
	}
	return n
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SetText loads text as the document's pristine state: history is
// reset to a single entry, the saved snapshot matches the text, and the
// dirty flag clears.
func (d *Document) SetText(text string) {
	text = normalizeNewlines(text)
	d.text = []rune(text)
	d.cursor = clamp(d.cursor, 0, len(d.text))
	d.anchor = d.cursor
	d.saved = text
	d.dirty = false
	d.preedit = nil
	d.history = []snapshot{{text: text, cursor: d.cursor, anchor: d.cursor}}
	d.histIdx = 0
	d.relayout()
	d.emitDirty()
	d.emitCount()
	d.emitCursor()
}

// SetGrid reconfigures the manuscript grid and re-lays-out. Values are
// clamped to the supported range.
func (d *Document) SetGrid(rows, cols int) {
	d.rows, d.cols = layout.ClampGrid(rows, cols)
	d.relayout()
	d.emitCursor()
}

// ReplaceRange replaces the rune range [lo, hi) with insert. Offsets
// are clamped, insert newlines are normalized, and the cursor and
// anchor land after the inserted text. A resulting state identical to
// the current history entry is not recorded.
func (d *Document) ReplaceRange(lo, hi int, insert string) {
	lo = clamp(lo, 0, len(d.text))
	hi = clamp(hi, lo, len(d.text))
	insert = normalizeNewlines(insert)
	ins := []rune(insert)
	next := make([]rune, 0, len(d.text)-(hi-lo)+len(ins))
	next = append(next, d.text[:lo]...)
	next = append(next, ins...)
	next = append(next, d.text[hi:]...)
	d.applyEdit(next, lo+len(ins), lo+len(ins))
}

// InsertText replaces the active selection (or inserts at the cursor)
// with text.
func (d *Document) InsertText(text string) {
	if text == "" {
		return
	}
	lo, hi := d.SelectedRange()
	d.ReplaceRange(lo, hi, text)
}

// DeleteBackward removes the selection, or the rune before the cursor
// when the selection is empty.
func (d *Document) DeleteBackward() {
	if d.cursor != d.anchor {
		lo, hi := d.SelectedRange()
		d.ReplaceRange(lo, hi, "")
		return
	}
	if d.cursor <= 0 {
		return
	}
	d.ReplaceRange(d.cursor-1, d.cursor, "")
}

// DeleteForward removes the selection, or the rune after the cursor
// when the selection is empty.
func (d *Document) DeleteForward() {
	if d.cursor != d.anchor {
		lo, hi := d.SelectedRange()
		d.ReplaceRange(lo, hi, "")
		return
	}
	if d.cursor >= len(d.text) {
		return
	}
	d.ReplaceRange(d.cursor, d.cursor+1, "")
}

func (d *Document) applyEdit(next []rune, cursor, anchor int) {
	oldCount := d.CharacterCount()
	// The cursor may have moved since the current entry was pushed.
	// Fold its position in so undo lands where the edit was made.
	d.history[d.histIdx].cursor = d.cursor
	d.history[d.histIdx].anchor = d.anchor
	d.preedit = nil
	d.text = next
	d.cursor = clamp(cursor, 0, len(d.text))
	d.anchor = clamp(anchor, 0, len(d.text))
	d.dirty = string(d.text) != d.saved

	d.pushHistory()
	d.relayout()
	d.emitDirty()
	if d.CharacterCount() != oldCount {
		d.emitCount()
	}
	d.emitCursor()
}

// pushHistory appends the current state, truncating any redo entries
// first. History is strictly linear; there is no branching.
func (d *Document) pushHistory() {
	snap := snapshot{text: string(d.text), cursor: d.cursor, anchor: d.anchor}
	if d.history[d.histIdx] == snap {
		return
	}
	d.history = append(d.history[:d.histIdx+1], snap)
	d.histIdx = len(d.history) - 1
}

// Undo steps back one history entry if possible.
func (d *Document) Undo() {
	if d.histIdx <= 0 {
		return
	}
	d.histIdx--
	d.restore(d.history[d.histIdx])
}

// Redo steps forward one history entry if possible.
func (d *Document) Redo() {
	if d.histIdx >= len(d.history)-1 {
		return
	}
	d.histIdx++
	d.restore(d.history[d.histIdx])
}

func (d *Document) restore(snap snapshot) {
	d.text = []rune(snap.text)
	d.cursor = clamp(snap.cursor, 0, len(d.text))
	d.anchor = clamp(snap.anchor, 0, len(d.text))
	d.dirty = snap.text != d.saved
	d.relayout()
	d.emitDirty()
	d.emitCount()
	d.emitCursor()
}

// MarkSaved records the current text as the on-disk state and clears
// the dirty flag.
func (d *Document) MarkSaved() {
	d.saved = string(d.text)
	d.dirty = false
	d.emitDirty()
}

func (d *Document) relayout() {
	d.res = layout.Compute(d.text, d.rows, d.cols)
}

// PageColumnCell returns the cursor position as a 1-based
// (page, column, cell) triple.
func (d *Document) PageColumnCell() (page, column, cell int) {
	return d.res.PageColumnCell(d.cursor)
}

// CursorRect returns the world rectangle of the cursor's cell.
func (d *Document) CursorRect() layout.Rect {
	s := d.res.SlotAt(d.cursor)
	return d.metrics.CellRect(s.GCol, s.Row, d.res.TotalPages, d.cols)
}

// SetPreedit stores the uncommitted IME composition string. It is
// display state only and is discarded by the next committed edit.
func (d *Document) SetPreedit(text string) {
	d.preedit = []rune(text)
}

func (d *Document) Preedit() string { return string(d.preedit) }

// PreeditSlots returns one grid position per preedit rune, advancing
// from the cursor slot the same way layout would.
func (d *Document) PreeditSlots() []layout.Slot {
	if len(d.preedit) == 0 {
		return nil
	}
	s := d.res.SlotAt(d.cursor)
	slots := make([]layout.Slot, len(d.preedit))
	for i := range d.preedit {
		slots[i] = s
		s.Row++
		if s.Row >= d.rows {
			s.Row = 0
			s.GCol++
		}
	}
	return slots
}

func (d *Document) emitDirty() {
	if d.events.DirtyChanged != nil {
		d.events.DirtyChanged(d.dirty)
	}
}

func (d *Document) emitCount() {
	if d.events.CountChanged != nil {
		d.events.CountChanged(d.CharacterCount())
	}
}

func (d *Document) emitCursor() {
	if d.events.CursorMoved != nil {
		page, column, cell := d.PageColumnCell()
		d.events.CursorMoved(page, column, cell)
	}
	if d.events.ScrollRequested != nil {
		d.events.ScrollRequested(d.CursorRect())
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
