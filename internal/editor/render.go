package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/yomogi/tatedit/internal/layout"
)

func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	cmdY := h - 1
	viewHeight := h - 2
	if h < 2 {
		statusY = h - 1
		cmdY = h - 1
	}
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewW = w
	e.viewH = viewHeight
	if !e.freeScroll {
		e.ensureCursorVisible()
	}

	s.SetStyle(e.styleMain)
	s.Clear()

	e.renderPages(s)
	e.renderUnits(s)
	e.renderPreedit(s)

	var cx, cy int
	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	cursorVisible := true
	if cmdY >= 0 {
		cmdCursor := e.renderCommandline(s, w, cmdY)
		if e.mode == ModeCommand || e.mode == ModeSearch {
			cx = cmdCursor
			cy = cmdY
		}
	}
	if e.mode == ModeEdit {
		rect := e.doc.CursorRect()
		cx = rect.X - e.scrollX
		cy = rect.Y - e.scrollY
		if cx < 0 || cx >= w || cy < 0 || cy >= viewHeight {
			cursorVisible = false
		}
	}
	if !cursorVisible {
		s.HideCursor()
		s.Show()
		return
	}
	cursorStyle := tcell.CursorStyleSteadyBlock
	if e.mode == ModeCommand || e.mode == ModeSearch {
		cursorStyle = tcell.CursorStyleSteadyBar
	}
	s.SetCursorStyle(cursorStyle)
	s.ShowCursor(cx, cy)
	s.Show()
}

func (e *Editor) ensureCursorVisible() {
	maxX, maxY := e.scrollBounds()
	e.scrollX, e.scrollY = layout.EnsureVisible(
		e.scrollX, e.scrollY, e.viewW, e.viewH, maxX, maxY, e.doc.CursorRect())
}

// renderPages paints the page backgrounds and, when enabled, a frame
// around each page.
func (e *Editor) renderPages(s tcell.Screen) {
	m := e.doc.Metrics()
	res := e.doc.Layout()
	rows, cols := e.doc.Rows(), e.doc.Cols()
	pageW := m.PageWidth(cols)
	pageH := m.PageHeight(rows)

	for page := 0; page < res.TotalPages; page++ {
		left := m.PageOriginX(page, res.TotalPages, cols)
		top := m.Margin
		for y := top; y < top+pageH; y++ {
			for x := left; x < left+pageW; x++ {
				e.setCell(s, x, y, ' ', e.stylePage)
			}
		}
		if e.showGrid {
			e.renderPageFrame(s, left, top, pageW, pageH)
		}
	}
}

func (e *Editor) renderPageFrame(s tcell.Screen, left, top, pageW, pageH int) {
	for x := left; x < left+pageW; x++ {
		e.setCell(s, x, top-1, tcell.RuneHLine, e.styleGrid)
		e.setCell(s, x, top+pageH, tcell.RuneHLine, e.styleGrid)
	}
	for y := top; y < top+pageH; y++ {
		e.setCell(s, left-1, y, tcell.RuneVLine, e.styleGrid)
		e.setCell(s, left+pageW, y, tcell.RuneVLine, e.styleGrid)
	}
	e.setCell(s, left-1, top-1, tcell.RuneULCorner, e.styleGrid)
	e.setCell(s, left+pageW, top-1, tcell.RuneURCorner, e.styleGrid)
	e.setCell(s, left-1, top+pageH, tcell.RuneLLCorner, e.styleGrid)
	e.setCell(s, left+pageW, top+pageH, tcell.RuneLRCorner, e.styleGrid)
}

func (e *Editor) renderUnits(s tcell.Screen) {
	m := e.doc.Metrics()
	res := e.doc.Layout()
	selLo, selHi := e.doc.SelectedRange()

	for _, u := range res.Units {
		if u.Kind == layout.Newline {
			continue
		}
		rect := m.CellRect(u.GCol, u.Row, res.TotalPages, e.doc.Cols())
		style := e.styleText
		if selLo != selHi && u.Start >= selLo && u.Start < selHi {
			style = e.styleSelection
		}
		e.renderCellText(s, rect, u.Text, u.Kind, style)
	}
}

// renderCellText draws one unit into its cell. Digit pairs sit side by
// side filling the double-width cell; everything else is a single glyph
// rendered upright, padded when the rune is narrow.
func (e *Editor) renderCellText(s tcell.Screen, rect layout.Rect, text string, kind layout.Kind, style tcell.Style) {
	if kind == layout.TCY {
		rs := []rune(text)
		for i, r := range rs {
			if i >= rect.W {
				break
			}
			e.setCell(s, rect.X+i, rect.Y, r, style)
		}
		return
	}
	glyph := []rune(layout.VerticalGlyph(text))[0]
	e.setCell(s, rect.X, rect.Y, glyph, style)
	if runewidth.RuneWidth(glyph) < rect.W {
		e.setCell(s, rect.X+1, rect.Y, ' ', style)
	}
}

func (e *Editor) renderPreedit(s tcell.Screen) {
	text := []rune(e.doc.Preedit())
	if len(text) == 0 {
		return
	}
	m := e.doc.Metrics()
	res := e.doc.Layout()
	for i, slot := range e.doc.PreeditSlots() {
		rect := m.CellRect(slot.GCol, slot.Row, res.TotalPages, e.doc.Cols())
		e.renderCellText(s, rect, string(text[i]), layout.Char, e.stylePreedit)
	}
}

// setCell draws one rune at world coordinates, applying scroll and
// clipping to the view.
func (e *Editor) setCell(s tcell.Screen, wx, wy int, r rune, style tcell.Style) {
	x := wx - e.scrollX
	y := wy - e.scrollY
	if x < 0 || x >= e.viewW || y < 0 || y >= e.viewH {
		return
	}
	s.SetContent(x, y, r, nil, style)
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	mode := "EDIT"
	if e.mode == ModeCommand {
		mode = "COMMAND"
	} else if e.mode == ModeSearch {
		mode = "SEARCH"
	}
	name := e.filename
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.doc.Dirty() {
		dirty = "*"
	}

	status := fmt.Sprintf(" %s | %s%s ", mode, name, dirty)
	if e.statusMessage != "" {
		status = fmt.Sprintf(" %s | %s%s | %s ", mode, name, dirty, e.statusMessage)
	}

	page, column, cell := e.doc.PageColumnCell()
	right := fmt.Sprintf(" %d chars | Pg %d, Col %d, Cell %d ",
		e.doc.CharacterCount(), page, column, cell)
	if e.dailyTarget > 0 && e.sess != nil {
		today := e.sess.DailyCount(time.Now().Format("2006-01-02"))
		right = fmt.Sprintf(" today %d/%d |%s", today, e.dailyTarget, right)
	}

	line := composeStatusLine(status, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	var cmdRunes []rune
	var rightText string
	style := e.styleCommand

	if e.mode == ModeSearch {
		style = e.styleSearch
		prefix := '/'
		if !e.searchForward {
			prefix = '?'
		}
		cmdRunes = append([]rune{prefix}, e.searchQuery...)
		flags := make([]string, 0, 2)
		if e.searchRegex {
			flags = append(flags, "re")
		}
		if e.searchCase {
			flags = append(flags, "Aa")
		}
		if len(flags) > 0 {
			rightText = " [" + strings.Join(flags, ",") + "] "
		}
	} else if e.mode == ModeCommand {
		cmdRunes = append([]rune{':'}, e.cmd...)
	}

	rightRunes := []rune(rightText)
	rightStart := w - len(rightRunes)
	if rightStart < 0 {
		rightStart = 0
		rightRunes = rightRunes[:w]
	}

	var cursorX int
	if e.mode == ModeCommand {
		cursorX = e.cmdCursor + 1
	} else if e.mode == ModeSearch {
		cursorX = e.searchCursor + 1
	}

	for x := 0; x < w; x++ {
		if x < len(cmdRunes) {
			s.SetContent(x, y, cmdRunes[x], nil, style)
		} else if x >= rightStart && x-rightStart < len(rightRunes) {
			s.SetContent(x, y, rightRunes[x-rightStart], nil, style)
		} else {
			s.SetContent(x, y, ' ', nil, style)
		}
	}

	if cursorX < 0 {
		cursorX = 0
	}
	if cursorX >= w {
		cursorX = w - 1
	}
	return cursorX
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	if spaceCount < 0 {
		spaceCount = 0
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
