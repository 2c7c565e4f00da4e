package editor

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func TestRenderFirstGlyphTopRight(t *testing.T) {
	e := newTestEditor("あ")
	s := newTestScreen(t, 30, 12)

	e.Render(s)

	cells, w, _ := s.GetContents()
	// Page 0 sits rightmost: margin 1 plus 7 cells of width 2.
	wantX := 1 + 7*2
	got := cells[1*w+wantX]
	if len(got.Runes) == 0 || got.Runes[0] != 'あ' {
		t.Fatalf("cell at (%d,1) = %q, want %q", wantX, got.Runes, 'あ')
	}
}

func TestRenderVerticalGlyphSubstitution(t *testing.T) {
	e := newTestEditor("ー")
	s := newTestScreen(t, 30, 12)

	e.Render(s)

	cells, w, _ := s.GetContents()
	wantX := 1 + 7*2
	got := cells[1*w+wantX]
	if len(got.Runes) == 0 || got.Runes[0] != '｜' {
		t.Fatalf("cell = %q, want prolonged sound mark rotated to %q", got.Runes, '｜')
	}
}

func TestRenderDigitPairSharesCell(t *testing.T) {
	e := newTestEditor("12")
	s := newTestScreen(t, 30, 12)

	e.Render(s)

	cells, w, _ := s.GetContents()
	x := 1 + 7*2
	if cells[1*w+x].Runes[0] != '1' || cells[1*w+x+1].Runes[0] != '2' {
		t.Fatalf("digit pair = %q %q, want 1 2 side by side",
			cells[1*w+x].Runes, cells[1*w+x+1].Runes)
	}
}

func TestRenderCursorPlacement(t *testing.T) {
	e := newTestEditor("あい")
	e.doc.MoveTo(1, false)
	s := newTestScreen(t, 30, 12)

	e.Render(s)

	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatalf("cursor not visible")
	}
	rect := e.doc.CursorRect()
	if x != rect.X-e.scrollX || y != rect.Y-e.scrollY {
		t.Fatalf("cursor at (%d,%d), want (%d,%d)", x, y, rect.X-e.scrollX, rect.Y-e.scrollY)
	}
}

func TestRenderSelectionStyle(t *testing.T) {
	e := newTestEditor("あい")
	e.doc.SelectAll()
	s := newTestScreen(t, 30, 12)

	e.Render(s)

	cells, w, _ := s.GetContents()
	x := 1 + 7*2
	selected := cells[1*w+x].Style
	unselected := cells[3*w+x].Style
	_, bgSel, _ := selected.Decompose()
	_, bgPlain, _ := unselected.Decompose()
	if bgSel == bgPlain {
		t.Fatalf("selection background not applied")
	}
}

func TestRenderStatuslineShowsDirtyAndPosition(t *testing.T) {
	e := newTestEditor("")
	typeRunes(e, "あ")
	s := newTestScreen(t, 60, 12)

	e.Render(s)

	cells, w, h := s.GetContents()
	var line []rune
	for x := 0; x < w; x++ {
		c := cells[(h-2)*w+x]
		if len(c.Runes) > 0 {
			line = append(line, c.Runes[0])
		}
	}
	text := string(line)
	if !strings.Contains(text, "EDIT") {
		t.Fatalf("statusline %q missing mode", text)
	}
	if !strings.Contains(text, "*") {
		t.Fatalf("statusline %q missing dirty marker", text)
	}
	if !strings.Contains(text, "Pg 1") {
		t.Fatalf("statusline %q missing page position", text)
	}
}

func TestRenderCommandlinePrompt(t *testing.T) {
	e := newTestEditor("abc")
	e.mode = ModeCommand
	e.cmd = []rune("w")
	e.cmdCursor = 1
	s := newTestScreen(t, 20, 5)

	e.Render(s)

	cells, w, h := s.GetContents()
	cmdCell := cells[(h-1)*w]
	if len(cmdCell.Runes) == 0 || cmdCell.Runes[0] != ':' {
		t.Fatalf("command line first rune = %q, want ':'", cmdCell.Runes)
	}
}

func TestRenderSearchPromptDirection(t *testing.T) {
	e := newTestEditor("abc")
	e.mode = ModeSearch
	e.searchForward = false
	e.searchQuery = []rune("x")
	e.searchCursor = 1
	s := newTestScreen(t, 20, 5)

	e.Render(s)

	cells, w, h := s.GetContents()
	cmdCell := cells[(h-1)*w]
	if len(cmdCell.Runes) == 0 || cmdCell.Runes[0] != '?' {
		t.Fatalf("search prompt = %q, want '?'", cmdCell.Runes)
	}
}

func TestMouseClickMovesCursor(t *testing.T) {
	e := newTestEditor("あいう")
	s := newTestScreen(t, 30, 12)
	e.Render(s)

	// Third character sits at row 2 of the rightmost column.
	ev := tcell.NewEventMouse(1+7*2, 3, tcell.Button1, tcell.ModNone)
	e.HandleMouse(ev)
	if e.doc.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.doc.Cursor())
	}
}
