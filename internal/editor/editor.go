package editor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/yomogi/tatedit/internal/config"
	"github.com/yomogi/tatedit/internal/document"
	"github.com/yomogi/tatedit/internal/export"
	"github.com/yomogi/tatedit/internal/logger"
	"github.com/yomogi/tatedit/internal/session"
)

type Mode int

const (
	ModeEdit Mode = iota
	ModeCommand
	ModeSearch
)

// Editor owns the interactive manuscript view: one document, scroll
// state, the command and search prompts, and the theme styles. All text
// state lives in the document; the editor only presents it.
type Editor struct {
	doc      *document.Document
	filename string

	mode          Mode
	statusMessage string

	scrollX    int
	scrollY    int
	viewW      int
	viewH      int
	freeScroll bool

	cmd       []rune
	cmdCursor int

	searchQuery   []rune
	searchCursor  int
	searchForward bool
	searchRegex   bool
	searchCase    bool
	lastSearch    string

	clipboard string

	showGrid    bool
	dailyTarget int
	lastCount   int

	sess *session.Manager

	styleMain      tcell.Style
	styleText      tcell.Style
	stylePage      tcell.Style
	styleGrid      tcell.Style
	styleSelection tcell.Style
	styleStatus    tcell.Style
	styleCommand   tcell.Style
	styleSearch    tcell.Style
	stylePreedit   tcell.Style
}

func New(cfg config.Config) *Editor {
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorBlack)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorWhite)
	pageBg := parseColor(cfg.Theme.PageBackground, mainBg)
	gridFg := parseColor(cfg.Theme.GridLineForeground, mainFg)
	selectionFg := parseColor(cfg.Theme.SelectionForeground, mainFg)
	selectionBg := parseColor(cfg.Theme.SelectionBackground, mainBg)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, mainFg)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, mainBg)
	commandFg := parseColor(cfg.Theme.CommandlineForeground, statusFg)
	commandBg := parseColor(cfg.Theme.CommandlineBackground, statusBg)
	searchFg := parseColor(cfg.Theme.SearchPromptForeground, commandFg)
	searchBg := parseColor(cfg.Theme.SearchPromptBackground, commandBg)
	preeditFg := parseColor(cfg.Theme.PreeditForeground, mainFg)
	preeditBg := parseColor(cfg.Theme.PreeditBackground, pageBg)

	e := &Editor{
		doc:           document.New(cfg.Editor.GridRows, cfg.Editor.GridCols),
		mode:          ModeEdit,
		searchForward: true,
		showGrid:      cfg.Editor.GridVisible(),
		dailyTarget:   cfg.Editor.DailyTargetChars,
		styleMain:     tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleText:     tcell.StyleDefault.Foreground(mainFg).Background(pageBg),
		stylePage:     tcell.StyleDefault.Foreground(gridFg).Background(pageBg),
		styleGrid:     tcell.StyleDefault.Foreground(gridFg).Background(mainBg),
		styleSelection: tcell.StyleDefault.Foreground(selectionFg).
			Background(selectionBg),
		styleStatus:  tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleCommand: tcell.StyleDefault.Foreground(commandFg).Background(commandBg),
		styleSearch:  tcell.StyleDefault.Foreground(searchFg).Background(searchBg),
		stylePreedit: tcell.StyleDefault.Foreground(preeditFg).Background(preeditBg),
	}
	e.doc.SetEvents(document.Events{
		CountChanged: e.onCountChanged,
	})
	e.lastCount = e.doc.CharacterCount()
	return e
}

func (e *Editor) Document() *document.Document { return e.doc }

func (e *Editor) Filename() string { return e.filename }

// SetSessionManager wires the session store used for per-file state and
// the daily character tally.
func (e *Editor) SetSessionManager(sm *session.Manager) {
	e.sess = sm
}

func (e *Editor) onCountChanged(count int) {
	delta := count - e.lastCount
	e.lastCount = count
	if delta > 0 && e.sess != nil {
		e.sess.AddDailyCount(time.Now().Format("2006-01-02"), delta)
	}
}

// OpenFile loads path into the document. A path that does not exist yet
// starts an empty manuscript under that name.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		data = nil
	}
	e.doc.SetText(string(data))
	e.lastCount = e.doc.CharacterCount()
	e.filename = path
	e.mode = ModeEdit
	e.statusMessage = ""
	e.scrollX = 0
	e.scrollY = 0
	e.freeScroll = false
	logger.Info("opened file", "path", path, "chars", e.lastCount)
	return nil
}

func (e *Editor) Save(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = e.filename
	}
	if err := os.WriteFile(path, []byte(e.doc.Text()), 0o644); err != nil {
		return err
	}
	e.filename = path
	e.doc.MarkSaved()
	logger.Info("saved file", "path", path)
	return nil
}

// RestoreSessionState applies a previously saved per-file state.
func (e *Editor) RestoreSessionState(st session.FileState) {
	if st.GridRows > 0 && st.GridCols > 0 {
		e.doc.SetGrid(st.GridRows, st.GridCols)
	}
	e.doc.MoveTo(st.Anchor, false)
	e.doc.MoveTo(st.Cursor, true)
	e.scrollX = st.ScrollX
	e.scrollY = st.ScrollY
}

// SessionState captures the current per-file state for persistence.
func (e *Editor) SessionState() session.FileState {
	return session.FileState{
		Cursor:   e.doc.Cursor(),
		Anchor:   e.doc.Anchor(),
		ScrollX:  e.scrollX,
		ScrollY:  e.scrollY,
		GridRows: e.doc.Rows(),
		GridCols: e.doc.Cols(),
	}
}

// HandleKey processes one key event. It returns true when the editor
// should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	e.freeScroll = false
	if e.mode == ModeEdit && e.statusMessage != "" {
		e.statusMessage = ""
	}
	switch e.mode {
	case ModeCommand:
		return e.handleCommand(ev)
	case ModeSearch:
		return e.handleSearch(ev)
	default:
		return e.handleEdit(ev)
	}
}

func (e *Editor) handleEdit(ev *tcell.EventKey) bool {
	keepAnchor := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyEscape:
		if e.doc.HasSelection() {
			e.doc.ClearSelection()
			return false
		}
		e.mode = ModeCommand
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return false
	case tcell.KeyUp:
		e.doc.MoveVisual(0, -1, keepAnchor)
	case tcell.KeyDown:
		e.doc.MoveVisual(0, 1, keepAnchor)
	case tcell.KeyLeft:
		// Reading order runs right to left, so left advances.
		e.doc.MoveVisual(1, 0, keepAnchor)
	case tcell.KeyRight:
		e.doc.MoveVisual(-1, 0, keepAnchor)
	case tcell.KeyPgDn:
		e.doc.MoveVisual(e.doc.Cols(), 0, keepAnchor)
	case tcell.KeyPgUp:
		e.doc.MoveVisual(-e.doc.Cols(), 0, keepAnchor)
	case tcell.KeyHome:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			e.doc.MoveTo(0, keepAnchor)
		} else {
			e.moveToColumnEdge(0, keepAnchor)
		}
	case tcell.KeyEnd:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			e.doc.MoveTo(e.doc.Len(), keepAnchor)
		} else {
			e.moveToColumnEdge(e.doc.Rows()-1, keepAnchor)
		}
	case tcell.KeyEnter:
		e.doc.InsertText("\n")
	case tcell.KeyTab:
		// Full-width space, one manuscript cell.
		e.doc.InsertText("　")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.doc.DeleteBackward()
	case tcell.KeyDelete:
		e.doc.DeleteForward()
	case tcell.KeyCtrlZ:
		e.doc.Undo()
	case tcell.KeyCtrlY, tcell.KeyCtrlR:
		e.doc.Redo()
	case tcell.KeyCtrlA:
		e.doc.SelectAll()
	case tcell.KeyCtrlC:
		e.copySelection()
	case tcell.KeyCtrlX:
		if e.doc.HasSelection() {
			e.clipboard = e.doc.SelectedText()
			lo, hi := e.doc.SelectedRange()
			e.doc.ReplaceRange(lo, hi, "")
		}
	case tcell.KeyCtrlV:
		if e.clipboard != "" {
			e.doc.InsertText(e.clipboard)
		}
	case tcell.KeyCtrlS:
		if err := e.Save(""); err != nil {
			e.setStatus(err.Error())
		} else {
			e.setStatus("written")
		}
	case tcell.KeyCtrlF:
		e.enterSearchMode(true)
	case tcell.KeyCtrlN:
		e.repeatSearch(true)
	case tcell.KeyCtrlP:
		e.repeatSearch(false)
	case tcell.KeyCtrlQ:
		if e.doc.Dirty() {
			e.setStatus("unsaved changes (use :q!)")
			return false
		}
		return true
	case tcell.KeyRune:
		e.doc.InsertText(string(ev.Rune()))
	}
	return false
}

// moveToColumnEdge jumps to the given row within the cursor's column.
func (e *Editor) moveToColumnEdge(row int, keepAnchor bool) {
	res := e.doc.Layout()
	s := res.SlotAt(e.doc.Cursor())
	e.doc.MoveTo(res.NearestSlot(s.GCol, row), keepAnchor)
}

func (e *Editor) copySelection() {
	if e.doc.HasSelection() {
		e.clipboard = e.doc.SelectedText()
		e.setStatus("copied")
	}
}

func (e *Editor) handleCommand(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.mode = ModeEdit
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return false
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(e.cmd))
		e.mode = ModeEdit
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return e.execCommand(cmd)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cmdCursor > 0 && len(e.cmd) > 0 {
			e.cmd = append(e.cmd[:e.cmdCursor-1], e.cmd[e.cmdCursor:]...)
			e.cmdCursor--
		}
		return false
	case tcell.KeyDelete:
		if e.cmdCursor < len(e.cmd) {
			e.cmd = append(e.cmd[:e.cmdCursor], e.cmd[e.cmdCursor+1:]...)
		}
		return false
	case tcell.KeyLeft:
		if e.cmdCursor > 0 {
			e.cmdCursor--
		}
		return false
	case tcell.KeyRight:
		if e.cmdCursor < len(e.cmd) {
			e.cmdCursor++
		}
		return false
	case tcell.KeyHome:
		e.cmdCursor = 0
		return false
	case tcell.KeyEnd:
		e.cmdCursor = len(e.cmd)
		return false
	case tcell.KeyCtrlU:
		e.cmd = e.cmd[:0]
		e.cmdCursor = 0
		return false
	case tcell.KeyRune:
		e.cmd = append(e.cmd[:e.cmdCursor], append([]rune{ev.Rune()}, e.cmd[e.cmdCursor:]...)...)
		e.cmdCursor++
		return false
	}
	return false
}

func (e *Editor) execCommand(cmd string) bool {
	if cmd == "" {
		return false
	}
	if cmd[0] == '/' || cmd[0] == '?' {
		e.searchForward = cmd[0] == '/'
		e.performSearch(cmd[1:])
		return false
	}
	fields := strings.Fields(cmd)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "w":
		path := ""
		if len(args) > 0 {
			path = strings.Join(args, " ")
		}
		if err := e.Save(path); err != nil {
			e.setStatus(err.Error())
			return false
		}
		e.setStatus("written")
		return false
	case "q":
		if e.doc.Dirty() {
			e.setStatus("unsaved changes (use :q!)")
			return false
		}
		return true
	case "q!":
		return true
	case "wq", "x":
		path := ""
		if len(args) > 0 {
			path = strings.Join(args, " ")
		}
		if err := e.Save(path); err != nil {
			e.setStatus(err.Error())
			return false
		}
		return true
	case "grid":
		if len(args) == 0 {
			e.setStatus(fmt.Sprintf("grid %dx%d", e.doc.Rows(), e.doc.Cols()))
			return false
		}
		if len(args) != 2 {
			e.setStatus("usage: grid <rows> <cols>")
			return false
		}
		rows, err1 := strconv.Atoi(args[0])
		cols, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			e.setStatus("usage: grid <rows> <cols>")
			return false
		}
		e.doc.SetGrid(rows, cols)
		e.setStatus(fmt.Sprintf("grid %dx%d", e.doc.Rows(), e.doc.Cols()))
		return false
	case "export":
		path := ""
		if len(args) > 0 {
			path = strings.Join(args, " ")
		}
		if err := e.Export(path); err != nil {
			e.setStatus(err.Error())
			return false
		}
		e.setStatus("exported")
		return false
	case "count":
		e.setStatus(fmt.Sprintf("%d chars", e.doc.CharacterCount()))
		return false
	default:
		e.setStatus("unknown command: " + name)
		return false
	}
}

// Export writes the manuscript as plain-text pages on the standard
// submission grid.
func (e *Editor) Export(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = strings.TrimSuffix(e.filename, ".txt") + ".pages.txt"
	}
	doc := export.Paginate(e.doc.Text(), export.DefaultRows, export.DefaultCols)
	if err := os.WriteFile(path, []byte(doc.RenderText()), 0o644); err != nil {
		return err
	}
	logger.Info("exported manuscript", "path", path, "pages", len(doc.Pages))
	return nil
}

func (e *Editor) enterSearchMode(forward bool) {
	e.mode = ModeSearch
	e.searchForward = forward
	e.searchQuery = e.searchQuery[:0]
	e.searchCursor = 0
}

func (e *Editor) handleSearch(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.mode = ModeEdit
		e.searchQuery = e.searchQuery[:0]
		e.searchCursor = 0
		return false
	case tcell.KeyEnter:
		query := string(e.searchQuery)
		e.mode = ModeEdit
		e.searchQuery = e.searchQuery[:0]
		e.searchCursor = 0
		e.performSearch(query)
		return false
	case tcell.KeyCtrlR:
		e.searchRegex = !e.searchRegex
		return false
	case tcell.KeyTab:
		e.searchCase = !e.searchCase
		return false
	case tcell.KeyCtrlF:
		e.searchForward = !e.searchForward
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.searchCursor > 0 && len(e.searchQuery) > 0 {
			e.searchQuery = append(e.searchQuery[:e.searchCursor-1], e.searchQuery[e.searchCursor:]...)
			e.searchCursor--
		}
		return false
	case tcell.KeyLeft:
		if e.searchCursor > 0 {
			e.searchCursor--
		}
		return false
	case tcell.KeyRight:
		if e.searchCursor < len(e.searchQuery) {
			e.searchCursor++
		}
		return false
	case tcell.KeyCtrlU:
		e.searchQuery = e.searchQuery[:0]
		e.searchCursor = 0
		return false
	case tcell.KeyRune:
		e.searchQuery = append(e.searchQuery[:e.searchCursor], append([]rune{ev.Rune()}, e.searchQuery[e.searchCursor:]...)...)
		e.searchCursor++
		return false
	}
	return false
}

func (e *Editor) performSearch(query string) {
	if query == "" {
		return
	}
	e.lastSearch = query
	found, err := e.doc.Find(query, e.searchForward, e.searchRegex, e.searchCase)
	if err != nil {
		e.setStatus(err.Error())
		return
	}
	if !found {
		e.setStatus("not found: " + query)
	}
}

func (e *Editor) repeatSearch(forward bool) {
	if e.lastSearch == "" {
		e.setStatus("no previous search")
		return
	}
	e.searchForward = forward
	e.performSearch(e.lastSearch)
}

// HandleMouse processes wheel scrolling and clicks. The wheel pans
// across columns; up moves toward the opening page on the right.
func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	m := e.doc.Metrics()
	switch ev.Buttons() {
	case tcell.WheelUp:
		e.scrollBy(3*m.CellW, 0)
	case tcell.WheelDown:
		e.scrollBy(-3*m.CellW, 0)
	case tcell.Button1:
		x, y := ev.Position()
		if y >= e.viewH && e.viewH > 0 {
			return
		}
		keepAnchor := ev.Modifiers()&tcell.ModShift != 0
		e.doc.ClickAt(x+e.scrollX, y+e.scrollY, keepAnchor)
	}
}

func (e *Editor) scrollBy(dx, dy int) {
	maxX, maxY := e.scrollBounds()
	e.scrollX = clampInt(e.scrollX+dx, 0, maxX)
	e.scrollY = clampInt(e.scrollY+dy, 0, maxY)
	e.freeScroll = true
}

func (e *Editor) scrollBounds() (maxX, maxY int) {
	m := e.doc.Metrics()
	res := e.doc.Layout()
	totalW, totalH := m.TotalSize(res.TotalPages, e.doc.Rows(), e.doc.Cols())
	maxX = totalW - e.viewW
	maxY = totalH - e.viewH
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return maxX, maxY
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

// SetStatusMessage sets the transient status line message.
func (e *Editor) SetStatusMessage(msg string) {
	e.setStatus(msg)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
