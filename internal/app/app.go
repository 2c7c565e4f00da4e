package app

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/yomogi/tatedit/internal/config"
	"github.com/yomogi/tatedit/internal/editor"
	"github.com/yomogi/tatedit/internal/logger"
	"github.com/yomogi/tatedit/internal/session"
)

// App is the top-level runtime for tatedit.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(os.Getenv("TATEDIT_DEBUG") != ""); err != nil {
		return err
	}
	defer logger.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	sm, err := session.NewManager(time.Duration(cfg.Editor.AutosaveIntervalSec) * time.Second)
	if err != nil {
		return err
	}
	defer sm.Stop()

	ed := editor.New(cfg)
	ed.SetSessionManager(sm)

	var openPath string
	if len(a.args) > 0 {
		openPath = a.args[0]
		if abs, err := filepath.Abs(openPath); err == nil {
			openPath = abs
		}
		if err := ed.OpenFile(openPath); err != nil {
			return err
		}
		if st, ok := sm.GetFileState(openPath); ok {
			ed.RestoreSessionState(st)
		}
		sm.SetActiveFile(openPath)
	}

	persist := func() {
		if openPath != "" {
			sm.SetFileState(openPath, ed.SessionState())
		}
	}
	defer persist()

	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
			persist()
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		}
		ed.Render(s)
	}
}
