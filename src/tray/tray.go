// Package tray shows the resident's system tray icon.
package tray

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"
)

// Config wires tray menu actions to the resident.
type Config struct {
	Title   string
	Tooltip string
	OnClear func()
	OnExit  func()
}

// Tray owns the systray menu. Run must be called from the main goroutine on
// macOS.
type Tray struct {
	cfg    Config
	status *systray.MenuItem
	ready  chan struct{}
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg, ready: make(chan struct{})}
}

// Run blocks until Quit is called or the user picks "Quit".
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(Icon())
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)

	mClear := systray.AddMenuItem("Clear clipboard", "Empty the clipboard now")
	t.status = systray.AddMenuItem(StatusLabel(0, 0, 0), "Auto-clear outcomes")
	t.status.Disable()
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Stop the resident")
	close(t.ready)

	go func() {
		for {
			select {
			case <-mClear.ClickedCh:
				log.Printf("tray: clear requested")
				if t.cfg.OnClear != nil {
					t.cfg.OnClear()
				}
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

// SetStatus updates the auto-clear status item. Calls made before the menu
// exists are dropped.
func (t *Tray) SetStatus(scheduled, cleared, skipped int64) {
	select {
	case <-t.ready:
		t.status.SetTitle(StatusLabel(scheduled, cleared, skipped))
	default:
	}
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() { systray.Quit() }

// StatusLabel renders auto-clear counters for the menu.
func StatusLabel(scheduled, cleared, skipped int64) string {
	pending := scheduled - cleared - skipped
	if pending < 0 {
		pending = 0
	}
	return fmt.Sprintf("Auto-clears: %d cleared / %d skipped / %d pending", cleared, skipped, pending)
}
