// Package tray owns the system tray icon and its fixed menu. It is
// deliberately thin: every click is forwarded to a callback and the
// dispatcher decides what happens.
package tray

import (
	"log"
	"sync/atomic"

	"github.com/getlantern/systray"
)

// Config wires the tray menu to the dispatcher. A nil callback
// disables its menu item's action.
type Config struct {
	Title   string
	Tooltip string

	// OnCapture fires for the "capture" item. It is also the intended
	// route for a left-click on the tray icon, but systray exposes no
	// icon-activation event on any platform, so only the menu item can
	// fire it here.
	OnCapture       func()
	OnCaptureRegion func()
	OnShow          func()
	// OnQuit fires before the process terminates; quit is immediate,
	// no cleanup beyond OS process exit is expected.
	OnQuit func()
}

var ready atomic.Bool

// Icon is the running tray instance.
type Icon struct {
	cfg Config
}

// New builds a tray icon; call Run from a dedicated goroutine.
func New(cfg Config) *Icon {
	return &Icon{cfg: cfg}
}

// Run enters the systray loop. It blocks until Quit.
func (t *Icon) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Destroy tears the tray icon down.
func (t *Icon) Destroy() {
	systray.Quit()
}

// UpdateTooltip changes the tray tooltip; safe to call before the tray
// is up, in which case it is a no-op.
func UpdateTooltip(tt string) {
	if ready.Load() {
		systray.SetTooltip(tt)
	}
}

func (t *Icon) onReady() {
	systray.SetIcon(iconData())
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)
	ready.Store(true)

	mCapture := systray.AddMenuItem("Capture screen", "Capture the full screen")
	mRegion := systray.AddMenuItem("Capture region", "Select a region to capture")
	systray.AddSeparator()
	mShow := systray.AddMenuItem("Open ScreenAI", "Show the main window")
	mQuit := systray.AddMenuItem("Quit", "Quit ScreenAI")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if t.cfg.OnCapture != nil {
					t.cfg.OnCapture()
				}
			case <-mRegion.ClickedCh:
				if t.cfg.OnCaptureRegion != nil {
					t.cfg.OnCaptureRegion()
				}
			case <-mShow.ClickedCh:
				if t.cfg.OnShow != nil {
					t.cfg.OnShow()
				}
			case <-mQuit.ClickedCh:
				log.Printf("Tray: quit requested")
				if t.cfg.OnQuit != nil {
					t.cfg.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Icon) onExit() {
	ready.Store(false)
}
