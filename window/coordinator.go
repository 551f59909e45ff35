package window

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"screenai/payload"
)

// ErrOverlayCreate reports that the platform refused to create the
// overlay window. The main window has already been restored when a
// Deliver call returns this.
var ErrOverlayCreate = errors.New("overlay window creation refused")

// defaultSettle is how long the coordinator waits after hiding the main
// window before the capture is allowed to proceed, so the platform
// compositor observes the hide and the shot does not include our own
// window.
const defaultSettle = 150 * time.Millisecond

// Coordinator serializes every main/overlay transition behind one
// mutex: the trigger goroutine and the overlay ready watcher both go
// through it, so no two goroutines ever create or transition the
// overlay at the same time.
type Coordinator struct {
	mu sync.Mutex

	main      Window
	mainState MainState

	overlay      Window
	overlayState OverlayState
	pending      *payload.Payload

	newOverlay OverlayFactory
	settle     time.Duration
}

// NewCoordinator builds a coordinator around the persistent main window
// and a factory for the ephemeral overlay.
func NewCoordinator(main Window, factory OverlayFactory) *Coordinator {
	return &Coordinator{
		main: main,
		// The main window is shown at startup, before any trigger.
		mainState:  MainVisible,
		newOverlay: factory,
		settle:     defaultSettle,
	}
}

// ShowMain transitions the main window to visible and focused. Tray
// "show" and hotkey-driven restore both converge here; the transition
// is idempotent.
func (c *Coordinator) ShowMain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreMainLocked()
}

// BeginCapture prepares the windows for a capture whose result will go
// to the overlay. When the overlay does not exist yet the main window
// is hidden first and the call pauses briefly, so the hide is observed
// by the platform before the capture that follows. Must be called
// before the capture, not after.
func (c *Coordinator) BeginCapture() {
	c.mu.Lock()
	hide := c.overlayState == OverlayAbsent && c.mainState != MainHidden
	if hide {
		c.main.Hide()
		c.mainState = MainHidden
	}
	settle := c.settle
	c.mu.Unlock()

	if hide && settle > 0 {
		time.Sleep(settle)
	}
}

// Deliver routes one capture payload to the overlay, creating the
// window when absent and deferring the emission until its frontend has
// signalled ready. A payload is emitted exactly once: never before the
// ready signal, never twice.
func (c *Coordinator) Deliver(p payload.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.overlayState {
	case OverlayReady, OverlayShowing:
		// Reuse the existing window; no recreation, no second listener.
		if err := c.overlay.Emit(EventCapture, p); err != nil {
			// The window is defunct; forget it so the next capture
			// recreates it instead of retrying a dead surface.
			c.dropOverlayLocked()
			c.restoreMainLocked()
			return fmt.Errorf("overlay delivery: %w", err)
		}
		c.overlay.Show()
		c.overlay.Focus()
		c.overlayState = OverlayShowing
		return nil

	case OverlayCreating:
		// A window is already on its way; park the payload for the
		// ready watcher. The dispatcher allows one capture in flight,
		// so this slot never holds more than one payload.
		c.pending = &p
		return nil
	}

	w, ready, err := c.newOverlay()
	if err != nil {
		// Never leave the user with no visible surface.
		c.restoreMainLocked()
		return fmt.Errorf("%w: %v", ErrOverlayCreate, err)
	}
	c.overlay = w
	c.overlayState = OverlayCreating
	c.pending = &p
	go c.watchReady(w, ready)
	return nil
}

// watchReady consumes the one-shot ready signal for an overlay instance
// and flushes the parked payload exactly once.
func (c *Coordinator) watchReady(w Window, ready <-chan struct{}) {
	<-ready

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.overlay != w {
		// The overlay was reset while this instance was initializing.
		return
	}
	c.overlayState = OverlayReady
	if c.pending == nil {
		return
	}
	p := *c.pending
	c.pending = nil
	if err := w.Emit(EventCapture, p); err != nil {
		log.Printf("Coordinator: overlay emit after ready failed: %v", err)
		c.dropOverlayLocked()
		c.restoreMainLocked()
		_ = c.main.Emit(EventError, err.Error())
		return
	}
	w.Show()
	w.Focus()
	c.overlayState = OverlayShowing
}

// ReportError restores the main window and surfaces a capture or
// window failure on it. Every failed trigger ends here, so the user is
// never left staring at nothing.
func (c *Coordinator) ReportError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreMainLocked()
	if err := c.main.Emit(EventError, msg); err != nil {
		log.Printf("Coordinator: error event delivery failed: %v", err)
	}
}

// NotifyMain forwards a non-capture event (update notifications) to the
// main window without changing its visibility.
func (c *Coordinator) NotifyMain(event string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.main.Emit(event, data); err != nil {
		log.Printf("Coordinator: %s delivery failed: %v", event, err)
	}
}

// ResetOverlay forgets the current overlay instance, e.g. after the
// user closed it. The next capture recreates the window and a fresh
// ready handshake. If the main window was hidden for this overlay it
// is restored, so dismissing the overlay never leaves the user with no
// visible surface.
func (c *Coordinator) ResetOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropOverlayLocked()
	if c.mainState == MainHidden {
		c.restoreMainLocked()
	}
}

func (c *Coordinator) dropOverlayLocked() {
	c.overlay = nil
	c.overlayState = OverlayAbsent
	c.pending = nil
}

// OverlayState reports the current overlay lifecycle state.
func (c *Coordinator) OverlayState() OverlayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlayState
}

// MainState reports the current main window state.
func (c *Coordinator) MainState() MainState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mainState
}

func (c *Coordinator) restoreMainLocked() {
	c.main.Show()
	c.main.Focus()
	c.mainState = MainFocused
}
