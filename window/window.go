// Package window owns the existence and visibility state of the main
// window and the ephemeral capture overlay, including the handshake
// that guarantees the overlay frontend is ready before data is pushed
// to it.
package window

// Named events on the frontend channel. A frontend additionally emits
// one ready signal per overlay creation, modeled as the channel
// returned by OverlayFactory rather than a named event.
const (
	// EventCapture carries a payload.Payload to a window.
	EventCapture = "capture://new"
	// EventError carries a human-readable string when capture fails.
	EventError = "capture://error"
	// EventUpdate carries an update.Info notification to the main window.
	EventUpdate = "update://available"
)

// Window is one logical application window. Implementations must be
// safe to call from outside the UI goroutine.
type Window interface {
	Show()
	Hide()
	Focus()
	Emit(event string, data any) error
}

// OverlayFactory creates the ephemeral overlay window and returns the
// one-shot ready channel its frontend closes once it can accept a
// payload. Emitting a payload before that channel closes is a lost
// write, which is why the coordinator defers delivery.
type OverlayFactory func() (Window, <-chan struct{}, error)

// OverlayState tracks the overlay through its lifecycle.
type OverlayState int

const (
	OverlayAbsent OverlayState = iota
	OverlayCreating
	OverlayReady
	OverlayShowing
)

func (s OverlayState) String() string {
	switch s {
	case OverlayCreating:
		return "creating"
	case OverlayReady:
		return "ready"
	case OverlayShowing:
		return "showing"
	default:
		return "absent"
	}
}

// MainState tracks the persistent main window. It is never destroyed,
// only hidden and shown.
type MainState int

const (
	MainHidden MainState = iota
	MainVisible
	MainFocused
)

func (s MainState) String() string {
	switch s {
	case MainVisible:
		return "visible"
	case MainFocused:
		return "focused"
	default:
		return "hidden"
	}
}
