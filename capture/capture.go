package capture

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Intent is the kind of capture a trigger requested.
type Intent int

const (
	// IntentFullScreen captures the whole primary display.
	IntentFullScreen Intent = iota
	// IntentRegion asks for an interactive on-screen region selection.
	IntentRegion
)

func (i Intent) String() string {
	switch i {
	case IntentRegion:
		return "InteractiveRegion"
	default:
		return "FullScreen"
	}
}

// RawCapture is a decoded capture: PNG bytes plus authoritative pixel
// dimensions. Intent records what the strategy actually produced, which
// may be IntentFullScreen even for a region request when the platform
// has no interactive selection (the caller crops afterwards).
type RawCapture struct {
	PNG    []byte
	Width  int
	Height int
	Intent Intent
}

// Capture failure causes. All capture errors wrap one of these so the
// dispatcher can log a class while showing the human-readable cause.
var (
	ErrNoDisplay    = errors.New("no display enumerable")
	ErrSpawn        = errors.New("capture tool failed to start")
	ErrToolExit     = errors.New("capture tool exited with error")
	ErrNoOutput     = errors.New("capture tool produced no output")
	ErrEmptyCapture = errors.New("capture produced an empty image")
	ErrEncode       = errors.New("capture image encoding failed")
)

// Strategy produces a raw image for an intent. Implementations either
// spawn the native OS screenshot utility or capture in-process; the
// choice is made once at construction, not per call.
type Strategy interface {
	Capture(ctx context.Context, intent Intent) (RawCapture, error)
}

// Backend wraps the platform strategy with output validation so that a
// zero-sized or empty capture never reaches the payload codec.
type Backend struct {
	strategy Strategy
}

// New selects the capture strategy for this platform: the native
// screenshot utility when one is installed, otherwise the in-process
// display grabber.
func New() *Backend {
	if t := lookupNativeTool(); t != nil {
		return &Backend{strategy: &nativeStrategy{tool: *t}}
	}
	return &Backend{strategy: displayStrategy{}}
}

// NewWithTool forces a specific native utility by name. An unknown or
// uninstalled tool falls back to automatic selection.
func NewWithTool(name string) *Backend {
	if name != "" {
		for _, t := range platformTools() {
			if t.name != name {
				continue
			}
			if _, err := exec.LookPath(t.name); err == nil {
				found := t
				return &Backend{strategy: &nativeStrategy{tool: found}}
			}
		}
	}
	return New()
}

// NewWithStrategy builds a backend around an explicit strategy.
func NewWithStrategy(s Strategy) *Backend {
	return &Backend{strategy: s}
}

// Capture runs the strategy and validates its output. Failures are not
// retried: capture is user-triggered and a retry is a new trigger.
func (b *Backend) Capture(ctx context.Context, intent Intent) (RawCapture, error) {
	raw, err := b.strategy.Capture(ctx, intent)
	if err != nil {
		return RawCapture{}, err
	}
	if len(raw.PNG) == 0 {
		return RawCapture{}, ErrEmptyCapture
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return RawCapture{}, fmt.Errorf("%w: %dx%d", ErrEmptyCapture, raw.Width, raw.Height)
	}
	return raw, nil
}
