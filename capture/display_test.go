package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/kbinani/screenshot"
)

func TestDisplayStrategy(t *testing.T) {
	s := displayStrategy{}

	if screenshot.NumActiveDisplays() == 0 {
		_, err := s.Capture(context.Background(), IntentFullScreen)
		if !errors.Is(err, ErrNoDisplay) {
			t.Errorf("Expected ErrNoDisplay on headless host, got %v", err)
		}
		return
	}

	// Region requests degrade to a full frame; there is no interactive
	// selection in-process.
	raw, err := s.Capture(context.Background(), IntentRegion)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if raw.Intent != IntentFullScreen {
		t.Errorf("Expected FullScreen intent, got %s", raw.Intent)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		t.Errorf("Expected positive dimensions, got %dx%d", raw.Width, raw.Height)
	}
	if len(raw.PNG) == 0 {
		t.Errorf("Expected non-empty PNG buffer")
	}
}
