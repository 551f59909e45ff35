package eventloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenai/capture"
	"screenai/window"
)

type fakeWin struct {
	mu      sync.Mutex
	shows   int
	hides   int
	events  []string
	emitted []any
}

func (w *fakeWin) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shows++
}

func (w *fakeWin) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hides++
}

func (w *fakeWin) Focus() {}

func (w *fakeWin) Emit(event string, data any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
	w.emitted = append(w.emitted, data)
	return nil
}

func (w *fakeWin) eventCount(event string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, e := range w.events {
		if e == event {
			n++
		}
	}
	return n
}

func (w *fakeWin) showCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

// gateStrategy blocks each capture until the test releases it, so the
// test controls exactly when a capture is "in flight".
type gateStrategy struct {
	started chan struct{}
	release chan struct{}
	raw     capture.RawCapture
	err     error
}

func newGateStrategy() *gateStrategy {
	return &gateStrategy{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
		raw:     capture.RawCapture{PNG: []byte{1, 2, 3}, Width: 2, Height: 2},
	}
}

func (s *gateStrategy) Capture(ctx context.Context, intent capture.Intent) (capture.RawCapture, error) {
	s.started <- struct{}{}
	<-s.release
	if s.err != nil {
		return capture.RawCapture{}, s.err
	}
	raw := s.raw
	raw.Intent = intent
	return raw, nil
}

type loopFixture struct {
	loop    *Loop
	main    *fakeWin
	overlay *fakeWin
	gate    *gateStrategy
	cancel  context.CancelFunc
}

func newLoopFixture(t *testing.T) *loopFixture {
	t.Helper()
	gate := newGateStrategy()
	main := &fakeWin{}
	overlay := &fakeWin{}

	ready := make(chan struct{})
	close(ready)
	coord := window.NewCoordinator(main, func() (window.Window, <-chan struct{}, error) {
		return overlay, ready, nil
	})

	loop := New(capture.NewWithStrategy(gate), coord)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()

	t.Cleanup(cancel)
	return &loopFixture{loop: loop, main: main, overlay: overlay, gate: gate, cancel: cancel}
}

func TestConcurrentTriggersCoalesce(t *testing.T) {
	fx := newLoopFixture(t)

	fx.loop.Post(Trigger{Source: SourceHotkey, Op: OpCapture, Intent: capture.IntentFullScreen})

	// Wait until the capture is genuinely in flight, then fire more
	// triggers from other sources.
	select {
	case <-fx.gate.started:
	case <-time.After(2 * time.Second):
		t.Fatal("capture never started")
	}
	fx.loop.Post(Trigger{Source: SourceTrayMenu, Op: OpCapture, Intent: capture.IntentFullScreen})
	fx.loop.Post(Trigger{Source: SourceTrayClick, Op: OpCapture, Intent: capture.IntentRegion})

	// Let the dispatcher consume and discard the duplicates before the
	// in-flight capture is released.
	time.Sleep(50 * time.Millisecond)
	close(fx.gate.release)

	require.Eventually(t, func() bool {
		return fx.overlay.eventCount(window.EventCapture) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The coalesced duplicates must not produce further captures.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fx.overlay.eventCount(window.EventCapture))
	assert.Equal(t, 0, len(fx.gate.started), "no second capture may have started")
}

func TestCaptureFailureRestoresMainWithError(t *testing.T) {
	fx := newLoopFixture(t)
	fx.gate.err = errors.New("capture tool exited with error")

	fx.loop.Post(Trigger{Source: SourceHotkey, Op: OpCapture, Intent: capture.IntentFullScreen})
	select {
	case <-fx.gate.started:
	case <-time.After(2 * time.Second):
		t.Fatal("capture never started")
	}
	close(fx.gate.release)

	require.Eventually(t, func() bool {
		return fx.main.eventCount(window.EventError) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, fx.main.showCount(), 1, "main window must be restored on failure")
	assert.Equal(t, 0, fx.overlay.eventCount(window.EventCapture))
}

func TestShowMainTrigger(t *testing.T) {
	fx := newLoopFixture(t)

	fx.loop.Post(Trigger{Source: SourceTrayMenu, Op: OpShowMain})

	require.Eventually(t, func() bool {
		return fx.main.showCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, len(fx.gate.started), "show-main must not start a capture")
}

func TestBusyClearsAfterDelivery(t *testing.T) {
	fx := newLoopFixture(t)

	fx.loop.Post(Trigger{Source: SourceHotkey, Op: OpCapture, Intent: capture.IntentFullScreen})
	<-fx.gate.started
	close(fx.gate.release)

	require.Eventually(t, func() bool {
		return fx.overlay.eventCount(window.EventCapture) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A new trigger after completion starts a fresh capture.
	fx.loop.Post(Trigger{Source: SourceHotkey, Op: OpCapture, Intent: capture.IntentFullScreen})
	select {
	case <-fx.gate.started:
	case <-time.After(2 * time.Second):
		t.Fatal("second capture never started after busy cleared")
	}

	require.Eventually(t, func() bool {
		return fx.overlay.eventCount(window.EventCapture) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSourceStrings(t *testing.T) {
	tests := []struct {
		source   Source
		expected string
	}{
		{SourceHotkey, "hotkey"},
		{SourceTrayMenu, "tray-menu"},
		{SourceTrayClick, "tray-click"},
	}
	for _, tt := range tests {
		if got := tt.source.String(); got != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, got)
		}
	}
}
