package capture

import (
	"context"
	"errors"
	"testing"
)

type stubStrategy struct {
	raw RawCapture
	err error
}

func (s stubStrategy) Capture(ctx context.Context, intent Intent) (RawCapture, error) {
	return s.raw, s.err
}

func TestBackendRejectsEmptyBuffer(t *testing.T) {
	b := NewWithStrategy(stubStrategy{raw: RawCapture{Width: 10, Height: 10}})
	_, err := b.Capture(context.Background(), IntentFullScreen)
	if !errors.Is(err, ErrEmptyCapture) {
		t.Errorf("Expected ErrEmptyCapture, got %v", err)
	}
}

func TestBackendRejectsZeroDimensions(t *testing.T) {
	tests := []struct {
		name string
		raw  RawCapture
	}{
		{"zero width", RawCapture{PNG: []byte{1}, Width: 0, Height: 10}},
		{"zero height", RawCapture{PNG: []byte{1}, Width: 10, Height: 0}},
		{"negative", RawCapture{PNG: []byte{1}, Width: -1, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewWithStrategy(stubStrategy{raw: tt.raw})
			_, err := b.Capture(context.Background(), IntentFullScreen)
			if !errors.Is(err, ErrEmptyCapture) {
				t.Errorf("Expected ErrEmptyCapture, got %v", err)
			}
		})
	}
}

func TestBackendPassesThroughStrategyError(t *testing.T) {
	wantErr := errors.New("boom")
	b := NewWithStrategy(stubStrategy{err: wantErr})
	_, err := b.Capture(context.Background(), IntentFullScreen)
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected strategy error, got %v", err)
	}
}

func TestBackendAcceptsValidCapture(t *testing.T) {
	want := RawCapture{PNG: []byte{1, 2, 3}, Width: 800, Height: 600, Intent: IntentRegion}
	b := NewWithStrategy(stubStrategy{raw: want})
	got, err := b.Capture(context.Background(), IntentRegion)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if got.Width != want.Width || got.Height != want.Height || got.Intent != want.Intent {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestNewWithToolFallsBack(t *testing.T) {
	// Unknown names never leave the backend without a strategy.
	b := NewWithTool("definitely-not-a-screenshot-tool")
	if b == nil || b.strategy == nil {
		t.Fatal("Expected fallback to automatic strategy selection")
	}
}

func TestIntentString(t *testing.T) {
	if s := IntentFullScreen.String(); s != "FullScreen" {
		t.Errorf("Expected 'FullScreen', got '%s'", s)
	}
	if s := IntentRegion.String(); s != "InteractiveRegion" {
		t.Errorf("Expected 'InteractiveRegion', got '%s'", s)
	}
}
