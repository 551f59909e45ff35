package payload

import (
	"bytes"
	"strings"
	"testing"

	"screenai/capture"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := capture.RawCapture{
		PNG:    []byte{0x89, 'P', 'N', 'G', 0x01, 0x02, 0x03},
		Width:  1920,
		Height: 1080,
		Intent: capture.IntentFullScreen,
	}

	p := Encode(raw)

	if !strings.HasPrefix(p.DataURL, "data:image/png;base64,") {
		t.Errorf("Expected data URL prefix, got '%s'", p.DataURL[:min(len(p.DataURL), 30)])
	}
	if p.Width != 1920 || p.Height != 1080 {
		t.Errorf("Expected dimensions 1920x1080, got %dx%d", p.Width, p.Height)
	}

	got, err := Decode(p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, raw.PNG) {
		t.Errorf("Round trip mismatch: expected %v, got %v", raw.PNG, got)
	}
}

func TestEncodeModeStrings(t *testing.T) {
	tests := []struct {
		intent   capture.Intent
		expected string
	}{
		{capture.IntentFullScreen, "FullScreen"},
		{capture.IntentRegion, "InteractiveRegion"},
	}

	for _, tt := range tests {
		p := Encode(capture.RawCapture{PNG: []byte{1}, Width: 1, Height: 1, Intent: tt.intent})
		if p.Mode != tt.expected {
			t.Errorf("Expected mode '%s', got '%s'", tt.expected, p.Mode)
		}
	}
}

func TestDecodeRejectsMalformedDataURL(t *testing.T) {
	tests := []struct {
		name    string
		dataURL string
	}{
		{"missing scheme", "image/png;base64,AAAA"},
		{"missing base64 marker", "data:image/png,AAAA"},
		{"wrong mime type", "data:image/jpeg;base64,AAAA"},
		{"invalid base64", "data:image/png;base64,not*base64!"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(Payload{DataURL: tt.dataURL}); err == nil {
				t.Errorf("Expected decode error for %q", tt.dataURL)
			}
		})
	}
}
