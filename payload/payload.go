// Package payload converts raw captures into a self-contained artifact
// that can cross the backend/frontend boundary without a shared
// filesystem reference.
package payload

import (
	"encoding/base64"
	"fmt"
	"strings"

	"screenai/capture"
)

const pngMIME = "image/png"

// Payload is the transportable form of one capture: a MIME-tagged,
// base64-encoded data URL plus advisory metadata. Width and Height are
// zero when unknown; consumers must not re-validate pixel data against
// them.
type Payload struct {
	DataURL string `json:"data_url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Mode    string `json:"mode"`
}

// Encode builds the payload for a validated capture. It is pure and
// total: empty buffers are rejected upstream by the capture backend, so
// there is no failure path here.
func Encode(raw capture.RawCapture) Payload {
	return Payload{
		DataURL: fmt.Sprintf("data:%s;base64,%s", pngMIME, base64.StdEncoding.EncodeToString(raw.PNG)),
		Width:   raw.Width,
		Height:  raw.Height,
		Mode:    raw.Intent.String(),
	}
}

// Decode recovers the raster bytes from a payload's data URL.
func Decode(p Payload) ([]byte, error) {
	rest, ok := strings.CutPrefix(p.DataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("payload is not a data URL")
	}
	mime, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, fmt.Errorf("payload data URL is not base64-encoded")
	}
	if mime != pngMIME {
		return nil, fmt.Errorf("unexpected payload MIME type %q", mime)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}
