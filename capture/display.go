package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/kbinani/screenshot"
)

// displayStrategy captures the primary display in-process. It has no
// interactive selection, so a region request degrades to a full frame
// tagged IntentFullScreen and the invoking layer crops afterwards.
type displayStrategy struct{}

func (displayStrategy) Capture(ctx context.Context, intent Intent) (RawCapture, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return RawCapture{}, ErrNoDisplay
	}

	bounds := screenshot.GetDisplayBounds(0)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return RawCapture{}, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return RawCapture{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return RawCapture{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Intent: IntentFullScreen,
	}, nil
}
