package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"runtime"
)

// tool describes a native screenshot utility and its intent-specific
// argument forms. regionArgs is nil when the utility has no interactive
// selection mode.
type tool struct {
	name       string
	fullArgs   func(out string) []string
	regionArgs func(out string) []string
}

// platformTools lists trusted native utilities in preference order.
func platformTools() []tool {
	switch runtime.GOOS {
	case "darwin":
		return []tool{{
			name: "screencapture",
			// -x suppresses the shutter sound, PNG keeps the output lossless.
			fullArgs:   func(out string) []string { return []string{"-x", "-t", "png", out} },
			regionArgs: func(out string) []string { return []string{"-i", "-x", "-t", "png", out} },
		}}
	case "linux":
		return []tool{
			{
				name:       "gnome-screenshot",
				fullArgs:   func(out string) []string { return []string{"-f", out} },
				regionArgs: func(out string) []string { return []string{"-a", "-f", out} },
			},
			{
				name:       "scrot",
				fullArgs:   func(out string) []string { return []string{"-z", "-o", out} },
				regionArgs: func(out string) []string { return []string{"-s", "-o", out} },
			},
		}
	default:
		return nil
	}
}

// lookupNativeTool returns the first installed native utility, or nil
// when the platform has none (then the in-process strategy is used).
func lookupNativeTool() *tool {
	for _, t := range platformTools() {
		if _, err := exec.LookPath(t.name); err == nil {
			found := t
			return &found
		}
	}
	return nil
}

// nativeStrategy invokes the OS screenshot utility as an external
// process through a process-unique temporary file. run is replaceable
// in tests; when nil the command is executed for real.
type nativeStrategy struct {
	tool tool
	run  func(cmd *exec.Cmd) error
}

func (s *nativeStrategy) Capture(ctx context.Context, intent Intent) (RawCapture, error) {
	f, err := os.CreateTemp("", "screenai-*.png")
	if err != nil {
		return RawCapture{}, fmt.Errorf("%w: temp file: %v", ErrSpawn, err)
	}
	path := f.Name()
	f.Close()
	// The temp file never outlives the call, on any exit path.
	defer os.Remove(path)

	args := s.tool.fullArgs(path)
	effective := IntentFullScreen
	if intent == IntentRegion {
		if s.tool.regionArgs != nil {
			args = s.tool.regionArgs(path)
			effective = IntentRegion
		}
	}

	cmd := exec.CommandContext(ctx, s.tool.name, args...)
	runner := s.run
	if runner == nil {
		runner = func(c *exec.Cmd) error { return c.Run() }
	}
	// Blocks for the whole interactive selection when intent is region.
	if err := runner(cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Also how a cancelled interactive selection usually surfaces.
			return RawCapture{}, fmt.Errorf("%w: %s: %v", ErrToolExit, s.tool.name, err)
		}
		return RawCapture{}, fmt.Errorf("%w: %s: %v", ErrSpawn, s.tool.name, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RawCapture{}, fmt.Errorf("%w: %s wrote nothing", ErrNoOutput, s.tool.name)
	}
	if len(data) == 0 {
		// gnome-screenshot leaves an empty file behind on Escape.
		return RawCapture{}, fmt.Errorf("%w: %s output is empty", ErrNoOutput, s.tool.name)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return RawCapture{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return RawCapture{PNG: data, Width: cfg.Width, Height: cfg.Height, Intent: effective}, nil
}
