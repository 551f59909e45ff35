// Command screenai-cli performs a single capture without the resident
// app: grab the screen (or an interactive region where the platform
// supports one), then write the PNG to a file or the encoded payload to
// stdout. Useful for scripting and for debugging capture backends.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"screenai/capture"
	"screenai/config"
	"screenai/logutil"
	"screenai/payload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	outPath := flag.String("out", "", "Write the PNG to this path ('-' for stdout)")
	region := flag.Bool("region", false, "Interactive region selection instead of full screen")
	jsonOutput := flag.Bool("json", false, "Print the encoded payload as JSON instead of raw PNG")
	verbose := flag.Bool("v", false, "Verbose output to stderr")
	flag.Parse()

	if *outPath == "" && !*jsonOutput {
		return fmt.Errorf("nothing to do: pass -out <path|-> or -json\nUsage: screenai-cli -out <path|-> [-region] [-json] [-v]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	intent := capture.IntentFullScreen
	if *region {
		intent = capture.IntentRegion
	}

	backend := capture.NewWithTool(cfg.CaptureTool)
	if *verbose {
		fmt.Fprintf(os.Stderr, "[verbose] capturing %s\n", intent)
	}

	raw, err := backend.Capture(context.Background(), intent)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "[verbose] captured %dx%d (%s, %d bytes)\n",
			raw.Width, raw.Height, raw.Intent, len(raw.PNG))
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload.Encode(raw)); err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
	}

	return writePNG(*outPath, raw.PNG)
}

func writePNG(path string, data []byte) error {
	switch path {
	case "":
		return nil
	case "-":
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write PNG to stdout: %w", err)
		}
		return nil
	default:
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}
}
