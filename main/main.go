package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"screenai/capture"
	"screenai/clipboard"
	"screenai/config"
	"screenai/eventloop"
	"screenai/gui"
	"screenai/hotkey"
	"screenai/logutil"
	"screenai/tray"
	"screenai/update"
	"screenai/window"
)

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics.
	enableDPIAwareness()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	log.Printf("ScreenAI %s starting", update.Version())
	log.Printf("Capture hotkey: %s, region hotkey: %s", cfg.CaptureHotkey, cfg.RegionHotkey)

	ui := gui.NewApp()
	mainWin := ui.NewMainWindow("ScreenAI")

	var coord *window.Coordinator
	coord = window.NewCoordinator(mainWin, func() (window.Window, <-chan struct{}, error) {
		return ui.NewOverlay(func() { coord.ResetOverlay() })
	})

	backend := capture.NewWithTool(cfg.CaptureTool)
	loop := eventloop.New(backend, coord)
	loop.SetDefaultTooltip(fmt.Sprintf("ScreenAI - %s to capture", cfg.CaptureHotkey))

	if cfg.CopyToClipboard {
		if err := clipboard.Init(); err != nil {
			log.Printf("Clipboard unavailable, copies disabled: %v", err)
		} else {
			loop.SetCopyCapture(func(raw capture.RawCapture) error {
				return clipboard.WriteImage(raw.PNG)
			})
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Global hotkeys. A registration or hook failure means captures can
	// never be triggered from the keyboard, so it is fatal at startup.
	keys := hotkey.NewListener()
	if err := keys.Register(cfg.CaptureHotkey, func() {
		loop.Post(eventloop.Trigger{Source: eventloop.SourceHotkey, Op: eventloop.OpCapture, Intent: capture.IntentFullScreen})
	}); err != nil {
		log.Fatalf("Failed to register capture hotkey: %v", err)
	}
	if err := keys.Register(cfg.RegionHotkey, func() {
		loop.Post(eventloop.Trigger{Source: eventloop.SourceHotkey, Op: eventloop.OpCapture, Intent: capture.IntentRegion})
	}); err != nil {
		log.Fatalf("Failed to register region hotkey: %v", err)
	}
	if err := keys.Start(); err != nil {
		log.Fatalf("Failed to start hotkey listener: %v", err)
	}

	trayIcon := tray.New(tray.Config{
		Title:   "ScreenAI",
		Tooltip: fmt.Sprintf("ScreenAI - %s to capture", cfg.CaptureHotkey),
		OnCapture: func() {
			loop.Post(eventloop.Trigger{Source: eventloop.SourceTrayMenu, Op: eventloop.OpCapture, Intent: capture.IntentFullScreen})
		},
		OnCaptureRegion: func() {
			loop.Post(eventloop.Trigger{Source: eventloop.SourceTrayMenu, Op: eventloop.OpCapture, Intent: capture.IntentRegion})
		},
		OnShow: func() {
			loop.Post(eventloop.Trigger{Source: eventloop.SourceTrayMenu, Op: eventloop.OpShowMain})
		},
		OnQuit: func() {
			// Tray quit exits immediately; windows are torn down by the OS.
			os.Exit(0)
		},
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	if cfg.UpdateOwner != "" && cfg.UpdateRepo != "" {
		checker := update.NewChecker(cfg.UpdateOwner, cfg.UpdateRepo)
		go checker.RunPeriodic(ctx, cfg.UpdateInterval, func(info update.Info) {
			log.Printf("Update available: %s", info.Version)
			coord.NotifyMain(window.EventUpdate, info)
		})
	}

	// SIGINT/SIGTERM stop the dispatcher and quit the UI.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
		ui.Quit()
	}()

	// Hands the main goroutine to the UI driver until quit.
	mainWin.ShowAndRun()
}
