package gui

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"screenai/payload"
	"screenai/update"
	"screenai/window"
)

// App owns the fyne application and builds the windows the coordinator
// drives. All widget mutations go through fyne.Do so callers may invoke
// window methods from any goroutine.
type App struct {
	fyneApp fyne.App
}

func NewApp() *App {
	return &App{fyneApp: app.NewWithID("io.screenai.desktop")}
}

// Run hands the calling goroutine to the fyne driver. It returns when
// the application quits.
func (a *App) Run() {
	a.fyneApp.Run()
}

func (a *App) Quit() {
	fyne.Do(a.fyneApp.Quit)
}

// MainWindow is the settings/status window shown at startup.
type MainWindow struct {
	win    fyne.Window
	status *widget.Label
}

func (a *App) NewMainWindow(title string) *MainWindow {
	w := a.fyneApp.NewWindow(title)

	m := &MainWindow{
		win:    w,
		status: widget.NewLabel("Ready"),
	}

	heading := widget.NewLabel("ScreenAI")
	heading.TextStyle = fyne.TextStyle{Bold: true}
	hint := widget.NewLabel("Use the tray menu or the configured hotkeys to capture.")
	hint.Wrapping = fyne.TextWrapWord

	w.SetContent(container.NewVBox(heading, hint, m.status))
	w.Resize(fyne.NewSize(420, 180))

	// Closing the main window hides it; the app lives in the tray.
	w.SetCloseIntercept(func() {
		w.Hide()
	})

	return m
}

// ShowAndRun shows the window and runs the fyne main loop. Must be
// called from the main goroutine.
func (m *MainWindow) ShowAndRun() {
	m.win.ShowAndRun()
}

func (m *MainWindow) Show() {
	fyne.Do(m.win.Show)
}

func (m *MainWindow) Hide() {
	fyne.Do(m.win.Hide)
}

func (m *MainWindow) Focus() {
	fyne.Do(m.win.RequestFocus)
}

func (m *MainWindow) Emit(event string, data any) error {
	switch event {
	case window.EventError:
		msg, _ := data.(string)
		if msg == "" {
			msg = "capture failed"
		}
		fyne.Do(func() {
			m.status.SetText("Error: " + msg)
		})
		return nil
	case window.EventUpdate:
		info, ok := data.(update.Info)
		if !ok {
			return fmt.Errorf("gui: unexpected payload for %s", event)
		}
		fyne.Do(func() {
			m.status.SetText("Update available: " + info.Version)
		})
		return nil
	default:
		return fmt.Errorf("gui: main window does not handle event %s", event)
	}
}

// OverlayWindow presents captured frames fullscreen.
type OverlayWindow struct {
	win   fyne.Window
	img   *canvas.Image
	label *widget.Label
}

// NewOverlay builds the overlay window and reports readiness on the
// returned channel once the fyne driver has realized it. onClosed fires
// when the user dismisses the overlay so the owner can drop its handle.
func (a *App) NewOverlay(onClosed func()) (window.Window, <-chan struct{}, error) {
	if a.fyneApp == nil {
		return nil, nil, fmt.Errorf("gui: application not initialized")
	}

	o := &OverlayWindow{}
	ready := make(chan struct{})

	// Window construction must happen on the UI thread; the caller is
	// on the coordinator's goroutine.
	fyne.DoAndWait(func() {
		w := a.fyneApp.NewWindow("ScreenAI Capture")
		o.win = w
		o.img = canvas.NewImageFromImage(nil)
		o.img.FillMode = canvas.ImageFillContain
		o.label = widget.NewLabel("")

		w.SetContent(container.NewStack(o.img, container.NewVBox(o.label)))
		w.SetPadded(false)
		w.SetFullScreen(true)
		w.SetCloseIntercept(func() {
			// The owner forgets this instance and the next capture
			// builds a fresh one, so destroy the window rather than
			// hiding it and letting closed windows pile up.
			if onClosed != nil {
				onClosed()
			}
			w.Close()
		})
	})

	// The canvas exists once construction ran; signal readiness from
	// the UI thread so emission ordering matches the frontend.
	fyne.Do(func() {
		close(ready)
	})

	return o, ready, nil
}

func (o *OverlayWindow) Show() {
	fyne.Do(o.win.Show)
}

func (o *OverlayWindow) Hide() {
	fyne.Do(o.win.Hide)
}

func (o *OverlayWindow) Focus() {
	fyne.Do(o.win.RequestFocus)
}

func (o *OverlayWindow) Emit(event string, data any) error {
	switch event {
	case window.EventCapture:
		p, ok := data.(payload.Payload)
		if !ok {
			return fmt.Errorf("gui: unexpected payload for %s", event)
		}
		raw, err := payload.Decode(p)
		if err != nil {
			return fmt.Errorf("gui: decode capture: %w", err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("gui: decode png: %w", err)
		}
		o.setImage(img, p.Mode)
		return nil
	case window.EventError:
		msg, _ := data.(string)
		fyne.Do(func() {
			o.label.SetText(msg)
		})
		return nil
	default:
		return fmt.Errorf("gui: overlay does not handle event %s", event)
	}
}

func (o *OverlayWindow) setImage(img image.Image, mode string) {
	fyne.Do(func() {
		o.img.Image = img
		o.img.Refresh()
		o.label.SetText("")
	})
	log.Printf("overlay updated: %s frame %dx%d", mode, img.Bounds().Dx(), img.Bounds().Dy())
}
