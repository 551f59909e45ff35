// Package eventloop is the single-goroutine trigger dispatcher: it maps
// input events (hotkeys, tray clicks, menu items) to capture intents
// and drives the capture -> encode -> deliver sequence while keeping at
// most one capture in flight.
package eventloop

import (
	"context"
	"fmt"
	"log"

	"screenai/capture"
	"screenai/tray"
	"screenai/window"
	"screenai/worker"
)

// Source identifies where a trigger came from.
type Source int

const (
	SourceHotkey Source = iota
	SourceTrayMenu
	SourceTrayClick
)

func (s Source) String() string {
	switch s {
	case SourceTrayMenu:
		return "tray-menu"
	case SourceTrayClick:
		return "tray-click"
	default:
		return "hotkey"
	}
}

// Op is what a trigger asks for.
type Op int

const (
	// OpCapture runs a capture with the trigger's intent.
	OpCapture Op = iota
	// OpShowMain only brings the main window to front.
	OpShowMain
)

// Trigger is one input event entering the dispatcher.
type Trigger struct {
	Source Source
	Op     Op
	Intent capture.Intent
}

// Loop serializes trigger handling on one goroutine. Workers post
// results back through a channel, so the busy flag and the window
// coordinator are only ever touched from here or behind the
// coordinator's own lock.
type Loop struct {
	backend *capture.Backend
	coord   *window.Coordinator
	pool    *worker.Pool

	triggers chan Trigger
	results  chan worker.Result
	busy     bool

	copyCapture    func(capture.RawCapture) error
	defaultTooltip string
}

// New creates a dispatcher around a capture backend and the window
// coordinator.
func New(backend *capture.Backend, coord *window.Coordinator) *Loop {
	return &Loop{
		backend:        backend,
		coord:          coord,
		pool:           worker.New(1),
		triggers:       make(chan Trigger, 4),
		results:        make(chan worker.Result, 1),
		defaultTooltip: "ScreenAI",
	}
}

// SetDefaultTooltip sets the tray tooltip base text.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultTooltip = tt }

// SetCopyCapture installs an optional hook run on every successful
// capture before delivery (clipboard copy).
func (l *Loop) SetCopyCapture(fn func(capture.RawCapture) error) { l.copyCapture = fn }

// Post hands a trigger to the loop without blocking the caller; hotkey
// and tray callbacks run on foreign goroutines and must never wait on
// the dispatcher. A full queue drops the trigger with a log line, which
// only happens under a burst the busy flag would coalesce anyway.
func (l *Loop) Post(t Trigger) {
	select {
	case l.triggers <- t:
	default:
		log.Printf("Dispatcher: trigger queue full, dropping %s", t.Source)
	}
}

// Run processes triggers and capture results until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.triggers:
			l.handleTrigger(ctx, t)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleTrigger(ctx context.Context, t Trigger) {
	if t.Op == OpShowMain {
		log.Printf("Dispatcher: %s requested show-main", t.Source)
		l.coord.ShowMain()
		return
	}

	log.Printf("Dispatcher: %s requested %s capture", t.Source, t.Intent)
	if l.busy {
		// One capture in flight at a time; a concurrent trigger is a
		// coalesced duplicate, not an error.
		log.Printf("Dispatcher: capture already in flight, ignoring %s trigger", t.Source)
		return
	}
	l.setBusy(true)

	// Hide-before-capture ordering: the overlay path must not shoot
	// our own still-visible main window.
	l.coord.BeginCapture()

	submitted := l.pool.Submit(ctx, l.backend, t.Intent, func(r worker.Result) {
		l.results <- r
	})
	if !submitted {
		l.setBusy(false)
		l.coord.ReportError("a capture is already running")
	}
}

func (l *Loop) handleResult(res worker.Result) {
	defer l.setBusy(false)

	if res.Err != nil {
		log.Printf("Dispatcher: capture failed: %v", res.Err)
		l.coord.ReportError(res.Err.Error())
		return
	}

	if l.copyCapture != nil {
		if err := l.copyCapture(res.Raw); err != nil {
			log.Printf("Dispatcher: clipboard copy failed: %v", err)
		}
	}

	if err := l.coord.Deliver(res.Payload); err != nil {
		log.Printf("Dispatcher: delivery failed: %v", err)
		l.coord.ReportError(err.Error())
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if b {
		tray.UpdateTooltip(fmt.Sprintf("%s: capturing...", l.defaultTooltip))
	} else {
		tray.UpdateTooltip(l.defaultTooltip)
	}
}
