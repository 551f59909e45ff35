package worker

import (
	"context"
	"log"
	"sync"

	"screenai/capture"
	"screenai/payload"
)

// Result is one finished capture job: encoded payload plus the raw
// capture (for clipboard copy), or the error that stopped it.
type Result struct {
	Payload payload.Payload
	Raw     capture.RawCapture
	Err     error
}

// ResultCallback is invoked on completion from a worker goroutine. The
// event loop passes a closure that posts back into the loop safely.
type ResultCallback func(Result)

// Pool runs capture jobs off the foreground loop, so an interactive
// OS selection dialog never blocks UI event handling. The input queue
// is a single slot: strict back-pressure, excess submissions are
// reported to the caller instead of queueing up.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx     context.Context
	backend *capture.Backend
	intent  capture.Intent
	cb      ResultCallback
}

// New creates a pool of n workers; n<=0 means one worker, which is all
// the single-in-flight dispatch policy ever needs.
func New(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(n)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				raw, err := j.backend.Capture(j.ctx, j.intent)
				if err != nil {
					log.Printf("Worker: capture failed: %v", err)
					j.cb(Result{Err: err})
					continue
				}
				log.Printf("Worker: captured %dx%d (%s)", raw.Width, raw.Height, raw.Intent)
				j.cb(Result{Payload: payload.Encode(raw), Raw: raw})
			}
		}()
	}
}

// Submit enqueues a capture job if the single-slot queue is free.
// Returns false when a job is already waiting.
func (p *Pool) Submit(ctx context.Context, backend *capture.Backend, intent capture.Intent, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, backend: backend, intent: intent, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
