package input

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"periph.io/x/conn/v3/gpio"

	"github.com/vovakirdan/ledtris/internal/core"
)

type binding struct {
	action core.ButtonAction
	source EventSource
	deb    *Debouncer
}

// Pipeline binds event sources to actions through per-button debouncers
// and a shared queue.
type Pipeline struct {
	queue    *Queue
	clock    core.Clock
	window   time.Duration
	logger   *log.Logger
	bindings []binding
	buf      []core.ButtonAction
}

// NewPipeline returns a pipeline with an empty queue.
func NewPipeline(clock core.Clock, window time.Duration, logger *log.Logger) *Pipeline {
	return &Pipeline{
		queue:  NewQueue(),
		clock:  clock,
		window: window,
		logger: logger,
	}
}

// Bind registers src so that each accepted edge enqueues action.
func (p *Pipeline) Bind(action core.ButtonAction, src EventSource, edge gpio.Edge) error {
	deb := NewDebouncer(p.window)
	q, clock := p.queue, p.clock
	handler := func() {
		if deb.Accept(clock.Now()) {
			q.Push(action)
		}
	}
	if err := src.Register(edge, handler); err != nil {
		return fmt.Errorf("input: bind %s: %w", action, err)
	}
	p.bindings = append(p.bindings, binding{action: action, source: src, deb: deb})
	p.logger.Debug("button bound", "action", action, "source", src, "edge", edge, "debounce", p.window)
	return nil
}

// Enable turns on every bound source. If one fails the others are
// disabled again and the error is returned.
func (p *Pipeline) Enable() error {
	for i, b := range p.bindings {
		if err := b.source.Enable(); err != nil {
			for _, done := range p.bindings[:i] {
				_ = done.source.Disable()
			}
			return fmt.Errorf("input: enable %s: %w", b.action, err)
		}
	}
	return nil
}

// Disable turns off every bound source.
func (p *Pipeline) Disable() error {
	var errs []error
	for _, b := range p.bindings {
		if err := b.source.Disable(); err != nil {
			errs = append(errs, fmt.Errorf("input: disable %s: %w", b.action, err))
		}
	}
	return errors.Join(errs...)
}

// Drain returns every action queued since the previous call, in enqueue
// order. The returned slice is reused by the next call.
func (p *Pipeline) Drain() []core.ButtonAction {
	p.buf = p.queue.Drain(p.buf[:0])
	return p.buf
}

// Queue exposes the shared queue.
func (p *Pipeline) Queue() *Queue {
	return p.queue
}
