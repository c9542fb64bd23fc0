package input

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// EventSource delivers edge events from one input line to a handler.
// The handler must be non-blocking; it may run on any goroutine.
type EventSource interface {
	Register(edge gpio.Edge, handler func()) error
	Enable() error
	Disable() error
}

var (
	ErrNoHandler = errors.New("input: no handler registered")
	ErrEnabled   = errors.New("input: source already enabled")
)

// ParseEdge maps "falling", "rising" or "both" to a gpio.Edge.
func ParseEdge(s string) (gpio.Edge, error) {
	switch strings.ToLower(s) {
	case "falling", "":
		return gpio.FallingEdge, nil
	case "rising":
		return gpio.RisingEdge, nil
	case "both":
		return gpio.BothEdges, nil
	}
	return gpio.NoEdge, fmt.Errorf("input: unknown edge %q", s)
}

// PinSource watches a GPIO line with the internal pull-up enabled. A
// dedicated goroutine waits for edges and calls the handler for each one.
type PinSource struct {
	pin  gpio.PinIn
	poll time.Duration

	mu      sync.Mutex
	edge    gpio.Edge
	handler func()
	stop    chan struct{}
	done    chan struct{}
}

// NewPinSource wraps pin. poll bounds how long Disable waits for the
// watcher to notice; zero means 100ms.
func NewPinSource(pin gpio.PinIn, poll time.Duration) *PinSource {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	return &PinSource{pin: pin, poll: poll}
}

// Register sets the edge and handler. It fails while the source is enabled.
func (s *PinSource) Register(edge gpio.Edge, handler func()) error {
	if handler == nil {
		return ErrNoHandler
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return ErrEnabled
	}
	s.edge = edge
	s.handler = handler
	return nil
}

// Enable configures the pin and starts watching for edges.
func (s *PinSource) Enable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler == nil {
		return ErrNoHandler
	}
	if s.stop != nil {
		return ErrEnabled
	}
	if err := s.pin.In(gpio.PullUp, s.edge); err != nil {
		return fmt.Errorf("input: configure %s: %w", s.pin, err)
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.watch(s.handler, s.stop, s.done)
	return nil
}

func (s *PinSource) watch(handler func(), stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		if s.pin.WaitForEdge(s.poll) {
			handler()
		}
	}
}

// Disable stops the watcher and turns edge detection off.
func (s *PinSource) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
	if err := s.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("input: release %s: %w", s.pin, err)
	}
	return nil
}

func (s *PinSource) String() string {
	return s.pin.String()
}

// ManualSource is an EventSource fired by code, used by the terminal
// simulator and tests.
type ManualSource struct {
	name    string
	enabled atomic.Bool
	handler atomic.Pointer[func()]
}

// NewManualSource returns a disabled source.
func NewManualSource(name string) *ManualSource {
	return &ManualSource{name: name}
}

func (s *ManualSource) Register(_ gpio.Edge, handler func()) error {
	if handler == nil {
		return ErrNoHandler
	}
	if s.enabled.Load() {
		return ErrEnabled
	}
	s.handler.Store(&handler)
	return nil
}

func (s *ManualSource) Enable() error {
	if s.handler.Load() == nil {
		return ErrNoHandler
	}
	s.enabled.Store(true)
	return nil
}

func (s *ManualSource) Disable() error {
	s.enabled.Store(false)
	return nil
}

// Fire simulates one edge. It reports whether a handler ran.
func (s *ManualSource) Fire() bool {
	if !s.enabled.Load() {
		return false
	}
	h := s.handler.Load()
	if h == nil {
		return false
	}
	(*h)()
	return true
}

func (s *ManualSource) String() string {
	return s.name
}
