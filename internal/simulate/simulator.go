// Package simulate fakes the transfer of a video. A run produces a stream of
// progress events on a channel and ends with a single completion or failure,
// unless its context is cancelled first.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/ytget/tokbulk/internal/log"
)

// Default simulation parameters
const (
	DefaultStartDelayMax = 4 * time.Second
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultSpeedMin      = 1.0
	DefaultSpeedMax      = 4.0
	DefaultStutterRate   = 0.1
	DefaultFailureRate   = 0.05 / 20
)

// Failures are only injected while progress is strictly inside this window.
const (
	failWindowLow  = 30.0
	failWindowHigh = 50.0
)

// ErrNetworkTimeout is the failure reported by an injected mid-transfer fault.
var ErrNetworkTimeout = errors.New("Network timeout.") //nolint:staticcheck // Shown to the user as is.

// EventKind is the type of a simulation event
type EventKind int

const (
	EventProgress EventKind = iota
	EventComplete
	EventFail
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Event is a single notification of a simulated transfer
type Event struct {
	TaskID   string
	Kind     EventKind
	Progress int
	Err      error
}

// Random is the source of randomness of the simulator.
type Random interface {
	Float64() float64
}

// RandomFunc adapts a function to Random.
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// Config is the configuration of the Simulator.
type Config struct {
	// StartDelayMax bounds the random delay before the first tick.
	StartDelayMax time.Duration
	// TickInterval is the period between progress updates.
	TickInterval time.Duration
	// SpeedMin and SpeedMax bound the per tick progress increment.
	SpeedMin float64
	SpeedMax float64
	// StutterRate is the probability of losing one point on a tick. Nil uses
	// DefaultStutterRate, Rate(0) turns stutter off.
	StutterRate *float64
	// FailureRate is the per tick probability of failing inside the fail window.
	// Nil uses DefaultFailureRate, Rate(0) turns failure injection off.
	FailureRate *float64
	// Random defaults to the math/rand/v2 global source, safe for concurrent use.
	Random Random
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.StartDelayMax < 0 {
		return fmt.Errorf("start delay can't be negative")
	}
	if c.StartDelayMax == 0 {
		c.StartDelayMax = DefaultStartDelayMax
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative")
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.SpeedMin == 0 && c.SpeedMax == 0 {
		c.SpeedMin, c.SpeedMax = DefaultSpeedMin, DefaultSpeedMax
	}
	if c.SpeedMin <= 0 || c.SpeedMax < c.SpeedMin {
		return fmt.Errorf("invalid speed range [%v, %v)", c.SpeedMin, c.SpeedMax)
	}
	if c.StutterRate == nil {
		c.StutterRate = Rate(DefaultStutterRate)
	}
	if c.FailureRate == nil {
		c.FailureRate = Rate(DefaultFailureRate)
	}
	if !validRate(*c.StutterRate) || !validRate(*c.FailureRate) {
		return fmt.Errorf("rates must be in [0, 1]")
	}
	if c.Random == nil {
		c.Random = RandomFunc(rand.Float64)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "simulate.Simulator"})

	return nil
}

// Rate returns a pointer to v, for the optional rates of Config.
func Rate(v float64) *float64 { return &v }

func validRate(v float64) bool { return v >= 0 && v <= 1 }

// Simulator fakes video transfers.
type Simulator struct {
	cfg         Config
	stutterRate float64
	failureRate float64
	logger      log.Logger
}

// NewSimulator returns a new Simulator.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Simulator{
		cfg:         cfg,
		stutterRate: *cfg.StutterRate,
		failureRate: *cfg.FailureRate,
		logger:      cfg.Logger,
	}, nil
}

// Start begins a simulated transfer for the task and returns immediately.
// The returned channel receives progress events followed by exactly one
// EventComplete or EventFail, then it is closed. Cancelling ctx stops the run
// and closes the channel without a terminal event.
func (s *Simulator) Start(ctx context.Context, taskID string) <-chan Event {
	events := make(chan Event, 1)

	delay := time.Duration(s.cfg.Random.Float64() * float64(s.cfg.StartDelayMax))
	speed := s.cfg.SpeedMin + s.cfg.Random.Float64()*(s.cfg.SpeedMax-s.cfg.SpeedMin)
	s.logger.Debugf("Simulating task %s: delay=%s speed=%.2f", taskID, delay, speed)

	go s.run(ctx, taskID, delay, speed, events)

	return events
}

func (s *Simulator) run(ctx context.Context, taskID string, delay time.Duration, speed float64, events chan<- Event) {
	defer close(events)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	progress := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		progress += speed
		if s.cfg.Random.Float64() > 1-s.stutterRate {
			progress--
		}
		progress = math.Max(0, math.Min(progress, 100))

		if !send(ctx, events, Event{TaskID: taskID, Kind: EventProgress, Progress: int(math.Floor(progress))}) {
			return
		}

		if progress > failWindowLow && progress < failWindowHigh && s.cfg.Random.Float64() < s.failureRate {
			s.logger.Debugf("Injecting failure for task %s at %.0f%%", taskID, progress)
			send(ctx, events, Event{TaskID: taskID, Kind: EventFail, Progress: int(math.Floor(progress)), Err: ErrNetworkTimeout})
			return
		}

		if progress >= 100 {
			send(ctx, events, Event{TaskID: taskID, Kind: EventComplete, Progress: 100})
			return
		}
	}
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
