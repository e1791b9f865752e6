package simulate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokbulk/internal/simulate"
)

// scriptedRandom returns the scripted values in order and then rest forever.
type scriptedRandom struct {
	mu     sync.Mutex
	values []float64
	rest   float64
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 {
		return r.rest
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

func collect(t *testing.T, events <-chan simulate.Event) []simulate.Event {
	t.Helper()

	var got []simulate.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("simulation did not finish, got %d events", len(got))
			return nil
		}
	}
}

func TestSimulatorStart(t *testing.T) {
	tests := map[string]struct {
		random      *scriptedRandom
		stutterRate *float64
		failureRate *float64
		expProgress []int
		expTerminal simulate.EventKind
		expErr      error
	}{
		"A steady run should report every tick and complete.": {
			// No delay, max speed (4), no stutter, no failure.
			random:      &scriptedRandom{values: []float64{0, 1}, rest: 0.5},
			expProgress: []int{4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64, 68, 72, 76, 80, 84, 88, 92, 96, 100},
			expTerminal: simulate.EventComplete,
		},

		"A failure draw inside the fail window should fail the run with a network timeout.": {
			// No delay, max speed (4), no stutter, every failure draw succeeds.
			random:      &scriptedRandom{values: []float64{0, 1}, rest: 0},
			expProgress: []int{4, 8, 12, 16, 20, 24, 28, 32},
			expTerminal: simulate.EventFail,
			expErr:      simulate.ErrNetworkTimeout,
		},

		"Stutter on every tick should slow the run and clamp at 100.": {
			// No delay, max speed (4), stutter on each tick (net 3), no failure.
			random: &scriptedRandom{values: []float64{0, 1}, rest: 0.95},
			expProgress: []int{3, 6, 9, 12, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45, 48, 51, 54, 57, 60,
				63, 66, 69, 72, 75, 78, 81, 84, 87, 90, 93, 96, 99, 100},
			expTerminal: simulate.EventComplete,
		},

		"A zero failure rate should never fail the run.": {
			// No delay, max speed (4), every draw would fail with the default rate.
			random:      &scriptedRandom{values: []float64{0, 1}, rest: 0},
			failureRate: simulate.Rate(0),
			expProgress: []int{4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64, 68, 72, 76, 80, 84, 88, 92, 96, 100},
			expTerminal: simulate.EventComplete,
		},

		"A zero stutter rate should never lose progress.": {
			// No delay, max speed (4), every draw would stutter with the default rate.
			random:      &scriptedRandom{values: []float64{0, 1}, rest: 0.999},
			stutterRate: simulate.Rate(0),
			expProgress: []int{4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64, 68, 72, 76, 80, 84, 88, 92, 96, 100},
			expTerminal: simulate.EventComplete,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			sim, err := simulate.NewSimulator(simulate.Config{
				TickInterval: time.Millisecond,
				StutterRate:  test.stutterRate,
				FailureRate:  test.failureRate,
				Random:       test.random,
			})
			require.NoError(err)

			events := collect(t, sim.Start(context.Background(), "task-1"))
			require.NotEmpty(events)

			var gotProgress []int
			terminals := 0
			for _, ev := range events {
				assert.Equal("task-1", ev.TaskID)
				assert.GreaterOrEqual(ev.Progress, 0)
				assert.LessOrEqual(ev.Progress, 100)
				if ev.Kind == simulate.EventProgress {
					gotProgress = append(gotProgress, ev.Progress)
					continue
				}
				terminals++
			}

			assert.Equal(test.expProgress, gotProgress)
			assert.Equal(1, terminals)

			last := events[len(events)-1]
			assert.Equal(test.expTerminal, last.Kind)
			assert.Equal(test.expErr, last.Err)
		})
	}
}

func TestSimulatorCancel(t *testing.T) {
	require := require.New(t)

	// A full start delay keeps the run waiting until it's cancelled.
	sim, err := simulate.NewSimulator(simulate.Config{
		StartDelayMax: time.Hour,
		TickInterval:  time.Millisecond,
		Random:        &scriptedRandom{values: []float64{1, 1}, rest: 0.5},
	})
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	events := sim.Start(ctx, "task-1")
	cancel()

	require.Empty(collect(t, events))
}

func TestSimulatorStartReturnsImmediately(t *testing.T) {
	require := require.New(t)

	sim, err := simulate.NewSimulator(simulate.Config{
		StartDelayMax: time.Hour,
		Random:        &scriptedRandom{values: []float64{1, 0}, rest: 0.5},
	})
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	_ = sim.Start(ctx, "task-1")
	require.Less(time.Since(start), time.Second)
}

func TestNewSimulator(t *testing.T) {
	tests := map[string]struct {
		cfg    simulate.Config
		expErr bool
	}{
		"Empty config should use defaults.": {
			cfg: simulate.Config{},
		},
		"Negative delay should fail.": {
			cfg:    simulate.Config{StartDelayMax: -time.Second},
			expErr: true,
		},
		"Inverted speed range should fail.": {
			cfg:    simulate.Config{SpeedMin: 4, SpeedMax: 1},
			expErr: true,
		},
		"Out of range rates should fail.": {
			cfg:    simulate.Config{FailureRate: simulate.Rate(2)},
			expErr: true,
		},
		"Negative rates should fail.": {
			cfg:    simulate.Config{StutterRate: simulate.Rate(-0.1)},
			expErr: true,
		},
		"Zero rates should be accepted.": {
			cfg: simulate.Config{StutterRate: simulate.Rate(0), FailureRate: simulate.Rate(0)},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			sim, err := simulate.NewSimulator(test.cfg)
			if test.expErr {
				assert.Error(t, err)
				assert.Nil(t, sim)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sim)
			}
		})
	}
}
