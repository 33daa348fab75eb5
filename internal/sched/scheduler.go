package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimestep is the simulation interval used when none is configured.
const DefaultTimestep = 40 * time.Millisecond

// ErrStopped is returned by Run when the session reports it is no longer active.
var ErrStopped = errors.New("session ended")

// TickFunc advances the simulation by exactly one tick.
type TickFunc func(tick int) error

// Gate lets the order sink hold the simulation back until the next lockstep
// frame is complete.
type Gate interface {
	IsReadyForNextFrame() bool
}

// Stats counts what the scheduler has done so far.
type Stats struct {
	Ticks    int // ticks run
	Stalls   int // due ticks held back by the gate
	Overruns int // ticks that took longer than the timestep
	Dropped  int // timestep intervals skipped instead of caught up
}

func (s Stats) String() string {
	return fmt.Sprintf("ticks=%d stalls=%d overruns=%d dropped=%d", s.Ticks, s.Stalls, s.Overruns, s.Dropped)
}

// Scheduler runs a TickFunc at a fixed rate, independent of how often it is
// polled. Missed intervals are dropped, never replayed. It is not safe for
// concurrent use.
type Scheduler struct {
	step   time.Duration
	tick   TickFunc
	clock  Clock
	gate   Gate
	active func() bool
	log    *zap.SugaredLogger

	last    time.Time
	started bool
	inStep  bool
	stats   Stats
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

func WithGate(g Gate) Option { return func(s *Scheduler) { s.gate = g } }

func WithLogger(l *zap.SugaredLogger) Option { return func(s *Scheduler) { s.log = l } }

// WithActive sets the predicate Run checks before every iteration.
func WithActive(f func() bool) Option { return func(s *Scheduler) { s.active = f } }

// New returns a scheduler that calls tick once per step.
func New(step time.Duration, tick TickFunc, opts ...Option) *Scheduler {
	if step <= 0 {
		step = DefaultTimestep
	}
	s := &Scheduler{
		step:   step,
		tick:   tick,
		clock:  SystemClock{},
		active: func() bool { return true },
		log:    zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scheduler) Timestep() time.Duration { return s.step }

func (s *Scheduler) Stats() Stats { return s.stats }

// Tick returns the number of the last tick run; 0 before the first.
func (s *Scheduler) Tick() int { return s.stats.Ticks }

// Due reports how long until the next tick may run.
func (s *Scheduler) Due() time.Duration {
	if !s.started {
		return 0
	}
	d := s.step - s.clock.Now().Sub(s.last)
	if d < 0 {
		return 0
	}
	return d
}

// Step runs at most one tick if a timestep has elapsed since the previous
// one. It reports whether a tick ran. Calling Step from inside a tick panics.
func (s *Scheduler) Step() (bool, error) {
	if s.inStep {
		panic("sched: Step called re-entrantly from inside a tick")
	}
	s.inStep = true
	defer func() { s.inStep = false }()

	now := s.clock.Now()
	if s.started {
		behind := now.Sub(s.last)
		if behind < s.step {
			return false, nil
		}
		if s.gate != nil && !s.gate.IsReadyForNextFrame() {
			s.stats.Stalls++
			return false, nil
		}
		if missed := int(behind/s.step) - 1; missed > 0 {
			s.stats.Dropped += missed
			s.log.Debugw("dropped timestep intervals", "tick", s.stats.Ticks+1, "missed", missed)
		}
	} else if s.gate != nil && !s.gate.IsReadyForNextFrame() {
		s.stats.Stalls++
		return false, nil
	}

	if s.started {
		// Advance along the fixed grid; whole missed slots are skipped.
		s.last = s.last.Add(s.step * (now.Sub(s.last) / s.step))
	} else {
		s.last = now
	}
	s.started = true
	s.stats.Ticks++
	n := s.stats.Ticks
	if err := s.tick(n); err != nil {
		return true, fmt.Errorf("tick %d: %w", n, err)
	}
	if took := s.clock.Now().Sub(now); took > s.step {
		s.stats.Overruns++
		s.log.Warnw("tick overran its budget", "tick", n, "took", took, "budget", s.step)
	}
	return true, nil
}

// Run alternates Step and pump until ctx is done, the session goes inactive,
// or either returns an error. Between ticks it sleeps on the clock.
func (s *Scheduler) Run(ctx context.Context, pump func() error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.active() {
			return ErrStopped
		}
		ran, err := s.Step()
		if err != nil {
			return err
		}
		if pump != nil {
			if err := pump(); err != nil {
				return err
			}
		}
		if !ran {
			d := s.Due()
			if d == 0 {
				// Held by the gate; give the transport a moment.
				d = s.step / 4
			}
			s.clock.Sleep(d)
		}
	}
}
