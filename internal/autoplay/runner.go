// Package autoplay drives a session forward on a timer.
package autoplay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/talgya/ohi-sim/internal/events"
	"github.com/talgya/ohi-sim/internal/game"
)

// ErrNotStarted is returned when Run is called before StartGame.
var ErrNotStarted = errors.New("autoplay: session not started")

// Decider picks a choice for the pending event. ok=false lets the event wait
// until its deadline forces the default.
type Decider interface {
	Choose(s game.State) (choiceID string, ok bool)
}

// Planner returns the actions to take at the start of a cycle, such as budget
// allocation and policy investments.
type Planner interface {
	Plan(s game.State) []game.Action
}

// Runner is the auto-advance timer. Any field but Store may be left zero.
type Runner struct {
	Store     *game.Store
	Events    events.Source
	Decider   Decider
	Planner   Planner
	Interval  time.Duration // base delay between steps at speed 1
	MaxCycles int           // 0 = until the session ends

	advanced   int
	plannedFor int
	eventCycle int
	pendingFor int
	pendingID  string
}

// Run steps the session until it ends, MaxCycles cycles have been advanced,
// or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.Interval <= 0 {
		r.Interval = time.Second
	}
	s := r.Store.State()
	if s.Phase == game.PhaseSetup {
		return ErrNotStarted
	}
	if !s.UI.AutoAdvance {
		if _, err := r.Store.Dispatch(game.SetAutoAdvance{Enabled: true}); err != nil {
			return err
		}
	}

	id, updates := r.Store.Subscribe(64)
	defer r.Store.Unsubscribe(id)

	slog.Info("autoplay started", "cycle", s.Cycle, "interval", r.Interval, "speed", s.UI.Speed)

	timer := time.NewTimer(r.delay(s))
	defer timer.Stop()
	armed := true
	speed := s.UI.Speed

	for {
		select {
		case <-ctx.Done():
			slog.Info("autoplay stopped", "advanced", r.advanced, "reason", ctx.Err())
			return ctx.Err()

		case next, ok := <-updates:
			if !ok {
				return nil
			}
			if next.Phase == game.PhaseEnded {
				slog.Info("autoplay finished", "advanced", r.advanced, "ohi", next.OHIScore)
				return nil
			}
			if next.Phase == game.PhasePaused {
				continue
			}
			// Resumed, or speed changed: restart the countdown.
			if !armed || next.UI.Speed != speed {
				speed = next.UI.Speed
				timer.Reset(r.delay(next))
				armed = true
			}

		case <-timer.C:
			armed = false
			done := r.step()
			if done {
				slog.Info("autoplay finished", "advanced", r.advanced)
				return nil
			}
			cur := r.Store.State()
			if cur.Phase == game.PhasePaused {
				continue
			}
			speed = cur.UI.Speed
			timer.Reset(r.delay(cur))
			armed = true
		}
	}
}

func (r *Runner) delay(s game.State) time.Duration {
	speed := s.UI.Speed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(r.Interval) / speed)
}

// step performs one timer firing and reports whether the run is over.
func (r *Runner) step() bool {
	s := r.Store.State()
	switch s.Phase {
	case game.PhaseEnded:
		return true

	case game.PhaseResults:
		r.dispatch(game.ContinueGame{})

	case game.PhaseEvent:
		r.handleEvent(s)

	case game.PhasePlaying:
		if !s.UI.AutoAdvance {
			return false
		}
		if r.Planner != nil && r.plannedFor != s.Cycle {
			r.plannedFor = s.Cycle
			for _, a := range r.Planner.Plan(s) {
				r.dispatch(a)
			}
		}
		if r.Events != nil && r.eventCycle != s.Cycle {
			r.eventCycle = s.Cycle
			if ev, ok := r.Events.Draw(); ok {
				if r.dispatch(game.TriggerEvent{Event: ev}) {
					return false
				}
			}
		}
		if r.dispatch(game.AdvanceCycle{}) {
			r.advanced++
			if r.Store.State().Phase == game.PhaseEnded {
				return true
			}
			if r.MaxCycles > 0 && r.advanced >= r.MaxCycles {
				return true
			}
		}
	}
	return false
}

func (r *Runner) handleEvent(s game.State) {
	ev := s.CurrentEvent
	if ev == nil {
		return
	}
	if ev.ID != r.pendingID {
		r.pendingID = ev.ID
		r.pendingFor = 0
	}
	r.pendingFor++

	if r.Decider != nil {
		if choice, ok := r.Decider.Choose(s); ok {
			if r.dispatch(game.ResolveEvent{ChoiceID: choice}) {
				r.resumeAuto()
				return
			}
		}
	}
	if r.pendingFor > ev.Deadline {
		slog.Info("event deadline passed", "event", ev.ID, "ticks", r.pendingFor)
		if r.dispatch(game.ExpireEvent{}) {
			r.resumeAuto()
		}
	}
}

func (r *Runner) resumeAuto() {
	r.pendingID = ""
	r.dispatch(game.SetAutoAdvance{Enabled: true})
}

func (r *Runner) dispatch(a game.Action) bool {
	if _, err := r.Store.Dispatch(a); err != nil {
		slog.Debug("autoplay action rejected", "action", a.Name(), "error", err)
		return false
	}
	return true
}
