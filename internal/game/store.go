package game

import (
	"log/slog"
	"sync"
)

// Store holds the current state of one session and serializes dispatches.
// Subscribers receive every accepted transition.
type Store struct {
	env Env

	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]chan State
}

// NewStore starts a session at the canonical initial state.
func NewStore(env Env) *Store {
	return &Store{
		env:   env,
		state: NewState(env),
		subs:  make(map[int]chan State),
	}
}

// Env returns the session context.
func (st *Store) Env() Env { return st.env }

// State returns a copy of the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.Clone()
}

// Dispatch applies a. On rejection the state is unchanged and the reason is
// returned alongside it.
func (st *Store) Dispatch(a Action) (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := apply(st.env, st.state, a)
	if err != nil {
		slog.Debug("action rejected", "action", actionName(a), "phase", st.state.Phase, "error", err)
		return st.state.Clone(), err
	}
	st.state = next
	st.publish(next)
	return next.Clone(), nil
}

// Restore replaces the current state, e.g. from a snapshot. The state must
// pass Validate.
func (st *Store) Restore(s State) error {
	if err := s.Validate(st.env); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = s.Clone()
	st.publish(st.state)
	return nil
}

// Subscribe returns a channel that receives each new state. Slow
// subscribers miss updates rather than block dispatch.
func (st *Store) Subscribe(buffer int) (int, <-chan State) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.nextID++
	ch := make(chan State, buffer)
	st.subs[st.nextID] = ch
	return st.nextID, ch
}

// Unsubscribe closes and removes a subscription.
func (st *Store) Unsubscribe(id int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if ch, ok := st.subs[id]; ok {
		close(ch)
		delete(st.subs, id)
	}
}

func (st *Store) publish(s State) {
	for id, ch := range st.subs {
		select {
		case ch <- s.Clone():
		default:
			slog.Warn("subscriber lagging, dropped state", "subscriber", id, "cycle", s.Cycle)
		}
	}
}

func actionName(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.Name()
}
