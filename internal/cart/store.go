package cart

import "sync"

// Store is the single owner of one shopper's State.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Lines: cloneLines(s.state.Lines), ContactNumber: s.state.ContactNumber}
}

func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return State{Lines: cloneLines(s.state.Lines), ContactNumber: s.state.ContactNumber}
}
