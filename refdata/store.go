package refdata

import (
	"sync/atomic"

	"github.com/nsip/otf-growth/growth"
)

//
// Store holds the current reference snapshot. Readers take the whole
// snapshot with Current and keep using it for the duration of one
// evaluation; Swap replaces it for subsequent readers. Snapshots are
// never modified once stored.
//
type Store struct {
	current atomic.Pointer[growth.Tables]
}

func NewStore(ts *growth.Tables) *Store {
	s := &Store{}
	s.current.Store(ts)
	return s
}

//
// Current returns the active snapshot.
//
func (s *Store) Current() *growth.Tables {
	return s.current.Load()
}

//
// Swap installs ts and returns the previous snapshot.
//
func (s *Store) Swap(ts *growth.Tables) *growth.Tables {
	return s.current.Swap(ts)
}
