// Package state tracks per-resource scaling state and an append-only
// operation history. Nothing here survives a process restart.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/migalsp/easyscale-operator/internal/schedule"
)

// ResourceState is the per-identity record the store owns. Fields are
// nil until the first successful scaling operation.
type ResourceState struct {
	Identity schedule.Identity

	LastScaleTime *time.Time
	LastReplicas  *int32
	LastWindow    string
	ScaleCount    int64
}

// Record is one immutable entry in the operation history.
type Record struct {
	Timestamp        time.Time
	Identity         schedule.Identity
	WindowName       string
	PreviousReplicas int32
	DesiredReplicas  int32
	Reason           string
	Success          bool
	Error            string
}

// Filter narrows History reads. Zero values match everything.
type Filter struct {
	Namespace string
	Name      string
	Kind      schedule.Kind

	// Limit caps the number of returned records, 0 means unlimited.
	Limit int
}

// Store holds scaling state for every managed identity. All methods are
// safe for concurrent use.
type Store struct {
	cooldown time.Duration

	mu      sync.Mutex
	states  map[schedule.Identity]*ResourceState
	history []Record
}

// NewStore creates a store with the given process-wide cooldown duration.
func NewStore(cooldown time.Duration) *Store {
	return &Store{
		cooldown: cooldown,
		states:   make(map[schedule.Identity]*ResourceState),
	}
}

// Cooldown returns the configured cooldown duration.
func (s *Store) Cooldown() time.Duration {
	return s.cooldown
}

// GetState returns a copy of the state for the identity, creating an
// empty record on first lookup.
func (s *Store) GetState(id schedule.Identity) ResourceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state(id)
}

func (s *Store) state(id schedule.Identity) *ResourceState {
	st, ok := s.states[id]
	if !ok {
		st = &ResourceState{Identity: id}
		s.states[id] = st
	}
	return st
}

// InCooldown reports whether the identity scaled successfully less than
// the cooldown duration before now.
func (s *Store) InCooldown(id schedule.Identity, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(id)
	if st.LastScaleTime == nil {
		return false
	}
	return now.Sub(*st.LastScaleTime) < s.cooldown
}

// RecordScaling appends the record to the history. When applied is true
// the identity's state is updated as well, which arms the cooldown; a
// failed apply leaves the state untouched so the next cycle can retry.
func (s *Store) RecordScaling(rec Record, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, rec)

	if !applied {
		return
	}

	st := s.state(rec.Identity)
	t := rec.Timestamp
	replicas := rec.DesiredReplicas
	st.LastScaleTime = &t
	st.LastReplicas = &replicas
	st.LastWindow = rec.WindowName
	st.ScaleCount++
}

// History returns matching records newest first. Records with equal
// timestamps keep their insertion order.
func (s *Store) History(f Filter) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.history {
		if f.Namespace != "" && rec.Identity.Namespace != f.Namespace {
			continue
		}
		if f.Name != "" && rec.Identity.Name != f.Name {
			continue
		}
		if f.Kind != "" && rec.Identity.Kind != f.Kind {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// ClearState drops the state record for one identity.
func (s *Store) ClearState(id schedule.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// ClearHistory drops the whole operation history.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
