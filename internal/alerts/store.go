package alerts

import (
	"sort"
	"sync"
)

// Store is the single-writer, ordered, in-memory alert collection. The
// store owns every Alert value it holds; callers receive copies, never
// aliases, so a concurrent mutation cannot alter a value another
// component is mid-read on.
//
// All mutating operations are expected to run on the owner context (the
// UI update loop); the mutex additionally makes each operation atomic
// with respect to concurrent readers.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Alert
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID: make(map[string]Alert),
	}
}

// Replace discards the prior contents and installs the given alerts as
// the new order and mapping. No merge with prior optimistic edits is
// performed; a refresh that races an in-flight mutation wins.
func (s *Store) Replace(alerts []Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(alerts))
	s.byID = make(map[string]Alert, len(alerts))
	for _, alert := range alerts {
		s.order = append(s.order, alert.ID)
		s.byID[alert.ID] = alert.Clone()
	}
}

// Snapshot returns a read-only copy of the alerts in display order.
func (s *Store) Snapshot() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, 0, len(s.order))
	for _, id := range s.order {
		if alert, ok := s.byID[id]; ok {
			out = append(out, alert.Clone())
		}
	}
	return out
}

// Get returns a copy of the alert with the given id.
func (s *Store) Get(id string) (Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alert, ok := s.byID[id]
	if !ok {
		return Alert{}, false
	}
	return alert.Clone(), true
}

// Len returns the number of stored alerts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// IndexOf returns the display index of the given id, or -1 when absent.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOfLocked(id)
}

func (s *Store) indexOfLocked(id string) int {
	for i, current := range s.order {
		if current == id {
			return i
		}
	}
	return -1
}

// ApplyLocalMutation replaces the stored alert at id with the result of
// transform applied to a copy of the current value, preserving its
// position. No-op when id is absent.
func (s *Store) ApplyLocalMutation(id string, transform func(Alert) Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.byID[id]
	if !ok {
		return
	}
	s.byID[id] = transform(alert.Clone())
}

// Remove deletes id from both order and mapping. No-op when absent.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	if idx := s.indexOfLocked(id); idx >= 0 {
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	}
}

// Restore reinstates a snapshot taken before an optimistic mutation.
// The stored value is overwritten with the snapshot; if the id is no
// longer in the display order it is reinserted at the given index,
// clamped to the current bounds.
func (s *Store) Restore(alert Alert, at int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[alert.ID] = alert.Clone()
	if s.indexOfLocked(alert.ID) >= 0 {
		return
	}

	if at < 0 {
		at = 0
	}
	if at > len(s.order) {
		at = len(s.order)
	}

	s.order = append(s.order, "")
	copy(s.order[at+1:], s.order[at:])
	s.order[at] = alert.ID
}

// SortForDisplay orders alerts newest first. Alerts without a creation
// timestamp sort last.
func SortForDisplay(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i].CreatedAt, alerts[j].CreatedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
