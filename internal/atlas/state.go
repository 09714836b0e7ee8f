package atlas

import (
	"sort"
	"sync"
)

// State is the shared UI state of the map: pinned bands, the highlighted
// band, and the active color scheme. Modeled as an explicit struct guarded
// by a mutex rather than ambient globals so every render input is visible
// at the call site.
type State struct {
	mu        sync.RWMutex
	pinned    map[string]struct{}
	highlight string
	scheme    string
}

// NewState creates an empty UI state with the given initial scheme
func NewState(scheme string) *State {
	return &State{
		pinned: make(map[string]struct{}),
		scheme: scheme,
	}
}

// Pin marks a band as pinned. Returns false if it was already pinned.
func (s *State) Pin(band string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pinned[band]; exists {
		return false
	}
	s.pinned[band] = struct{}{}
	return true
}

// Unpin removes a band's pin. Returns false if it was not pinned.
func (s *State) Unpin(band string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pinned[band]; !exists {
		return false
	}
	delete(s.pinned, band)
	return true
}

// IsPinned reports whether a band is pinned
func (s *State) IsPinned(band string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pinned[band]
	return ok
}

// Pins returns the pinned band labels, sorted
func (s *State) Pins() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pins := make([]string, 0, len(s.pinned))
	for band := range s.pinned {
		pins = append(pins, band)
	}
	sort.Strings(pins)
	return pins
}

// SetHighlight sets the single highlighted band; empty clears it
func (s *State) SetHighlight(band string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlight = band
}

// Highlight returns the currently highlighted band, or empty
func (s *State) Highlight() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlight
}

// SetScheme switches the active color scheme
func (s *State) SetScheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheme = name
}

// Scheme returns the active color scheme name
func (s *State) Scheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheme
}
