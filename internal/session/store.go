// Package session holds the last successfully rendered bill.
package session

import (
	"sync"

	"github.com/lachiem1/meterUp/internal/billing"
)

// Entry is the displayed bill and the period it was displayed for.
type Entry struct {
	Record billing.Record
	Period billing.Period
}

// Token tags one fetch attempt. Only the most recently issued token may
// update the store.
type Token uint64

// Store is a single-slot, mutex-guarded holder of the current bill plus the
// request sequence used to discard stale responses.
type Store struct {
	mu      sync.Mutex
	entry   Entry
	present bool
	latest  Token
}

func New() *Store {
	return &Store{}
}

// Get returns the current entry, if any.
func (s *Store) Get() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry, s.present
}

// Set replaces the current entry.
func (s *Store) Set(rec billing.Record, period billing.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = Entry{Record: rec, Period: period}
	s.present = true
}

// Begin issues a new token, superseding every earlier one.
func (s *Store) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Current reports whether t is the most recently issued token.
func (s *Store) Current(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t != 0 && t == s.latest
}

// SetIfCurrent stores the entry only when t is still current. It reports
// whether the store was updated.
func (s *Store) SetIfCurrent(t Token, rec billing.Record, period billing.Period) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == 0 || t != s.latest {
		return false
	}
	s.entry = Entry{Record: rec, Period: period}
	s.present = true
	return true
}

// Clear empties the slot. Outstanding tokens are invalidated.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = Entry{}
	s.present = false
	s.latest++
}
