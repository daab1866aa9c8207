// Package signalstore keeps the latest accepted signal and status per symbol.
package signalstore

import (
	"sort"
	"sync"
	"time"

	"SignalSentinel/internal/model"
)

// SymbolState is one symbol's last accepted signal and current status.
type SymbolState struct {
	mu         sync.Mutex
	signal     *model.Signal
	acceptedAt time.Time
	status     model.Status
}

// Store is an in-memory signal store. Each symbol's state has its own lock,
// so pipelines for different symbols never contend.
type Store struct {
	mu       sync.RWMutex
	symbols  map[string]*SymbolState
	cooldown time.Duration
	now      func() time.Time
}

// New creates a store with the given symbols pre-registered.
func New(symbols []string, cooldown time.Duration) *Store {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	s := &Store{
		symbols:  make(map[string]*SymbolState, len(symbols)),
		cooldown: cooldown,
		now:      time.Now,
	}
	for _, sym := range symbols {
		s.symbols[sym] = &SymbolState{status: model.Status{Symbol: sym, State: model.StatusHold}}
	}
	return s
}

// Cooldown returns the dedup window.
func (s *Store) Cooldown() time.Duration { return s.cooldown }

func (s *Store) state(symbol string) *SymbolState {
	s.mu.RLock()
	st, ok := s.symbols[symbol]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok = s.symbols[symbol]; !ok {
		st = &SymbolState{status: model.Status{Symbol: symbol, State: model.StatusHold}}
		s.symbols[symbol] = st
	}
	return st
}

// Has reports whether symbol is registered.
func (s *Store) Has(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.symbols[symbol]
	return ok
}

// Symbols lists registered symbols in sorted order.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		out = append(out, sym)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Accept offers a candidate signal. HOLD is rejected, a repeat of the stored
// (symbol, direction) within the cooldown is a duplicate, and anything else
// replaces the stored signal and should be notified.
func (s *Store) Accept(candidate *model.Signal) Outcome {
	if candidate == nil || candidate.Direction == model.DirectionHold || candidate.Direction == "" {
		return Rejected
	}
	st := s.state(candidate.Symbol)
	st.mu.Lock()
	defer st.mu.Unlock()

	if IsDuplicate(st.signal, candidate, s.cooldown) {
		return Duplicate
	}
	cp := *candidate
	st.signal = &cp
	st.acceptedAt = s.now()
	return Accepted
}

// Get returns a copy of the stored signal for symbol.
func (s *Store) Get(symbol string) (model.Signal, bool) {
	s.mu.RLock()
	st, ok := s.symbols[symbol]
	s.mu.RUnlock()
	if !ok {
		return model.Signal{}, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.signal == nil {
		return model.Signal{}, false
	}
	return *st.signal, true
}

// All returns copies of every stored signal, sorted by symbol.
func (s *Store) All() []model.Signal {
	var out []model.Signal
	for _, sym := range s.Symbols() {
		if sig, ok := s.Get(sym); ok {
			out = append(out, sig)
		}
	}
	return out
}

// Dismiss removes the signal with the given ID and returns its symbol.
func (s *Store) Dismiss(id string) (string, bool) {
	s.mu.RLock()
	states := make(map[string]*SymbolState, len(s.symbols))
	for sym, st := range s.symbols {
		states[sym] = st
	}
	s.mu.RUnlock()

	for sym, st := range states {
		st.mu.Lock()
		if st.signal != nil && st.signal.ID == id {
			st.signal = nil
			st.acceptedAt = time.Time{}
			st.mu.Unlock()
			return sym, true
		}
		st.mu.Unlock()
	}
	return "", false
}

// SetStatus records the symbol's latest pipeline status.
func (s *Store) SetStatus(status model.Status) {
	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = s.now()
	}
	st := s.state(status.Symbol)
	st.mu.Lock()
	st.status = status
	st.mu.Unlock()
}

// Status returns the symbol's latest status.
func (s *Store) Status(symbol string) (model.Status, bool) {
	s.mu.RLock()
	st, ok := s.symbols[symbol]
	s.mu.RUnlock()
	if !ok {
		return model.Status{}, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.status, true
}

// Statuses returns every symbol's status, sorted by symbol.
func (s *Store) Statuses() []model.Status {
	syms := s.Symbols()
	out := make([]model.Status, 0, len(syms))
	for _, sym := range syms {
		if st, ok := s.Status(sym); ok {
			out = append(out, st)
		}
	}
	return out
}
