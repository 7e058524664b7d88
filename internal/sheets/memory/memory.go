package memory

import (
	"context"
	"fmt"
	"sync"

	"nutrilog/internal/core"
	ports "nutrilog/internal/sheets"
)

var _ ports.TotalsWriter = (*Store)(nil)

// Store keeps exported day totals in memory. It stands in for the
// spreadsheet in tests and when no spreadsheet is configured.
type Store struct {
	mu     sync.Mutex
	days   map[string]core.Totals
	writes int
}

func New() *Store {
	return &Store{days: make(map[string]core.Totals)}
}

// UpsertDayTotals stores totals under date and returns a synthetic row reference.
func (s *Store) UpsertDayTotals(_ context.Context, date core.Date, totals core.Totals) (string, error) {
	if err := date.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[date.String()] = totals
	s.writes++
	return fmt.Sprintf("mem:%s", date.String()), nil
}

// DayTotals returns the last totals written for date.
func (s *Store) DayTotals(date core.Date) (core.Totals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.days[date.String()]
	return t, ok
}

// Len returns the number of distinct days stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.days)
}

// Writes returns how many upserts were accepted.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
