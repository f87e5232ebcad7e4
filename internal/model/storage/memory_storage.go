package storage

import (
	"context"
	"sync"

	"max.ks1230/expenses-bot/internal/entity/expense"
)

// MemoryStorage mirrors the file stores without touching disk. Used by the
// "memory" driver and as a test double.
type MemoryStorage struct {
	mu       sync.Mutex
	records  []expense.Record
	lastID   int64
	goals    map[int64]expense.Amount
	salaries map[int64]expense.Amount
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records:  make([]expense.Record, 0),
		goals:    make(map[int64]expense.Amount),
		salaries: make(map[int64]expense.Amount),
	}
}

func (s *MemoryStorage) Load(_ context.Context) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]expense.Record, len(s.records))
	copy(res, s.records)
	return res, nil
}

func (s *MemoryStorage) Create(_ context.Context, rec expense.Record) (expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	rec.ID = s.lastID
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *MemoryStorage) ListByUser(_ context.Context, userID int64) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]expense.Record, 0)
	for _, rec := range s.records {
		if rec.UserID == userID {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (s *MemoryStorage) Update(_ context.Context, userID, id int64, upd expense.Update) (*expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].UserID == userID && s.records[i].ID == id {
			upd.ApplyTo(&s.records[i])
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].UserID == userID && s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStorage) ResetUser(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return removed, nil
}

func (s *MemoryStorage) SetMonthlyGoal(_ context.Context, userID int64, amount expense.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals[userID] = amount
	return nil
}

func (s *MemoryStorage) GetMonthlyGoal(_ context.Context, userID int64) (expense.Amount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := s.goals[userID]
	return amount, ok, nil
}

func (s *MemoryStorage) SetSalary(_ context.Context, userID int64, amount expense.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.salaries[userID] = amount
	return nil
}

func (s *MemoryStorage) GetSalary(_ context.Context, userID int64) (expense.Amount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, ok := s.salaries[userID]
	return amount, ok, nil
}
