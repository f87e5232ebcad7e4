package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"max.ks1230/expenses-bot/internal/entity/expense"
)

const (
	expensesFile = "expenses.json"
	goalsFile    = "goals.json"
	salariesFile = "salaries.json"
)

// CorruptDataError reports a collection file that exists but fails to parse.
// Readers substitute an empty collection; writers abort so the unparseable
// content is never overwritten.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data in %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// ExpenseFileStore keeps the whole expense collection as one JSON array and
// rewrites it on every mutation. The mutex serializes read-modify-write
// cycles; two interleaved writers would lose updates otherwise.
type ExpenseFileStore struct {
	mu     sync.Mutex
	path   string
	lastID int64
}

func NewExpenseFileStore(dir string) *ExpenseFileStore {
	return &ExpenseFileStore{path: filepath.Join(dir, expensesFile)}
}

// Load returns the full collection. A missing or empty file is an empty
// collection. Records lacking an id are assigned one past the current
// maximum and the repaired collection is written back once, so a second
// load performs no further writes.
func (s *ExpenseFileStore) Load(_ context.Context) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ExpenseFileStore) loadLocked() ([]expense.Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []expense.Record{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read expenses")
	}
	if strings.TrimSpace(string(data)) == "" {
		return []expense.Record{}, nil
	}

	var records []expense.Record
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, &CorruptDataError{Path: s.path, Err: err}
	}

	var maxID int64
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}

	patched := false
	for i := range records {
		if records[i].ID == 0 {
			maxID++
			records[i].ID = maxID
			patched = true
		}
	}
	if maxID > s.lastID {
		s.lastID = maxID
	}

	if patched {
		if err = saveJSON(s.path, records); err != nil {
			return nil, errors.Wrap(err, "migrate expenses")
		}
	}
	return records, nil
}

// Create allocates the next id and persists the appended collection. Ids
// strictly exceed every id this store has seen, so deleting the newest
// record never recycles its id.
func (s *ExpenseFileStore) Create(_ context.Context, rec expense.Record) (expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "create expense")
	}

	s.lastID++
	rec.ID = s.lastID
	records = append(records, rec)

	if err = saveJSON(s.path, records); err != nil {
		return expense.Record{}, errors.Wrap(err, "create expense")
	}
	return rec, nil
}

func (s *ExpenseFileStore) ListByUser(_ context.Context, userID int64) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}

	res := make([]expense.Record, 0)
	for _, rec := range records {
		if rec.UserID == userID {
			res = append(res, rec)
		}
	}
	return res, nil
}

// Update patches the record matching both userID and id and returns it, or
// returns nil without touching storage when nothing matches.
func (s *ExpenseFileStore) Update(_ context.Context, userID, id int64, upd expense.Update) (*expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return nil, errors.Wrap(err, "update expense")
	}

	for i := range records {
		if records[i].UserID != userID || records[i].ID != id {
			continue
		}
		upd.ApplyTo(&records[i])
		if err = saveJSON(s.path, records); err != nil {
			return nil, errors.Wrap(err, "update expense")
		}
		rec := records[i]
		return &rec, nil
	}
	return nil, nil
}

func (s *ExpenseFileStore) Delete(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return false, errors.Wrap(err, "delete expense")
	}

	for i := range records {
		if records[i].UserID != userID || records[i].ID != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		if err = saveJSON(s.path, records); err != nil {
			return false, errors.Wrap(err, "delete expense")
		}
		return true, nil
	}
	return false, nil
}

func (s *ExpenseFileStore) ResetUser(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return 0, errors.Wrap(err, "reset expenses")
	}

	kept := records[:0]
	removed := 0
	for _, rec := range records {
		if rec.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return 0, nil
	}

	if err = saveJSON(s.path, kept); err != nil {
		return 0, errors.Wrap(err, "reset expenses")
	}
	return removed, nil
}

type goalEntry struct {
	Monthly expense.Amount `json:"monthly"`
}

// GoalFileStore maps userId (as text) to the monthly spending limit.
type GoalFileStore struct {
	mu   sync.Mutex
	path string
}

func NewGoalFileStore(dir string) *GoalFileStore {
	return &GoalFileStore{path: filepath.Join(dir, goalsFile)}
}

func (s *GoalFileStore) SetMonthlyGoal(_ context.Context, userID int64, amount expense.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadMap[goalEntry](s.path)
	if err != nil {
		return errors.Wrap(err, "set goal")
	}
	goals[userKey(userID)] = goalEntry{Monthly: amount}
	return errors.Wrap(saveJSON(s.path, goals), "set goal")
}

func (s *GoalFileStore) GetMonthlyGoal(_ context.Context, userID int64) (expense.Amount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := loadMap[goalEntry](s.path)
	if err != nil {
		return 0, false, errors.Wrap(err, "get goal")
	}
	entry, ok := goals[userKey(userID)]
	return entry.Monthly, ok, nil
}

// SalaryFileStore maps userId (as text) to a single salary amount.
type SalaryFileStore struct {
	mu   sync.Mutex
	path string
}

func NewSalaryFileStore(dir string) *SalaryFileStore {
	return &SalaryFileStore{path: filepath.Join(dir, salariesFile)}
}

func (s *SalaryFileStore) SetSalary(_ context.Context, userID int64, amount expense.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	salaries, err := loadMap[expense.Amount](s.path)
	if err != nil {
		return errors.Wrap(err, "set salary")
	}
	salaries[userKey(userID)] = amount
	return errors.Wrap(saveJSON(s.path, salaries), "set salary")
}

func (s *SalaryFileStore) GetSalary(_ context.Context, userID int64) (expense.Amount, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	salaries, err := loadMap[expense.Amount](s.path)
	if err != nil {
		return 0, false, errors.Wrap(err, "get salary")
	}
	amount, ok := salaries[userKey(userID)]
	return amount, ok, nil
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func loadMap[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]T{}, nil
	}

	res := make(map[string]T)
	if err = json.Unmarshal(data, &res); err != nil {
		return nil, &CorruptDataError{Path: path, Err: err}
	}
	return res, nil
}

// saveJSON replaces the file in one rename so readers never observe a
// truncated collection.
func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
