package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-bot/internal/entity/expense"
)

func newRecord(userID int64, category string, amount expense.Amount) expense.Record {
	return expense.Record{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Created:  time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC),
	}
}

func Test_OnCreate_ShouldAllocateGrowingIDsAndNeverReuseThem(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseFileStore(t.TempDir())

	r1, err := s.Create(ctx, newRecord(1, "food", 1000))
	require.NoError(t, err)
	r2, err := s.Create(ctx, newRecord(1, "food", 550))
	require.NoError(t, err)
	r3, err := s.Create(ctx, newRecord(2, "transport", 325))
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.ID)
	assert.Equal(t, int64(2), r2.ID)
	assert.Equal(t, int64(3), r3.ID)

	removed, err := s.Delete(ctx, 2, 3)
	require.NoError(t, err)
	require.True(t, removed)

	r4, err := s.Create(ctx, newRecord(1, "food", 100))
	require.NoError(t, err)
	assert.Equal(t, int64(4), r4.ID)
}

func Test_OnLoad_ShouldBackfillMissingIDsOnce(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, expensesFile)

	legacy := `[
		{"id": 5, "userId": 1, "category": "food", "amount": 15.9, "date": "2024-03-13T10:00:00Z"},
		{"userId": 1, "category": "transport", "amount": 3.25, "date": "2024-03-13T11:00:00Z"},
		{"userId": 2, "category": "rent", "amount": 700, "date": "2024-03-01T09:00:00Z"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := NewExpenseFileStore(dir)
	records, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, int64(5), records[0].ID)
	assert.Equal(t, int64(6), records[1].ID)
	assert.Equal(t, int64(7), records[2].ID)
	assert.Equal(t, expense.Amount(1590), records[0].Amount)
	assert.Equal(t, expense.Amount(325), records[1].Amount)
	assert.Equal(t, expense.Amount(70000), records[2].Amount)

	repaired, err := os.ReadFile(path)
	require.NoError(t, err)

	// second load reads the repaired file and changes nothing
	again, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, int64(7), again[2].ID)

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(repaired), string(unchanged))

	// new ids start past the migrated maximum
	created, err := s.Create(ctx, newRecord(1, "food", 100))
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID)
}

func Test_OnUpdate_ShouldPatchOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseFileStore(t.TempDir())

	rec := newRecord(1, "food", 1590)
	rec.Description = "burger"
	created, err := s.Create(ctx, rec)
	require.NoError(t, err)

	amount := expense.Amount(2000)
	updated, err := s.Update(ctx, 1, created.ID, expense.Update{Amount: &amount})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, expense.Amount(2000), updated.Amount)
	assert.Equal(t, "food", updated.Category)
	assert.Equal(t, "burger", updated.Description)

	listed, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *updated, listed[0])

	// wrong owner or unknown id leaves the collection alone
	missing, err := s.Update(ctx, 2, created.ID, expense.Update{Amount: &amount})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func Test_OnDelete_ShouldMatchUserAndIDTogether(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, expensesFile)

	// both users carry id 5; only the addressed pair goes away
	seeded := `[
		{"id": 5, "userId": 1, "category": "food", "amount": "10.00", "date": "2024-03-13T10:00:00Z"},
		{"id": 5, "userId": 2, "category": "rent", "amount": "700.00", "date": "2024-03-01T09:00:00Z"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(seeded), 0o644))

	s := NewExpenseFileStore(dir)

	removed, err := s.Delete(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, removed)

	mine, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := s.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "rent", theirs[0].Category)

	removed, err = s.Delete(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, removed)
}

func Test_OnResetUser_ShouldRemoveOnlyThatUser(t *testing.T) {
	ctx := context.Background()
	s := NewExpenseFileStore(t.TempDir())

	_, err := s.Create(ctx, newRecord(1, "food", 1000))
	require.NoError(t, err)
	_, err = s.Create(ctx, newRecord(1, "transport", 325))
	require.NoError(t, err)
	_, err = s.Create(ctx, newRecord(2, "rent", 70000))
	require.NoError(t, err)

	removed, err := s.ResetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	mine, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := s.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	removed, err = s.ResetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func Test_OnCorruptFile_ShouldFailAndKeepTheFileIntact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, expensesFile)

	corrupt := `{"definitely": "not an array"`
	require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o644))

	s := NewExpenseFileStore(dir)

	_, err := s.Load(ctx)
	var corruptErr *CorruptDataError
	require.ErrorAs(t, err, &corruptErr)
	assert.Equal(t, path, corruptErr.Path)

	_, err = s.ListByUser(ctx, 1)
	assert.ErrorAs(t, err, &corruptErr)

	_, err = s.Create(ctx, newRecord(1, "food", 100))
	assert.ErrorAs(t, err, &corruptErr)

	_, err = s.Delete(ctx, 1, 1)
	assert.ErrorAs(t, err, &corruptErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, string(data))
}

func Test_OnMissingOrEmptyFile_ShouldReturnEmptyCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := NewExpenseFileStore(dir)

	records, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, os.WriteFile(filepath.Join(dir, expensesFile), []byte("  \n"), 0o644))

	records, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func Test_OnGoalStore_ShouldRoundTripPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewGoalFileStore(t.TempDir())

	_, ok, err := s.GetMonthlyGoal(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMonthlyGoal(ctx, 1, 10000))
	require.NoError(t, s.SetMonthlyGoal(ctx, 2, 50000))

	goal, ok, err := s.GetMonthlyGoal(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, expense.Amount(10000), goal)

	// overwrite replaces the previous value
	require.NoError(t, s.SetMonthlyGoal(ctx, 1, 20000))
	goal, ok, err = s.GetMonthlyGoal(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, expense.Amount(20000), goal)
}

func Test_OnSalaryStore_ShouldRoundTripPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewSalaryFileStore(t.TempDir())

	_, ok, err := s.GetSalary(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetSalary(ctx, 7, 300000))

	salary, ok, err := s.GetSalary(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, expense.Amount(300000), salary)
}

func Test_OnCorruptGoalsFile_ShouldNotOverwriteIt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, goalsFile)

	corrupt := `[1, 2, 3`
	require.NoError(t, os.WriteFile(path, []byte(corrupt), 0o644))

	s := NewGoalFileStore(dir)

	err := s.SetMonthlyGoal(ctx, 1, 10000)
	var corruptErr *CorruptDataError
	require.ErrorAs(t, err, &corruptErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, string(data))
}
