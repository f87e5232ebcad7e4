package storage

import (
	"context"

	"max.ks1230/expenses-bot/internal/entity/expense"
)

// Storage is the full contract shared by the file, memory and postgres
// backends. The drivers are interchangeable; main picks one from config.
type Storage interface {
	Load(ctx context.Context) ([]expense.Record, error)
	Create(ctx context.Context, rec expense.Record) (expense.Record, error)
	ListByUser(ctx context.Context, userID int64) ([]expense.Record, error)
	Update(ctx context.Context, userID, id int64, upd expense.Update) (*expense.Record, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	ResetUser(ctx context.Context, userID int64) (int, error)

	SetMonthlyGoal(ctx context.Context, userID int64, amount expense.Amount) error
	GetMonthlyGoal(ctx context.Context, userID int64) (expense.Amount, bool, error)
	SetSalary(ctx context.Context, userID int64, amount expense.Amount) error
	GetSalary(ctx context.Context, userID int64) (expense.Amount, bool, error)
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*PostgresStorage)(nil)
)
