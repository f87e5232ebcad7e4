package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"max.ks1230/expenses-bot/internal/entity/expense"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

// PostgresStorage is the database-backed alternative to the file stores.
// Ids come from a sequence, so monotonic allocation and the no-reuse rule
// hold without the file store's high-water mark.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) Load(ctx context.Context) ([]expense.Record, error) {
	query := psql.Select("id", "user_id", "category", "amount", "description", "created_at").
		From("expenses").
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load expenses")
	}
	return scanExpenses(rows)
}

func (s *PostgresStorage) Create(ctx context.Context, rec expense.Record) (expense.Record, error) {
	query := psql.Insert("expenses").
		Columns("user_id", "category", "amount", "description", "created_at").
		Values(rec.UserID, rec.Category, int64(rec.Amount), rec.Description, rec.Created).
		Suffix("RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&rec.ID)
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "create expense")
	}
	return rec, nil
}

func (s *PostgresStorage) ListByUser(ctx context.Context, userID int64) ([]expense.Record, error) {
	query := psql.Select("id", "user_id", "category", "amount", "description", "created_at").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list expenses")
	}
	return scanExpenses(rows)
}

func (s *PostgresStorage) Update(ctx context.Context, userID, id int64, upd expense.Update) (*expense.Record, error) {
	set := make(map[string]interface{})
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Amount != nil {
		set["amount"] = int64(*upd.Amount)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if len(set) == 0 {
		return nil, nil
	}

	query := psql.Update("expenses").
		SetMap(set).
		Where(sq.Eq{"user_id": userID, "id": id}).
		Suffix("RETURNING id, user_id, category, amount, description, created_at")

	var rec expense.Record
	var amount int64
	err := query.RunWith(s.db).QueryRowContext(ctx).
		Scan(&rec.ID, &rec.UserID, &rec.Category, &amount, &rec.Description, &rec.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "update expense")
	}
	rec.Amount = expense.Amount(amount)
	return &rec, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, userID, id int64) (bool, error) {
	query := psql.Delete("expenses").
		Where(sq.Eq{"user_id": userID, "id": id})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return false, errors.Wrap(err, "delete expense")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete expense")
	}
	return n > 0, nil
}

func (s *PostgresStorage) ResetUser(ctx context.Context, userID int64) (int, error) {
	query := psql.Delete("expenses").
		Where(sq.Eq{"user_id": userID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "reset expenses")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reset expenses")
	}
	return int(n), nil
}

func (s *PostgresStorage) SetMonthlyGoal(ctx context.Context, userID int64, amount expense.Amount) error {
	return s.setUserAmount(ctx, userID, "monthly_limit", amount)
}

func (s *PostgresStorage) GetMonthlyGoal(ctx context.Context, userID int64) (expense.Amount, bool, error) {
	return s.getUserAmount(ctx, userID, "monthly_limit")
}

func (s *PostgresStorage) SetSalary(ctx context.Context, userID int64, amount expense.Amount) error {
	return s.setUserAmount(ctx, userID, "salary", amount)
}

func (s *PostgresStorage) GetSalary(ctx context.Context, userID int64) (expense.Amount, bool, error) {
	return s.getUserAmount(ctx, userID, "salary")
}

func (s *PostgresStorage) setUserAmount(ctx context.Context, userID int64, column string, amount expense.Amount) error {
	query := psql.Insert("users").
		Columns("id", column).
		Values(userID, int64(amount)).
		Suffix(fmt.Sprintf("ON CONFLICT(id) DO UPDATE SET %s = ?", column), int64(amount))

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save user "+column)
}

func (s *PostgresStorage) getUserAmount(ctx context.Context, userID int64, column string) (expense.Amount, bool, error) {
	query := psql.Select(column).
		From("users").
		Where(sq.Eq{"id": userID})

	var amount sql.NullInt64
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "get user "+column)
	}
	if !amount.Valid || amount.Int64 == 0 {
		return 0, false, nil
	}
	return expense.Amount(amount.Int64), true, nil
}

func scanExpenses(rows *sql.Rows) ([]expense.Record, error) {
	defer rows.Close()

	res := make([]expense.Record, 0)
	for rows.Next() {
		var rec expense.Record
		var amount int64
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.Category, &amount, &rec.Description, &rec.Created)
		if err != nil {
			return nil, errors.Wrap(err, "scan expense")
		}
		rec.Amount = expense.Amount(amount)
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "scan expenses")
	}
	return res, nil
}
