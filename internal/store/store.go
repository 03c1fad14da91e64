// Package store persists expenses and budgets in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS expenses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	category    TEXT NOT NULL,
	amount      REAL NOT NULL,
	month       TEXT NOT NULL,
	date_logged TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS budgets (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	amount   REAL NOT NULL,
	month    TEXT NOT NULL,
	UNIQUE (category, month)
);
`

// Store wraps the sqlite database holding expenses and budgets.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LogExpense records one expense.
func (s *Store) LogExpense(ctx context.Context, category string, amount float64, month string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (category, amount, month) VALUES (?, ?, ?)`,
		category, amount, month)
	if err != nil {
		return fmt.Errorf("store: failed to log expense: %w", err)
	}
	return nil
}

// ExpenseReport returns total spending per category for a month.
func (s *Store) ExpenseReport(ctx context.Context, month string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) FROM expenses WHERE month = ? GROUP BY category`,
		month)
	if err != nil {
		return nil, fmt.Errorf("store: expense report query failed: %w", err)
	}
	defer rows.Close()

	report := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		report[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return report, nil
}

// SetBudget adds amount to the budget for a category and month, creating
// the row if none exists. Repeated calls accumulate.
func (s *Store) SetBudget(ctx context.Context, category string, amount float64, month string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (category, amount, month) VALUES (?, ?, ?)
		 ON CONFLICT (category, month) DO UPDATE SET amount = amount + excluded.amount`,
		category, amount, month)
	if err != nil {
		return fmt.Errorf("store: failed to set budget: %w", err)
	}
	return nil
}

// TotalsByCategory returns all-time spending per category across every month.
func (s *Store) TotalsByCategory(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) FROM expenses GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("store: totals query failed: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		totals[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return totals, nil
}

// RemainingBudget returns, per budgeted category, the budget minus total
// expenses for a month. Categories without a budget row are absent.
func (s *Store) RemainingBudget(ctx context.Context, month string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.category, b.amount - COALESCE(SUM(e.amount), 0)
		 FROM budgets b
		 LEFT JOIN expenses e ON e.category = b.category AND e.month = b.month
		 WHERE b.month = ?
		 GROUP BY b.category, b.amount`,
		month)
	if err != nil {
		return nil, fmt.Errorf("store: budget query failed: %w", err)
	}
	defer rows.Close()

	remaining := make(map[string]float64)
	for rows.Next() {
		var category string
		var left float64
		if err := rows.Scan(&category, &left); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		remaining[category] = left
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return remaining, nil
}
