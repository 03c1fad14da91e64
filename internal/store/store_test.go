package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogExpenseAndReport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.LogExpense(ctx, "groceries", 45.50, "march"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "groceries", 10, "march"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "transport", 20, "march"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "groceries", 99, "april"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}

	report, err := s.ExpenseReport(ctx, "march")
	if err != nil {
		t.Fatalf("ExpenseReport failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("report has %d categories, want 2", len(report))
	}
	if math.Abs(report["groceries"]-55.50) > 1e-9 {
		t.Errorf("groceries total = %f, want 55.50", report["groceries"])
	}
	if report["transport"] != 20 {
		t.Errorf("transport total = %f, want 20", report["transport"])
	}
}

func TestSetBudgetAccumulates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetBudget(ctx, "groceries", 100, "march"); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	if err := s.SetBudget(ctx, "groceries", 50, "march"); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}

	remaining, err := s.RemainingBudget(ctx, "march")
	if err != nil {
		t.Fatalf("RemainingBudget failed: %v", err)
	}
	if remaining["groceries"] != 150 {
		t.Errorf("budget = %f, want accumulated 150", remaining["groceries"])
	}
}

func TestRemainingBudgetSubtractsExpenses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetBudget(ctx, "transport", 200, "june"); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	if err := s.LogExpense(ctx, "transport", 60, "june"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "transport", 15.25, "june"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	// Expenses in another month or category do not count.
	if err := s.LogExpense(ctx, "transport", 500, "july"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "groceries", 500, "june"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}

	remaining, err := s.RemainingBudget(ctx, "june")
	if err != nil {
		t.Fatalf("RemainingBudget failed: %v", err)
	}
	if math.Abs(remaining["transport"]-124.75) > 1e-9 {
		t.Errorf("remaining = %f, want 124.75", remaining["transport"])
	}
	if _, ok := remaining["groceries"]; ok {
		t.Error("unbudgeted category appeared in remaining budget")
	}
}

func TestTotalsByCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.LogExpense(ctx, "groceries", 30, "march"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "groceries", 70, "april"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}
	if err := s.LogExpense(ctx, "utilities", 40, "march"); err != nil {
		t.Fatalf("LogExpense failed: %v", err)
	}

	totals, err := s.TotalsByCategory(ctx)
	if err != nil {
		t.Fatalf("TotalsByCategory failed: %v", err)
	}
	if totals["groceries"] != 100 {
		t.Errorf("groceries = %f, want 100 across months", totals["groceries"])
	}
	if totals["utilities"] != 40 {
		t.Errorf("utilities = %f, want 40", totals["utilities"])
	}
}

func TestRemainingBudgetEmptyMonth(t *testing.T) {
	s := openTestStore(t)

	remaining, err := s.RemainingBudget(context.Background(), "december")
	if err != nil {
		t.Fatalf("RemainingBudget failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("remaining = %v, want empty map", remaining)
	}
}
