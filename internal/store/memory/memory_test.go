package memory

import (
	"context"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

var _ store.Store = (*Store)(nil)

func expense(day int, cat string, cents int64) core.Expense {
	return core.Expense{Date: core.NewDate(2024, 1, day), Category: cat, Amount: core.Money{Cents: cents}}
}

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, expense(5, "Food", 1250))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}
	if _, err := s.Append(ctx, expense(20, "Transport", 800)); err != nil {
		t.Fatalf("append: %v", err)
	}

	items, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	// Insertion order preserved
	if items[0].Category != "Food" || items[1].Category != "Transport" {
		t.Fatalf("order wrong: %+v", items)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Expense{}); err == nil {
		t.Fatal("invalid expense accepted")
	}
	items, _ := s.ListAll(context.Background())
	if len(items) != 0 {
		t.Fatal("rejected expense must not be stored")
	}
}

func TestReplaceAppendReset(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Append(ctx, expense(1, "Old", 100)); err != nil {
		t.Fatal(err)
	}

	if err := s.ReplaceAll(ctx, []core.Expense{expense(2, "A", 200), expense(3, "B", 300)}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	items, _ := s.ListAll(ctx)
	if len(items) != 2 || items[0].Category != "A" {
		t.Fatalf("replace result: %+v", items)
	}

	if err := s.AppendAll(ctx, []core.Expense{expense(4, "C", 400)}); err != nil {
		t.Fatalf("append all: %v", err)
	}
	items, _ = s.ListAll(ctx)
	if len(items) != 3 || items[2].Category != "C" {
		t.Fatalf("append result: %+v", items)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	items, _ = s.ListAll(ctx)
	if len(items) != 0 {
		t.Fatalf("reset left %d rows", len(items))
	}
}

func TestBudget(t *testing.T) {
	s := New()
	ctx := context.Background()

	b, err := s.Budget(ctx)
	if err != nil || b != core.DefaultBudgetCents {
		t.Fatalf("default budget = %d, %v", b, err)
	}

	if err := s.SetBudget(ctx, 50000); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	b, _ = s.Budget(ctx)
	if b != 50000 {
		t.Fatalf("budget = %d, want 50000", b)
	}

	if err := s.SetBudget(ctx, -1); err == nil {
		t.Fatal("negative budget accepted")
	}
}

func TestVersionBumpsOnMutation(t *testing.T) {
	s := New()
	ctx := context.Background()

	v0, _ := s.Version(ctx)
	if _, err := s.Append(ctx, expense(1, "A", 100)); err != nil {
		t.Fatal(err)
	}
	v1, _ := s.Version(ctx)
	if v1 == v0 {
		t.Fatal("append must bump version")
	}

	_ = s.Reset(ctx)
	v2, _ := s.Version(ctx)
	if v2 == v1 {
		t.Fatal("reset must bump version")
	}

	// Reads do not bump
	_, _ = s.ListAll(ctx)
	v3, _ := s.Version(ctx)
	if v3 != v2 {
		t.Fatal("reads must not bump version")
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Append(ctx, expense(1, "A", 100)); err != nil {
		t.Fatal(err)
	}
	items, _ := s.ListAll(ctx)
	items[0].Category = "mutated"

	again, _ := s.ListAll(ctx)
	if again[0].Category != "A" {
		t.Fatal("ListAll must return a copy")
	}
}
