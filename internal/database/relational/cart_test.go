package relational

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	client, err := NewDuckDBClient("")
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	repo := NewRepo(client.DB())
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return repo
}

func TestRepo_AddLineAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	pizza := CartLine{UserName: "asha", ItemID: "1", ItemName: "Pizza", Category: "Main", UnitPrice: decimal.RequireFromString("9.50")}
	cola := CartLine{UserName: "asha", ItemID: "2", ItemName: "Cola", UnitPrice: decimal.RequireFromString("1.20")}

	if _, err := repo.AddLine(ctx, pizza); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	if _, err := repo.AddLine(ctx, cola); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	got, err := repo.AddLine(ctx, pizza)
	if err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	if got.Quantity != 2 {
		t.Errorf("Expected pizza quantity 2, got %d", got.Quantity)
	}

	lines, err := repo.Lines(ctx, "asha")
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0].ItemName != "Pizza" || lines[1].ItemName != "Cola" {
		t.Errorf("Expected insertion order Pizza, Cola; got %s, %s", lines[0].ItemName, lines[1].ItemName)
	}
	if !lines[0].Total().Equal(decimal.RequireFromString("19")) {
		t.Errorf("Expected pizza total 19, got %s", lines[0].Total())
	}
	if lines[1].Category != "" {
		t.Errorf("Expected empty category for Cola, got %q", lines[1].Category)
	}

	other, err := repo.Lines(ctx, "ben")
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected carts to be per user, got %d lines for ben", len(other))
	}
}

func TestRepo_Clear(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.AddLine(ctx, CartLine{UserName: "asha", ItemID: "1", ItemName: "Pizza", UnitPrice: decimal.NewFromInt(9)}); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	if err := repo.Clear(ctx, "asha"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	lines, err := repo.Lines(ctx, "asha")
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected empty cart after Clear, got %d lines", len(lines))
	}
}

func TestRepo_AddLineValidation(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.AddLine(context.Background(), CartLine{ItemID: "1"}); err == nil {
		t.Error("Expected error for missing user")
	}
}
