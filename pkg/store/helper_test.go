package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidshard/budget/pkg/domain"
)

func testSnapshot() *domain.Snapshot {
	created := time.Date(2024, 3, 1, 9, 30, 0, 123000000, time.UTC)
	return &domain.Snapshot{
		NextID: 5,
		Transactions: []*domain.Transaction{
			&domain.Transaction{ID: 1, Kind: domain.Income, Description: "Salary", Amount: decimal.NewFromInt(1000), CreatedAt: created},
			&domain.Transaction{ID: 3, Kind: domain.Expense, Description: "Rent", Amount: decimal.RequireFromString("400.50"), CreatedAt: created.Add(time.Hour)},
			&domain.Transaction{ID: 4, Kind: domain.Expense, Description: "Coffee, \"large\"", Amount: decimal.RequireFromString("3.2"), CreatedAt: created.Add(2 * time.Hour)},
		},
	}
}

// assertSnapshot compares snapshots field by field; decimals and times
// don't survive encoding with identical internals, only equal values.
func assertSnapshot(t *testing.T, want, got *domain.Snapshot) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.NextID, got.NextID)
	require.Equal(t, len(want.Transactions), len(got.Transactions))

	for i, w := range want.Transactions {
		g := got.Transactions[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Kind, g.Kind)
		assert.Equal(t, w.Description, g.Description)
		assert.True(t, w.Amount.Equal(g.Amount), "amount %s != %s", w.Amount, g.Amount)
		assert.True(t, w.CreatedAt.Equal(g.CreatedAt), "created %s != %s", w.CreatedAt, g.CreatedAt)
	}
}
