package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSumEmpty(t *testing.T) {
	b := Sum(nil)

	assert.True(t, b.Income.IsZero())
	assert.True(t, b.Expenses.IsZero())
	assert.True(t, b.Balance.IsZero())
	assert.Equal(t, 0, b.Skipped)
}

func TestSum(t *testing.T) {
	b := Sum([]*Transaction{
		&Transaction{ID: 1, Kind: Income, Amount: decimal.NewFromInt(1000)},
		&Transaction{ID: 2, Kind: Expense, Amount: decimal.NewFromInt(400)},
		&Transaction{ID: 3, Kind: Expense, Amount: decimal.RequireFromString("0.10")},
		&Transaction{ID: 4, Kind: Kind("transfer"), Amount: decimal.NewFromInt(50)},
	})

	assert.True(t, b.Income.Equal(decimal.NewFromInt(1000)))
	assert.True(t, b.Expenses.Equal(decimal.RequireFromString("400.10")))
	assert.True(t, b.Balance.Equal(decimal.RequireFromString("599.90")))
	assert.Equal(t, 1, b.Skipped)
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in    string
		kind  Kind
		valid bool
	}{
		{"income", Income, true},
		{" Expense ", Expense, true},
		{"INCOME", Income, true},
		{"", Kind(""), false},
		{"transfer", Kind("transfer"), false},
	}

	for _, c := range cases {
		k, ok := ParseKind(c.in)
		assert.Equal(t, c.kind, k, c.in)
		assert.Equal(t, c.valid, ok, c.in)
	}
}

func TestMaxID(t *testing.T) {
	snap := NewSnapshot()
	assert.Equal(t, int64(0), snap.MaxID())
	assert.Equal(t, int64(1), snap.NextID)

	snap.Transactions = []*Transaction{{ID: 3}, {ID: 7}, {ID: 2}}
	assert.Equal(t, int64(7), snap.MaxID())
}
