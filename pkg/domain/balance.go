package domain

import (
	"github.com/shopspring/decimal"
)

// Balance is the aggregate of a set of transactions.
type Balance struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`

	// Skipped counts records whose kind is neither income nor expense;
	// they contribute to neither total.
	Skipped int `json:"skipped"`
}

// Sum folds txns into a Balance.
func Sum(txns []*Transaction) Balance {
	b := Balance{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range txns {
		switch t.Kind {
		case Income:
			b.Income = b.Income.Add(t.Amount)
		case Expense:
			b.Expenses = b.Expenses.Add(t.Amount)
		default:
			b.Skipped++
		}
	}
	b.Balance = b.Income.Sub(b.Expenses)
	return b
}
