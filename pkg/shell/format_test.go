package shell

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/voidshard/budget/pkg/domain"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		In   string
		Code string
		Want string
	}{
		{"1000", "USD", "$1,000.00"},
		{"0", "USD", "$0.00"},
		{"3.456", "USD", "$3.46"},
		{"1234567.5", "USD", "$1,234,567.50"},
		{"12.5", "ZZZ", "12.5 ZZZ"},
		{"1e20", "USD", "100000000000000000000 USD"},
		{"-1e20", "USD", "-100000000000000000000 USD"},
		{"92233720368547758.07", "USD", "$92,233,720,368,547,758.07"},
		{"92233720368547758.08", "USD", "92233720368547758.08 USD"},
	}

	for _, c := range cases {
		got := FormatAmount(decimal.RequireFromString(c.In), c.Code)
		assert.Equal(t, c.Want, got, c.In)
	}
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("USD"))
	assert.True(t, ValidCurrency("EUR"))
	assert.False(t, ValidCurrency("ZZZ"))
}

func TestFormatTransaction(t *testing.T) {
	txn := domain.Transaction{
		ID:          7,
		Kind:        domain.Expense,
		Description: "Rent",
		Amount:      decimal.NewFromInt(400),
		CreatedAt:   time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, "[7] 2024-03-01T09:30:00Z: Rent - expense of $400.00", FormatTransaction(txn, "USD"))
}

func TestWriteTransactionsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteTransactions(buf, nil, "USD")
	assert.Equal(t, "No transactions found.\n", buf.String())
}

func TestFormatBalanceSkipped(t *testing.T) {
	b := domain.Balance{
		Income:   decimal.NewFromInt(50),
		Expenses: decimal.Zero,
		Balance:  decimal.NewFromInt(50),
		Skipped:  1,
	}

	got := FormatBalance(b, "USD")
	assert.Equal(t, "Total Income: $50.00\nTotal Expenses: $0.00\nBalance: $50.00\n(1 transaction(s) with an unknown kind were not counted)\n", got)
}

func TestFormatBalanceBeyondMinorUnits(t *testing.T) {
	huge := decimal.New(9, 17)
	b := domain.Sum([]*domain.Transaction{
		{Kind: domain.Income, Amount: huge},
		{Kind: domain.Income, Amount: huge},
	})

	got := FormatBalance(b, "USD")
	assert.Contains(t, got, "Total Income: 1800000000000000000 USD\n")
	assert.Contains(t, got, "Total Expenses: $0.00\n")
}
