package shell

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/voidshard/budget/pkg/domain"
)

const DefaultCurrency = "USD"

// int64 holds 19 digits
const maxMinorExp = 18

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ValidCurrency reports whether code is an ISO 4217 code we can format.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// FormatAmount renders d in the given currency, eg. "$1,000.00". Values are
// rounded to the currency's minor unit.
func FormatAmount(d decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", d.String(), code)
	}

	minor := d.Shift(int32(cur.Fraction))
	if minor.Exponent() > maxMinorExp {
		return fmt.Sprintf("%s %s", d.String(), code)
	}
	minor = minor.Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		// go-money counts in int64 minor units
		return fmt.Sprintf("%s %s", d.String(), code)
	}
	return cur.Formatter().Format(minor.IntPart())
}

// FormatTransaction renders a single list line.
func FormatTransaction(t domain.Transaction, code string) string {
	return fmt.Sprintf(
		"[%d] %s: %s - %s of %s",
		t.ID,
		t.CreatedAt.Format(time.RFC3339),
		t.Description,
		t.Kind,
		FormatAmount(t.Amount, code),
	)
}

// WriteTransactions prints one line per transaction, or a notice when there
// are none.
func WriteTransactions(w io.Writer, txns []domain.Transaction, code string) {
	if len(txns) == 0 {
		fmt.Fprintln(w, "No transactions found.")
		return
	}
	for _, t := range txns {
		fmt.Fprintln(w, FormatTransaction(t, code))
	}
}

// FormatBalance renders the three balance lines, plus a note when records
// were left out.
func FormatBalance(b domain.Balance, code string) string {
	out := fmt.Sprintf(
		"Total Income: %s\nTotal Expenses: %s\nBalance: %s\n",
		FormatAmount(b.Income, code),
		FormatAmount(b.Expenses, code),
		FormatAmount(b.Balance, code),
	)
	if b.Skipped > 0 {
		out += fmt.Sprintf("(%d transaction(s) with an unknown kind were not counted)\n", b.Skipped)
	}
	return out
}
