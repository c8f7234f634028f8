package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind says which side of the balance a transaction sits on.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// ParseKind normalises user input into a Kind. The second return is false
// for anything that isn't income or expense.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

type Transaction struct {
	ID          int64           `json:"id"`
	Kind        Kind            `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (t *Transaction) JSON() ([]byte, error) {
	return json.Marshal(t)
}

// Snapshot is everything a store persists: the records in insertion order
// plus the id counter, so ids survive deletes.
type Snapshot struct {
	NextID       int64          `json:"next_id"`
	Transactions []*Transaction `json:"transactions"`
}

// NewSnapshot returns an empty snapshot whose first id will be 1.
func NewSnapshot() *Snapshot {
	return &Snapshot{NextID: 1, Transactions: []*Transaction{}}
}

// MaxID returns the largest id in the snapshot, or 0 when empty.
func (s *Snapshot) MaxID() int64 {
	var highest int64
	for _, t := range s.Transactions {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}
