// Package ledger holds the authoritative list of transactions and keeps it
// in step with a store.Store: every mutation writes the whole snapshot back.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/voidshard/budget/pkg/domain"
	"github.com/voidshard/budget/pkg/store"
)

var (
	ErrCorruptStore  = errors.New("corrupt store")
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidInput)
)

const (
	// amounts are capped so totals and minor-unit formatting stay inside int64
	maxAmountExp = 15
	maxScale     = 12
)

var maxAmount = decimal.New(1, maxAmountExp)

// Patch lists the fields Update should replace. Nil or blank fields are
// left as they are.
type Patch struct {
	Kind        *string
	Description *string
	Amount      *string
}

type Ledger struct {
	store store.Store
	snap  *domain.Snapshot

	// now is swapped in tests
	now func() time.Time
}

// Open loads the ledger held by s.
func Open(s store.Store) (*Ledger, error) {
	snap, err := s.Read()
	if errors.Is(err, store.ErrCorrupt) {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if err != nil {
		return nil, err
	}

	repair(snap)

	log.Debug().Int("transactions", len(snap.Transactions)).Int64("next_id", snap.NextID).Msg("ledger loaded")
	return &Ledger{store: s, snap: snap, now: time.Now}, nil
}

// repair restores the id invariants on a freshly read snapshot: the counter
// is ahead of every id, and no two records share an id.
func repair(snap *domain.Snapshot) {
	if highest := snap.MaxID(); snap.NextID <= highest {
		snap.NextID = highest + 1
	}

	seen := map[int64]bool{}
	for _, t := range snap.Transactions {
		if t.ID > 0 && !seen[t.ID] {
			seen[t.ID] = true
			continue
		}
		old := t.ID
		t.ID = snap.NextID
		snap.NextID++
		seen[t.ID] = true
		log.Warn().Int64("old_id", old).Int64("new_id", t.ID).Msg("reassigned duplicate or invalid transaction id")
	}
}

// Add records a new transaction and persists the ledger.
func (l *Ledger) Add(kind, description, amount string) (*domain.Transaction, error) {
	k, ok := domain.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: kind %q, expected %s or %s", ErrInvalidInput, kind, domain.Income, domain.Expense)
	}
	amt, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		ID:          l.snap.NextID,
		Kind:        k,
		Description: strings.TrimSpace(description),
		Amount:      amt,
		CreatedAt:   l.now().UTC(),
	}

	l.snap.Transactions = append(l.snap.Transactions, t)
	l.snap.NextID++
	if err := l.persist(); err != nil {
		l.snap.Transactions = l.snap.Transactions[:len(l.snap.Transactions)-1]
		l.snap.NextID--
		return nil, err
	}

	log.Debug().Int64("id", t.ID).Msg("added transaction")
	c := *t
	return &c, nil
}

// Remove deletes the transaction with the given id and persists the ledger.
func (l *Ledger) Remove(id int64) (*domain.Transaction, error) {
	i := l.find(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	before := l.snap.Transactions
	removed := before[i]

	kept := make([]*domain.Transaction, 0, len(before)-1)
	kept = append(kept, before[:i]...)
	kept = append(kept, before[i+1:]...)

	l.snap.Transactions = kept
	if err := l.persist(); err != nil {
		l.snap.Transactions = before
		return nil, err
	}

	log.Debug().Int64("id", id).Msg("removed transaction")
	c := *removed
	return &c, nil
}

// Update replaces the patched fields of a transaction and persists the
// ledger. Either every supplied field is applied or none is.
func (l *Ledger) Update(id int64, p Patch) (*domain.Transaction, error) {
	i := l.find(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	current := l.snap.Transactions[i]
	next := *current

	if v, ok := given(p.Kind); ok {
		k, valid := domain.ParseKind(v)
		if !valid {
			return nil, fmt.Errorf("%w: kind %q, expected %s or %s", ErrInvalidInput, v, domain.Income, domain.Expense)
		}
		next.Kind = k
	}
	if v, ok := given(p.Description); ok {
		next.Description = v
	}
	if v, ok := given(p.Amount); ok {
		amt, err := ParseAmount(v)
		if err != nil {
			return nil, err
		}
		next.Amount = amt
	}

	l.snap.Transactions[i] = &next
	if err := l.persist(); err != nil {
		l.snap.Transactions[i] = current
		return nil, err
	}

	log.Debug().Int64("id", id).Msg("updated transaction")
	c := next
	return &c, nil
}

// Get returns a copy of the transaction with the given id.
func (l *Ledger) Get(id int64) (*domain.Transaction, error) {
	i := l.find(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	c := *l.snap.Transactions[i]
	return &c, nil
}

// List returns copies of every transaction in insertion order.
func (l *Ledger) List() []domain.Transaction {
	out := make([]domain.Transaction, 0, len(l.snap.Transactions))
	for _, t := range l.snap.Transactions {
		out = append(out, *t)
	}
	return out
}

// Balance sums income and expenses. Records with any other kind only show
// up in Skipped.
func (l *Ledger) Balance() domain.Balance {
	b := domain.Sum(l.snap.Transactions)
	if b.Skipped > 0 {
		log.Warn().Int("skipped", b.Skipped).Msg("transactions with an unknown kind were left out of the balance")
	}
	return b
}

// Close releases the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// ParseAmount accepts plain decimal text such as "12", "12.50" or "1e3".
// Blank, negative and non-numeric values are rejected, as are values above
// 10^15 or with more than 12 decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}

	// check the exponent before comparing: Cmp rescales, which is costly
	// for inputs like "1e10000000"
	if d.Exponent() > maxAmountExp || d.Exponent() < -maxScale || d.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return d, nil
}

func (l *Ledger) find(id int64) int {
	for i, t := range l.snap.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) persist() error {
	if err := l.store.Write(l.snap); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func given(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
