package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/voidshard/budget/pkg/domain"
)

const indent = "    "

func init() {
	// amounts are JSON numbers in every stored layout
	decimal.MarshalJSONWithoutQuotes = true
}

// legacyTransaction is a record in the older file layout: a bare JSON array
// with `type` and `date` fields and no id counter.
type legacyTransaction struct {
	ID          int64               `json:"id"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Amount      decimal.NullDecimal `json:"amount"`
	Date        time.Time           `json:"date"`
}

// Encode renders a snapshot as indented JSON.
func Encode(snap *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses either the current layout or the legacy array layout.
func Decode(data []byte) (*domain.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return decodeLegacy(data)
	}

	snap := &domain.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if snap.Transactions == nil {
		snap.Transactions = []*domain.Transaction{}
	}
	for i, t := range snap.Transactions {
		if t == nil {
			return nil, fmt.Errorf("%w: transaction %d is null", ErrCorrupt, i)
		}
	}
	return snap, nil
}

func decodeLegacy(data []byte) (*domain.Snapshot, error) {
	raw := []*legacyTransaction{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	snap := &domain.Snapshot{Transactions: make([]*domain.Transaction, 0, len(raw))}
	for i, l := range raw {
		if l == nil {
			return nil, fmt.Errorf("%w: transaction %d is null", ErrCorrupt, i)
		}
		if !l.Amount.Valid {
			log.Warn().Int64("id", l.ID).Msg("legacy transaction has no amount, loading it as 0")
		}
		snap.Transactions = append(snap.Transactions, &domain.Transaction{
			ID:          l.ID,
			Kind:        domain.Kind(l.Type),
			Description: l.Description,
			Amount:      l.Amount.Decimal,
			CreatedAt:   l.Date,
		})
	}
	snap.NextID = snap.MaxID() + 1

	log.Debug().Int("transactions", len(snap.Transactions)).Msg("decoded legacy ledger layout")
	return snap, nil
}
