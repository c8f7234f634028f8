package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/voidshard/budget/pkg/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const metaNextID = "next_id"

// sqlTransaction is the table row for a transaction. Amounts are kept as
// text so no precision is lost to REAL columns.
type sqlTransaction struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Position    int   `gorm:"index"`
	Kind        string
	Description string
	Amount      string
	Created     time.Time
}

func (sqlTransaction) TableName() string { return "transactions" }

type sqlMeta struct {
	Name  string `gorm:"primaryKey"`
	Value int64
}

func (sqlMeta) TableName() string { return "meta" }

type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&sqlTransaction{}, &sqlMeta{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Read() (*domain.Snapshot, error) {
	rows := []sqlTransaction{}
	if err := s.db.Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	snap := domain.NewSnapshot()
	for _, r := range rows {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d amount %q: %v", ErrCorrupt, r.ID, r.Amount, err)
		}
		snap.Transactions = append(snap.Transactions, &domain.Transaction{
			ID:          r.ID,
			Kind:        domain.Kind(r.Kind),
			Description: r.Description,
			Amount:      amount,
			CreatedAt:   r.Created.UTC(),
		})
	}

	meta := sqlMeta{}
	err := s.db.First(&meta, "name = ?", metaNextID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		snap.NextID = snap.MaxID() + 1
	case err != nil:
		return nil, fmt.Errorf("failed to load id counter: %w", err)
	default:
		snap.NextID = meta.Value
	}

	log.Debug().Int("transactions", len(rows)).Msg("read ledger from sqlite")
	return snap, nil
}

func (s *SQLite) Write(snap *domain.Snapshot) error {
	rows := make([]sqlTransaction, 0, len(snap.Transactions))
	for i, t := range snap.Transactions {
		rows = append(rows, sqlTransaction{
			ID:          t.ID,
			Position:    i,
			Kind:        string(t.Kind),
			Description: t.Description,
			Amount:      t.Amount.String(),
			Created:     t.CreatedAt,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sqlTransaction{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 100).Error; err != nil {
				return err
			}
		}
		return tx.Save(&sqlMeta{Name: metaNextID, Value: snap.NextID}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
