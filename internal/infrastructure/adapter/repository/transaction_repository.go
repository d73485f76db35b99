package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a ledger entry
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	m := model.Transaction{
		ID:          transaction.ID,
		UserID:      transaction.UserID,
		Amount:      transaction.Amount,
		Type:        string(transaction.Type),
		Description: transaction.Description,
		CreatedAt:   transaction.Timestamp,
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(&m).Error; err != nil {
		r.logger.Error("Failed to append ledger entry", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
			"error":          err.Error(),
		})
		return MapError(err, EntityTransaction)
	}

	r.logger.Debug("Ledger entry appended", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           string(transaction.Type),
		"amount":         transaction.Amount,
	})
	return nil
}

// ListByUser returns a user's entries in insertion order
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]entity.Transaction, error) {
	var rows []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq asc").
		Find(&rows).Error
	if err != nil {
		return nil, MapError(err, EntityTransaction)
	}

	entries := make([]entity.Transaction, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, entity.Transaction{
			ID:          m.ID,
			UserID:      m.UserID,
			Amount:      m.Amount,
			Type:        entity.TransactionType(m.Type),
			Description: m.Description,
			Timestamp:   m.CreatedAt,
		})
	}
	return entries, nil
}
