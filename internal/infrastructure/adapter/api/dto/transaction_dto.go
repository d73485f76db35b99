package dto

import (
	"time"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// TransactionResponse is one ledger entry
type TransactionResponse struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// WalletResponse is a balance with its ledger, oldest entry first
type WalletResponse struct {
	UserID       string                `json:"userId"`
	Coins        int64                 `json:"coins"`
	Transactions []TransactionResponse `json:"transactions"`
}

// AdjustmentRequest is an admin credit or debit
type AdjustmentRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description"`
}

// AdjustmentResponse reports the entry written and the resulting balance
type AdjustmentResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Coins       int64               `json:"coins"`
}

func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Description: t.Description,
		Timestamp:   t.Timestamp,
	}
}

func NewWalletResponse(userID string, w *entity.Wallet) WalletResponse {
	entries := make([]TransactionResponse, 0, len(w.Transactions))
	for i := range w.Transactions {
		entries = append(entries, NewTransactionResponse(&w.Transactions[i]))
	}
	return WalletResponse{UserID: userID, Coins: w.Coins, Transactions: entries}
}
