package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

const (
	defaultCreditDescription = "Admin credit"
	defaultDebitDescription  = "Admin debit"
)

// TransactionHandler handles admin wallet adjustments
type TransactionHandler struct {
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(ledger usecase.LedgerUseCase, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, logger: logger}
}

// Credit handles POST /admin/users/:userId/credit
func (h *TransactionHandler) Credit(c *gin.Context) {
	h.adjust(c, 1, defaultCreditDescription)
}

// Debit handles POST /admin/users/:userId/debit
func (h *TransactionHandler) Debit(c *gin.Context) {
	h.adjust(c, -1, defaultDebitDescription)
}

func (h *TransactionHandler) adjust(c *gin.Context, sign int64, defaultDescription string) {
	var req dto.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription
	}

	userID := c.Param("userId")
	ctx := c.Request.Context()
	entry, err := h.ledger.ApplyEntry(ctx, userID, sign*req.Amount, description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	wallet, err := h.ledger.GetWallet(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Admin wallet adjustment", map[string]any{
		"admin_id":       middleware.UserID(c),
		"user_id":        userID,
		"transaction_id": entry.ID,
		"amount":         entry.SignedAmount(),
	})

	c.JSON(http.StatusOK, dto.AdjustmentResponse{
		Transaction: dto.NewTransactionResponse(entry),
		Coins:       wallet.Coins,
	})
}
