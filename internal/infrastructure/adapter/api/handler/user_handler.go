package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

// UserHandler handles account, wallet and referral requests of the caller
type UserHandler struct {
	users     usecase.UserUseCase
	ledger    usecase.LedgerUseCase
	referrals usecase.ReferralUseCase
	logger    coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	users usecase.UserUseCase,
	ledger usecase.LedgerUseCase,
	referrals usecase.ReferralUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		users:     users,
		ledger:    ledger,
		referrals: referrals,
		logger:    logger,
	}
}

// CreateUser handles POST /users. The account ID is the token subject.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role := entity.RoleCustomer
	if req.Role != "" {
		role = entity.Role(req.Role)
	}

	user, err := h.users.CreateUser(c.Request.Context(), usecase.CreateUserRequest{
		ID:           middleware.UserID(c),
		Email:        req.Email,
		Role:         role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		LicensePlate: req.LicensePlate,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// GetMe handles GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// GetWallet handles GET /me/wallet
func (h *UserHandler) GetWallet(c *gin.Context) {
	userID := middleware.UserID(c)
	wallet, err := h.ledger.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(userID, wallet))
}

// ApplyReferralCode handles POST /me/referral
func (h *UserHandler) ApplyReferralCode(c *gin.Context) {
	var req dto.ReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.referrals.ApplyReferralCode(c.Request.Context(), middleware.UserID(c), req.Code)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReferralResponse{
		ReferrerID: result.ReferrerID,
		Coins:      result.ReferredBalance,
	})
}
