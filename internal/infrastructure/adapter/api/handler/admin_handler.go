package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

// AdminHandler handles moderation requests
type AdminHandler struct {
	users   usecase.UserUseCase
	vendors usecase.VendorUseCase
	logger  coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(users usecase.UserUseCase, vendors usecase.VendorUseCase, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{users: users, vendors: vendors, logger: logger}
}

// BanUser handles POST /admin/users/:userId/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setBanned(c, true)
}

// UnbanUser handles DELETE /admin/users/:userId/ban
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c *gin.Context, banned bool) {
	user, err := h.users.SetUserBanned(c.Request.Context(), c.Param("userId"), banned)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("User ban changed", map[string]any{
		"admin_id": middleware.UserID(c),
		"user_id":  user.ID,
		"banned":   banned,
	})
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// VerifyVendor handles POST /admin/vendors/:vendorId/verify
func (h *AdminHandler) VerifyVendor(c *gin.Context) {
	vendor, err := h.vendors.VerifyVendor(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVendorResponse(vendor))
}
