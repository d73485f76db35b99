package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

// VendorHandler handles vendor profiles, categories and services
type VendorHandler struct {
	vendors usecase.VendorUseCase
	logger  coreport.Logger
}

// NewVendorHandler creates a new vendor handler instance
func NewVendorHandler(vendors usecase.VendorUseCase, logger coreport.Logger) *VendorHandler {
	return &VendorHandler{vendors: vendors, logger: logger}
}

// CreateVendor handles POST /vendors for the calling vendor account
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var req dto.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vendor, err := h.vendors.CreateVendor(c.Request.Context(), usecase.CreateVendorRequest{
		UserID:       middleware.UserID(c),
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Email:        req.Email,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewVendorResponse(vendor))
}

// GetVendor handles GET /vendors/:vendorId
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendors.GetVendor(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVendorResponse(vendor))
}

// EnsureDefaultCategories handles POST /vendors/:vendorId/categories/defaults
func (h *VendorHandler) EnsureDefaultCategories(c *gin.Context) {
	categories, err := h.vendors.EnsureDefaultCategories(c.Request.Context(), middleware.UserID(c), c.Param("vendorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponses(categories))
}

// ListCategories handles GET /vendors/:vendorId/categories
func (h *VendorHandler) ListCategories(c *gin.Context) {
	categories, err := h.vendors.ListCategories(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponses(categories))
}

// CreateService handles POST /vendors/:vendorId/services
func (h *VendorHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := h.vendors.CreateService(c.Request.Context(), usecase.CreateServiceRequest{
		ActorID:         middleware.UserID(c),
		VendorID:        c.Param("vendorId"),
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		CoinReward:      req.CoinReward,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewServiceResponse(service))
}

// ListServices handles GET /vendors/:vendorId/services
func (h *VendorHandler) ListServices(c *gin.Context) {
	services, err := h.vendors.ListVendorServices(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, dto.NewServiceResponse(&services[i]))
	}
	c.JSON(http.StatusOK, out)
}
