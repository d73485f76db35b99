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

// AppointmentHandler handles bookings, status changes and feedback
type AppointmentHandler struct {
	appointments usecase.AppointmentUseCase
	logger       coreport.Logger
}

// NewAppointmentHandler creates a new appointment handler instance
func NewAppointmentHandler(appointments usecase.AppointmentUseCase, logger coreport.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, logger: logger}
}

// CreateAppointment handles POST /appointments
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appt, err := h.appointments.CreateAppointment(c.Request.Context(), usecase.CreateAppointmentRequest{
		CustomerID: middleware.UserID(c),
		VendorID:   req.VendorID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		CoinsToUse: req.CoinsToUse,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAppointmentResponse(appt))
}

// GetAppointment handles GET /appointments/:appointmentId
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.appointments.GetAppointment(c.Request.Context(), middleware.UserID(c), c.Param("appointmentId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointmentResponse(appt))
}

// UpdateStatus handles PATCH /appointments/:appointmentId/status
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.appointments.UpdateStatus(c.Request.Context(), usecase.UpdateStatusRequest{
		ActorID:       middleware.UserID(c),
		AppointmentID: c.Param("appointmentId"),
		Status:        entity.AppointmentStatus(req.Status),
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.StatusUpdateResponse{Appointment: dto.NewAppointmentResponse(result.Appointment)}
	if result.Reward != nil {
		reward := dto.NewTransactionResponse(result.Reward)
		resp.Reward = &reward
	}
	c.JSON(http.StatusOK, resp)
}

// AddFeedback handles POST /appointments/:appointmentId/feedback
func (h *AppointmentHandler) AddFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	appt, err := h.appointments.AddFeedback(c.Request.Context(), usecase.FeedbackRequest{
		CustomerID:    middleware.UserID(c),
		AppointmentID: c.Param("appointmentId"),
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointmentResponse(appt))
}

// CreditForCompletion handles POST /appointments/:appointmentId/completion-reward.
// Repeating it after the reward was granted answers credited=false.
func (h *AppointmentHandler) CreditForCompletion(c *gin.Context) {
	entry, err := h.appointments.CreditForCompletion(c.Request.Context(), middleware.UserID(c), c.Param("appointmentId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.CompletionRewardResponse{Credited: entry != nil}
	if entry != nil {
		reward := dto.NewTransactionResponse(entry)
		resp.Reward = &reward
	}
	c.JSON(http.StatusOK, resp)
}
