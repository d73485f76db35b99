package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
	coreport "github.com/carwash-market/coin-ledger/internal/domain/port/core"
	"github.com/carwash-market/coin-ledger/internal/domain/port/usecase"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/carwash-market/coin-ledger/internal/infrastructure/adapter/api/middleware"
)

// APIGroup prefixes every versioned route
const APIGroup = "/api/v1"

// Handlers bundles the HTTP handlers
type Handlers struct {
	User        *handler.UserHandler
	Vendor      *handler.VendorHandler
	Appointment *handler.AppointmentHandler
	Transaction *handler.TransactionHandler
	Admin       *handler.AdminHandler
	Health      *handler.HealthHandler
}

// Options carries what the route tree needs besides the handlers
type Options struct {
	Verifier    *middleware.TokenVerifier
	Users       usecase.UserUseCase // role lookups for admin routes
	Idempotency gin.HandlerFunc     // nil disables Idempotency-Key support
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, opts Options) {
	router.GET("/health", h.Health.Health)

	api := router.Group(APIGroup)
	api.GET("/health", h.Health.Health)

	authed := api.Group("")
	authed.Use(middleware.Auth(opts.Verifier))
	if opts.Idempotency != nil {
		authed.Use(opts.Idempotency)
	}

	authed.POST("/users", h.User.CreateUser)

	me := authed.Group("/me")
	{
		me.GET("", h.User.GetMe)
		me.GET("/wallet", h.User.GetWallet)
		me.POST("/referral", h.User.ApplyReferralCode)
	}

	vendors := authed.Group("/vendors")
	{
		vendors.POST("", h.Vendor.CreateVendor)
		vendors.GET("/:vendorId", h.Vendor.GetVendor)
		vendors.GET("/:vendorId/categories", h.Vendor.ListCategories)
		vendors.POST("/:vendorId/categories/defaults", h.Vendor.EnsureDefaultCategories)
		vendors.GET("/:vendorId/services", h.Vendor.ListServices)
		vendors.POST("/:vendorId/services", h.Vendor.CreateService)
	}

	appointments := authed.Group("/appointments")
	{
		appointments.POST("", h.Appointment.CreateAppointment)
		appointments.GET("/:appointmentId", h.Appointment.GetAppointment)
		appointments.PATCH("/:appointmentId/status", h.Appointment.UpdateStatus)
		appointments.POST("/:appointmentId/feedback", h.Appointment.AddFeedback)
		appointments.POST("/:appointmentId/completion-reward",
			middleware.RequireRole(opts.Users, entity.RoleAdmin, entity.RoleVendor),
			h.Appointment.CreditForCompletion)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(opts.Users, entity.RoleAdmin))
	{
		admin.POST("/users/:userId/credit", h.Transaction.Credit)
		admin.POST("/users/:userId/debit", h.Transaction.Debit)
		admin.POST("/users/:userId/ban", h.Admin.BanUser)
		admin.DELETE("/users/:userId/ban", h.Admin.UnbanUser)
		admin.POST("/vendors/:vendorId/verify", h.Admin.VerifyVendor)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, allowedOrigins []string) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.CORS(allowedOrigins))
}
