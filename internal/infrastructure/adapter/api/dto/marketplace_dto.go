package dto

import (
	"time"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// CreateVendorRequest creates or completes the caller's vendor profile
type CreateVendorRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
}

type VendorResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"userId"`
	BusinessName   string                `json:"businessName"`
	Description    string                `json:"description,omitempty"`
	Address        string                `json:"address,omitempty"`
	City           string                `json:"city,omitempty"`
	PostalCode     string                `json:"postalCode,omitempty"`
	Phone          string                `json:"phone,omitempty"`
	Email          string                `json:"email,omitempty"`
	Verified       bool                  `json:"verified"`
	Banned         bool                  `json:"banned"`
	Rating         float64               `json:"rating"`
	RatingCount    int64                 `json:"ratingCount"`
	OperatingHours entity.OperatingHours `json:"operatingHours"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
}

// CreateServiceRequest adds a service to a vendor
type CreateServiceRequest struct {
	CategoryID      string `json:"categoryId"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Price           int64  `json:"price" binding:"gte=0"`
	DurationMinutes int    `json:"durationMinutes" binding:"gte=0"`
	CoinReward      int64  `json:"coinReward" binding:"gte=0"`
}

type ServiceResponse struct {
	ID              string `json:"id"`
	VendorID        string `json:"vendorId"`
	CategoryID      string `json:"categoryId,omitempty"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
	CoinReward      int64  `json:"coinReward"`
}

// CreateAppointmentRequest books a service, optionally paying part with coins
type CreateAppointmentRequest struct {
	VendorID   string    `json:"vendorId" binding:"required"`
	ServiceID  string    `json:"serviceId" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
	CoinsToUse int64     `json:"coinsToUse" binding:"gte=0"`
	Notes      string    `json:"notes"`
}

// UpdateStatusRequest changes an appointment's status; Notes is optional
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type AppointmentResponse struct {
	ID              string                 `json:"id"`
	CustomerID      string                 `json:"customerId"`
	VendorID        string                 `json:"vendorId"`
	ServiceID       string                 `json:"serviceId"`
	Date            time.Time              `json:"date"`
	Status          string                 `json:"status"`
	CoinsUsed       int64                  `json:"coinsUsed"`
	TotalPrice      int64                  `json:"totalPrice"`
	Notes           string                 `json:"notes,omitempty"`
	RewardGranted   bool                   `json:"rewardGranted"`
	CustomerDetails entity.CustomerDetails `json:"customerDetails"`
	Feedback        *entity.Feedback       `json:"feedback,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// StatusUpdateResponse carries the reward entry when the change granted one
type StatusUpdateResponse struct {
	Appointment AppointmentResponse  `json:"appointment"`
	Reward      *TransactionResponse `json:"reward,omitempty"`
}

// CompletionRewardResponse is empty-handed when the reward was already granted
type CompletionRewardResponse struct {
	Credited bool                 `json:"credited"`
	Reward   *TransactionResponse `json:"reward,omitempty"`
}

func NewVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:             v.ID,
		UserID:         v.UserID,
		BusinessName:   v.BusinessName,
		Description:    v.Description,
		Address:        v.Address,
		City:           v.City,
		PostalCode:     v.PostalCode,
		Phone:          v.Phone,
		Email:          v.Email,
		Verified:       v.Verified,
		Banned:         v.Banned,
		Rating:         v.Rating,
		RatingCount:    v.RatingCount,
		OperatingHours: v.OperatingHours,
	}
}

func NewCategoryResponses(categories []entity.ServiceCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
			Order:       c.Order,
		})
	}
	return out
}

func NewServiceResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		VendorID:        s.VendorID,
		CategoryID:      s.CategoryID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Available:       s.Available,
		CoinReward:      s.CoinReward,
	}
}

func NewAppointmentResponse(a *entity.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		VendorID:        a.VendorID,
		ServiceID:       a.ServiceID,
		Date:            a.Date,
		Status:          string(a.Status),
		CoinsUsed:       a.CoinsUsed,
		TotalPrice:      a.TotalPrice,
		Notes:           a.Notes,
		RewardGranted:   a.RewardGranted,
		CustomerDetails: a.CustomerDetails,
		Feedback:        a.Feedback,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
