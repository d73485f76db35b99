package dto

import (
	"time"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// CreateUserRequest is the signup body. The user ID comes from the token.
type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Role         string `json:"role" binding:"omitempty,oneof=customer vendor"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	LicensePlate string `json:"licensePlate"`
	BusinessName string `json:"businessName"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	LicensePlate     string    `json:"licensePlate,omitempty"`
	Banned           bool      `json:"banned"`
	Coins            int64     `json:"coins"`
	ReferralCode     string    `json:"referralCode"`
	ReferralCount    int64     `json:"referralCount"`
	UsedReferralCode string    `json:"usedReferralCode,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ReferralRequest redeems a referral code
type ReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// ReferralResponse reports both balances after a redemption
type ReferralResponse struct {
	ReferrerID string `json:"referrerId"`
	Coins      int64  `json:"coins"`
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Role:             string(u.Role),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Phone:            u.Phone,
		LicensePlate:     u.LicensePlate,
		Banned:           u.Banned,
		Coins:            u.Balance(),
		ReferralCode:     u.ReferralCode,
		ReferralCount:    u.ReferralCount,
		UsedReferralCode: u.UsedReferralCode,
		CreatedAt:        u.CreatedAt,
	}
}
