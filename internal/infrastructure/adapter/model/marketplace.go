package model

import (
	"time"

	"github.com/carwash-market/coin-ledger/internal/domain/entity"
)

// Vendor is the business profile of a vendor account; one per user
type Vendor struct {
	ID             string                `gorm:"primaryKey;size:36"`
	UserID         string                `gorm:"uniqueIndex;not null;size:128"`
	BusinessName   string                `gorm:"size:255"`
	Description    string                `gorm:"type:text"`
	Address        string                `gorm:"size:255"`
	City           string                `gorm:"size:100"`
	PostalCode     string                `gorm:"size:20"`
	Phone          string                `gorm:"size:50"`
	Email          string                `gorm:"size:255"`
	Verified       bool                  `gorm:"not null;default:false"`
	Banned         bool                  `gorm:"not null;default:false"`
	Rating         float64               `gorm:"not null;default:0"`
	RatingCount    int64                 `gorm:"not null;default:0"`
	OperatingHours entity.OperatingHours `gorm:"serializer:json;type:jsonb"`
	CreatedAt      time.Time             `gorm:"not null"`
	UpdatedAt      time.Time             `gorm:"not null"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// ServiceCategory groups services; the name is unique per vendor
type ServiceCategory struct {
	ID          string    `gorm:"primaryKey;size:36"`
	VendorID    string    `gorm:"not null;size:36;uniqueIndex:idx_categories_vendor_name,priority:1"`
	Name        string    `gorm:"not null;size:100;uniqueIndex:idx_categories_vendor_name,priority:2"`
	Description string    `gorm:"type:text"`
	Icon        string    `gorm:"size:50"`
	SortOrder   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for ServiceCategory
func (ServiceCategory) TableName() string {
	return "service_categories"
}

// Service is a bookable offering of a vendor
type Service struct {
	ID              string    `gorm:"primaryKey;size:36"`
	VendorID        string    `gorm:"not null;size:36;index"`
	CategoryID      string    `gorm:"size:36"`
	Name            string    `gorm:"not null;size:255"`
	Description     string    `gorm:"type:text"`
	Price           int64     `gorm:"not null"`
	DurationMinutes int       `gorm:"not null;default:0"`
	Available       bool      `gorm:"not null;default:true"`
	CoinReward      int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName specifies the table name for Service
func (Service) TableName() string {
	return "services"
}

// Appointment is a booking with its status and reward flag
type Appointment struct {
	ID              string                 `gorm:"primaryKey;size:36"`
	CustomerID      string                 `gorm:"not null;size:128;index"`
	VendorID        string                 `gorm:"not null;size:36;index"`
	ServiceID       string                 `gorm:"not null;size:36"`
	Date            time.Time              `gorm:"not null"`
	Status          string                 `gorm:"not null;size:30;index"`
	CoinsUsed       int64                  `gorm:"not null;default:0"`
	TotalPrice      int64                  `gorm:"not null;default:0"`
	Notes           string                 `gorm:"type:text"`
	RewardGranted   bool                   `gorm:"not null;default:false"`
	CustomerDetails entity.CustomerDetails `gorm:"serializer:json;type:jsonb"`
	Feedback        *entity.Feedback       `gorm:"serializer:json;type:jsonb"`
	CreatedAt       time.Time              `gorm:"not null"`
	UpdatedAt       time.Time              `gorm:"not null"`
}

// TableName specifies the table name for Appointment
func (Appointment) TableName() string {
	return "appointments"
}
