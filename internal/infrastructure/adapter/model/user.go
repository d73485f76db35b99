package model

import (
	"time"
)

// User represents the database model for users and their wallet balance
type User struct {
	ID               string    `gorm:"primaryKey;size:128"`
	Email            string    `gorm:"not null;size:255"`
	Role             string    `gorm:"not null;size:20;index"`
	FirstName        string    `gorm:"size:100"`
	LastName         string    `gorm:"size:100"`
	Phone            string    `gorm:"size:50"`
	LicensePlate     string    `gorm:"size:20"`
	Banned           bool      `gorm:"not null;default:false"`
	Coins            int64     `gorm:"not null;default:0;check:chk_users_coins_non_negative,coins >= 0"`
	ReferralCode     string    `gorm:"uniqueIndex;not null;size:8"`
	ReferralCount    int64     `gorm:"not null;default:0"`
	UsedReferralCode string    `gorm:"size:8"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
