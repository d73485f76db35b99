package model

import (
	"time"
)

// Transaction represents one append-only ledger entry
type Transaction struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Seq         int64     `gorm:"autoIncrement;not null;uniqueIndex"` // insertion order within the log
	UserID      string    `gorm:"not null;size:128;index:idx_transactions_user_created,priority:1"`
	Amount      int64     `gorm:"not null;check:chk_transactions_amount_positive,amount > 0"`
	Type        string    `gorm:"not null;size:10"`
	Description string    `gorm:"not null;size:255"`
	CreatedAt   time.Time `gorm:"not null;index:idx_transactions_user_created,priority:2"`

	// Define relationships
	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
