package models

import "time"

// Payment is a pending or settled payment request against a booking
type Payment struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	TransactionID string  `json:"transaction_id" gorm:"uniqueIndex"`
	Phone         string  `json:"phone"`
	Amount        float64 `json:"amount"`
	Reference     string  `json:"reference" gorm:"index"` // booking ID
	Description   string  `json:"description"`
	Status        string  `json:"status"` // "pending", "completed", "failed"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
