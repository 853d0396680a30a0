package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a trading partner that places orders
type Client struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ContactInfo  string    `json:"contact_info" db:"contact_info"`
	Country      string    `json:"country" db:"country"`
	BusinessType string    `json:"business_type" db:"business_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
