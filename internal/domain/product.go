package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog item held in stock
type Product struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Category        string          `json:"category" db:"category"`
	Description     string          `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	QuantityInStock int             `json:"quantity_in_stock" db:"quantity_in_stock"`
	SupplierID      *uuid.UUID      `json:"supplier_id,omitempty" db:"supplier_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Supplier represents a company products are sourced from
type Supplier struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	ContactInfo      string    `json:"contact_info" db:"contact_info"`
	SuppliedProducts []string  `json:"supplied_products" db:"supplied_products"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
