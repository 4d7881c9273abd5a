package model

import (
	"time"
)

// Base contains the identity and bookkeeping fields owned by the persistence layer.
type Base struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
