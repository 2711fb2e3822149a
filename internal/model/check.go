package model

import (
	"time"

	"cardcheck/internal/card"

	"github.com/google/uuid"
)

// Check is the audit record of one validation. Only the masked number is
// kept.
type Check struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	MaskedNumber string      `json:"maskedNumber" db:"masked_number"`
	Brand        string      `json:"brand" db:"brand"`
	Flags        card.Result `json:"flags" db:"flags"`
	Mode         string      `json:"mode" db:"mode"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
}
