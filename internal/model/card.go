package model

import (
	"cardcheck/internal/card"

	"github.com/google/uuid"
)

// ValidateRequest represents the request payload for validating a card.
// Fields are raw form input; format problems are reported as flags, not as
// request errors.
type ValidateRequest struct {
	Number      string `json:"number" validate:"max=32"`
	CVC         string `json:"cvc" validate:"max=8"`
	ExpiryMonth string `json:"expiryMonth" validate:"max=4"`
	ExpiryYear  string `json:"expiryYear" validate:"max=4"`
	Partial     bool   `json:"partial"`
}

// Mode returns the validation mode requested.
func (r *ValidateRequest) Mode() card.Mode {
	if r.Partial {
		return card.Partial
	}
	return card.Complete
}

// FieldResults holds the flags raised by each field.
type FieldResults struct {
	Number card.Result `json:"number"`
	CVC    card.Result `json:"cvc"`
	Expiry card.Result `json:"expiry"`
}

// ValidateResponse represents the response payload for a card validation.
type ValidateResponse struct {
	CheckID      *uuid.UUID   `json:"checkId,omitempty"`
	Brand        string       `json:"brand"`
	MaskedNumber string       `json:"maskedNumber"`
	Mode         string       `json:"mode"`
	Valid        bool         `json:"valid"`
	Flags        card.Result  `json:"flags"`
	Fields       FieldResults `json:"fields"`
}

// IdentifyRequest represents the request payload for brand identification.
type IdentifyRequest struct {
	Number string `json:"number" validate:"required,max=32"`
}

// IdentifyResponse describes the brand a number belongs to and what the
// remaining input should look like.
type IdentifyResponse struct {
	Brand          card.Brand `json:"brand"`
	Unknown        bool       `json:"unknown"`
	CouldMatch     bool       `json:"couldMatch"`
	ExpectedLength int        `json:"expectedLength"`
	CVCLength      int        `json:"cvcLength"`
}

// BrandsResponse lists the registered brands in identification order.
type BrandsResponse struct {
	Brands   []card.Brand `json:"brands"`
	Fallback card.Brand   `json:"fallback"`
}
