package service

import (
	"context"

	"cardcheck/internal/card"
	"cardcheck/internal/model"

	"github.com/google/uuid"
)

// CardService defines card validation and audit operations.
type CardService interface {
	// Validate checks every field of a card and records the outcome when
	// auditing is enabled.
	Validate(ctx context.Context, req *model.ValidateRequest) (*model.ValidateResponse, error)

	// Identify returns the brand a (possibly partial) number belongs to.
	Identify(ctx context.Context, number string) (*model.IdentifyResponse, error)

	// Brands lists the registered brands in identification order.
	Brands(ctx context.Context) (*model.BrandsResponse, error)

	// Brand looks a brand up by name.
	Brand(ctx context.Context, name string) (*card.Brand, error)

	// GetCheck retrieves an audit record.
	GetCheck(ctx context.Context, id uuid.UUID) (*model.Check, error)

	// RecentChecks lists the newest audit records.
	RecentChecks(ctx context.Context, limit int) ([]model.Check, error)
}
