package repository

import (
	"context"

	"cardcheck/internal/model"

	"github.com/google/uuid"
)

// CheckRepository defines the interface for the validation audit log.
type CheckRepository interface {
	// EnsureSchema creates the audit table and its indexes if missing.
	EnsureSchema(ctx context.Context) error

	// Create inserts a check. The number must already be masked.
	Create(ctx context.Context, check *model.Check) error

	// GetByID retrieves a check by its ID. It returns nil without an error
	// when no such check exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Check, error)

	// ListRecent retrieves the newest checks first.
	ListRecent(ctx context.Context, limit int) ([]model.Check, error)
}
