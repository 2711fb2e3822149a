package repository

import (
	"context"
	"errors"
	"fmt"

	"cardcheck/internal/card"
	"cardcheck/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// maxVisibleDigits is the most digits a masked number may expose: six of
// the prefix and four of the suffix.
const maxVisibleDigits = 10

// ErrUnmaskedNumber is returned when a check would store more of a card
// number than a mask reveals.
var ErrUnmaskedNumber = errors.New("check number is not masked")

const schema = `
	CREATE TABLE IF NOT EXISTS card_checks (
		id UUID PRIMARY KEY,
		masked_number TEXT NOT NULL,
		brand TEXT NOT NULL,
		flags INTEGER NOT NULL CHECK (flags >= 0),
		mode TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_card_checks_created_at ON card_checks(created_at DESC);
`

// checkRepository implements the CheckRepository interface using PostgreSQL.
type checkRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCheckRepository creates a new PostgreSQL-backed check repository.
func NewCheckRepository(pool *pgxpool.Pool, logger zerolog.Logger) CheckRepository {
	return &checkRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "check").Logger(),
	}
}

// EnsureSchema creates the card_checks table if it does not exist.
func (r *checkRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		r.logger.Error().Err(err).Msg("failed to create card_checks schema")
		return fmt.Errorf("failed to create schema: %w", err)
	}

	r.logger.Debug().Msg("card_checks schema ready")
	return nil
}

// Create inserts a new check.
func (r *checkRepository) Create(ctx context.Context, check *model.Check) error {
	if visibleDigits(check.MaskedNumber) > maxVisibleDigits {
		r.logger.Error().Str("check_id", check.ID.String()).Msg("refusing to store unmasked card number")
		return ErrUnmaskedNumber
	}

	query := `
		INSERT INTO card_checks (id, masked_number, brand, flags, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		check.ID,
		check.MaskedNumber,
		check.Brand,
		int32(check.Flags),
		check.Mode,
		check.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("check_id", check.ID.String()).
			Msg("failed to create check")
		return fmt.Errorf("failed to create check: %w", err)
	}

	r.logger.Debug().
		Str("check_id", check.ID.String()).
		Str("brand", check.Brand).
		Msg("check created successfully")

	return nil
}

// GetByID retrieves a check by its ID.
func (r *checkRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Check, error) {
	query := `
		SELECT id, masked_number, brand, flags, mode, created_at
		FROM card_checks
		WHERE id = $1
	`

	check, err := scanCheck(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("check_id", id.String()).Msg("check not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("check_id", id.String()).Msg("failed to query check")
		return nil, fmt.Errorf("failed to query check: %w", err)
	}

	return check, nil
}

// ListRecent retrieves up to limit checks, newest first.
func (r *checkRepository) ListRecent(ctx context.Context, limit int) ([]model.Check, error) {
	query := `
		SELECT id, masked_number, brand, flags, mode, created_at
		FROM card_checks
		ORDER BY created_at DESC, id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Msg("failed to query checks")
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	defer rows.Close()

	checks := make([]model.Check, 0, limit)
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan check row")
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		checks = append(checks, *check)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating check rows")
		return nil, fmt.Errorf("error iterating checks: %w", err)
	}

	return checks, nil
}

func scanCheck(row pgx.Row) (*model.Check, error) {
	var (
		check model.Check
		flags int32
	)

	err := row.Scan(
		&check.ID,
		&check.MaskedNumber,
		&check.Brand,
		&flags,
		&check.Mode,
		&check.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	check.Flags = card.Result(flags)
	return &check, nil
}

func visibleDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
