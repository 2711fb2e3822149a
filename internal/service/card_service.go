package service

import (
	"context"
	"fmt"

	"cardcheck/internal/card"
	"cardcheck/internal/model"
	"cardcheck/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cardService implements CardService.
type cardService struct {
	validator *card.Validator
	checkRepo repository.CheckRepository
	clock     card.Clock
	logger    zerolog.Logger
}

// NewCardService creates a new card service. checkRepo may be nil, which
// disables auditing.
func NewCardService(validator *card.Validator, checkRepo repository.CheckRepository, clock card.Clock, logger zerolog.Logger) CardService {
	if clock == nil {
		clock = card.SystemClock{}
	}

	return &cardService{
		validator: validator,
		checkRepo: checkRepo,
		clock:     clock,
		logger:    logger.With().Str("service", "card").Logger(),
	}
}

// Validate checks every field of a card.
func (s *cardService) Validate(ctx context.Context, req *model.ValidateRequest) (*model.ValidateResponse, error) {
	mode := req.Mode()
	report := s.validator.Validate(card.Input{
		Number: req.Number,
		CVC:    req.CVC,
		Month:  req.ExpiryMonth,
		Year:   req.ExpiryYear,
		Mode:   mode,
	})

	resp := &model.ValidateResponse{
		Brand:        report.Brand.Name,
		MaskedNumber: card.Mask(req.Number),
		Mode:         mode.String(),
		Valid:        report.IsValid(),
		Flags:        report.Result(),
		Fields: model.FieldResults{
			Number: report.Number,
			CVC:    report.CVC,
			Expiry: report.Expiry,
		},
	}

	if s.checkRepo == nil {
		return resp, nil
	}

	check := &model.Check{
		ID:           uuid.New(),
		MaskedNumber: resp.MaskedNumber,
		Brand:        resp.Brand,
		Flags:        resp.Flags,
		Mode:         resp.Mode,
		CreatedAt:    s.clock.Now().UTC(),
	}

	// A failed audit write does not hide the validation result.
	if err := s.checkRepo.Create(ctx, check); err != nil {
		s.logger.Error().
			Err(err).
			Str("check_id", check.ID.String()).
			Msg("failed to record check")
		return resp, nil
	}

	resp.CheckID = &check.ID

	s.logger.Debug().
		Str("check_id", check.ID.String()).
		Str("brand", check.Brand).
		Stringer("flags", check.Flags).
		Msg("check recorded")

	return resp, nil
}

// Identify returns the brand a number belongs to.
func (s *cardService) Identify(ctx context.Context, number string) (*model.IdentifyResponse, error) {
	registry := s.validator.Registry()
	brand := registry.Identify(number)

	field := card.NumberField{Validator: s.validator}

	return &model.IdentifyResponse{
		Brand:          brand,
		Unknown:        brand.IsUnknown(),
		CouldMatch:     registry.CouldMatch(number),
		ExpectedLength: field.ExpectedLengthFor(number),
		CVCLength:      brand.CVCLength,
	}, nil
}

// Brands lists the registered brands.
func (s *cardService) Brands(ctx context.Context) (*model.BrandsResponse, error) {
	return &model.BrandsResponse{
		Brands:   s.validator.Registry().Brands(),
		Fallback: card.Unknown,
	}, nil
}

// Brand looks a brand up by name.
func (s *cardService) Brand(ctx context.Context, name string) (*card.Brand, error) {
	brand, ok := s.validator.Registry().Lookup(name)
	if !ok {
		s.logger.Debug().Str("brand", name).Msg("brand not found")
		return nil, model.ErrUnknownBrand
	}
	return &brand, nil
}

// GetCheck retrieves an audit record.
func (s *cardService) GetCheck(ctx context.Context, id uuid.UUID) (*model.Check, error) {
	if s.checkRepo == nil {
		return nil, model.ErrCheckNotFound
	}

	check, err := s.checkRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("check_id", id.String()).Msg("failed to get check")
		return nil, fmt.Errorf("failed to get check: %w", err)
	}

	if check == nil {
		return nil, model.ErrCheckNotFound
	}

	return check, nil
}

// RecentChecks lists the newest audit records. The limit is clamped to
// 1..100 and defaults to 10.
func (s *cardService) RecentChecks(ctx context.Context, limit int) ([]model.Check, error) {
	if s.checkRepo == nil {
		return []model.Check{}, nil
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	checks, err := s.checkRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Msg("failed to list checks")
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}

	return checks, nil
}
