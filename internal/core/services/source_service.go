package services

import (
	"context"
	"errors"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

var ErrSourceNameTaken = errors.New("source name already exists")

// SourceService handles booking source management
type SourceService struct {
	sourceRepo *repositories.SourceRepository
}

// NewSourceService creates a new source service
func NewSourceService(sourceRepo *repositories.SourceRepository) *SourceService {
	return &SourceService{sourceRepo: sourceRepo}
}

// CreateSourceInput represents booking source creation input
type CreateSourceInput struct {
	SourceName  string `json:"source_name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"max=20"`

	PriceRightMosul   float64 `json:"price_right_mosul" validate:"min=0"`
	PriceLeftMosul    float64 `json:"price_left_mosul" validate:"min=0"`
	PriceHammamAlalil float64 `json:"price_hammam_alalil" validate:"min=0"`
	PriceAlShoura     float64 `json:"price_alshoura" validate:"min=0"`
	PriceBaaj         float64 `json:"price_baaj" validate:"min=0"`
	PriceOthers       float64 `json:"price_others" validate:"min=0"`
}

// Create registers a booking source with its price list
func (s *SourceService) Create(ctx context.Context, input *CreateSourceInput) (*models.BookingSource, error) {
	taken, err := s.sourceRepo.ExistsByName(ctx, input.SourceName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSourceNameTaken
	}

	source := &models.BookingSource{
		SourceName:        input.SourceName,
		PhoneNumber:       input.PhoneNumber,
		PriceRightMosul:   input.PriceRightMosul,
		PriceLeftMosul:    input.PriceLeftMosul,
		PriceHammamAlalil: input.PriceHammamAlalil,
		PriceAlShoura:     input.PriceAlShoura,
		PriceBaaj:         input.PriceBaaj,
		PriceOthers:       input.PriceOthers,
	}

	if err := s.sourceRepo.Create(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// Get gets a booking source by ID
func (s *SourceService) Get(ctx context.Context, id uint) (*models.BookingSource, error) {
	source, err := s.sourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}
	return source, nil
}

// List lists booking sources with pagination
func (s *SourceService) List(ctx context.Context, offset, limit int) ([]*models.BookingSource, int64, error) {
	return s.sourceRepo.List(ctx, offset, limit)
}

// UpdateSourceInput represents booking source update input.
// Price changes apply to future bookings only.
type UpdateSourceInput struct {
	SourceName  *string `json:"source_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`

	PriceRightMosul   *float64 `json:"price_right_mosul,omitempty"`
	PriceLeftMosul    *float64 `json:"price_left_mosul,omitempty"`
	PriceHammamAlalil *float64 `json:"price_hammam_alalil,omitempty"`
	PriceAlShoura     *float64 `json:"price_alshoura,omitempty"`
	PriceBaaj         *float64 `json:"price_baaj,omitempty"`
	PriceOthers       *float64 `json:"price_others,omitempty"`
}

// Update updates a booking source
func (s *SourceService) Update(ctx context.Context, id uint, input *UpdateSourceInput) (*models.BookingSource, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SourceName != nil && *input.SourceName != source.SourceName {
		taken, err := s.sourceRepo.ExistsByName(ctx, *input.SourceName)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSourceNameTaken
		}
		source.SourceName = *input.SourceName
	}
	if input.PhoneNumber != nil {
		source.PhoneNumber = *input.PhoneNumber
	}

	if input.PriceRightMosul != nil {
		source.PriceRightMosul = *input.PriceRightMosul
	}
	if input.PriceLeftMosul != nil {
		source.PriceLeftMosul = *input.PriceLeftMosul
	}
	if input.PriceHammamAlalil != nil {
		source.PriceHammamAlalil = *input.PriceHammamAlalil
	}
	if input.PriceAlShoura != nil {
		source.PriceAlShoura = *input.PriceAlShoura
	}
	if input.PriceBaaj != nil {
		source.PriceBaaj = *input.PriceBaaj
	}
	if input.PriceOthers != nil {
		source.PriceOthers = *input.PriceOthers
	}

	if err := s.sourceRepo.Update(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// Delete soft-deletes a booking source. Records already frozen against
// the source keep their booked price and debts remain queryable.
func (s *SourceService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.sourceRepo.Delete(ctx, id)
}
