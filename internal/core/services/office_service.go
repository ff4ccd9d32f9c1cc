package services

import (
	"context"
	"errors"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"
	"ninawa-bookdesk/internal/pkg/password"

	"gorm.io/gorm"
)

var (
	ErrOfficeNameTaken     = errors.New("office name already exists")
	ErrOfficeUsernameTaken = errors.New("username already exists")
)

// OfficeService handles office account and price-list management
type OfficeService struct {
	officeRepo *repositories.OfficeRepository
	tokenRepo  repositories.RefreshTokenRepository
}

// NewOfficeService creates a new office service
func NewOfficeService(officeRepo *repositories.OfficeRepository, tokenRepo repositories.RefreshTokenRepository) *OfficeService {
	return &OfficeService{
		officeRepo: officeRepo,
		tokenRepo:  tokenRepo,
	}
}

// CreateOfficeInput represents office creation input
type CreateOfficeInput struct {
	OfficeName string `json:"office_name" validate:"required,max=100"`
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8"`
	Phone      string `json:"phone,omitempty" validate:"max=20"`

	PriceRightMosul   float64 `json:"price_right_mosul" validate:"min=0"`
	PriceLeftMosul    float64 `json:"price_left_mosul" validate:"min=0"`
	PriceHammamAlalil float64 `json:"price_hammam_alalil" validate:"min=0"`
	PriceAlShoura     float64 `json:"price_alshoura" validate:"min=0"`
	PriceBaaj         float64 `json:"price_baaj" validate:"min=0"`
	PriceOthers       float64 `json:"price_others" validate:"min=0"`
}

// Create registers an office account with its initial price list
func (s *OfficeService) Create(ctx context.Context, input *CreateOfficeInput) (*models.Office, error) {
	taken, err := s.officeRepo.ExistsByName(ctx, input.OfficeName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrOfficeNameTaken
	}

	taken, err = s.officeRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrOfficeUsernameTaken
	}

	if err := password.Validate(input.Password); err != nil {
		return nil, err
	}
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	office := &models.Office{
		OfficeName:        input.OfficeName,
		Username:          input.Username,
		Password:          hashed,
		Phone:             input.Phone,
		PriceRightMosul:   input.PriceRightMosul,
		PriceLeftMosul:    input.PriceLeftMosul,
		PriceHammamAlalil: input.PriceHammamAlalil,
		PriceAlShoura:     input.PriceAlShoura,
		PriceBaaj:         input.PriceBaaj,
		PriceOthers:       input.PriceOthers,
	}

	if err := s.officeRepo.Create(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

// Get gets an office by ID
func (s *OfficeService) Get(ctx context.Context, id uint) (*models.Office, error) {
	office, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}
	return office, nil
}

// List lists offices with pagination
func (s *OfficeService) List(ctx context.Context, offset, limit int) ([]*models.Office, int64, error) {
	return s.officeRepo.List(ctx, offset, limit)
}

// UpdateOfficeInput represents office update input; nil fields are untouched.
// Price changes apply to FUTURE bookings only, existing frozen prices keep
// the value captured at booking time.
type UpdateOfficeInput struct {
	OfficeName *string `json:"office_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Password   *string `json:"password,omitempty"`

	PriceRightMosul   *float64 `json:"price_right_mosul,omitempty"`
	PriceLeftMosul    *float64 `json:"price_left_mosul,omitempty"`
	PriceHammamAlalil *float64 `json:"price_hammam_alalil,omitempty"`
	PriceAlShoura     *float64 `json:"price_alshoura,omitempty"`
	PriceBaaj         *float64 `json:"price_baaj,omitempty"`
	PriceOthers       *float64 `json:"price_others,omitempty"`
}

// Update updates an office's account details and price list
func (s *OfficeService) Update(ctx context.Context, id uint, input *UpdateOfficeInput) (*models.Office, error) {
	office, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.OfficeName != nil && *input.OfficeName != office.OfficeName {
		taken, err := s.officeRepo.ExistsByName(ctx, *input.OfficeName)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrOfficeNameTaken
		}
		office.OfficeName = *input.OfficeName
	}
	if input.Phone != nil {
		office.Phone = *input.Phone
	}
	if input.Password != nil {
		if err := password.Validate(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		office.Password = hashed
	}

	if input.PriceRightMosul != nil {
		office.PriceRightMosul = *input.PriceRightMosul
	}
	if input.PriceLeftMosul != nil {
		office.PriceLeftMosul = *input.PriceLeftMosul
	}
	if input.PriceHammamAlalil != nil {
		office.PriceHammamAlalil = *input.PriceHammamAlalil
	}
	if input.PriceAlShoura != nil {
		office.PriceAlShoura = *input.PriceAlShoura
	}
	if input.PriceBaaj != nil {
		office.PriceBaaj = *input.PriceBaaj
	}
	if input.PriceOthers != nil {
		office.PriceOthers = *input.PriceOthers
	}

	if err := s.officeRepo.Update(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

// Delete soft-deletes an office account and revokes its sessions
func (s *OfficeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.officeRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.tokenRepo.RevokeAllByActor(ctx, string(domain.ActorOffice), id)
}

// Heartbeat records office activity for presence tracking and reports
// whether the office has been flagged for forced logout, so the client
// can end its session cooperatively.
func (s *OfficeService) Heartbeat(ctx context.Context, id uint) (bool, error) {
	office, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrOfficeNotFound
		}
		return false, err
	}
	if err := s.officeRepo.Heartbeat(ctx, id, time.Now()); err != nil {
		return false, err
	}
	return office.ForceLogout, nil
}

// Kick flags an office for forced logout and revokes its refresh tokens.
// The flag is cleared on the office's next successful login.
func (s *OfficeService) Kick(ctx context.Context, id uint) error {
	if err := s.officeRepo.SetForceLogout(ctx, id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficeNotFound
		}
		return err
	}
	return s.tokenRepo.RevokeAllByActor(ctx, string(domain.ActorOffice), id)
}
