package services

import (
	"context"
	"errors"
	"time"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"

	"gorm.io/gorm"
)

// Booking service errors
var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrSourceNotFound = errors.New("booking source not found")
	ErrNotBooked      = errors.New("record is not booked")
)

// BookingService governs the unbooked/booked transitions and the price
// snapshot taken at booking time. The frozen price is written exactly once
// per transition; later price-list changes never touch it.
type BookingService struct {
	reviewerRepo     *repositories.ReviewerRepository
	officeRecordRepo *repositories.OfficeRecordRepository
	officeRepo       *repositories.OfficeRepository
	sourceRepo       *repositories.SourceRepository
}

// NewBookingService creates a new booking service
func NewBookingService(
	reviewerRepo *repositories.ReviewerRepository,
	officeRecordRepo *repositories.OfficeRecordRepository,
	officeRepo *repositories.OfficeRepository,
	sourceRepo *repositories.SourceRepository,
) *BookingService {
	return &BookingService{
		reviewerRepo:     reviewerRepo,
		officeRecordRepo: officeRecordRepo,
		officeRepo:       officeRepo,
		sourceRepo:       sourceRepo,
	}
}

// BookInput represents a booking action
type BookInput struct {
	BookingDate    string `json:"booking_date" validate:"required"`
	BookingImage   string `json:"booking_image,omitempty"`
	BookedSourceID *uint  `json:"booked_source_id,omitempty"`
}

// freezePrice resolves the financing entity and returns the price to freeze
// for the given circle type. A booking source wins over the owning office.
// A reviewer booked with no source has no financing entity: price freezes
// at 0 since no debt accrues to anyone.
func (s *BookingService) freezePrice(ctx context.Context, circleType domain.CircleType, officeID *uint, sourceID *uint) (float64, error) {
	if sourceID != nil {
		source, err := s.sourceRepo.GetByID(ctx, *sourceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrSourceNotFound
			}
			return 0, err
		}
		return source.PriceFor(circleType), nil
	}

	if officeID != nil {
		office, err := s.officeRepo.GetByID(ctx, *officeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrOfficeNotFound
			}
			return 0, err
		}
		return office.PriceFor(circleType), nil
	}

	return 0, nil
}

func parseBookingDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("invalid booking date format, use YYYY-MM-DD")
	}
	return &d, nil
}

// BookReviewer books a reviewer and freezes its price.
// A second call on an already-booked record is a no-op: the freeze happens
// only on the unbooked-to-booked transition.
func (s *BookingService) BookReviewer(ctx context.Context, id uint, input *BookInput) (*models.Reviewer, error) {
	reviewer, err := s.reviewerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewerNotFound
		}
		return nil, err
	}

	if reviewer.IsBooked {
		return reviewer, nil
	}

	price, err := s.freezePrice(ctx, domain.CircleType(reviewer.CircleType), nil, input.BookedSourceID)
	if err != nil {
		return nil, err
	}

	bookingDate, err := parseBookingDate(input.BookingDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reviewer.IsBooked = true
	reviewer.BookingImage = input.BookingImage
	reviewer.BookingDate = bookingDate
	reviewer.BookingCreatedAt = &now
	reviewer.BookedSourceID = input.BookedSourceID
	reviewer.BookedPrice = price

	if err := s.reviewerRepo.Update(ctx, reviewer); err != nil {
		return nil, err
	}
	return reviewer, nil
}

// UnbookReviewer reverses a booking: clears the frozen price, the booking
// metadata and the upload workflow flags.
func (s *BookingService) UnbookReviewer(ctx context.Context, id uint) (*models.Reviewer, error) {
	reviewer, err := s.reviewerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewerNotFound
		}
		return nil, err
	}

	if !reviewer.IsBooked {
		return nil, ErrNotBooked
	}

	if err := s.reviewerRepo.ClearBooking(ctx, id); err != nil {
		return nil, err
	}

	reviewer.IsBooked = false
	reviewer.BookingImage = ""
	reviewer.BookingDate = nil
	reviewer.BookingCreatedAt = nil
	reviewer.BookedSourceID = nil
	reviewer.BookedSource = nil
	reviewer.BookedPrice = 0
	reviewer.IsUploaded = false
	reviewer.UploadedSourceID = nil
	return reviewer, nil
}

// MarkReviewerUploaded records delivery of booking evidence to a source.
// Independent of the financial settlement flow.
func (s *BookingService) MarkReviewerUploaded(ctx context.Context, id uint, sourceID *uint) (*models.Reviewer, error) {
	reviewer, err := s.reviewerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewerNotFound
		}
		return nil, err
	}

	if sourceID != nil {
		if _, err := s.sourceRepo.GetByID(ctx, *sourceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSourceNotFound
			}
			return nil, err
		}
	}

	reviewer.IsUploaded = true
	reviewer.UploadedSourceID = sourceID

	if err := s.reviewerRepo.Update(ctx, reviewer); err != nil {
		return nil, err
	}
	return reviewer, nil
}

// BookOfficeRecord books an office record and freezes its price.
// The financing entity is the booking source if one is given, otherwise
// the owning office. Idempotent on already-booked records.
func (s *BookingService) BookOfficeRecord(ctx context.Context, id uint, input *BookInput) (*models.OfficeRecord, error) {
	record, err := s.officeRecordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficeRecordNotFound
		}
		return nil, err
	}

	if record.IsBooked {
		return record, nil
	}

	price, err := s.freezePrice(ctx, domain.CircleType(record.CircleType), &record.OfficeID, input.BookedSourceID)
	if err != nil {
		return nil, err
	}

	bookingDate, err := parseBookingDate(input.BookingDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record.IsBooked = true
	record.BookingImage = input.BookingImage
	record.BookingDate = bookingDate
	record.BookingCreatedAt = &now
	record.BookedSourceID = input.BookedSourceID
	record.BookedPrice = price

	if err := s.officeRecordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UnbookOfficeRecord reverses a booking on an office record
func (s *BookingService) UnbookOfficeRecord(ctx context.Context, id uint) (*models.OfficeRecord, error) {
	record, err := s.officeRecordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficeRecordNotFound
		}
		return nil, err
	}

	if !record.IsBooked {
		return nil, ErrNotBooked
	}

	if err := s.officeRecordRepo.ClearBooking(ctx, id); err != nil {
		return nil, err
	}

	record.IsBooked = false
	record.BookingImage = ""
	record.BookingDate = nil
	record.BookingCreatedAt = nil
	record.BookedSourceID = nil
	record.BookedSource = nil
	record.BookedPrice = 0
	record.IsUploaded = false
	record.UploadedSourceID = nil
	return record, nil
}

// MarkOfficeRecordUploaded records delivery of booking evidence to a source
func (s *BookingService) MarkOfficeRecordUploaded(ctx context.Context, id uint, sourceID *uint) (*models.OfficeRecord, error) {
	record, err := s.officeRecordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficeRecordNotFound
		}
		return nil, err
	}

	if sourceID != nil {
		if _, err := s.sourceRepo.GetByID(ctx, *sourceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSourceNotFound
			}
			return nil, err
		}
	}

	record.IsUploaded = true
	record.UploadedSourceID = sourceID

	if err := s.officeRecordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
