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

// RecordService handles person-record CRUD for both collections plus
// family member maintenance. Booking transitions live in BookingService,
// archive/trash transitions in LifecycleService.
type RecordService struct {
	reviewerRepo     *repositories.ReviewerRepository
	officeRecordRepo *repositories.OfficeRecordRepository
	familyRepo       *repositories.FamilyMemberRepository
	officeRepo       *repositories.OfficeRepository
}

// NewRecordService creates a new record service
func NewRecordService(
	reviewerRepo *repositories.ReviewerRepository,
	officeRecordRepo *repositories.OfficeRecordRepository,
	familyRepo *repositories.FamilyMemberRepository,
	officeRepo *repositories.OfficeRepository,
) *RecordService {
	return &RecordService{
		reviewerRepo:     reviewerRepo,
		officeRecordRepo: officeRecordRepo,
		familyRepo:       familyRepo,
		officeRepo:       officeRepo,
	}
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("invalid date format, use YYYY-MM-DD")
	}
	return &d, nil
}

// CreateReviewerInput represents reviewer creation input
type CreateReviewerInput struct {
	FullName    string `json:"full_name" validate:"required,max=100"`
	Surname     string `json:"surname,omitempty" validate:"max=100"`
	MotherName  string `json:"mother_name,omitempty" validate:"max=100"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Phone       string `json:"phone,omitempty" validate:"max=20"`
	CircleType  string `json:"circle_type" validate:"required"`
}

// CreateReviewer creates a reviewer record
func (s *RecordService) CreateReviewer(ctx context.Context, input *CreateReviewerInput) (*models.Reviewer, error) {
	circleType, ok := domain.ParseCircleType(input.CircleType)
	if !ok {
		return nil, domain.ErrInvalidCircleType
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	reviewer := &models.Reviewer{
		FullName:    input.FullName,
		Surname:     input.Surname,
		MotherName:  input.MotherName,
		DateOfBirth: dob,
		Phone:       input.Phone,
		CircleType:  string(circleType),
	}

	if err := s.reviewerRepo.Create(ctx, reviewer); err != nil {
		return nil, err
	}
	return reviewer, nil
}

// GetReviewer gets a reviewer by ID
func (s *RecordService) GetReviewer(ctx context.Context, id uint) (*models.Reviewer, error) {
	reviewer, err := s.reviewerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReviewerNotFound
		}
		return nil, err
	}
	return reviewer, nil
}

// UpdateReviewerInput represents reviewer update input; nil fields are untouched
type UpdateReviewerInput struct {
	FullName    *string `json:"full_name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	MotherName  *string `json:"mother_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CircleType  *string `json:"circle_type,omitempty"`
}

// UpdateReviewer updates a reviewer's identity fields. Changing the circle
// type never repopulates a frozen price; that happens only at booking time.
func (s *RecordService) UpdateReviewer(ctx context.Context, id uint, input *UpdateReviewerInput) (*models.Reviewer, error) {
	reviewer, err := s.GetReviewer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		reviewer.FullName = *input.FullName
	}
	if input.Surname != nil {
		reviewer.Surname = *input.Surname
	}
	if input.MotherName != nil {
		reviewer.MotherName = *input.MotherName
	}
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		reviewer.DateOfBirth = dob
	}
	if input.Phone != nil {
		reviewer.Phone = *input.Phone
	}
	if input.CircleType != nil {
		circleType, ok := domain.ParseCircleType(*input.CircleType)
		if !ok {
			return nil, domain.ErrInvalidCircleType
		}
		reviewer.CircleType = string(circleType)
	}

	if err := s.reviewerRepo.Update(ctx, reviewer); err != nil {
		return nil, err
	}
	return reviewer, nil
}

// ListReviewers lists reviewers with filters and pagination
func (s *RecordService) ListReviewers(ctx context.Context, f *repositories.RecordFilters, offset, limit int) ([]*models.Reviewer, int64, error) {
	return s.reviewerRepo.List(ctx, f, offset, limit)
}

// CreateOfficeRecordInput represents office record creation input
type CreateOfficeRecordInput struct {
	OfficeID    uint   `json:"office_id" validate:"required"`
	TableNumber string `json:"table_number,omitempty" validate:"max=50"`
	FullName    string `json:"full_name" validate:"required,max=100"`
	Surname     string `json:"surname,omitempty" validate:"max=100"`
	MotherName  string `json:"mother_name,omitempty" validate:"max=100"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Phone       string `json:"phone,omitempty" validate:"max=20"`
	CircleType  string `json:"circle_type" validate:"required"`
}

// CreateOfficeRecord creates a record owned by an office. The office name
// is denormalized onto the record for display.
func (s *RecordService) CreateOfficeRecord(ctx context.Context, input *CreateOfficeRecordInput) (*models.OfficeRecord, error) {
	circleType, ok := domain.ParseCircleType(input.CircleType)
	if !ok {
		return nil, domain.ErrInvalidCircleType
	}

	office, err := s.officeRepo.GetByID(ctx, input.OfficeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, err
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	record := &models.OfficeRecord{
		OfficeID:    office.ID,
		Affiliation: office.OfficeName,
		TableNumber: input.TableNumber,
		FullName:    input.FullName,
		Surname:     input.Surname,
		MotherName:  input.MotherName,
		DateOfBirth: dob,
		Phone:       input.Phone,
		CircleType:  string(circleType),
	}

	if err := s.officeRecordRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetOfficeRecord gets an office record by ID
func (s *RecordService) GetOfficeRecord(ctx context.Context, id uint) (*models.OfficeRecord, error) {
	record, err := s.officeRecordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOfficeRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// UpdateOfficeRecordInput represents office record update input
type UpdateOfficeRecordInput struct {
	TableNumber *string `json:"table_number,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	MotherName  *string `json:"mother_name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CircleType  *string `json:"circle_type,omitempty"`
}

// UpdateOfficeRecord updates an office record's identity fields
func (s *RecordService) UpdateOfficeRecord(ctx context.Context, id uint, input *UpdateOfficeRecordInput) (*models.OfficeRecord, error) {
	record, err := s.GetOfficeRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TableNumber != nil {
		record.TableNumber = *input.TableNumber
	}
	if input.FullName != nil {
		record.FullName = *input.FullName
	}
	if input.Surname != nil {
		record.Surname = *input.Surname
	}
	if input.MotherName != nil {
		record.MotherName = *input.MotherName
	}
	if input.DateOfBirth != nil {
		dob, err := parseDate(*input.DateOfBirth)
		if err != nil {
			return nil, err
		}
		record.DateOfBirth = dob
	}
	if input.Phone != nil {
		record.Phone = *input.Phone
	}
	if input.CircleType != nil {
		circleType, ok := domain.ParseCircleType(*input.CircleType)
		if !ok {
			return nil, domain.ErrInvalidCircleType
		}
		record.CircleType = string(circleType)
	}

	if err := s.officeRecordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListOfficeRecords lists office records with filters and pagination
func (s *RecordService) ListOfficeRecords(ctx context.Context, f *repositories.RecordFilters, offset, limit int) ([]*models.OfficeRecord, int64, error) {
	return s.officeRecordRepo.List(ctx, f, offset, limit)
}

// FamilyMemberInput represents family member input
type FamilyMemberInput struct {
	Relationship string `json:"relationship" validate:"required,max=50"`
	FullName     string `json:"full_name" validate:"required,max=100"`
	Surname      string `json:"surname,omitempty" validate:"max=100"`
	MotherName   string `json:"mother_name,omitempty" validate:"max=100"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
}

// AddFamilyMember attaches a family member to a person record. Family
// members ride on the head's booking and carry no financial identity.
func (s *RecordService) AddFamilyMember(ctx context.Context, kind domain.RecordKind, recordID uint, input *FamilyMemberInput) (*models.FamilyMember, error) {
	switch kind {
	case domain.KindReviewer:
		if _, err := s.GetReviewer(ctx, recordID); err != nil {
			return nil, err
		}
	case domain.KindOfficeRecord:
		if _, err := s.GetOfficeRecord(ctx, recordID); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidRecordKind
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	member := &models.FamilyMember{
		RecordType:   string(kind),
		RecordID:     recordID,
		Relationship: input.Relationship,
		FullName:     input.FullName,
		Surname:      input.Surname,
		MotherName:   input.MotherName,
		DateOfBirth:  dob,
	}

	if err := s.familyRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateFamilyMember updates a family member
func (s *RecordService) UpdateFamilyMember(ctx context.Context, id uint, input *FamilyMemberInput) (*models.FamilyMember, error) {
	member, err := s.familyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return nil, err
	}

	member.Relationship = input.Relationship
	member.FullName = input.FullName
	member.Surname = input.Surname
	member.MotherName = input.MotherName
	member.DateOfBirth = dob

	if err := s.familyRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveFamilyMember removes a family member
func (s *RecordService) RemoveFamilyMember(ctx context.Context, id uint) error {
	if _, err := s.familyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.familyRepo.Delete(ctx, id)
}
