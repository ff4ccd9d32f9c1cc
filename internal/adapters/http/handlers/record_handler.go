package handlers

import (
	"errors"
	"strconv"

	"ninawa-bookdesk/internal/adapters/persistence/repositories"
	"ninawa-bookdesk/internal/core/domain"
	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/pagination"
	"ninawa-bookdesk/internal/pkg/response"
	"ninawa-bookdesk/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// RecordHandler handles reviewer and office record endpoints
type RecordHandler struct {
	recordService    *services.RecordService
	bookingService   *services.BookingService
	lifecycleService *services.LifecycleService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(
	recordService *services.RecordService,
	bookingService *services.BookingService,
	lifecycleService *services.LifecycleService,
) *RecordHandler {
	return &RecordHandler{
		recordService:    recordService,
		bookingService:   bookingService,
		lifecycleService: lifecycleService,
	}
}

// paramID extracts the :id path parameter
func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// recordFilters builds list filters from query parameters
func recordFilters(c *fiber.Ctx) *repositories.RecordFilters {
	f := &repositories.RecordFilters{
		CircleType:  c.Query("circle_type"),
		TableNumber: c.Query("table_number"),
		Search:      c.Query("search"),
	}

	if raw := c.Query("is_booked"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.IsBooked = &v
		}
	}
	if raw := c.Query("is_archived"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.IsArchived = &v
		}
	}
	if raw := c.Query("office_id"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			id := uint(v)
			f.OfficeID = &id
		}
	}
	if raw := c.Query("source_id"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			id := uint(v)
			f.SourceID = &id
		}
	}

	return f
}

// mapRecordError translates service errors to HTTP responses
func mapRecordError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrReviewerNotFound):
		return response.NotFound(c, "Reviewer not found")
	case errors.Is(err, domain.ErrOfficeRecordNotFound):
		return response.NotFound(c, "Office record not found")
	case errors.Is(err, domain.ErrInvalidCircleType):
		return response.BadRequest(c, "Invalid circle type")
	case errors.Is(err, services.ErrOfficeNotFound):
		return response.NotFound(c, "Office not found")
	case errors.Is(err, services.ErrSourceNotFound):
		return response.NotFound(c, "Booking source not found")
	case errors.Is(err, services.ErrNotBooked):
		return response.Conflict(c, "Record is not booked")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Not found")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}

// ============================================================
// Reviewers
// ============================================================

// CreateReviewer creates a reviewer record
// @Summary Create reviewer
// @Description Register a new reviewer record
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateReviewerInput true "Reviewer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reviewers [post]
func (h *RecordHandler) CreateReviewer(c *fiber.Ctx) error {
	var input services.CreateReviewerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reviewer, err := h.recordService.CreateReviewer(c.Context(), &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Created(c, "Reviewer created successfully", reviewer)
}

// ListReviewers lists reviewer records
// @Summary List reviewers
// @Description List reviewer records with filters and pagination
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param circle_type query string false "Filter by circle type"
// @Param is_booked query bool false "Filter by booking state"
// @Param is_archived query bool false "Filter by archive state"
// @Param source_id query int false "Filter by booked source"
// @Param search query string false "Name prefix search"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /reviewers [get]
func (h *RecordHandler) ListReviewers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	reviewers, total, err := h.recordService.ListReviewers(c.Context(), recordFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reviewers")
	}

	return response.Success(c, "Reviewers retrieved successfully", pagination.NewResponse(reviewers, params, total))
}

// GetReviewer gets one reviewer
// @Summary Get reviewer
// @Description Get a reviewer record by ID including family members
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id} [get]
func (h *RecordHandler) GetReviewer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	reviewer, err := h.recordService.GetReviewer(c.Context(), id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer retrieved successfully", reviewer)
}

// UpdateReviewer updates a reviewer
// @Summary Update reviewer
// @Description Update a reviewer's identity fields
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Param body body services.UpdateReviewerInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id} [put]
func (h *RecordHandler) UpdateReviewer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	var input services.UpdateReviewerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reviewer, err := h.recordService.UpdateReviewer(c.Context(), id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer updated successfully", reviewer)
}

// BookReviewer books a reviewer
// @Summary Book reviewer
// @Description Book a reviewer and freeze the applicable price
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Param body body services.BookInput true "Booking data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id}/book [post]
func (h *RecordHandler) BookReviewer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	reviewer, err := h.bookingService.BookReviewer(c.Context(), id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer booked successfully", reviewer)
}

// UnbookReviewer cancels a reviewer booking
// @Summary Unbook reviewer
// @Description Cancel a reviewer booking and clear the frozen price
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reviewers/{id}/unbook [post]
func (h *RecordHandler) UnbookReviewer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	reviewer, err := h.bookingService.UnbookReviewer(c.Context(), id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer booking cancelled", reviewer)
}

// UploadRequest represents the mark-uploaded request body
type UploadRequest struct {
	SourceID *uint `json:"source_id,omitempty"`
}

// MarkReviewerUploaded marks a reviewer as uploaded
// @Summary Mark reviewer uploaded
// @Description Mark a reviewer's documents as uploaded to the external portal
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Param body body UploadRequest true "Upload data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id}/upload [post]
func (h *RecordHandler) MarkReviewerUploaded(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reviewer, err := h.bookingService.MarkReviewerUploaded(c.Context(), id, req.SourceID)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer marked as uploaded", reviewer)
}

// ArchiveReviewer archives a reviewer
// @Summary Archive reviewer
// @Tags Reviewers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} response.Response
// @Router /reviewers/{id}/archive [post]
func (h *RecordHandler) ArchiveReviewer(c *fiber.Ctx) error {
	return h.setReviewerArchived(c, true, "Reviewer archived successfully")
}

// UnarchiveReviewer restores a reviewer from the archive
// @Summary Unarchive reviewer
// @Tags Reviewers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} response.Response
// @Router /reviewers/{id}/unarchive [post]
func (h *RecordHandler) UnarchiveReviewer(c *fiber.Ctx) error {
	return h.setReviewerArchived(c, false, "Reviewer unarchived successfully")
}

func (h *RecordHandler) setReviewerArchived(c *fiber.Ctx, archived bool, message string) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	if archived {
		err = h.lifecycleService.Archive(c.Context(), domain.KindReviewer, id)
	} else {
		err = h.lifecycleService.Unarchive(c.Context(), domain.KindReviewer, id)
	}
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, message, nil)
}

// TrashReviewer moves a reviewer to the recycle bin
// @Summary Delete reviewer
// @Description Move a reviewer to the recycle bin (restorable for 72 hours)
// @Tags Reviewers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id} [delete]
func (h *RecordHandler) TrashReviewer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid reviewer ID")
	}

	username, _ := c.Locals("username").(string)
	entry, err := h.lifecycleService.Trash(c.Context(), domain.KindReviewer, id, username)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Reviewer moved to recycle bin", entry)
}

// ============================================================
// Office Records
// ============================================================

// CreateOfficeRecord creates an office record
// @Summary Create office record
// @Description Register a new record owned by an office
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOfficeRecordInput true "Record data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /office-records [post]
func (h *RecordHandler) CreateOfficeRecord(c *fiber.Ctx) error {
	var input services.CreateOfficeRecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	record, err := h.recordService.CreateOfficeRecord(c.Context(), &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Created(c, "Office record created successfully", record)
}

// ListOfficeRecords lists office records
// @Summary List office records
// @Description List office records with filters and pagination
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param circle_type query string false "Filter by circle type"
// @Param is_booked query bool false "Filter by booking state"
// @Param is_archived query bool false "Filter by archive state"
// @Param office_id query int false "Filter by owning office"
// @Param source_id query int false "Filter by booked source"
// @Param table_number query string false "Filter by table number"
// @Param search query string false "Name prefix search"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /office-records [get]
func (h *RecordHandler) ListOfficeRecords(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	records, total, err := h.recordService.ListOfficeRecords(c.Context(), recordFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list office records")
	}

	return response.Success(c, "Office records retrieved successfully", pagination.NewResponse(records, params, total))
}

// GetOfficeRecord gets one office record
// @Summary Get office record
// @Tags OfficeRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id} [get]
func (h *RecordHandler) GetOfficeRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.recordService.GetOfficeRecord(c.Context(), id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record retrieved successfully", record)
}

// UpdateOfficeRecord updates an office record
// @Summary Update office record
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body services.UpdateOfficeRecordInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id} [put]
func (h *RecordHandler) UpdateOfficeRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var input services.UpdateOfficeRecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.recordService.UpdateOfficeRecord(c.Context(), id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record updated successfully", record)
}

// BookOfficeRecord books an office record
// @Summary Book office record
// @Description Book an office record and freeze the applicable price
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body services.BookInput true "Booking data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id}/book [post]
func (h *RecordHandler) BookOfficeRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	record, err := h.bookingService.BookOfficeRecord(c.Context(), id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record booked successfully", record)
}

// UnbookOfficeRecord cancels an office record booking
// @Summary Unbook office record
// @Tags OfficeRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /office-records/{id}/unbook [post]
func (h *RecordHandler) UnbookOfficeRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	record, err := h.bookingService.UnbookOfficeRecord(c.Context(), id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record booking cancelled", record)
}

// MarkOfficeRecordUploaded marks an office record as uploaded
// @Summary Mark office record uploaded
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body UploadRequest true "Upload data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id}/upload [post]
func (h *RecordHandler) MarkOfficeRecordUploaded(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.bookingService.MarkOfficeRecordUploaded(c.Context(), id, req.SourceID)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record marked as uploaded", record)
}

// ArchiveOfficeRecord archives an office record
// @Summary Archive office record
// @Tags OfficeRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Router /office-records/{id}/archive [post]
func (h *RecordHandler) ArchiveOfficeRecord(c *fiber.Ctx) error {
	return h.setOfficeRecordArchived(c, true, "Office record archived successfully")
}

// UnarchiveOfficeRecord restores an office record from the archive
// @Summary Unarchive office record
// @Tags OfficeRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Router /office-records/{id}/unarchive [post]
func (h *RecordHandler) UnarchiveOfficeRecord(c *fiber.Ctx) error {
	return h.setOfficeRecordArchived(c, false, "Office record unarchived successfully")
}

func (h *RecordHandler) setOfficeRecordArchived(c *fiber.Ctx, archived bool, message string) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	if archived {
		err = h.lifecycleService.Archive(c.Context(), domain.KindOfficeRecord, id)
	} else {
		err = h.lifecycleService.Unarchive(c.Context(), domain.KindOfficeRecord, id)
	}
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, message, nil)
}

// TrashOfficeRecord moves an office record to the recycle bin
// @Summary Delete office record
// @Description Move an office record to the recycle bin (restorable for 72 hours)
// @Tags OfficeRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id} [delete]
func (h *RecordHandler) TrashOfficeRecord(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	username, _ := c.Locals("username").(string)
	entry, err := h.lifecycleService.Trash(c.Context(), domain.KindOfficeRecord, id, username)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Office record moved to recycle bin", entry)
}

// ============================================================
// Family Members
// ============================================================

// AddReviewerFamilyMember adds a family member to a reviewer
// @Summary Add family member to reviewer
// @Tags Reviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Param body body services.FamilyMemberInput true "Family member data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reviewers/{id}/family [post]
func (h *RecordHandler) AddReviewerFamilyMember(c *fiber.Ctx) error {
	return h.addFamilyMember(c, domain.KindReviewer)
}

// AddOfficeRecordFamilyMember adds a family member to an office record
// @Summary Add family member to office record
// @Tags OfficeRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param body body services.FamilyMemberInput true "Family member data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /office-records/{id}/family [post]
func (h *RecordHandler) AddOfficeRecordFamilyMember(c *fiber.Ctx) error {
	return h.addFamilyMember(c, domain.KindOfficeRecord)
}

func (h *RecordHandler) addFamilyMember(c *fiber.Ctx, kind domain.RecordKind) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	var input services.FamilyMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.recordService.AddFamilyMember(c.Context(), kind, id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Created(c, "Family member added successfully", member)
}

// UpdateFamilyMember updates a family member
// @Summary Update family member
// @Tags FamilyMembers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family member ID"
// @Param body body services.FamilyMemberInput true "Family member data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /family-members/{id} [put]
func (h *RecordHandler) UpdateFamilyMember(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family member ID")
	}

	var input services.FamilyMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.recordService.UpdateFamilyMember(c.Context(), id, &input)
	if err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Family member updated successfully", member)
}

// RemoveFamilyMember removes a family member
// @Summary Remove family member
// @Tags FamilyMembers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Family member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /family-members/{id} [delete]
func (h *RecordHandler) RemoveFamilyMember(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid family member ID")
	}

	if err := h.recordService.RemoveFamilyMember(c.Context(), id); err != nil {
		return mapRecordError(c, err)
	}

	return response.Success(c, "Family member removed successfully", nil)
}
