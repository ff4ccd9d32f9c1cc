package handlers

import (
	"errors"

	"ninawa-bookdesk/internal/adapters/persistence/models"
	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/pagination"
	"ninawa-bookdesk/internal/pkg/response"
	"ninawa-bookdesk/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// OfficeHandler handles office management endpoints
type OfficeHandler struct {
	officeService *services.OfficeService
}

// NewOfficeHandler creates a new office handler
func NewOfficeHandler(officeService *services.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeService: officeService}
}

func mapOfficeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOfficeNotFound):
		return response.NotFound(c, "Office not found")
	case errors.Is(err, services.ErrOfficeNameTaken):
		return response.Conflict(c, "Office name already exists")
	case errors.Is(err, services.ErrOfficeUsernameTaken):
		return response.Conflict(c, "Username already exists")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}

// Create creates an office
// @Summary Create office
// @Description Register an office account with its price list
// @Tags Offices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOfficeInput true "Office data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /offices [post]
func (h *OfficeHandler) Create(c *fiber.Ctx) error {
	var input services.CreateOfficeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	office, err := h.officeService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrOfficeNameTaken) || errors.Is(err, services.ErrOfficeUsernameTaken) {
			return mapOfficeError(c, err)
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, "Office created successfully", office.ToResponse())
}

// List lists offices
// @Summary List offices
// @Description List office accounts with presence and price lists
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /offices [get]
func (h *OfficeHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	offices, total, err := h.officeService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list offices")
	}

	responses := make([]*models.OfficeResponse, 0, len(offices))
	for _, office := range offices {
		responses = append(responses, office.ToResponse())
	}

	return response.Success(c, "Offices retrieved successfully", pagination.NewResponse(responses, params, total))
}

// Get gets one office
// @Summary Get office
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id} [get]
func (h *OfficeHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid office ID")
	}

	office, err := h.officeService.Get(c.Context(), id)
	if err != nil {
		return mapOfficeError(c, err)
	}

	return response.Success(c, "Office retrieved successfully", office.ToResponse())
}

// Update updates an office
// @Summary Update office
// @Description Update office details and price list (future bookings only)
// @Tags Offices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Param body body services.UpdateOfficeInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id} [put]
func (h *OfficeHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid office ID")
	}

	var input services.UpdateOfficeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	office, err := h.officeService.Update(c.Context(), id, &input)
	if err != nil {
		return mapOfficeError(c, err)
	}

	return response.Success(c, "Office updated successfully", office.ToResponse())
}

// Delete deletes an office
// @Summary Delete office
// @Description Soft-delete an office account and revoke its sessions
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id} [delete]
func (h *OfficeHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid office ID")
	}

	if err := h.officeService.Delete(c.Context(), id); err != nil {
		return mapOfficeError(c, err)
	}

	return response.Success(c, "Office deleted successfully", nil)
}

// Kick forces an office logout
// @Summary Force office logout
// @Description Flag an office for forced logout and revoke its tokens
// @Tags Offices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id}/kick [post]
func (h *OfficeHandler) Kick(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid office ID")
	}

	if err := h.officeService.Kick(c.Context(), id); err != nil {
		return mapOfficeError(c, err)
	}

	return response.Success(c, "Office logout forced", nil)
}
