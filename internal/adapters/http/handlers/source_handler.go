package handlers

import (
	"errors"

	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/pagination"
	"ninawa-bookdesk/internal/pkg/response"
	"ninawa-bookdesk/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// SourceHandler handles booking source endpoints
type SourceHandler struct {
	sourceService *services.SourceService
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(sourceService *services.SourceService) *SourceHandler {
	return &SourceHandler{sourceService: sourceService}
}

func mapSourceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSourceNotFound):
		return response.NotFound(c, "Booking source not found")
	case errors.Is(err, services.ErrSourceNameTaken):
		return response.Conflict(c, "Source name already exists")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}

// Create creates a booking source
// @Summary Create booking source
// @Description Register a booking source with its price list
// @Tags Sources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateSourceInput true "Source data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sources [post]
func (h *SourceHandler) Create(c *fiber.Ctx) error {
	var input services.CreateSourceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	source, err := h.sourceService.Create(c.Context(), &input)
	if err != nil {
		return mapSourceError(c, err)
	}

	return response.Created(c, "Booking source created successfully", source)
}

// List lists booking sources
// @Summary List booking sources
// @Tags Sources
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /sources [get]
func (h *SourceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	sources, total, err := h.sourceService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list booking sources")
	}

	return response.Success(c, "Booking sources retrieved successfully", pagination.NewResponse(sources, params, total))
}

// Get gets one booking source
// @Summary Get booking source
// @Tags Sources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id} [get]
func (h *SourceHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid source ID")
	}

	source, err := h.sourceService.Get(c.Context(), id)
	if err != nil {
		return mapSourceError(c, err)
	}

	return response.Success(c, "Booking source retrieved successfully", source)
}

// Update updates a booking source
// @Summary Update booking source
// @Description Update source details and price list (future bookings only)
// @Tags Sources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Param body body services.UpdateSourceInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id} [put]
func (h *SourceHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid source ID")
	}

	var input services.UpdateSourceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	source, err := h.sourceService.Update(c.Context(), id, &input)
	if err != nil {
		return mapSourceError(c, err)
	}

	return response.Success(c, "Booking source updated successfully", source)
}

// Delete deletes a booking source
// @Summary Delete booking source
// @Description Soft-delete a booking source; frozen prices and debts remain
// @Tags Sources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id} [delete]
func (h *SourceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid source ID")
	}

	if err := h.sourceService.Delete(c.Context(), id); err != nil {
		return mapSourceError(c, err)
	}

	return response.Success(c, "Booking source deleted successfully", nil)
}
