package handlers

import (
	"errors"

	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/pagination"
	"ninawa-bookdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RecycleHandler handles recycle bin endpoints
type RecycleHandler struct {
	lifecycleService *services.LifecycleService
}

// NewRecycleHandler creates a new recycle handler
func NewRecycleHandler(lifecycleService *services.LifecycleService) *RecycleHandler {
	return &RecycleHandler{lifecycleService: lifecycleService}
}

// List lists restorable recycle bin entries
// @Summary List recycle bin
// @Description List entries deleted within the last 72 hours
// @Tags RecycleBin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /recycle-bin [get]
func (h *RecycleHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.lifecycleService.ListBin(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list recycle bin")
	}

	return response.Success(c, "Recycle bin retrieved successfully", pagination.NewResponse(entries, params, total))
}

// Restore restores a record from the recycle bin
// @Summary Restore from recycle bin
// @Description Restore a deleted record with its original ID and family members
// @Tags RecycleBin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recycle bin entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 410 {object} response.Response
// @Router /recycle-bin/{id}/restore [post]
func (h *RecycleHandler) Restore(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	if err := h.lifecycleService.Restore(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrBinEntryNotFound):
			return response.NotFound(c, "Recycle bin entry not found")
		case errors.Is(err, services.ErrBinEntryExpired):
			return response.Gone(c, "Recycle bin entry has expired")
		case errors.Is(err, services.ErrRestoreConflict):
			return response.Conflict(c, "A record with the original ID already exists")
		default:
			return response.InternalServerError(c, "Failed to restore record")
		}
	}

	return response.Success(c, "Record restored successfully", nil)
}
