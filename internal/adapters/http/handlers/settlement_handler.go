package handlers

import (
	"errors"

	"ninawa-bookdesk/internal/core/domain"
	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/pagination"
	"ninawa-bookdesk/internal/pkg/response"
	"ninawa-bookdesk/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// SettlementHandler handles debt and settlement endpoints
type SettlementHandler struct {
	settlementService *services.SettlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementService *services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

func mapSettlementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrOfficeNotFound):
		return response.NotFound(c, "Office not found")
	case errors.Is(err, services.ErrSourceNotFound):
		return response.NotFound(c, "Booking source not found")
	case errors.Is(err, domain.ErrInvalidSettlementAmount):
		return response.BadRequest(c, "Settlement amount must be greater than zero")
	case errors.Is(err, domain.ErrInvalidEntityType):
		return response.BadRequest(c, "Invalid entity type")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}

func (h *SettlementHandler) balance(c *fiber.Ctx, entityType domain.EntityType) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	balance, err := h.settlementService.Balance(c.Context(), entityType, id)
	if err != nil {
		return mapSettlementError(c, err)
	}

	return response.Success(c, "Balance retrieved successfully", balance)
}

func (h *SettlementHandler) settle(c *fiber.Ctx, entityType domain.EntityType) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var input services.SettleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validator.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if input.RecordedBy == "" {
		if username, ok := c.Locals("username").(string); ok {
			input.RecordedBy = username
		}
	}

	result, err := h.settlementService.Settle(c.Context(), entityType, id, &input)
	if err != nil {
		return mapSettlementError(c, err)
	}

	message := "Payment recorded successfully"
	if result.Archived {
		message = "Payment recorded, debt fully settled and records archived"
	}
	return response.Success(c, message, result)
}

// OfficeBalance returns an office's debt balance
// @Summary Office balance
// @Description Get total owed, total paid and outstanding for an office
// @Tags Settlements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id}/balance [get]
func (h *SettlementHandler) OfficeBalance(c *fiber.Ctx) error {
	return h.balance(c, domain.EntityOffice)
}

// SourceBalance returns a booking source's debt balance
// @Summary Source balance
// @Description Get total owed, total paid and outstanding for a booking source
// @Tags Settlements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id}/balance [get]
func (h *SettlementHandler) SourceBalance(c *fiber.Ctx) error {
	return h.balance(c, domain.EntitySource)
}

// SettleOffice records an office payment
// @Summary Record office payment
// @Description Record a payment against an office's debt; full settlement archives the debt records
// @Tags Settlements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Param body body services.SettleInput true "Payment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id}/settlements [post]
func (h *SettlementHandler) SettleOffice(c *fiber.Ctx) error {
	return h.settle(c, domain.EntityOffice)
}

// SettleSource records a booking source payment
// @Summary Record source payment
// @Description Record a payment against a booking source's debt; full settlement archives the debt records
// @Tags Settlements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Param body body services.SettleInput true "Payment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id}/settlements [post]
func (h *SettlementHandler) SettleSource(c *fiber.Ctx) error {
	return h.settle(c, domain.EntitySource)
}

// ListOfficePayments lists an office's settlement history
// @Summary Office payment history
// @Tags Settlements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /offices/{id}/settlements [get]
func (h *SettlementHandler) ListOfficePayments(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid office ID")
	}

	params := pagination.GetParams(c)
	payments, total, err := h.settlementService.ListOfficePayments(c.Context(), id, params.Offset, params.Limit)
	if err != nil {
		return mapSettlementError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", pagination.NewResponse(payments, params, total))
}

// ListSourcePayments lists a booking source's settlement history
// @Summary Source payment history
// @Tags Settlements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Source ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /sources/{id}/settlements [get]
func (h *SettlementHandler) ListSourcePayments(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid source ID")
	}

	params := pagination.GetParams(c)
	payments, total, err := h.settlementService.ListSourcePayments(c.Context(), id, params.Offset, params.Limit)
	if err != nil {
		return mapSettlementError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", pagination.NewResponse(payments, params, total))
}
