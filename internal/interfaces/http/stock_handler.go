package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// StockHandler maneja el ledger de stock: ajustes, niveles y traza (protegido).
type StockHandler struct {
	ledger       *fulfillment.LedgerUseCase
	availability *fulfillment.AvailabilityUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *fulfillment.LedgerUseCase, availability *fulfillment.AvailabilityUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, availability: availability}
}

// Adjust godoc
// @Summary      Ajuste directo del ledger
// @Description  Aplica un delta con signo al nivel de stock (kind=on_hand) o a
//
//	la cantidad reservada (kind=reserved). El motivo es obligatorio y queda
//	en la traza de movimientos.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "item_id, location_id, delta, reason"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	input := fulfillment.AdjustStockInput{
		ItemID:       in.ItemID,
		LocationID:   in.LocationID,
		LocationType: in.LocationType,
		Delta:        in.Delta,
		Reason:       in.Reason,
		Reference:    in.Reference,
		Override:     in.Override,
		ActorID:      GetUserID(c),
	}
	var (
		level *entity.StockLevel
		err   error
	)
	if in.Kind == "reserved" {
		level, err = h.ledger.AdjustReserved(c.Context(), input)
	} else {
		level, err = h.ledger.Adjust(c.Context(), input)
	}
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToStockLevelResponse(level))
}

// Levels godoc
// @Summary      Niveles de stock de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación (UUID)"
// @Param        limit        query  int     false  "Tamaño de página (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	levels, err := h.ledger.ListByLocation(c.Context(), locationID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, s := range levels {
		out = append(out, dto.ToStockLevelResponse(s))
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Artículos bajo el punto de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "Ubicación (UUID)"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	levels, err := h.ledger.ListLowStock(c.Context(), locationID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, s := range levels {
		out = append(out, dto.ToStockLevelResponse(s))
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Traza de movimientos de un artículo en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  true   "Artículo (UUID)"
// @Param        location_id  query  string  true   "Ubicación (UUID)"
// @Param        limit        query  int     false  "Tamaño de página (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	itemID, locationID := c.Query("item_id"), c.Query("location_id")
	if itemID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id y location_id requeridos"})
	}
	movements, err := h.ledger.ListMovements(c.Context(), itemID, locationID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToStockMovementResponse(m))
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Disponibilidad puntual de un artículo
// @Description  Lectura servida desde caché cuando hay hit; degrada al ledger.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  true  "Artículo (UUID)"
// @Param        location_id  query  string  true  "Ubicación (UUID)"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/available [get]
func (h *StockHandler) Available(c *fiber.Ctx) error {
	itemID, locationID := c.Query("item_id"), c.Query("location_id")
	if itemID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id y location_id requeridos"})
	}
	qty, err := h.availability.GetAvailable(c.Context(), locationID, itemID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"item_id": itemID, "location_id": locationID, "available": qty})
}
