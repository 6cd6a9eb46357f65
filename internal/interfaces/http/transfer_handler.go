package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/transfer"
)

// TransferHandler maneja los traslados directos entre ubicaciones (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado directo
// @Description  Descuenta el stock del origen al crearse; el destino lo recibe
//
//	después con la recepción masiva.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "from_location_id, to_location_id, lines"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	input := transfer.CreateTransferInput{
		FromLocationID: in.FromLocationID,
		FromType:       in.FromType,
		ToLocationID:   in.ToLocationID,
		ToType:         in.ToType,
		ActorID:        GetUserID(c),
		Notes:          in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, transfer.LineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	t, err := h.uc.Create(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransferResponse(t))
}

// GetByID godoc
// @Summary      Detalle de un traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}

// List godoc
// @Summary      Traslados donde una ubicación es origen o destino
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación (UUID)"
// @Param        limit        query  int     false  "Tamaño de página (default 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	transfers, err := h.uc.ListByLocation(c.Context(), locationID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.ToTransferResponse(t))
	}
	return c.JSON(out)
}

// BulkReceive godoc
// @Summary      Recepción masiva del traslado
// @Description  Registra lo recibido por línea y suma al stock del destino.
//
//	Acepta recepciones parciales; la conciliación muestra lo pendiente.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del traslado"
// @Param        body  body  dto.BulkReceiveRequest  true  "receipts: {item_id: cantidad}"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) BulkReceive(c *fiber.Ctx) error {
	var in dto.BulkReceiveRequest
	if !parseBody(c, &in) {
		return nil
	}
	t, err := h.uc.BulkReceive(c.Context(), c.Params("id"), GetUserID(c), in.Receipts)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}

// Reconciliation godoc
// @Summary      Conciliación enviado vs recibido
// @Description  Deriva por línea pendiente, varianza, porcentaje de recepción
//
//	y estado con etiqueta para el portal.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reconciliation [get]
func (h *TransferHandler) Reconciliation(c *fiber.Ctx) error {
	report, err := h.uc.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToReconciliationResponse(report))
}
