package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/dto"
	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/domain"
)

// RequestHandler maneja el ciclo de vida de las solicitudes de suministro (protegido).
type RequestHandler struct {
	createUC     *fulfillment.CreateRequestUseCase
	processor    *fulfillment.Processor
	availability *fulfillment.AvailabilityUseCase
	dispatchNote *fulfillment.DispatchNoteUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(
	createUC *fulfillment.CreateRequestUseCase,
	processor *fulfillment.Processor,
	availability *fulfillment.AvailabilityUseCase,
	dispatchNote *fulfillment.DispatchNoteUseCase,
) *RequestHandler {
	return &RequestHandler{
		createUC:     createUC,
		processor:    processor,
		availability: availability,
		dispatchNote: dispatchNote,
	}
}

// Create godoc
// @Summary      Crear solicitud de suministro
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "central_store_id, priority, lines"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if !parseBody(c, &in) {
		return nil
	}
	input := fulfillment.CreateRequestInput{
		RequesterID:        GetUserID(c),
		RequestingFacility: GetFacilityID(c),
		CentralStoreID:     in.CentralStoreID,
		Priority:           in.Priority,
		Notes:              in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, fulfillment.LineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	req, err := h.createUC.CreateRequest(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes del establecimiento propio
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.RequestResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.processor.ListByFacility(c.Context(),
		GetFacilityID(c), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, dto.ToRequestResponse(r))
	}
	return c.JSON(out)
}

// Inbox godoc
// @Summary      Bandeja de revisión del almacén central
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado (default pending)"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/requests/inbox [get]
func (h *RequestHandler) Inbox(c *fiber.Ctx) error {
	status := c.Query("status", "pending")
	requests, err := h.processor.ListByStatus(c.Context(), status, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, dto.ToRequestResponse(r))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de una solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.processor.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Approve godoc
// @Summary      Aprobar solicitud línea a línea
// @Description  Cantidad aprobada por artículo, acotada por lo solicitado y lo
//
//	disponible en el almacén. Línea ausente queda en cero (no aprobada).
//
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ApproveRequestRequest  true  "approvals: {item_id: cantidad}"
// @Success      200   {object}  dto.RequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequestRequest
	if !parseBody(c, &in) {
		return nil
	}
	req, err := h.processor.Approve(c.Context(), c.Params("id"), GetUserID(c), in.Approvals)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// QuickApprove godoc
// @Summary      Aprobación rápida (aprobar todo + despachar)
// @Description  Aprueba todas las líneas por lo solicitado y despacha de inmediato.
//
//	Exige disponibilidad completa. Si la aprobación queda confirmada pero el
//	despacho falla, responde 202 con la solicitud aprobada.
//
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Success      202  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/quick-approve [post]
func (h *RequestHandler) QuickApprove(c *fiber.Ctx) error {
	req, err := h.processor.QuickApprove(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrDispatchPending) && req != nil {
			return c.Status(fiber.StatusAccepted).JSON(dto.ToRequestResponse(req))
		}
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectRequestRequest  true  "reason (obligatorio)"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequestRequest
	if !parseBody(c, &in) {
		return nil
	}
	req, err := h.processor.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Dispatch godoc
// @Summary      Despachar solicitud aprobada
// @Description  Descuenta del almacén central lo aprobado de cada línea con
//
//	bloqueo de fila. Si alguna línea no alcanza, no sale nada.
//
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/dispatch [post]
func (h *RequestHandler) Dispatch(c *fiber.Ctx) error {
	req, err := h.processor.Dispatch(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Receive godoc
// @Summary      Registrar recepción en el establecimiento destino
// @Description  Suma lo recibido al stock del establecimiento. La diferencia
//
//	contra lo despachado queda registrada como varianza, no es error.
//
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReceiveRequestRequest  true  "receipts: {item_id: cantidad}"
// @Success      200   {object}  dto.RequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/receive [post]
func (h *RequestHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequestRequest
	if !parseBody(c, &in) {
		return nil
	}
	req, err := h.processor.Receive(c.Context(), c.Params("id"), GetUserID(c), in.Receipts)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// CheckAvailability godoc
// @Summary      Disponibilidad en tiempo real
// @Description  Calcula cuánto hay disponible de cada línea en la ubicación
//
//	origen, con faltante y valor. Se consulta antes de aprobar.
//
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckAvailabilityRequest  true  "source_location_id, lines"
// @Success      200   {object}  dto.AvailabilityReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/availability [post]
func (h *RequestHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CheckAvailabilityRequest
	if !parseBody(c, &in) {
		return nil
	}
	lines := make([]fulfillment.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, fulfillment.LineInput{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	report, err := h.availability.CheckAvailability(c.Context(), in.SourceLocationID, lines)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.AvailabilityReportResponse{
		LocationID:   report.LocationID,
		AllAvailable: report.AllAvailable,
	}
	for _, l := range report.Lines {
		out.Lines = append(out.Lines, dto.AvailabilityLineResponse{
			ItemID:     l.ItemID,
			SKU:        l.SKU,
			ItemName:   l.ItemName,
			Requested:  l.Requested,
			Available:  l.Available,
			CanFulfill: l.CanFulfill,
			Shortage:   l.Shortage,
			UnitPrice:  l.UnitPrice,
			TotalValue: l.TotalValue,
		})
	}
	return c.JSON(out)
}

// DispatchNote godoc
// @Summary      Remisión de despacho en PDF
// @Tags         requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/dispatch-note [get]
func (h *RequestHandler) DispatchNote(c *fiber.Ctx) error {
	pdfBytes, err := h.dispatchNote.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="remision.pdf"`)
	return c.Send(pdfBytes)
}
