package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/dto"
)

// FacilityHandler maneja los establecimientos (protegido).
type FacilityHandler struct {
	uc *catalog.FacilityUseCase
}

// NewFacilityHandler construye el handler.
func NewFacilityHandler(uc *catalog.FacilityUseCase) *FacilityHandler {
	return &FacilityHandler{uc: uc}
}

// Create godoc
// @Summary      Crear establecimiento
// @Tags         facilities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFacilityRequest  true  "name, location_type"
// @Success      201   {object}  dto.FacilityResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/facilities [post]
func (h *FacilityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFacilityRequest
	if !parseBody(c, &in) {
		return nil
	}
	facility, err := h.uc.Create(catalog.CreateFacilityInput{
		Name:         in.Name,
		LocationType: in.LocationType,
		Address:      in.Address,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToFacilityResponse(facility))
}

// List godoc
// @Summary      Listar establecimientos
// @Tags         facilities
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.FacilityResponse
// @Router       /api/facilities [get]
func (h *FacilityHandler) List(c *fiber.Ctx) error {
	facilities, err := h.uc.List(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, dto.ToFacilityResponse(f))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un establecimiento
// @Tags         facilities
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del establecimiento"
// @Success      200  {object}  dto.FacilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/facilities/{id} [get]
func (h *FacilityHandler) GetByID(c *fiber.Ctx) error {
	facility, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToFacilityResponse(facility))
}

// ItemHandler maneja el catálogo de artículos (protegido).
type ItemHandler struct {
	uc *catalog.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *catalog.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "sku, name, unit, unit_price, reorder_level"
// @Success      201   {object}  dto.ItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.Create(catalog.CreateItemInput{
		SKU:          in.SKU,
		Name:         in.Name,
		Unit:         in.Unit,
		UnitPrice:    in.UnitPrice,
		ReorderLevel: in.ReorderLevel,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

// List godoc
// @Summary      Listar artículos del catálogo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemResponse(it))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}

// GetBySKU godoc
// @Summary      Buscar artículo por SKU
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/sku/{sku} [get]
func (h *ItemHandler) GetBySKU(c *fiber.Ctx) error {
	item, err := h.uc.GetBySKU(c.Params("sku"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}
