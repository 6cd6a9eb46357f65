package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Suministros-api/internal/application/auth"
	"github.com/jhoicas/Suministros-api/internal/application/catalog"
	"github.com/jhoicas/Suministros-api/internal/application/fulfillment"
	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	FacilityUC    *catalog.FacilityUseCase
	ItemUC        *catalog.ItemUseCase
	CreateRequest *fulfillment.CreateRequestUseCase
	Processor     *fulfillment.Processor
	Availability  *fulfillment.AvailabilityUseCase
	Ledger        *fulfillment.LedgerUseCase
	DispatchNote  *fulfillment.DispatchNoteUseCase
	TransferUC    *transfer.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Facilities (protegido; creación solo admin)
	facilities := protected.Group("/facilities")
	facilityHandler := NewFacilityHandler(deps.FacilityUC)
	facilities.Post("/", RequireRole(entity.RoleAdmin), facilityHandler.Create)
	facilities.Get("/", facilityHandler.List)
	facilities.Get("/:id", facilityHandler.GetByID)

	// Items (protegido; creación solo admin)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole(entity.RoleAdmin), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/sku/:sku", itemHandler.GetBySKU)
	items.Get("/:id", itemHandler.GetByID)

	// Solicitudes de suministro (protegido; el Authorizer afina por actor)
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.CreateRequest, deps.Processor, deps.Availability, deps.DispatchNote)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/inbox", RequireRole(entity.RoleAdmin, entity.RoleRevisor), requestHandler.Inbox)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/quick-approve", requestHandler.QuickApprove)
	requests.Post("/:id/reject", requestHandler.Reject)
	requests.Post("/:id/dispatch", requestHandler.Dispatch)
	requests.Post("/:id/receive", requestHandler.Receive)
	requests.Get("/:id/dispatch-note", requestHandler.DispatchNote)

	// Disponibilidad en tiempo real (protegido)
	protected.Post("/availability", requestHandler.CheckAvailability)

	// Ledger de stock (protegido; ajustes solo admin/despachador)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.Availability)
	stock.Post("/adjust", RequireRole(entity.RoleAdmin, entity.RoleDespachador), stockHandler.Adjust)
	stock.Get("/levels", stockHandler.Levels)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/available", stockHandler.Available)

	// Traslados directos (protegido; creación solo admin/despachador)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleDespachador), transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/receive", transferHandler.BulkReceive)
	transfers.Get("/:id/reconciliation", transferHandler.Reconciliation)
}
