package fulfillment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Suministros-api/internal/domain"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
	domainrequest "github.com/jhoicas/Suministros-api/internal/domain/request"
	"github.com/jhoicas/Suministros-api/internal/domain/repository"
	"github.com/jhoicas/Suministros-api/pkg/logger"
)

// Eventos notificados tras cada transición confirmada.
const (
	EventApproved          = "request_approved"
	EventPartiallyApproved = "request_partially_approved"
	EventRejected          = "request_rejected"
	EventDispatched        = "request_dispatched"
	EventReceived          = "request_received"
)

// Processor ejecuta las transiciones de una solicitud (aprobar, rechazar,
// despachar, recibir) como unidades de trabajo atómicas: la mutación de la
// solicitud y la del ledger se confirman juntas o ninguna.
//
// Serialización: la cabecera de la solicitud se bloquea con SELECT FOR UPDATE
// y además lleva columna version (el perdedor de una carrera recibe
// domain.ErrConcurrentModification). Los niveles de stock se bloquean fila a
// fila en orden estable de artículo.
type Processor struct {
	txRunner   TxRunner
	reqRepo    repository.StockRequestRepository // lecturas fuera de transacción
	userRepo   repository.UserRepository
	authorizer Authorizer
	notifier   Notifier
	cache      StockLevelCache
	log        *logger.Logger
}

// NewProcessor construye el procesador.
func NewProcessor(
	txRunner TxRunner,
	reqRepo repository.StockRequestRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	notifier Notifier,
	cache StockLevelCache,
	log *logger.Logger,
) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{
		txRunner:   txRunner,
		reqRepo:    reqRepo,
		userRepo:   userRepo,
		authorizer: authorizer,
		notifier:   notifier,
		cache:      cache,
		log:        log,
	}
}

// GetRequest devuelve una solicitud con sus líneas.
func (p *Processor) GetRequest(ctx context.Context, requestID string) (*entity.StockRequest, error) {
	req, err := p.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("consultar solicitud: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	return req, nil
}

// ListByFacility lista solicitudes de un establecimiento, opcionalmente por estado.
func (p *Processor) ListByFacility(ctx context.Context, facilityID, status string, limit, offset int) ([]*entity.StockRequest, error) {
	return p.reqRepo.ListByFacility(facilityID, status, limit, offset)
}

// ListByStatus lista solicitudes por estado (pantalla de revisión del almacén).
func (p *Processor) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.StockRequest, error) {
	return p.reqRepo.ListByStatus(status, limit, offset)
}

// Approve confirma una decisión de aprobación por línea. Valida cada cantidad
// contra 0 <= q <= min(solicitada, disponible) y confirma TODAS las líneas
// juntas: si una viola el rango, la aprobación completa se rechaza con
// ErrApprovalQuantity (nunca se aprueban unas líneas y otras no).
func (p *Processor) Approve(ctx context.Context, requestID, reviewerID string, approvals map[string]int64) (*entity.StockRequest, error) {
	reviewer, err := p.loadActor(reviewerID)
	if err != nil {
		return nil, err
	}

	var req *entity.StockRequest
	var event string
	err = p.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err = p.lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if !p.authorizer.CanBeApprovedBy(reviewer, req) {
			return fmt.Errorf("%w: %s no puede aprobar la solicitud %s", domain.ErrUnauthorized, reviewerID, req.RequestNumber)
		}
		for itemID := range approvals {
			if req.ItemByID(itemID) == nil {
				return fmt.Errorf("%w: el artículo %s no pertenece a la solicitud", domain.ErrInvalidInput, itemID)
			}
		}

		// Disponibilidad al momento de la decisión: un solo SELECT (snapshot).
		available, err := availabilitySnapshot(levelRepo, req)
		if err != nil {
			return err
		}

		// Validar todas las líneas antes de tocar ninguna.
		for _, it := range req.Items {
			q := approvals[it.ItemID] // línea ausente en el mapa = 0 aprobado
			if err := domainrequest.ValidateApprovalQuantity(q, it.QuantityRequested, available[it.ItemID]); err != nil {
				return err
			}
		}
		if err := domainrequest.EnsureTransition(req.Status, entity.RequestStatusApproved); err != nil {
			return err
		}

		now := time.Now()
		for _, it := range req.Items {
			it.QuantityApproved = approvals[it.ItemID]
			it.UpdatedAt = now
		}
		req.Status = domainrequest.ApprovalStatus(req.Items)
		req.ApprovedBy = reviewerID
		req.ApprovedDate = &now
		req.UpdatedAt = now

		if err := reqRepo.UpdateItems(req.Items); err != nil {
			return err
		}
		return reqRepo.UpdateStatus(req)
	})
	if err != nil {
		return nil, err
	}

	event = EventApproved
	if req.Status == entity.RequestStatusPartiallyApproved {
		event = EventPartiallyApproved
	}
	p.afterTransition(ctx, event, req)
	return req, nil
}

// QuickApprove aprueba todas las líneas al completo (exige disponibilidad plena
// ahora) e intenta el despacho inmediato. Si el despacho falla porque el stock
// cambió entre el chequeo y el commit, la aprobación queda confirmada y se
// devuelve ErrDispatchPending: el despacho se reintenta después, no se revierte
// la aprobación.
func (p *Processor) QuickApprove(ctx context.Context, requestID, reviewerID string) (*entity.StockRequest, error) {
	reviewer, err := p.loadActor(reviewerID)
	if err != nil {
		return nil, err
	}

	var req *entity.StockRequest
	err = p.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err = p.lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if !p.authorizer.CanBeApprovedBy(reviewer, req) {
			return fmt.Errorf("%w: %s no puede aprobar la solicitud %s", domain.ErrUnauthorized, reviewerID, req.RequestNumber)
		}
		if err := domainrequest.EnsureTransition(req.Status, entity.RequestStatusApproved); err != nil {
			return err
		}

		available, err := availabilitySnapshot(levelRepo, req)
		if err != nil {
			return err
		}
		for _, it := range req.Items {
			if available[it.ItemID] < it.QuantityRequested {
				return fmt.Errorf("%w: artículo %s solicita %d y hay %d disponible",
					domain.ErrInsufficientStock, it.ItemID, it.QuantityRequested, available[it.ItemID])
			}
		}

		now := time.Now()
		for _, it := range req.Items {
			it.QuantityApproved = it.QuantityRequested
			it.UpdatedAt = now
		}
		req.Status = entity.RequestStatusApproved
		req.ApprovedBy = reviewerID
		req.ApprovedDate = &now
		req.UpdatedAt = now

		if err := reqRepo.UpdateItems(req.Items); err != nil {
			return err
		}
		return reqRepo.UpdateStatus(req)
	})
	if err != nil {
		return nil, err
	}
	p.afterTransition(ctx, EventApproved, req)

	// Despacho inmediato en una segunda transacción: su fallo no revierte la
	// aprobación ya confirmada.
	dispatched, dispatchErr := p.Dispatch(ctx, requestID, reviewerID)
	if dispatchErr != nil {
		p.log.Warn().
			Str("request_number", req.RequestNumber).
			Err(dispatchErr).
			Msg("aprobación rápida: despacho inmediato no completado")
		return req, fmt.Errorf("%w: %v", domain.ErrDispatchPending, dispatchErr)
	}
	return dispatched, nil
}

// Reject rechaza una solicitud pendiente. Exige motivo no vacío; terminal.
func (p *Processor) Reject(ctx context.Context, requestID, reviewerID, reason string) (*entity.StockRequest, error) {
	reviewer, err := p.loadActor(reviewerID)
	if err != nil {
		return nil, err
	}
	if err := domainrequest.ValidateRejection(reason); err != nil {
		return nil, err
	}

	var req *entity.StockRequest
	err = p.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		_ repository.StockLevelRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err = p.lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if !p.authorizer.CanBeApprovedBy(reviewer, req) {
			return fmt.Errorf("%w: %s no puede rechazar la solicitud %s", domain.ErrUnauthorized, reviewerID, req.RequestNumber)
		}
		if err := domainrequest.EnsureTransition(req.Status, entity.RequestStatusRejected); err != nil {
			return err
		}

		now := time.Now()
		req.Status = entity.RequestStatusRejected
		req.RejectionReason = reason
		req.RejectedBy = reviewerID
		req.RejectedDate = &now
		req.UpdatedAt = now
		return reqRepo.UpdateStatus(req)
	})
	if err != nil {
		return nil, err
	}
	p.afterTransition(ctx, EventRejected, req)
	return req, nil
}

// Dispatch descuenta del almacén central la cantidad aprobada de cada línea y
// marca la solicitud como despachada. Si el ledger no alcanza para alguna línea
// (otro consumidor concurrente), la operación entera falla: ninguna línea queda
// descontada y la solicitud permanece en su estado previo para reintentar.
func (p *Processor) Dispatch(ctx context.Context, requestID, dispatcherID string) (*entity.StockRequest, error) {
	dispatcher, err := p.loadActor(dispatcherID)
	if err != nil {
		return nil, err
	}

	var req *entity.StockRequest
	var touched []string
	err = p.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		req, err = p.lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if !p.authorizer.CanBeDispatchedBy(dispatcher, req) {
			return fmt.Errorf("%w: %s no puede despachar la solicitud %s", domain.ErrUnauthorized, dispatcherID, req.RequestNumber)
		}
		if err := domainrequest.EnsureTransition(req.Status, entity.RequestStatusDispatched); err != nil {
			return err
		}

		now := time.Now()
		// Orden estable de bloqueo de filas del ledger para evitar interbloqueos.
		lines := make([]*entity.StockRequestItem, len(req.Items))
		copy(lines, req.Items)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

		for _, it := range lines {
			if it.QuantityApproved <= 0 {
				continue
			}
			level, err := levelRepo.GetForUpdate(it.ItemID, req.CentralStoreID)
			if err != nil {
				return err
			}
			if level.Available() < it.QuantityApproved {
				return fmt.Errorf("%w: artículo %s necesita %d y hay %d disponible en el almacén",
					domain.ErrInsufficientStock, it.ItemID, it.QuantityApproved, level.Available())
			}
			level.OnHand -= it.QuantityApproved
			level.LocationType = entity.LocationTypeMainStore
			level.Version++
			level.UpdatedAt = now
			if err := levelRepo.Upsert(level); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ItemID:       it.ItemID,
				LocationID:   req.CentralStoreID,
				LocationType: entity.LocationTypeMainStore,
				Type:         entity.MovementTypeDISPATCH,
				Quantity:     -it.QuantityApproved,
				Reason:       "despacho de solicitud",
				Reference:    req.RequestNumber,
				CreatedAt:    now,
				CreatedBy:    dispatcherID,
			}); err != nil {
				return err
			}
			it.QuantityDispatched = it.QuantityApproved
			it.UpdatedAt = now
			touched = append(touched, it.ItemID)
		}
		if err := domainrequest.ValidateDispatchQuantities(req.Items); err != nil {
			return err
		}

		req.Status = entity.RequestStatusDispatched
		req.DispatchedBy = dispatcherID
		req.DispatchDate = &now
		req.UpdatedAt = now

		if err := reqRepo.UpdateItems(req.Items); err != nil {
			return err
		}
		return reqRepo.UpdateStatus(req)
	})
	if err != nil {
		return nil, err
	}

	if p.cache != nil && len(touched) > 0 {
		p.cache.Invalidate(ctx, req.CentralStoreID, touched...)
	}
	p.afterTransition(ctx, EventDispatched, req)
	return req, nil
}

// Receive registra lo recibido por línea, incrementa el stock del
// establecimiento destino y deja la varianza (recibido - despachado) calculada.
// La sobre-recepción se acepta como varianza registrada, no como error: el
// conteo físico puede superar lo esperado.
func (p *Processor) Receive(ctx context.Context, requestID, receiverID string, receipts map[string]int64) (*entity.StockRequest, error) {
	receiver, err := p.loadActor(receiverID)
	if err != nil {
		return nil, err
	}

	var req *entity.StockRequest
	var touched []string
	err = p.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		levelRepo repository.StockLevelRepository,
		movRepo repository.StockMovementRepository,
	) error {
		req, err = p.lockRequest(reqRepo, requestID)
		if err != nil {
			return err
		}
		if !p.authorizer.CanBeReceivedBy(receiver, req) {
			return fmt.Errorf("%w: %s no puede recibir la solicitud %s", domain.ErrUnauthorized, receiverID, req.RequestNumber)
		}
		if err := domainrequest.EnsureTransition(req.Status, entity.RequestStatusReceived); err != nil {
			return err
		}

		// Toda línea despachada debe traer recepción registrada (0..n es válido).
		for _, it := range req.Items {
			if _, ok := receipts[it.ItemID]; !ok && it.QuantityDispatched > 0 {
				return fmt.Errorf("%w: falta la recepción del artículo %s", domain.ErrInvalidInput, it.ItemID)
			}
		}
		for itemID, q := range receipts {
			if req.ItemByID(itemID) == nil {
				return fmt.Errorf("%w: el artículo %s no pertenece a la solicitud", domain.ErrInvalidInput, itemID)
			}
			if q < 0 {
				return fmt.Errorf("%w: recepción negativa para %s", domain.ErrInvalidInput, itemID)
			}
		}

		now := time.Now()
		lines := make([]*entity.StockRequestItem, len(req.Items))
		copy(lines, req.Items)
		sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

		for _, it := range lines {
			q := receipts[it.ItemID]
			it.QuantityReceived = q
			it.UpdatedAt = now
			if q > it.QuantityDispatched {
				p.log.Warn().
					Str("request_number", req.RequestNumber).
					Str("item_id", it.ItemID).
					Int64("dispatched", it.QuantityDispatched).
					Int64("received", q).
					Msg("sobre-recepción registrada como varianza")
			}
			if q == 0 {
				continue
			}
			level, err := levelRepo.GetForUpdate(it.ItemID, req.RequestingFacility)
			if err != nil {
				return err
			}
			level.OnHand += q
			level.LocationType = entity.LocationTypeFacility
			level.Version++
			level.UpdatedAt = now
			if err := levelRepo.Upsert(level); err != nil {
				return err
			}
			if err := movRepo.Create(&entity.StockMovement{
				ItemID:       it.ItemID,
				LocationID:   req.RequestingFacility,
				LocationType: entity.LocationTypeFacility,
				Type:         entity.MovementTypeRECEIPT,
				Quantity:     q,
				Reason:       "recepción de solicitud",
				Reference:    req.RequestNumber,
				CreatedAt:    now,
				CreatedBy:    receiverID,
			}); err != nil {
				return err
			}
			touched = append(touched, it.ItemID)
		}

		req.Status = entity.RequestStatusReceived
		req.ReceivedBy = receiverID
		req.ReceivedDate = &now
		req.UpdatedAt = now

		if err := reqRepo.UpdateItems(req.Items); err != nil {
			return err
		}
		return reqRepo.UpdateStatus(req)
	})
	if err != nil {
		return nil, err
	}

	if p.cache != nil && len(touched) > 0 {
		p.cache.Invalidate(ctx, req.RequestingFacility, touched...)
	}
	p.afterTransition(ctx, EventReceived, req)
	return req, nil
}

// loadActor carga el usuario que ejecuta la transición.
func (p *Processor) loadActor(userID string) (*entity.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: usuario requerido", domain.ErrInvalidInput)
	}
	user, err := p.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("consultar usuario: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}
	return user, nil
}

// lockRequest carga la solicitud con bloqueo de fila dentro de la transacción.
func (p *Processor) lockRequest(reqRepo repository.StockRequestRepository, requestID string) (*entity.StockRequest, error) {
	req, err := reqRepo.GetForUpdate(requestID)
	if err != nil {
		return nil, fmt.Errorf("bloquear solicitud: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, requestID)
	}
	return req, nil
}

// afterTransition notifica el evento (fire-and-forget) y deja traza.
func (p *Processor) afterTransition(ctx context.Context, event string, req *entity.StockRequest) {
	p.log.Info().
		Str("event", event).
		Str("request_number", req.RequestNumber).
		Str("status", req.Status).
		Msg("transición de solicitud confirmada")
	if p.notifier != nil {
		p.notifier.RequestTransitioned(ctx, event, req)
	}
}

// availabilitySnapshot lee en una sola consulta la disponibilidad de todas las
// líneas en el almacén central de la solicitud.
func availabilitySnapshot(levelRepo repository.StockLevelRepository, req *entity.StockRequest) (map[string]int64, error) {
	itemIDs := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		itemIDs = append(itemIDs, it.ItemID)
	}
	levels, err := levelRepo.GetMany(req.CentralStoreID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("consultar disponibilidad: %w", err)
	}
	available := make(map[string]int64, len(levels))
	for _, lv := range levels {
		available[lv.ItemID] = lv.Available()
	}
	return available, nil
}
