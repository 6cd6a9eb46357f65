package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// RequestLineInput línea (artículo, cantidad) de una solicitud nueva.
type RequestLineInput struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	CentralStoreID string             `json:"central_store_id" validate:"required,uuid"`
	Priority       string             `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Notes          string             `json:"notes"`
	Lines          []RequestLineInput `json:"lines" validate:"required,min=1,dive"`
}

// ApproveRequestRequest body para POST /api/requests/:id/approve.
// Cantidad aprobada por artículo; línea ausente = 0 aprobado.
type ApproveRequestRequest struct {
	Approvals map[string]int64 `json:"approvals" validate:"required,min=1"`
}

// RejectRequestRequest body para POST /api/requests/:id/reject.
type RejectRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ReceiveRequestRequest body para POST /api/requests/:id/receive.
// Cantidad recibida por artículo; toda línea despachada debe venir.
type ReceiveRequestRequest struct {
	Receipts map[string]int64 `json:"receipts" validate:"required,min=1"`
}

// CheckAvailabilityRequest body para POST /api/availability.
type CheckAvailabilityRequest struct {
	SourceLocationID string             `json:"source_location_id" validate:"required,uuid"`
	Lines            []RequestLineInput `json:"lines" validate:"required,min=1,dive"`
}

// AvailabilityLineResponse línea del reporte de disponibilidad.
type AvailabilityLineResponse struct {
	ItemID     string          `json:"item_id"`
	SKU        string          `json:"sku"`
	ItemName   string          `json:"item_name"`
	Requested  int64           `json:"requested"`
	Available  int64           `json:"available"`
	CanFulfill bool            `json:"can_fulfill"`
	Shortage   int64           `json:"shortage"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// AvailabilityReportResponse reporte de disponibilidad de una ubicación origen.
type AvailabilityReportResponse struct {
	LocationID   string                     `json:"location_id"`
	AllAvailable bool                       `json:"all_available"`
	Lines        []AvailabilityLineResponse `json:"lines"`
}

// RequestItemResponse línea de solicitud con derivados.
type RequestItemResponse struct {
	ID                 string          `json:"id"`
	ItemID             string          `json:"item_id"`
	QuantityRequested  int64           `json:"quantity_requested"`
	QuantityApproved   int64           `json:"quantity_approved"`
	QuantityDispatched int64           `json:"quantity_dispatched"`
	QuantityReceived   int64           `json:"quantity_received"`
	QuantityPending    int64           `json:"quantity_pending"`
	VarianceQuantity   int64           `json:"variance_quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TotalRequested     decimal.Decimal `json:"total_requested_value"`
}

// RequestResponse representación completa de una solicitud.
type RequestResponse struct {
	ID                 string                `json:"id"`
	RequestNumber      string                `json:"request_number"`
	RequestingFacility string                `json:"requesting_facility_id"`
	CentralStoreID     string                `json:"central_store_id"`
	RequestedBy        string                `json:"requested_by"`
	RequestDate        time.Time             `json:"request_date"`
	Priority           string                `json:"priority"`
	Status             string                `json:"status"`
	Notes              string                `json:"notes,omitempty"`
	RejectionReason    string                `json:"rejection_reason,omitempty"`
	ApprovedBy         string                `json:"approved_by,omitempty"`
	ApprovedDate       *time.Time            `json:"approved_date,omitempty"`
	DispatchedBy       string                `json:"dispatched_by,omitempty"`
	DispatchDate       *time.Time            `json:"dispatch_date,omitempty"`
	ReceivedBy         string                `json:"received_by,omitempty"`
	ReceivedDate       *time.Time            `json:"received_date,omitempty"`
	Items              []RequestItemResponse `json:"items"`
}

// ToRequestResponse mapea la entidad a su representación API.
func ToRequestResponse(r *entity.StockRequest) RequestResponse {
	resp := RequestResponse{
		ID:                 r.ID,
		RequestNumber:      r.RequestNumber,
		RequestingFacility: r.RequestingFacility,
		CentralStoreID:     r.CentralStoreID,
		RequestedBy:        r.RequestedBy,
		RequestDate:        r.RequestDate,
		Priority:           r.Priority,
		Status:             r.Status,
		Notes:              r.Notes,
		RejectionReason:    r.RejectionReason,
		ApprovedBy:         r.ApprovedBy,
		ApprovedDate:       r.ApprovedDate,
		DispatchedBy:       r.DispatchedBy,
		DispatchDate:       r.DispatchDate,
		ReceivedBy:         r.ReceivedBy,
		ReceivedDate:       r.ReceivedDate,
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, RequestItemResponse{
			ID:                 it.ID,
			ItemID:             it.ItemID,
			QuantityRequested:  it.QuantityRequested,
			QuantityApproved:   it.QuantityApproved,
			QuantityDispatched: it.QuantityDispatched,
			QuantityReceived:   it.QuantityReceived,
			QuantityPending:    it.QuantityPending(r.Status),
			VarianceQuantity:   it.VarianceQuantity(),
			UnitPrice:          it.UnitPrice,
			TotalRequested:     it.TotalRequestedValue(),
		})
	}
	return resp
}
