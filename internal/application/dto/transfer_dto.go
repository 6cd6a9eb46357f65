package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Suministros-api/internal/application/transfer"
	"github.com/jhoicas/Suministros-api/internal/domain/entity"
)

// TransferLineInput línea (artículo, cantidad) de un traslado nuevo.
type TransferLineInput struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromLocationID string              `json:"from_location_id" validate:"required,uuid"`
	FromType       string              `json:"from_type" validate:"omitempty,oneof=main_store facility"`
	ToLocationID   string              `json:"to_location_id" validate:"required,uuid"`
	ToType         string              `json:"to_type" validate:"omitempty,oneof=main_store facility"`
	Notes          string              `json:"notes"`
	Lines          []TransferLineInput `json:"lines" validate:"required,min=1,dive"`
}

// BulkReceiveRequest body para POST /api/transfers/:id/receive.
type BulkReceiveRequest struct {
	Receipts map[string]int64 `json:"receipts" validate:"required,min=1"`
}

// TransferItemResponse línea de traslado cruda (enviado vs recibido).
type TransferItemResponse struct {
	ID               string `json:"id"`
	ItemID           string `json:"item_id"`
	Quantity         int64  `json:"quantity"`
	QuantityReceived int64  `json:"quantity_received"`
}

// TransferResponse representación de un traslado.
type TransferResponse struct {
	ID             string                 `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	TransferredBy  string                 `json:"transferred_by"`
	TransferDate   time.Time              `json:"transfer_date"`
	Notes          string                 `json:"notes,omitempty"`
	Items          []TransferItemResponse `json:"items"`
}

// ToTransferResponse mapea la entidad a su representación API.
func ToTransferResponse(t *entity.StockTransfer) TransferResponse {
	resp := TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		TransferredBy:  t.TransferredBy,
		TransferDate:   t.TransferDate,
		Notes:          t.Notes,
	}
	for _, it := range t.Items {
		resp.Items = append(resp.Items, TransferItemResponse{
			ID:               it.ID,
			ItemID:           it.ItemID,
			Quantity:         it.Quantity,
			QuantityReceived: it.QuantityReceived,
		})
	}
	return resp
}

// ReconciliationLineResponse línea conciliada con derivados y badge.
type ReconciliationLineResponse struct {
	ItemID              string          `json:"item_id"`
	Quantity            int64           `json:"quantity"`
	QuantityReceived    int64           `json:"quantity_received"`
	QuantityPending     int64           `json:"quantity_pending"`
	VarianceQuantity    int64           `json:"variance_quantity"`
	ReceiptPercentage   decimal.Decimal `json:"receipt_percentage"`
	IsFullyReceived     bool            `json:"is_fully_received"`
	IsPartiallyReceived bool            `json:"is_partially_received"`
	Status              string          `json:"status"`
	StatusLabel         string          `json:"status_label"`
	StatusColor         string          `json:"status_color"`
}

// ReconciliationResponse conciliación completa de un traslado.
type ReconciliationResponse struct {
	TransferID     string                       `json:"transfer_id"`
	TransferNumber string                       `json:"transfer_number"`
	Status         string                       `json:"status"`
	Lines          []ReconciliationLineResponse `json:"lines"`
}

// ToReconciliationResponse mapea el reporte del caso de uso a su representación API.
func ToReconciliationResponse(r *transfer.Report) ReconciliationResponse {
	resp := ReconciliationResponse{
		TransferID:     r.TransferID,
		TransferNumber: r.TransferNumber,
		Status:         r.Status,
	}
	for _, l := range r.Lines {
		resp.Lines = append(resp.Lines, ReconciliationLineResponse{
			ItemID:              l.ItemID,
			Quantity:            l.Quantity,
			QuantityReceived:    l.QuantityReceived,
			QuantityPending:     l.QuantityPending,
			VarianceQuantity:    l.VarianceQuantity,
			ReceiptPercentage:   l.ReceiptPercentage,
			IsFullyReceived:     l.IsFullyReceived,
			IsPartiallyReceived: l.IsPartiallyReceived,
			Status:              l.Status,
			StatusLabel:         l.StatusLabel,
			StatusColor:         l.StatusColor,
		})
	}
	return resp
}
