package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/lot"
)

// ReceiveLotRequest body para POST /api/lots (recepción de lote).
type ReceiveLotRequest struct {
	ProductID         string          `json:"product_id"`
	LotNumber         string          `json:"lot_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ManufacturingDate *time.Time      `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	PurchaseOrderID   string          `json:"purchase_order_id,omitempty"`
}

// LotResponse representación HTTP de un lote.
type LotResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	LotNumber         string           `json:"lot_number"`
	InitialQuantity   decimal.Decimal  `json:"initial_quantity"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	ReservedQuantity  decimal.Decimal  `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal  `json:"available_quantity"`
	ManufacturingDate *time.Time       `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	ExpiryStatus      lot.ExpiryStatus `json:"expiry_status"`
	UnitCost          decimal.Decimal  `json:"unit_cost"`
	Status            entity.LotStatus `json:"status"`
	StatusChangedAt   *time.Time       `json:"status_changed_at,omitempty"`
	StatusChangedBy   string           `json:"status_changed_by,omitempty"`
	StatusNotes       string           `json:"status_notes,omitempty"`
	SupplierID        string           `json:"supplier_id,omitempty"`
	PurchaseOrderID   string           `json:"purchase_order_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToLotResponse mapea la entidad a su representación HTTP.
func ToLotResponse(l *entity.Lot, now time.Time) *LotResponse {
	return &LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		LotNumber:         l.LotNumber,
		InitialQuantity:   l.InitialQuantity,
		CurrentQuantity:   l.CurrentQuantity,
		ReservedQuantity:  l.ReservedQuantity,
		AvailableQuantity: l.AvailableQuantity(),
		ManufacturingDate: l.ManufacturingDate,
		ExpiryDate:        l.ExpiryDate,
		ExpiryStatus:      lot.ClassifyExpiry(l.ExpiryDate, now),
		UnitCost:          l.UnitCost,
		Status:            l.Status,
		StatusChangedAt:   l.StatusChangedAt,
		StatusChangedBy:   l.StatusChangedBy,
		StatusNotes:       l.StatusNotes,
		SupplierID:        l.SupplierID,
		PurchaseOrderID:   l.PurchaseOrderID,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// RecordTransactionRequest body para POST /api/lots/:id/transactions.
// Quantity siempre positiva; para adjustment es la nueva cantidad objetivo.
type RecordTransactionRequest struct {
	Type          entity.TransactionType `json:"type"`
	Quantity      decimal.Decimal        `json:"quantity"`
	Direction     string                 `json:"direction,omitempty"` // transfer: in | out
	ReferenceType string                 `json:"reference_type,omitempty"`
	ReferenceID   string                 `json:"reference_id,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
}

// LotTransactionResponse fila del ledger en respuestas HTTP.
type LotTransactionResponse struct {
	ID            string                 `json:"id"`
	LotID         string                 `json:"lot_id"`
	Type          entity.TransactionType `json:"type"`
	Quantity      decimal.Decimal        `json:"quantity"`
	UnitCost      decimal.Decimal        `json:"unit_cost"`
	ReferenceType string                 `json:"reference_type,omitempty"`
	ReferenceID   string                 `json:"reference_id,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedBy     string                 `json:"created_by,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// ToLotTransactionResponse mapea la fila del ledger.
func ToLotTransactionResponse(t *entity.LotTransaction) *LotTransactionResponse {
	return &LotTransactionResponse{
		ID:            t.ID,
		LotID:         t.LotID,
		Type:          t.Type,
		Quantity:      t.Quantity,
		UnitCost:      t.UnitCost,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		Notes:         t.Notes,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
	}
}

// ChangeStatusRequest body para POST /api/lots/:id/status.
type ChangeStatusRequest struct {
	Status entity.LotStatus `json:"status"`
	Notes  string           `json:"notes"`
}

// OpenLotsRequest body para POST /api/lots/open (apertura masiva).
type OpenLotsRequest struct {
	LotIDs []string `json:"lot_ids"`
}

// ReserveRequest body para POST /api/lots/:id/reserve y /unreserve.
type ReserveRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationPlanRequest body para POST /api/allocation/plan.
type AllocationPlanRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// AllocationCommitRequest body para POST /api/allocation/commit.
type AllocationCommitRequest struct {
	ProductID     string                     `json:"product_id"`
	Quantity      decimal.Decimal            `json:"quantity"`
	AllowPartial  bool                       `json:"allow_partial,omitempty"`
	Overrides     map[string]decimal.Decimal `json:"overrides,omitempty"` // lot_id -> cantidad
	ReferenceType string                     `json:"reference_type,omitempty"`
	ReferenceID   string                     `json:"reference_id,omitempty"`
}
