package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus es el enum compartido del ciclo de vida de un lote.
// Se usa tal cual como vocabulario externo (labels de UI, query params ?status=new).
type LotStatus string

const (
	LotStatusNew      LotStatus = "new"      // recibido, aún no abierto para consumo
	LotStatusInUse    LotStatus = "in_use"   // en consumo activo
	LotStatusFinished LotStatus = "finished" // agotado (terminal)
	LotStatusDamaged  LotStatus = "damaged"  // dado de baja: daño, vencimiento, cierre manual (terminal)
)

// Valid indica si el valor corresponde a un estado conocido.
func (s LotStatus) Valid() bool {
	switch s {
	case LotStatusNew, LotStatusInUse, LotStatusFinished, LotStatusDamaged:
		return true
	}
	return false
}

// IsTerminal indica si el estado es terminal (el lote no vuelve a moverse).
func (s LotStatus) IsTerminal() bool {
	return s == LotStatusFinished || s == LotStatusDamaged
}

// Lot representa una recepción de stock de un producto (lote/batch),
// con vencimiento y costo propios. Un lote nunca se borra: se lleva a un estado terminal.
type Lot struct {
	ID        string
	CompanyID string
	ProductID string
	LotNumber string // clave natural junto con ProductID

	InitialQuantity  decimal.Decimal // inmutable después de la recepción
	CurrentQuantity  decimal.Decimal // nunca negativa
	ReservedQuantity decimal.Decimal // 0 <= reserved <= current

	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	UnitCost          decimal.Decimal

	Status          LotStatus
	StatusChangedAt *time.Time
	StatusChangedBy string
	StatusNotes     string

	SupplierID      string // opcional
	PurchaseOrderID string // opcional

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableQuantity devuelve la cantidad disponible (current - reserved), derivada.
func (l *Lot) AvailableQuantity() decimal.Decimal {
	return l.CurrentQuantity.Sub(l.ReservedQuantity)
}

// Allocatable indica si el lote es elegible para asignación FIFO/FEFO:
// estado new o in_use y disponible > 0.
func (l *Lot) Allocatable() bool {
	if l.Status != LotStatusNew && l.Status != LotStatusInUse {
		return false
	}
	return l.AvailableQuantity().GreaterThan(decimal.Zero)
}

// IsExpired indica si el lote venció antes de la fecha dada.
func (l *Lot) IsExpired(asOf time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return l.ExpiryDate.Before(asOf)
}

// ProductAvailability es el resumen de disponibilidad de un producto sobre todos sus lotes.
type ProductAvailability struct {
	ProductID      string          `json:"product_id"`
	TotalCurrent   decimal.Decimal `json:"total_current"`
	TotalReserved  decimal.Decimal `json:"total_reserved"`
	TotalAvailable decimal.Decimal `json:"total_available"`
	LotCount       int             `json:"lot_count"`
	NearestExpiry  *time.Time      `json:"nearest_expiry,omitempty"`
}
