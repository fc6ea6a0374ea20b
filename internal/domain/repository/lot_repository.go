package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes.
// Las implementaciones devuelven (nil, nil) cuando el lote no existe;
// el caso de uso lo traduce a domain.ErrNotFound.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de una tx.
	GetForUpdate(id string) (*entity.Lot, error)
	// Update persiste cantidades, estado y campos de auditoría de estado.
	Update(lot *entity.Lot) error
	List(companyID string, productID string, status entity.LotStatus, limit, offset int) ([]*entity.Lot, error)
	// ListAllocatable devuelve lotes elegibles (new/in_use, disponible > 0) en orden FEFO.
	ListAllocatable(productID string) ([]*entity.Lot, error)
	// ListAllocatableForUpdate igual que ListAllocatable pero con bloqueo de filas; usar dentro de una tx.
	ListAllocatableForUpdate(productID string) ([]*entity.Lot, error)
	// ListExpired devuelve lotes new/in_use con expiry_date < asOf.
	// companyID vacío no filtra por empresa (barrido global de fondo).
	ListExpired(companyID string, asOf time.Time) ([]*entity.Lot, error)
	// Reserve incrementa reserved_quantity solo si current - reserved >= qty
	// (guard en el WHERE del mismo UPDATE). Devuelve false si no se aplicó.
	Reserve(lotID string, qty decimal.Decimal) (bool, error)
	// Unreserve decrementa reserved_quantity con piso en 0 (defensa ante doble liberación).
	Unreserve(lotID string, qty decimal.Decimal) error
	AvailabilitySummary(productID string) (*entity.ProductAvailability, error)
}
