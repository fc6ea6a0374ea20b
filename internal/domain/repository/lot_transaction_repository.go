package repository

import (
	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// LotTransactionRepository define el puerto del ledger de lotes.
// Solo inserción y lectura: las filas nunca se actualizan ni se borran.
type LotTransactionRepository interface {
	Create(tx *entity.LotTransaction) error
	ListByLot(lotID string, limit, offset int) ([]*entity.LotTransaction, error)
	// SumQuantity devuelve SUM(quantity) del ledger del lote (cantidad implícita),
	// usado por la conciliación contra current_quantity.
	SumQuantity(lotID string) (decimal.Decimal, error)
}
