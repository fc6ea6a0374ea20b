package lots

import (
	"context"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de cantidad/estado y la
// fila del ledger se escriben de forma atómica: o ambos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LotTransactionRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// AvailabilityCache cachea el resumen de disponibilidad por producto.
// Implementación nula permitida: el caso de uso funciona sin cache.
type AvailabilityCache interface {
	Get(ctx context.Context, productID string) (*entity.ProductAvailability, bool)
	Set(ctx context.Context, productID string, v *entity.ProductAvailability)
	Invalidate(ctx context.Context, productID string)
}
