package lots

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// Reserve aparta cantidad de un lote para una orden pendiente. El guard
// current - reserved >= qty va en el WHERE del mismo UPDATE: si no se cumple,
// el UPDATE no toca filas y la operación falla sin efecto alguno.
func (uc *LotUseCase) Reserve(ctx context.Context, companyID, lotID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var productID string
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.LotTransactionRepository,
		_ repository.ProductRepository,
	) error {
		l, err := uc.requireLot(lotRepo, companyID, lotID)
		if err != nil {
			return err
		}
		if l.Status.IsTerminal() {
			return domain.ErrLotClosed
		}
		productID = l.ProductID
		ok, err := lotRepo.Reserve(lotID, qty)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: solicitado %s, disponible %s",
				domain.ErrInsufficientStock, qty, l.AvailableQuantity())
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, productID)
	return nil
}

// Unreserve libera cantidad reservada, con piso en 0 (una doble liberación no
// deja la reserva negativa).
func (uc *LotUseCase) Unreserve(ctx context.Context, companyID, lotID string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var productID string
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.LotTransactionRepository,
		_ repository.ProductRepository,
	) error {
		l, err := uc.requireLot(lotRepo, companyID, lotID)
		if err != nil {
			return err
		}
		productID = l.ProductID
		return lotRepo.Unreserve(lotID, qty)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, productID)
	return nil
}

// requireLot obtiene el lote sin bloqueo y valida tenencia.
func (uc *LotUseCase) requireLot(lotRepo repository.LotRepository, companyID, lotID string) (*entity.Lot, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	l, err := lotRepo.GetByID(lotID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	if l.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return l, nil
}
