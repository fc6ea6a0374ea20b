package lots

import (
	"context"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// GetLot devuelve un lote por ID validando tenencia.
func (uc *LotUseCase) GetLot(ctx context.Context, companyID, lotID string) (*entity.Lot, error) {
	return uc.requireLot(uc.lotRepo, companyID, lotID)
}

// ListLots lista lotes de la empresa, con filtros opcionales por producto y
// estado (?status=new usa los valores del enum tal cual).
func (uc *LotUseCase) ListLots(ctx context.Context, companyID, productID string, status entity.LotStatus, limit, offset int) ([]*entity.Lot, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.lotRepo.List(companyID, productID, status, limit, offset)
}

// ListTransactions devuelve el ledger de un lote, más reciente primero.
func (uc *LotUseCase) ListTransactions(ctx context.Context, companyID, lotID string, limit, offset int) ([]*entity.LotTransaction, error) {
	if _, err := uc.requireLot(uc.lotRepo, companyID, lotID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.ledgerRepo.ListByLot(lotID, limit, offset)
}

// Availability devuelve el resumen de disponibilidad del producto sobre todos
// sus lotes, con cache de corta vida si está configurado.
func (uc *LotUseCase) Availability(ctx context.Context, companyID, productID string) (*entity.ProductAvailability, error) {
	if err := uc.checkProduct(companyID, productID); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if v, ok := uc.cache.Get(ctx, productID); ok {
			return v, nil
		}
	}
	summary, err := uc.lotRepo.AvailabilitySummary(productID)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, productID, summary)
	}
	return summary, nil
}
