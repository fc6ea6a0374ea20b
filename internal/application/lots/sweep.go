package lots

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// ExpirySweep da de baja (damaged) los lotes new/in_use con expiry_date < asOf.
// companyID vacío barre todas las empresas (solo el worker de fondo); el
// endpoint manual siempre pasa la empresa del caller. asOf nunca puede estar en
// el futuro: se recorta al reloj actual para que un corte adelantado no dé de
// baja lotes todavía vigentes. Cada lote se procesa en su propia transacción:
// un fallo individual no frena el barrido. Devuelve los IDs dados de baja.
func (uc *LotUseCase) ExpirySweep(ctx context.Context, companyID string, asOf time.Time) ([]string, error) {
	if now := uc.now(); asOf.After(now) {
		asOf = now
	}
	expired, err := uc.lotRepo.ListExpired(companyID, asOf)
	if err != nil {
		return nil, err
	}
	var swept []string
	for _, candidate := range expired {
		id := candidate.ID
		err := uc.txRunner.Run(ctx, func(
			lotRepo repository.LotRepository,
			ledgerRepo repository.LotTransactionRepository,
			_ repository.ProductRepository,
		) error {
			l, err := lotRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			if l == nil || l.Status.IsTerminal() || !l.IsExpired(asOf) {
				// otro proceso lo cerró o corrigió el vencimiento entre la lectura y el lock
				return nil
			}
			notes := fmt.Sprintf("lote vencido el %s", l.ExpiryDate.Format("2006-01-02"))
			if err := uc.transition(lotRepo, ledgerRepo, l, entity.LotStatusDamaged, "system", notes, uc.now()); err != nil {
				return err
			}
			swept = append(swept, l.ID)
			uc.invalidate(ctx, l.ProductID)
			return nil
		})
		if err != nil {
			return swept, err
		}
	}
	return swept, nil
}

// ReconciliationReport compara la cantidad almacenada contra la implícita en el
// ledger (SUM(quantity)). current_quantity es la autoridad; el reporte solo
// expone la divergencia, no la repara.
type ReconciliationReport struct {
	LotID          string          `json:"lot_id"`
	LotNumber      string          `json:"lot_number"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	LedgerQuantity decimal.Decimal `json:"ledger_quantity"`
	Difference     decimal.Decimal `json:"difference"` // stored - ledger
	Consistent     bool            `json:"consistent"`
}

// ReconcileLot recalcula la cantidad implícita del ledger de un lote y reporta
// cualquier divergencia con current_quantity.
func (uc *LotUseCase) ReconcileLot(ctx context.Context, companyID, lotID string) (*ReconciliationReport, error) {
	l, err := uc.requireLot(uc.lotRepo, companyID, lotID)
	if err != nil {
		return nil, err
	}
	ledgerQty, err := uc.ledgerRepo.SumQuantity(lotID)
	if err != nil {
		return nil, err
	}
	diff := l.CurrentQuantity.Sub(ledgerQty)
	return &ReconciliationReport{
		LotID:          l.ID,
		LotNumber:      l.LotNumber,
		StoredQuantity: l.CurrentQuantity,
		LedgerQuantity: ledgerQty,
		Difference:     diff,
		Consistent:     diff.IsZero(),
	}, nil
}
