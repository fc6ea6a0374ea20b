package lots

import (
	"context"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// ChangeStatusInput entrada para una transición manual de estado.
// Notes es obligatorio en transiciones manuales.
type ChangeStatusInput struct {
	CompanyID string
	UserID    string
	LotID     string
	NewStatus entity.LotStatus
	Notes     string
}

// ChangeStatus ejecuta una transición manual (abrir, agotar, dar de baja) con la
// fila bloqueada: valida la transición, estampa auditoría y deja la fila
// status_change del ledger, todo en la misma transacción.
func (uc *LotUseCase) ChangeStatus(ctx context.Context, in ChangeStatusInput) error {
	if !in.NewStatus.Valid() || in.Notes == "" {
		return domain.ErrInvalidInput
	}
	var productID string
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LotTransactionRepository,
		_ repository.ProductRepository,
	) error {
		l, err := uc.lockLot(lotRepo, in.CompanyID, in.LotID)
		if err != nil {
			return err
		}
		productID = l.ProductID
		return uc.transition(lotRepo, ledgerRepo, l, in.NewStatus, in.UserID, in.Notes, uc.now())
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, productID)
	return nil
}

// OpenLotsResult resultado de la apertura masiva.
type OpenLotsResult struct {
	Opened  []string          `json:"opened"`
	Skipped map[string]string `json:"skipped,omitempty"` // lot_id -> motivo
}

// OpenLots abre en bloque lotes en estado new (new -> in_use). Los lotes que no
// están en new se reportan como omitidos con su motivo; no abortan el resto.
// Cada apertura corre en su propia transacción con su fila status_change.
func (uc *LotUseCase) OpenLots(ctx context.Context, companyID, userID string, lotIDs []string) (*OpenLotsResult, error) {
	if len(lotIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	result := &OpenLotsResult{Skipped: map[string]string{}}
	for _, id := range lotIDs {
		err := uc.ChangeStatus(ctx, ChangeStatusInput{
			CompanyID: companyID,
			UserID:    userID,
			LotID:     id,
			NewStatus: entity.LotStatusInUse,
			Notes:     "apertura masiva de lotes",
		})
		if err != nil {
			result.Skipped[id] = err.Error()
			continue
		}
		result.Opened = append(result.Opened, id)
	}
	return result, nil
}
