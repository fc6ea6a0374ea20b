package lot

import (
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// ValidateTransition valida una transición de estado del lote (servicio de dominio).
// Reglas:
//   - new -> in_use (abrir lote)
//   - new | in_use -> damaged (baja manual o barrido de vencidos)
//   - in_use -> finished (agotado, automático o manual)
//   - mismo estado: rechazado (ErrSameStatus)
//   - desde un estado terminal no hay salida (ErrLotClosed)
func ValidateTransition(from, to entity.LotStatus) error {
	if !from.Valid() || !to.Valid() {
		return domain.ErrInvalidInput
	}
	if from == to {
		return domain.ErrSameStatus
	}
	if from.IsTerminal() {
		return domain.ErrLotClosed
	}
	switch to {
	case entity.LotStatusInUse:
		if from != entity.LotStatusNew {
			return domain.ErrConflict
		}
	case entity.LotStatusFinished:
		if from != entity.LotStatusInUse {
			return domain.ErrConflict
		}
	case entity.LotStatusDamaged:
		// cualquier estado no terminal puede darse de baja
	default:
		// new solo existe al crear el lote, nunca como destino
		return domain.ErrConflict
	}
	return nil
}
