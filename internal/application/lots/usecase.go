package lots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/lot"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// autoCloseNotes es la nota del cierre automático al agotarse la cantidad.
const autoCloseNotes = "auto-closed - quantity exhausted"

// LotUseCase orquesta el ciclo de vida de lotes: recepción, ledger, máquina de
// estados, reservas y asignación FIFO/FEFO. Toda secuencia de varios pasos
// (cantidad + ledger, estado + ledger) corre dentro de una sola transacción
// vía TxRunner, con bloqueo de fila (SELECT FOR UPDATE).
type LotUseCase struct {
	txRunner    TxRunner
	lotRepo     repository.LotRepository
	productRepo repository.ProductRepository
	ledgerRepo  repository.LotTransactionRepository
	cache       AvailabilityCache // puede ser nil
	now         func() time.Time
}

// NewLotUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewLotUseCase(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LotTransactionRepository,
	cache AvailabilityCache,
) *LotUseCase {
	return &LotUseCase{
		txRunner:    txRunner,
		lotRepo:     lotRepo,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		cache:       cache,
		now:         time.Now,
	}
}

// SetClock reemplaza el reloj del caso de uso (tests).
func (uc *LotUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// ReceiveLotInput entrada para registrar una recepción (alta de lote).
type ReceiveLotInput struct {
	CompanyID         string
	UserID            string
	ProductID         string
	LotNumber         string
	Quantity          decimal.Decimal
	UnitCost          decimal.Decimal
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	SupplierID        string
	PurchaseOrderID   string
}

// ReceiveLot crea el lote (estado new) y su primera fila purchase del ledger en
// la misma transacción, y actualiza el costo promedio ponderado del producto.
// Un lote solo nace por recepción; (product_id, lot_number) duplicado es conflicto.
func (uc *LotUseCase) ReceiveLot(ctx context.Context, in ReceiveLotInput) (*entity.Lot, error) {
	if in.ProductID == "" || in.LotNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != in.CompanyID {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	newLot := &entity.Lot{
		ID:                uuid.New().String(),
		CompanyID:         in.CompanyID,
		ProductID:         in.ProductID,
		LotNumber:         in.LotNumber,
		InitialQuantity:   in.Quantity,
		CurrentQuantity:   in.Quantity,
		ReservedQuantity:  decimal.Zero,
		ManufacturingDate: in.ManufacturingDate,
		ExpiryDate:        in.ExpiryDate,
		UnitCost:          in.UnitCost,
		Status:            entity.LotStatusNew,
		SupplierID:        in.SupplierID,
		PurchaseOrderID:   in.PurchaseOrderID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LotTransactionRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := lotRepo.Create(newLot); err != nil {
			return err
		}
		// Costo promedio ponderado sobre el stock vigente del producto
		avail, err := lotRepo.AvailabilitySummary(in.ProductID)
		if err != nil {
			return err
		}
		prevStock := avail.TotalCurrent.Sub(in.Quantity) // stock antes de este lote
		newCost := lot.WeightedAverageCost(prevStock, product.Cost, in.Quantity, in.UnitCost)
		if err := productRepo.UpdateCost(in.ProductID, newCost); err != nil {
			return err
		}
		return ledgerRepo.Create(&entity.LotTransaction{
			ID:            uuid.New().String(),
			LotID:         newLot.ID,
			Type:          entity.TxTypePurchase,
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			ReferenceType: refTypeOrEmpty("purchase_order", in.PurchaseOrderID),
			ReferenceID:   in.PurchaseOrderID,
			Notes:         fmt.Sprintf("recepción de lote %s", in.LotNumber),
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, in.ProductID)
	return newLot, nil
}

// TransactionInput entrada para registrar un evento del ledger que afecta cantidad.
// Quantity siempre positiva; el signo lo decide el tipo (sale/damage restan,
// return suma, transfer usa Direction). Para adjustment, Quantity es la nueva
// cantidad objetivo y Notes es obligatorio.
type TransactionInput struct {
	CompanyID     string
	UserID        string
	LotID         string
	Type          entity.TransactionType
	Quantity      decimal.Decimal
	Direction     string // solo transfer: "in" | "out"
	ReferenceType string
	ReferenceID   string
	Notes         string
}

// RecordTransaction aplica el efecto del tipo sobre current_quantity e inserta la
// fila del ledger, todo en una transacción con la fila del lote bloqueada.
// Tras sale/damage, si la cantidad llega a 0 el lote se cierra solo (finished +
// fila close). purchase solo es válido vía ReceiveLot; status_change/close solo
// vía la máquina de estados.
func (uc *LotUseCase) RecordTransaction(ctx context.Context, in TransactionInput) (*entity.Lot, error) {
	if !in.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.TxTypePurchase, entity.TxTypeStatusChange, entity.TxTypeClose:
		// estos tipos no se registran por esta vía
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) && in.Type != entity.TxTypeAdjustment {
		return nil, domain.ErrInvalidInput
	}
	if in.Type == entity.TxTypeAdjustment {
		if in.Quantity.LessThan(decimal.Zero) || in.Notes == "" {
			// el ajuste fija la cantidad (>= 0) y exige motivo
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Type == entity.TxTypeTransfer && in.Direction != "in" && in.Direction != "out" {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.Lot
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LotTransactionRepository,
		_ repository.ProductRepository,
	) error {
		l, err := uc.lockLot(lotRepo, in.CompanyID, in.LotID)
		if err != nil {
			return err
		}
		if l.Status.IsTerminal() {
			return domain.ErrLotClosed
		}

		now := uc.now()
		var delta decimal.Decimal
		switch in.Type {
		case entity.TxTypeSale, entity.TxTypeDamage:
			if in.Type == entity.TxTypeSale && in.Quantity.GreaterThan(l.AvailableQuantity()) {
				return fmt.Errorf("%w: solicitado %s, disponible %s",
					domain.ErrInsufficientStock, in.Quantity, l.AvailableQuantity())
			}
			if in.Type == entity.TxTypeDamage && in.Quantity.GreaterThan(l.CurrentQuantity) {
				return fmt.Errorf("%w: solicitado %s, en existencia %s",
					domain.ErrInsufficientStock, in.Quantity, l.CurrentQuantity)
			}
			delta = in.Quantity.Neg()
		case entity.TxTypeReturn:
			delta = in.Quantity
		case entity.TxTypeAdjustment:
			// la cantidad de entrada es el valor corregido; el ledger guarda el delta
			delta = in.Quantity.Sub(l.CurrentQuantity)
		case entity.TxTypeTransfer:
			if in.Direction == "out" {
				if in.Quantity.GreaterThan(l.AvailableQuantity()) {
					return fmt.Errorf("%w: solicitado %s, disponible %s",
						domain.ErrInsufficientStock, in.Quantity, l.AvailableQuantity())
				}
				delta = in.Quantity.Neg()
			} else {
				delta = in.Quantity
			}
		}

		l.CurrentQuantity = l.CurrentQuantity.Add(delta)
		if l.CurrentQuantity.LessThan(decimal.Zero) {
			// nunca debajo de 0; las validaciones de arriba deben impedirlo
			return domain.ErrConflict
		}
		if l.ReservedQuantity.GreaterThan(l.CurrentQuantity) {
			// el invariante 0 <= reserved <= current se rechaza en la operación que lo rompería
			return fmt.Errorf("%w: la reserva (%s) superaría la existencia (%s)",
				domain.ErrConflict, l.ReservedQuantity, l.CurrentQuantity)
		}
		if l.Status == entity.LotStatusNew && delta.LessThan(decimal.Zero) {
			// el primer consumo abre el lote
			if err := uc.transition(lotRepo, ledgerRepo, l, entity.LotStatusInUse,
				"system", "primer consumo del lote", now); err != nil {
				return err
			}
		}
		l.UpdatedAt = now
		if err := lotRepo.Update(l); err != nil {
			return err
		}
		if err := ledgerRepo.Create(&entity.LotTransaction{
			ID:            uuid.New().String(),
			LotID:         l.ID,
			Type:          in.Type,
			Quantity:      delta,
			UnitCost:      l.UnitCost,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Notes:         in.Notes,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		// Regla de cierre automático tras sale/damage
		if (in.Type == entity.TxTypeSale || in.Type == entity.TxTypeDamage) &&
			!l.CurrentQuantity.GreaterThan(decimal.Zero) {
			if err := uc.autoClose(lotRepo, ledgerRepo, l, in.UserID, now); err != nil {
				return err
			}
		}
		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, result.ProductID)
	return result, nil
}

// transition valida y aplica un cambio de estado: estampa la auditoría,
// persiste el lote y deja la fila status_change (cantidad 0) en el ledger.
// Se invoca con la fila del lote ya bloqueada y dentro de la misma tx.
func (uc *LotUseCase) transition(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LotTransactionRepository,
	l *entity.Lot,
	to entity.LotStatus,
	actor, notes string,
	now time.Time,
) error {
	if err := lot.ValidateTransition(l.Status, to); err != nil {
		return err
	}
	old := l.Status
	l.Status = to
	l.StatusChangedAt = &now
	l.StatusChangedBy = actor
	l.StatusNotes = notes
	l.UpdatedAt = now
	if err := lotRepo.Update(l); err != nil {
		return err
	}
	return ledgerRepo.Create(&entity.LotTransaction{
		ID:        uuid.New().String(),
		LotID:     l.ID,
		Type:      entity.TxTypeStatusChange,
		Quantity:  decimal.Zero,
		Notes:     fmt.Sprintf("estado %s -> %s: %s", old, to, notes),
		CreatedBy: actor,
		CreatedAt: now,
	})
}

// autoClose lleva el lote agotado a finished y deja además la fila close.
func (uc *LotUseCase) autoClose(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LotTransactionRepository,
	l *entity.Lot,
	userID string,
	now time.Time,
) error {
	if err := uc.transition(lotRepo, ledgerRepo, l, entity.LotStatusFinished,
		"system", autoCloseNotes, now); err != nil {
		return err
	}
	return ledgerRepo.Create(&entity.LotTransaction{
		ID:        uuid.New().String(),
		LotID:     l.ID,
		Type:      entity.TxTypeClose,
		Quantity:  decimal.Zero,
		Notes:     autoCloseNotes,
		CreatedBy: userID,
		CreatedAt: now,
	})
}

// lockLot obtiene el lote con FOR UPDATE y valida tenencia.
func (uc *LotUseCase) lockLot(lotRepo repository.LotRepository, companyID, lotID string) (*entity.Lot, error) {
	if lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	l, err := lotRepo.GetForUpdate(lotID)
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

func (uc *LotUseCase) invalidate(ctx context.Context, productID string) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, productID)
	}
}

func refTypeOrEmpty(refType, refID string) string {
	if refID == "" {
		return ""
	}
	return refType
}
