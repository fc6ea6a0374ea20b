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

// Allocate construye el plan FIFO/FEFO consultivo desde una lectura simple,
// sin bloqueos. El plan puede quedar obsoleto: AllocateAndCommit revalida
// contra filas bloqueadas antes de confirmar.
func (uc *LotUseCase) Allocate(ctx context.Context, companyID, productID string, required decimal.Decimal) (*lot.AllocationPlan, error) {
	if err := uc.checkProduct(companyID, productID); err != nil {
		return nil, err
	}
	candidates, err := uc.lotRepo.ListAllocatable(productID)
	if err != nil {
		return nil, err
	}
	return lot.Allocate(productID, required, candidates, uc.now())
}

// CommitAllocationInput entrada para asignar y confirmar en un solo paso.
// Overrides permite al flujo de órdenes ajustar líneas del plan (lot_id ->
// cantidad) siempre que cada cantidad no supere el disponible de su lote.
type CommitAllocationInput struct {
	CompanyID     string
	UserID        string
	ProductID     string
	Quantity      decimal.Decimal
	AllowPartial  bool
	Overrides     map[string]decimal.Decimal
	ReferenceType string
	ReferenceID   string
}

// AllocateAndCommit cierra la brecha plan/confirmación del flujo en dos fases:
// en una sola transacción bloquea los lotes candidatos (FOR UPDATE, orden FEFO),
// recalcula el plan sobre los datos bloqueados, aplica los overrides del caller
// y consume cada línea (descuento + fila sale + cierre automático). Si el total
// disponible no cubre lo pedido y AllowPartial es false, no se confirma nada.
func (uc *LotUseCase) AllocateAndCommit(ctx context.Context, in CommitAllocationInput) (*lot.AllocationPlan, error) {
	if err := uc.checkProduct(in.CompanyID, in.ProductID); err != nil {
		return nil, err
	}

	var plan *lot.AllocationPlan
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		ledgerRepo repository.LotTransactionRepository,
		_ repository.ProductRepository,
	) error {
		locked, err := lotRepo.ListAllocatableForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		now := uc.now()
		plan, err = lot.Allocate(in.ProductID, in.Quantity, locked, now)
		if err != nil {
			return err
		}
		if !plan.CanFulfill && !in.AllowPartial {
			return fmt.Errorf("%w: solicitado %s, disponible %s",
				domain.ErrInsufficientStock, in.Quantity, plan.TotalAvailable)
		}

		byID := make(map[string]*entity.Lot, len(locked))
		for _, l := range locked {
			byID[l.ID] = l
		}
		if err := applyOverrides(plan, byID, in.Overrides); err != nil {
			return err
		}

		for _, line := range plan.Lines {
			l := byID[line.LotID]
			if err := uc.consume(lotRepo, ledgerRepo, l, line.Quantity, in, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, in.ProductID)
	return plan, nil
}

// applyOverrides reemplaza cantidades de líneas del plan y recalcula el total.
// Cada override debe apuntar a un lote del plan, ser > 0 y caber en su
// disponible; el total resultante nunca puede superar lo pedido.
func applyOverrides(plan *lot.AllocationPlan, byID map[string]*entity.Lot, overrides map[string]decimal.Decimal) error {
	if len(overrides) == 0 {
		return nil
	}
	inPlan := make(map[string]bool, len(plan.Lines))
	for _, line := range plan.Lines {
		inPlan[line.LotID] = true
	}
	for lotID, qty := range overrides {
		l, ok := byID[lotID]
		if !ok || !inPlan[lotID] {
			return domain.ErrInvalidInput
		}
		if !qty.GreaterThan(decimal.Zero) || qty.GreaterThan(l.AvailableQuantity()) {
			return domain.ErrInvalidInput
		}
	}
	total := decimal.Zero
	for i, line := range plan.Lines {
		if qty, ok := overrides[line.LotID]; ok {
			plan.Lines[i].Quantity = qty
		}
		total = total.Add(plan.Lines[i].Quantity)
	}
	if total.GreaterThan(plan.Required) {
		return fmt.Errorf("%w: los overrides suman %s y lo solicitado es %s",
			domain.ErrInvalidInput, total, plan.Required)
	}
	plan.TotalAllocated = total
	return nil
}

// consume descuenta cantidad de un lote ya bloqueado: abre el lote si estaba en
// new, resta, persiste, deja la fila sale y cierra automáticamente al agotarse.
func (uc *LotUseCase) consume(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LotTransactionRepository,
	l *entity.Lot,
	qty decimal.Decimal,
	in CommitAllocationInput,
	now time.Time,
) error {
	if qty.GreaterThan(l.AvailableQuantity()) {
		return fmt.Errorf("%w: solicitado %s, disponible %s en lote %s",
			domain.ErrInsufficientStock, qty, l.AvailableQuantity(), l.LotNumber)
	}
	if l.Status == entity.LotStatusNew {
		if err := uc.transition(lotRepo, ledgerRepo, l, entity.LotStatusInUse,
			"system", "primer consumo del lote", now); err != nil {
			return err
		}
	}
	l.CurrentQuantity = l.CurrentQuantity.Sub(qty)
	l.UpdatedAt = now
	if err := lotRepo.Update(l); err != nil {
		return err
	}
	if err := ledgerRepo.Create(&entity.LotTransaction{
		ID:            uuid.New().String(),
		LotID:         l.ID,
		Type:          entity.TxTypeSale,
		Quantity:      qty.Neg(),
		UnitCost:      l.UnitCost,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         fmt.Sprintf("asignación FIFO producto %s", in.ProductID),
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}); err != nil {
		return err
	}
	if !l.CurrentQuantity.GreaterThan(decimal.Zero) {
		return uc.autoClose(lotRepo, ledgerRepo, l, in.UserID, now)
	}
	return nil
}

// checkProduct valida existencia y tenencia del producto.
func (uc *LotUseCase) checkProduct(companyID, productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	p, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}
