package lot

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// AllocationLine es una línea del plan: cuánto tomar de qué lote.
type AllocationLine struct {
	LotID        string          `json:"lot_id"`
	LotNumber    string          `json:"lot_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	ExpiryStatus ExpiryStatus    `json:"expiry_status"`
}

// AllocationPlan es el resultado del asignador FIFO/FEFO.
// TotalAllocated = min(required, TotalAvailable); CanFulfill = TotalAvailable >= required.
type AllocationPlan struct {
	ProductID      string           `json:"product_id"`
	Required       decimal.Decimal  `json:"required"`
	Lines          []AllocationLine `json:"lines"`
	TotalAvailable decimal.Decimal  `json:"total_available"`
	TotalAllocated decimal.Decimal  `json:"total_allocated"`
	CanFulfill     bool             `json:"can_fulfill"`
}

// Allocate construye el plan de asignación sobre los lotes dados (función pura).
// Elegibles: estado new o in_use con disponible > 0. Orden: vencimiento más
// próximo primero, luego sin vencimiento, desempate por fecha de recepción
// ascendente. Recorrido greedy tomando min(disponible, restante) de cada lote.
// El plan es consultivo: el caller debe revalidar contra datos bloqueados antes
// de confirmar.
func Allocate(productID string, required decimal.Decimal, lots []*entity.Lot, now time.Time) (*AllocationPlan, error) {
	if !required.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	eligible := make([]*entity.Lot, 0, len(lots))
	for _, l := range lots {
		if l.Allocatable() {
			eligible = append(eligible, l)
		}
	}
	sortFEFO(eligible)

	plan := &AllocationPlan{
		ProductID:      productID,
		Required:       required,
		TotalAvailable: decimal.Zero,
		TotalAllocated: decimal.Zero,
	}

	remaining := required
	for _, l := range eligible {
		available := l.AvailableQuantity()
		plan.TotalAvailable = plan.TotalAvailable.Add(available)
		if !remaining.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(available, remaining)
		plan.Lines = append(plan.Lines, AllocationLine{
			LotID:        l.ID,
			LotNumber:    l.LotNumber,
			Quantity:     take,
			UnitCost:     l.UnitCost,
			ExpiryDate:   l.ExpiryDate,
			ExpiryStatus: ClassifyExpiry(l.ExpiryDate, now),
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(take)
		remaining = remaining.Sub(take)
	}

	plan.CanFulfill = plan.TotalAvailable.GreaterThanOrEqual(required)
	return plan, nil
}

// sortFEFO ordena lotes para consumo: con vencimiento primero (ascendente),
// luego sin vencimiento; desempate por created_at ascendente.
func sortFEFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate != nil:
			if !a.ExpiryDate.Equal(*b.ExpiryDate) {
				return a.ExpiryDate.Before(*b.ExpiryDate)
			}
		case a.ExpiryDate != nil:
			return true
		case b.ExpiryDate != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
