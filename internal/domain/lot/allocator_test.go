package lot_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/lot"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// buildLot crea un lote in_use con disponible = current (sin reservas).
func buildLot(id string, expiry *time.Time, current int64, createdAt time.Time) *entity.Lot {
	return &entity.Lot{
		ID:              id,
		LotNumber:       "LOT-" + id,
		CurrentQuantity: decimal.NewFromInt(current),
		ExpiryDate:      expiry,
		UnitCost:        decimal.NewFromInt(10),
		Status:          entity.LotStatusInUse,
		CreatedAt:       createdAt,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden FEFO
// ──────────────────────────────────────────────────────────────────────────────

// Lotes con vencimiento (5, 10, nil) creados en orden inverso: el asignador debe
// consumir primero el de vencimiento 5, luego el de 10 y al final el sin vencimiento,
// sin importar el orden de creación.
func TestAllocate_OrdenFEFO(t *testing.T) {
	lots := []*entity.Lot{
		buildLot("c", nil, 100, testNow.Add(-72*time.Hour)),
		buildLot("b", date("2024-11-11"), 100, testNow.Add(-48*time.Hour)),
		buildLot("a", date("2024-11-06"), 100, testNow.Add(-24*time.Hour)),
	}

	plan, err := lot.Allocate("prod-1", decimal.NewFromInt(250), lots, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 3)

	assert.Equal(t, "a", plan.Lines[0].LotID, "vence antes, se consume primero")
	assert.Equal(t, "b", plan.Lines[1].LotID)
	assert.Equal(t, "c", plan.Lines[2].LotID, "sin vencimiento va al final")

	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, plan.Lines[2].Quantity.Equal(decimal.NewFromInt(50)))
}

// Lotes sin vencimiento se desempatan por fecha de recepción ascendente.
func TestAllocate_DesempatePorRecepcion(t *testing.T) {
	lots := []*entity.Lot{
		buildLot("nuevo", nil, 100, testNow.Add(-1*time.Hour)),
		buildLot("viejo", nil, 100, testNow.Add(-100*time.Hour)),
	}

	plan, err := lot.Allocate("prod-1", decimal.NewFromInt(150), lots, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "viejo", plan.Lines[0].LotID)
	assert.Equal(t, "nuevo", plan.Lines[1].LotID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación y can_fulfill (escenario del producto P)
// ──────────────────────────────────────────────────────────────────────────────

// Lote A (vence 2025-01-01, 100 disp.) y lote B (vence 2025-06-01, 50 disp.):
// pedir 120 => [A:100, B:20] con can_fulfill=true.
func TestAllocate_EscenarioParcialCubierto(t *testing.T) {
	lots := []*entity.Lot{
		buildLot("B", date("2025-06-01"), 50, testNow),
		buildLot("A", date("2025-01-01"), 100, testNow),
	}

	plan, err := lot.Allocate("P", decimal.NewFromInt(120), lots, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)

	assert.Equal(t, "A", plan.Lines[0].LotID)
	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "B", plan.Lines[1].LotID)
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(20)))

	assert.True(t, plan.CanFulfill)
	assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(120)))
	assert.True(t, plan.TotalAvailable.Equal(decimal.NewFromInt(150)))
}

// Pedir 200 con 150 disponibles => [A:100, B:50], can_fulfill=false,
// y la suma asignada es min(required, total_available).
func TestAllocate_EscenarioInsuficiente(t *testing.T) {
	lots := []*entity.Lot{
		buildLot("A", date("2025-01-01"), 100, testNow),
		buildLot("B", date("2025-06-01"), 50, testNow),
	}

	plan, err := lot.Allocate("P", decimal.NewFromInt(200), lots, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)

	assert.False(t, plan.CanFulfill)
	assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(150)), "asigna min(200, 150)")
	assert.True(t, plan.TotalAvailable.Equal(decimal.NewFromInt(150)))
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(50)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Elegibilidad y validación
// ──────────────────────────────────────────────────────────────────────────────

// Lotes terminales o sin disponible no entran al plan; las reservas descuentan disponibilidad.
func TestAllocate_IgnoraLotesNoElegibles(t *testing.T) {
	finished := buildLot("f", date("2025-01-01"), 100, testNow)
	finished.Status = entity.LotStatusFinished

	damaged := buildLot("d", date("2025-01-01"), 100, testNow)
	damaged.Status = entity.LotStatusDamaged

	reserved := buildLot("r", date("2025-02-01"), 100, testNow)
	reserved.ReservedQuantity = decimal.NewFromInt(100) // disponible = 0

	partial := buildLot("p", date("2025-03-01"), 100, testNow)
	partial.ReservedQuantity = decimal.NewFromInt(60) // disponible = 40

	plan, err := lot.Allocate("P", decimal.NewFromInt(500), []*entity.Lot{finished, damaged, reserved, partial}, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "p", plan.Lines[0].LotID)
	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(40)))
	assert.True(t, plan.TotalAvailable.Equal(decimal.NewFromInt(40)))
	assert.False(t, plan.CanFulfill)
}

// Cantidad requerida cero o negativa es entrada inválida.
func TestAllocate_CantidadInvalida(t *testing.T) {
	_, err := lot.Allocate("P", decimal.Zero, nil, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = lot.Allocate("P", decimal.NewFromInt(-5), nil, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Sin lotes elegibles: plan vacío con can_fulfill=false, no es error.
func TestAllocate_SinLotes(t *testing.T) {
	plan, err := lot.Allocate("P", decimal.NewFromInt(10), nil, testNow)
	require.NoError(t, err)
	assert.Empty(t, plan.Lines)
	assert.False(t, plan.CanFulfill)
	assert.True(t, plan.TotalAllocated.IsZero())
}

// Cada línea lleva el tag de vencimiento derivado.
func TestAllocate_ExpiryStatusEnLineas(t *testing.T) {
	expired := buildLot("x", date("2024-10-01"), 10, testNow)
	near := buildLot("n", date("2024-11-20"), 10, testNow)
	good := buildLot("g", date("2025-06-01"), 10, testNow)
	none := buildLot("z", nil, 10, testNow)

	plan, err := lot.Allocate("P", decimal.NewFromInt(40), []*entity.Lot{none, good, near, expired}, testNow)
	require.NoError(t, err)
	require.Len(t, plan.Lines, 4)

	assert.Equal(t, lot.ExpiryExpired, plan.Lines[0].ExpiryStatus)
	assert.Equal(t, lot.ExpiryNear, plan.Lines[1].ExpiryStatus)
	assert.Equal(t, lot.ExpiryGood, plan.Lines[2].ExpiryStatus)
	assert.Equal(t, lot.ExpiryNoExpiry, plan.Lines[3].ExpiryStatus)
}
