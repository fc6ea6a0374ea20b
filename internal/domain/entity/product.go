package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Cost es promedio ponderado, actualizado en cada recepción de lote.
// Las cantidades viven en los lotes (Lot), no aquí.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	UnitMeasure string
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
