package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType clasifica los eventos del ledger de un lote.
type TransactionType string

const (
	TxTypePurchase     TransactionType = "purchase"      // alta del lote (cantidad inicial)
	TxTypeSale         TransactionType = "sale"          // salida por venta
	TxTypeAdjustment   TransactionType = "adjustment"    // corrección de cantidad (delta firmado)
	TxTypeTransfer     TransactionType = "transfer"      // auditoría, dirección la define el caller
	TxTypeReturn       TransactionType = "return"        // devolución, reingresa cantidad
	TxTypeStatusChange TransactionType = "status_change" // evento puro de estado, cantidad 0
	TxTypeDamage       TransactionType = "damage"        // baja por daño
	TxTypeClose        TransactionType = "close"         // cierre del lote, cantidad 0
)

// Valid indica si el valor corresponde a un tipo conocido.
func (t TransactionType) Valid() bool {
	switch t {
	case TxTypePurchase, TxTypeSale, TxTypeAdjustment, TxTypeTransfer,
		TxTypeReturn, TxTypeStatusChange, TxTypeDamage, TxTypeClose:
		return true
	}
	return false
}

// QuantityBearing indica si el tipo lleva cantidad distinta de cero.
// status_change y close siempre llevan cantidad 0.
func (t TransactionType) QuantityBearing() bool {
	return t != TxTypeStatusChange && t != TxTypeClose
}

// LotTransaction es una fila inmutable del ledger de un lote: nunca se
// actualiza ni se borra una vez escrita. Quantity va firmada: positiva para
// purchase/return, negativa para sale/damage, delta firmado para adjustment.
// La cantidad implícita del lote es SUM(quantity) sobre su ledger.
type LotTransaction struct {
	ID            string
	LotID         string
	Type          TransactionType
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ReferenceType string // opcional: order, invoice, purchase_order...
	ReferenceID   string // opcional: id del documento origen
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
