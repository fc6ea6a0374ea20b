package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

var _ repository.LotTransactionRepository = (*LotTransactionRepo)(nil)

// LotTransactionRepo ledger de lotes sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: las filas nunca se actualizan ni se borran.
type LotTransactionRepo struct {
	q Querier
}

// NewLotTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotTransactionRepository(q Querier) *LotTransactionRepo {
	return &LotTransactionRepo{q: q}
}

// Create persiste una fila del ledger.
func (r *LotTransactionRepo) Create(t *entity.LotTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lot_transactions
			(id, lot_id, type, quantity, unit_cost, reference_type, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.LotID, string(t.Type), t.Quantity, t.UnitCost,
		nullable(t.ReferenceType), nullable(t.ReferenceID), nullable(t.Notes),
		nullable(t.CreatedBy), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lot transaction: %w", err)
	}
	return nil
}

// ListByLot lista el ledger de un lote, más reciente primero.
func (r *LotTransactionRepo) ListByLot(lotID string, limit, offset int) ([]*entity.LotTransaction, error) {
	query := `
		SELECT id, lot_id, type, quantity, unit_cost, reference_type, reference_id, notes, created_by, created_at
		FROM lot_transactions WHERE lot_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, lotID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list lot transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.LotTransaction
	for rows.Next() {
		var t entity.LotTransaction
		var txType string
		var refType, refID, notes, createdBy *string
		if err := rows.Scan(&t.ID, &t.LotID, &txType, &t.Quantity, &t.UnitCost,
			&refType, &refID, &notes, &createdBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot transaction: %w", err)
		}
		t.Type = entity.TransactionType(txType)
		t.ReferenceType = deref(refType)
		t.ReferenceID = deref(refID)
		t.Notes = deref(notes)
		t.CreatedBy = deref(createdBy)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// SumQuantity devuelve SUM(quantity) del ledger del lote (cantidad implícita).
func (r *LotTransactionRepo) SumQuantity(lotID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM lot_transactions WHERE lot_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, lotID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum lot transactions: %w", err)
	}
	return sum, nil
}
