package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `
	id, company_id, product_id, lot_number,
	initial_quantity, current_quantity, reserved_quantity,
	manufacturing_date, expiry_date, unit_cost,
	status, status_changed_at, status_changed_by, status_notes,
	supplier_id, purchase_order_id, created_at, updated_at`

// Create persiste un lote nuevo. (product_id, lot_number) duplicado -> ErrConflict.
func (r *LotRepo) Create(l *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CompanyID, l.ProductID, l.LotNumber,
		l.InitialQuantity, l.CurrentQuantity, l.ReservedQuantity,
		l.ManufacturingDate, l.ExpiryDate, l.UnitCost,
		string(l.Status), l.StatusChangedAt, nullable(l.StatusChangedBy), nullable(l.StatusNotes),
		nullable(l.SupplierID), nullable(l.PurchaseOrderID), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; (nil, nil) si no existe.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot for update")
}

// Update persiste cantidades, estado y auditoría de estado del lote.
// initial_quantity es inmutable y no se toca.
func (r *LotRepo) Update(l *entity.Lot) error {
	query := `
		UPDATE lots SET
			current_quantity = $2, reserved_quantity = $3,
			status = $4, status_changed_at = $5, status_changed_by = $6, status_notes = $7,
			updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		l.ID, l.CurrentQuantity, l.ReservedQuantity,
		string(l.Status), l.StatusChangedAt, nullable(l.StatusChangedBy), nullable(l.StatusNotes),
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista lotes de la empresa con filtros opcionales por producto y estado.
func (r *LotRepo) List(companyID, productID string, status entity.LotStatus, limit, offset int) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if productID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, productID)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(status))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.scanMany(query, args, "list lots")
}

// allocatableQuery selecciona lotes elegibles en orden FEFO: con vencimiento
// primero (ascendente), luego sin vencimiento, desempate por recepción.
const allocatableQuery = `
	SELECT ` + lotColumns + `
	FROM lots
	WHERE product_id = $1
	  AND status IN ('new', 'in_use')
	  AND current_quantity - reserved_quantity > 0
	ORDER BY (expiry_date IS NULL), expiry_date ASC, created_at ASC`

// ListAllocatable devuelve lotes elegibles para asignación en orden FEFO.
func (r *LotRepo) ListAllocatable(productID string) ([]*entity.Lot, error) {
	return r.scanMany(allocatableQuery, []any{productID}, "list allocatable lots")
}

// ListAllocatableForUpdate igual que ListAllocatable pero bloqueando las filas;
// usar solo dentro de una transacción.
func (r *LotRepo) ListAllocatableForUpdate(productID string) ([]*entity.Lot, error) {
	return r.scanMany(allocatableQuery+` FOR UPDATE`, []any{productID}, "list allocatable lots for update")
}

// ListExpired devuelve lotes new/in_use con expiry_date < asOf (candidatos del
// barrido). companyID vacío no filtra por empresa (barrido global de fondo).
func (r *LotRepo) ListExpired(companyID string, asOf time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE status IN ('new', 'in_use') AND expiry_date IS NOT NULL AND expiry_date < $1`
	args := []any{asOf}
	if companyID != "" {
		query += ` AND company_id = $2`
		args = append(args, companyID)
	}
	query += ` ORDER BY expiry_date ASC`
	return r.scanMany(query, args, "list expired lots")
}

// Reserve incrementa reserved_quantity con el guard en el WHERE del mismo
// UPDATE: si el disponible no alcanza, no se toca ninguna fila.
func (r *LotRepo) Reserve(lotID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE lots
		SET reserved_quantity = reserved_quantity + $2, updated_at = now()
		WHERE id = $1 AND current_quantity - reserved_quantity >= $2`
	tag, err := r.q.Exec(context.Background(), query, lotID, qty)
	if err != nil {
		return false, fmt.Errorf("reserve lot: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Unreserve decrementa reserved_quantity con piso en 0 (GREATEST).
func (r *LotRepo) Unreserve(lotID string, qty decimal.Decimal) error {
	query := `
		UPDATE lots
		SET reserved_quantity = GREATEST(reserved_quantity - $2, 0), updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lotID, qty)
	if err != nil {
		return fmt.Errorf("unreserve lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AvailabilitySummary agrega disponibilidad del producto sobre sus lotes no terminales.
func (r *LotRepo) AvailabilitySummary(productID string) (*entity.ProductAvailability, error) {
	query := `
		SELECT
			COALESCE(SUM(current_quantity), 0),
			COALESCE(SUM(reserved_quantity), 0),
			COALESCE(SUM(current_quantity - reserved_quantity), 0),
			COUNT(*),
			MIN(expiry_date)
		FROM lots
		WHERE product_id = $1 AND status IN ('new', 'in_use')`
	summary := &entity.ProductAvailability{ProductID: productID}
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&summary.TotalCurrent, &summary.TotalReserved, &summary.TotalAvailable,
		&summary.LotCount, &summary.NearestExpiry,
	)
	if err != nil {
		return nil, fmt.Errorf("availability summary: %w", err)
	}
	return summary, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanLot escanea una fila de lots manejando los campos opcionales.
func scanLot(s scanner) (*entity.Lot, error) {
	var l entity.Lot
	var status string
	var changedBy, notes, supplierID, poID *string
	err := s.Scan(
		&l.ID, &l.CompanyID, &l.ProductID, &l.LotNumber,
		&l.InitialQuantity, &l.CurrentQuantity, &l.ReservedQuantity,
		&l.ManufacturingDate, &l.ExpiryDate, &l.UnitCost,
		&status, &l.StatusChangedAt, &changedBy, &notes,
		&supplierID, &poID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.LotStatus(status)
	l.StatusChangedBy = deref(changedBy)
	l.StatusNotes = deref(notes)
	l.SupplierID = deref(supplierID)
	l.PurchaseOrderID = deref(poID)
	return &l, nil
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.Lot, error) {
	l, err := scanLot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

func (r *LotRepo) scanMany(query string, args []any, op string) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
