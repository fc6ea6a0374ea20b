package lots_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de repositorio. Sin concurrencia: los tests
// del caso de uso ejercitan la lógica, no el bloqueo de filas.
// ──────────────────────────────────────────────────────────────────────────────

type fakeLotRepo struct {
	lots map[string]*entity.Lot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: map[string]*entity.Lot{}}
}

func (r *fakeLotRepo) Create(l *entity.Lot) error {
	for _, existing := range r.lots {
		if existing.ProductID == l.ProductID && existing.LotNumber == l.LotNumber {
			return domain.ErrConflict
		}
	}
	cp := *l
	r.lots[l.ID] = &cp
	return nil
}

func (r *fakeLotRepo) GetByID(id string) (*entity.Lot, error) {
	l, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	return r.GetByID(id)
}

func (r *fakeLotRepo) Update(l *entity.Lot) error {
	if _, ok := r.lots[l.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	r.lots[l.ID] = &cp
	return nil
}

func (r *fakeLotRepo) List(companyID, productID string, status entity.LotStatus, limit, offset int) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.lots {
		if l.CompanyID != companyID {
			continue
		}
		if productID != "" && l.ProductID != productID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeLotRepo) ListAllocatable(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.lots {
		if l.ProductID == productID && l.Allocatable() {
			cp := *l
			out = append(out, &cp)
		}
	}
	// mismo orden FEFO que la consulta SQL real
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
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
	return out, nil
}

func (r *fakeLotRepo) ListAllocatableForUpdate(productID string) ([]*entity.Lot, error) {
	return r.ListAllocatable(productID)
}

func (r *fakeLotRepo) ListExpired(companyID string, asOf time.Time) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range r.lots {
		if companyID != "" && l.CompanyID != companyID {
			continue
		}
		if !l.Status.IsTerminal() && l.IsExpired(asOf) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLotRepo) Reserve(lotID string, qty decimal.Decimal) (bool, error) {
	l, ok := r.lots[lotID]
	if !ok {
		return false, nil
	}
	if l.CurrentQuantity.Sub(l.ReservedQuantity).LessThan(qty) {
		return false, nil
	}
	l.ReservedQuantity = l.ReservedQuantity.Add(qty)
	return true, nil
}

func (r *fakeLotRepo) Unreserve(lotID string, qty decimal.Decimal) error {
	l, ok := r.lots[lotID]
	if !ok {
		return domain.ErrNotFound
	}
	l.ReservedQuantity = decimal.Max(l.ReservedQuantity.Sub(qty), decimal.Zero)
	return nil
}

func (r *fakeLotRepo) AvailabilitySummary(productID string) (*entity.ProductAvailability, error) {
	summary := &entity.ProductAvailability{
		ProductID:      productID,
		TotalCurrent:   decimal.Zero,
		TotalReserved:  decimal.Zero,
		TotalAvailable: decimal.Zero,
	}
	for _, l := range r.lots {
		if l.ProductID != productID || l.Status.IsTerminal() {
			continue
		}
		summary.TotalCurrent = summary.TotalCurrent.Add(l.CurrentQuantity)
		summary.TotalReserved = summary.TotalReserved.Add(l.ReservedQuantity)
		summary.TotalAvailable = summary.TotalAvailable.Add(l.AvailableQuantity())
		summary.LotCount++
		if l.ExpiryDate != nil && (summary.NearestExpiry == nil || l.ExpiryDate.Before(*summary.NearestExpiry)) {
			exp := *l.ExpiryDate
			summary.NearestExpiry = &exp
		}
	}
	return summary, nil
}

type fakeLedgerRepo struct {
	rows []*entity.LotTransaction
}

func (r *fakeLedgerRepo) Create(tx *entity.LotTransaction) error {
	cp := *tx
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeLedgerRepo) ListByLot(lotID string, limit, offset int) ([]*entity.LotTransaction, error) {
	var out []*entity.LotTransaction
	for _, t := range r.rows {
		if t.LotID == lotID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumQuantity(lotID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.rows {
		if t.LotID == lotID {
			sum = sum.Add(t.Quantity)
		}
	}
	return sum, nil
}

// byType filtra el ledger de un lote por tipo (helper de aserciones).
func (r *fakeLedgerRepo) byType(lotID string, tt entity.TransactionType) []*entity.LotTransaction {
	var out []*entity.LotTransaction
	for _, t := range r.rows {
		if t.LotID == lotID && t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.CompanyID == companyID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

// fakeTxRunner pasa los fakes tal cual: el rollback no se simula, los tests
// verifican la lógica de validación antes de cualquier escritura destructiva.
type fakeTxRunner struct {
	lotRepo     *fakeLotRepo
	ledgerRepo  *fakeLedgerRepo
	productRepo *fakeProductRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	ledgerRepo repository.LotTransactionRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.lotRepo, r.ledgerRepo, r.productRepo)
}
