package repository

import (
	"github.com/shopspring/decimal"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	List(companyID string, limit, offset int) ([]*entity.Product, error)
	// UpdateCost actualiza el costo promedio ponderado tras una recepción.
	UpdateCost(productID string, cost decimal.Decimal) error
}
