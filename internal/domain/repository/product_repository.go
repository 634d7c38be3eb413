package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza solo el costo promedio ponderado (recepciones).
	UpdateCost(id string, cost decimal.Decimal) error
}
