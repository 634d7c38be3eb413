package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-tienda).
// Cost es promedio ponderado calculado desde recepciones; las existencias
// se manejan por tienda en InventoryRecord.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Unit        string          // unidad de medida (und, kg, lt, ...)
	CategoryID  string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
