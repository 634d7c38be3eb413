package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord representa las existencias de un producto en una tienda.
// Bodega (StoreroomQty) y piso de venta (FloorQty) son saldos separados:
// la venta directa consume FloorQty; los combos consumen materia prima
// de StoreroomQty. Ninguno de los dos puede quedar negativo.
type InventoryRecord struct {
	ProductID    string
	StoreID      string
	StoreroomQty decimal.Decimal
	FloorQty     decimal.Decimal
	MinStock     decimal.Decimal
	MaxStock     decimal.Decimal
	UpdatedAt    time.Time
}
