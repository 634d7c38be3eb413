package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeRecepcion  = "RECEPCION"  // compra/entrada a bodega
	MovementTypeReposicion = "REPOSICION" // traslado bodega -> piso de venta
	MovementTypeAjuste     = "AJUSTE"     // ajuste manual (positivo o negativo)
	MovementTypeVenta      = "VENTA"      // salida por venta POS
)

// Saldos sobre los que aplica un movimiento.
const (
	BucketStoreroom = "BODEGA"
	BucketFloor     = "PISO"
)

// StockMovement es el registro histórico de cada cambio de existencias.
// TransactionID agrupa los movimientos de una misma operación (una venta,
// una recepción); en ventas es el ID de la orden.
type StockMovement struct {
	ID            string
	TransactionID string
	ProductID     string
	StoreID       string
	Type          string
	Bucket        string
	Quantity      decimal.Decimal // negativo en salidas
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
