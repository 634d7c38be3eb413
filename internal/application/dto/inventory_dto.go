package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para RECEPCION: product_id, quantity, unit_cost (entra a bodega).
// Para REPOSICION: product_id, quantity (traslado bodega -> piso).
// Para AJUSTE: product_id, bucket, quantity (con signo).
// La tienda se deriva del operador autenticado.
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Bucket    string           `json:"bucket,omitempty"` // solo AJUSTE: BODEGA | PISO
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementResponse un registro del histórico de movimientos.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	StoreID       string          `json:"store_id"`
	Type          string          `json:"type"`
	Bucket        string          `json:"bucket"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// InventoryRecordResponse existencias de un producto en la tienda.
type InventoryRecordResponse struct {
	ProductID    string          `json:"product_id"`
	StoreID      string          `json:"store_id"`
	StoreroomQty decimal.Decimal `json:"storeroom_qty"`
	FloorQty     decimal.Decimal `json:"floor_qty"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
