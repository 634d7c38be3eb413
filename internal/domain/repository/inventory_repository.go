package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
)

// InventoryRepository define el puerto para consultar/actualizar existencias
// por tienda+producto. Usado dentro de transacciones para garantizar
// consistencia.
//
// Get y GetForUpdate devuelven (nil, nil) si no existe registro para el par
// (producto, tienda): el caller decide si eso es ErrNotFound o saldo cero.
type InventoryRepository interface {
	Get(productID, storeID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para flujos de
	// movimiento que leen-modifican-escriben.
	GetForUpdate(productID, storeID string) (*entity.InventoryRecord, error)
	Upsert(rec *entity.InventoryRecord) error
	// DecrementFloor descuenta del piso de venta de forma condicional
	// ("resta qty donde saldo >= qty"). Devuelve false si la fila no existía
	// o el saldo era insuficiente: el caller debe abortar la transacción.
	DecrementFloor(productID, storeID string, qty decimal.Decimal) (bool, error)
	// DecrementStoreroom igual que DecrementFloor pero sobre bodega
	// (materia prima de ofertas armadas).
	DecrementStoreroom(productID, storeID string, qty decimal.Decimal) (bool, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error)
}

// StockMovementRepository define el puerto para el histórico de movimientos.
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	ListByProduct(productID, storeID string, limit, offset int) ([]*entity.StockMovement, error)
}
