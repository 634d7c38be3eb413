package inventory

import (
	"context"

	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de inventario atados a esa tx. Los movimientos son
// lee-modifica-escribe sobre la fila de existencias, por eso corren con
// GetForUpdate dentro de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
