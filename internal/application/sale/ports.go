package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad de la venta: o se
// persisten orden, líneas y descuentos de inventario completos, o nada.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		orderRepo repository.SalesOrderRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// RevenueLedger recibe la notificación post-commit del ingreso realizado.
// Es best-effort: un fallo aquí se registra en el log y jamás revierte la
// venta ya confirmada.
type RevenueLedger interface {
	RecordSale(ctx context.Context, storeID string, day time.Time, amount decimal.Decimal) error
}

// RevenueReader consulta el acumulado diario que el ledger registró.
type RevenueReader interface {
	// Get devuelve el acumulado de una tienda para un día, o (nil, nil).
	Get(ctx context.Context, storeID string, day time.Time) (*entity.DailyRevenue, error)
}

// ReceiptPDFGenerator genera la representación PDF del recibo de venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, order *entity.SalesOrder, items []*entity.SalesItem, store *entity.Store, cashierName string) ([]byte, error)
}
