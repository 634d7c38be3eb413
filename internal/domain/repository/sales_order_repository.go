package repository

import "github.com/jhoicas/PosVenta-api/internal/domain/entity"

// SalesOrderRepository define el puerto de persistencia para órdenes de
// venta y sus líneas. Create/CreateItem se invocan solo dentro de la
// transacción de venta; las órdenes nunca se actualizan después.
type SalesOrderRepository interface {
	Create(order *entity.SalesOrder) error
	CreateItem(item *entity.SalesItem) error
	// CountByNumberPrefix cuenta órdenes cuyo número empieza con prefix
	// (consecutivo diario). Se llama dentro de la transacción; el índice
	// único sobre number es el árbitro final bajo concurrencia.
	CountByNumberPrefix(prefix string) (int64, error)
	GetByID(id string) (*entity.SalesOrder, error)
	GetItemsByOrderID(orderID string) ([]*entity.SalesItem, error)
	// GetLatestByCustomerPhone devuelve la orden más reciente con ese
	// teléfono desnormalizado, exista o no un Customer; (nil, nil) si no hay.
	GetLatestByCustomerPhone(phone string) (*entity.SalesOrder, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.SalesOrder, error)
}
