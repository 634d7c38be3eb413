package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
// Las órdenes son inmutables después del commit de la venta.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

func (r *SalesOrderRepo) Create(order *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, number, store_id, customer_id, customer_name, customer_phone, customer_email,
			total_amount, discount_amount, tax_amount, final_amount, payment_method, status, payment_status, notes, created_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Number, order.StoreID, order.CustomerID, order.CustomerName,
		order.CustomerPhone, order.CustomerEmail, order.TotalAmount, order.DiscountAmount,
		order.TaxAmount, order.FinalAmount, order.PaymentMethod, order.Status,
		order.PaymentStatus, order.Notes, order.CreatedBy, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Número de orden repetido: dos ventas contaron el mismo
			// consecutivo; el caller revierte y el cajero reintenta.
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	return nil
}

func (r *SalesOrderRepo) CreateItem(item *entity.SalesItem) error {
	query := `
		INSERT INTO sales_items (id, order_id, store_id, product_id, assembly_id, name, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.StoreID, item.ProductID, item.AssemblyID,
		item.Name, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert sales item: %w", err)
	}
	return nil
}

// CountByNumberPrefix cuenta órdenes cuyo número empieza con prefix.
func (r *SalesOrderRepo) CountByNumberPrefix(prefix string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM sales_orders WHERE number LIKE $1 || '%'`, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales orders: %w", err)
	}
	return n, nil
}

const orderColumns = `id, number, store_id, COALESCE(customer_id, ''), customer_name, customer_phone, customer_email,
	total_amount, discount_amount, tax_amount, final_amount, payment_method, status, payment_status, notes, created_by, created_at`

func scanOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := row.Scan(
		&o.ID, &o.Number, &o.StoreID, &o.CustomerID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.TotalAmount, &o.DiscountAmount, &o.TaxAmount, &o.FinalAmount, &o.PaymentMethod,
		&o.Status, &o.PaymentStatus, &o.Notes, &o.CreatedBy, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM sales_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	return o, nil
}

func (r *SalesOrderRepo) GetItemsByOrderID(orderID string) ([]*entity.SalesItem, error) {
	query := `
		SELECT id, order_id, store_id, COALESCE(product_id, ''), COALESCE(assembly_id, ''), name, quantity, unit_price, total_price
		FROM sales_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesItem
	for rows.Next() {
		var it entity.SalesItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.StoreID, &it.ProductID, &it.AssemblyID,
			&it.Name, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan sales item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// GetLatestByCustomerPhone devuelve la orden más reciente con ese teléfono
// desnormalizado, exista o no un Customer.
func (r *SalesOrderRepo) GetLatestByCustomerPhone(phone string) (*entity.SalesOrder, error) {
	o, err := scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM sales_orders WHERE customer_phone = $1 ORDER BY created_at DESC LIMIT 1`, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest order by phone: %w", err)
	}
	return o, nil
}

func (r *SalesOrderRepo) ListByStore(storeID string, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
