package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
// La tabla inventory lleva un saldo de bodega y uno de piso por
// (producto, tienda), ambos con CHECK >= 0.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `product_id, store_id, storeroom_qty, floor_qty, min_stock, max_stock, updated_at`

func (r *InventoryRepo) get(productID, storeID, suffix string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 AND store_id = $2` + suffix
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, storeID).Scan(
		&rec.ProductID, &rec.StoreID, &rec.StoreroomQty, &rec.FloorQty,
		&rec.MinStock, &rec.MaxStock, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

func (r *InventoryRepo) Get(productID, storeID string) (*entity.InventoryRecord, error) {
	return r.get(productID, storeID, "")
}

// GetForUpdate bloquea la fila para flujos lee-modifica-escribe dentro de tx.
func (r *InventoryRepo) GetForUpdate(productID, storeID string) (*entity.InventoryRecord, error) {
	return r.get(productID, storeID, " FOR UPDATE")
}

func (r *InventoryRepo) Upsert(rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory (product_id, store_id, storeroom_qty, floor_qty, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (product_id, store_id)
		DO UPDATE SET storeroom_qty = EXCLUDED.storeroom_qty, floor_qty = EXCLUDED.floor_qty,
		              min_stock = EXCLUDED.min_stock, max_stock = EXCLUDED.max_stock, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		rec.ProductID, rec.StoreID, rec.StoreroomQty, rec.FloorQty, rec.MinStock, rec.MaxStock,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// DecrementFloor descuenta del piso de venta de forma condicional: el WHERE
// exige saldo suficiente, así el saldo nunca baja de cero aunque dos ventas
// compitan por las mismas unidades. Devuelve false si no afectó filas.
func (r *InventoryRepo) DecrementFloor(productID, storeID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE inventory SET floor_qty = floor_qty - $3, updated_at = now()
		WHERE product_id = $1 AND store_id = $2 AND floor_qty >= $3`
	cmd, err := r.q.Exec(context.Background(), query, productID, storeID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement floor: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DecrementStoreroom igual que DecrementFloor pero sobre bodega.
func (r *InventoryRepo) DecrementStoreroom(productID, storeID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE inventory SET storeroom_qty = storeroom_qty - $3, updated_at = now()
		WHERE product_id = $1 AND store_id = $2 AND storeroom_qty >= $3`
	cmd, err := r.q.Exec(context.Background(), query, productID, storeID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement storeroom: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *InventoryRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE store_id = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ProductID, &rec.StoreID, &rec.StoreroomQty, &rec.FloorQty,
			&rec.MinStock, &rec.MaxStock, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
