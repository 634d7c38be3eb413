package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
)

var _ sale.RevenueLedger = (*DailyRevenueRepo)(nil)
var _ sale.RevenueReader = (*DailyRevenueRepo)(nil)

// DailyRevenueRepo acumula el ingreso diario por tienda sobre PostgreSQL.
// Implementa el ledger best-effort del motor de ventas: un upsert que suma
// el monto al acumulado del día.
type DailyRevenueRepo struct {
	q Querier
}

// NewDailyRevenueRepository construye el adaptador. Acepta pool o tx (Querier).
func NewDailyRevenueRepository(q Querier) *DailyRevenueRepo {
	return &DailyRevenueRepo{q: q}
}

// RecordSale suma el monto de una venta al acumulado del día de la tienda.
func (r *DailyRevenueRepo) RecordSale(ctx context.Context, storeID string, day time.Time, amount decimal.Decimal) error {
	query := `
		INSERT INTO daily_revenue (store_id, day, amount, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (store_id, day)
		DO UPDATE SET amount = daily_revenue.amount + EXCLUDED.amount, updated_at = now()`
	_, err := r.q.Exec(ctx, query, storeID, day, amount)
	if err != nil {
		return fmt.Errorf("record daily revenue: %w", err)
	}
	return nil
}

// Get devuelve el acumulado de una tienda para un día, o (nil, nil).
func (r *DailyRevenueRepo) Get(ctx context.Context, storeID string, day time.Time) (*entity.DailyRevenue, error) {
	var d entity.DailyRevenue
	err := r.q.QueryRow(ctx,
		`SELECT store_id, day, amount, updated_at FROM daily_revenue WHERE store_id = $1 AND day = $2`,
		storeID, day).Scan(&d.StoreID, &d.Day, &d.Amount, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily revenue: %w", err)
	}
	return &d, nil
}
