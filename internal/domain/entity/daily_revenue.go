package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRevenue acumula el ingreso realizado de una tienda por día calendario.
// Lo alimenta la notificación post-commit del motor de ventas (best-effort).
type DailyRevenue struct {
	StoreID   string
	Day       time.Time // truncado a fecha
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
