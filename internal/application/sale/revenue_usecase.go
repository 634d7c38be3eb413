package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// RevenueUseCase consulta el ingreso acumulado del día para la tienda del
// operador, a partir de lo que el ledger registró post-commit.
type RevenueUseCase struct {
	reader   RevenueReader
	userRepo repository.UserRepository
}

// NewRevenueUseCase construye el caso de uso.
func NewRevenueUseCase(reader RevenueReader, userRepo repository.UserRepository) *RevenueUseCase {
	return &RevenueUseCase{reader: reader, userRepo: userRepo}
}

// GetDay devuelve el acumulado de la tienda del operador para el día
// indicado. Un día sin ventas registradas devuelve acumulado cero, no error.
func (uc *RevenueUseCase) GetDay(ctx context.Context, operatorID string, day time.Time) (*dto.DailyRevenueResponse, error) {
	operator, err := uc.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, domain.ErrUserNotFound
	}
	if operator.StoreID == "" {
		return nil, domain.ErrForbidden
	}

	// Misma clave de día que usa la notificación del ledger
	day = day.Truncate(24 * time.Hour)
	rec, err := uc.reader.Get(ctx, operator.StoreID, day)
	if err != nil {
		return nil, err
	}
	out := &dto.DailyRevenueResponse{StoreID: operator.StoreID, Day: day, Amount: decimal.Zero}
	if rec != nil {
		out.Amount = rec.Amount
	}
	return out, nil
}
