package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	invdomain "github.com/jhoicas/PosVenta-api/internal/domain/inventory"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
)

// MovementUseCase registra movimientos de inventario distintos de la venta:
//
//   - RECEPCION: mercancía comprada entra a bodega y recalcula el costo
//     promedio ponderado del producto.
//   - REPOSICION: traslado bodega -> piso de venta para surtir estantería.
//   - AJUSTE: corrección manual (con signo) sobre bodega o piso.
//
// Cada movimiento muta la fila de existencias y deja su registro histórico
// dentro de la misma transacción.
type MovementUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	invRepo     repository.InventoryRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
}

func NewMovementUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		productRepo: productRepo,
		invRepo:     invRepo,
		movRepo:     movRepo,
		log:         log.Component("inventory"),
	}
}

// RegisterMovement aplica un movimiento sobre la tienda del operador y
// devuelve las existencias resultantes.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, operatorID string, in dto.RegisterMovementRequest) (*dto.InventoryRecordResponse, error) {
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

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if err := validateMovement(in); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *entity.InventoryRecord

	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		switch in.Type {
		case entity.MovementTypeRecepcion:
			result, err = uc.applyReception(invRepo, movRepo, productRepo, product, operator, in, now)
		case entity.MovementTypeReposicion:
			result, err = uc.applyRestock(invRepo, movRepo, product, operator, in, now)
		case entity.MovementTypeAjuste:
			result, err = uc.applyAdjustment(invRepo, movRepo, product, operator, in, now)
		}
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock),
			errors.Is(err, domain.ErrInvalidInput),
			errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	uc.log.Info().
		Str("type", in.Type).
		Str("product_id", product.ID).
		Str("store_id", operator.StoreID).
		Str("quantity", in.Quantity.String()).
		Msg("movimiento de inventario registrado")

	return toRecordResponse(result), nil
}

func validateMovement(in dto.RegisterMovementRequest) error {
	switch in.Type {
	case entity.MovementTypeRecepcion:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero) {
			// La recepción siempre trae costo de compra
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeReposicion:
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeAjuste:
		if in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if in.Bucket != entity.BucketStoreroom && in.Bucket != entity.BucketFloor {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// applyReception suma la cantidad a bodega y recalcula el costo promedio
// ponderado del producto con la existencia total (bodega + piso).
func (uc *MovementUseCase) applyReception(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product, operator *entity.User,
	in dto.RegisterMovementRequest, now time.Time,
) (*entity.InventoryRecord, error) {
	rec, err := invRepo.GetForUpdate(product.ID, operator.StoreID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		// Primera recepción del producto en esta tienda
		rec = &entity.InventoryRecord{ProductID: product.ID, StoreID: operator.StoreID}
	}

	onHand := rec.StoreroomQty.Add(rec.FloorQty)
	newCost := invdomain.WeightedAverageCost(onHand, product.Cost, in.Quantity, *in.UnitCost)
	if err := productRepo.UpdateCost(product.ID, newCost); err != nil {
		return nil, err
	}

	rec.StoreroomQty = rec.StoreroomQty.Add(in.Quantity)
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: uuid.New().String(),
		ProductID:     product.ID,
		StoreID:       operator.StoreID,
		Type:          entity.MovementTypeRecepcion,
		Bucket:        entity.BucketStoreroom,
		Quantity:      in.Quantity,
		UnitCost:      *in.UnitCost,
		TotalCost:     in.Quantity.Mul(*in.UnitCost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     operator.ID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return rec, nil
}

// applyRestock traslada cantidad de bodega al piso de venta. Deja dos
// registros (salida de bodega, entrada a piso) atados al mismo TransactionID.
func (uc *MovementUseCase) applyRestock(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	product *entity.Product, operator *entity.User,
	in dto.RegisterMovementRequest, now time.Time,
) (*entity.InventoryRecord, error) {
	rec, err := invRepo.GetForUpdate(product.ID, operator.StoreID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.StoreroomQty.LessThan(in.Quantity) {
		return nil, &domain.StockShortageError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Required:    in.Quantity,
			Available:   rec.StoreroomQty,
		}
	}

	rec.StoreroomQty = rec.StoreroomQty.Sub(in.Quantity)
	rec.FloorQty = rec.FloorQty.Add(in.Quantity)
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	out := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     product.ID,
		StoreID:       operator.StoreID,
		Type:          entity.MovementTypeReposicion,
		Bucket:        entity.BucketStoreroom,
		Quantity:      in.Quantity.Neg(),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     operator.ID,
	}
	if err := movRepo.Create(out); err != nil {
		return nil, err
	}
	inMov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     product.ID,
		StoreID:       operator.StoreID,
		Type:          entity.MovementTypeReposicion,
		Bucket:        entity.BucketFloor,
		Quantity:      in.Quantity,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     operator.ID,
	}
	if err := movRepo.Create(inMov); err != nil {
		return nil, err
	}
	return rec, nil
}

// applyAdjustment corrige el saldo de un bucket con una cantidad con signo.
// El resultado nunca puede quedar negativo.
func (uc *MovementUseCase) applyAdjustment(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	product *entity.Product, operator *entity.User,
	in dto.RegisterMovementRequest, now time.Time,
) (*entity.InventoryRecord, error) {
	rec, err := invRepo.GetForUpdate(product.ID, operator.StoreID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		if in.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrNotFound
		}
		rec = &entity.InventoryRecord{ProductID: product.ID, StoreID: operator.StoreID}
	}

	var after decimal.Decimal
	if in.Bucket == entity.BucketStoreroom {
		after = rec.StoreroomQty.Add(in.Quantity)
	} else {
		after = rec.FloorQty.Add(in.Quantity)
	}
	if after.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Bucket == entity.BucketStoreroom {
		rec.StoreroomQty = after
	} else {
		rec.FloorQty = after
	}
	rec.UpdatedAt = now
	if err := invRepo.Upsert(rec); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: uuid.New().String(),
		ProductID:     product.ID,
		StoreID:       operator.StoreID,
		Type:          entity.MovementTypeAjuste,
		Bucket:        in.Bucket,
		Quantity:      in.Quantity,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     operator.ID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListStock lista las existencias de la tienda del operador.
func (uc *MovementUseCase) ListStock(ctx context.Context, operatorID string, page dto.PageRequest) ([]*dto.InventoryRecordResponse, error) {
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

	page.DefaultPage()
	records, err := uc.invRepo.ListByStore(operator.StoreID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InventoryRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	return out, nil
}

// ListMovements devuelve el histórico de un producto en la tienda del
// operador, del más reciente al más antiguo.
func (uc *MovementUseCase) ListMovements(ctx context.Context, operatorID, productID string, page dto.PageRequest) ([]*dto.MovementResponse, error) {
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

	page.DefaultPage()
	movs, err := uc.movRepo.ListByProduct(productID, operator.StoreID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, &dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			StoreID:       m.StoreID,
			Type:          m.Type,
			Bucket:        m.Bucket,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out, nil
}

func toRecordResponse(rec *entity.InventoryRecord) *dto.InventoryRecordResponse {
	return &dto.InventoryRecordResponse{
		ProductID:    rec.ProductID,
		StoreID:      rec.StoreID,
		StoreroomQty: rec.StoreroomQty,
		FloorQty:     rec.FloorQty,
		MinStock:     rec.MinStock,
		MaxStock:     rec.MaxStock,
		UpdatedAt:    rec.UpdatedAt,
	}
}
