package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/assembly"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
)

// Options parámetros de numeración del POS.
type Options struct {
	OrderPrefix    string // ej: "POS"
	SequenceDigits int    // dígitos del consecutivo diario
}

// ProcessSaleUseCase registra una venta de mostrador: valida el carrito
// completo contra inventario (productos simples y ofertas armadas), resuelve
// el cliente y descuenta existencias dentro de una sola transacción.
// La venta es todo-o-nada: cualquier fallo revierte orden, líneas y
// descuentos por igual.
type ProcessSaleUseCase struct {
	txRunner    SaleTxRunner
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	offerRepo   repository.AssemblyOfferRepository
	invRepo     repository.InventoryRepository
	ledger      RevenueLedger
	opts        Options
	log         *logger.Logger
}

// NewProcessSaleUseCase construye el caso de uso.
func NewProcessSaleUseCase(
	txRunner SaleTxRunner,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	offerRepo repository.AssemblyOfferRepository,
	invRepo repository.InventoryRepository,
	ledger RevenueLedger,
	opts Options,
	log *logger.Logger,
) *ProcessSaleUseCase {
	if opts.OrderPrefix == "" {
		opts.OrderPrefix = "POS"
	}
	if opts.SequenceDigits <= 0 {
		opts.SequenceDigits = 4
	}
	return &ProcessSaleUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		offerRepo:   offerRepo,
		invRepo:     invRepo,
		ledger:      ledger,
		opts:        opts,
		log:         log.Component("pos"),
	}
}

// saleLine es una línea del carrito ya validada contra inventario.
type saleLine struct {
	req     dto.SaleLineRequest
	name    string // nombre resuelto del producto u oferta
	product *entity.Product
	offer   *entity.AssemblyOffer
	reqs    []assembly.Requirement // materia prima total (solo ofertas)
}

// ProcessSale valida y confirma una venta para la tienda del operador.
// Fase 1: toda la validación con lecturas fuera de la transacción, línea por
// línea, sin mutar nada (fail-fast: un carrito con una línea mala no toca
// inventario de las líneas buenas). Fase 2: cliente + orden + líneas +
// descuentos condicionales dentro de una transacción con Commit/Rollback.
func (uc *ProcessSaleUseCase) ProcessSale(ctx context.Context, operatorID string, in dto.CreateSaleRequest) (*dto.SaleReceiptResponse, error) {
	operator, err := uc.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, domain.ErrUserNotFound
	}
	if operator.StoreID == "" {
		// Operador sin tienda asignada no puede vender
		return nil, domain.ErrForbidden
	}
	store, err := uc.storeRepo.GetByID(operator.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.LessThan(decimal.Zero) || in.TaxAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	lines, err := uc.validateCart(store.ID, in.Items)
	if err != nil {
		return nil, err
	}

	// Totales se recalculan en servidor a partir de las líneas
	subtotal := decimal.Zero
	for i := range lines {
		lineTotal := lines[i].req.Quantity.Mul(lines[i].req.UnitPrice)
		lines[i].req.TotalPrice = lineTotal
		subtotal = subtotal.Add(lineTotal)
	}
	finalAmount := subtotal.Sub(in.DiscountAmount).Add(in.TaxAmount)
	if finalAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	orderID := uuid.New().String()
	var order *entity.SalesOrder
	var customer *entity.Customer

	err = uc.txRunner.RunSale(ctx, func(
		customerRepo repository.CustomerRepository,
		orderRepo repository.SalesOrderRepository,
		invRepo repository.InventoryRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		customer, err = ResolveCustomer(customerRepo, orderRepo, in.CustomerName, in.CustomerPhone, in.CustomerEmail, now)
		if err != nil {
			return err
		}

		// Consecutivo diario dentro de la tx; el índice único sobre number
		// es el árbitro final si dos ventas simultáneas cuentan lo mismo.
		prefix := DayPrefix(uc.opts.OrderPrefix, now)
		count, err := orderRepo.CountByNumberPrefix(prefix)
		if err != nil {
			return err
		}
		number := FormatOrderNumber(prefix, count+1, uc.opts.SequenceDigits)

		order = &entity.SalesOrder{
			ID:             orderID,
			Number:         number,
			StoreID:        store.ID,
			CustomerName:   in.CustomerName,
			CustomerPhone:  in.CustomerPhone,
			CustomerEmail:  in.CustomerEmail,
			TotalAmount:    subtotal,
			DiscountAmount: in.DiscountAmount,
			TaxAmount:      in.TaxAmount,
			FinalAmount:    finalAmount,
			PaymentMethod:  in.PaymentMethod,
			Status:         entity.OrderStatusCompleted,
			PaymentStatus:  entity.PaymentStatusPaid,
			Notes:          in.Notes,
			CreatedBy:      operator.ID,
			CreatedAt:      now,
		}
		if customer != nil {
			order.CustomerID = customer.ID
			if order.CustomerName == "" {
				order.CustomerName = customer.Name
			}
			if order.CustomerEmail == "" {
				order.CustomerEmail = customer.Email
			}
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		for _, ln := range lines {
			item := &entity.SalesItem{
				ID:         uuid.New().String(),
				OrderID:    order.ID,
				StoreID:    store.ID,
				Name:       ln.name,
				Quantity:   ln.req.Quantity,
				UnitPrice:  ln.req.UnitPrice,
				TotalPrice: ln.req.TotalPrice,
			}
			if ln.offer != nil {
				item.AssemblyID = ln.offer.ID
			} else {
				item.ProductID = ln.product.ID
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}

			if ln.offer != nil {
				if err := uc.deductMaterials(invRepo, movRepo, ln, store.ID, order.ID, operator.ID, now); err != nil {
					return err
				}
				continue
			}
			if err := uc.deductFloor(invRepo, movRepo, ln, store.ID, order.ID, operator.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err)
	}

	// Ingreso diario: best-effort fuera del camino crítico; si falla queda
	// en el log y la venta confirmada no se toca.
	go uc.notifyLedger(store.ID, order)

	return uc.toReceipt(order, receiptItemsFromLines(lines), operator.Name, store.Name), nil
}

// validateCart valida todas las líneas antes de cualquier mutación.
func (uc *ProcessSaleUseCase) validateCart(storeID string, items []dto.SaleLineRequest) ([]saleLine, error) {
	lines := make([]saleLine, 0, len(items))
	for _, item := range items {
		// Cantidad y precio deben ser positivos: una línea a precio cero
		// cobraría de menos sin dejar rastro de la anomalía.
		if !item.Quantity.GreaterThan(decimal.Zero) || !item.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		// Unión etiquetada: exactamente uno de product_id/assembly_id
		if (item.ProductID == "") == (item.AssemblyID == "") {
			return nil, domain.ErrInvalidInput
		}

		if item.AssemblyID != "" {
			ln, err := uc.validateAssemblyLine(storeID, item)
			if err != nil {
				return nil, err
			}
			lines = append(lines, ln)
			continue
		}

		ln, err := uc.validatePlainLine(storeID, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, nil
}

func (uc *ProcessSaleUseCase) validatePlainLine(storeID string, item dto.SaleLineRequest) (saleLine, error) {
	product, err := uc.productRepo.GetByID(item.ProductID)
	if err != nil {
		return saleLine{}, err
	}
	if product == nil || !product.Active {
		return saleLine{}, domain.ErrNotFound
	}
	rec, err := uc.invRepo.Get(item.ProductID, storeID)
	if err != nil {
		return saleLine{}, err
	}
	if rec == nil {
		// El producto nunca se ha inventariado en esta tienda
		return saleLine{}, domain.ErrNotFound
	}
	if rec.FloorQty.LessThan(item.Quantity) {
		return saleLine{}, &domain.StockShortageError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Required:    item.Quantity,
			Available:   rec.FloorQty,
		}
	}
	return saleLine{req: item, name: product.Name, product: product}, nil
}

func (uc *ProcessSaleUseCase) validateAssemblyLine(storeID string, item dto.SaleLineRequest) (saleLine, error) {
	offer, err := uc.offerRepo.GetWithMaterials(item.AssemblyID)
	if err != nil {
		return saleLine{}, err
	}
	if offer == nil || !offer.Active {
		return saleLine{}, domain.ErrNotFound
	}
	if offer.StoreID != "" && offer.StoreID != storeID {
		// Oferta de otra tienda: para este operador no existe
		return saleLine{}, domain.ErrNotFound
	}

	reqs := assembly.Explode(offer, item.Quantity)
	for _, rq := range reqs {
		rec, err := uc.invRepo.Get(rq.ProductID, storeID)
		if err != nil {
			return saleLine{}, err
		}
		available := decimal.Zero
		if rec != nil {
			available = rec.StoreroomQty
		}
		if available.LessThan(rq.Quantity) {
			return saleLine{}, &domain.StockShortageError{
				ProductID:   rq.ProductID,
				ProductName: uc.productNameOr(rq.ProductID),
				OfferName:   offer.Name,
				Required:    rq.Quantity,
				Available:   available,
			}
		}
	}
	return saleLine{req: item, name: offer.Name, offer: offer, reqs: reqs}, nil
}

// deductMaterials descuenta de bodega la materia prima de una línea de
// oferta. El descuento es condicional ("resta donde saldo >= cantidad"):
// si otra venta concurrente consumió el saldo después de la validación,
// la actualización no afecta filas y la transacción completa se revierte.
func (uc *ProcessSaleUseCase) deductMaterials(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	ln saleLine, storeID, orderID, operatorID string, now time.Time,
) error {
	for _, rq := range ln.reqs {
		ok, err := invRepo.DecrementStoreroom(rq.ProductID, storeID, rq.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return uc.shortageNow(invRepo, rq.ProductID, storeID, ln.offer.Name, rq.Quantity, true)
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: orderID,
			ProductID:     rq.ProductID,
			StoreID:       storeID,
			Type:          entity.MovementTypeVenta,
			Bucket:        entity.BucketStoreroom,
			Quantity:      rq.Quantity.Neg(),
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     operatorID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
	}
	return nil
}

// deductFloor descuenta del piso de venta la cantidad de una línea simple.
func (uc *ProcessSaleUseCase) deductFloor(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	ln saleLine, storeID, orderID, operatorID string, now time.Time,
) error {
	ok, err := invRepo.DecrementFloor(ln.product.ID, storeID, ln.req.Quantity)
	if err != nil {
		return err
	}
	if !ok {
		return uc.shortageNow(invRepo, ln.product.ID, storeID, "", ln.req.Quantity, false)
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: orderID,
		ProductID:     ln.product.ID,
		StoreID:       storeID,
		Type:          entity.MovementTypeVenta,
		Bucket:        entity.BucketFloor,
		Quantity:      ln.req.Quantity.Neg(),
		UnitCost:      ln.product.Cost,
		TotalCost:     ln.req.Quantity.Neg().Mul(ln.product.Cost),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     operatorID,
	}
	return movRepo.Create(mov)
}

// shortageNow rearma el error de faltante con el saldo vigente cuando el
// descuento condicional no afectó filas (carrera perdida contra otra venta).
func (uc *ProcessSaleUseCase) shortageNow(invRepo repository.InventoryRepository, productID, storeID, offerName string, required decimal.Decimal, storeroom bool) error {
	available := decimal.Zero
	if rec, err := invRepo.Get(productID, storeID); err == nil && rec != nil {
		if storeroom {
			available = rec.StoreroomQty
		} else {
			available = rec.FloorQty
		}
	}
	return &domain.StockShortageError{
		ProductID:   productID,
		ProductName: uc.productNameOr(productID),
		OfferName:   offerName,
		Required:    required,
		Available:   available,
	}
}

func (uc *ProcessSaleUseCase) productNameOr(id string) string {
	if p, err := uc.productRepo.GetByID(id); err == nil && p != nil {
		return p.Name
	}
	return id
}

func (uc *ProcessSaleUseCase) notifyLedger(storeID string, order *entity.SalesOrder) {
	day := order.CreatedAt.Truncate(24 * time.Hour)
	if err := uc.ledger.RecordSale(context.Background(), storeID, day, order.FinalAmount); err != nil {
		uc.log.Error().Err(err).
			Str("order_id", order.ID).
			Str("order_number", order.Number).
			Msg("no se pudo registrar el ingreso diario")
	}
}

// classifyTxError deja pasar los errores de dominio con significado propio y
// envuelve el resto en ErrTransactionFailed (rollback ya ejecutado).
func classifyTxError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrForbidden):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
}

func receiptItemsFromLines(lines []saleLine) []dto.SaleReceiptItem {
	items := make([]dto.SaleReceiptItem, 0, len(lines))
	for _, ln := range lines {
		it := dto.SaleReceiptItem{
			Name:       ln.name,
			Quantity:   ln.req.Quantity,
			UnitPrice:  ln.req.UnitPrice,
			TotalPrice: ln.req.TotalPrice,
		}
		if ln.offer != nil {
			it.AssemblyID = ln.offer.ID
		} else {
			it.ProductID = ln.product.ID
		}
		items = append(items, it)
	}
	return items
}

func (uc *ProcessSaleUseCase) toReceipt(order *entity.SalesOrder, items []dto.SaleReceiptItem, cashierName, storeName string) *dto.SaleReceiptResponse {
	return &dto.SaleReceiptResponse{
		SaleID:         order.ID,
		SaleNumber:     order.Number,
		CustomerName:   order.CustomerName,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		FinalAmount:    order.FinalAmount,
		PaymentMethod:  order.PaymentMethod,
		Items:          items,
		SaleDate:       order.CreatedAt,
		CashierName:    cashierName,
		StoreName:      storeName,
	}
}
