package sale

import (
	"context"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// ReceiptUseCase consulta ventas confirmadas y genera el recibo (JSON o PDF).
type ReceiptUseCase struct {
	orderRepo repository.SalesOrderRepository
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
	pdf       ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	orderRepo repository.SalesOrderRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	pdf ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, storeRepo: storeRepo, userRepo: userRepo, pdf: pdf}
}

// GetSale obtiene una venta por ID con sus líneas, como recibo.
func (uc *ReceiptUseCase) GetSale(ctx context.Context, id string) (*dto.SaleReceiptResponse, error) {
	order, items, store, cashierName, err := uc.load(id)
	if err != nil {
		return nil, err
	}

	receiptItems := make([]dto.SaleReceiptItem, 0, len(items))
	for _, it := range items {
		receiptItems = append(receiptItems, dto.SaleReceiptItem{
			ProductID:  it.ProductID,
			AssemblyID: it.AssemblyID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return &dto.SaleReceiptResponse{
		SaleID:         order.ID,
		SaleNumber:     order.Number,
		CustomerName:   order.CustomerName,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		FinalAmount:    order.FinalAmount,
		PaymentMethod:  order.PaymentMethod,
		Items:          receiptItems,
		SaleDate:       order.CreatedAt,
		CashierName:    cashierName,
		StoreName:      store.Name,
	}, nil
}

// GetSalePDF genera el recibo en PDF para impresión.
func (uc *ReceiptUseCase) GetSalePDF(ctx context.Context, id string) ([]byte, error) {
	order, items, store, cashierName, err := uc.load(id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateReceiptPDF(ctx, order, items, store, cashierName)
}

func (uc *ReceiptUseCase) load(id string) (*entity.SalesOrder, []*entity.SalesItem, *entity.Store, string, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if order == nil {
		return nil, nil, nil, "", domain.ErrNotFound
	}
	items, err := uc.orderRepo.GetItemsByOrderID(order.ID)
	if err != nil {
		return nil, nil, nil, "", err
	}
	store, err := uc.storeRepo.GetByID(order.StoreID)
	if err != nil {
		return nil, nil, nil, "", err
	}
	if store == nil {
		store = &entity.Store{ID: order.StoreID}
	}
	cashierName := ""
	if u, err := uc.userRepo.GetByID(order.CreatedBy); err == nil && u != nil {
		cashierName = u.Name
	}
	return order, items, store, cashierName, nil
}
