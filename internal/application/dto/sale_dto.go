package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest es una línea del carrito. Exactamente uno de
// ProductID/AssemblyID debe ir poblado: el tipo de línea viaja explícito en
// el DTO en vez de codificarse en rangos numéricos de un solo espacio de IDs.
type SaleLineRequest struct {
	ProductID  string          `json:"product_id,omitempty"`
	AssemblyID string          `json:"assembly_id,omitempty"`
	Name       string          `json:"name,omitempty"` // informativo; el servidor resuelve el nombre real
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CreateSaleRequest body para POST /api/pos/sales.
// La tienda NO viaja en el body: se deriva del operador autenticado.
type CreateSaleRequest struct {
	Items          []SaleLineRequest `json:"items"`
	CustomerName   string            `json:"customer_name,omitempty"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	CustomerEmail  string            `json:"customer_email,omitempty"`
	PaymentMethod  string            `json:"payment_method"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	FinalAmount    decimal.Decimal   `json:"final_amount"`
	Notes          string            `json:"notes,omitempty"`
}

// SaleReceiptItem línea del recibo con el nombre resuelto.
type SaleReceiptItem struct {
	ProductID  string          `json:"product_id,omitempty"`
	AssemblyID string          `json:"assembly_id,omitempty"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// DailyRevenueResponse acumulado de ingresos de la tienda para un día.
type DailyRevenueResponse struct {
	StoreID string          `json:"store_id"`
	Day     time.Time       `json:"day"`
	Amount  decimal.Decimal `json:"amount"`
}

// SaleReceiptResponse recibo de la venta para el cliente y la impresión.
type SaleReceiptResponse struct {
	SaleID         string            `json:"sale_id"`
	SaleNumber     string            `json:"sale_number"`
	CustomerName   string            `json:"customer_name,omitempty"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	FinalAmount    decimal.Decimal   `json:"final_amount"`
	PaymentMethod  string            `json:"payment_method"`
	Items          []SaleReceiptItem `json:"items"`
	SaleDate       time.Time         `json:"sale_date"`
	CashierName    string            `json:"cashier_name"`
	StoreName      string            `json:"store_name"`
}
