package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	OrderStatusCompleted = "COMPLETADA"
	OrderStatusCancelled = "ANULADA" // reservado; el POS actual no anula ventas

	PaymentStatusPaid    = "PAGADA"
	PaymentStatusPending = "PENDIENTE"
)

// SalesOrder es la cabecera de una venta. Los datos del cliente se
// desnormalizan (CustomerName/Phone/Email) para conservar la foto del
// momento de la venta aunque el cliente se edite después; CustomerID
// puede ir vacío si la venta fue anónima.
type SalesOrder struct {
	ID             string
	Number         string // POSyyyymmdd-#### único
	StoreID        string
	CustomerID     string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentMethod  string
	Status         string
	PaymentStatus  string
	Notes          string
	CreatedBy      string // usuario (cajero) que registró la venta
	CreatedAt      time.Time
}

// SalesItem es una línea de venta. Exactamente uno de ProductID/AssemblyID
// va poblado. Se crea solo dentro del commit de la venta y nunca se muta.
type SalesItem struct {
	ID         string
	OrderID    string
	StoreID    string
	ProductID  string // producto simple
	AssemblyID string // oferta/combo
	Name       string // nombre resuelto al momento de la venta
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
