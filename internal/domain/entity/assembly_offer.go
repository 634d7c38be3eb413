package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssemblyOffer representa un combo u oferta armada: se vende como una sola
// línea pero consume materia prima de bodega según su lista de materiales.
// BatchQuantity es cuántos juegos de materiales representa una unidad
// vendida de la oferta.
type AssemblyOffer struct {
	ID            string
	StoreID       string // vacío = oferta global, disponible en todas las tiendas
	Name          string
	Price         decimal.Decimal
	Unit          string
	BatchQuantity decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Materials se carga junto con la oferta cuando el caso de uso lo necesita.
	Materials []*BillOfMaterial
}

// BillOfMaterial es una entrada de la lista de materiales de una oferta:
// cuánto producto crudo consume UN juego de materiales.
type BillOfMaterial struct {
	ID        string
	OfferID   string
	ProductID string
	Quantity  decimal.Decimal
}
