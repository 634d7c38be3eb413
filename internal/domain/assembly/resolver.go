// Package assembly implementa la explosión de la lista de materiales de una
// oferta armada (servicio de dominio, computo puro sin IO).
package assembly

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
)

// Requirement es la materia prima total que consume una línea de venta de
// una oferta: producto crudo y cantidad a descontar de bodega.
type Requirement struct {
	ProductID string
	Quantity  decimal.Decimal
}

// Explode calcula los requerimientos de materia prima de vender saleQty
// unidades de la oferta:
//
//	requerido = cantidadPorJuego × oferta.BatchQuantity × saleQty
//
// Los TRES factores son obligatorios: BatchQuantity indica cuántos juegos de
// materiales representa una unidad vendida, y omitirlo descuenta de menos.
// Entradas repetidas del mismo producto crudo se suman (no se asume que la
// lista de materiales venga sin duplicados); se conserva el orden de primera
// aparición.
func Explode(offer *entity.AssemblyOffer, saleQty decimal.Decimal) []Requirement {
	batch := offer.BatchQuantity
	if batch.IsZero() {
		// Datos legados sin batch definido equivalen a un juego por unidad
		batch = decimal.NewFromInt(1)
	}

	var reqs []Requirement
	index := make(map[string]int, len(offer.Materials))
	for _, m := range offer.Materials {
		total := m.Quantity.Mul(batch).Mul(saleQty)
		if i, ok := index[m.ProductID]; ok {
			reqs[i].Quantity = reqs[i].Quantity.Add(total)
			continue
		}
		index[m.ProductID] = len(reqs)
		reqs = append(reqs, Requirement{ProductID: m.ProductID, Quantity: total})
	}
	return reqs
}
