package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa la lógica de costo promedio ponderado al
// recepcionar mercancía (servicio de dominio).
// NuevoCosto = ((ExistenciaActual * CostoActual) + (CantEntrada * CostoEntrada)) / (ExistenciaActual + CantEntrada)
func WeightedAverageCost(existencia, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := existencia.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := existencia.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}
