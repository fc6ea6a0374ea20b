package lot

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el costo promedio ponderado del producto al recibir un lote.
// NuevoCosto = ((StockActual * CostoActual) + (CantRecibida * CostoLote)) / (StockActual + CantRecibida)
func WeightedAverageCost(stockActual, costoActual, cantRecibida, costoLote decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantRecibida)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantRecibida.Mul(costoLote))
	return num.Div(sum)
}
