package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

const (
	testStoreID  = "store-1"
	testCashier  = "user-cajero"
	testOperator = "Laura Gómez"
)

// newEnv arma una base en memoria con tienda, cajero y el caso de uso listo.
func newEnv(t *testing.T) (*memDB, *chanLedger, *sale.ProcessSaleUseCase) {
	t.Helper()
	db := newMemDB()
	db.stores[testStoreID] = entity.Store{ID: testStoreID, Name: "Tienda Centro", Active: true}
	db.users[testCashier] = entity.User{
		ID: testCashier, Name: testOperator, Role: entity.RoleCajero,
		StoreID: testStoreID, Status: "active",
	}
	ledger := newChanLedger()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := sale.NewProcessSaleUseCase(
		db,
		&memUserRepo{db}, &memStoreRepo{db}, &memProductRepo{db},
		&memOfferRepo{db}, &memInventoryRepo{db},
		ledger, sale.Options{}, log,
	)
	return db, ledger, uc
}

func seedProduct(db *memDB, id, name string, price string) {
	db.products[id] = entity.Product{ID: id, SKU: "SKU-" + id, Name: name, Price: dec(price), Active: true}
}

func seedInventory(db *memDB, productID string, storeroom, floor string) {
	db.inventory[invKey{productID, testStoreID}] = entity.InventoryRecord{
		ProductID: productID, StoreID: testStoreID,
		StoreroomQty: dec(storeroom), FloorQty: dec(floor),
	}
}

func waitLedger(t *testing.T, ledger *chanLedger) ledgerEntry {
	t.Helper()
	select {
	case e := <-ledger.entries:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("la notificación al ledger de ingresos nunca llegó")
		return ledgerEntry{}
	}
}

// Venta de producto simple con piso suficiente: descuenta exactamente la
// cantidad vendida y no toca ningún otro registro.
func TestProcessSale_ProductoSimpleExitoso(t *testing.T) {
	db, ledger, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "5")

	receipt, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-7", Quantity: dec("5"), UnitPrice: dec("10"), TotalPrice: dec("50")},
		},
		PaymentMethod: "efectivo",
	})
	require.NoError(t, err)

	rec := db.inventory[invKey{"prod-7", testStoreID}]
	assert.True(t, rec.FloorQty.IsZero(), "piso debe quedar en 0, quedó %s", rec.FloorQty)

	require.Len(t, db.orders, 1)
	order := db.orders[receipt.SaleID]
	assert.True(t, order.TotalAmount.Equal(dec("50")))
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.Equal(t, entity.PaymentStatusPaid, order.PaymentStatus)
	require.Len(t, db.items, 1)
	assert.Equal(t, "prod-7", db.items[0].ProductID)
	assert.Empty(t, db.items[0].AssemblyID)

	assert.Equal(t, testOperator, receipt.CashierName)
	assert.Equal(t, "Tienda Centro", receipt.StoreName)
	assert.Equal(t, receipt.SaleNumber, order.Number)

	entry := waitLedger(t, ledger)
	assert.Equal(t, testStoreID, entry.storeID)
	assert.True(t, entry.amount.Equal(dec("50")))
}

// Piso insuficiente: error con producto, requerido y disponible; cero filas.
func TestProcessSale_FaltantePisoNombraProducto(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "5")

	_, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-7", Quantity: dec("6"), UnitPrice: dec("10"), TotalPrice: dec("60")},
		},
		PaymentMethod: "efectivo",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "Gaseosa 350ml", shortage.ProductName)
	assert.True(t, shortage.Required.Equal(dec("6")))
	assert.True(t, shortage.Available.Equal(dec("5")))

	assert.Empty(t, db.orders)
	assert.Empty(t, db.items)
	assert.Empty(t, db.movements)
	rec := db.inventory[invKey{"prod-7", testStoreID}]
	assert.True(t, rec.FloorQty.Equal(dec("5")), "inventario no debe cambiar")
}

// Oferta armada: requerido = cantidadPorJuego × batch × cantidad vendida.
// batch=2, BoM 1 und de prod-7, venta de 3: descuenta 6 de bodega (queda 4).
func TestProcessSale_OfertaArmadaDescuentaBodega(t *testing.T) {
	db, ledger, uc := newEnv(t)
	seedProduct(db, "prod-7", "Empanada congelada", "2")
	seedInventory(db, "prod-7", "10", "0")
	db.offers["offer-3"] = entity.AssemblyOffer{
		ID: "offer-3", Name: "Combo empanadas", Price: dec("20"),
		BatchQuantity: dec("2"), Active: true,
		Materials: []*entity.BillOfMaterial{
			{OfferID: "offer-3", ProductID: "prod-7", Quantity: dec("1")},
		},
	}

	receipt, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{AssemblyID: "offer-3", Quantity: dec("3"), UnitPrice: dec("20"), TotalPrice: dec("60")},
		},
		PaymentMethod: "tarjeta",
	})
	require.NoError(t, err)

	rec := db.inventory[invKey{"prod-7", testStoreID}]
	assert.True(t, rec.StoreroomQty.Equal(dec("4")), "bodega debe quedar en 4 (10 - 1×2×3), quedó %s", rec.StoreroomQty)

	require.Len(t, db.items, 1)
	assert.Equal(t, "offer-3", db.items[0].AssemblyID)
	assert.Empty(t, db.items[0].ProductID)

	require.Len(t, db.movements, 1)
	assert.Equal(t, entity.MovementTypeVenta, db.movements[0].Type)
	assert.Equal(t, entity.BucketStoreroom, db.movements[0].Bucket)
	assert.True(t, db.movements[0].Quantity.Equal(dec("-6")))

	assert.True(t, receipt.FinalAmount.Equal(dec("60")))
	waitLedger(t, ledger)
}

// Bodega insuficiente para la oferta: el error nombra la oferta y la materia
// prima faltante con requerido vs. disponible.
func TestProcessSale_FaltanteOfertaNombraOfertaYProducto(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-7", "Empanada congelada", "2")
	seedInventory(db, "prod-7", "5", "0")
	db.offers["offer-3"] = entity.AssemblyOffer{
		ID: "offer-3", Name: "Combo empanadas", BatchQuantity: dec("2"), Active: true,
		Materials: []*entity.BillOfMaterial{
			{OfferID: "offer-3", ProductID: "prod-7", Quantity: dec("1")},
		},
	}

	_, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{AssemblyID: "offer-3", Quantity: dec("3"), UnitPrice: dec("20")},
		},
		PaymentMethod: "efectivo",
	})
	require.Error(t, err)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "Combo empanadas", shortage.OfferName)
	assert.Equal(t, "Empanada congelada", shortage.ProductName)
	assert.True(t, shortage.Required.Equal(dec("6")))
	assert.True(t, shortage.Available.Equal(dec("5")))
	assert.Empty(t, db.orders)
}

// Carrito multi-línea donde la última línea falla en la validación: ninguna
// línea anterior debe haber descontado nada.
func TestProcessSale_ValidacionFallaUltimaLineaNoMutaNada(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-a", "Café molido", "15")
	seedProduct(db, "prod-b", "Azúcar", "3")
	seedInventory(db, "prod-a", "0", "10")
	seedInventory(db, "prod-b", "0", "1")

	_, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-a", Quantity: dec("2"), UnitPrice: dec("15")},
			{ProductID: "prod-b", Quantity: dec("5"), UnitPrice: dec("3")},
		},
		PaymentMethod: "efectivo",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, db.inventory[invKey{"prod-a", testStoreID}].FloorQty.Equal(dec("10")))
	assert.True(t, db.inventory[invKey{"prod-b", testStoreID}].FloorQty.Equal(dec("1")))
	assert.Empty(t, db.orders)
	assert.Empty(t, db.items)
	assert.Empty(t, db.movements)
}

// Carrera perdida: otra venta consume el piso entre la validación y la
// transacción. El descuento condicional no afecta filas y la venta completa
// se revierte,
// incluida la línea que sí alcanzaba.
func TestProcessSale_CarreraConcurrenteRevierteTodo(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-a", "Café molido", "15")
	seedProduct(db, "prod-b", "Azúcar", "3")
	seedInventory(db, "prod-a", "0", "10")
	seedInventory(db, "prod-b", "0", "5")

	// Simula una venta concurrente que gana la carrera después de validar
	db.beforeTx = func() {
		rec := db.inventory[invKey{"prod-b", testStoreID}]
		rec.FloorQty = dec("3")
		db.inventory[invKey{"prod-b", testStoreID}] = rec
	}

	_, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-a", Quantity: dec("2"), UnitPrice: dec("15")},
			{ProductID: "prod-b", Quantity: dec("5"), UnitPrice: dec("3")},
		},
		PaymentMethod: "efectivo",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.True(t, shortage.Available.Equal(dec("3")), "debe reportar el saldo vigente")

	// Rollback completo: prod-a no perdió las 2 unidades de su línea
	assert.True(t, db.inventory[invKey{"prod-a", testStoreID}].FloorQty.Equal(dec("10")))
	assert.Empty(t, db.orders)
	assert.Empty(t, db.items)
	assert.Empty(t, db.movements)
}

func TestProcessSale_Invalidos(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "5")
	ctx := context.Background()

	t.Run("carrito vacío", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{PaymentMethod: "efectivo"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("línea con ambos IDs", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{
				{ProductID: "prod-7", AssemblyID: "offer-1", Quantity: dec("1"), UnitPrice: dec("10")},
			},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("línea sin ID", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{Quantity: dec("1"), UnitPrice: dec("10")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cantidad cero", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "prod-7", Quantity: dec("0"), UnitPrice: dec("10")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("precio cero", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "prod-7", Quantity: dec("1"), UnitPrice: dec("0")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("precio negativo", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "prod-7", Quantity: dec("1"), UnitPrice: dec("-10")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "no-existe", Quantity: dec("1"), UnitPrice: dec("10")}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("producto sin inventario en la tienda", func(t *testing.T) {
		seedProduct(db, "prod-x", "Sin inventariar", "8")
		_, err := uc.ProcessSale(ctx, testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{{ProductID: "prod-x", Quantity: dec("1"), UnitPrice: dec("8")}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// Operador sin tienda asignada no puede registrar ventas.
func TestProcessSale_OperadorSinTiendaProhibido(t *testing.T) {
	db, _, uc := newEnv(t)
	db.users["sin-tienda"] = entity.User{ID: "sin-tienda", Name: "Temporal", Role: entity.RoleCajero, Status: "active"}

	_, err := uc.ProcessSale(context.Background(), "sin-tienda", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{{ProductID: "x", Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// N ventas del mismo día comparten prefijo y llevan consecutivo creciente.
func TestProcessSale_ConsecutivoDiario(t *testing.T) {
	db, ledger, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "100")

	prefix := sale.DayPrefix("POS", time.Now())
	var numbers []string
	for i := 0; i < 3; i++ {
		receipt, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{
				{ProductID: "prod-7", Quantity: dec("1"), UnitPrice: dec("10")},
			},
			PaymentMethod: "efectivo",
		})
		require.NoError(t, err)
		numbers = append(numbers, receipt.SaleNumber)
		waitLedger(t, ledger)
	}

	assert.Equal(t, prefix+"-0001", numbers[0])
	assert.Equal(t, prefix+"-0002", numbers[1])
	assert.Equal(t, prefix+"-0003", numbers[2])
}

// Número de orden duplicado dentro de la tx (carrera del consecutivo): la
// transacción se revierte y el error sale como TransactionFailed.
func TestProcessSale_ColisionConsecutivoFallaTransaccion(t *testing.T) {
	db, _, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "10")

	prefix := sale.DayPrefix("POS", time.Now())
	// Orden preexistente cuyo número chocará con el consecutivo calculado:
	// count("POSyyyymmdd")=1 -> siguiente = -0002, que ya existe.
	db.orders["previa"] = entity.SalesOrder{ID: "previa", Number: prefix + "-0002", StoreID: testStoreID}

	_, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-7", Quantity: dec("1"), UnitPrice: dec("10")},
		},
		PaymentMethod: "efectivo",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransactionFailed)

	// Rollback: el inventario no perdió unidades
	assert.True(t, db.inventory[invKey{"prod-7", testStoreID}].FloorQty.Equal(dec("10")))
	require.Len(t, db.orders, 1, "solo debe quedar la orden preexistente")
}

// La falla del ledger de ingresos no convierte una venta confirmada en error.
func TestProcessSale_FalloLedgerNoAfectaVenta(t *testing.T) {
	db, ledger, uc := newEnv(t)
	ledger.err = errors.New("ledger caído")
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "5")

	receipt, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-7", Quantity: dec("2"), UnitPrice: dec("10")},
		},
		PaymentMethod: "efectivo",
	})
	require.NoError(t, err)
	require.NotNil(t, receipt)
	waitLedger(t, ledger)

	assert.Len(t, db.orders, 1)
}

// Descuento e impuesto entran al total final: final = subtotal - desc + imp.
func TestProcessSale_TotalesConDescuentoEImpuesto(t *testing.T) {
	db, ledger, uc := newEnv(t)
	seedProduct(db, "prod-7", "Gaseosa 350ml", "10")
	seedInventory(db, "prod-7", "0", "10")

	receipt, err := uc.ProcessSale(context.Background(), testCashier, dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			{ProductID: "prod-7", Quantity: dec("4"), UnitPrice: dec("10")},
		},
		DiscountAmount: dec("5"),
		TaxAmount:      dec("7.6"),
		PaymentMethod:  "tarjeta",
	})
	require.NoError(t, err)
	waitLedger(t, ledger)

	assert.True(t, receipt.TotalAmount.Equal(dec("40")))
	assert.True(t, receipt.FinalAmount.Equal(dec("42.6")), "40 - 5 + 7.6 = 42.6, obtuvo %s", receipt.FinalAmount)
}
