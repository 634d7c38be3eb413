package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/inventory"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Los valores se copian para que el rollback del TxRunner
// falso restaure el estado previo.
// ──────────────────────────────────────────────────────────────────────────────

type invKey struct{ productID, storeID string }

type movDB struct {
	users     map[string]entity.User
	products  map[string]entity.Product
	inventory map[invKey]entity.InventoryRecord
	movements []entity.StockMovement
}

func newMovDB() *movDB {
	return &movDB{
		users:     map[string]entity.User{},
		products:  map[string]entity.Product{},
		inventory: map[invKey]entity.InventoryRecord{},
	}
}

// Run implementa inventory.TxRunner con rollback-si-error.
func (db *movDB) Run(_ context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	invSnap := make(map[invKey]entity.InventoryRecord, len(db.inventory))
	for k, v := range db.inventory {
		invSnap[k] = v
	}
	prodSnap := make(map[string]entity.Product, len(db.products))
	for k, v := range db.products {
		prodSnap[k] = v
	}
	movSnap := append([]entity.StockMovement(nil), db.movements...)

	if err := fn(&movInvRepo{db}, &movMovRepo{db}, &movProductRepo{db}); err != nil {
		db.inventory = invSnap
		db.products = prodSnap
		db.movements = movSnap
		return err
	}
	return nil
}

var _ inventory.TxRunner = (*movDB)(nil)

type movUserRepo struct{ db *movDB }

func (r *movUserRepo) Create(u *entity.User) error { r.db.users[u.ID] = *u; return nil }
func (r *movUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.db.users[id]; ok {
		c := u
		return &c, nil
	}
	return nil, nil
}
func (r *movUserRepo) FindByEmail(string) (*entity.User, error) { return nil, nil }

type movProductRepo struct{ db *movDB }

func (r *movProductRepo) Create(p *entity.Product) error { r.db.products[p.ID] = *p; return nil }
func (r *movProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.db.products[id]; ok {
		c := p
		return &c, nil
	}
	return nil, nil
}
func (r *movProductRepo) GetBySKU(string) (*entity.Product, error)      { return nil, nil }
func (r *movProductRepo) List(int, int) ([]*entity.Product, error)      { return nil, nil }
func (r *movProductRepo) Update(p *entity.Product) error                { r.db.products[p.ID] = *p; return nil }
func (r *movProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	p := r.db.products[id]
	p.Cost = cost
	r.db.products[id] = p
	return nil
}

type movInvRepo struct{ db *movDB }

func (r *movInvRepo) Get(productID, storeID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.db.inventory[invKey{productID, storeID}]; ok {
		c := rec
		return &c, nil
	}
	return nil, nil
}
func (r *movInvRepo) GetForUpdate(productID, storeID string) (*entity.InventoryRecord, error) {
	return r.Get(productID, storeID)
}
func (r *movInvRepo) Upsert(rec *entity.InventoryRecord) error {
	r.db.inventory[invKey{rec.ProductID, rec.StoreID}] = *rec
	return nil
}
func (r *movInvRepo) DecrementFloor(string, string, decimal.Decimal) (bool, error) {
	return false, nil
}
func (r *movInvRepo) DecrementStoreroom(string, string, decimal.Decimal) (bool, error) {
	return false, nil
}
func (r *movInvRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.db.inventory {
		if rec.StoreID == storeID {
			c := rec
			out = append(out, &c)
		}
	}
	return out, nil
}

type movMovRepo struct{ db *movDB }

func (r *movMovRepo) Create(m *entity.StockMovement) error {
	r.db.movements = append(r.db.movements, *m)
	return nil
}
func (r *movMovRepo) ListByProduct(productID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.db.movements {
		if r.db.movements[i].ProductID == productID && r.db.movements[i].StoreID == storeID {
			c := r.db.movements[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

const (
	movStoreID  = "store-1"
	movOperator = "user-bodeguero"
)

func newMovEnv(t *testing.T) (*movDB, *inventory.MovementUseCase) {
	t.Helper()
	db := newMovDB()
	db.users[movOperator] = entity.User{
		ID: movOperator, Name: "Marta", Role: entity.RoleGerente,
		StoreID: movStoreID, Status: "active",
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := inventory.NewMovementUseCase(
		db, &movUserRepo{db}, &movProductRepo{db},
		&movInvRepo{db}, &movMovRepo{db}, log,
	)
	return db, uc
}

// Primera recepción: crea el registro de existencias y el costo del producto
// queda igual al costo de compra.
func TestRegisterMovement_RecepcionInicial(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Active: true}

	rec, err := uc.RegisterMovement(context.Background(), movOperator, dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeRecepcion,
		Quantity:  dec("30"),
		UnitCost:  decp("2.5"),
	})
	require.NoError(t, err)

	assert.True(t, rec.StoreroomQty.Equal(dec("30")))
	assert.True(t, rec.FloorQty.IsZero())
	assert.True(t, db.products["prod-1"].Cost.Equal(dec("2.5")))

	require.Len(t, db.movements, 1)
	m := db.movements[0]
	assert.Equal(t, entity.MovementTypeRecepcion, m.Type)
	assert.Equal(t, entity.BucketStoreroom, m.Bucket)
	assert.True(t, m.Quantity.Equal(dec("30")))
	assert.True(t, m.TotalCost.Equal(dec("75")))
}

// Recepción sobre existencias: 10 und a costo 4 + 10 und a costo 6 deja el
// costo promedio en 5.
func TestRegisterMovement_RecepcionPromediaCosto(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Cost: dec("4"), Active: true}
	db.inventory[invKey{"prod-1", movStoreID}] = entity.InventoryRecord{
		ProductID: "prod-1", StoreID: movStoreID, StoreroomQty: dec("6"), FloorQty: dec("4"),
	}

	rec, err := uc.RegisterMovement(context.Background(), movOperator, dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeRecepcion,
		Quantity:  dec("10"),
		UnitCost:  decp("6"),
	})
	require.NoError(t, err)

	assert.True(t, rec.StoreroomQty.Equal(dec("16")))
	assert.True(t, db.products["prod-1"].Cost.Equal(dec("5")),
		"(10×4 + 10×6) / 20 = 5, obtuvo %s", db.products["prod-1"].Cost)
}

// Reposición: traslada de bodega a piso y deja dos movimientos atados al
// mismo TransactionID.
func TestRegisterMovement_ReposicionTrasladaAPiso(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Active: true}
	db.inventory[invKey{"prod-1", movStoreID}] = entity.InventoryRecord{
		ProductID: "prod-1", StoreID: movStoreID, StoreroomQty: dec("10"), FloorQty: dec("2"),
	}

	rec, err := uc.RegisterMovement(context.Background(), movOperator, dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeReposicion,
		Quantity:  dec("4"),
	})
	require.NoError(t, err)

	assert.True(t, rec.StoreroomQty.Equal(dec("6")))
	assert.True(t, rec.FloorQty.Equal(dec("6")))

	require.Len(t, db.movements, 2)
	assert.Equal(t, db.movements[0].TransactionID, db.movements[1].TransactionID)
	assert.Equal(t, entity.BucketStoreroom, db.movements[0].Bucket)
	assert.True(t, db.movements[0].Quantity.Equal(dec("-4")))
	assert.Equal(t, entity.BucketFloor, db.movements[1].Bucket)
	assert.True(t, db.movements[1].Quantity.Equal(dec("4")))
}

// Reposición sin saldo en bodega: error de faltante y nada cambia.
func TestRegisterMovement_ReposicionSinSaldo(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Active: true}
	db.inventory[invKey{"prod-1", movStoreID}] = entity.InventoryRecord{
		ProductID: "prod-1", StoreID: movStoreID, StoreroomQty: dec("3"), FloorQty: dec("2"),
	}

	_, err := uc.RegisterMovement(context.Background(), movOperator, dto.RegisterMovementRequest{
		ProductID: "prod-1",
		Type:      entity.MovementTypeReposicion,
		Quantity:  dec("5"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.True(t, shortage.Required.Equal(dec("5")))
	assert.True(t, shortage.Available.Equal(dec("3")))

	rec := db.inventory[invKey{"prod-1", movStoreID}]
	assert.True(t, rec.StoreroomQty.Equal(dec("3")))
	assert.True(t, rec.FloorQty.Equal(dec("2")))
	assert.Empty(t, db.movements)
}

// Ajuste con signo sobre un bucket; nunca deja saldo negativo.
func TestRegisterMovement_Ajuste(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Active: true}
	db.inventory[invKey{"prod-1", movStoreID}] = entity.InventoryRecord{
		ProductID: "prod-1", StoreID: movStoreID, StoreroomQty: dec("10"), FloorQty: dec("2"),
	}
	ctx := context.Background()

	t.Run("negativo sobre piso", func(t *testing.T) {
		rec, err := uc.RegisterMovement(ctx, movOperator, dto.RegisterMovementRequest{
			ProductID: "prod-1",
			Type:      entity.MovementTypeAjuste,
			Bucket:    entity.BucketFloor,
			Quantity:  dec("-2"),
		})
		require.NoError(t, err)
		assert.True(t, rec.FloorQty.IsZero())
	})

	t.Run("positivo sobre bodega", func(t *testing.T) {
		rec, err := uc.RegisterMovement(ctx, movOperator, dto.RegisterMovementRequest{
			ProductID: "prod-1",
			Type:      entity.MovementTypeAjuste,
			Bucket:    entity.BucketStoreroom,
			Quantity:  dec("1.5"),
		})
		require.NoError(t, err)
		assert.True(t, rec.StoreroomQty.Equal(dec("11.5")))
	})

	t.Run("no puede dejar saldo negativo", func(t *testing.T) {
		_, err := uc.RegisterMovement(ctx, movOperator, dto.RegisterMovementRequest{
			ProductID: "prod-1",
			Type:      entity.MovementTypeAjuste,
			Bucket:    entity.BucketFloor,
			Quantity:  dec("-50"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRegisterMovement_Invalidos(t *testing.T) {
	db, uc := newMovEnv(t)
	db.products["prod-1"] = entity.Product{ID: "prod-1", Name: "Harina 1kg", Active: true}
	ctx := context.Background()

	casos := []struct {
		nombre string
		req    dto.RegisterMovementRequest
		want   error
	}{
		{"tipo desconocido", dto.RegisterMovementRequest{ProductID: "prod-1", Type: "DONACION", Quantity: dec("1")}, domain.ErrInvalidInput},
		{"recepción sin costo", dto.RegisterMovementRequest{ProductID: "prod-1", Type: entity.MovementTypeRecepcion, Quantity: dec("1")}, domain.ErrInvalidInput},
		{"recepción cantidad cero", dto.RegisterMovementRequest{ProductID: "prod-1", Type: entity.MovementTypeRecepcion, Quantity: dec("0"), UnitCost: decp("1")}, domain.ErrInvalidInput},
		{"ajuste sin bucket", dto.RegisterMovementRequest{ProductID: "prod-1", Type: entity.MovementTypeAjuste, Quantity: dec("1")}, domain.ErrInvalidInput},
		{"ajuste cantidad cero", dto.RegisterMovementRequest{ProductID: "prod-1", Type: entity.MovementTypeAjuste, Bucket: entity.BucketFloor, Quantity: dec("0")}, domain.ErrInvalidInput},
		{"producto inexistente", dto.RegisterMovementRequest{ProductID: "nope", Type: entity.MovementTypeRecepcion, Quantity: dec("1"), UnitCost: decp("1")}, domain.ErrNotFound},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.RegisterMovement(ctx, movOperator, c.req)
			assert.ErrorIs(t, err, c.want)
		})
	}

	t.Run("operador sin tienda", func(t *testing.T) {
		db.users["sin-tienda"] = entity.User{ID: "sin-tienda", Role: entity.RoleCajero, Status: "active"}
		_, err := uc.RegisterMovement(ctx, "sin-tienda", dto.RegisterMovementRequest{
			ProductID: "prod-1", Type: entity.MovementTypeReposicion, Quantity: dec("1"),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
