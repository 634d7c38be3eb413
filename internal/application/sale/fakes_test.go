package sale_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base de datos en memoria para los tests del motor de ventas.
// Los valores se guardan por copia para que el snapshot/restore del TxRunner
// falso reproduzca la semántica de rollback de una transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type invKey struct{ productID, storeID string }

type memDB struct {
	mu sync.Mutex
	// beforeTx corre al inicio de RunSale, para simular escrituras
	// concurrentes entre la validación y la transacción.
	beforeTx  func()
	users     map[string]entity.User
	stores    map[string]entity.Store
	products  map[string]entity.Product
	offers    map[string]entity.AssemblyOffer
	inventory map[invKey]entity.InventoryRecord
	customers map[string]entity.Customer
	orders    map[string]entity.SalesOrder
	items     []entity.SalesItem
	movements []entity.StockMovement
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]entity.User{},
		stores:    map[string]entity.Store{},
		products:  map[string]entity.Product{},
		offers:    map[string]entity.AssemblyOffer{},
		inventory: map[invKey]entity.InventoryRecord{},
		customers: map[string]entity.Customer{},
		orders:    map[string]entity.SalesOrder{},
	}
}

type memSnapshot struct {
	inventory map[invKey]entity.InventoryRecord
	customers map[string]entity.Customer
	orders    map[string]entity.SalesOrder
	items     []entity.SalesItem
	movements []entity.StockMovement
}

func (db *memDB) snapshot() memSnapshot {
	s := memSnapshot{
		inventory: make(map[invKey]entity.InventoryRecord, len(db.inventory)),
		customers: make(map[string]entity.Customer, len(db.customers)),
		orders:    make(map[string]entity.SalesOrder, len(db.orders)),
		items:     append([]entity.SalesItem(nil), db.items...),
		movements: append([]entity.StockMovement(nil), db.movements...),
	}
	for k, v := range db.inventory {
		s.inventory[k] = v
	}
	for k, v := range db.customers {
		s.customers[k] = v
	}
	for k, v := range db.orders {
		s.orders[k] = v
	}
	return s
}

func (db *memDB) restore(s memSnapshot) {
	db.inventory = s.inventory
	db.customers = s.customers
	db.orders = s.orders
	db.items = s.items
	db.movements = s.movements
}

// RunSale implementa sale.SaleTxRunner con semántica rollback-si-error.
func (db *memDB) RunSale(_ context.Context, fn func(
	customerRepo repository.CustomerRepository,
	orderRepo repository.SalesOrderRepository,
	invRepo repository.InventoryRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.beforeTx != nil {
		db.beforeTx()
	}
	snap := db.snapshot()
	if err := fn(&memCustomerRepo{db}, &memOrderRepo{db}, &memInventoryRepo{db}, &memMovementRepo{db}); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

var _ sale.SaleTxRunner = (*memDB)(nil)

// ── Repositorios falsos ───────────────────────────────────────────────────────

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) Create(u *entity.User) error { r.db.users[u.ID] = *u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := r.db.users[id]; ok {
		c := u
		return &c, nil
	}
	return nil, nil
}
func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.db.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

type memStoreRepo struct{ db *memDB }

func (r *memStoreRepo) Create(s *entity.Store) error { r.db.stores[s.ID] = *s; return nil }
func (r *memStoreRepo) GetByID(id string) (*entity.Store, error) {
	if s, ok := r.db.stores[id]; ok {
		c := s
		return &c, nil
	}
	return nil, nil
}
func (r *memStoreRepo) List(limit, offset int) ([]*entity.Store, error) { return nil, nil }
func (r *memStoreRepo) Update(s *entity.Store) error                    { r.db.stores[s.ID] = *s; return nil }

type memProductRepo struct{ db *memDB }

func (r *memProductRepo) Create(p *entity.Product) error { r.db.products[p.ID] = *p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.db.products[id]; ok {
		c := p
		return &c, nil
	}
	return nil, nil
}
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.db.products[p.ID] = *p; return nil }
func (r *memProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	p := r.db.products[id]
	p.Cost = cost
	r.db.products[id] = p
	return nil
}

type memOfferRepo struct{ db *memDB }

func (r *memOfferRepo) Create(o *entity.AssemblyOffer) error { r.db.offers[o.ID] = *o; return nil }
func (r *memOfferRepo) GetWithMaterials(id string) (*entity.AssemblyOffer, error) {
	if o, ok := r.db.offers[id]; ok {
		c := o
		return &c, nil
	}
	return nil, nil
}
func (r *memOfferRepo) ListForStore(storeID string, limit, offset int) ([]*entity.AssemblyOffer, error) {
	return nil, nil
}
func (r *memOfferRepo) Update(o *entity.AssemblyOffer) error { r.db.offers[o.ID] = *o; return nil }

type memInventoryRepo struct{ db *memDB }

func (r *memInventoryRepo) Get(productID, storeID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.db.inventory[invKey{productID, storeID}]; ok {
		c := rec
		return &c, nil
	}
	return nil, nil
}
func (r *memInventoryRepo) GetForUpdate(productID, storeID string) (*entity.InventoryRecord, error) {
	return r.Get(productID, storeID)
}
func (r *memInventoryRepo) Upsert(rec *entity.InventoryRecord) error {
	r.db.inventory[invKey{rec.ProductID, rec.StoreID}] = *rec
	return nil
}
func (r *memInventoryRepo) DecrementFloor(productID, storeID string, qty decimal.Decimal) (bool, error) {
	k := invKey{productID, storeID}
	rec, ok := r.db.inventory[k]
	if !ok || rec.FloorQty.LessThan(qty) {
		return false, nil
	}
	rec.FloorQty = rec.FloorQty.Sub(qty)
	r.db.inventory[k] = rec
	return true, nil
}
func (r *memInventoryRepo) DecrementStoreroom(productID, storeID string, qty decimal.Decimal) (bool, error) {
	k := invKey{productID, storeID}
	rec, ok := r.db.inventory[k]
	if !ok || rec.StoreroomQty.LessThan(qty) {
		return false, nil
	}
	rec.StoreroomQty = rec.StoreroomQty.Sub(qty)
	r.db.inventory[k] = rec
	return true, nil
}
func (r *memInventoryRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type memCustomerRepo struct{ db *memDB }

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	if c.Phone != "" {
		for _, ex := range r.db.customers {
			if ex.Active && ex.Phone == c.Phone {
				return domain.ErrDuplicate
			}
		}
	}
	r.db.customers[c.ID] = *c
	return nil
}
func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if c, ok := r.db.customers[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}
func (r *memCustomerRepo) GetActiveByPhone(phone string) (*entity.Customer, error) {
	for _, c := range r.db.customers {
		if c.Active && c.Phone == phone {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) { return nil, nil }
func (r *memCustomerRepo) Update(c *entity.Customer) error {
	r.db.customers[c.ID] = *c
	return nil
}

type memOrderRepo struct{ db *memDB }

func (r *memOrderRepo) Create(o *entity.SalesOrder) error {
	for _, ex := range r.db.orders {
		if ex.Number == o.Number {
			return domain.ErrDuplicate
		}
	}
	r.db.orders[o.ID] = *o
	return nil
}
func (r *memOrderRepo) CreateItem(it *entity.SalesItem) error {
	r.db.items = append(r.db.items, *it)
	return nil
}
func (r *memOrderRepo) CountByNumberPrefix(prefix string) (int64, error) {
	var n int64
	for _, o := range r.db.orders {
		if len(o.Number) >= len(prefix) && o.Number[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}
func (r *memOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	if o, ok := r.db.orders[id]; ok {
		c := o
		return &c, nil
	}
	return nil, nil
}
func (r *memOrderRepo) GetItemsByOrderID(orderID string) ([]*entity.SalesItem, error) {
	var out []*entity.SalesItem
	for i := range r.db.items {
		if r.db.items[i].OrderID == orderID {
			c := r.db.items[i]
			out = append(out, &c)
		}
	}
	return out, nil
}
func (r *memOrderRepo) GetLatestByCustomerPhone(phone string) (*entity.SalesOrder, error) {
	var latest *entity.SalesOrder
	for _, o := range r.db.orders {
		if o.CustomerPhone != phone {
			continue
		}
		c := o
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = &c
		}
	}
	return latest, nil
}
func (r *memOrderRepo) ListByStore(storeID string, limit, offset int) ([]*entity.SalesOrder, error) {
	return nil, nil
}

type memMovementRepo struct{ db *memDB }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.db.movements = append(r.db.movements, *m)
	return nil
}
func (r *memMovementRepo) ListByProduct(productID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}

// ── Ledger falso ──────────────────────────────────────────────────────────────

type ledgerEntry struct {
	storeID string
	day     time.Time
	amount  decimal.Decimal
}

// chanLedger entrega cada notificación por canal para que el test pueda
// esperar la goroutine post-commit sin carreras.
type chanLedger struct {
	entries chan ledgerEntry
	err     error
}

func newChanLedger() *chanLedger {
	return &chanLedger{entries: make(chan ledgerEntry, 8)}
}

func (l *chanLedger) RecordSale(_ context.Context, storeID string, day time.Time, amount decimal.Decimal) error {
	l.entries <- ledgerEntry{storeID: storeID, day: day, amount: amount}
	return l.err
}
