package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

var _ repository.AssemblyOfferRepository = (*AssemblyOfferRepo)(nil)

// AssemblyOfferRepo implementación de AssemblyOfferRepository sobre
// PostgreSQL. La oferta y su lista de materiales viven en dos tablas
// (assembly_offers, offer_materials) y se insertan juntas.
type AssemblyOfferRepo struct {
	q Querier
}

// NewAssemblyOfferRepository construye el adaptador. Acepta pool o tx (Querier).
func NewAssemblyOfferRepository(q Querier) *AssemblyOfferRepo {
	return &AssemblyOfferRepo{q: q}
}

// Create persiste la oferta junto con sus materiales.
func (r *AssemblyOfferRepo) Create(offer *entity.AssemblyOffer) error {
	query := `
		INSERT INTO assembly_offers (id, store_id, name, price, unit, batch_quantity, active, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		offer.ID, offer.StoreID, offer.Name, offer.Price, offer.Unit,
		offer.BatchQuantity, offer.Active, offer.CreatedAt, offer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert assembly offer: %w", err)
	}
	for _, m := range offer.Materials {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO offer_materials (id, offer_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			m.ID, m.OfferID, m.ProductID, m.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert offer material: %w", err)
		}
	}
	return nil
}

const offerColumns = `id, COALESCE(store_id, ''), name, price, unit, batch_quantity, active, created_at, updated_at`

// GetWithMaterials carga la oferta y su lista de materiales completa.
func (r *AssemblyOfferRepo) GetWithMaterials(id string) (*entity.AssemblyOffer, error) {
	var o entity.AssemblyOffer
	err := r.q.QueryRow(context.Background(),
		`SELECT `+offerColumns+` FROM assembly_offers WHERE id = $1`, id).Scan(
		&o.ID, &o.StoreID, &o.Name, &o.Price, &o.Unit, &o.BatchQuantity, &o.Active, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assembly offer: %w", err)
	}

	rows, err := r.q.Query(context.Background(),
		`SELECT id, offer_id, product_id, quantity FROM offer_materials WHERE offer_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list offer materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.BillOfMaterial
		if err := rows.Scan(&m.ID, &m.OfferID, &m.ProductID, &m.Quantity); err != nil {
			return nil, fmt.Errorf("scan offer material: %w", err)
		}
		o.Materials = append(o.Materials, &m)
	}
	return &o, rows.Err()
}

// ListForStore lista ofertas activas visibles en una tienda: propias más
// globales (store_id NULL). Sin materiales; se cargan al consultar una.
func (r *AssemblyOfferRepo) ListForStore(storeID string, limit, offset int) ([]*entity.AssemblyOffer, error) {
	query := `
		SELECT ` + offerColumns + ` FROM assembly_offers
		WHERE active AND (store_id IS NULL OR store_id = $1)
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assembly offers: %w", err)
	}
	defer rows.Close()
	var list []*entity.AssemblyOffer
	for rows.Next() {
		var o entity.AssemblyOffer
		if err := rows.Scan(&o.ID, &o.StoreID, &o.Name, &o.Price, &o.Unit, &o.BatchQuantity,
			&o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assembly offer: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Update actualiza la cabecera de la oferta. Los materiales no se editan:
// una receta distinta es una oferta nueva.
func (r *AssemblyOfferRepo) Update(offer *entity.AssemblyOffer) error {
	query := `
		UPDATE assembly_offers SET name = $2, price = $3, unit = $4, batch_quantity = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		offer.ID, offer.Name, offer.Price, offer.Unit, offer.BatchQuantity, offer.Active, offer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update assembly offer: %w", err)
	}
	return nil
}
