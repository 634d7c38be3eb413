package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// OfferTxRunner ejecuta fn dentro de una transacción de BD con un
// repositorio de ofertas atado a ella. La cabecera y los materiales viven
// en dos tablas: sin transacción, un fallo a mitad de los materiales
// dejaría una oferta activa con receta truncada que descontaría de menos.
type OfferTxRunner interface {
	RunOffer(fn func(repo repository.AssemblyOfferRepository) error) error
}

// OfferUseCase casos de uso para ofertas armadas y su lista de materiales.
type OfferUseCase struct {
	txRunner    OfferTxRunner
	repo        repository.AssemblyOfferRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
}

// NewOfferUseCase construye el caso de uso.
func NewOfferUseCase(txRunner OfferTxRunner, repo repository.AssemblyOfferRepository, productRepo repository.ProductRepository, storeRepo repository.StoreRepository) *OfferUseCase {
	return &OfferUseCase{txRunner: txRunner, repo: repo, productRepo: productRepo, storeRepo: storeRepo}
}

// Create registra una oferta con su lista de materiales completa. Cada
// material debe referenciar un producto existente; BatchQuantity en 0 se
// normaliza a 1 (una unidad vendida = un juego de materiales).
func (uc *OfferUseCase) Create(in dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	if in.Name == "" || len(in.Materials) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.BatchQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.StoreID != "" {
		store, err := uc.storeRepo.GetByID(in.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, domain.ErrNotFound
		}
	}

	batch := in.BatchQuantity
	if batch.IsZero() {
		batch = decimal.NewFromInt(1)
	}
	now := time.Now()
	offer := &entity.AssemblyOffer{
		ID:            uuid.New().String(),
		StoreID:       in.StoreID,
		Name:          in.Name,
		Price:         in.Price,
		Unit:          in.Unit,
		BatchQuantity: batch,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, m := range in.Materials {
		if !m.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(m.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		offer.Materials = append(offer.Materials, &entity.BillOfMaterial{
			ID:        uuid.New().String(),
			OfferID:   offer.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
		})
	}
	err := uc.txRunner.RunOffer(func(repo repository.AssemblyOfferRepository) error {
		return repo.Create(offer)
	})
	if err != nil {
		return nil, err
	}
	return toOfferResponse(offer), nil
}

// GetByID obtiene una oferta con sus materiales.
func (uc *OfferUseCase) GetByID(id string) (*dto.OfferResponse, error) {
	offer, err := uc.repo.GetWithMaterials(id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.ErrNotFound
	}
	return toOfferResponse(offer), nil
}

// ListForStore lista las ofertas visibles en una tienda: las propias más
// las globales.
func (uc *OfferUseCase) ListForStore(storeID string, page dto.PageRequest) ([]*dto.OfferResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListForStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.OfferResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOfferResponse(o))
	}
	return items, nil
}

// Deactivate retira la oferta de la venta sin borrar su histórico.
func (uc *OfferUseCase) Deactivate(id string) error {
	offer, err := uc.repo.GetWithMaterials(id)
	if err != nil {
		return err
	}
	if offer == nil {
		return domain.ErrNotFound
	}
	offer.Active = false
	offer.UpdatedAt = time.Now()
	return uc.repo.Update(offer)
}

func toOfferResponse(o *entity.AssemblyOffer) *dto.OfferResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OfferResponse{
		ID:            o.ID,
		StoreID:       o.StoreID,
		Name:          o.Name,
		Price:         o.Price,
		Unit:          o.Unit,
		BatchQuantity: o.BatchQuantity,
		Active:        o.Active,
	}
	for _, m := range o.Materials {
		resp.Materials = append(resp.Materials, dto.OfferMaterialResponse{
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
		})
	}
	return resp
}
