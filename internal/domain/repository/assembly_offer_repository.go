package repository

import "github.com/jhoicas/PosVenta-api/internal/domain/entity"

// AssemblyOfferRepository define el puerto de persistencia para ofertas
// armadas y su lista de materiales.
type AssemblyOfferRepository interface {
	// Create persiste la oferta junto con sus materiales.
	Create(offer *entity.AssemblyOffer) error
	// GetWithMaterials carga la oferta y su lista de materiales completa.
	// Devuelve (nil, nil) si no existe.
	GetWithMaterials(id string) (*entity.AssemblyOffer, error)
	// ListForStore lista ofertas activas visibles en una tienda
	// (propias de la tienda + globales).
	ListForStore(storeID string, limit, offset int) ([]*entity.AssemblyOffer, error)
	Update(offer *entity.AssemblyOffer) error
}
