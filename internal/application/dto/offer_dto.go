package dto

import "github.com/shopspring/decimal"

// OfferMaterialRequest una entrada de la lista de materiales.
type OfferMaterialRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"` // por juego de materiales
}

// CreateOfferRequest body para POST /api/offers.
// StoreID vacío crea una oferta global.
type CreateOfferRequest struct {
	StoreID       string                 `json:"store_id,omitempty"`
	Name          string                 `json:"name"`
	Price         decimal.Decimal        `json:"price"`
	Unit          string                 `json:"unit,omitempty"`
	BatchQuantity decimal.Decimal        `json:"batch_quantity"`
	Materials     []OfferMaterialRequest `json:"materials"`
}

// OfferMaterialResponse entrada de materiales en respuestas.
type OfferMaterialResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// OfferResponse oferta armada en respuestas.
type OfferResponse struct {
	ID            string                  `json:"id"`
	StoreID       string                  `json:"store_id,omitempty"`
	Name          string                  `json:"name"`
	Price         decimal.Decimal         `json:"price"`
	Unit          string                  `json:"unit,omitempty"`
	BatchQuantity decimal.Decimal         `json:"batch_quantity"`
	Active        bool                    `json:"active"`
	Materials     []OfferMaterialResponse `json:"materials,omitempty"`
}
