package dto

// CreateStoreRequest body para POST /api/stores.
type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// StoreResponse tienda en respuestas.
type StoreResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Active  bool   `json:"active"`
}
