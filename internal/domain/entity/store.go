package entity

import "time"

// Store representa una tienda o punto de venta con inventario propio.
type Store struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category agrupa productos del catálogo (solo dato de referencia).
type Category struct {
	ID   string
	Name string
}
