package entity

import "time"

// Customer representa un cliente del punto de venta.
// Phone es único entre clientes activos; el resolver de clientes lo usa
// como llave natural para reutilizar registros en vez de duplicarlos.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
