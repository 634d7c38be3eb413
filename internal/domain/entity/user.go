package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleGerente = "gerente"
	RoleCajero  = "cajero"
)

// User representa un operador del sistema. StoreID es la tienda asignada:
// un cajero sin tienda asignada no puede registrar ventas.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, cajero
	StoreID      string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
