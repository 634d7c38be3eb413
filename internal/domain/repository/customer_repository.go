package repository

import "github.com/jhoicas/PosVenta-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
// La unicidad de Phone entre clientes activos la garantiza el storage
// (índice único parcial): Create devuelve ErrDuplicate en violación y el
// resolver de clientes la trata como "ya existe, volver a buscar".
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetActiveByPhone devuelve el cliente activo con ese teléfono o (nil, nil).
	GetActiveByPhone(phone string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
