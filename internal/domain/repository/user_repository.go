package repository

import "github.com/jhoicas/PosVenta-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (operadores).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
