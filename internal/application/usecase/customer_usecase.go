package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
	"github.com/jhoicas/PosVenta-api/pkg/normalize"
)

// CustomerUseCase casos de uso CRUD y búsqueda de clientes. El alta por
// teléfono durante la venta la hace el motor de ventas; acá vive la gestión
// manual desde el mostrador.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create registra un cliente. El teléfono, si viene, debe estar libre entre
// los clientes activos.
func (uc *CustomerUseCase) Create(in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Phone != "" {
		existing, err := uc.repo.GetActiveByPhone(in.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// Search filtra la página de clientes por nombre o teléfono. La comparación
// de nombre ignora tildes y mayúsculas ("Perez" encuentra a "Pérez").
func (uc *CustomerUseCase) Search(query string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		if query != "" && !normalize.Matches(c.Name, query) && !normalize.Matches(c.Phone, query) {
			continue
		}
		items = append(items, toCustomerResponse(c))
	}
	return items, nil
}

// Deactivate da de baja un cliente; su teléfono queda libre para reuso.
func (uc *CustomerUseCase) Deactivate(id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	customer.Active = false
	customer.UpdatedAt = time.Now()
	return uc.repo.Update(customer)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Active:  c.Active,
	}
}
