package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PosVenta-api/internal/domain"
	"github.com/jhoicas/PosVenta-api/internal/domain/entity"
	"github.com/jhoicas/PosVenta-api/internal/domain/repository"
)

// ResolveCustomer decide qué cliente asociar a una venta nueva, prefiriendo
// reutilizar sobre duplicar. Se ejecuta con repositorios atados a la
// transacción de la venta. En orden:
//
//  1. Teléfono con cliente activo -> se reutiliza.
//  2. Teléfono presente en una orden histórica -> se materializa un cliente
//     desde la foto de esa orden (los campos del request llenan los vacíos).
//  3. Solo nombre -> cliente nuevo con los datos del request.
//  4. Nada -> sin cliente; la orden queda solo con los campos desnormalizados.
//
// El índice único de teléfono es el árbitro final bajo concurrencia: si el
// insert choca (ErrDuplicate), el cliente ya existe y se vuelve a buscar.
func ResolveCustomer(
	customerRepo repository.CustomerRepository,
	orderRepo repository.SalesOrderRepository,
	name, phone, email string,
	now time.Time,
) (*entity.Customer, error) {
	if phone != "" {
		existing, err := customerRepo.GetActiveByPhone(phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		lastOrder, err := orderRepo.GetLatestByCustomerPhone(phone)
		if err != nil {
			return nil, err
		}
		if lastOrder != nil {
			customer := &entity.Customer{
				ID:        uuid.New().String(),
				Name:      lastOrder.CustomerName,
				Phone:     phone,
				Email:     lastOrder.CustomerEmail,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if customer.Name == "" {
				customer.Name = name
			}
			if customer.Email == "" {
				customer.Email = email
			}
			return insertOrRefetch(customerRepo, customer, phone)
		}
	}

	if name != "" {
		customer := &entity.Customer{
			ID:        uuid.New().String(),
			Name:      name,
			Phone:     phone,
			Email:     email,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if phone == "" {
			// Sin teléfono no hay llave natural que pueda chocar
			if err := customerRepo.Create(customer); err != nil {
				return nil, err
			}
			return customer, nil
		}
		return insertOrRefetch(customerRepo, customer, phone)
	}

	// Venta anónima
	return nil, nil
}

// insertOrRefetch inserta el cliente y, si el teléfono ya estaba registrado
// por una venta concurrente, recupera el existente en lugar de fallar.
func insertOrRefetch(customerRepo repository.CustomerRepository, customer *entity.Customer, phone string) (*entity.Customer, error) {
	err := customerRepo.Create(customer)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, err
	}
	existing, ferr := customerRepo.GetActiveByPhone(phone)
	if ferr != nil {
		return nil, ferr
	}
	if existing == nil {
		// Constraint reportó duplicado pero no hay cliente activo visible
		return nil, err
	}
	return existing, nil
}
