package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrTransactionFailed  = errors.New("la transacción de venta falló")
)

// StockShortageError detalla un faltante de inventario: qué producto (y
// oferta, si la línea era un combo), cuánto se necesitaba y cuánto había.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type StockShortageError struct {
	ProductID   string
	ProductName string
	OfferName   string // vacío si la línea era un producto simple
	Required    decimal.Decimal
	Available   decimal.Decimal
}

func (e *StockShortageError) Error() string {
	if e.OfferName != "" {
		return fmt.Sprintf("stock insuficiente para la oferta %q: producto %q requiere %s y hay %s",
			e.OfferName, e.ProductName, e.Required.String(), e.Available.String())
	}
	return fmt.Sprintf("stock insuficiente para %q: requiere %s y hay %s",
		e.ProductName, e.Required.String(), e.Available.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }
