package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/inventory"
	"github.com/jhoicas/PosVenta-api/internal/domain"
)

// InventoryHandler maneja los movimientos de inventario de la tienda del
// operador: recepciones, reposiciones de bodega a piso y ajustes.
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar un movimiento de inventario
// @Description  RECEPCION suma a bodega y recalcula el costo promedio.
// @Description  REPOSICION traslada de bodega a piso. AJUSTE corrige un
// @Description  balde puntual con cantidad firmada.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "saldo de bodega insuficiente"
// @Security     BearerAuth
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Existencias de la tienda del operador
// @Tags         inventory
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {array}  dto.InventoryRecordResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.uc.ListStock(c.UserContext(), GetUserID(c), parsePage(c))
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "tamaño de página"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200        {array}  dto.MovementResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/movements/{productId} [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.uc.ListMovements(c.UserContext(), GetUserID(c), c.Params("productId"), parsePage(c))
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(out)
}

func inventoryError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	switch {
	case errors.As(err, &shortage):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: shortage.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "operador no reconocido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operador sin tienda asignada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o inventario no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
