package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/usecase"
)

// CustomerHandler maneja el directorio de clientes.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Description  El teléfono debe ser único entre los clientes activos.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "teléfono en uso"
// @Security     BearerAuth
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Consultar cliente
// @Tags         customers
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar clientes
// @Description  Busca por nombre o teléfono ignorando acentos: "Perez"
// @Description  encuentra a "Pérez".
// @Tags         customers
// @Produce      json
// @Param        q       query  string  false  "texto a buscar"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200     {array}  dto.CustomerResponse
// @Security     BearerAuth
// @Router       /api/customers [get]
func (h *CustomerHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.Query("q"), parsePage(c))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente
// @Description  Libera el teléfono para que otro cliente pueda usarlo.
// @Tags         customers
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id")); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
