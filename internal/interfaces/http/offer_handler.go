package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/usecase"
)

// OfferHandler maneja las ofertas armadas (combos con lista de materiales).
type OfferHandler struct {
	uc *usecase.OfferUseCase
}

func NewOfferHandler(uc *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear oferta armada
// @Description  Define el combo con su lista de materiales y el tamaño del
// @Description  lote. La receta es inmutable: un combo distinto es una
// @Description  oferta nueva.
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOfferRequest  true  "oferta y materiales"
// @Success      201   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "producto o tienda inexistente"
// @Security     BearerAuth
// @Router       /api/offers [post]
func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOfferRequest
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
// @Summary      Consultar oferta con materiales
// @Tags         offers
// @Produce      json
// @Param        id  path  string  true  "ID de la oferta"
// @Success      200  {object}  dto.OfferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/offers/{id} [get]
func (h *OfferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ofertas vigentes para la tienda del operador
// @Description  Incluye las ofertas globales y las propias de la tienda.
// @Tags         offers
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200     {array}  dto.OfferResponse
// @Security     BearerAuth
// @Router       /api/offers [get]
func (h *OfferHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListForStore(GetStoreID(c), parsePage(c))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Retirar una oferta
// @Tags         offers
// @Produce      json
// @Param        id  path  string  true  "ID de la oferta"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/offers/{id} [delete]
func (h *OfferHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id")); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
