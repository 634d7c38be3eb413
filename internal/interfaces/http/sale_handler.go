package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PosVenta-api/internal/application/dto"
	"github.com/jhoicas/PosVenta-api/internal/application/sale"
	"github.com/jhoicas/PosVenta-api/internal/domain"
)

// SaleHandler maneja el registro y consulta de ventas del POS.
type SaleHandler struct {
	process *sale.ProcessSaleUseCase
	receipt *sale.ReceiptUseCase
	revenue *sale.RevenueUseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(process *sale.ProcessSaleUseCase, receipt *sale.ReceiptUseCase, revenue *sale.RevenueUseCase) *SaleHandler {
	return &SaleHandler{process: process, receipt: receipt, revenue: revenue}
}

// Create godoc
// @Summary      Registrar una venta
// @Description  Valida el carrito completo contra inventario y confirma la
// @Description  venta de forma atómica para la tienda del operador.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "líneas, cliente, pago"
// @Success      201   {object}  dto.SaleReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Security     BearerAuth
// @Router       /api/pos/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	receipt, err := h.process.ProcessSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return saleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// GetByID godoc
// @Summary      Consultar una venta
// @Tags         pos
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/pos/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	receipt, err := h.receipt.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(receipt)
}

// GetPDF godoc
// @Summary      Recibo de venta en PDF
// @Tags         pos
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/pos/sales/{id}/pdf [get]
func (h *SaleHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.receipt.GetSalePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return saleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo.pdf"`)
	return c.Send(pdfBytes)
}

// GetDailyRevenue godoc
// @Summary      Ingreso acumulado del día
// @Description  Total de ventas registradas por el ledger para la tienda
// @Description  del operador. Sin ventas el acumulado es cero.
// @Tags         pos
// @Produce      json
// @Param        date  query  string  false  "día a consultar (2006-01-02; por defecto hoy)"
// @Success      200   {object}  dto.DailyRevenueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/pos/revenue [get]
func (h *SaleHandler) GetDailyRevenue(c *fiber.Ctx) error {
	day := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe tener formato 2006-01-02"})
		}
		day = parsed
	}
	out, err := h.revenue.GetDay(c.UserContext(), GetUserID(c), day)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// saleError mapea errores del motor de ventas a códigos HTTP. El faltante de
// stock viaja como 409 con el detalle (producto, requerido, disponible) en
// el mensaje para que el cajero sepa qué ajustar.
func saleError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	switch {
	case errors.As(err, &shortage):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: shortage.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "operador no reconocido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operador sin tienda asignada"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto, oferta o venta no encontrada"})
	case errors.Is(err, domain.ErrTransactionFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TRANSACTION_FAILED", Message: "la venta no pudo confirmarse; no se aplicó ningún cambio"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
