package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/invoice-manager/internal/application/dto"
	"github.com/jhoicas/invoice-manager/internal/application/invoicing"
	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/rs/zerolog/log"
)

// InvoiceHandler expone el agregado de facturación sobre HTTP. Cada handler
// resuelve el user_id del middleware de auth; nunca confía en IDs del body.
type InvoiceHandler struct {
	uc    *invoicing.InvoiceUseCase
	pdfUC *invoicing.PDFUseCase
}

// NewInvoiceHandler construye el handler de facturas.
func NewInvoiceHandler(uc *invoicing.InvoiceUseCase, pdfUC *invoicing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC}
}

// List devuelve todas las facturas del usuario con clientes y líneas.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.List(c.Context(), GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("listar facturas")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudieron cargar las facturas"})
	}
	return c.JSON(invoices)
}

// Create persiste un agregado nuevo y responde el número asignado.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	number, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la factura no puede estar vacía"})
		}
		if errors.Is(err, domain.ErrInvoiceNumberConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "ya existe una factura con ese número"})
		}
		log.Error().Err(err).Msg("crear factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo crear la factura"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateInvoiceResponse{Success: true, InvoiceNumber: number})
}

// Get devuelve una factura por número.
// GET /api/invoices/:invoice_number
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	number, ok := invoiceNumberParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de factura inválido"})
	}
	inv, err := h.uc.Get(c.Context(), GetUserID(c), number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		log.Error().Err(err).Int("invoice_number", number).Msg("obtener factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo cargar la factura"})
	}
	return c.JSON(inv)
}

// Replace reemplaza el agregado completo de una factura existente.
// PUT /api/invoices/:invoice_number
func (h *InvoiceHandler) Replace(c *fiber.Ctx) error {
	number, ok := invoiceNumberParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de factura inválido"})
	}
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Replace(c.Context(), GetUserID(c), number, in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		log.Error().Err(err).Int("invoice_number", number).Msg("actualizar factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo actualizar la factura"})
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Invoice updated successfully"})
}

// Delete elimina la factura con sus clientes y líneas.
// DELETE /api/invoices/:invoice_number
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	number, ok := invoiceNumberParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de factura inválido"})
	}
	if err := h.uc.Delete(c.Context(), GetUserID(c), number); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		log.Error().Err(err).Int("invoice_number", number).Msg("eliminar factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo eliminar la factura"})
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Invoice deleted successfully"})
}

// Categorize agrupa las facturas del usuario por período (day|month|year).
// GET /api/invoices/categorize?period=month
func (h *InvoiceHandler) Categorize(c *fiber.Ctx) error {
	period := c.Query("period", invoicing.PeriodMonth)
	categorized, err := h.uc.Categorize(c.Context(), GetUserID(c), period)
	if err != nil {
		log.Error().Err(err).Str("period", period).Msg("categorizar facturas")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudieron categorizar las facturas"})
	}
	return c.JSON(categorized)
}

// Reset informa el último número de factura usado (o la línea base).
// POST /api/invoices/reset
func (h *InvoiceHandler) Reset(c *fiber.Ctx) error {
	last, err := h.uc.LastNumber(c.Context(), GetUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("consultar último número de factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo consultar la numeración"})
	}
	return c.JSON(dto.ResetResponse{Success: true, LastInvoiceNumber: last})
}

// DownloadPDF genera y descarga el PDF de la factura.
// GET /api/invoices/:invoice_number/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	number, ok := invoiceNumberParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de factura inválido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), GetUserID(c), number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		log.Error().Err(err).Int("invoice_number", number).Msg("generar PDF de factura")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdfBytes)
}

// invoiceNumberParam parsea :invoice_number; false si no es un entero positivo.
func invoiceNumberParam(c *fiber.Ctx) (int, bool) {
	number, err := strconv.Atoi(c.Params("invoice_number"))
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}
