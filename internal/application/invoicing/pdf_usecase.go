package invoicing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-manager/internal/domain"
	"github.com/jhoicas/invoice-manager/internal/domain/repository"
)

// PDFUseCase genera el documento PDF de una factura: carga el agregado
// completo del Store y se lo entrega al renderizador.
type PDFUseCase struct {
	repo      repository.InvoiceRepository
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repo: repo, generator: generator}
}

// DownloadInvoicePDF recupera el agregado por (usuario, número) y genera el
// PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe para ese usuario
//     (una factura ajena se reporta igual que una inexistente).
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID string, number int) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.repo.GetByNumber(ctx, userID, number)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if err := loadAggregate(ctx, uc.repo, inv); err != nil {
		return nil, "", fmt.Errorf("pdf: cargar agregado: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("invoice_%d.pdf", inv.Number)
	return pdfBytes, filename, nil
}
