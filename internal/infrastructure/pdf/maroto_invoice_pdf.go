// Package pdf implementa la representación en PDF de una factura con
// Maroto v2. El layout es fijo y de una sola pasada, de arriba hacia abajo:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  INVOICE #1000  (banda azul)                                │
//	│  From: empresa / dirección / email        Date: YYYY-MM-DD  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Bill To: cliente + dirección + email                       │
//	│  TABLA: Description | Qty | Unit Price | Total              │
//	│                                    Subtotal: $x.yz          │
//	│  ── (divisor entre clientes, no después del último) ──      │
//	│  TOTAL AMOUNT: $x.yz  (banda azul, total almacenado)        │
//	│  Thank you for your business!                               │
//	└─────────────────────────────────────────────────────────────┘
//
// El total de la banda final es el total_amount guardado, no la suma de las
// líneas: pueden divergir y el PDF los reproduce tal cual.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-manager/internal/application/invoicing"
	"github.com/jhoicas/invoice-manager/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 51, Green: 51, Blue: 153}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDarkGray  = &props.Color{Red: 77, Green: 77, Blue: 77}
	colorGray      = &props.Color{Red: 128, Green: 128, Blue: 128}
	colorRule      = &props.Color{Red: 180, Green: 180, Blue: 180}
	colorRuleSoft  = &props.Color{Red: 200, Green: 200, Blue: 200}
	colorTableHead = &props.Color{Red: 230, Green: 230, Blue: 230}
	colorTableRow  = &props.Color{Red: 250, Green: 250, Blue: 250}
)

// Las descripciones más largas de 45 caracteres se imprimen truncadas a 42
// más elipsis. Solo afecta al PDF, nunca a lo almacenado.
const (
	descriptionMax  = 45
	descriptionTrim = 42
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ invoicing.InvoicePDFGenerator = (*MarotoInvoicePDF)(nil)

// MarotoInvoicePDF implementa invoicing.InvoicePDFGenerator usando Maroto v2.
type MarotoInvoicePDF struct{}

// NewMarotoInvoicePDF construye el generador.
func NewMarotoInvoicePDF() *MarotoInvoicePDF { return &MarotoInvoicePDF{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. No muta el
// agregado; el mismo agregado produce siempre el mismo layout (el salto de
// página lo maneja Maroto automáticamente con el margen inferior fijo).
func (g *MarotoInvoicePDF) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Invoice #%d", invoice.Number), true).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(footerRow()); err != nil {
		return nil, fmt.Errorf("pdf: registrar footer: %w", err)
	}

	// Banda de título + bloque del emisor
	m.AddRows(titleRow(invoice))
	m.AddRows(fromRows(invoice)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorRule, Thickness: 0.4}))

	// Un bloque por cliente, en orden de almacenamiento
	for i, cust := range invoice.Customers {
		m.AddRows(billToRows(&cust)...)
		if len(cust.Items) > 0 {
			m.AddRows(itemsTableRows(cust.Items)...)
			m.AddRows(subtotalRow(cust.Items))
		}
		if i < len(invoice.Customers)-1 {
			m.AddRows(line.NewRow(4, props.Line{Color: colorRuleSoft, Thickness: 0.3}))
		}
	}

	// Banda de total: el total_amount almacenado, sin recalcular
	m.AddRows(row.New(3))
	m.AddRows(totalRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: "INVOICE #<n>" en blanco sobre banda azul.
func titleRow(invoice *entity.Invoice) core.Row {
	return row.New(12).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("INVOICE #%d", invoice.Number), props.Text{
				Style: fontstyle.Bold, Size: 24, Color: colorWhite, Top: 1, Left: 2,
			}),
		),
	)
}

// fromRows: bloque del emisor con la fecha alineada a la derecha en la
// misma línea del "From:".
func fromRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(
			col.New(7).Add(
				text.New("From:", props.Text{Style: fontstyle.Bold, Size: 12}),
			),
			col.New(5).Add(
				text.New("Date: "+nonEmpty(invoice.CreationDate, "N/A"), props.Text{
					Style: fontstyle.Bold, Size: 10, Align: align.Right,
				}),
			),
		),
		row.New(5).Add(col.New(12).Add(
			text.New(nonEmpty(invoice.CompanyName, "N/A"), props.Text{Size: 10}),
		)),
	}
	if invoice.CompanyAddress != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(invoice.CompanyAddress, props.Text{Size: 10}),
		)))
	}
	if invoice.CompanyEmail != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(invoice.CompanyEmail, props.Text{Size: 10}),
		)))
	}
	return rows
}

// billToRows: cabecera "Bill To" con nombre, dirección y email del cliente.
func billToRows(cust *entity.Customer) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Bill To: "+nonEmpty(cust.Name, "N/A"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorDarkGray,
			}),
		)),
	}
	if cust.Address != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(cust.Address, props.Text{Size: 9}),
		)))
	}
	if cust.Email != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(cust.Email, props.Text{Size: 9}),
		)))
	}
	return rows
}

// itemsTableRows: cabecera gris + una fila por línea, con bordes completos.
func itemsTableRows(items []entity.Item) []core.Row {
	head := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Top: 1, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{
			BackgroundColor: colorTableHead, BorderType: border.Full, BorderColor: colorRule,
		})
	}
	cell := func(value string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 9, Align: a, Top: 1, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{
			BackgroundColor: colorTableRow, BorderType: border.Full, BorderColor: colorRule,
		})
	}

	rows := []core.Row{
		row.New(6).Add(
			head("Description", 7, align.Left),
			head("Qty", 1, align.Center),
			head("Unit Price", 2, align.Right),
			head("Total", 2, align.Right),
		),
	}
	for _, it := range items {
		rows = append(rows, row.New(6).Add(
			cell(truncateDescription(it.Description), 7, align.Left),
			cell(fmt.Sprintf("%d", it.Quantity), 1, align.Center),
			cell(money(it.UnitPrice), 2, align.Right),
			cell(money(lineTotal(it)), 2, align.Right),
		))
	}
	return rows
}

// subtotalRow: suma de los totales de línea del cliente.
func subtotalRow(items []entity.Item) core.Row {
	return row.New(6).Add(
		col.New(10).Add(text.New("Subtotal:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2,
		})),
		col.New(2).Add(text.New(money(subtotal(items)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1,
		})),
	)
}

// totalRow: banda azul con el total almacenado de la factura.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(10).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		col.New(10).Add(text.New("TOTAL AMOUNT:", props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Right,
			Color: colorWhite, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(money(invoice.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Right,
			Color: colorWhite, Top: 2, Right: 1,
		})),
	)
}

// footerRow: cortesía fija, centrada y en gris.
func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Thank you for your business!", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 4,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncateDescription corta descripciones largas para que quepan en la
// columna: más de 45 caracteres → primeros 42 más "...".
func truncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= descriptionMax {
		return s
	}
	return string(r[:descriptionTrim]) + "..."
}

// money formatea un monto como moneda con dos decimales.
func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// lineTotal calcula cantidad × precio unitario de una línea.
func lineTotal(it entity.Item) decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// subtotal suma los totales de línea de un cliente.
func subtotal(items []entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineTotal(it))
	}
	return total
}
