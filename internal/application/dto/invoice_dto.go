package dto

import "github.com/shopspring/decimal"

// InvoiceRequest body para POST y PUT /api/invoices. El mismo esquema sirve
// para crear y para reemplazar: un reemplazo siempre es total (cabecera +
// todos los hijos), nunca un diff parcial.
type InvoiceRequest struct {
	InvoiceNumber  int               `json:"invoice_number,omitempty"` // opcional en POST; 0 = asignar por política
	CreationDate   string            `json:"creation_date"`
	CompanyName    string            `json:"company_name"`
	CompanyAddress string            `json:"company_address"`
	CompanyEmail   string            `json:"company_email"`
	TotalAmount    LooseDecimal      `json:"total_amount"`
	Customers      []CustomerRequest `json:"customers"`
}

// CustomerRequest cliente facturado con sus líneas.
type CustomerRequest struct {
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Email   string        `json:"email"`
	Items   []ItemRequest `json:"items"`
}

// ItemRequest línea de detalle. Quantity y UnitPrice aplican la política
// parse-o-default (1 y 0 respectivamente).
type ItemRequest struct {
	Description string        `json:"description"`
	Quantity    LooseQuantity `json:"quantity"`
	UnitPrice   LooseDecimal  `json:"unit_price"`
}

// InvoiceResponse agregado completo para GET /api/invoices.
type InvoiceResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  int                `json:"invoice_number"`
	CreationDate   string             `json:"creation_date"`
	CompanyName    string             `json:"company_name"`
	CompanyAddress string             `json:"company_address"`
	CompanyEmail   string             `json:"company_email"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Customers      []CustomerResponse `json:"customers"`
}

// CustomerResponse cliente con sus líneas en respuestas.
type CustomerResponse struct {
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Email   string         `json:"email"`
	Items   []ItemResponse `json:"items"`
}

// ItemResponse línea de detalle en respuestas.
type ItemResponse struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceResponse respuesta de POST /api/invoices.
type CreateInvoiceResponse struct {
	Success       bool `json:"success"`
	InvoiceNumber int  `json:"invoice_number"`
}

// ResetResponse respuesta de POST /api/invoices/reset: no borra nada, solo
// informa el último número usado por el usuario.
type ResetResponse struct {
	Success           bool `json:"success"`
	LastInvoiceNumber int  `json:"lastInvoiceNumber"`
}

// CategorizedInvoice factura en la vista categorizada: cabecera más los
// clientes reducidos a nombre, sin líneas.
type CategorizedInvoice struct {
	ID             string          `json:"id"`
	InvoiceNumber  int             `json:"invoice_number"`
	CreationDate   string          `json:"creation_date"`
	CompanyName    string          `json:"company_name"`
	CompanyAddress string          `json:"company_address"`
	CompanyEmail   string          `json:"company_email"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Customers      []CustomerName  `json:"customers"`
}

// CustomerName referencia mínima a un cliente.
type CustomerName struct {
	Name string `json:"name"`
}
