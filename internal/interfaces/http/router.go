package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/invoice-manager/internal/application/auth"
	"github.com/jhoicas/invoice-manager/internal/application/invoicing"
)

// RouterDeps dependencias del router HTTP.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	InvoiceUC *invoicing.InvoiceUseCase
	PDFUC     *invoicing.PDFUseCase
	JWTSecret string
}

// Router registra todas las rutas de la API bajo /api. Las rutas fijas
// (categorize, reset) se registran antes que las parametrizadas para que
// Fiber no las capture como :invoice_number.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)

	requireAuth := AuthMiddleware(deps.JWTSecret)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	invoices := api.Group("/invoices", requireAuth)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/categorize", invoiceHandler.Categorize)
	invoices.Post("/reset", invoiceHandler.Reset)
	invoices.Get("/:invoice_number/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:invoice_number", invoiceHandler.Get)
	invoices.Put("/:invoice_number", invoiceHandler.Replace)
	invoices.Delete("/:invoice_number", invoiceHandler.Delete)
}
