package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-intake/internal/application/auth"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	IntakeUC   *usecase.IntakeUseCase
	InvoiceUC  *usecase.InvoiceUseCase
	WebhookUC  *usecase.WebhookUseCase
	WhatsAppUC *usecase.WhatsAppUseCase
	StatsUC    *usecase.StatsUseCase
	ExportUC   *usecase.ExportUseCase
	AuthUC     *auth.UseCase

	WhatsAppVerifyToken string
	JWTSecret           string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Carga de facturas (público: lo consume el frontend de ingesta)
	uploadGroup := api.Group("/upload")
	uploadHandler := NewUploadHandler(deps.IntakeUC)
	uploadGroup.Post("/", uploadHandler.Upload)
	uploadGroup.Get("/status/:invoiceId", uploadHandler.Status)
	uploadGroup.Post("/retry/:invoiceId", uploadHandler.Retry)

	// Facturas
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	statsHandler := NewStatsHandler(deps.StatsUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/stats/overview", statsHandler.Overview) // antes de /:id
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/validate", invoiceHandler.Validate)
	invoices.Put("/:id/data", invoiceHandler.UpdateData)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Webhooks (público: los llaman n8n y WhatsApp Business)
	webhooks := api.Group("/webhooks")
	webhookHandler := NewWebhookHandler(deps.WebhookUC, deps.IntakeUC, deps.WhatsAppVerifyToken)
	webhooks.Post("/n8n-callback", webhookHandler.N8NCallback)
	webhooks.Post("/whatsapp-callback", webhookHandler.WhatsAppCallback)
	webhooks.Post("/whatsapp-message", webhookHandler.WhatsAppMessage)
	webhooks.Get("/whatsapp-verify", webhookHandler.WhatsAppVerify)
	webhooks.Post("/email-inbound", webhookHandler.EmailInbound)

	// Grupos de WhatsApp
	whatsapp := api.Group("/whatsapp")
	whatsappHandler := NewWhatsAppHandler(deps.WhatsAppUC, deps.StatsUC)
	whatsapp.Post("/groups", whatsappHandler.Connect)
	whatsapp.Get("/groups", whatsappHandler.List)
	whatsapp.Get("/groups/:groupId", whatsappHandler.GetByID)
	whatsapp.Put("/groups/:groupId", whatsappHandler.Update)
	whatsapp.Delete("/groups/:groupId", whatsappHandler.Disconnect)
	whatsapp.Get("/groups/:groupId/stats", whatsappHandler.Stats)
	whatsapp.Post("/groups/:groupId/test", whatsappHandler.TestMessage)
	whatsapp.Get("/groups/:groupId/invoices", whatsappHandler.RecentInvoices)

	// Exportación (protegido: requiere Bearer Token)
	exports := api.Group("/export", AuthMiddleware(deps.JWTSecret))
	exportHandler := NewExportHandler(deps.ExportUC)
	exports.Get("/xml", exportHandler.XML)
	exports.Get("/csv", exportHandler.CSV)
	exports.Get("/pdf", exportHandler.PDF)
}
