package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorkLogUC    *worklog.WorkLogUseCase
	ReceivableUC *receivable.ReceivableUseCase
	PayableUC    *payable.PayableUseCase
	AccountingUC *accounting.AccountingUseCase
	ReportingUC  *reporting.ReportingUseCase
	StatementUC  *reporting.StatementUseCase
	JWTSecret    string
	JWTIssuer    string
	Logger       zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Tareas
	taskHandler := NewTaskHandler(deps.WorkLogUC, deps.PayableUC, log)
	tasks := api.Group("/tasks")
	tasks.Get("/:id", taskHandler.GetByID)
	tasks.Put("/:id/hours", taskHandler.UpdateHours)
	tasks.Get("/:id/paid-status", taskHandler.PaidStatus)

	// Cuentas por cobrar
	invoiceHandler := NewInvoiceHandler(deps.ReceivableUC, deps.StatementUC, log)
	invoices := api.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/tasks", invoiceHandler.Tasks)
	invoices.Get("/:id/payments", invoiceHandler.Payments)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	paymentHandler := NewPaymentHandler(deps.ReceivableUC, log)
	payments := api.Group("/payments")
	payments.Post("/", paymentHandler.Record)
	payments.Put("/:id/evidence", paymentHandler.AttachEvidence)

	// Cuentas por pagar
	voucherHandler := NewVoucherHandler(deps.PayableUC, deps.StatementUC, log)
	vouchers := api.Group("/vouchers")
	vouchers.Post("/", voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.GetByID)
	vouchers.Get("/:id/pdf", voucherHandler.PDF)
	vouchers.Post("/:id/payments", voucherHandler.Pay)
	api.Get("/developer-payments", voucherHandler.DeveloperPayments)

	// Diario contable (líder o super_admin; el caso de uso restringe el resto)
	accountingHandler := NewAccountingHandler(deps.AccountingUC, log)
	acc := api.Group("/accounting", RequireRole(entity.RoleProjectLead))
	acc.Get("/entries", accountingHandler.Entries)
	acc.Get("/summary", accountingHandler.Summary)
	acc.Get("/export", accountingHandler.Export)
	acc.Get("/verify", RequireRole(), accountingHandler.Verify)
	acc.Post("/backfill", RequireRole(), accountingHandler.Backfill)
	acc.Post("/reversals", RequireRole(), accountingHandler.Reverse)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportingUC, log)
	reports := api.Group("/reports")
	reports.Get("/work-summary", reportHandler.WorkSummary)
	reports.Get("/earnings", reportHandler.Earnings)
	reports.Get("/task-board", reportHandler.TaskBoard)
	reports.Get("/dashboard", reportHandler.Dashboard)
}
