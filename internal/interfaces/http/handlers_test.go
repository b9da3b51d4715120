package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ProjectLedger-api/internal/application/accounting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/receivable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/memory"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ProjectLedger-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/ProjectLedger-api/internal/interfaces/http"
)

const (
	leadID  = "lead-1"
	ownerID = "owner-1"
	devID   = "dev-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

// newServer arma la API completa sobre el almacén en memoria.
func newServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	store.AddProject(entity.Project{ID: "p1", Name: "Portal", ProjectLeadID: leadID, ProjectOwnerID: ownerID, RatePerHour: decPtr("50")})
	store.AddAssignment(entity.DeveloperAssignment{ID: "a1", DeveloperID: devID, ProjectID: "p1", HourlyRate: dec("20")})
	store.AddTask(entity.Task{ID: "t1", ProjectID: "p1", Title: "Login", Status: entity.TaskStatusCompleted, EstimationHours: dec("6"), BillableHours: decPtr("4"), ProductivityHours: decPtr("5")}, devID)
	store.AddTask(entity.Task{ID: "t2", ProjectID: "p1", Title: "Pagos", Status: entity.TaskStatusInProgress, EstimationHours: dec("8")}, devID)

	log := zerolog.Nop()
	tx := memory.NewTxRunner(store)
	repos := reporting.Repos{
		Projects:    store.Projects(),
		Assignments: store.Assignments(),
		Tasks:       store.Tasks(),
		Timesheets:  store.Timesheets(),
		Invoices:    store.Invoices(),
		Vouchers:    store.Vouchers(),
		Ledger:      store.Ledger(),
	}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		WorkLogUC:    worklog.NewWorkLogUseCase(tx, store.Tasks(), store.Projects(), store.Assignments(), store.Timesheets(), log),
		ReceivableUC: receivable.NewReceivableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Timesheets(), store.Invoices(), receivable.Config{}, log),
		PayableUC:    payable.NewPayableUseCase(tx, store.Projects(), store.Assignments(), store.Tasks(), store.Vouchers(), payable.Config{}, log),
		AccountingUC: accounting.NewAccountingUseCase(tx, store.Ledger(), store.Invoices(), store.Vouchers(), store.Projects(), store.Assignments(), xlsx.NewLedgerExporter(), log),
		ReportingUC:  reporting.NewReportingUseCase(repos, decimal.Zero, log),
		StatementUC:  reporting.NewStatementUseCase(repos, pdf.NewMarotoPDFGenerator()),
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
		Logger:       log,
	})
	return app
}

// call ejecuta la petición autenticada como userID/role.
func call(t *testing.T, app *fiber.App, method, path, body, userID, role string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", tokenFor(t, userID, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createInvoice(t *testing.T, app *fiber.App, amount string) dto.InvoiceResponse {
	t.Helper()
	body := `{"project_id":"p1","amount":"` + amount + `","invoice_date":"2026-03-01","task_ids":["t1"]}`
	resp := call(t, app, http.MethodPost, "/api/invoices", body, leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.InvoiceResponse](t, resp)
}

func TestInvoices_CrearYCobrar(t *testing.T) {
	app := newServer(t)
	inv := createInvoice(t, app, "200")
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, []string{"t1"}, inv.TaskIDs)

	body := `{"invoice_id":"` + inv.ID + `","amount":"50","payment_date":"2026-03-05"}`
	resp := call(t, app, http.MethodPost, "/api/payments", body, ownerID, entity.RoleProjectOwner)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pay := decode[dto.PaymentResponse](t, resp)
	assert.Equal(t, "partial", pay.InvoiceStatus)
	assert.True(t, dec("150").Equal(pay.Remaining))

	// sobrepago
	body = `{"invoice_id":"` + inv.ID + `","amount":"151","payment_date":"2026-03-06"}`
	resp = call(t, app, http.MethodPost, "/api/payments", body, ownerID, entity.RoleProjectOwner)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "OVERPAYMENT", errBody.Code)

	resp = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/payments", "", leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.PaymentResponse](t, resp), 1)
}

func TestInvoices_Errores(t *testing.T) {
	app := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		user   string
		role   string
		status int
		code   string
	}{
		{"sin fecha", http.MethodPost, "/api/invoices", `{"project_id":"p1","amount":"10"}`, leadID, entity.RoleProjectLead, http.StatusBadRequest, "VALIDATION"},
		{"monto cero", http.MethodPost, "/api/invoices", `{"project_id":"p1","amount":"0","invoice_date":"2026-03-01"}`, leadID, entity.RoleProjectLead, http.StatusBadRequest, "VALIDATION"},
		{"json roto", http.MethodPost, "/api/invoices", `{"project_id":`, leadID, entity.RoleProjectLead, http.StatusBadRequest, "VALIDATION"},
		{"desarrollador no factura", http.MethodPost, "/api/invoices", `{"project_id":"p1","amount":"10","invoice_date":"2026-03-01"}`, devID, entity.RoleDeveloper, http.StatusForbidden, "FORBIDDEN"},
		{"proyecto inexistente", http.MethodPost, "/api/invoices", `{"project_id":"nope","amount":"10","invoice_date":"2026-03-01"}`, leadID, entity.RoleProjectLead, http.StatusNotFound, "NOT_FOUND"},
		{"factura inexistente", http.MethodGet, "/api/invoices/nope", "", leadID, entity.RoleProjectLead, http.StatusNotFound, "NOT_FOUND"},
		{"estado inválido", http.MethodGet, "/api/invoices?status=open", "", leadID, entity.RoleProjectLead, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, app, tc.method, tc.path, tc.body, tc.user, tc.role)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestInvoices_PDF(t *testing.T) {
	app := newServer(t)
	inv := createInvoice(t, app, "200")

	resp := call(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", "", ownerID, entity.RoleProjectOwner)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestVouchers_PagoYEstadoDeTarea(t *testing.T) {
	app := newServer(t)

	body := `{"developer_id":"` + devID + `","project_id":"p1","amount":"100","voucher_date":"2026-03-10","task_ids":["t1"]}`
	resp := call(t, app, http.MethodPost, "/api/vouchers", body, leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v := decode[dto.VoucherResponse](t, resp)
	assert.Equal(t, "pending", v.Status)

	// tarea sin horas de productividad
	body = `{"developer_id":"` + devID + `","project_id":"p1","amount":"10","voucher_date":"2026-03-10","task_ids":["t2"]}`
	resp = call(t, app, http.MethodPost, "/api/vouchers", body, leadID, entity.RoleProjectLead)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_PRODUCTIVITY_HOURS", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/vouchers/"+v.ID+"/payments", `{"amount":"100","payment_date":"2026-03-15"}`, leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decode[dto.DeveloperPaymentResponse](t, resp)
	assert.Equal(t, "paid", paid.VoucherStatus)
	require.Len(t, paid.Allocations, 1)

	// el desarrollador consulta su propio estado aunque pida el de otro
	resp = call(t, app, http.MethodGet, "/api/tasks/t1/paid-status?developer_id=otro", "", devID, entity.RoleDeveloper)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.TaskPaidStatusResponse](t, resp)
	assert.Equal(t, devID, st.DeveloperID)
	assert.True(t, st.IsPaid)

	resp = call(t, app, http.MethodGet, "/api/tasks/t1/paid-status", "", leadID, entity.RoleProjectLead)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/developer-payments", "", devID, entity.RoleDeveloper)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.DeveloperPaymentResponse](t, resp), 1)
}

func TestTasks_ActualizarHoras(t *testing.T) {
	app := newServer(t)

	resp := call(t, app, http.MethodPut, "/api/tasks/t2/hours", `{"productivity_hours":"3.5"}`, leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	task := decode[dto.TaskResponse](t, resp)
	require.NotNil(t, task.ProductivityHours)
	assert.True(t, dec("3.5").Equal(*task.ProductivityHours))

	resp = call(t, app, http.MethodPut, "/api/tasks/t2/hours", `{"productivity_hours":"3.5"}`, devID, entity.RoleDeveloper)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAccounting_RolesYExport(t *testing.T) {
	app := newServer(t)
	createInvoice(t, app, "200")

	resp := call(t, app, http.MethodGet, "/api/accounting/entries", "", devID, entity.RoleDeveloper)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/accounting/entries", "", leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.AccountingEntryResponse](t, resp), 2)

	resp = call(t, app, http.MethodGet, "/api/accounting/summary", "", leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.AccountingSummaryResponse](t, resp)
	assert.True(t, dec("200").Equal(sum.AccountsReceivable))

	resp = call(t, app, http.MethodGet, "/api/accounting/export", "", leadID, entity.RoleProjectLead)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	// verificación solo para super_admin
	resp = call(t, app, http.MethodGet, "/api/accounting/verify", "", leadID, entity.RoleProjectLead)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/accounting/verify", "", "root", entity.RoleSuperAdmin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.VerifyReport](t, resp).OK)
}

func TestAccounting_ExportSinFilas(t *testing.T) {
	app := newServer(t)
	resp := call(t, app, http.MethodGet, "/api/accounting/export", "", leadID, entity.RoleProjectLead)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReports_Dashboard(t *testing.T) {
	app := newServer(t)
	createInvoice(t, app, "200")

	resp := call(t, app, http.MethodGet, "/api/reports/dashboard", "", leadID, entity.RoleProjectLead)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, 1, out.Invoices.Pending)
	assert.True(t, dec("200").Equal(out.Invoices.Outstanding))

	resp = call(t, app, http.MethodGet, "/api/reports/work-summary", "", devID, entity.RoleDeveloper)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summaries := decode[[]dto.DeveloperWorkSummary](t, resp)
	require.Len(t, summaries, 1)
	assert.True(t, dec("5").Equal(summaries[0].TotalProductivityHours))
}
