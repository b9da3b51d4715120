// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en modo desarrollo (STORE_DRIVER=memory) y como persistencia de pruebas.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// state contenido completo del almacén. Las transacciones trabajan sobre una copia.
type state struct {
	projects     map[string]entity.Project
	assignments  []entity.DeveloperAssignment
	tasks        map[string]entity.Task
	taskOrder    []string
	taskDevs     map[string]map[string]bool
	timesheets   []entity.Timesheet
	invoices     map[string]entity.Invoice
	invoiceOrder []string
	invoiceTasks map[string][]string
	payments     map[string]entity.Payment
	paymentOrder []string
	vouchers     map[string]entity.PaymentVoucher
	voucherOrder []string
	voucherTasks map[string][]entity.VoucherTask
	devPayments  map[string]entity.DeveloperPayment
	devPayOrder  []string
	entries      []entity.AccountingEntry
}

func newState() *state {
	return &state{
		projects:     make(map[string]entity.Project),
		tasks:        make(map[string]entity.Task),
		taskDevs:     make(map[string]map[string]bool),
		invoices:     make(map[string]entity.Invoice),
		invoiceTasks: make(map[string][]string),
		payments:     make(map[string]entity.Payment),
		vouchers:     make(map[string]entity.PaymentVoucher),
		voucherTasks: make(map[string][]entity.VoucherTask),
		devPayments:  make(map[string]entity.DeveloperPayment),
	}
}

// clone copia mapas y slices. Los valores apuntados (horas, fechas) nunca se mutan en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.projects {
		c.projects[k] = v
	}
	c.assignments = append(c.assignments, s.assignments...)
	for k, v := range s.tasks {
		c.tasks[k] = v
	}
	c.taskOrder = append(c.taskOrder, s.taskOrder...)
	for k, devs := range s.taskDevs {
		m := make(map[string]bool, len(devs))
		for d := range devs {
			m[d] = true
		}
		c.taskDevs[k] = m
	}
	c.timesheets = append(c.timesheets, s.timesheets...)
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	c.invoiceOrder = append(c.invoiceOrder, s.invoiceOrder...)
	for k, v := range s.invoiceTasks {
		c.invoiceTasks[k] = append([]string(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	c.paymentOrder = append(c.paymentOrder, s.paymentOrder...)
	for k, v := range s.vouchers {
		c.vouchers[k] = v
	}
	c.voucherOrder = append(c.voucherOrder, s.voucherOrder...)
	for k, v := range s.voucherTasks {
		c.voucherTasks[k] = append([]entity.VoucherTask(nil), v...)
	}
	for k, v := range s.devPayments {
		c.devPayments[k] = v
	}
	c.devPayOrder = append(c.devPayOrder, s.devPayOrder...)
	c.entries = append(c.entries, s.entries...)
	return c
}

// db acceso al estado: directo (con lock del Store) o dentro de una transacción.
type db interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
}

// Store almacén en memoria. Seguro para uso concurrente.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// txDB estado de trabajo de una transacción; el Store ya está bloqueado.
type txDB struct{ st *state }

func (t txDB) read(fn func(st *state) error) error { return fn(t.st) }
func (t txDB) write(fn func(st *state) error) error { return fn(t.st) }

// runTx serializa la transacción: trabaja sobre una copia y la publica solo si fn no falla.
func (s *Store) runTx(ctx context.Context, fn func(d db) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(txDB{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repositorios atados al almacén (fuera de transacción).

func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{d: s} }
func (s *Store) Assignments() *AssignmentRepo { return &AssignmentRepo{d: s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{d: s} }
func (s *Store) Timesheets() *TimesheetRepo { return &TimesheetRepo{d: s} }
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{d: s} }
func (s *Store) Vouchers() *VoucherRepo { return &VoucherRepo{d: s} }
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{d: s} }

// ── Carga de datos maestros (proyectos, asignaciones, tareas, timesheets) ────

// AddProject registra o reemplaza un proyecto.
func (s *Store) AddProject(p entity.Project) {
	_ = s.write(func(st *state) error {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		st.projects[p.ID] = p
		return nil
	})
}

// AddAssignment registra la tarifa del desarrollador en el proyecto (reemplaza la anterior).
func (s *Store) AddAssignment(a entity.DeveloperAssignment) {
	_ = s.write(func(st *state) error {
		for i := range st.assignments {
			if st.assignments[i].DeveloperID == a.DeveloperID && st.assignments[i].ProjectID == a.ProjectID {
				st.assignments[i] = a
				return nil
			}
		}
		st.assignments = append(st.assignments, a)
		return nil
	})
}

// AddTask registra una tarea y la asigna a los desarrolladores indicados.
func (s *Store) AddTask(t entity.Task, developerIDs ...string) {
	_ = s.write(func(st *state) error {
		if _, ok := st.tasks[t.ID]; !ok {
			st.taskOrder = append(st.taskOrder, t.ID)
		}
		st.tasks[t.ID] = t
		devs := st.taskDevs[t.ID]
		if devs == nil {
			devs = make(map[string]bool)
			st.taskDevs[t.ID] = devs
		}
		for _, d := range developerIDs {
			devs[d] = true
		}
		return nil
	})
}

// AddTimesheet registra horas trabajadas.
func (s *Store) AddTimesheet(ts entity.Timesheet) {
	_ = s.write(func(st *state) error {
		st.timesheets = append(st.timesheets, ts)
		return nil
	})
}

// ── helpers ──────────────────────────────────────────────────────────────────

func inScope(scope []string, projectID string) bool {
	if scope == nil {
		return true
	}
	for _, id := range scope {
		if id == projectID {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newestFirst ordena índices de inserción por fecha descendente; a igual fecha, el último insertado primero.
func newestFirst(n int, date func(i int) time.Time) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = n - 1 - i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return date(idx[a]).After(date(idx[b]))
	})
	return idx
}
