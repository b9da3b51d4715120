package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// Fixture datos maestros para arrancar el almacén en modo desarrollo.
// Proyectos, asignaciones, tareas y timesheets los administran otros servicios.
type Fixture struct {
	Projects []struct {
		ID             string           `json:"id"`
		Name           string           `json:"name"`
		ProjectLeadID  string           `json:"project_lead_id"`
		ProjectOwnerID string           `json:"project_owner_id"`
		RatePerHour    *decimal.Decimal `json:"rate_per_hour"`
		Status         string           `json:"status"`
	} `json:"projects"`
	Assignments []struct {
		DeveloperID string          `json:"developer_id"`
		ProjectID   string          `json:"project_id"`
		HourlyRate  decimal.Decimal `json:"hourly_rate"`
	} `json:"assignments"`
	Tasks []struct {
		ID                string           `json:"id"`
		ProjectID         string           `json:"project_id"`
		Title             string           `json:"title"`
		Status            string           `json:"status"`
		EstimationHours   decimal.Decimal  `json:"estimation_hours"`
		BillableHours     *decimal.Decimal `json:"billable_hours"`
		ProductivityHours *decimal.Decimal `json:"productivity_hours"`
		DeveloperIDs      []string         `json:"developer_ids"`
	} `json:"tasks"`
	Timesheets []struct {
		ID     string          `json:"id"`
		UserID string          `json:"user_id"`
		TaskID string          `json:"task_id"`
		Hours  decimal.Decimal `json:"hours"`
		Status string          `json:"status"`
	} `json:"timesheets"`
}

// LoadFixtureFile lee un JSON de datos maestros y lo carga en el almacén.
func LoadFixtureFile(s *Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("memory: abrir fixture: %w", err)
	}
	defer f.Close()
	return LoadFixture(s, f)
}

// LoadFixture decodifica r y registra su contenido. Las tareas sin estimación se rechazan.
func LoadFixture(s *Store, r io.Reader) error {
	var fx Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return fmt.Errorf("memory: decodificar fixture: %w", err)
	}

	for _, p := range fx.Projects {
		status := p.Status
		if status == "" {
			status = "active"
		}
		s.AddProject(entity.Project{
			ID:             p.ID,
			Name:           p.Name,
			ProjectLeadID:  p.ProjectLeadID,
			ProjectOwnerID: p.ProjectOwnerID,
			RatePerHour:    p.RatePerHour,
			Status:         status,
		})
	}
	for i, a := range fx.Assignments {
		s.AddAssignment(entity.DeveloperAssignment{
			ID:          fmt.Sprintf("asg-%d", i+1),
			DeveloperID: a.DeveloperID,
			ProjectID:   a.ProjectID,
			HourlyRate:  a.HourlyRate,
		})
	}
	for _, t := range fx.Tasks {
		if !t.EstimationHours.IsPositive() {
			return fmt.Errorf("memory: la tarea %s no tiene estimación", t.ID)
		}
		status := t.Status
		if status == "" {
			status = entity.TaskStatusTodo
		}
		s.AddTask(entity.Task{
			ID:                t.ID,
			ProjectID:         t.ProjectID,
			Title:             t.Title,
			Status:            status,
			EstimationHours:   t.EstimationHours,
			BillableHours:     t.BillableHours,
			ProductivityHours: t.ProductivityHours,
		}, t.DeveloperIDs...)
	}
	for _, ts := range fx.Timesheets {
		s.AddTimesheet(entity.Timesheet{
			ID:     ts.ID,
			UserID: ts.UserID,
			TaskID: ts.TaskID,
			Hours:  ts.Hours,
			Status: ts.Status,
		})
	}
	return nil
}
