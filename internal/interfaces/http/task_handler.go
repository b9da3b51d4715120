package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ProjectLedger-api/internal/application/dto"
	"github.com/jhoicas/ProjectLedger-api/internal/application/payable"
	"github.com/jhoicas/ProjectLedger-api/internal/application/worklog"
	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
)

// TaskHandler horas de tareas y su estado de pago.
type TaskHandler struct {
	worklog *worklog.WorkLogUseCase
	payable *payable.PayableUseCase
	log     zerolog.Logger
}

// NewTaskHandler construye el handler.
func NewTaskHandler(wl *worklog.WorkLogUseCase, pay *payable.PayableUseCase, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{worklog: wl, payable: pay, log: log}
}

// GetByID GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.worklog.GetTask(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateHours PUT /api/tasks/:id/hours
func (h *TaskHandler) UpdateHours(c *fiber.Ctx) error {
	var in dto.UpdateTaskHoursRequest
	if err := parseBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.worklog.UpdateHours(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}

// PaidStatus indica si la tarea está pagada por completo al desarrollador.
// Un desarrollador solo consulta su propio estado.
// GET /api/tasks/:id/paid-status?developer_id=
func (h *TaskHandler) PaidStatus(c *fiber.Ctx) error {
	actor := GetActor(c)
	task, err := h.worklog.GetTask(c.Context(), actor, c.Params("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	developerID := c.Query("developer_id")
	if actor.Role == entity.RoleDeveloper {
		developerID = actor.ID
	}
	if developerID == "" {
		return fail(c, h.log, domain.NewValidationError("developer_id", "es obligatorio"))
	}
	out, err := h.payable.TaskPaidStatus(c.Context(), task.ID, developerID, task.ProjectID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(out)
}
