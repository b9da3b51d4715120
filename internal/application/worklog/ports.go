package worklog

import (
	"context"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de tareas y proyectos.
type TxRunner interface {
	RunWorklog(ctx context.Context, fn func(
		taskRepo repository.TaskRepository,
		projectRepo repository.ProjectRepository,
	) error) error
}
