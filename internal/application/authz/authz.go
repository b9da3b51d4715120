// Package authz resuelve qué puede hacer un actor sobre un proyecto.
package authz

import (
	"context"
	"fmt"

	"github.com/jhoicas/ProjectLedger-api/internal/domain"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

// Capability acción protegida sobre un proyecto.
type Capability string

const (
	CreatesInvoice  Capability = "creates_invoice"
	RecordsPayment  Capability = "records_payment"
	UploadsEvidence Capability = "uploads_evidence"
	CreatesVoucher  Capability = "creates_voucher"
	PaysVoucher     Capability = "pays_voucher"
	EditsTaskHours  Capability = "edits_task_hours"
	ViewsLedger     Capability = "views_ledger"
	ReversesEntry   Capability = "reverses_entry"
)

// CanActOnProject devuelve nil si el actor tiene la capacidad sobre el proyecto,
// o un error que envuelve domain.ErrForbidden. super_admin puede todo.
func CanActOnProject(actor entity.Actor, project *entity.Project, capability Capability) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if actor.IsSuperAdmin() {
		return nil
	}
	if project == nil {
		return domain.ErrNotFound
	}
	var ok bool
	switch capability {
	case CreatesInvoice, CreatesVoucher, PaysVoucher, EditsTaskHours:
		ok = project.ProjectLeadID == actor.ID
	case RecordsPayment, UploadsEvidence:
		ok = project.ProjectOwnerID != "" && project.ProjectOwnerID == actor.ID
	case ViewsLedger:
		ok = actor.Role == entity.RoleProjectLead && project.ProjectLeadID == actor.ID
	case ReversesEntry:
		ok = false
	}
	if !ok {
		return fmt.Errorf("%w: %s sobre el proyecto %s", domain.ErrForbidden, capability, project.ID)
	}
	return nil
}

// RequireRole devuelve ErrForbidden si el rol del actor no está en roles (super_admin siempre pasa).
func RequireRole(actor entity.Actor, roles ...string) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if actor.IsSuperAdmin() {
		return nil
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return domain.ErrForbidden
}

// Scope proyectos visibles para un actor al listar documentos.
// nil = todos (super_admin); slice vacío = ninguno.
func Scope(ctx context.Context, actor entity.Actor, projects repository.ProjectRepository, assignments repository.AssignmentRepository) ([]string, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if actor.IsSuperAdmin() {
		return nil, nil
	}
	ids := []string{}
	switch actor.Role {
	case entity.RoleProjectLead, entity.RoleProjectManager:
		list, err := projects.List(ctx, repository.ProjectFilter{LeadID: actor.ID})
		if err != nil {
			return nil, fmt.Errorf("list lead projects: %w", err)
		}
		for _, p := range list {
			ids = append(ids, p.ID)
		}
	case entity.RoleProjectOwner:
		list, err := projects.List(ctx, repository.ProjectFilter{OwnerID: actor.ID})
		if err != nil {
			return nil, fmt.Errorf("list owner projects: %w", err)
		}
		for _, p := range list {
			ids = append(ids, p.ID)
		}
	case entity.RoleDeveloper:
		list, err := assignments.ListByDeveloper(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("list developer assignments: %w", err)
		}
		for _, a := range list {
			ids = append(ids, a.ProjectID)
		}
	}
	return ids, nil
}

// InScope indica si projectID es visible dentro de scope (nil = todos).
func InScope(scope []string, projectID string) bool {
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
