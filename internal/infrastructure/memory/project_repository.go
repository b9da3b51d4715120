package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ProjectLedger-api/internal/domain/entity"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/repository"
)

var (
	_ repository.ProjectRepository    = (*ProjectRepo)(nil)
	_ repository.AssignmentRepository = (*AssignmentRepo)(nil)
)

// ProjectRepo implementación en memoria de ProjectRepository.
type ProjectRepo struct {
	d db
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	err := r.d.read(func(st *state) error {
		if p, ok := st.projects[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProjectRepo) List(_ context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	var out []*entity.Project
	err := r.d.read(func(st *state) error {
		for _, p := range st.projects {
			if f.LeadID != "" && p.ProjectLeadID != f.LeadID {
				continue
			}
			if f.OwnerID != "" && p.ProjectOwnerID != f.OwnerID {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// AssignmentRepo implementación en memoria de AssignmentRepository.
type AssignmentRepo struct {
	d db
}

func (r *AssignmentRepo) HourlyRate(_ context.Context, developerID, projectID string) (decimal.Decimal, bool, error) {
	var (
		rate decimal.Decimal
		ok   bool
	)
	err := r.d.read(func(st *state) error {
		for _, a := range st.assignments {
			if a.DeveloperID == developerID && a.ProjectID == projectID {
				rate, ok = a.HourlyRate, true
				return nil
			}
		}
		return nil
	})
	return rate, ok, err
}

func (r *AssignmentRepo) ListByProject(_ context.Context, projectID string) ([]*entity.DeveloperAssignment, error) {
	return r.list(func(a entity.DeveloperAssignment) bool { return a.ProjectID == projectID })
}

func (r *AssignmentRepo) ListByDeveloper(_ context.Context, developerID string) ([]*entity.DeveloperAssignment, error) {
	return r.list(func(a entity.DeveloperAssignment) bool { return a.DeveloperID == developerID })
}

func (r *AssignmentRepo) list(match func(entity.DeveloperAssignment) bool) ([]*entity.DeveloperAssignment, error) {
	var out []*entity.DeveloperAssignment
	err := r.d.read(func(st *state) error {
		for _, a := range st.assignments {
			if match(a) {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	return out, err
}
