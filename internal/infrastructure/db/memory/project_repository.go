package memory

import (
	"context"
	"sort"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type ProjectRepository struct{ s *Store }

func NewProjectRepository(s *Store) *ProjectRepository { return &ProjectRepository{s: s} }

func (r *ProjectRepository) Create(_ context.Context, p *domain.Project) error {
	return r.s.write(func(d *dataset) error {
		p.ID = newID()
		d.projects[p.ID] = *p
		return nil
	})
}

func (r *ProjectRepository) Find(_ context.Context, workspaceID, id string) (*domain.Project, error) {
	var out *domain.Project
	err := r.s.read(func(d *dataset) error {
		p, ok := d.projects[id]
		if !ok || p.WorkspaceID != workspaceID {
			return domain.ErrProjectNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProjectRepository) FindByIDs(_ context.Context, workspaceID string, ids []string) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(ids))
	err := r.s.read(func(d *dataset) error {
		for _, id := range ids {
			if p, ok := d.projects[id]; ok && p.WorkspaceID == workspaceID {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r *ProjectRepository) List(_ context.Context, workspaceID string, skip, limit int) ([]*domain.Project, int64, error) {
	var matched []*domain.Project
	err := r.s.read(func(d *dataset) error {
		for _, p := range d.projects {
			if p.WorkspaceID == workspaceID {
				matched = append(matched, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pageOf(matched, skip, limit), int64(len(matched)), nil
}

func (r *ProjectRepository) Update(_ context.Context, p *domain.Project) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.projects[p.ID]
		if !ok || existing.WorkspaceID != p.WorkspaceID {
			return domain.ErrProjectNotFound
		}
		existing.Name = p.Name
		existing.Description = p.Description
		existing.Emoji = p.Emoji
		existing.UpdatedAt = p.UpdatedAt
		d.projects[p.ID] = existing
		return nil
	})
}

func (r *ProjectRepository) Delete(_ context.Context, workspaceID, id string) error {
	return r.s.write(func(d *dataset) error {
		p, ok := d.projects[id]
		if !ok || p.WorkspaceID != workspaceID {
			return domain.ErrProjectNotFound
		}
		delete(d.projects, id)
		return nil
	})
}

func (r *ProjectRepository) DeleteByWorkspace(_ context.Context, workspaceID string) (int64, error) {
	var n int64
	err := r.s.write(func(d *dataset) error {
		for id, p := range d.projects {
			if p.WorkspaceID == workspaceID {
				delete(d.projects, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
