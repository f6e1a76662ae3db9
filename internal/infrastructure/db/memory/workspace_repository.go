package memory

import (
	"context"
	"sort"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type WorkspaceRepository struct{ s *Store }

func NewWorkspaceRepository(s *Store) *WorkspaceRepository { return &WorkspaceRepository{s: s} }

func inviteTaken(d *dataset, code, exceptID string) bool {
	for id, w := range d.workspaces {
		if id != exceptID && w.InviteCode == code {
			return true
		}
	}
	return false
}

func (r *WorkspaceRepository) Create(_ context.Context, w *domain.Workspace) error {
	return r.s.write(func(d *dataset) error {
		if inviteTaken(d, w.InviteCode, "") {
			return domain.ErrInviteCodeTaken
		}
		w.ID = newID()
		d.workspaces[w.ID] = *w
		return nil
	})
}

func (r *WorkspaceRepository) FindByID(_ context.Context, id string) (*domain.Workspace, error) {
	var out *domain.Workspace
	err := r.s.read(func(d *dataset) error {
		w, ok := d.workspaces[id]
		if !ok {
			return domain.ErrWorkspaceNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *WorkspaceRepository) FindByInviteCode(_ context.Context, code string) (*domain.Workspace, error) {
	var out *domain.Workspace
	err := r.s.read(func(d *dataset) error {
		for _, w := range d.workspaces {
			if w.InviteCode == code {
				out = &w
				return nil
			}
		}
		return domain.ErrWorkspaceNotFound
	})
	return out, err
}

func (r *WorkspaceRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Workspace, error) {
	out := make([]*domain.Workspace, 0, len(ids))
	err := r.s.read(func(d *dataset) error {
		for _, id := range ids {
			if w, ok := d.workspaces[id]; ok {
				out = append(out, &w)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *WorkspaceRepository) Update(_ context.Context, w *domain.Workspace) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.workspaces[w.ID]
		if !ok {
			return domain.ErrWorkspaceNotFound
		}
		existing.Name = w.Name
		existing.Description = w.Description
		existing.UpdatedAt = w.UpdatedAt
		d.workspaces[w.ID] = existing
		return nil
	})
}

func (r *WorkspaceRepository) SetInviteCode(_ context.Context, id, code string) error {
	return r.s.write(func(d *dataset) error {
		w, ok := d.workspaces[id]
		if !ok {
			return domain.ErrWorkspaceNotFound
		}
		if inviteTaken(d, code, id) {
			return domain.ErrInviteCodeTaken
		}
		w.InviteCode = code
		d.workspaces[id] = w
		return nil
	})
}

func (r *WorkspaceRepository) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.workspaces[id]; !ok {
			return domain.ErrWorkspaceNotFound
		}
		delete(d.workspaces, id)
		return nil
	})
}

type RoleRepository struct{ s *Store }

func NewRoleRepository(s *Store) *RoleRepository { return &RoleRepository{s: s} }

func (r *RoleRepository) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	var out *domain.Role
	err := r.s.read(func(d *dataset) error {
		for _, role := range d.roles {
			if role.Name == name {
				out = &role
				return nil
			}
		}
		return domain.ErrRoleNotFound
	})
	return out, err
}

func (r *RoleRepository) FindByID(_ context.Context, id string) (*domain.Role, error) {
	var out *domain.Role
	err := r.s.read(func(d *dataset) error {
		role, ok := d.roles[id]
		if !ok {
			return domain.ErrRoleNotFound
		}
		out = &role
		return nil
	})
	return out, err
}

func (r *RoleRepository) List(_ context.Context) ([]*domain.Role, error) {
	var out []*domain.Role
	err := r.s.read(func(d *dataset) error {
		out = make([]*domain.Role, 0, len(d.roles))
		for _, role := range d.roles {
			out = append(out, &role)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Upsert keys roles by name and keeps the id of an existing row.
func (r *RoleRepository) Upsert(_ context.Context, role *domain.Role) error {
	return r.s.write(func(d *dataset) error {
		for id, existing := range d.roles {
			if existing.Name == role.Name {
				role.ID = id
				role.CreatedAt = existing.CreatedAt
				d.roles[id] = *role
				return nil
			}
		}
		role.ID = newID()
		d.roles[role.ID] = *role
		return nil
	})
}

// Delete removes a role by name. Only used to simulate a broken seed.
func (r *RoleRepository) Delete(_ context.Context, name domain.RoleName) {
	_ = r.s.write(func(d *dataset) error {
		for id, role := range d.roles {
			if role.Name == name {
				delete(d.roles, id)
			}
		}
		return nil
	})
}

type MemberRepository struct{ s *Store }

func NewMemberRepository(s *Store) *MemberRepository { return &MemberRepository{s: s} }

func findMember(d *dataset, userID, workspaceID string) (string, domain.Member, bool) {
	for id, m := range d.members {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			return id, m, true
		}
	}
	return "", domain.Member{}, false
}

func (r *MemberRepository) Create(_ context.Context, m *domain.Member) error {
	return r.s.write(func(d *dataset) error {
		if _, _, ok := findMember(d, m.UserID, m.WorkspaceID); ok {
			return domain.ErrAlreadyMember
		}
		m.ID = newID()
		d.members[m.ID] = *m
		return nil
	})
}

func (r *MemberRepository) Find(_ context.Context, userID, workspaceID string) (*domain.Member, error) {
	var out *domain.Member
	err := r.s.read(func(d *dataset) error {
		_, m, ok := findMember(d, userID, workspaceID)
		if !ok {
			return domain.ErrMemberNotFound
		}
		out = &m
		return nil
	})
	return out, err
}

func (r *MemberRepository) list(match func(domain.Member) bool) ([]*domain.Member, error) {
	var out []*domain.Member
	err := r.s.read(func(d *dataset) error {
		out = make([]*domain.Member, 0)
		for _, m := range d.members {
			if match(m) {
				out = append(out, &m)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, err
}

func (r *MemberRepository) ListByUser(_ context.Context, userID string) ([]*domain.Member, error) {
	return r.list(func(m domain.Member) bool { return m.UserID == userID })
}

func (r *MemberRepository) ListByWorkspace(_ context.Context, workspaceID string) ([]*domain.Member, error) {
	return r.list(func(m domain.Member) bool { return m.WorkspaceID == workspaceID })
}

func (r *MemberRepository) UpdateRole(_ context.Context, userID, workspaceID, roleID string) error {
	return r.s.write(func(d *dataset) error {
		id, m, ok := findMember(d, userID, workspaceID)
		if !ok {
			return domain.ErrMemberNotFound
		}
		m.RoleID = roleID
		d.members[id] = m
		return nil
	})
}

func (r *MemberRepository) Delete(_ context.Context, userID, workspaceID string) error {
	return r.s.write(func(d *dataset) error {
		id, _, ok := findMember(d, userID, workspaceID)
		if !ok {
			return domain.ErrMemberNotFound
		}
		delete(d.members, id)
		return nil
	})
}

func (r *MemberRepository) DeleteByWorkspace(_ context.Context, workspaceID string) (int64, error) {
	var n int64
	err := r.s.write(func(d *dataset) error {
		for id, m := range d.members {
			if m.WorkspaceID == workspaceID {
				delete(d.members, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
