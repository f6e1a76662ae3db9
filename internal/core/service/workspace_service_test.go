package service

import (
	"context"
	"errors"
	"testing"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

func TestWorkspaceService_CreateSwitchesCurrentWorkspace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")

	ws, err := f.workspace.Create(ctx, alice.User.ID, ports.CreateWorkspaceInput{Name: " Side project "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ws.Name != "Side project" || ws.OwnerID != alice.User.ID {
		t.Fatalf("unexpected workspace: %+v", ws)
	}

	u, _ := f.users.FindByID(ctx, alice.User.ID)
	if u.CurrentWorkspace != ws.ID {
		t.Fatalf("current workspace not switched")
	}

	all, err := f.workspace.ListForUser(ctx, alice.User.ID)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 workspaces, got %d (%v)", len(all), err)
	}

	if _, err := f.workspace.Create(ctx, alice.User.ID, ports.CreateWorkspaceInput{}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkspaceService_DeleteMovesCurrentWorkspace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	first := alice.WorkspaceID

	second, err := f.workspace.Create(ctx, alice.User.ID, ports.CreateWorkspaceInput{Name: "Second"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err := f.project.Create(ctx, alice.User.ID, second.ID, ports.CreateProjectInput{Name: "P"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := f.task.Create(ctx, alice.User.ID, second.ID, p.ID, ports.CreateTaskInput{Title: "T"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	current, err := f.workspace.Delete(ctx, alice.User.ID, second.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if current != first {
		t.Fatalf("expected current workspace %s, got %s", first, current)
	}

	if _, err := f.workspaces.FindByID(ctx, second.ID); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("workspace still present: %v", err)
	}
	c := f.store.Counts()
	if c.Projects != 0 || c.Tasks != 0 || c.Members != 1 {
		t.Fatalf("cascade incomplete: %+v", c)
	}
}

func TestWorkspaceService_AdminCannotDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)
	f.setRole(t, bob.User.ID, alice.WorkspaceID, domain.RoleAdmin)

	if _, err := f.workspace.Delete(ctx, bob.User.ID, alice.WorkspaceID); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	// Admins may still edit.
	name := "Renamed"
	ws, err := f.workspace.Update(ctx, bob.User.ID, alice.WorkspaceID, ports.UpdateWorkspaceInput{Name: &name})
	if err != nil || ws.Name != "Renamed" {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestWorkspaceService_ChangeMemberRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)

	admin, _ := f.roles.FindByName(ctx, domain.RoleAdmin)
	owner, _ := f.roles.FindByName(ctx, domain.RoleOwner)

	m, err := f.workspace.ChangeMemberRole(ctx, alice.User.ID, alice.WorkspaceID, bob.User.ID, admin.ID)
	if err != nil || m.RoleID != admin.ID {
		t.Fatalf("change role: %v", err)
	}
	role, _ := f.membership.ResolveRole(ctx, bob.User.ID, alice.WorkspaceID)
	if role.Name != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", role.Name)
	}

	if _, err := f.workspace.ChangeMemberRole(ctx, bob.User.ID, alice.WorkspaceID, alice.User.ID, admin.ID); !errors.Is(err, domain.ErrOwnerRoleImmutable) {
		t.Fatalf("owner demotion: expected ErrOwnerRoleImmutable, got %v", err)
	}
	if _, err := f.workspace.ChangeMemberRole(ctx, alice.User.ID, alice.WorkspaceID, bob.User.ID, owner.ID); !errors.Is(err, domain.ErrOwnerRoleImmutable) {
		t.Fatalf("owner grant: expected ErrOwnerRoleImmutable, got %v", err)
	}
}

func TestWorkspaceService_MemberCannotChangeRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)
	admin, _ := f.roles.FindByName(ctx, domain.RoleAdmin)

	if _, err := f.workspace.ChangeMemberRole(ctx, bob.User.ID, alice.WorkspaceID, bob.User.ID, admin.ID); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
}

func TestWorkspaceService_MembersAndAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)

	out, err := f.workspace.Members(ctx, bob.User.ID, alice.WorkspaceID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(out.Members) != 2 || len(out.Roles) != 3 {
		t.Fatalf("expected 2 members and 3 roles, got %d/%d", len(out.Members), len(out.Roles))
	}
	for _, m := range out.Members {
		if m.User == nil || m.Role == nil {
			t.Fatalf("member not resolved: %+v", m)
		}
	}

	stats, err := f.workspace.Analytics(ctx, bob.User.ID, alice.WorkspaceID)
	if err != nil || stats.TotalTasks != 0 {
		t.Fatalf("unexpected analytics: %+v %v", stats, err)
	}

	carol := f.register(t, "Carol")
	if _, err := f.workspace.Members(ctx, carol.User.ID, alice.WorkspaceID); !errors.Is(err, domain.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func TestWorkspaceService_ResetInviteCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	before, _ := f.workspaces.FindByID(ctx, alice.WorkspaceID)

	after, err := f.workspace.ResetInviteCode(ctx, alice.User.ID, alice.WorkspaceID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if after.InviteCode == before.InviteCode {
		t.Fatalf("invite code not regenerated")
	}
	bob := f.register(t, "Bob")
	if _, err := f.membership.JoinByInvite(ctx, bob.User.ID, before.InviteCode); !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("old code must stop working, got %v", err)
	}
}

func TestWorkspaceService_RemoveMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.join(t, bob.User.ID, alice.WorkspaceID)
	if err := f.users.SetCurrentWorkspace(ctx, bob.User.ID, alice.WorkspaceID); err != nil {
		t.Fatalf("set current: %v", err)
	}

	if err := f.workspace.RemoveMember(ctx, alice.User.ID, alice.WorkspaceID, alice.User.ID); !errors.Is(err, domain.ErrOwnerRoleImmutable) {
		t.Fatalf("owner removal: expected ErrOwnerRoleImmutable, got %v", err)
	}
	if err := f.workspace.RemoveMember(ctx, alice.User.ID, alice.WorkspaceID, bob.User.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := f.membership.ResolveRole(ctx, bob.User.ID, alice.WorkspaceID); !errors.Is(err, domain.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember after removal, got %v", err)
	}
	u, _ := f.users.FindByID(ctx, bob.User.ID)
	if u.CurrentWorkspace != bob.WorkspaceID {
		t.Fatalf("bob should fall back to his own workspace, got %q", u.CurrentWorkspace)
	}
}

func TestWorkspaceService_CreateRetriesInviteCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	taken, _ := f.workspaces.FindByID(ctx, alice.WorkspaceID)

	f.workspace.bootstrap.inviteCode = inviteCodes(taken.InviteCode, "cccc3333")
	ws, err := f.workspace.Create(ctx, alice.User.ID, ports.CreateWorkspaceInput{Name: "Second"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ws.InviteCode != "cccc3333" {
		t.Fatalf("expected a fresh invite code, got %q", ws.InviteCode)
	}
}
