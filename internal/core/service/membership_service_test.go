package service

import (
	"context"
	"errors"
	"testing"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

func TestResolveRole_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")

	if _, err := f.membership.ResolveRole(ctx, alice.User.ID, "missing"); !errors.Is(err, domain.ErrWorkspaceNotFound) {
		t.Fatalf("expected ErrWorkspaceNotFound, got %v", err)
	}
	if _, err := f.membership.ResolveRole(ctx, bob.User.ID, alice.WorkspaceID); !errors.Is(err, domain.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func TestResolveRole_DanglingRoleIsUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")

	if err := f.members.UpdateRole(ctx, alice.User.ID, alice.WorkspaceID, "no-such-role"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := f.membership.Authorize(ctx, alice.User.ID, alice.WorkspaceID, domain.PermViewOnly); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestJoinByInvite_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")

	ws, _ := f.workspaces.FindByID(ctx, alice.WorkspaceID)

	first, err := f.membership.JoinByInvite(ctx, bob.User.ID, ws.InviteCode)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := f.membership.JoinByInvite(ctx, bob.User.ID, ws.InviteCode)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}

	if first.AlreadyMember || !second.AlreadyMember {
		t.Fatalf("unexpected AlreadyMember flags: %v %v", first.AlreadyMember, second.AlreadyMember)
	}
	if first.Role.ID != second.Role.ID || first.Role.Name != domain.RoleMember {
		t.Fatalf("expected same MEMBER role, got %s and %s", first.Role.Name, second.Role.Name)
	}

	members, _ := f.members.ListByWorkspace(ctx, ws.ID)
	if len(members) != 2 {
		t.Fatalf("expected owner + one member, got %d rows", len(members))
	}
}

func TestJoinByInvite_OwnerRejoiningKeepsOwnerRole(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "Alice")

	res := f.join(t, alice.User.ID, alice.WorkspaceID)
	if !res.AlreadyMember || res.Role.Name != domain.RoleOwner {
		t.Fatalf("owner must stay OWNER, got %+v", res)
	}
}

func TestJoinByInvite_UnknownCode(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "Bob")

	_, err := f.membership.JoinByInvite(context.Background(), bob.User.ID, "nope")
	if !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestJoinByInvite_MemberRoleSeedMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "Alice")
	bob := f.register(t, "Bob")
	f.roles.Delete(ctx, domain.RoleMember)

	ws, _ := f.workspaces.FindByID(ctx, alice.WorkspaceID)
	if _, err := f.membership.JoinByInvite(ctx, bob.User.ID, ws.InviteCode); !errors.Is(err, domain.ErrRoleSeedMissing) {
		t.Fatalf("expected ErrRoleSeedMissing, got %v", err)
	}
}

// Alice registers and owns W; Bob joins with W's invite code and must not
// be able to delete it.
func TestScenario_MemberCannotDeleteWorkspace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.auth.Register(ctx, registerInput("Alice", "a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	role, err := f.membership.ResolveRole(ctx, alice.User.ID, alice.WorkspaceID)
	if err != nil || role.Name != domain.RoleOwner {
		t.Fatalf("alice must own W: %v %v", role, err)
	}

	bob := f.register(t, "Bob")
	joined := f.join(t, bob.User.ID, alice.WorkspaceID)
	if joined.Role.Name != domain.RoleMember {
		t.Fatalf("bob must be MEMBER, got %s", joined.Role.Name)
	}

	_, err = f.workspace.Delete(ctx, bob.User.ID, alice.WorkspaceID)
	if !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
	if _, err := f.workspaces.FindByID(ctx, alice.WorkspaceID); err != nil {
		t.Fatalf("workspace must survive: %v", err)
	}
}
