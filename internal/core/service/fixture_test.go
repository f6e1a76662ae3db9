package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/core/rbac"
	"github.com/teamsync/workspace-api/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// plainHasher is a fast reversible stand-in for bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(hash, password string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type stubIssuer struct{ issued int }

func (s *stubIssuer) Issue(userID string) (ports.IssuedToken, error) {
	s.issued++
	return ports.IssuedToken{Token: "token-" + userID, ID: "jti-" + userID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubIssuer) TTL() time.Duration { return time.Hour }

type stubRevocations struct{ revoked map[string]time.Time }

func (s *stubRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	s.revoked[id] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := s.revoked[id]
	return ok, nil
}

// failingMembers fails every Create, to break provisioning at the
// membership step.
type failingMembers struct {
	ports.MemberRepository
	err error
}

func (f failingMembers) Create(context.Context, *domain.Member) error { return f.err }

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	store      *memory.Store
	users      *memory.UserRepository
	accounts   *memory.AccountRepository
	workspaces *memory.WorkspaceRepository
	roles      *memory.RoleRepository
	members    *memory.MemberRepository
	projects   *memory.ProjectRepository
	tasks      *memory.TaskRepository

	revocations *stubRevocations
	membership  *MembershipService
	provisioner *Provisioner
	auth        *AuthService
	workspace   *WorkspaceService
	project     *ProjectService
	task        *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:       store,
		users:       memory.NewUserRepository(store),
		accounts:    memory.NewAccountRepository(store),
		workspaces:  memory.NewWorkspaceRepository(store),
		roles:       memory.NewRoleRepository(store),
		members:     memory.NewMemberRepository(store),
		projects:    memory.NewProjectRepository(store),
		tasks:       memory.NewTaskRepository(store),
		revocations: &stubRevocations{revoked: map[string]time.Time{}},
	}

	table := rbac.NewTable(rbac.DefaultPermissions())
	if err := SeedRoles(context.Background(), f.roles, table); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	f.membership = NewMembershipService(f.workspaces, f.members, f.roles, table, discardLogger)
	f.provisioner = NewProvisioner(store, f.users, f.accounts, f.workspaces, f.roles, f.members, plainHasher{}, discardLogger)
	f.auth = NewAuthService(f.provisioner, f.users, f.accounts, plainHasher{}, &stubIssuer{}, f.revocations, discardLogger)
	f.workspace = NewWorkspaceService(store, f.membership, f.users, f.workspaces, f.roles, f.members, f.projects, f.tasks, discardLogger)
	f.project = NewProjectService(store, f.membership, f.projects, f.tasks, f.users, discardLogger)
	f.task = NewTaskService(f.membership, f.tasks, f.projects, f.members, f.users, discardLogger)
	return f
}

// register provisions a user through the public auth path.
func (f *fixture) register(t *testing.T, name string) *ports.AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Name:     name,
		Email:    strings.ToLower(name) + "@x.com",
		Password: "secret-" + name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res
}

// join adds user to the workspace through its invite code.
func (f *fixture) join(t *testing.T, userID, workspaceID string) *ports.JoinResult {
	t.Helper()
	ws, err := f.workspaces.FindByID(context.Background(), workspaceID)
	if err != nil {
		t.Fatalf("find workspace: %v", err)
	}
	res, err := f.membership.JoinByInvite(context.Background(), userID, ws.InviteCode)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	return res
}

func (f *fixture) setRole(t *testing.T, userID, workspaceID string, name domain.RoleName) {
	t.Helper()
	role, err := f.roles.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("find role: %v", err)
	}
	if err := f.members.UpdateRole(context.Background(), userID, workspaceID, role.ID); err != nil {
		t.Fatalf("update role: %v", err)
	}
}
