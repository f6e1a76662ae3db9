package service

import (
	"context"
	"errors"
	"testing"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

func emailInput(email string) ports.ProvisionInput {
	return ports.ProvisionInput{
		Email:      email,
		Name:       "Alice",
		Password:   "s3cret",
		Provider:   domain.ProviderEmail,
		ProviderID: email,
	}
}

func TestProvision_CreatesUserAccountWorkspaceAndOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.provisioner.Provision(ctx, emailInput("Alice@X.com "))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}

	c := f.store.Counts()
	if c.Users != 1 || c.Accounts != 1 || c.Workspaces != 1 || c.Members != 1 {
		t.Fatalf("expected 1/1/1/1 rows, got %+v", c)
	}

	if res.User.Email != "alice@x.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.PasswordHash == "s3cret" || res.User.PasswordHash == "" {
		t.Fatalf("password must be stored hashed, got %q", res.User.PasswordHash)
	}
	if res.Workspace.Name != "Alice's Workspace" || res.Workspace.Description != "Workspace created for Alice" {
		t.Fatalf("unexpected default workspace: %+v", res.Workspace)
	}
	if res.Workspace.OwnerID != res.User.ID || res.Workspace.InviteCode == "" {
		t.Fatalf("workspace not owned or missing invite code: %+v", res.Workspace)
	}

	stored, err := f.users.FindByID(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.CurrentWorkspace != res.Workspace.ID {
		t.Fatalf("current workspace not set: %q", stored.CurrentWorkspace)
	}

	role, err := f.membership.ResolveRole(ctx, res.User.ID, res.Workspace.ID)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role.Name != domain.RoleOwner {
		t.Fatalf("expected OWNER, got %s", role.Name)
	}
}

func TestProvision_FailureAtMembershipLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("insert member: connection reset")
	f.provisioner.bootstrap.members = failingMembers{MemberRepository: f.members, err: boom}

	_, err := f.provisioner.Provision(context.Background(), emailInput("a@x.com"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected member failure, got %v", err)
	}

	c := f.store.Counts()
	if c.Users != 0 || c.Accounts != 0 || c.Workspaces != 0 || c.Members != 0 {
		t.Fatalf("expected zero rows after rollback, got %+v", c)
	}
}

func TestProvision_RoleSeedMissingAborts(t *testing.T) {
	f := newFixture(t)
	f.roles.Delete(context.Background(), domain.RoleOwner)

	_, err := f.provisioner.Provision(context.Background(), emailInput("a@x.com"))
	if !errors.Is(err, domain.ErrRoleSeedMissing) {
		t.Fatalf("expected ErrRoleSeedMissing, got %v", err)
	}
	if c := f.store.Counts(); c.Users != 0 || c.Workspaces != 0 {
		t.Fatalf("expected rollback, got %+v", c)
	}
}

func TestProvision_EmailTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.provisioner.Provision(ctx, emailInput("a@x.com")); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	_, err := f.provisioner.Provision(ctx, emailInput("A@x.com"))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if c := f.store.Counts(); c.Users != 1 || c.Workspaces != 1 {
		t.Fatalf("second attempt must not persist anything, got %+v", c)
	}
}

// A racing writer that passed the pre-check still loses on the unique index.
func TestProvision_UniqueIndexDecidesRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.users.Create(ctx, &domain.User{Email: "a@x.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	err := f.store.WithinTransaction(ctx, func(ctx context.Context) error {
		return f.users.Create(ctx, &domain.User{Email: "a@x.com"})
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from the index, got %v", err)
	}
}

func TestProvision_FederatedIdentityHasNoPassword(t *testing.T) {
	f := newFixture(t)

	res, err := f.provisioner.Provision(context.Background(), ports.ProvisionInput{
		Email:          "g@x.com",
		Name:           "Gina",
		ProfilePicture: "https://img/g.png",
		Provider:       domain.ProviderGoogle,
		ProviderID:     "google-123",
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("federated user must not have a password hash")
	}
	if res.Account.Provider != domain.ProviderGoogle || res.Account.ProviderID != "google-123" {
		t.Fatalf("unexpected account: %+v", res.Account)
	}
	if res.User.ProfilePicture != "https://img/g.png" {
		t.Fatalf("profile picture not stored")
	}
}

func TestProvision_Validation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]ports.ProvisionInput{
		"missing name":     {Email: "a@x.com", Password: "p", Provider: domain.ProviderEmail, ProviderID: "a@x.com"},
		"missing email":    {Name: "A", Password: "p", Provider: domain.ProviderEmail, ProviderID: "a@x.com"},
		"bad provider":     {Name: "A", Email: "a@x.com", Provider: "MYSPACE", ProviderID: "x"},
		"missing password": {Name: "A", Email: "a@x.com", Provider: domain.ProviderEmail, ProviderID: "a@x.com"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.provisioner.Provision(context.Background(), in)
			if domain.KindOf(err) != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if c := f.store.Counts(); c.Users != 0 {
		t.Fatalf("no rows expected, got %+v", c)
	}
}

// inviteCodes hands out codes in order, repeating the last one.
func inviteCodes(codes ...string) func() string {
	i := 0
	return func() string {
		c := codes[min(i, len(codes)-1)]
		i++
		return c
	}
}

func TestProvision_SkipsInviteCodeInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.provisioner.bootstrap.inviteCode = inviteCodes("aaaa1111")
	first, err := f.provisioner.Provision(ctx, emailInput("alice@x.com"))
	if err != nil {
		t.Fatalf("first provision: %v", err)
	}

	f.provisioner.bootstrap.inviteCode = inviteCodes("aaaa1111", "bbbb2222")
	second, err := f.provisioner.Provision(ctx, emailInput("bob@x.com"))
	if err != nil {
		t.Fatalf("provision with colliding code: %v", err)
	}

	if first.Workspace.InviteCode != "aaaa1111" || second.Workspace.InviteCode != "bbbb2222" {
		t.Fatalf("unexpected codes %q / %q", first.Workspace.InviteCode, second.Workspace.InviteCode)
	}
}

func TestProvision_InviteCodeAttemptsExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.provisioner.bootstrap.inviteCode = inviteCodes("aaaa1111")
	if _, err := f.provisioner.Provision(ctx, emailInput("alice@x.com")); err != nil {
		t.Fatalf("first provision: %v", err)
	}

	_, err := f.provisioner.Provision(ctx, emailInput("bob@x.com"))
	if !errors.Is(err, domain.ErrInviteCodeTaken) {
		t.Fatalf("expected ErrInviteCodeTaken, got %v", err)
	}
	if c := f.store.Counts(); c.Users != 1 || c.Workspaces != 1 {
		t.Fatalf("failed provisioning must leave no rows, got %+v", c)
	}
}
