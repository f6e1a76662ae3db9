package app

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamsync/workspace-api/internal/core/ports"
	"github.com/teamsync/workspace-api/internal/core/rbac"
	"github.com/teamsync/workspace-api/internal/core/service"
	"github.com/teamsync/workspace-api/internal/infrastructure/db/memory"
	mongostore "github.com/teamsync/workspace-api/internal/infrastructure/db/mongo"
	"github.com/teamsync/workspace-api/pkg/logger"
)

// Repositories is one storage driver's set of adapters.
type Repositories struct {
	UoW        ports.UnitOfWork
	Users      ports.UserRepository
	Accounts   ports.AccountRepository
	Workspaces ports.WorkspaceRepository
	Roles      ports.RoleRepository
	Members    ports.MemberRepository
	Projects   ports.ProjectRepository
	Tasks      ports.TaskRepository
}

func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		UoW:        s,
		Users:      memory.NewUserRepository(s),
		Accounts:   memory.NewAccountRepository(s),
		Workspaces: memory.NewWorkspaceRepository(s),
		Roles:      memory.NewRoleRepository(s),
		Members:    memory.NewMemberRepository(s),
		Projects:   memory.NewProjectRepository(s),
		Tasks:      memory.NewTaskRepository(s),
	}
}

func MongoRepositories(client *mongo.Client, db *mongo.Database) Repositories {
	return Repositories{
		UoW:        mongostore.NewTxManager(client),
		Users:      mongostore.NewUserRepository(db),
		Accounts:   mongostore.NewAccountRepository(db),
		Workspaces: mongostore.NewWorkspaceRepository(db),
		Roles:      mongostore.NewRoleRepository(db),
		Members:    mongostore.NewMemberRepository(db),
		Projects:   mongostore.NewProjectRepository(db),
		Tasks:      mongostore.NewTaskRepository(db),
	}
}

// Security bundles the credential adapters shared by the services.
type Security struct {
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Verifier    ports.TokenVerifier
	Revocations ports.TokenRevocationStore
}

// Services holds the application services behind the HTTP handlers.
type Services struct {
	Auth       *service.AuthService
	Membership *service.MembershipService
	Workspaces *service.WorkspaceService
	Projects   *service.ProjectService
	Tasks      *service.TaskService
}

// NewServices wires the services over repos. Each service logs under its
// own component name.
func NewServices(repos Repositories, table *rbac.Table, sec Security, log zerolog.Logger) Services {
	component := func(name string) zerolog.Logger {
		return logger.WithComponent(log, name)
	}

	membership := service.NewMembershipService(repos.Workspaces, repos.Members, repos.Roles, table, component("membership"))
	provisioner := service.NewProvisioner(
		repos.UoW, repos.Users, repos.Accounts, repos.Workspaces, repos.Roles, repos.Members,
		sec.Hasher, component("provisioning"),
	)
	return Services{
		Auth: service.NewAuthService(
			provisioner, repos.Users, repos.Accounts, sec.Hasher, sec.Tokens, sec.Revocations, component("auth"),
		),
		Membership: membership,
		Workspaces: service.NewWorkspaceService(
			repos.UoW, membership, repos.Users, repos.Workspaces, repos.Roles, repos.Members,
			repos.Projects, repos.Tasks, component("workspace"),
		),
		Projects: service.NewProjectService(
			repos.UoW, membership, repos.Projects, repos.Tasks, repos.Users, component("project"),
		),
		Tasks: service.NewTaskService(
			membership, repos.Tasks, repos.Projects, repos.Members, repos.Users, component("task"),
		),
	}
}
