package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collUsers      = "users"
	collAccounts   = "accounts"
	collWorkspaces = "workspaces"
	collRoles      = "roles"
	collMembers    = "members"
	collProjects   = "projects"
	collTasks      = "tasks"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely
// on. Uniqueness races (email, invite code, membership pair, task code) are
// settled here, not by read-then-write checks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collAccounts: {
			{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "provider_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collWorkspaces: {
			{Keys: bson.D{{Key: "invite_code", Value: 1}}, Options: unique},
		},
		collRoles: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		collMembers: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "workspace_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "joined_at", Value: 1}}},
		},
		collProjects: {
			{Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collTasks: {
			{Keys: bson.D{{Key: "task_code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "project_id", Value: 1}}},
		},
	}

	for coll, models := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// objectID parses a hex id. Malformed ids can never match a document, so
// callers treat ok == false as not found.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// objectIDs parses ids, dropping the malformed ones.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}

// optionalID maps "" to a nil ref so it is omitted from the document.
func optionalID(id string) *primitive.ObjectID {
	if oid, ok := objectID(id); ok {
		return &oid
	}
	return nil
}

func hexOf(oid *primitive.ObjectID) string {
	if oid == nil {
		return ""
	}
	return oid.Hex()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// utc normalises driver-decoded times, which come back in local time.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
