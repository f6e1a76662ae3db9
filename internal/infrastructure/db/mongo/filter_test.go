package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	_, ok := objectID("not-hex")
	assert.False(t, ok)

	oid := primitive.NewObjectID()
	got, ok := objectID(oid.Hex())
	require.True(t, ok)
	assert.Equal(t, oid, got)

	assert.Nil(t, optionalID(""))
	assert.Equal(t, "", hexOf(nil))
	assert.Len(t, objectIDs([]string{oid.Hex(), "bad", ""}), 1)
}

func TestListFilter(t *testing.T) {
	ws := primitive.NewObjectID()
	project := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	due := time.Date(2026, 3, 14, 17, 30, 0, 0, time.FixedZone("X", 3*3600))

	filter, ok := listFilter(ports.TaskFilter{
		WorkspaceID: ws.Hex(),
		ProjectID:   project.Hex(),
		Statuses:    []domain.TaskStatus{domain.TaskTodo},
		AssignedTo:  []string{assignee.Hex()},
		Keyword:     "a.b",
		DueDate:     &due,
	})
	require.True(t, ok)

	assert.Equal(t, ws, filter["workspace_id"])
	assert.Equal(t, project, filter["project_id"])
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{assignee}}, filter["assigned_to"])
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, filter["title"])

	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, bson.M{"$gte": start, "$lt": start.Add(24 * time.Hour)}, filter["due_date"])
	assert.NotContains(t, filter, "priority")
}

func TestListFilter_MatchesNothing(t *testing.T) {
	ws := primitive.NewObjectID().Hex()

	_, ok := listFilter(ports.TaskFilter{WorkspaceID: "bad"})
	assert.False(t, ok)

	_, ok = listFilter(ports.TaskFilter{WorkspaceID: ws, ProjectID: "bad"})
	assert.False(t, ok)

	_, ok = listFilter(ports.TaskFilter{WorkspaceID: ws, AssignedTo: []string{"bad"}})
	assert.False(t, ok)
}

func TestScoped(t *testing.T) {
	ws := primitive.NewObjectID()
	id := primitive.NewObjectID()

	filter, ok := scoped(ws.Hex(), id.Hex())
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": id, "workspace_id": ws}, filter)

	_, ok = scoped(ws.Hex(), "nope")
	assert.False(t, ok)
}
