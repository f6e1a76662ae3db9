package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamsync/workspace-api/internal/core/domain"
	"github.com/teamsync/workspace-api/internal/core/ports"
)

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collTasks)}
}

type taskDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	TaskCode    string              `bson:"task_code"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	ProjectID   primitive.ObjectID  `bson:"project_id"`
	WorkspaceID primitive.ObjectID  `bson:"workspace_id"`
	Status      string              `bson:"status"`
	Priority    string              `bson:"priority"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to"`
	CreatedBy   primitive.ObjectID  `bson:"created_by"`
	DueDate     *time.Time          `bson:"due_date"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (d *taskDoc) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		TaskCode:    d.TaskCode,
		Title:       d.Title,
		Description: d.Description,
		ProjectID:   d.ProjectID.Hex(),
		WorkspaceID: d.WorkspaceID.Hex(),
		Status:      domain.TaskStatus(d.Status),
		Priority:    domain.TaskPriority(d.Priority),
		AssignedTo:  hexOf(d.AssignedTo),
		CreatedBy:   d.CreatedBy.Hex(),
		DueDate:     utcPtr(d.DueDate),
		CreatedAt:   utc(d.CreatedAt),
		UpdatedAt:   utc(d.UpdatedAt),
	}
}

func decodeTasks(ctx context.Context, cur *mongo.Cursor) ([]*domain.Task, error) {
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	out := make([]*domain.Task, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	wid, ok := objectID(t.WorkspaceID)
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	pid, ok := objectID(t.ProjectID)
	if !ok {
		return domain.ErrProjectNotFound
	}
	creator, ok := objectID(t.CreatedBy)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskDoc{
		ID:          primitive.NewObjectID(),
		TaskCode:    t.TaskCode,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   pid,
		WorkspaceID: wid,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssignedTo:  optionalID(t.AssignedTo),
		CreatedBy:   creator,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTaskCodeTaken
		}
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (r *TaskRepository) Find(ctx context.Context, workspaceID, projectID, id string) (*domain.Task, error) {
	filter, ok := scoped(workspaceID, id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if projectID != "" {
		pid, ok := objectID(projectID)
		if !ok {
			return nil, domain.ErrTaskNotFound
		}
		filter["project_id"] = pid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

// scopeFilter matches a workspace and, optionally, one of its projects.
func scopeFilter(scope ports.TaskScope) (bson.M, bool) {
	wid, ok := objectID(scope.WorkspaceID)
	if !ok {
		return nil, false
	}
	filter := bson.M{"workspace_id": wid}
	if scope.ProjectID != "" {
		pid, ok := objectID(scope.ProjectID)
		if !ok {
			return nil, false
		}
		filter["project_id"] = pid
	}
	return filter, true
}

// listFilter translates a TaskFilter into a query document. ok is false
// when the filter can match nothing.
func listFilter(f ports.TaskFilter) (bson.M, bool) {
	filter, ok := scopeFilter(ports.TaskScope{WorkspaceID: f.WorkspaceID, ProjectID: f.ProjectID})
	if !ok {
		return nil, false
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}
	if len(f.Priorities) > 0 {
		filter["priority"] = bson.M{"$in": f.Priorities}
	}
	if len(f.AssignedTo) > 0 {
		oids := objectIDs(f.AssignedTo)
		if len(oids) == 0 {
			return nil, false
		}
		filter["assigned_to"] = bson.M{"$in": oids}
	}
	if f.Keyword != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Keyword), Options: "i"}
	}
	if f.DueDate != nil {
		d := f.DueDate.UTC()
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		filter["due_date"] = bson.M{"$gte": start, "$lt": start.Add(24 * time.Hour)}
	}
	return filter, true
}

func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	filter, ok := listFilter(f)
	if !ok {
		return []*domain.Task{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Skip))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := decodeTasks(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	filter, ok := scoped(t.WorkspaceID, t.ID)
	if !ok {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"assigned_to": optionalID(t.AssignedTo),
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, workspaceID, id string) error {
	filter, ok := scoped(workspaceID, id)
	if !ok {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) deleteMany(ctx context.Context, scope ports.TaskScope) (int64, error) {
	filter, ok := scopeFilter(scope)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, workspaceID, projectID string) (int64, error) {
	if projectID == "" {
		return 0, nil
	}
	return r.deleteMany(ctx, ports.TaskScope{WorkspaceID: workspaceID, ProjectID: projectID})
}

func (r *TaskRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	return r.deleteMany(ctx, ports.TaskScope{WorkspaceID: workspaceID})
}

type countDoc struct {
	Count int64 `bson:"count"`
}

type analyticsDoc struct {
	Total     []countDoc `bson:"total"`
	Overdue   []countDoc `bson:"overdue"`
	Completed []countDoc `bson:"completed"`
}

func first(c []countDoc) int64 {
	if len(c) == 0 {
		return 0
	}
	return c[0].Count
}

// Analytics runs the three counters as one $facet aggregation so they are
// computed over the same snapshot.
func (r *TaskRepository) Analytics(ctx context.Context, scope ports.TaskScope, now time.Time) (domain.TaskAnalytics, error) {
	match, ok := scopeFilter(scope)
	if !ok {
		return domain.TaskAnalytics{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "overdue", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.M{
					"due_date": bson.M{"$lt": now},
					"status":   bson.M{"$ne": string(domain.TaskDone)},
				}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "completed", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.M{"status": string(domain.TaskDone)}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.TaskAnalytics{}, fmt.Errorf("task analytics: %w", err)
	}
	var docs []analyticsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.TaskAnalytics{}, fmt.Errorf("decode task analytics: %w", err)
	}
	if len(docs) == 0 {
		return domain.TaskAnalytics{}, nil
	}
	return domain.TaskAnalytics{
		TotalTasks:     first(docs[0].Total),
		OverdueTasks:   first(docs[0].Overdue),
		CompletedTasks: first(docs[0].Completed),
	}, nil
}
