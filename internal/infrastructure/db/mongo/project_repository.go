package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collProjects)}
}

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Emoji       string             `bson:"emoji"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id"`
	CreatedBy   primitive.ObjectID `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *projectDoc) toDomain() *domain.Project {
	return &domain.Project{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Emoji:       d.Emoji,
		WorkspaceID: d.WorkspaceID.Hex(),
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   utc(d.CreatedAt),
		UpdatedAt:   utc(d.UpdatedAt),
	}
}

// scoped builds the {_id, workspace_id} filter every single-project call
// uses, so a project is invisible outside its workspace.
func scoped(workspaceID, id string) (bson.M, bool) {
	wid, ok := objectID(workspaceID)
	if !ok {
		return nil, false
	}
	oid, ok := objectID(id)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "workspace_id": wid}, true
}

func decodeProjects(ctx context.Context, cur *mongo.Cursor) ([]*domain.Project, error) {
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	out := make([]*domain.Project, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	wid, ok := objectID(p.WorkspaceID)
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	creator, ok := objectID(p.CreatedBy)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		Emoji:       p.Emoji,
		WorkspaceID: wid,
		CreatedBy:   creator,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *ProjectRepository) Find(ctx context.Context, workspaceID, id string) (*domain.Project, error) {
	filter, ok := scoped(workspaceID, id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, workspaceID string, ids []string) ([]*domain.Project, error) {
	wid, ok := objectID(workspaceID)
	oids := objectIDs(ids)
	if !ok || len(oids) == 0 {
		return []*domain.Project{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}, "workspace_id": wid})
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	return decodeProjects(ctx, cur)
}

func (r *ProjectRepository) List(ctx context.Context, workspaceID string, skip, limit int) ([]*domain.Project, int64, error) {
	wid, ok := objectID(workspaceID)
	if !ok {
		return []*domain.Project{}, 0, nil
	}
	filter := bson.M{"workspace_id": wid}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	projects, err := decodeProjects(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	filter, ok := scoped(p.WorkspaceID, p.ID)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"emoji":       p.Emoji,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, workspaceID, id string) error {
	filter, ok := scoped(workspaceID, id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	wid, ok := objectID(workspaceID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"workspace_id": wid})
	if err != nil {
		return 0, fmt.Errorf("delete workspace projects: %w", err)
	}
	return res.DeletedCount, nil
}
