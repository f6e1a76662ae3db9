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

type WorkspaceRepository struct {
	col *mongo.Collection
}

func NewWorkspaceRepository(db *mongo.Database) *WorkspaceRepository {
	return &WorkspaceRepository{col: db.Collection(collWorkspaces)}
}

type workspaceDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id"`
	InviteCode  string             `bson:"invite_code"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *workspaceDoc) toDomain() *domain.Workspace {
	return &domain.Workspace{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID.Hex(),
		InviteCode:  d.InviteCode,
		CreatedAt:   utc(d.CreatedAt),
		UpdatedAt:   utc(d.UpdatedAt),
	}
}

func (r *WorkspaceRepository) Create(ctx context.Context, w *domain.Workspace) error {
	owner, ok := objectID(w.OwnerID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := workspaceDoc{
		ID:          primitive.NewObjectID(),
		Name:        w.Name,
		Description: w.Description,
		OwnerID:     owner,
		InviteCode:  w.InviteCode,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInviteCodeTaken
		}
		return fmt.Errorf("insert workspace: %w", err)
	}
	w.ID = doc.ID.Hex()
	return nil
}

func (r *WorkspaceRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.Workspace, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc workspaceDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find workspace: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *WorkspaceRepository) FindByID(ctx context.Context, id string) (*domain.Workspace, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrWorkspaceNotFound)
}

func (r *WorkspaceRepository) FindByInviteCode(ctx context.Context, code string) (*domain.Workspace, error) {
	return r.findOne(ctx, bson.M{"invite_code": code}, domain.ErrWorkspaceNotFound)
}

func (r *WorkspaceRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Workspace, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Workspace{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find workspaces: %w", err)
	}
	var docs []workspaceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode workspaces: %w", err)
	}
	out := make([]*domain.Workspace, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *WorkspaceRepository) updateByID(ctx context.Context, id string, set bson.M) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrWorkspaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInviteCodeTaken
		}
		return fmt.Errorf("update workspace: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func (r *WorkspaceRepository) Update(ctx context.Context, w *domain.Workspace) error {
	return r.updateByID(ctx, w.ID, bson.M{
		"name":        w.Name,
		"description": w.Description,
		"updated_at":  w.UpdatedAt,
	})
}

func (r *WorkspaceRepository) SetInviteCode(ctx context.Context, id, code string) error {
	return r.updateByID(ctx, id, bson.M{"invite_code": code, "updated_at": time.Now().UTC()})
}

func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrWorkspaceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collRoles)}
}

type roleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Permissions []string           `bson:"permissions"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *roleDoc) toDomain() *domain.Role {
	perms := make([]domain.Permission, 0, len(d.Permissions))
	for _, p := range d.Permissions {
		perms = append(perms, domain.Permission(p))
	}
	return &domain.Role{
		ID:          d.ID.Hex(),
		Name:        domain.RoleName(d.Name),
		Permissions: perms,
		CreatedAt:   utc(d.CreatedAt),
	}
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": string(name)})
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *RoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	out := make([]*domain.Role, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Upsert keys roles by name: an existing row keeps its id and created_at,
// only the permission list is replaced.
func (r *RoleRepository) Upsert(ctx context.Context, role *domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	perms := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		perms = append(perms, string(p))
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set":         bson.M{"permissions": perms},
		"$setOnInsert": bson.M{"created_at": role.CreatedAt},
	}

	var doc roleDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"name": string(role.Name)}, update, opts).Decode(&doc); err != nil {
		return fmt.Errorf("upsert role %s: %w", role.Name, err)
	}
	role.ID = doc.ID.Hex()
	role.CreatedAt = utc(doc.CreatedAt)
	return nil
}

type MemberRepository struct {
	col *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{col: db.Collection(collMembers)}
}

type memberDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id"`
	RoleID      primitive.ObjectID `bson:"role_id"`
	JoinedAt    time.Time          `bson:"joined_at"`
}

func (d *memberDoc) toDomain() *domain.Member {
	return &domain.Member{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		WorkspaceID: d.WorkspaceID.Hex(),
		RoleID:      d.RoleID.Hex(),
		JoinedAt:    utc(d.JoinedAt),
	}
}

// pairFilter selects the (user, workspace) membership; ok is false when
// either id is malformed.
func pairFilter(userID, workspaceID string) (bson.M, bool) {
	uid, ok := objectID(userID)
	if !ok {
		return nil, false
	}
	wid, ok := objectID(workspaceID)
	if !ok {
		return nil, false
	}
	return bson.M{"user_id": uid, "workspace_id": wid}, true
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.Member) error {
	uid, ok := objectID(m.UserID)
	if !ok {
		return domain.ErrUserNotFound
	}
	wid, ok := objectID(m.WorkspaceID)
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	roleID, ok := objectID(m.RoleID)
	if !ok {
		return domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := memberDoc{
		ID:          primitive.NewObjectID(),
		UserID:      uid,
		WorkspaceID: wid,
		RoleID:      roleID,
		JoinedAt:    m.JoinedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	m.ID = doc.ID.Hex()
	return nil
}

func (r *MemberRepository) Find(ctx context.Context, userID, workspaceID string) (*domain.Member, error) {
	filter, ok := pairFilter(userID, workspaceID)
	if !ok {
		return nil, domain.ErrMemberNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc memberDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MemberRepository) list(ctx context.Context, field, id string) ([]*domain.Member, error) {
	oid, ok := objectID(id)
	if !ok {
		return []*domain.Member{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{field: oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	var docs []memberDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	out := make([]*domain.Member, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *MemberRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Member, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Member, error) {
	return r.list(ctx, "workspace_id", workspaceID)
}

func (r *MemberRepository) UpdateRole(ctx context.Context, userID, workspaceID, roleID string) error {
	filter, ok := pairFilter(userID, workspaceID)
	if !ok {
		return domain.ErrMemberNotFound
	}
	rid, ok := objectID(roleID)
	if !ok {
		return domain.ErrRoleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role_id": rid}})
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, userID, workspaceID string) error {
	filter, ok := pairFilter(userID, workspaceID)
	if !ok {
		return domain.ErrMemberNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	oid, ok := objectID(workspaceID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"workspace_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete workspace members: %w", err)
	}
	return res.DeletedCount, nil
}
