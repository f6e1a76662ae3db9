package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collUsers)}
}

type userDoc struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty"`
	Name             string              `bson:"name"`
	Email            string              `bson:"email"`
	PasswordHash     string              `bson:"password_hash,omitempty"`
	ProfilePicture   string              `bson:"profile_picture,omitempty"`
	CurrentWorkspace *primitive.ObjectID `bson:"current_workspace,omitempty"`
	LastLogin        *time.Time          `bson:"last_login,omitempty"`
	CreatedAt        time.Time           `bson:"created_at"`
	UpdatedAt        time.Time           `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		ProfilePicture:   d.ProfilePicture,
		CurrentWorkspace: hexOf(d.CurrentWorkspace),
		LastLogin:        utcPtr(d.LastLogin),
		CreatedAt:        utc(d.CreatedAt),
		UpdatedAt:        utc(d.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:               primitive.NewObjectID(),
		Name:             u.Name,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		ProfilePicture:   u.ProfilePicture,
		CurrentWorkspace: optionalID(u.CurrentWorkspace),
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetCurrentWorkspace(ctx context.Context, userID, workspaceID string) error {
	now := time.Now().UTC()
	if ref := optionalID(workspaceID); ref != nil {
		return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"current_workspace": ref, "updated_at": now}})
	}
	return r.updateByID(ctx, userID, bson.M{
		"$unset": bson.M{"current_workspace": ""},
		"$set":   bson.M{"updated_at": now},
	})
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"last_login": at}})
}

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collAccounts)}
}

type accountDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id"`
	Provider     string             `bson:"provider"`
	ProviderID   string             `bson:"provider_id"`
	RefreshToken string             `bson:"refresh_token,omitempty"`
	TokenExpiry  *time.Time         `bson:"token_expiry,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Provider:     domain.Provider(d.Provider),
		ProviderID:   d.ProviderID,
		RefreshToken: d.RefreshToken,
		TokenExpiry:  utcPtr(d.TokenExpiry),
		CreatedAt:    utc(d.CreatedAt),
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	userID, ok := objectID(a.UserID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := accountDoc{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Provider:     string(a.Provider),
		ProviderID:   a.ProviderID,
		RefreshToken: a.RefreshToken,
		TokenExpiry:  a.TokenExpiry,
		CreatedAt:    a.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	a.ID = doc.ID.Hex()
	return nil
}

func (r *AccountRepository) FindByProvider(ctx context.Context, provider domain.Provider, providerID string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	err := r.col.FindOne(ctx, bson.M{"provider": string(provider), "provider_id": providerID}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) UpdateTokens(ctx context.Context, accountID, refreshToken string, expiry *time.Time) error {
	oid, ok := objectID(accountID)
	if !ok {
		return domain.ErrAccountNotFound
	}

	set := bson.M{}
	if refreshToken != "" {
		set["refresh_token"] = refreshToken
	}
	if expiry != nil {
		set["token_expiry"] = *expiry
	}
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account tokens: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
