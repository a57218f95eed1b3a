package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

const (
	CollectionName = "users"

	usernameIndex  = "username_search_hash_unique"
	superRootIndex = "role_super_root_unique"
)

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique username index and the partial index
// that admits a single super-root.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	return mongox.EnsureIndexes(ctx, s.coll,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "username.search_hash", Value: 1}},
			Options: options.Index().SetName(usernameIndex).SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetName(superRootIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": rbac.RoleSuperRoot}),
		},
	)
}

func (s *MongoStorage) CreateUser(ctx context.Context, user *User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return duplicateOr(err, "insert user")
	}
	return nil
}

func (s *MongoStorage) GetUserByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoStorage) GetUserByUsernameHash(ctx context.Context, hash string) (*User, error) {
	return s.findOne(ctx, bson.M{"username.search_hash": hash})
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStorage) ListUsers(ctx context.Context) ([]*User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := []*User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoStorage) CountByRole(ctx context.Context, role rbac.Role) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *MongoStorage) UpdatePassword(ctx context.Context, id string, cred password.Credential) error {
	return s.update(ctx, id, nil, bson.M{"password": cred})
}

func (s *MongoStorage) SetPasswordIfUnset(ctx context.Context, id string, cred password.Credential) error {
	err := s.update(ctx, id, bson.M{"password": bson.M{"$exists": false}}, bson.M{"password": cred})
	if errors.Is(err, ErrUserNotFound) {
		// Either the user is gone or the password filter failed.
		if _, getErr := s.GetUserByID(ctx, id); getErr == nil {
			return ErrPasswordAlreadySet
		}
	}
	return err
}

func (s *MongoStorage) UpdateTOTP(ctx context.Context, id string, totp TOTP) error {
	return s.update(ctx, id, nil, bson.M{"totp": totp})
}

func (s *MongoStorage) UpdateRole(ctx context.Context, id string, role rbac.Role) error {
	return s.update(ctx, id, nil, bson.M{"role": role})
}

func (s *MongoStorage) DeleteUser(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// update applies $set to the user matching id and the extra filter.
func (s *MongoStorage) update(ctx context.Context, id string, extra bson.M, set bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return duplicateOr(err, "update user")
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func duplicateOr(err error, op string) error {
	if !mongox.IsDuplicateKey(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.Contains(err.Error(), superRootIndex) {
		return ErrSuperRootExists
	}
	return ErrUsernameTaken
}
