package inventory

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
)

const CollectionName = "store_items"

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the multikey code hash index and the name hash index.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	return mongox.EnsureIndexes(ctx, s.coll,
		mongo.IndexModel{Keys: bson.D{{Key: "code_hashes", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "name.search_hash", Value: 1}}},
	)
}

func (s *MongoStorage) Insert(ctx context.Context, item *StoreItem) error {
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert store item: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, id string) (*StoreItem, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return decodeOne(s.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (s *MongoStorage) FindByCodeHash(ctx context.Context, hash string) (*StoreItem, error) {
	return decodeOne(s.coll.FindOne(ctx,
		bson.M{"code_hashes": hash},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	))
}

func decodeOne(res *mongo.SingleResult) (*StoreItem, error) {
	var item StoreItem
	if err := res.Decode(&item); err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("find store item: %w", err)
	}
	return &item, nil
}

func (s *MongoStorage) List(ctx context.Context) ([]*StoreItem, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list store items: %w", err)
	}

	items := []*StoreItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode store items: %w", err)
	}
	return items, nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrItemNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete store item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}
