package tools

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
)

const CollectionName = "tools"

type toolDoc struct {
	ID          bson.ObjectID `bson:"_id"`
	Slug        string        `bson:"slug"`
	Label       string        `bson:"label"`
	Description string        `bson:"description"`
	Visible     bool          `bson:"visible"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (d toolDoc) tool() *Tool {
	return &Tool{
		ID:          d.ID.Hex(),
		Slug:        d.Slug,
		Label:       d.Label,
		Description: d.Description,
		Visible:     d.Visible,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{coll: db.Collection(CollectionName)}
}

func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	return mongox.EnsureIndexes(ctx, s.coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetName("slug_unique").SetUnique(true),
	})
}

func (s *MongoStorage) Insert(ctx context.Context, t *Tool) error {
	id, err := bson.ObjectIDFromHex(t.ID)
	if err != nil {
		id = bson.NewObjectID()
		t.ID = id.Hex()
	}

	_, err = s.coll.InsertOne(ctx, toolDoc{
		ID:          id,
		Slug:        t.Slug,
		Label:       t.Label,
		Description: t.Description,
		Visible:     t.Visible,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		if mongox.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert tool: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, slug string) (*Tool, error) {
	var doc toolDoc
	if err := s.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("find tool: %w", err)
	}
	return doc.tool(), nil
}

func (s *MongoStorage) List(ctx context.Context, includeHidden bool) ([]*Tool, error) {
	filter := bson.M{}
	if !includeHidden {
		filter["visible"] = true
	}

	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "label", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	var docs []toolDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tools: %w", err)
	}

	out := make([]*Tool, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.tool())
	}
	return out, nil
}

func (s *MongoStorage) Update(ctx context.Context, slug string, c Changes) (*Tool, error) {
	var doc toolDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": bson.M{
			"label":       c.Label,
			"description": c.Description,
			"visible":     c.Visible,
			"updated_at":  time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("update tool: %w", err)
	}
	return doc.tool(), nil
}

func (s *MongoStorage) Delete(ctx context.Context, slug string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrToolNotFound
	}
	return nil
}
