package buttons

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
)

const CollectionName = "buttons"

type buttonDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	Name       string        `bson:"name"`
	ActionType ActionType    `bson:"action_type"`
	Parameters bson.Raw      `bson:"parameters"`
	CreatedBy  string        `bson:"created_by"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}

func toDoc(b *Button) (*buttonDoc, error) {
	id, err := bson.ObjectIDFromHex(b.ID)
	if err != nil {
		return nil, ErrButtonNotFound
	}

	params, err := bson.Marshal(b.Action)
	if err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}

	return &buttonDoc{
		ID:         id,
		Name:       b.Name,
		ActionType: b.Action.Type(),
		Parameters: params,
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}, nil
}

func fromDoc(d *buttonDoc) (*Button, error) {
	a, err := NewAction(d.ActionType)
	if err != nil {
		return nil, err
	}

	switch v := a.(type) {
	case OpenURL:
		err = bson.Unmarshal(d.Parameters, &v)
		a = v
	case Webhook:
		err = bson.Unmarshal(d.Parameters, &v)
		a = v
	case RunTool:
		err = bson.Unmarshal(d.Parameters, &v)
		a = v
	case CopyText:
		err = bson.Unmarshal(d.Parameters, &v)
		a = v
	}
	if err != nil {
		return nil, fmt.Errorf("decode parameters of button %s: %w", d.ID.Hex(), err)
	}

	return &Button{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Action:    a,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
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
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
}

func (s *MongoStorage) Insert(ctx context.Context, b *Button) error {
	doc, err := toDoc(b)
	if err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert button: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, id string) (*Button, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrButtonNotFound
	}

	var doc buttonDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if mongox.IsNotFound(err) {
			return nil, ErrButtonNotFound
		}
		return nil, fmt.Errorf("find button: %w", err)
	}
	return fromDoc(&doc)
}

func (s *MongoStorage) List(ctx context.Context) ([]*Button, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list buttons: %w", err)
	}

	var docs []buttonDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode buttons: %w", err)
	}

	out := make([]*Button, 0, len(docs))
	for i := range docs {
		b, err := fromDoc(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *MongoStorage) Update(ctx context.Context, b *Button) error {
	doc, err := toDoc(b)
	if err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"name":        doc.Name,
		"action_type": doc.ActionType,
		"parameters":  doc.Parameters,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update button: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrButtonNotFound
	}
	return nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrButtonNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete button: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrButtonNotFound
	}
	return nil
}
