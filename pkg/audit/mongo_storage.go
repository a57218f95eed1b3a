package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/dmitrymomot/opsdesk/pkg/mongo"
)

const CollectionName = "audit_events"

type eventDoc struct {
	ID         bson.ObjectID `bson:"_id"`
	UserID     string        `bson:"user_id,omitempty"`
	Action     string        `bson:"action"`
	Resource   string        `bson:"resource"`
	ResourceID string        `bson:"resource_id,omitempty"`
	Result     Result        `bson:"result"`
	Status     int           `bson:"status"`
	RequestID  string        `bson:"request_id,omitempty"`
	IP         string        `bson:"ip,omitempty"`
	CreatedAt  time.Time     `bson:"created_at"`
}

func (d eventDoc) event() Event {
	return Event{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		Action:     d.Action,
		Resource:   d.Resource,
		ResourceID: d.ResourceID,
		Result:     d.Result,
		Status:     d.Status,
		RequestID:  d.RequestID,
		IP:         d.IP,
		CreatedAt:  d.CreatedAt,
	}
}

// MongoStorage keeps events in a MongoDB collection.
type MongoStorage struct {
	coll      *mongo.Collection
	retention time.Duration
}

type StorageOption func(*MongoStorage)

// WithRetention makes MongoDB expire events older than d. Zero keeps them forever.
func WithRetention(d time.Duration) StorageOption {
	return func(s *MongoStorage) {
		s.retention = d
	}
}

func NewMongoStorage(db *mongo.Database, opts ...StorageOption) *MongoStorage {
	s := &MongoStorage{coll: db.Collection(CollectionName)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	created := options.Index().SetName("created_at")
	if s.retention > 0 {
		created = created.SetExpireAfterSeconds(int32(s.retention.Seconds()))
	}
	return mongox.EnsureIndexes(ctx, s.coll,
		mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: created},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "resource", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("resource_created_at"),
		},
	)
}

func (s *MongoStorage) StoreBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]eventDoc, 0, len(events))
	for _, e := range events {
		docs = append(docs, eventDoc{
			ID:         bson.NewObjectID(),
			UserID:     e.UserID,
			Action:     e.Action,
			Resource:   e.Resource,
			ResourceID: e.ResourceID,
			Result:     e.Result,
			Status:     e.Status,
			RequestID:  e.RequestID,
			IP:         e.IP,
			CreatedAt:  e.CreatedAt,
		})
	}

	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert audit events: %w", err)
	}
	return nil
}

// Find returns the newest events matching c.
func (s *MongoStorage) Find(ctx context.Context, c Criteria) ([]Event, error) {
	c = c.Normalize()

	filter := bson.M{}
	if c.UserID != "" {
		filter["user_id"] = c.UserID
	}
	if c.Resource != "" {
		filter["resource"] = c.Resource
	}

	cursor, err := s.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(c.Limit)))
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	out := make([]Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.event())
	}
	return out, nil
}
