package inventory

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/secrets"
)

// StoreItem is the stored, encrypted form of an item.
type StoreItem struct {
	ID         bson.ObjectID `bson:"_id"`
	Name       secrets.Field `bson:"name"`
	Codes      string        `bson:"codes"`
	CodeHashes []string      `bson:"code_hashes"`
	Quantity   string        `bson:"quantity"`
	Categories string        `bson:"categories"`
	CreatedAt  time.Time     `bson:"created_at"`
}

// Item is the decrypted view of a StoreItem.
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Codes      []string  `json:"codes"`
	Quantity   int64     `json:"quantity"`
	Categories []string  `json:"categories"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewItem is the input of Create.
type NewItem struct {
	Name       string
	Codes      []string
	Quantity   int64
	Categories []string
}
