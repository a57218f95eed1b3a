package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/opsdesk/pkg/mongo"
)

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	dup := mongodrv.WriteException{WriteErrors: []mongodrv.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	other := mongodrv.WriteException{WriteErrors: []mongodrv.WriteError{{Code: 121, Message: "validation"}}}

	assert.True(t, mongo.IsDuplicateKey(dup))
	assert.True(t, mongo.IsDuplicateKey(fmt.Errorf("insert tool: %w", dup)))
	assert.False(t, mongo.IsDuplicateKey(other))
	assert.False(t, mongo.IsDuplicateKey(nil))
	assert.False(t, mongo.IsDuplicateKey(errors.New("E11000")))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	assert.True(t, mongo.IsNotFound(mongodrv.ErrNoDocuments))
	assert.True(t, mongo.IsNotFound(fmt.Errorf("find user: %w", mongodrv.ErrNoDocuments)))
	assert.False(t, mongo.IsNotFound(errors.New("boom")))
}

func TestConfigDefaults(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")

	var cfg mongo.Config
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, "opsdesk", cfg.Database)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestNewStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := mongo.New(ctx, mongo.Config{
		ConnectionURL: "mongodb://127.0.0.1:1",
		RetryAttempts: 5,
		RetryInterval: time.Minute,
	})
	require.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
	assert.Less(t, time.Since(start), 10*time.Second)
}
