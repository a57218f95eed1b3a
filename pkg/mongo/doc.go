// Package mongo connects to MongoDB with retries and holds small helpers
// shared by the storage layers: duplicate-key detection, index creation and
// a health probe for the readiness endpoint.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	err = mongo.EnsureIndexes(ctx, db.Collection("tools"), mongodrv.IndexModel{
//		Keys:    bson.D{{Key: "slug", Value: 1}},
//		Options: options.Index().SetUnique(true),
//	})
package mongo
