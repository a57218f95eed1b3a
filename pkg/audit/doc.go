// Package audit records who changed what through the HTTP API.
//
// Middleware turns every mutating request into an Event and hands it to a
// Recorder, which stamps the acting user, request ID and client address
// taken from the request context. Events are written through a Writer;
// AsyncWriter batches them in the background so requests never wait on
// storage, and MongoStorage persists the batches with an optional TTL.
//
//	storage := audit.NewMongoStorage(db, audit.WithRetention(cfg.Retention))
//	writer, closeWriter := audit.NewAsyncWriter(storage, cfg.Async, log)
//	defer closeWriter(context.Background())
//
//	rec := audit.NewRecorder(writer,
//		audit.WithUserIDExtractor(session.UserIDFromContext),
//		audit.WithRequestIDExtractor(requestid.FromContext),
//		audit.WithIPExtractor(clientip.FromContext),
//	)
//	r.Use(audit.Middleware(rec))
//
// Request and response bodies are never recorded.
package audit
