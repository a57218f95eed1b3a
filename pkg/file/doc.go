// Package file stores binary objects on the local filesystem or in an
// S3-compatible bucket behind one Storage interface. The product image
// endpoint reads images through it; admins upload them through it.
//
//	storage, err := file.NewFromConfig(ctx, cfg)
//	obj, err := storage.Open(ctx, "1001.jpg")
//	if err != nil {
//		return err
//	}
//	defer obj.Body.Close()
//
// Paths are relative, slash-separated keys. Keys that escape the storage
// root are rejected with ErrInvalidPath.
package file
