// Package images serves product images by numeric product code.
//
// Images are stored as <code><ext> in a file.Storage. Lookups try the
// extensions in Extensions order and serve the first match.
package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/opsdesk/binder"
	"github.com/dmitrymomot/opsdesk/handler"
	"github.com/dmitrymomot/opsdesk/pkg/file"
	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

// Extensions in lookup order.
var Extensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

const (
	CacheControl  = "public, max-age=86400"
	MaxUploadSize = 5 << 20
	CodeMaxLength = 32
)

// uploadTypes maps sniffed content types to the stored extension.
var uploadTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service serves images publicly and accepts uploads from roles holding
// items.write.
type Service struct {
	store file.Storage
	authz *rbac.Authorizer
	log   *slog.Logger
}

func NewService(store file.Storage, authz *rbac.Authorizer, opts ...Option) *Service {
	if store == nil {
		panic("images: file storage is required")
	}
	s := &Service{store: store, authz: authz, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("images"))
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	path := handler.WithBinders[handler.Context, ImagePath](binder.Path(chi.URLParam))

	r.Get("/{code}", handler.Wrap(s.serve, path))

	r.Group(func(r chi.Router) {
		r.Use(session.RequirePermission(s.authz, rbac.PermItemsWrite))

		r.Put("/{code}", handler.Wrap(s.upload, path))
		r.Delete("/{code}", handler.Wrap(s.delete, path))
	})

	return r
}

type ImagePath struct {
	Code string `path:"code"`
}

type UploadResponse struct {
	Code        string `json:"code"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

func validateCode(code string) error {
	return validator.Apply(
		validator.ValidNumericString("code", code),
		validator.MaxLenString("code", code, CodeMaxLength),
	)
}

func (s *Service) serve(ctx handler.Context, p ImagePath) handler.Response {
	if err := validateCode(p.Code); err != nil {
		return handler.Error(err)
	}

	for _, ext := range Extensions {
		obj, err := s.store.Open(ctx, p.Code+ext)
		if errors.Is(err, file.ErrFileNotFound) {
			continue
		}
		if err != nil {
			return handler.Fail(s.log, err)
		}
		return handler.Stream(obj.Body, file.ContentTypeByExt(ext),
			handler.WithContentLength(obj.Size),
			handler.WithStreamHeader("Cache-Control", CacheControl),
		)
	}

	return handler.Error(handler.ErrNotFound.WithMessage("Image not found"))
}

// upload stores the request body as the image of a code. The type is sniffed
// from the content, and copies under other extensions are removed so the
// new image is the one served.
func (s *Service) upload(ctx handler.Context, p ImagePath) handler.Response {
	if err := validateCode(p.Code); err != nil {
		return handler.Error(err)
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request().Body, MaxUploadSize+1))
	if err != nil {
		return handler.Fail(s.log, handler.ErrBadRequest.WithMessage("Failed to read image"))
	}
	if len(data) > MaxUploadSize {
		return handler.Error(validator.Fail("body", "image is too large"))
	}
	if len(data) == 0 {
		return handler.Error(validator.Fail("body", "field is required"))
	}

	contentType := http.DetectContentType(data)
	ext, ok := uploadTypes[contentType]
	if !ok {
		return handler.Error(validator.Fail("body", "must be a JPEG, PNG, WebP or GIF image"))
	}

	key := p.Code + ext
	if err := s.store.Save(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return handler.Fail(s.log, err)
	}
	if err := s.removeOthers(ctx, p.Code, ext); err != nil {
		return handler.Fail(s.log, err)
	}

	s.log.InfoContext(ctx, "image stored", slog.String("key", key), slog.Int("size", len(data)))
	return handler.JSON(UploadResponse{Code: p.Code, Key: key, ContentType: contentType, Size: len(data)})
}

func (s *Service) delete(ctx handler.Context, p ImagePath) handler.Response {
	if err := validateCode(p.Code); err != nil {
		return handler.Error(err)
	}
	if !s.exists(ctx, p.Code) {
		return handler.Error(handler.ErrNotFound.WithMessage("Image not found"))
	}
	if err := s.removeOthers(ctx, p.Code, ""); err != nil {
		return handler.Fail(s.log, err)
	}
	return handler.Empty()
}

// exists reports whether code has an image under any extension.
func (s *Service) exists(ctx context.Context, code string) bool {
	for _, ext := range Extensions {
		if s.store.Exists(ctx, code+ext) {
			return true
		}
	}
	return false
}

func (s *Service) removeOthers(ctx context.Context, code, keep string) error {
	for _, ext := range Extensions {
		if ext == keep {
			continue
		}
		if err := s.store.Delete(ctx, code+ext); err != nil {
			return err
		}
	}
	return nil
}
