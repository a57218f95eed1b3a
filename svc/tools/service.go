package tools

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/opsdesk/pkg/slug"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

const (
	// MaxSlugAttempts bounds the counter suffix tried by Create.
	MaxSlugAttempts = 100

	LabelMaxLength       = 100
	DescriptionMaxLength = 1000
)

type Service struct {
	storage Storage
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(storage Storage, opts ...Option) *Service {
	if storage == nil {
		panic("tools: storage is required")
	}

	s := &Service{
		storage: storage,
		log:     logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("tools"))
	return s
}

func validate(c Changes) (Changes, error) {
	c.Label = sanitizer.Trim(c.Label)
	c.Description = sanitizer.Text(c.Description)

	err := validator.Apply(
		validator.RequiredString("label", c.Label),
		validator.MaxLenString("label", c.Label, LabelMaxLength),
		validator.NoControlChars("label", c.Label),
		validator.MaxLenString("description", c.Description, DescriptionMaxLength),
	)
	return c, err
}

// Create registers a tool under the first free slug derived from the label.
func (s *Service) Create(ctx context.Context, c Changes) (*Tool, error) {
	c, err := validate(c)
	if err != nil {
		return nil, err
	}
	if slug.Make(c.Label) == "" {
		return nil, validator.Fail("label", "must contain letters or digits")
	}

	now := s.now().UTC()
	for n := 1; n <= MaxSlugAttempts; n++ {
		t := &Tool{
			ID:          bson.NewObjectID().Hex(),
			Slug:        slug.Indexed(c.Label, n),
			Label:       c.Label,
			Description: c.Description,
			Visible:     c.Visible,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err := s.storage.Insert(ctx, t)
		if errors.Is(err, ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.InfoContext(ctx, "tool created", slog.String("slug", t.Slug), slog.Int("attempt", n))
		return t, nil
	}

	s.log.WarnContext(ctx, "slug candidates exhausted", slog.String("label", c.Label))
	return nil, ErrSlugExhausted
}

// List returns visible tools, and hidden ones too when includeHidden is set.
func (s *Service) List(ctx context.Context, includeHidden bool) ([]*Tool, error) {
	return s.storage.List(ctx, includeHidden)
}

// Get returns the tool with slug. Hidden tools are reported as missing unless
// includeHidden is set.
func (s *Service) Get(ctx context.Context, slug string, includeHidden bool) (*Tool, error) {
	t, err := s.storage.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.Visible && !includeHidden {
		return nil, ErrToolNotFound
	}
	return t, nil
}

// Exists reports whether a tool with slug is registered, hidden or not.
func (s *Service) Exists(ctx context.Context, slug string) (bool, error) {
	_, err := s.storage.Get(ctx, slug)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrToolNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Update changes label, description and visibility. The slug stays.
func (s *Service) Update(ctx context.Context, slug string, c Changes) (*Tool, error) {
	c, err := validate(c)
	if err != nil {
		return nil, err
	}

	t, err := s.storage.Update(ctx, slug, c)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tool updated", slog.String("slug", slug))
	return t, nil
}

func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := s.storage.Delete(ctx, slug); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "tool deleted", slog.String("slug", slug))
	return nil
}
