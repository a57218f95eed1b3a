package buttons

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

const NameMaxLength = 100

// ToolLookup reports whether a tool slug exists. It returns false with a nil
// error for unknown tools.
type ToolLookup func(ctx context.Context, slug string) (bool, error)

type Service struct {
	storage Storage
	tools   ToolLookup
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

// WithToolLookup makes RunTool actions reference existing tools only.
func WithToolLookup(fn ToolLookup) Option {
	return func(s *Service) {
		s.tools = fn
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
		panic("buttons: storage is required")
	}

	s := &Service{
		storage: storage,
		log:     logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("buttons"))
	return s
}

func (s *Service) List(ctx context.Context) ([]*Button, error) {
	return s.storage.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Button, error) {
	return s.storage.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, name string, action Action, createdBy string) (*Button, error) {
	name, action, err := s.validate(ctx, name, action)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Button{
		ID:        bson.NewObjectID().Hex(),
		Name:      name,
		Action:    action,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Insert(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "button created",
		slog.String("button_id", b.ID),
		slog.String("action_type", string(action.Type())),
		logger.UserID(createdBy),
	)
	return b, nil
}

// Update replaces the name and action of a button.
func (s *Service) Update(ctx context.Context, id, name string, action Action) (*Button, error) {
	name, action, err := s.validate(ctx, name, action)
	if err != nil {
		return nil, err
	}

	b, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b.Name = name
	b.Action = action
	b.UpdatedAt = s.now().UTC()
	if err := s.storage.Update(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "button updated",
		slog.String("button_id", b.ID),
		slog.String("action_type", string(action.Type())),
	)
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "button deleted", slog.String("button_id", id))
	return nil
}

func (s *Service) validate(ctx context.Context, name string, action Action) (string, Action, error) {
	name = sanitizer.Trim(name)
	rules := []validator.Rule{
		validator.RequiredString("name", name),
		validator.MaxLenString("name", name, NameMaxLength),
		validator.NoControlChars("name", name),
	}

	if action == nil {
		rules = append(rules, validator.Rule{
			Check: func() bool { return false },
			Error: validator.ValidationError{Field: "actionType", Message: "field is required"},
		})
		return "", nil, validator.Apply(rules...)
	}

	action = normalize(action)
	rules = append(rules, action.rules()...)
	if err := validator.Apply(rules...); err != nil {
		return "", nil, err
	}

	if rt, ok := action.(RunTool); ok && s.tools != nil {
		exists, err := s.tools(ctx, rt.ToolSlug)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			return "", nil, errors.Join(ErrInvalidParameters, validator.Fail("parameters.toolSlug", "unknown tool"))
		}
	}

	return name, action, nil
}
