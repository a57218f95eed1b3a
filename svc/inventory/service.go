package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/opsdesk/pkg/secrets"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

const (
	NameMaxLength     = 200
	MaxCodes          = 50
	CodeMaxLength     = 32
	MaxCategories     = 20
	CategoryMaxLength = 50
)

// FieldCipher encrypts item fields. *secrets.Cipher implements it.
type FieldCipher interface {
	Seal(plaintext string) (secrets.Field, error)
	Open(f secrets.Field) (string, error)
	HashForSearch(plaintext string) string
	EncryptInt(n int64) (string, error)
	DecryptInt(ciphertext string) (int64, error)
	EncryptStrings(values []string) (string, error)
	DecryptStrings(ciphertext string) ([]string, error)
}

type Service struct {
	storage Storage
	cipher  FieldCipher
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

func New(storage Storage, cipher FieldCipher, opts ...Option) *Service {
	if storage == nil || cipher == nil {
		panic("inventory: storage and cipher are required")
	}

	s := &Service{
		storage: storage,
		cipher:  cipher,
		log:     logger.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("inventory"))
	return s
}

func isDigits(s string) bool {
	return validator.ValidNumericString("", s).Check()
}

func isCategory(s string) bool {
	return s != "" && len([]rune(s)) <= CategoryMaxLength
}

// Create seals every field of in and stores the item.
func (s *Service) Create(ctx context.Context, in NewItem) (*Item, error) {
	in.Name = sanitizer.Trim(in.Name)
	in.Codes = sanitizer.Strings(in.Codes)
	in.Categories = sanitizer.Strings(in.Categories)

	if err := validator.Apply(
		validator.RequiredString("name", in.Name),
		validator.MaxLenString("name", in.Name, NameMaxLength),
		validator.NoControlChars("name", in.Name),
		validator.MaxLenSlice("codes", in.Codes, MaxCodes),
		validator.Each("codes", in.Codes, func(c string) bool { return isDigits(c) && len(c) <= CodeMaxLength }),
		validator.MinNum("quantity", in.Quantity, 0),
		validator.MaxLenSlice("categories", in.Categories, MaxCategories),
		validator.Each("categories", in.Categories, isCategory),
	); err != nil {
		return nil, err
	}

	item, err := s.seal(in)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Insert(ctx, item); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "store item created", slog.String("item_id", item.ID.Hex()), slog.Int("codes", len(in.Codes)))
	return s.open(ctx, item), nil
}

func (s *Service) seal(in NewItem) (*StoreItem, error) {
	name, err := s.cipher.Seal(in.Name)
	if err != nil {
		return nil, fmt.Errorf("seal name: %w", err)
	}
	codes, err := s.cipher.EncryptStrings(in.Codes)
	if err != nil {
		return nil, fmt.Errorf("encrypt codes: %w", err)
	}
	quantity, err := s.cipher.EncryptInt(in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("encrypt quantity: %w", err)
	}
	categories, err := s.cipher.EncryptStrings(in.Categories)
	if err != nil {
		return nil, fmt.Errorf("encrypt categories: %w", err)
	}

	hashes := make([]string, 0, len(in.Codes))
	for _, c := range in.Codes {
		hashes = append(hashes, s.cipher.HashForSearch(c))
	}

	return &StoreItem{
		ID:         bson.NewObjectID(),
		Name:       name,
		Codes:      codes,
		CodeHashes: hashes,
		Quantity:   quantity,
		Categories: categories,
		CreatedAt:  s.now().UTC(),
	}, nil
}

// open decrypts item. Unreadable fields are left at their zero value.
func (s *Service) open(ctx context.Context, item *StoreItem) *Item {
	out := &Item{
		ID:         item.ID.Hex(),
		Codes:      []string{},
		Categories: []string{},
		CreatedAt:  item.CreatedAt,
	}

	warn := func(field string, err error) {
		s.log.WarnContext(ctx, "failed to decrypt store item field",
			slog.String("item_id", out.ID),
			logger.Field(field),
			logger.Error(err),
		)
	}

	if name, err := s.cipher.Open(item.Name); err != nil {
		warn("name", err)
	} else {
		out.Name = name
	}

	if codes, err := s.cipher.DecryptStrings(item.Codes); err != nil {
		warn("codes", err)
	} else if codes != nil {
		out.Codes = codes
	}

	if qty, err := s.cipher.DecryptInt(item.Quantity); err != nil {
		warn("quantity", err)
	} else {
		out.Quantity = qty
	}

	if cats, err := s.cipher.DecryptStrings(item.Categories); err != nil {
		warn("categories", err)
	} else if cats != nil {
		out.Categories = cats
	}

	return out
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	items, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Item, 0, len(items))
	for _, it := range items {
		out = append(out, s.open(ctx, it))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, item), nil
}

// FindByCode returns the oldest item carrying code.
func (s *Service) FindByCode(ctx context.Context, code string) (*Item, error) {
	code = sanitizer.Trim(code)
	if err := validator.Apply(validator.ValidNumericString("code", code)); err != nil {
		return nil, err
	}

	item, err := s.storage.FindByCodeHash(ctx, s.cipher.HashForSearch(code))
	if err != nil {
		return nil, err
	}
	return s.open(ctx, item), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "store item deleted", slog.String("item_id", id))
	return nil
}
