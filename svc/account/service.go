package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/secrets"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

const (
	DefaultIssuer     = "OpsDesk"
	DefaultQRCodeSize = 256

	UsernameMinLength = 3
	UsernameMaxLength = 64
	PasswordMinLength = 6
	PasswordMaxLength = 128
)

// FieldCipher encrypts sensitive fields. *secrets.Cipher implements it.
type FieldCipher interface {
	Seal(plaintext string) (secrets.Field, error)
	Open(f secrets.Field) (string, error)
	HashForSearch(plaintext string) string
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

type Service struct {
	storage Storage
	cipher  FieldCipher
	log     *slog.Logger
	issuer  string
	qrSize  int
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

// WithIssuer sets the issuer shown by authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

func WithQRCodeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.qrSize = size
		}
	}
}

// WithClock overrides the time source used for TOTP checks and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(storage Storage, cipher FieldCipher, opts ...Option) *Service {
	if storage == nil || cipher == nil {
		panic("account: storage and cipher are required")
	}

	s := &Service{
		storage: storage,
		cipher:  cipher,
		log:     logger.Discard(),
		issuer:  DefaultIssuer,
		qrSize:  DefaultQRCodeSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("account"))
	return s
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func validateUsername(username string) []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("username", username),
		validator.LenBetween("username", username, UsernameMinLength, UsernameMaxLength),
		validator.NoControlChars("username", username),
	}
}

func validatePassword(field, pass string) []validator.Rule {
	return []validator.Rule{
		validator.RequiredString(field, pass),
		validator.LenBetween(field, pass, PasswordMinLength, PasswordMaxLength),
	}
}

// profile decrypts u for display. An unreadable username is left empty.
func (s *Service) profile(ctx context.Context, u *User) *Profile {
	username, err := s.cipher.Open(u.Username)
	if err != nil {
		s.log.WarnContext(ctx, "failed to decrypt username",
			logger.UserID(u.ID.Hex()),
			logger.Field("username"),
			logger.Error(err),
		)
		username = ""
	}

	status := u.TOTP.Status
	if status == "" {
		status = TOTPUnset
	}

	return &Profile{
		ID:          u.ID.Hex(),
		Username:    username,
		Role:        u.Role,
		HasPassword: u.HasPassword(),
		TOTPStatus:  status,
		TOTPEnabled: status == TOTPEnabled,
		CreatedAt:   u.CreatedAt,
	}
}

func (s *Service) findByUsername(ctx context.Context, username string) (*User, error) {
	return s.storage.GetUserByUsernameHash(ctx, s.cipher.HashForSearch(username))
}
