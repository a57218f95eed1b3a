package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/qrcode"
	"github.com/dmitrymomot/opsdesk/pkg/statemachine"
	"github.com/dmitrymomot/opsdesk/pkg/totp"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

type totpEvent string

const (
	totpSetup   totpEvent = "setup"
	totpConfirm totpEvent = "confirm"
	totpDisable totpEvent = "disable"
)

// totpFlow is the second factor lifecycle. Repeating setup replaces a
// pending secret; disabling always returns to unset.
var totpFlow = statemachine.MustNew(
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPUnset, Event: totpSetup, To: TOTPPending},
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPPending, Event: totpSetup, To: TOTPPending},
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPPending, Event: totpConfirm, To: TOTPEnabled},
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPUnset, Event: totpDisable, To: TOTPUnset},
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPPending, Event: totpDisable, To: TOTPUnset},
	statemachine.Transition[TOTPStatus, totpEvent]{From: TOTPEnabled, Event: totpDisable, To: TOTPUnset},
)

// SetupTOTP stores a fresh secret in the pending state. Calling it again
// before enabling replaces the pending secret.
func (s *Service) SetupTOTP(ctx context.Context, userID string) (*TOTPSetup, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, err := totpFlow.Next(user.TOTP.state(), totpSetup)
	if err != nil {
		return nil, ErrTOTPAlreadyEnabled
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	account := s.profile(ctx, user).Username
	if account == "" {
		account = user.ID.Hex()
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: account,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.DataURI(uri, s.qrSize)
	if err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.EncryptString(secret)
	if err != nil {
		return nil, fmt.Errorf("encrypt totp secret: %w", err)
	}

	if err := s.storage.UpdateTOTP(ctx, userID, TOTP{Secret: encrypted, Status: next}); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "totp setup started", logger.UserID(userID), logger.Event("totp_setup"))
	return &TOTPSetup{Secret: secret, URI: uri, QRCodeURL: qr}, nil
}

// EnableTOTP confirms a pending secret with a code generated from it.
func (s *Service) EnableTOTP(ctx context.Context, userID, code string) error {
	if err := validator.Apply(validator.ValidOTP("token", code, totp.DefaultDigits)); err != nil {
		return err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.TOTPEnabled() {
		return ErrTOTPAlreadyEnabled
	}
	next, err := totpFlow.Next(user.TOTP.state(), totpConfirm)
	if err != nil || user.TOTP.Secret == "" {
		return ErrTOTPNotPending
	}

	if err := s.checkCode(ctx, user, code); err != nil {
		return err
	}

	if err := s.storage.UpdateTOTP(ctx, userID, TOTP{Secret: user.TOTP.Secret, Status: next}); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "totp enabled", logger.UserID(userID), logger.Event("totp_enabled"))
	return nil
}

// DisableTOTP discards the secret. An authenticated session is the only
// requirement.
func (s *Service) DisableTOTP(ctx context.Context, userID string) error {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	next, err := totpFlow.Next(user.TOTP.state(), totpDisable)
	if err != nil {
		return err
	}

	if err := s.storage.UpdateTOTP(ctx, userID, TOTP{Status: next}); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "totp disabled", logger.UserID(userID), logger.Event("totp_disabled"))
	return nil
}

// checkCode verifies code against the stored secret of user.
func (s *Service) checkCode(ctx context.Context, user *User, code string) error {
	secret, err := s.cipher.DecryptString(user.TOTP.Secret)
	if err != nil {
		s.log.WarnContext(ctx, "failed to decrypt totp secret",
			logger.UserID(user.ID.Hex()),
			logger.Field("totp.secret"),
			logger.Error(err),
		)
		return ErrInvalidTOTP
	}

	ok, err := totp.ValidateTOTPAt(secret, code, s.now())
	if err != nil {
		if errors.Is(err, totp.ErrInvalidOTP) {
			return ErrInvalidTOTP
		}
		return fmt.Errorf("validate totp: %w", err)
	}
	if !ok {
		return ErrInvalidTOTP
	}
	return nil
}
