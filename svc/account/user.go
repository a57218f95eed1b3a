package account

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/secrets"
)

type TOTPStatus string

const (
	TOTPUnset   TOTPStatus = "unset"
	TOTPPending TOTPStatus = "pending"
	TOTPEnabled TOTPStatus = "enabled"
)

// TOTP is the second factor state. Secret holds ciphertext.
type TOTP struct {
	Secret string     `bson:"secret,omitempty"`
	Status TOTPStatus `bson:"status"`
}

// User is the stored user document.
type User struct {
	ID        bson.ObjectID        `bson:"_id"`
	Username  secrets.Field        `bson:"username"`
	Password  *password.Credential `bson:"password,omitempty"`
	Role      rbac.Role            `bson:"role"`
	TOTP      TOTP                 `bson:"totp"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.Password != nil && !u.Password.IsZero()
}

func (u *User) TOTPEnabled() bool {
	return u.TOTP.Status == TOTPEnabled
}

// state returns the status with documents written before the field existed
// read as unset.
func (t TOTP) state() TOTPStatus {
	if t.Status == "" {
		return TOTPUnset
	}
	return t.Status
}

// Profile is the decrypted view of a user.
type Profile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        rbac.Role  `json:"role"`
	HasPassword bool       `json:"hasPassword"`
	TOTPStatus  TOTPStatus `json:"totpStatus"`
	TOTPEnabled bool       `json:"totpEnabled"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LoginResult is the outcome of a login attempt.
type LoginResult struct {
	User             *Profile
	RequiresPassword bool
}

// TOTPSetup is returned when a second factor enrolment starts.
type TOTPSetup struct {
	Secret    string `json:"secret"`
	URI       string `json:"uri"`
	QRCodeURL string `json:"qrCodeUrl"`
}
