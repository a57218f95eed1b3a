package session

import "time"

type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"opsdesk_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	BindDevice bool          `env:"SESSION_BIND_DEVICE" envDefault:"true"`
	BindIP     bool          `env:"SESSION_BIND_IP" envDefault:"false"`
}
