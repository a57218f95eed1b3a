package audit

import "time"

type Config struct {
	Enabled   bool          `env:"AUDIT_ENABLED" envDefault:"true"`
	Retention time.Duration `env:"AUDIT_RETENTION" envDefault:"2160h"`
	Async     AsyncOptions
}
