package audit

import (
	"fmt"
	"time"
)

// Result is the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// ResultForStatus maps an HTTP status to a Result: 5xx is an error, 4xx a
// failure and everything else a success.
func ResultForStatus(status int) Result {
	switch {
	case status >= 500:
		return ResultError
	case status >= 400:
		return ResultFailure
	default:
		return ResultSuccess
	}
}

// Event is a single audit log entry.
type Event struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Result     Result    `json:"result"`
	Status     int       `json:"status"`
	RequestID  string    `json:"requestId,omitempty"`
	IP         string    `json:"ip,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e Event) validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Criteria filters a listing of events. Empty fields match everything.
type Criteria struct {
	UserID   string
	Resource string
	Limit    int
}

// Normalize clamps Limit to (0, MaxLimit], using DefaultLimit when unset.
func (c Criteria) Normalize() Criteria {
	switch {
	case c.Limit <= 0:
		c.Limit = DefaultLimit
	case c.Limit > MaxLimit:
		c.Limit = MaxLimit
	}
	return c
}
