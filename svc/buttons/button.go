package buttons

import (
	"encoding/json"
	"time"
)

type Button struct {
	ID        string
	Name      string
	Action    Action
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type buttonJSON struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ActionType ActionType `json:"actionType"`
	Parameters Action     `json:"parameters"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (b Button) MarshalJSON() ([]byte, error) {
	out := buttonJSON{
		ID:         b.ID,
		Name:       b.Name,
		Parameters: b.Action,
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.Action != nil {
		out.ActionType = b.Action.Type()
	}
	return json.Marshal(out)
}
