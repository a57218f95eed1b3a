package tools

import "time"

type Tool struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Changes holds the mutable fields of a tool.
type Changes struct {
	Label       string
	Description string
	Visible     bool
}
