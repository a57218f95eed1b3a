package tools

import "errors"

var (
	ErrToolNotFound  = errors.New("tool not found")
	ErrSlugTaken     = errors.New("slug already taken")
	ErrSlugExhausted = errors.New("no free slug for label")
)
