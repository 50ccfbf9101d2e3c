package models

import "github.com/google/uuid"

// NewId mints an identifier for a newly created entity. Ids are plain
// lowercase UUID strings so they survive round trips through every backend
// unchanged.
func NewId() string {
	return uuid.NewString()
}
