package models

import (
	"strings"
	"time"
)

type AccessLevel = string

const (
	AccessAuthor        = AccessLevel("Author")
	AccessEditor        = AccessLevel("Editor")
	AccessWebLogAdmin   = AccessLevel("WebLogAdmin")
	AccessAdministrator = AccessLevel("Administrator")
)

type WebLogUser struct {
	Id            string      `json:"Id"`
	WebLogId      string      `json:"WebLogId"`
	Email         string      `json:"Email" validate:"required,email"`
	FirstName     string      `json:"FirstName"`
	LastName      string      `json:"LastName"`
	PreferredName string      `json:"PreferredName"`
	PasswordHash  string      `json:"PasswordHash"`
	Url           *string     `json:"Url"`
	AccessLevel   AccessLevel `json:"AccessLevel"`
	CreatedOn     time.Time   `json:"CreatedOn"`
	LastSeenOn    *time.Time  `json:"LastSeenOn"`
}

// DisplayName derives the name shown for the user in lists and bylines.
func (u WebLogUser) DisplayName() string {
	if name := strings.TrimSpace(u.PreferredName); name != "" {
		return name
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserName pairs a user id with its display name for author lookups.
type UserName struct {
	Id   string `json:"Id"`
	Name string `json:"Name"`
}
