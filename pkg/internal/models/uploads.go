package models

import "time"

// Upload is a binary file stored in the data store when the owning web log
// keeps its uploads there rather than on disk.
type Upload struct {
	Id        string    `json:"Id"`
	WebLogId  string    `json:"WebLogId"`
	Path      string    `json:"Path"`
	UpdatedOn time.Time `json:"UpdatedOn"`
	Data      []byte    `json:"Data"`
}
