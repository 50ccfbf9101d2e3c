package models

import "time"

// Revision is an immutable snapshot of a page or post body. Text carries its
// markup tag ("Markdown: ..." or "HTML: ..."). Revisions for one owner are
// kept newest first and no two may share an AsOf instant.
type Revision struct {
	AsOf time.Time `json:"AsOf"`
	Text string    `json:"Text"`
}

type MetaItem struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

type Page struct {
	Id              string     `json:"Id"`
	WebLogId        string     `json:"WebLogId"`
	AuthorId        string     `json:"AuthorId"`
	Title           string     `json:"Title"`
	Permalink       string     `json:"Permalink"`
	PublishedOn     time.Time  `json:"PublishedOn"`
	UpdatedOn       time.Time  `json:"UpdatedOn"`
	IsInPageList    bool       `json:"IsInPageList"`
	Template        *string    `json:"Template"`
	Text            string     `json:"Text"`
	Metadata        []MetaItem `json:"Metadata"`
	PriorPermalinks []string   `json:"PriorPermalinks"`
	Revisions       []Revision `json:"Revisions"`
}
