package models

// Category groups posts; ParentId links it into a per-tenant forest and must
// never introduce a cycle.
type Category struct {
	Id          string  `json:"Id"`
	WebLogId    string  `json:"WebLogId"`
	Name        string  `json:"Name"`
	Slug        string  `json:"Slug"`
	Description *string `json:"Description"`
	ParentId    *string `json:"ParentId"`
}

// DisplayCategory is the view shape of a category: the ancestor chain is
// resolved (root first) and PostCount includes published posts assigned to
// any descendant category. Neither field is stored.
type DisplayCategory struct {
	Id          string   `json:"Id"`
	Slug        string   `json:"Slug"`
	Name        string   `json:"Name"`
	Description *string  `json:"Description"`
	ParentNames []string `json:"ParentNames"`
	PostCount   int      `json:"PostCount"`
}

// TagMap maps a free-text tag to the URL-safe value used in links.
type TagMap struct {
	Id       string `json:"Id"`
	WebLogId string `json:"WebLogId"`
	Tag      string `json:"Tag"`
	UrlValue string `json:"UrlValue"`
}
