package models

// Archive is the portable form of one web log: the tenant document plus
// every entity scoped to it, with page and post revisions inline. Themes are
// not tenant-scoped and travel separately.
type Archive struct {
	WebLog     WebLog       `json:"WebLog"`
	Users      []WebLogUser `json:"Users"`
	Categories []Category   `json:"Categories"`
	TagMaps    []TagMap     `json:"TagMappings"`
	Pages      []Page       `json:"Pages"`
	Posts      []Post       `json:"Posts"`
	Uploads    []Upload     `json:"Uploads"`
}
