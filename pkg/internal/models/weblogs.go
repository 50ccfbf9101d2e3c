package models

type UploadDestination = string

const (
	UploadToDatabase = UploadDestination("Database")
	UploadToDisk     = UploadDestination("Disk")
)

type CustomFeedSourceType = string

const (
	CustomFeedSourceCategory = CustomFeedSourceType("Category")
	CustomFeedSourceTag      = CustomFeedSourceType("Tag")
)

// WebLog is the tenant root; every other entity is scoped to exactly one.
type WebLog struct {
	Id            string            `json:"Id" validate:"required"`
	Name          string            `json:"Name" validate:"required"`
	Slug          string            `json:"Slug" validate:"required,lowercase"`
	Subtitle      *string           `json:"Subtitle"`
	DefaultPage   string            `json:"DefaultPage"`
	PostsPerPage  int               `json:"PostsPerPage" validate:"gt=0"`
	ThemeId       string            `json:"ThemeId"`
	UrlBase       string            `json:"UrlBase" validate:"required,url"`
	TimeZone      string            `json:"TimeZone" validate:"required"`
	Rss           RssOptions        `json:"Rss"`
	AutoHtmx      bool              `json:"AutoHtmx"`
	Uploads       UploadDestination `json:"Uploads"`
	RedirectRules []RedirectRule    `json:"RedirectRules"`
}

type RssOptions struct {
	IsFeedEnabled     bool         `json:"IsFeedEnabled"`
	FeedName          string       `json:"FeedName"`
	ItemsInFeed       *int         `json:"ItemsInFeed"`
	IsCategoryEnabled bool         `json:"IsCategoryEnabled"`
	IsTagEnabled      bool         `json:"IsTagEnabled"`
	Copyright         *string      `json:"Copyright"`
	CustomFeeds       []CustomFeed `json:"CustomFeeds"`
}

// CustomFeed is an extra syndication feed fed by one category or one tag.
type CustomFeed struct {
	Id      string           `json:"Id"`
	Source  CustomFeedSource `json:"Source"`
	Path    string           `json:"Path"`
	Podcast *PodcastOptions  `json:"Podcast"`
}

type CustomFeedSource struct {
	Type  CustomFeedSourceType `json:"Type"`
	Value string               `json:"Value"`
}

type PodcastOptions struct {
	Title            string  `json:"Title"`
	Subtitle         *string `json:"Subtitle"`
	ItemsInFeed      int     `json:"ItemsInFeed"`
	Summary          string  `json:"Summary"`
	DisplayedAuthor  string  `json:"DisplayedAuthor"`
	Email            string  `json:"Email"`
	ImageUrl         string  `json:"ImageUrl"`
	AppleCategory    string  `json:"AppleCategory"`
	AppleSubcategory *string `json:"AppleSubcategory"`
	Explicit         string  `json:"Explicit"`
	DefaultMediaType *string `json:"DefaultMediaType"`
	MediaBaseUrl     *string `json:"MediaBaseUrl"`
	PodcastGuid      *string `json:"PodcastGuid"`
	FundingUrl       *string `json:"FundingUrl"`
	FundingText      *string `json:"FundingText"`
	Medium           *string `json:"Medium"`
}

// RedirectRule rewrites a request path, optionally via regular expression.
type RedirectRule struct {
	From    string `json:"From"`
	To      string `json:"To"`
	IsRegex bool   `json:"IsRegex"`
}
