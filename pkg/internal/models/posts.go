package models

import "time"

type PostStatus = string

const (
	Draft     = PostStatus("Draft")
	Published = PostStatus("Published")
)

type Post struct {
	Id              string     `json:"Id"`
	WebLogId        string     `json:"WebLogId"`
	AuthorId        string     `json:"AuthorId"`
	Status          PostStatus `json:"Status"`
	Title           string     `json:"Title"`
	Permalink       string     `json:"Permalink"`
	PublishedOn     *time.Time `json:"PublishedOn"`
	UpdatedOn       time.Time  `json:"UpdatedOn"`
	Template        *string    `json:"Template"`
	Text            string     `json:"Text"`
	CategoryIds     []string   `json:"CategoryIds"`
	Tags            []string   `json:"Tags"`
	Episode         *Episode   `json:"Episode"`
	Metadata        []MetaItem `json:"Metadata"`
	PriorPermalinks []string   `json:"PriorPermalinks"`
	Revisions       []Revision `json:"Revisions"`
}

// Episode is the podcast sub-record of a post.
type Episode struct {
	Media       string  `json:"Media"`
	Length      int64   `json:"Length"`
	Duration    *string `json:"Duration"`
	MediaType   *string `json:"MediaType"`
	ImageUrl    *string `json:"ImageUrl"`
	Subtitle    *string `json:"Subtitle"`
	Explicit    *string `json:"Explicit"`
	ChapterFile *string `json:"ChapterFile"`
	ChapterType *string `json:"ChapterType"`
}
