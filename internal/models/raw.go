package models

import (
	"errors"
	"fmt"
)

// ErrIncompletePost is returned when converting a raw post that is missing
// required fields.
var ErrIncompletePost = errors.New("raw post is missing required fields")

// RawEngagement is the loose form of the engagement block. Nil pointers
// represent absent fields.
type RawEngagement struct {
	Likes    *int64 `json:"likes,omitempty"`
	Shares   *int64 `json:"shares,omitempty"`
	Comments *int64 `json:"comments,omitempty"`
	Views    *int64 `json:"views,omitempty"`
}

// RawMetadata is the loose form of the metadata block.
type RawMetadata struct {
	Timestamp    *string  `json:"timestamp,omitempty"`
	Language     *string  `json:"language,omitempty"`
	VerifiedUser *bool    `json:"verified_user,omitempty"`
	HasMedia     *bool    `json:"has_media,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	Mentions     *int     `json:"mentions,omitempty"`
}

// RawPost is the untyped input stage a record passes through before it
// becomes a strict Post. Every field is optional so that a missing key is
// representable as data (a validation failure) rather than a decode error.
type RawPost struct {
	PostID     *string        `json:"post_id,omitempty"`
	UserID     *int64         `json:"user_id,omitempty"`
	Username   *string        `json:"username,omitempty"`
	Platform   *string        `json:"platform,omitempty"`
	Content    *string        `json:"content,omitempty"`
	Topic      *string        `json:"topic,omitempty"`
	Engagement *RawEngagement `json:"engagement,omitempty"`
	Metadata   *RawMetadata   `json:"metadata,omitempty"`
	Sentiment  *string        `json:"sentiment,omitempty"`
	Category   *string        `json:"category,omitempty"`
}

// ID returns the post identifier for logging, or "unknown" when absent.
func (r *RawPost) ID() string {
	if r == nil || r.PostID == nil || *r.PostID == "" {
		return "unknown"
	}
	return *r.PostID
}

// Post converts the raw record into its strict form. It only performs the
// structural conversion; callers must validate first. A nil required block
// yields ErrIncompletePost rather than a panic.
func (r *RawPost) Post() (*Post, error) {
	if r == nil {
		return nil, ErrIncompletePost
	}
	if r.PostID == nil || r.UserID == nil || r.Username == nil || r.Platform == nil ||
		r.Content == nil || r.Sentiment == nil || r.Category == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncompletePost, r.ID())
	}
	e := r.Engagement
	if e == nil || e.Likes == nil || e.Shares == nil || e.Comments == nil || e.Views == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncompletePost, r.ID())
	}
	m := r.Metadata
	if m == nil || m.Timestamp == nil {
		return nil, fmt.Errorf("%w: %s", ErrIncompletePost, r.ID())
	}

	post := &Post{
		PostID:   *r.PostID,
		UserID:   *r.UserID,
		Username: *r.Username,
		Platform: Platform(*r.Platform),
		Content:  *r.Content,
		Engagement: Engagement{
			Likes:    *e.Likes,
			Shares:   *e.Shares,
			Comments: *e.Comments,
			Views:    *e.Views,
		},
		Metadata: Metadata{
			Timestamp: *m.Timestamp,
			Hashtags:  m.Hashtags,
		},
		Sentiment: Sentiment(*r.Sentiment),
		Category:  Category(*r.Category),
	}
	if r.Topic != nil {
		post.Topic = *r.Topic
	}
	if m.Language != nil {
		post.Metadata.Language = *m.Language
	}
	if m.VerifiedUser != nil {
		post.Metadata.VerifiedUser = *m.VerifiedUser
	}
	if m.HasMedia != nil {
		post.Metadata.HasMedia = *m.HasMedia
	}
	if m.Mentions != nil {
		post.Metadata.Mentions = *m.Mentions
	}
	return post, nil
}
