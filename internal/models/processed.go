package models

// PostSize buckets a post by content length.
type PostSize string

const (
	PostSizeShort  PostSize = "short"  // < 50 characters
	PostSizeMedium PostSize = "medium" // < 200 characters
	PostSizeLong   PostSize = "long"
)

// ContentMetrics holds simple counts derived from the post content.
type ContentMetrics struct {
	CharacterCount int `json:"character_count"`
	WordCount      int `json:"word_count"`
	HashtagCount   int `json:"hashtag_count"`
	MentionCount   int `json:"mention_count"`
}

// ProcessedPost is a Post enriched with derived analytics fields.
type ProcessedPost struct {
	Post

	// ProcessedAt is the ISO-8601 wall-clock time the record was transformed.
	ProcessedAt string `json:"processed_at"`

	// EngagementRate is (likes+shares+comments)/views as a percentage,
	// rounded to two decimals. Zero when views is zero.
	EngagementRate float64 `json:"engagement_rate"`

	ContentMetrics ContentMetrics `json:"content_metrics"`

	// PopularityScore is the weighted engagement combination, unrounded.
	PopularityScore float64 `json:"popularity_score"`

	PostSize PostSize `json:"post_size"`

	// PostHour is the hour of day (0-23) the post was published.
	PostHour int `json:"post_hour"`
}
