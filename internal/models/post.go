package models

// Platform identifies the social network a post originated from.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{
	PlatformTwitter,
	PlatformFacebook,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformTikTok,
}

// IsValid checks if the platform is one of the supported networks.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok:
		return true
	default:
		return false
	}
}

// Sentiment classifies the tone of a post.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// AllSentiments lists every valid sentiment value.
var AllSentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// IsValid checks if the sentiment value is valid.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Category classifies the kind of content a post carries.
type Category string

const (
	CategoryEducational Category = "educational"
	CategoryNews        Category = "news"
	CategoryDiscussion  Category = "discussion"
	CategoryAdvice      Category = "advice"
	CategoryGeneral     Category = "general"
)

// IsValid checks if the category value is valid.
func (c Category) IsValid() bool {
	switch c {
	case CategoryEducational, CategoryNews, CategoryDiscussion, CategoryAdvice, CategoryGeneral:
		return true
	default:
		return false
	}
}

// MaxContentLength is the upper bound on post content size in characters.
const MaxContentLength = 10000

// Engagement holds the interaction counts for a post.
type Engagement struct {
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}

// Metadata holds auxiliary post attributes.
type Metadata struct {
	// Timestamp is kept as the raw ISO-8601 string it arrived with; the
	// validator guarantees it parses before any downstream use.
	Timestamp    string   `json:"timestamp"`
	Language     string   `json:"language"`
	VerifiedUser bool     `json:"verified_user"`
	HasMedia     bool     `json:"has_media"`
	Hashtags     []string `json:"hashtags"`
	Mentions     int      `json:"mentions"`
}

// Post is a fully validated social media record. Instances are only built
// through RawPost.Post after validation and are immutable by convention.
type Post struct {
	PostID     string     `json:"post_id"`
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Platform   Platform   `json:"platform"`
	Content    string     `json:"content"`
	Topic      string     `json:"topic,omitempty"`
	Engagement Engagement `json:"engagement"`
	Metadata   Metadata   `json:"metadata"`
	Sentiment  Sentiment  `json:"sentiment"`
	Category   Category   `json:"category"`
}

// Raw converts a strict Post back into the loose input representation. The
// generator uses this so everything entering the queue goes through the same
// raw stage regardless of origin.
func (p *Post) Raw() *RawPost {
	userID := p.UserID
	platform := string(p.Platform)
	sentiment := string(p.Sentiment)
	category := string(p.Category)
	raw := &RawPost{
		PostID:    &p.PostID,
		UserID:    &userID,
		Username:  &p.Username,
		Platform:  &platform,
		Content:   &p.Content,
		Sentiment: &sentiment,
		Category:  &category,
		Engagement: &RawEngagement{
			Likes:    &p.Engagement.Likes,
			Shares:   &p.Engagement.Shares,
			Comments: &p.Engagement.Comments,
			Views:    &p.Engagement.Views,
		},
		Metadata: &RawMetadata{
			Timestamp:    &p.Metadata.Timestamp,
			Language:     &p.Metadata.Language,
			VerifiedUser: &p.Metadata.VerifiedUser,
			HasMedia:     &p.Metadata.HasMedia,
			Hashtags:     p.Metadata.Hashtags,
			Mentions:     &p.Metadata.Mentions,
		},
	}
	if p.Topic != "" {
		raw.Topic = &p.Topic
	}
	return raw
}
