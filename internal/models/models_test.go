package models

import (
	"encoding/json"
	"testing"
	"time"
)

func samplePost() *Post {
	return &Post{
		PostID:   "post_1_ab12cd34",
		UserID:   4242,
		Username: "data_scientist",
		Platform: PlatformTwitter,
		Content:  "Tutorial: How to master data science in 5 simple steps",
		Topic:    "data science",
		Engagement: Engagement{
			Likes:    120,
			Shares:   14,
			Comments: 9,
			Views:    5600,
		},
		Metadata: Metadata{
			Timestamp:    "2026-08-26T14:30:00",
			Language:     "en",
			VerifiedUser: true,
			HasMedia:     false,
			Hashtags:     []string{"#DataScience", "#ML"},
			Mentions:     2,
		},
		Sentiment: SentimentPositive,
		Category:  CategoryEducational,
	}
}

func TestRawRoundTrip(t *testing.T) {
	post := samplePost()

	back, err := post.Raw().Post()
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	if back.PostID != post.PostID {
		t.Errorf("post_id: got %q, want %q", back.PostID, post.PostID)
	}
	if back.UserID != post.UserID {
		t.Errorf("user_id: got %d, want %d", back.UserID, post.UserID)
	}
	if back.Platform != post.Platform {
		t.Errorf("platform: got %q, want %q", back.Platform, post.Platform)
	}
	if back.Engagement != post.Engagement {
		t.Errorf("engagement: got %+v, want %+v", back.Engagement, post.Engagement)
	}
	if back.Metadata.Timestamp != post.Metadata.Timestamp {
		t.Errorf("timestamp: got %q, want %q", back.Metadata.Timestamp, post.Metadata.Timestamp)
	}
	if len(back.Metadata.Hashtags) != 2 {
		t.Errorf("hashtags: got %d, want 2", len(back.Metadata.Hashtags))
	}
	if back.Topic != post.Topic {
		t.Errorf("topic: got %q, want %q", back.Topic, post.Topic)
	}
}

func TestPostConversionMissingFields(t *testing.T) {
	raw := samplePost().Raw()
	raw.Engagement = nil

	if _, err := raw.Post(); err == nil {
		t.Fatal("expected error for missing engagement block")
	}

	raw = samplePost().Raw()
	raw.Metadata.Timestamp = nil
	if _, err := raw.Post(); err == nil {
		t.Fatal("expected error for missing timestamp")
	}

	var nilRaw *RawPost
	if _, err := nilRaw.Post(); err == nil {
		t.Fatal("expected error for nil raw post")
	}
}

func TestRawPostID(t *testing.T) {
	raw := samplePost().Raw()
	if raw.ID() != "post_1_ab12cd34" {
		t.Errorf("got %q", raw.ID())
	}

	raw.PostID = nil
	if raw.ID() != "unknown" {
		t.Errorf("missing id: got %q, want unknown", raw.ID())
	}

	var nilRaw *RawPost
	if nilRaw.ID() != "unknown" {
		t.Errorf("nil raw: got %q, want unknown", nilRaw.ID())
	}
}

func TestRawPostMissingKeysInJSON(t *testing.T) {
	// A record arriving without the engagement key must decode into a nil
	// block, not an error.
	payload := []byte(`{"post_id":"p1","user_id":7,"content":"hi"}`)

	var raw RawPost
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.Engagement != nil {
		t.Error("expected nil engagement for missing key")
	}
	if raw.PostID == nil || *raw.PostID != "p1" {
		t.Error("expected post_id to decode")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []string{
		"2026-08-26T14:30:00Z",
		"2026-08-26T14:30:00+02:00",
		"2026-08-26T14:30:00",
		"2026-08-26T14:30:00.123456",
		"2026-08-26 14:30:00",
	}
	for _, ts := range cases {
		parsed, err := ParseTimestamp(ts)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) failed: %v", ts, err)
			continue
		}
		if parsed.Hour() != 14 {
			t.Errorf("ParseTimestamp(%q).Hour() = %d, want 14", ts, parsed.Hour())
		}
	}

	if _, err := ParseTimestamp("not a timestamp"); err == nil {
		t.Error("expected error for garbage input")
	}
	if _, err := ParseTimestamp(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestEnumValidity(t *testing.T) {
	for _, p := range AllPlatforms {
		if !p.IsValid() {
			t.Errorf("platform %q should be valid", p)
		}
	}
	if Platform("myspace").IsValid() {
		t.Error("unknown platform should be invalid")
	}
	if Sentiment("ecstatic").IsValid() {
		t.Error("unknown sentiment should be invalid")
	}
	if Category("memes").IsValid() {
		t.Error("unknown category should be invalid")
	}
}

func TestProcessedPostSerialization(t *testing.T) {
	pp := &ProcessedPost{
		Post:           *samplePost(),
		ProcessedAt:    time.Now().Format(time.RFC3339),
		EngagementRate: 2.55,
		ContentMetrics: ContentMetrics{
			CharacterCount: 54,
			WordCount:      10,
			HashtagCount:   2,
			MentionCount:   2,
		},
		PopularityScore: 740.0,
		PostSize:        PostSizeMedium,
		PostHour:        14,
	}

	data, err := json.Marshal(pp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"post_id", "engagement", "metadata", "processed_at",
		"engagement_rate", "content_metrics", "popularity_score", "post_size", "post_hour"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("serialized processed post missing %q", key)
		}
	}
}
