package transform

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"feedpipe/internal/models"
)

func basePost() *models.Post {
	return &models.Post{
		PostID:   "post_1_ab12cd34",
		UserID:   1234,
		Username: "tech_enthusiast",
		Platform: models.PlatformTwitter,
		Content:  "Just discovered an amazing new tool for blockchain! #tech #innovation",
		Topic:    "blockchain",
		Engagement: models.Engagement{
			Likes:    100,
			Shares:   10,
			Comments: 5,
			Views:    2000,
		},
		Metadata: models.Metadata{
			Timestamp: "2026-08-26T09:15:00",
			Language:  "en",
			Hashtags:  []string{"#Blockchain", "#Crypto"},
			Mentions:  1,
		},
		Sentiment: models.SentimentPositive,
		Category:  models.CategoryGeneral,
	}
}

func TestDeterministicWithFixedClock(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	a := TransformAt(basePost(), now)
	b := TransformAt(basePost(), now)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("transform not deterministic:\n%+v\n%+v", a, b)
	}
	if a.ProcessedAt != now.Format(time.RFC3339) {
		t.Errorf("processed_at: got %q", a.ProcessedAt)
	}
}

func TestEngagementRate(t *testing.T) {
	now := time.Now()

	// (100+10+5)/2000*100 = 5.75
	pp := TransformAt(basePost(), now)
	if pp.EngagementRate != 5.75 {
		t.Errorf("engagement rate: got %v, want 5.75", pp.EngagementRate)
	}

	// Rounding to two decimals: (1+1+1)/7*100 = 42.857... -> 42.86
	post := basePost()
	post.Engagement = models.Engagement{Likes: 1, Shares: 1, Comments: 1, Views: 7}
	pp = TransformAt(post, now)
	if pp.EngagementRate != 42.86 {
		t.Errorf("engagement rate rounding: got %v, want 42.86", pp.EngagementRate)
	}
}

func TestEngagementRateZeroViews(t *testing.T) {
	post := basePost()
	post.Engagement = models.Engagement{Likes: 5, Shares: 0, Comments: 0, Views: 0}

	pp := TransformAt(post, time.Now())
	if pp.EngagementRate != 0 {
		t.Errorf("zero views must give rate 0, got %v", pp.EngagementRate)
	}
}

func TestPopularityScore(t *testing.T) {
	// 100*1.0 + 10*3.0 + 5*2.0 + 2000*0.1 = 340
	pp := TransformAt(basePost(), time.Now())
	if pp.PopularityScore != 340 {
		t.Errorf("popularity score: got %v, want 340", pp.PopularityScore)
	}
}

func TestPopularityScoreIncreasesWithShares(t *testing.T) {
	now := time.Now()
	prev := -1.0

	for shares := int64(0); shares < 100; shares += 7 {
		post := basePost()
		post.Engagement.Shares = shares
		score := TransformAt(post, now).PopularityScore
		if score <= prev {
			t.Fatalf("score not strictly increasing in shares: %v after %v", score, prev)
		}
		prev = score
	}
}

func TestPostSizeBuckets(t *testing.T) {
	now := time.Now()
	cases := []struct {
		chars int
		want  models.PostSize
	}{
		{1, models.PostSizeShort},
		{49, models.PostSizeShort},
		{50, models.PostSizeMedium},
		{199, models.PostSizeMedium},
		{200, models.PostSizeLong},
		{5000, models.PostSizeLong},
	}

	for _, tc := range cases {
		post := basePost()
		post.Content = strings.Repeat("x", tc.chars)
		pp := TransformAt(post, now)
		if pp.PostSize != tc.want {
			t.Errorf("%d chars: got %q, want %q", tc.chars, pp.PostSize, tc.want)
		}
		if pp.ContentMetrics.CharacterCount != tc.chars {
			t.Errorf("%d chars: character_count %d", tc.chars, pp.ContentMetrics.CharacterCount)
		}
	}
}

func TestMultibyteContentCountsCharacters(t *testing.T) {
	now := time.Now()

	// 49 two-byte runes is 98 bytes but still a short post.
	post := basePost()
	post.Content = strings.Repeat("é", 49)
	pp := TransformAt(post, now)
	if pp.PostSize != models.PostSizeShort {
		t.Errorf("49 multibyte chars: got %q, want %q", pp.PostSize, models.PostSizeShort)
	}
	if pp.ContentMetrics.CharacterCount != 49 {
		t.Errorf("character count: got %d, want 49", pp.ContentMetrics.CharacterCount)
	}

	post.Content = strings.Repeat("é", 200)
	pp = TransformAt(post, now)
	if pp.PostSize != models.PostSizeLong {
		t.Errorf("200 multibyte chars: got %q, want %q", pp.PostSize, models.PostSizeLong)
	}
}

func TestContentMetrics(t *testing.T) {
	post := basePost()
	post.Content = "one two three four"

	pp := TransformAt(post, time.Now())
	if pp.ContentMetrics.WordCount != 4 {
		t.Errorf("word count: got %d, want 4", pp.ContentMetrics.WordCount)
	}
	if pp.ContentMetrics.CharacterCount != 18 {
		t.Errorf("character count: got %d, want 18", pp.ContentMetrics.CharacterCount)
	}
	if pp.ContentMetrics.HashtagCount != 2 {
		t.Errorf("hashtag count: got %d, want 2", pp.ContentMetrics.HashtagCount)
	}
	if pp.ContentMetrics.MentionCount != 1 {
		t.Errorf("mention count: got %d, want 1", pp.ContentMetrics.MentionCount)
	}
}

func TestPostHourExtraction(t *testing.T) {
	post := basePost()
	post.Metadata.Timestamp = "2026-08-26T23:59:59"

	pp := TransformAt(post, time.Now())
	if pp.PostHour != 23 {
		t.Errorf("post hour: got %d, want 23", pp.PostHour)
	}

	post.Metadata.Timestamp = "2026-08-26T00:00:01"
	pp = TransformAt(post, time.Now())
	if pp.PostHour != 0 {
		t.Errorf("post hour: got %d, want 0", pp.PostHour)
	}
}

func TestUnvalidatedTimestampPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unparseable timestamp on a post that skipped validation")
		}
	}()

	post := basePost()
	post.Metadata.Timestamp = "garbage"
	TransformAt(post, time.Now())
}
