package transform

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"feedpipe/internal/models"
)

// Popularity score weights. Shares carry the most signal, views the least.
const (
	likeWeight    = 1.0
	shareWeight   = 3.0
	commentWeight = 2.0
	viewWeight    = 0.1
)

// Content size bucket thresholds in characters.
const (
	shortPostLimit  = 50
	mediumPostLimit = 200
)

// Transform enriches a validated post with derived analytics fields using
// the current wall clock for the processing timestamp.
func Transform(post *models.Post) *models.ProcessedPost {
	return TransformAt(post, time.Now())
}

// TransformAt is Transform with an explicit clock. Given the same post and
// clock it is fully deterministic. The post must have passed validation;
// in particular the metadata timestamp is assumed parseable.
func TransformAt(post *models.Post, now time.Time) *models.ProcessedPost {
	e := post.Engagement

	var rate float64
	if e.Views > 0 {
		total := e.Likes + e.Shares + e.Comments
		rate = round2(float64(total) / float64(e.Views) * 100)
	}

	score := float64(e.Likes)*likeWeight +
		float64(e.Shares)*shareWeight +
		float64(e.Comments)*commentWeight +
		float64(e.Views)*viewWeight

	// Characters, not bytes, so multibyte content buckets correctly.
	charCount := utf8.RuneCountInString(post.Content)

	postTime, err := models.ParseTimestamp(post.Metadata.Timestamp)
	if err != nil {
		// Validation guarantees a parseable timestamp; reaching this is a
		// pipeline wiring bug, not a data error.
		panic(fmt.Sprintf("transform: unparseable timestamp %q on validated post %s",
			post.Metadata.Timestamp, post.PostID))
	}

	return &models.ProcessedPost{
		Post:           *post,
		ProcessedAt:    now.Format(time.RFC3339),
		EngagementRate: rate,
		ContentMetrics: models.ContentMetrics{
			CharacterCount: charCount,
			WordCount:      len(strings.Fields(post.Content)),
			HashtagCount:   len(post.Metadata.Hashtags),
			MentionCount:   post.Metadata.Mentions,
		},
		PopularityScore: score,
		PostSize:        bucketSize(charCount),
		PostHour:        postTime.Hour(),
	}
}

func bucketSize(charCount int) models.PostSize {
	switch {
	case charCount < shortPostLimit:
		return models.PostSizeShort
	case charCount < mediumPostLimit:
		return models.PostSizeMedium
	default:
		return models.PostSizeLong
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
