package analytics

import (
	"math"
	"sort"
	"time"

	"feedpipe/internal/models"
)

// recentErrorCount is how many error-log entries analytics surface.
const recentErrorCount = 5

// topPostCount is how many top performers analytics surface.
const topPostCount = 5

// Summary holds the headline processing numbers.
type Summary struct {
	TotalProcessed      int     `json:"total_processed"`
	TotalFailed         int     `json:"total_failed"`
	SuccessRate         float64 `json:"success_rate"`
	AvgProcessingTimeMS float64 `json:"avg_processing_time_ms"`
}

// EngagementAnalytics groups the engagement-derived aggregates.
type EngagementAnalytics struct {
	AvgEngagementByPlatform map[models.Platform]float64 `json:"avg_engagement_by_platform"`
	HourlyPostDistribution  map[int]int                 `json:"hourly_post_distribution"`
}

// TopPost is the ranked-list view of a processed post.
type TopPost struct {
	PostID          string          `json:"post_id"`
	Platform        models.Platform `json:"platform"`
	PopularityScore float64         `json:"popularity_score"`
	EngagementRate  float64         `json:"engagement_rate"`
}

// ErrorEntry records one validation failure.
type ErrorEntry struct {
	PostID    string   `json:"post_id"`
	Errors    []string `json:"errors"`
	Timestamp string   `json:"timestamp"`
}

// ErrorSummary surfaces the failure tally and the most recent entries.
type ErrorSummary struct {
	TotalErrors  int          `json:"total_errors"`
	RecentErrors []ErrorEntry `json:"recent_errors"`
}

// Analytics is the read-only snapshot exported when the pipeline finishes.
// Distribution maps are always non-nil so readers can range over them.
type Analytics struct {
	Summary               Summary                   `json:"summary"`
	PlatformDistribution  map[models.Platform]int   `json:"platform_distribution"`
	TopicDistribution     map[string]int            `json:"topic_distribution"`
	SentimentDistribution map[models.Sentiment]int  `json:"sentiment_distribution"`
	CategoryDistribution  map[models.Category]int   `json:"category_distribution"`
	EngagementAnalytics   EngagementAnalytics       `json:"engagement_analytics"`
	TopPerformingPosts    []TopPost                 `json:"top_performing_posts"`
	ErrorSummary          ErrorSummary              `json:"error_summary"`
}

// Aggregator accumulates running statistics over processed posts. It is
// owned exclusively by the consumer loop and is not safe for concurrent
// use: a single goroutine mutates it, and Snapshot may only be called once
// updates have stopped (or by the same goroutine).
type Aggregator struct {
	processed int
	failed    int

	platformCounts  map[models.Platform]int
	topicCounts     map[string]int
	sentimentCounts map[models.Sentiment]int
	categoryCounts  map[models.Category]int
	hourlyCounts    map[int]int

	engagementRates map[models.Platform][]float64
	latencies       []time.Duration

	// posts keeps insertion order for stable top-N tie breaking.
	posts []*models.ProcessedPost

	errorLog    []ErrorEntry
	errorsTotal int
	errorCap    int

	now func() time.Time
}

// New creates an Aggregator. errorCap bounds error-log retention; retention
// below the surfaced last-5 window is raised to that window.
func New(errorCap int) *Aggregator {
	if errorCap < recentErrorCount {
		errorCap = recentErrorCount
	}
	return &Aggregator{
		platformCounts:  make(map[models.Platform]int),
		topicCounts:     make(map[string]int),
		sentimentCounts: make(map[models.Sentiment]int),
		categoryCounts:  make(map[models.Category]int),
		hourlyCounts:    make(map[int]int),
		engagementRates: make(map[models.Platform][]float64),
		errorCap:        errorCap,
		now:             time.Now,
	}
}

// Update folds one successfully processed post into the running statistics.
func (a *Aggregator) Update(pp *models.ProcessedPost, latency time.Duration) {
	a.processed++

	a.platformCounts[pp.Platform]++

	topic := pp.Topic
	if topic == "" {
		topic = "unknown"
	}
	a.topicCounts[topic]++

	a.sentimentCounts[pp.Sentiment]++
	a.categoryCounts[pp.Category]++
	a.hourlyCounts[pp.PostHour]++

	a.engagementRates[pp.Platform] = append(a.engagementRates[pp.Platform], pp.EngagementRate)
	a.latencies = append(a.latencies, latency)
	a.posts = append(a.posts, pp)
}

// RecordFailure logs a validation failure for a record.
func (a *Aggregator) RecordFailure(postID string, reasons []string) {
	a.failed++
	a.errorsTotal++
	a.errorLog = append(a.errorLog, ErrorEntry{
		PostID:    postID,
		Errors:    reasons,
		Timestamp: a.now().Format(time.RFC3339),
	})
	// Ring-cap retention; only the last few entries are ever surfaced.
	if len(a.errorLog) > a.errorCap {
		a.errorLog = a.errorLog[len(a.errorLog)-a.errorCap:]
	}
}

// Processed returns the successful record count.
func (a *Aggregator) Processed() int { return a.processed }

// Failed returns the dropped record count.
func (a *Aggregator) Failed() int { return a.failed }

// ProcessedPosts returns the processed records in consumption order. The
// returned slice is shared; callers must not mutate it.
func (a *Aggregator) ProcessedPosts() []*models.ProcessedPost {
	return a.posts
}

// Snapshot computes the analytics document from current state. Read-only.
func (a *Aggregator) Snapshot() Analytics {
	avgByPlatform := make(map[models.Platform]float64, len(a.engagementRates))
	for platform, rates := range a.engagementRates {
		if len(rates) == 0 {
			continue
		}
		var sum float64
		for _, r := range rates {
			sum += r
		}
		avgByPlatform[platform] = round2(sum / float64(len(rates)))
	}

	var avgLatencyMS float64
	if len(a.latencies) > 0 {
		var total time.Duration
		for _, d := range a.latencies {
			total += d
		}
		avgLatencyMS = round2(float64(total) / float64(len(a.latencies)) / float64(time.Millisecond))
	}

	recent := a.errorLog
	if len(recent) > recentErrorCount {
		recent = recent[len(recent)-recentErrorCount:]
	}
	recentCopy := make([]ErrorEntry, len(recent))
	copy(recentCopy, recent)

	return Analytics{
		Summary: Summary{
			TotalProcessed:      a.processed,
			TotalFailed:         a.failed,
			SuccessRate:         SuccessRate(a.processed, a.failed),
			AvgProcessingTimeMS: avgLatencyMS,
		},
		PlatformDistribution:  copyMap(a.platformCounts),
		TopicDistribution:     copyMap(a.topicCounts),
		SentimentDistribution: copyMap(a.sentimentCounts),
		CategoryDistribution:  copyMap(a.categoryCounts),
		EngagementAnalytics: EngagementAnalytics{
			AvgEngagementByPlatform: avgByPlatform,
			HourlyPostDistribution:  copyMap(a.hourlyCounts),
		},
		TopPerformingPosts: a.topPosts(topPostCount),
		ErrorSummary: ErrorSummary{
			TotalErrors:  a.errorsTotal,
			RecentErrors: recentCopy,
		},
	}
}

// topPosts ranks by popularity score descending; ties keep insertion order.
func (a *Aggregator) topPosts(n int) []TopPost {
	ranked := make([]*models.ProcessedPost, len(a.posts))
	copy(ranked, a.posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PopularityScore > ranked[j].PopularityScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make([]TopPost, 0, len(ranked))
	for _, pp := range ranked {
		top = append(top, TopPost{
			PostID:          pp.PostID,
			Platform:        pp.Platform,
			PopularityScore: pp.PopularityScore,
			EngagementRate:  pp.EngagementRate,
		})
	}
	return top
}

// SuccessRate returns processed/(processed+failed) as a percentage rounded
// to two decimals, and 0 when nothing has been attempted.
func SuccessRate(processed, failed int) float64 {
	attempted := processed + failed
	if attempted == 0 {
		return 0
	}
	return round2(float64(processed) / float64(attempted) * 100)
}

func copyMap[K comparable](m map[K]int) map[K]int {
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
