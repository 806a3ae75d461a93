package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"feedpipe/internal/metrics"
	"feedpipe/internal/models"
)

// usernames is the fixed author pool.
var usernames = []string{
	"tech_enthusiast", "data_scientist", "social_guru", "content_creator",
	"digital_nomad", "startup_founder", "marketing_pro", "developer_life",
	"business_insider", "creative_mind", "innovation_hub", "trend_setter",
}

// contentTemplates are filled in with a topic to produce post content.
var contentTemplates = []string{
	"Just discovered an amazing new tool for %s! #tech #innovation",
	"Thoughts on the latest trends in %s? Share your insights below!",
	"Breaking: Major breakthrough in %s industry announced today",
	"Tutorial: How to master %s in 5 simple steps",
	"Weekly roundup: Top %s news you shouldn't miss",
	"Behind the scenes: Our journey with %s development",
	"Quick tip: Boost your %s productivity with this simple hack",
	"Community question: What's your favorite %s resource?",
}

// topics is the fixed topic pool.
var topics = []string{
	"artificial intelligence", "machine learning", "data science",
	"cloud computing", "cybersecurity", "blockchain", "mobile development",
	"web development", "digital marketing", "social media", "entrepreneurship",
}

// engagementMultipliers scale engagement magnitudes per platform.
var engagementMultipliers = map[models.Platform]float64{
	models.PlatformTwitter:   1.0,
	models.PlatformFacebook:  1.5,
	models.PlatformInstagram: 2.0,
	models.PlatformLinkedIn:  0.8,
	models.PlatformTikTok:    3.0,
}

// hashtagPools maps topics to candidate hashtags.
var hashtagPools = map[string][]string{
	"artificial intelligence": {"#AI", "#MachineLearning", "#Tech", "#Innovation"},
	"machine learning":        {"#ML", "#DataScience", "#AI", "#Analytics"},
	"data science":            {"#DataScience", "#BigData", "#Analytics", "#ML"},
	"cloud computing":         {"#Cloud", "#AWS", "#Azure", "#Tech"},
	"cybersecurity":           {"#CyberSecurity", "#InfoSec", "#Security", "#Tech"},
	"blockchain":              {"#Blockchain", "#Crypto", "#Web3", "#Innovation"},
	"mobile development":      {"#MobileDev", "#iOS", "#Android", "#Tech"},
	"web development":         {"#WebDev", "#JavaScript", "#Frontend", "#Backend"},
	"digital marketing":       {"#DigitalMarketing", "#Marketing", "#SocialMedia", "#Growth"},
	"social media":            {"#SocialMedia", "#Marketing", "#Content", "#Engagement"},
	"entrepreneurship":        {"#Startup", "#Entrepreneur", "#Business", "#Innovation"},
}

var defaultHashtags = []string{"#Tech", "#Innovation"}

// Generator produces synthetic social media posts. Generation never fails;
// the only state is a counter and the RNG.
type Generator struct {
	rng       *rand.Rand
	now       func() time.Time
	generated atomic.Int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes generation deterministic for tests.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the wall clock used for post timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a single synthetic post in the raw input form the queue
// carries. Increments the generated counter.
func (g *Generator) Generate() *models.RawPost {
	n := g.generated.Add(1)

	platform := models.AllPlatforms[g.rng.Intn(len(models.AllPlatforms))]
	topic := topics[g.rng.Intn(len(topics))]
	content := fmt.Sprintf(contentTemplates[g.rng.Intn(len(contentTemplates))], topic)

	base := float64(g.rng.Intn(991) + 10) // [10, 1000]
	multiplier := engagementMultipliers[platform]

	// Post time is offset 0-24h into the past, kept as a zone-less ISO-8601
	// string the way upstream feeds deliver it.
	offset := time.Duration(g.rng.Float64() * 24 * float64(time.Hour))
	postTime := g.now().Add(-offset)

	post := &models.Post{
		PostID:   fmt.Sprintf("post_%d_%s", n, uuid.NewString()[:8]),
		UserID:   int64(g.rng.Intn(9000) + 1000),
		Username: usernames[g.rng.Intn(len(usernames))],
		Platform: platform,
		Content:  content,
		Topic:    topic,
		Engagement: models.Engagement{
			Likes:    int64(base * multiplier * g.uniform(0.8, 1.2)),
			Shares:   int64(base * multiplier * 0.1 * g.uniform(0.5, 1.5)),
			Comments: int64(base * multiplier * 0.05 * g.uniform(0.3, 2.0)),
			Views:    int64(base * multiplier * 10 * g.uniform(5, 15)),
		},
		Metadata: models.Metadata{
			Timestamp:    postTime.Format("2006-01-02T15:04:05"),
			Language:     "en",
			VerifiedUser: g.rng.Intn(2) == 0,
			HasMedia:     g.rng.Intn(2) == 0,
			Hashtags:     g.hashtags(topic),
			Mentions:     g.rng.Intn(4),
		},
		Sentiment: models.AllSentiments[g.rng.Intn(len(models.AllSentiments))],
		Category:  categorize(content),
	}

	metrics.PostsGeneratedTotal.Inc()
	return post.Raw()
}

// Generated returns how many posts have been generated so far.
func (g *Generator) Generated() int64 {
	return g.generated.Load()
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// hashtags samples 1-3 tags from the topic's pool without replacement.
func (g *Generator) hashtags(topic string) []string {
	pool, ok := hashtagPools[topic]
	if !ok {
		pool = defaultHashtags
	}
	k := g.rng.Intn(min(3, len(pool))) + 1
	idx := g.rng.Perm(len(pool))[:k]
	tags := make([]string, 0, k)
	for _, i := range idx {
		tags = append(tags, pool[i])
	}
	return tags
}

// categorize assigns a content category from simple keyword rules.
func categorize(content string) models.Category {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "tutorial") || strings.Contains(lower, "how to"):
		return models.CategoryEducational
	case strings.Contains(lower, "breaking") || strings.Contains(lower, "news"):
		return models.CategoryNews
	case strings.Contains(lower, "question") || strings.Contains(lower, "?"):
		return models.CategoryDiscussion
	case strings.Contains(lower, "tip") || strings.Contains(lower, "hack"):
		return models.CategoryAdvice
	default:
		return models.CategoryGeneral
	}
}
