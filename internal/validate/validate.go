package validate

import (
	"fmt"
	"runtime/debug"
	"unicode/utf8"

	"feedpipe/internal/logger"
	"feedpipe/internal/metrics"
	"feedpipe/internal/models"
)

// requiredFields names the top-level keys every record must carry, in the
// order they are reported when missing.
var requiredFields = []struct {
	name    string
	present func(*models.RawPost) bool
}{
	{"post_id", func(r *models.RawPost) bool { return r.PostID != nil }},
	{"user_id", func(r *models.RawPost) bool { return r.UserID != nil }},
	{"username", func(r *models.RawPost) bool { return r.Username != nil }},
	{"platform", func(r *models.RawPost) bool { return r.Platform != nil }},
	{"content", func(r *models.RawPost) bool { return r.Content != nil }},
	{"engagement", func(r *models.RawPost) bool { return r.Engagement != nil }},
	{"metadata", func(r *models.RawPost) bool { return r.Metadata != nil }},
	{"sentiment", func(r *models.RawPost) bool { return r.Sentiment != nil }},
	{"category", func(r *models.RawPost) bool { return r.Category != nil }},
}

// engagementFields names the counters the engagement block must carry.
var engagementFields = []struct {
	name  string
	value func(*models.RawEngagement) *int64
}{
	{"likes", func(e *models.RawEngagement) *int64 { return e.Likes }},
	{"shares", func(e *models.RawEngagement) *int64 { return e.Shares }},
	{"comments", func(e *models.RawEngagement) *int64 { return e.Comments }},
	{"views", func(e *models.RawEngagement) *int64 { return e.Views }},
}

// Validate checks a raw record against the schema. It never panics outward:
// every check is defensive and failures accumulate as human-readable reasons
// instead of stopping at the first one. Returns (true, nil) only when the
// record satisfies every constraint.
func Validate(raw *models.RawPost) (valid bool, errs []string) {
	defer func() {
		if r := recover(); r != nil {
			log := logger.WithComponent("validate")
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered during validation")
			metrics.PanicsRecovered.WithLabelValues("validate").Inc()
			errs = append(errs, fmt.Sprintf("Validation error: %v", r))
			valid = false
		}
	}()

	if raw == nil {
		return false, []string{"Missing required fields: record is nil"}
	}

	errs = checkRecord(raw)
	return len(errs) == 0, errs
}

func checkRecord(raw *models.RawPost) []string {
	var errs []string

	var missing []string
	for _, f := range requiredFields {
		if !f.present(raw) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("Missing required fields: %v", missing))
		for _, name := range missing {
			metrics.ValidationErrorsTotal.WithLabelValues(name).Inc()
		}
	}

	if raw.PostID != nil && *raw.PostID == "" {
		errs = append(errs, "post_id must be a non-empty string")
		metrics.ValidationErrorsTotal.WithLabelValues("post_id").Inc()
	}

	if raw.UserID != nil && *raw.UserID <= 0 {
		errs = append(errs, "user_id must be a positive integer")
		metrics.ValidationErrorsTotal.WithLabelValues("user_id").Inc()
	}

	if raw.Platform != nil && !models.Platform(*raw.Platform).IsValid() {
		errs = append(errs, fmt.Sprintf("Invalid platform: %s", *raw.Platform))
		metrics.ValidationErrorsTotal.WithLabelValues("platform").Inc()
	}

	if raw.Content != nil {
		switch {
		case *raw.Content == "":
			errs = append(errs, "content must be a non-empty string")
			metrics.ValidationErrorsTotal.WithLabelValues("content").Inc()
		// Length is counted in characters, not bytes.
		case utf8.RuneCountInString(*raw.Content) > models.MaxContentLength:
			errs = append(errs, "content exceeds maximum length")
			metrics.ValidationErrorsTotal.WithLabelValues("content").Inc()
		}
	}

	if raw.Engagement != nil {
		errs = append(errs, checkEngagement(raw.Engagement)...)
	}

	if raw.Metadata != nil {
		errs = append(errs, checkMetadata(raw.Metadata)...)
	}

	if raw.Sentiment != nil && !models.Sentiment(*raw.Sentiment).IsValid() {
		errs = append(errs, fmt.Sprintf("Invalid sentiment: %s", *raw.Sentiment))
		metrics.ValidationErrorsTotal.WithLabelValues("sentiment").Inc()
	}

	if raw.Category != nil && !models.Category(*raw.Category).IsValid() {
		errs = append(errs, fmt.Sprintf("Invalid category: %s", *raw.Category))
		metrics.ValidationErrorsTotal.WithLabelValues("category").Inc()
	}

	return errs
}

func checkEngagement(e *models.RawEngagement) []string {
	var errs []string

	var missing []string
	for _, f := range engagementFields {
		if f.value(e) == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("Missing engagement fields: %v", missing))
		metrics.ValidationErrorsTotal.WithLabelValues("engagement").Inc()
	}

	for _, f := range engagementFields {
		if v := f.value(e); v != nil && *v < 0 {
			errs = append(errs, fmt.Sprintf("engagement.%s must be a non-negative integer", f.name))
			metrics.ValidationErrorsTotal.WithLabelValues("engagement").Inc()
		}
	}

	return errs
}

func checkMetadata(m *models.RawMetadata) []string {
	var errs []string

	// The transformer extracts the post hour from this timestamp, so a
	// parseable value is required rather than merely checked when present.
	if m.Timestamp == nil {
		errs = append(errs, "metadata.timestamp must be a valid ISO format datetime")
		metrics.ValidationErrorsTotal.WithLabelValues("timestamp").Inc()
	} else if _, err := models.ParseTimestamp(*m.Timestamp); err != nil {
		errs = append(errs, "metadata.timestamp must be a valid ISO format datetime")
		metrics.ValidationErrorsTotal.WithLabelValues("timestamp").Inc()
	}

	for _, tag := range m.Hashtags {
		if tag == "" {
			errs = append(errs, "All hashtags must be non-empty strings")
			metrics.ValidationErrorsTotal.WithLabelValues("hashtags").Inc()
			break
		}
	}

	return errs
}
