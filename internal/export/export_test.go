package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"feedpipe/internal/analytics"
	"feedpipe/internal/models"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	agg := analytics.New(100)
	pp := &models.ProcessedPost{
		Post: models.Post{
			PostID:    "post_1_ab12cd34",
			UserID:    1234,
			Username:  "tester",
			Platform:  models.PlatformTwitter,
			Content:   "hello world",
			Topic:     "social media",
			Sentiment: models.SentimentPositive,
			Category:  models.CategoryGeneral,
		},
		ProcessedAt:     time.Now().Format(time.RFC3339),
		EngagementRate:  5.75,
		PopularityScore: 340,
		PostSize:        models.PostSizeShort,
		PostHour:        9,
	}
	agg.Update(pp, time.Millisecond)

	doc := Document{
		ProcessedData: agg.ProcessedPosts(),
		Analytics:     agg.Snapshot(),
	}
	if err := Write(path, doc); err != nil {
		t.Fatalf("write: %v", err)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(back.ProcessedData) != 1 {
		t.Fatalf("processed_data length: got %d, want 1", len(back.ProcessedData))
	}
	if back.ProcessedData[0].PostID != "post_1_ab12cd34" {
		t.Errorf("post_id: got %q", back.ProcessedData[0].PostID)
	}
	if back.Analytics.Summary.TotalProcessed != 1 {
		t.Errorf("analytics processed: got %d", back.Analytics.Summary.TotalProcessed)
	}
}

func TestDocumentHasExactlyTwoTopLevelFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	if err := Write(path, Document{Analytics: analytics.New(100).Snapshot()}); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top-level fields: got %d, want 2 (%v)", len(top), top)
	}
	if _, ok := top["processed_data"]; !ok {
		t.Error("missing processed_data")
	}
	if _, ok := top["analytics"]; !ok {
		t.Error("missing analytics")
	}
}

func TestEmptyDocumentTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	if err := Write(path, Document{Analytics: analytics.New(100).Snapshot()}); err != nil {
		t.Fatalf("write: %v", err)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// Readers must tolerate empty distributions and an empty record list.
	if back.ProcessedData == nil {
		t.Error("processed_data should decode as an empty list, not null")
	}
	if back.Analytics.Summary.TotalProcessed != 0 {
		t.Errorf("unexpected processed count: %d", back.Analytics.Summary.TotalProcessed)
	}
}

func TestWriteFailureReported(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "nested", "results.json"), Document{})
	if err == nil {
		t.Fatal("expected error writing to a nonexistent directory")
	}
}
