package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ai-analyst/internal/storage"
)

func TestAnalyzeDailyLogs(t *testing.T) {
	testDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := []storage.Event{
		{Timestamp: testDate.Add(2 * time.Hour), SessionID: "a", Category: "career planning", Outcome: "ok", TotalTokens: 100},
		{Timestamp: testDate.Add(3 * time.Hour), SessionID: "a", Category: "career planning", Outcome: "ok", FromCache: true},
		{Timestamp: testDate.Add(4 * time.Hour), SessionID: "b", Category: "data analyst", Outcome: "remote_failure"},
		{Timestamp: testDate.Add(5 * time.Hour), SessionID: "b", Category: "data analyst", Outcome: "content_error"},
		// another day, ignored
		{Timestamp: testDate.AddDate(0, 0, 1), SessionID: "c", Category: "marketing plan", Outcome: "ok", TotalTokens: 50},
	}

	stats := AnalyzeDailyLogs(events, testDate)

	if stats.Date != "2024-01-15" {
		t.Errorf("Expected date '2024-01-15', got '%s'", stats.Date)
	}
	if stats.TotalAnalyses != 3 {
		t.Errorf("Expected 3 analyses, got %d", stats.TotalAnalyses)
	}
	if stats.Rejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", stats.Rejected)
	}
	if stats.UniqueSessions != 2 {
		t.Errorf("Expected 2 sessions, got %d", stats.UniqueSessions)
	}
	if stats.RemoteCalls != 2 || stats.CacheHits != 1 || stats.Failures != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.TotalTokens != 100 {
		t.Errorf("Expected 100 tokens, got %d", stats.TotalTokens)
	}
	cp := stats.ByCategory["career planning"]
	if cp.Analyses != 2 || cp.CacheHits != 1 || cp.Tokens != 100 {
		t.Errorf("unexpected career planning stats: %+v", cp)
	}
	if _, ok := stats.ByCategory["marketing plan"]; ok {
		t.Errorf("events from another day leaked into stats")
	}
}

func TestGenerateReportSummary(t *testing.T) {
	stats := &DailyStats{
		Date:          "2024-01-15",
		TotalAnalyses: 4,
		RemoteCalls:   2,
		CacheHits:     2,
		ByCategory: map[string]CategoryStats{
			"data analyst":    {Analyses: 1},
			"career planning": {Analyses: 3, CacheHits: 2},
		},
	}
	summary := stats.GenerateReportSummary()
	for _, want := range []string{"2024-01-15", "analyses: 4", "cache hit rate: 50%", "- career planning: 3 analyses, 2 from cache"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Index(summary, "career planning") > strings.Index(summary, "data analyst") {
		t.Errorf("categories should be sorted:\n%s", summary)
	}
}

func TestToJSON(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
	s, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if parsed["date"] != "2024-01-15" || parsed["total_analyses"] != float64(0) {
		t.Errorf("unexpected json: %s", s)
	}
	if stats.CacheHitRate() != 0 {
		t.Errorf("empty stats should have zero hit rate")
	}
}
