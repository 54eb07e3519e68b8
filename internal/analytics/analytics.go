package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-analyst/internal/storage"
)

// DailyStats aggregates usage events of one day.
type DailyStats struct {
	Date           string                   `json:"date"`
	TotalAnalyses  int                      `json:"total_analyses"`
	UniqueSessions int                      `json:"unique_sessions"`
	RemoteCalls    int                      `json:"remote_calls"`
	CacheHits      int                      `json:"cache_hits"`
	Failures       int                      `json:"failures"`
	Rejected       int                      `json:"rejected"`
	TotalTokens    int                      `json:"total_tokens"`
	ByCategory     map[string]CategoryStats `json:"by_category"`
}

// CategoryStats is the per-category breakdown.
type CategoryStats struct {
	Analyses  int `json:"analyses"`
	CacheHits int `json:"cache_hits"`
	Failures  int `json:"failures"`
	Tokens    int `json:"tokens"`
}

// AnalyzeDailyLogs aggregates events that happened on targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:       startOfDay.Format("2006-01-02"),
		ByCategory: make(map[string]CategoryStats),
	}
	sessions := make(map[string]bool)

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		sessions[ev.SessionID] = true

		// Validation and credential rejections never reach the model.
		if ev.Outcome == "content_error" || ev.Outcome == "config_error" {
			stats.Rejected++
			continue
		}

		stats.TotalAnalyses++
		cs := stats.ByCategory[ev.Category]
		cs.Analyses++
		switch {
		case ev.FromCache:
			stats.CacheHits++
			cs.CacheHits++
		case ev.Outcome == "remote_failure":
			stats.RemoteCalls++
			stats.Failures++
			cs.Failures++
		default:
			stats.RemoteCalls++
		}
		stats.TotalTokens += ev.TotalTokens
		cs.Tokens += ev.TotalTokens
		stats.ByCategory[ev.Category] = cs
	}

	stats.UniqueSessions = len(sessions)
	return stats
}

// CacheHitRate is the share of analyses answered from the cache.
func (ds *DailyStats) CacheHitRate() float64 {
	if ds.TotalAnalyses == 0 {
		return 0
	}
	return float64(ds.CacheHits) / float64(ds.TotalAnalyses)
}

// GenerateReportSummary renders a plain text report.
func (ds *DailyStats) GenerateReportSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage report for %s:\n", ds.Date)
	fmt.Fprintf(&b, "- analyses: %d (remote calls %d, cache hits %d, failures %d)\n",
		ds.TotalAnalyses, ds.RemoteCalls, ds.CacheHits, ds.Failures)
	fmt.Fprintf(&b, "- rejected requests: %d\n", ds.Rejected)
	fmt.Fprintf(&b, "- sessions: %d\n", ds.UniqueSessions)
	fmt.Fprintf(&b, "- tokens: %d\n", ds.TotalTokens)
	fmt.Fprintf(&b, "- cache hit rate: %.0f%%\n", ds.CacheHitRate()*100)

	if len(ds.ByCategory) > 0 {
		names := make([]string, 0, len(ds.ByCategory))
		for name := range ds.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("By category:\n")
		for _, name := range names {
			cs := ds.ByCategory[name]
			fmt.Fprintf(&b, "- %s: %d analyses, %d from cache, %d failed\n", name, cs.Analyses, cs.CacheHits, cs.Failures)
		}
	}
	return b.String()
}

// ToJSON serialises the stats, as printed by `stats --json`.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
