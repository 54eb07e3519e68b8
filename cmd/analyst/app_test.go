package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-analyst/internal/config"
	"ai-analyst/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Profile:        config.ProfileRich,
		LLMProvider:    config.ProviderOpenAI,
		OpenAIModel:    "test-model",
		MaxTokens:      1500,
		CacheTTL:       time.Hour,
		MaxHistory:     10,
		SweepSchedule:  "@every 10m",
		ReportSchedule: "0 21 * * *",
	}
}

func TestNewApp_BasicProfileUsesBasicCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Profile = config.ProfileBasic

	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if a.orch.Options().UseCache {
		t.Error("basic profile must not use the cache")
	}
	if a.orch.Catalog().Default() != "python developer" {
		t.Errorf("default category = %q", a.orch.Catalog().Default())
	}
	if a.recorder != nil {
		t.Error("recorder must be nil without USAGE_LOG_PATH")
	}
}

func TestNewApp_MissingPromptsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.PromptsFilePath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := newApp(cfg); err == nil {
		t.Fatal("expected error for missing prompts file")
	}
}

func TestDailySummary(t *testing.T) {
	cfg := testConfig(t)
	if _, err := (&app{cfg: cfg}).dailySummary(time.Now()); err == nil {
		t.Fatal("expected error without usage log")
	}

	cfg.UsageLogPath = filepath.Join(t.TempDir(), "usage.jsonl")
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = a.recorder.AppendEvent(storage.Event{Timestamp: day, SessionID: "s", Category: "career planning", Outcome: "ok"})

	summary, err := a.dailySummary(day)
	if err != nil {
		t.Fatalf("dailySummary: %v", err)
	}
	if !strings.Contains(summary, "2026-03-01") {
		t.Errorf("summary missing date: %q", summary)
	}
}

func TestStartScheduler_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.SweepSchedule = "not a schedule"
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if _, err := a.startScheduler(); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestPruneUsageLog(t *testing.T) {
	cfg := testConfig(t)
	cfg.UsageLogPath = filepath.Join(t.TempDir(), "usage.jsonl")
	cfg.UsageLogRetention = 24 * time.Hour
	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_ = a.recorder.AppendEvent(storage.Event{Timestamp: now.Add(-48 * time.Hour), SessionID: "old"})
	_ = a.recorder.AppendEvent(storage.Event{Timestamp: now.Add(-time.Hour), SessionID: "new"})

	if err := a.pruneUsageLog(now); err != nil {
		t.Fatalf("prune: %v", err)
	}
	events, _ := a.recorder.LoadEvents()
	if len(events) != 1 || events[0].SessionID != "new" {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestStatsCmd_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.jsonl")
	t.Setenv("USAGE_LOG_PATH", path)
	t.Setenv("PROMPTS_FILE_PATH", "")
	t.Setenv("ANALYST_PROFILE", "rich")
	rec, err := storage.NewFileRecorder(path)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = rec.AppendEvent(storage.Event{Timestamp: day, SessionID: "s", Category: "career planning", Outcome: "ok", TotalTokens: 40})
	_ = rec.AppendEvent(storage.Event{Timestamp: day, SessionID: "s", Category: "career planning", Outcome: "ok", FromCache: true})

	var out bytes.Buffer
	cmd := newStatsCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--date", "2026-03-01", "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("stats: %v", err)
	}

	var parsed struct {
		Date          string `json:"date"`
		TotalAnalyses int    `json:"total_analyses"`
		CacheHits     int    `json:"cache_hits"`
		TotalTokens   int    `json:"total_tokens"`
	}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if parsed.Date != "2026-03-01" || parsed.TotalAnalyses != 2 || parsed.CacheHits != 1 || parsed.TotalTokens != 40 {
		t.Fatalf("unexpected stats: %+v", parsed)
	}
}
