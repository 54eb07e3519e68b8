package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/analytics"
	"ai-analyst/internal/config"
	"ai-analyst/internal/llm"
	"ai-analyst/internal/prompt"
	"ai-analyst/internal/scheduler"
	"ai-analyst/internal/session"
	"ai-analyst/internal/storage"
)

// app holds the wired components shared by every front-end.
type app struct {
	cfg      *config.Config
	orch     *analysis.Orchestrator
	sessions *session.Registry
	recorder storage.Recorder
}

func newApp(cfg *config.Config) (*app, error) {
	base := prompt.Rich()
	if cfg.Profile == config.ProfileBasic {
		base = prompt.Basic()
	}
	catalog, err := prompt.LoadCatalog(cfg.PromptsFilePath, base)
	if err != nil {
		return nil, err
	}

	var rec storage.Recorder
	if cfg.UsageLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.UsageLogPath)
		if err != nil {
			log.Printf("failed to init usage log: %v", err)
		} else {
			rec = fr
		}
	}

	factory := llm.NewFactory(cfg)
	log.Printf("profile=%s provider=%s model=%s categories=%d", cfg.Profile, cfg.LLMProvider, factory.ModelName(), len(catalog.Categories))

	return &app{
		cfg:      cfg,
		orch:     analysis.New(factory, catalog, analysis.OptionsFor(cfg), rec),
		sessions: session.NewRegistry(session.OptionsFromConfig(cfg)),
		recorder: rec,
	}, nil
}

// startScheduler runs the session sweep and, with a usage log, the daily report.
func (a *app) startScheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New()
	s.Add(scheduler.Job{
		Name:     "sweep",
		Schedule: a.cfg.SweepSchedule,
		Run: func(ctx context.Context) error {
			sessions := a.sessions.SweepIdle()
			entries := a.sessions.SweepCaches()
			if sessions > 0 || entries > 0 {
				log.Printf("sweep: removed %d idle sessions and %d expired cache entries", sessions, entries)
			}
			return nil
		},
	})
	if a.recorder != nil {
		s.Add(scheduler.Job{
			Name:     "daily-report",
			Schedule: a.cfg.ReportSchedule,
			Run: func(ctx context.Context) error {
				summary, err := a.dailySummary(time.Now().UTC())
				if err != nil {
					return err
				}
				log.Printf("daily report:\n%s", summary)
				return a.pruneUsageLog(time.Now().UTC())
			},
		})
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

type pruner interface {
	Prune(cutoff time.Time) (int, error)
}

func (a *app) pruneUsageLog(now time.Time) error {
	p, ok := a.recorder.(pruner)
	if !ok || a.cfg.UsageLogRetention <= 0 {
		return nil
	}
	dropped, err := p.Prune(now.Add(-a.cfg.UsageLogRetention))
	if err != nil {
		return fmt.Errorf("prune usage log: %w", err)
	}
	if dropped > 0 {
		log.Printf("usage log: pruned %d events older than %s", dropped, a.cfg.UsageLogRetention)
	}
	return nil
}

func (a *app) dailyStats(day time.Time) (*analytics.DailyStats, error) {
	if a.recorder == nil {
		return nil, fmt.Errorf("usage log is not configured, set USAGE_LOG_PATH")
	}
	events, err := a.recorder.LoadEvents()
	if err != nil {
		return nil, fmt.Errorf("load usage events: %w", err)
	}
	return analytics.AnalyzeDailyLogs(events, day), nil
}

func (a *app) dailySummary(day time.Time) (string, error) {
	stats, err := a.dailyStats(day)
	if err != nil {
		return "", err
	}
	return stats.GenerateReportSummary(), nil
}
