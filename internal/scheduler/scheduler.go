// Package scheduler drives periodic dashboard regeneration.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/matt-tibbett/market-dashboard/internal/analyzer"
	"github.com/matt-tibbett/market-dashboard/internal/metrics"
	"github.com/matt-tibbett/market-dashboard/internal/notifier"
	"github.com/matt-tibbett/market-dashboard/internal/recorder"
	"github.com/matt-tibbett/market-dashboard/internal/report"

	"github.com/robfig/cron/v3"
)

// Scheduler regenerates the dashboard on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier // nil disables alerts
	Ctx      context.Context

	outputPath string
	title      string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, rec recorder.Recorder, tn *notifier.TelegramNotifier, outputPath, title string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Analyzer:   a,
		Recorder:   rec,
		Notifier:   tn,
		Ctx:        ctx,
		outputPath: outputPath,
		title:      title,
	}
}

// Register registers the dashboard generation task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register dashboard task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes one full dashboard generation run.
func (s *Scheduler) RunNow() error {
	started := time.Now().UTC()
	log.Println("[INFO] running dashboard generation")

	groups := s.Analyzer.RunAll(s.Ctx)

	if err := report.Write(s.outputPath, s.title, groups); err != nil {
		log.Printf("[ERROR] write dashboard: %v", err)
		return err
	}
	log.Printf("[INFO] dashboard generated: %s", s.outputPath)

	if err := s.Recorder.RecordRun(&recorder.RunSnapshot{StartedAt: started, Groups: groups}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	if s.Notifier != nil {
		if msg := notifier.FormatSignalAlert(groups); msg != "" {
			if err := s.Notifier.SendWithRetry(s.Ctx, msg, 3); err != nil {
				log.Printf("[ERROR] send signal alert: %v", err)
			}
		}
	}

	metrics.RunsTotal.Inc()
	metrics.LastRunUnix.Set(float64(time.Now().Unix()))
	return nil
}
