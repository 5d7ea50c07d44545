package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matt-tibbett/market-dashboard/internal/analyzer"
	"github.com/matt-tibbett/market-dashboard/internal/collector"
	"github.com/matt-tibbett/market-dashboard/internal/config"
	"github.com/matt-tibbett/market-dashboard/internal/metrics"
	"github.com/matt-tibbett/market-dashboard/internal/notifier"
	"github.com/matt-tibbett/market-dashboard/internal/recorder"
	"github.com/matt-tibbett/market-dashboard/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] market-dashboard starting...")

	once := flag.Bool("once", false, "generate the dashboard once and exit")
	flag.Parse()

	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional Telegram alerts
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram alerts enabled")
	}

	a := analyzer.New(fetcher, cfg)
	sched := scheduler.NewScheduler(ctx, a, rec, tn, cfg.Report.OutputPath, cfg.Report.Title)

	if *once {
		if err := sched.RunNow(); err != nil {
			log.Fatalf("[FATAL] dashboard generation: %v", err)
		}
		return
	}

	// Metrics endpoint
	if cfg.Metrics.Addr != "" {
		metrics.Serve(cfg.Metrics.Addr)
		log.Printf("[INFO] metrics listening on %s", cfg.Metrics.Addr)
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, generating dashboard now")
		go sched.RunNow()
	}

	log.Println("[INFO] market-dashboard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] market-dashboard stopped")
}
