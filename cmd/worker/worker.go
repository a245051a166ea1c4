package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"elasti/internal/ai"
	"elasti/internal/config"
	"elasti/internal/crawler"
	"elasti/internal/logger"
	"elasti/internal/queue"
	"elasti/internal/scheduler"
	"elasti/internal/search"
	"elasti/internal/store"
	"elasti/internal/telemetry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer(cfg, "elasti-worker")
	if err != nil {
		log.Fatal("Failed to initialize tracing:", err)
	}
	defer shutdownTracer()

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	projects := store.NewProjectStore(mongoClient.Database(cfg.DBName))

	index, err := search.NewIndex(cfg, mongoClient)
	if err != nil {
		log.Fatal("Failed to initialize search index:", err)
	}

	embedder, err := ai.NewEmbedder(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedder:", err)
	}

	crawlerService := crawler.New(embedder, index, crawler.Config{
		MaxChunkSize:     cfg.MaxChunkSize,
		MinContentLength: cfg.MinContentLength,
		BatchSize:        cfg.CrawlBatchSize,
		PageTimeout:      cfg.PageTimeout,
		RenderJS:         cfg.RenderJS,
	})

	redisOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Invalid Redis configuration:", err)
	}

	queueClient := queue.NewClient(redisOpt)
	defer queueClient.Close()

	// Recurring crawls share the same queue as manual ones
	sched := scheduler.New(projects, queueClient, cfg.SchedulerInterval, cfg.DefaultMaxPages)
	if err := sched.Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}
	defer sched.Stop()

	// Crawls are heavy on the target site and on Chrome, so the worker runs
	// them strictly one at a time.
	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 1,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewProcessor(crawlerService, projects)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskCrawlRun, processor.HandleCrawl)

	logger.Info("Starting crawl worker", "concurrency", 1, "scheduler_interval", cfg.SchedulerInterval.String())

	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
