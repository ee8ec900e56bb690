package main

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/microblog/internal/config"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/mail"
	"github.com/thereayou/microblog/internal/queue"
	"github.com/thereayou/microblog/internal/tasks"
)

// Процесс-воркер: исполняет фоновые задачи из очереди по одной.
// Общей памяти с сервером нет, вся координация — через базу и redis.
func main() {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	mailer, err := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatalf("SMTP setup failed: %v", err)
	}

	registry := queue.NewRegistry()
	jobQueue := queue.New(rdb, "microblog", registry)
	taskSvc := tasks.NewService(dbConn, jobQueue)

	registry.Register(tasks.JobExportPosts,
		taskSvc.ExportPosts(mailer, cfg.AdminEmail, time.Duration(cfg.ExportDelayMS)*time.Millisecond))

	worker := queue.NewWorker(jobQueue, registry)
	if err := worker.Run(context.Background()); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
