package server

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/microblog/internal/config"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/handlers"
	"github.com/thereayou/microblog/internal/mail"
	"github.com/thereayou/microblog/internal/queue"
	"github.com/thereayou/microblog/internal/search"
	"github.com/thereayou/microblog/internal/tasks"
	"github.com/thereayou/microblog/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	Config     *config.Config
	DB         *database.Database
	Redis      *redis.Client
	Index      *search.BleveIndex
	JWTManager *auth.JWTManager
	Tasks      *tasks.Service
}

func NewServer() *Server {
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

	index, err := search.OpenBleve(cfg.IndexPath)
	if err != nil {
		log.Fatalf("Search index open failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	mailer, err := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatalf("SMTP setup failed: %v", err)
	}

	// серверу нужны только имена задач для валидации постановки,
	// обработчики живут в воркере
	jobQueue := queue.New(rdb, "microblog", queue.KnownJobs(tasks.JobExportPosts))
	taskSvc := tasks.NewService(dbConn, jobQueue)

	router := gin.Default()
	APIEndpoints(router, &Handlers{
		Auth:         handlers.NewAuthHandler(dbConn, jwtMgr, rdb, mailer, cfg.AdminEmail),
		User:         handlers.NewUserHandler(dbConn),
		Post:         handlers.NewPostHandler(dbConn, index, cfg.PostsPerPage),
		Message:      handlers.NewMessageHandler(dbConn, cfg.PostsPerPage),
		Task:         handlers.NewTaskHandler(dbConn, taskSvc),
		Notification: handlers.NewNotificationHandler(dbConn),
		Stream:       handlers.NewNotificationStreamHandler(dbConn),
		JWTManager:   jwtMgr,
		Redis:        rdb,
		DB:           dbConn,
	})

	return &Server{
		Router:     router,
		Config:     cfg,
		DB:         dbConn,
		Redis:      rdb,
		Index:      index,
		JWTManager: jwtMgr,
		Tasks:      taskSvc,
	}
}

func (s *Server) Run() {
	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
