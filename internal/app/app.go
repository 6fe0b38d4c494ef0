package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/controller"
	"quizgen_backend/internal/service"
	"quizgen_backend/pkg/database"
	"quizgen_backend/pkg/logger"
	"quizgen_backend/pkg/monitoring"
	"quizgen_backend/pkg/security"
	"quizgen_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type services struct {
	ai        *service.AIService
	extract   *service.ExtractService
	question  *service.QuestionService
	translate *service.TranslateService
	speech    *service.SpeechService
	answer    *service.AnswerService
	grading   *service.GradingService
	storage   *service.StorageService
	store     service.SessionStore
	session   *service.SessionService
}

type controllers struct {
	session  *controller.SessionController
	document *controller.DocumentController
	question *controller.QuestionController
	answer   *controller.AnswerController
	grading  *controller.GradingController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded configuration and notifies subscribers.
// Listeners decide for themselves which fields are safe to pick up live.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initServices(cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.extract = service.NewExtractService(cfg)
	s.question = service.NewQuestionService(s.ai, cfg.Quiz.DocumentBudget)
	s.translate = service.NewTranslateService(cfg, s.ai)
	s.speech = service.NewSpeechService(cfg.Speech)
	s.answer = service.NewAnswerService(s.speech)
	s.grading = service.NewGradingService(s.ai, s.translate)
	s.storage = service.NewStorageService(cfg)

	if cfg.Session.Store == "redis" {
		s.store = service.NewRedisSessionStore(rdb, cfg.Session.TTL)
	} else {
		s.store = service.NewMemorySessionStore(cfg.Session.TTL)
	}

	s.session = service.NewSessionService(
		s.store,
		s.extract,
		s.question,
		s.translate,
		s.answer,
		s.grading,
		s.storage,
		cfg,
	)

	return s
}

func (a *App) initControllers(s *services, rdb *redis.Client) *controllers {
	return &controllers{
		session:  controller.NewSessionController(s.session),
		document: controller.NewDocumentController(s.session),
		question: controller.NewQuestionController(s.session),
		answer:   controller.NewAnswerController(s.session),
		grading:  controller.NewGradingController(s.session),
		health:   controller.NewHealthController(rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		Redis:  rdb,
	}

	services := app.initServices(cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quizgen-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
