package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/config"
	"github.com/fadilmartias/talent-assessment/internal/domain/fiber/handler"
	"github.com/fadilmartias/talent-assessment/internal/generator"
	"github.com/fadilmartias/talent-assessment/internal/middleware"
	"github.com/fadilmartias/talent-assessment/internal/model"
	"github.com/fadilmartias/talent-assessment/internal/notification"
	"github.com/fadilmartias/talent-assessment/internal/repository"
	"github.com/fadilmartias/talent-assessment/internal/scoring"
	"github.com/fadilmartias/talent-assessment/internal/service"
	"github.com/fadilmartias/talent-assessment/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	ctx := context.Background()
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: appConfig.FrontendURL,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	applicationRepo := repository.NewApplicationRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	postingRepo := repository.NewPostingRepository(db)
	uow := repository.NewGormUnitOfWork(db)

	chain, judge := buildGeneration(ctx)
	dispatcher := notification.NewDispatcher()
	assessmentConfig := config.LoadAssessmentConfig()

	applicationUC := usecase.NewApplicationUsecase(applicationRepo, postingRepo, dispatcher)
	assessmentUC := usecase.NewAssessmentUsecase(
		applicationRepo,
		assessmentRepo,
		uow,
		chain,
		scoring.NewEngine(judge),
		dispatcher,
		appConfig.FrontendURL,
		assessmentConfig.DefaultExpiry,
	)

	auth := middleware.Auth(config.LoadAuthConfig().JWTSecret)
	publicLimits := middleware.PublicRateLimiter(connectRedis(), "tests", 30, time.Minute)

	handler.NewAssessmentHandler(assessmentUC, auth, publicLimits).RegisterRoutes(app)
	handler.NewApplicationHandler(applicationUC, auth).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

// buildGeneration wires the provider chain in priority order and the
// subjective-answer judge. Gemini is optional; without it the third provider
// always falls through and subjective answers use the non-empty heuristic.
func buildGeneration(ctx context.Context) (*generator.Chain, scoring.Judge) {
	hosted := generator.NewHostedProvider(service.NewOpenRouterService())
	static, err := generator.NewStaticProvider()
	if err != nil {
		log.Fatalf("static question bank: %v", err)
	}

	var (
		remote *generator.RemoteProvider
		judge  scoring.Judge
	)
	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Printf("Gemini disabled: %v", err)
		remote = generator.NewRemoteProvider(nil)
	} else {
		remote = generator.NewRemoteProvider(gemini)
		judge = scoring.NewLLMJudge(gemini)
	}

	chain := generator.NewChain(
		config.LoadAssessmentConfig().GenerationTimeout,
		hosted,
		generator.NewLocalBridgeProvider(service.NewLocalModelService()),
		hosted,
		remote,
		static,
	)
	return chain, judge
}

func connectRedis() *middleware.RedisLimiter {
	redisConfig := config.LoadRedisConfig()
	if redisConfig.URL == "" {
		log.Println("REDIS_URL not set, using in-memory rate limiting")
		return nil
	}
	opts, err := redis.ParseURL(redisConfig.URL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, using in-memory rate limiting: %v", err)
		return nil
	}
	return middleware.NewRedisLimiter(redis.NewClient(opts))
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	db, err := gorm.Open(postgres.Open(dbConfig.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.Posting{}, &model.Application{}, &model.Assessment{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
