package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"estate-core/internal/adapter/api"
	"estate-core/internal/adapter/client"
	"estate-core/internal/adapter/notify"
	"estate-core/internal/adapter/store"
	"estate-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("Warning: .env.dev file not found, using system environment variables")
	}
	ctx := context.Background()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	redisAddr := os.Getenv("REDIS_ADDR")
	postgresDSN := os.Getenv("POSTGRES_DSN")
	qdrantHost := os.Getenv("QDRANT_HOST")
	qdrantPortStr := os.Getenv("QDRANT_PORT")
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	location := os.Getenv("GOOGLE_CLOUD_LOCATION")
	messageLimitStr := os.Getenv("USER_MESSAGE_LIMIT")

	qdrantPort, _ := strconv.Atoi(qdrantPortStr)
	messageLimit, _ := strconv.Atoi(messageLimitStr)
	if messageLimit == 0 {
		messageLimit = 200
	}

	// Redis for chat history and message quotas
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	// Postgres for leads and the property directory
	db, err := sql.Open("postgres", postgresDSN)
	if err != nil {
		zlog.Fatal("failed to open postgres", zap.Error(err))
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Qdrant for the listing/document index
	qClient, err := qdrant.NewClient(&qdrant.Config{
		Host: qdrantHost,
		Port: qdrantPort,
	})
	if err != nil {
		zlog.Fatal("failed to connect to qdrant", zap.Error(err))
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		zlog.Fatal("failed to init genai client", zap.Error(err))
	}

	embedder := client.NewEmbedderFromClient(genaiClient, "text-embedding-004")
	generator := client.NewGeminiClientFromClient(genaiClient, "gemini-2.5-flash")

	vectorIndex := store.NewQdrantIndex(qClient, os.Getenv("QDRANT_COLLECTION"))
	if err := vectorIndex.InitCollection(ctx, 768); err != nil {
		zlog.Fatal("failed to init qdrant collection", zap.Error(err))
	}

	leadStore := store.NewPostgresLeadStore(db)
	directory := store.NewPostgresPropertyDirectory(db)
	historyStore := store.NewRedisHistoryStore(rdb, 7*24*time.Hour)
	limiter := store.NewRedisLimiter(rdb, messageLimit)

	notifier, err := notify.NewSESNotifier(ctx,
		os.Getenv("AWS_REGION"),
		os.Getenv("LEAD_EMAIL_SENDER"),
		os.Getenv("LEAD_EMAIL_RECIPIENT"))
	if err != nil {
		zlog.Fatal("failed to init ses notifier", zap.Error(err))
	}

	// Inject the adapters into the orchestration layer
	intentCache := usecase.NewIntentCache(embedder, zlog)
	retrieval := usecase.NewRetrievalEngine(embedder, vectorIndex, directory, zlog)
	leadFlow := usecase.NewLeadFlow(leadStore, historyStore, notifier, zlog)
	orchestrator := usecase.NewOrchestrator(intentCache, retrieval, leadFlow, generator, leadStore, historyStore, limiter, zlog)
	ingestor := usecase.NewIngestor(embedder, vectorIndex, directory, zlog)

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := intentCache.EnsureBuilt(warmCtx); err != nil {
			zlog.Warn("intent cache warm-up failed, will retry lazily", zap.Error(err))
			return
		}
		zlog.Info("intent cache pre-warmed")
	}()

	// Initialize API Layer (Delivery Layer)
	app := fiber.New(fiber.Config{
		AppName: "Estate-Core Assistant",
	})

	handler := api.NewChatHandler(orchestrator, ingestor, zlog)
	api.SetupRouter(app, handler)

	// Start Server
	zlog.Info("estate-core running", zap.String("port", os.Getenv("PORT")))
	if err := app.Listen(":" + os.Getenv("PORT")); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
