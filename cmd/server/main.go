package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/config"
	"hotelsearch/internal/handler"
	"hotelsearch/internal/logger"
	"hotelsearch/internal/repository"
	"hotelsearch/internal/service"
	"hotelsearch/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Hotel Search Aggregator")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = zl.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	clk := clock.NewRealClock()

	// Audit database is optional
	var (
		searchAudit service.SearchLogger
		turnAudit   service.TurnLogger
		history     handler.HistoryReader
	)
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.PostgreSQL.DSN,
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = repo.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		searchAudit, turnAudit, history = repo, repo, repo
		log.Println("✅ Connected to PostgreSQL database")
	} else {
		log.Println("⚠️  DATABASE_URL not set - search and conversation audit logging disabled")
	}

	// Session store
	var store service.SessionStore
	if cfg.Redis.Enabled {
		redisStore := session.NewRedisStore(session.NewRedisClient(cfg.Redis), cfg.Agent.SessionTTL, clk)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Printf("✅ Connected to Redis at %s (session TTL %s)", cfg.Redis.Address, cfg.Agent.SessionTTL)
	} else {
		store = session.NewMemoryStore(clk)
		log.Println("⚠️  REDIS_ADDR not set - sessions are kept in memory")
	}

	// Upstream clients
	hotelClient := service.NewRapidAPIHotelClient(&cfg.RapidAPI, zl.Named("rapidapi"))
	if cfg.RapidAPI.Enabled {
		log.Printf("✅ Hotel provider: %s", cfg.RapidAPI.Host)
	} else {
		log.Println("⚠️  RAPIDAPI_KEY not set - every search will report an upstream error")
	}
	geocoder := service.NewNominatimGeocoder(&cfg.Geocoder, zl.Named("geocoder"))

	openaiClient := service.NewOpenAIClient(&cfg.OpenAI, zl.Named("openai"))
	if openaiClient.IsEnabled() {
		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
	} else {
		log.Println("⚠️  OpenAI is disabled - the chat agent will only return fallback replies")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI features")
	}

	// Initialize services
	ranker := service.NewRanker()
	searchService := service.NewSearchService(hotelClient, geocoder, ranker, searchAudit, cfg.Search, zl.Named("search"))
	agent := service.NewAgent(
		openaiClient,
		searchService,
		geocoder,
		service.NewDateParser(clk),
		store,
		turnAudit,
		clk,
		cfg.Agent,
		cfg.Search,
		zl.Named("agent"),
	)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchService)
	chatHandler := handler.NewChatHandler(agent, history)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(zl.Named("http")))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	corsConfig.ExposeHeaders = []string{handler.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "hotel-search-aggregator",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Search endpoints
		apiV1.POST("/hotels/search", searchHandler.Search)
		apiV1.GET("/hotels/search", searchHandler.SearchQuery)
		apiV1.GET("/test", searchHandler.Test)

		// Conversation endpoints
		apiV1.POST("/chat/sessions", chatHandler.CreateSession)
		apiV1.GET("/chat/sessions/:id", chatHandler.GetSession)
		apiV1.DELETE("/chat/sessions/:id", chatHandler.DeleteSession)
		apiV1.GET("/chat/sessions/:id/history", chatHandler.History)
		apiV1.POST("/chat", chatHandler.Send)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	log.Println("✅ Server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
