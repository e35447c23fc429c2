package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/moodler-app/backend/internal/config"
	"github.com/moodler-app/backend/internal/database"
	"github.com/moodler-app/backend/internal/handlers"
	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/routes"
	"github.com/moodler-app/backend/internal/services"
	"github.com/moodler-app/backend/pkg/utils"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Check encryption key (warn if not set, but don't fail)
	var encryptionKey []byte
	if cfg.EncryptionKey == "" {
		log.Println("⚠️  WARNING: ENCRYPTION_KEY not set. Journal entries will be stored unencrypted.")
		log.Println("   To generate a key, run: openssl rand -base64 32")
		log.Println("   Set it in your environment: ENCRYPTION_KEY=<generated-key>")
	} else {
		key, err := utils.ParseEncryptionKey(cfg.EncryptionKey)
		if err != nil {
			log.Printf("⚠️  WARNING: ENCRYPTION_KEY is invalid: %v", err)
			log.Println("   Journal entries will be stored unencrypted.")
			log.Println("   Key must be base64-encoded 32 bytes. Generate with: openssl rand -base64 32")
		} else {
			encryptionKey = key
			log.Println("✅ Encryption key configured")
		}
	}

	// Connect to Redis (sessions, rate limiting, cache, event pub/sub)
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Wire up the profile and journal stores. STORE=memory keeps everything
	// in process for local development without PostgreSQL/MongoDB.
	var profileService services.ProfileService
	var journalService services.JournalService

	if cfg.Store == "memory" {
		log.Println("⚠️  STORE=memory: profiles and journals will not survive a restart")
		profileService = services.NewMemoryProfileService()
		journalService = services.NewMemoryJournalService()
	} else {
		log.Printf("Connecting to PostgreSQL...")
		db, err := database.ConnectPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL:", err)
		}
		defer db.Close()
		profileService = services.NewPostgresProfileService(db)

		log.Printf("Connecting to MongoDB...")
		mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer database.DisconnectMongo(mongoClient)

		if err := database.EnsureJournalIndexes(context.Background(), mongoDB); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB journal indexes: %v", err)
		} else {
			log.Println("✅ MongoDB journal indexes ensured")
		}

		journalService = services.NewMongoJournalService(mongoDB, encryptionKey)
	}

	sessionService := services.NewSessionService(redisClient)
	cacheService := services.NewCacheService(redisClient)
	classifier := services.NewMoodClassifier()

	// Pexels image search
	if cfg.PexelsAPIKey == "" {
		log.Println("Warning: PEXELS_API_KEY not set. Image search will not be available")
	}
	pexelsService := services.NewPexelsService(cfg.PexelsAPIKey, cfg.PexelsBaseURL, cacheService)

	// Cloudinary uploads
	var cloudinaryService *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryService, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Live journal event feed
	eventHub := services.NewEventHub(redisClient)
	eventHub.StartSubscriber(context.Background())

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimit(redisClient))
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:     handlers.NewAuthHandler(profileService, sessionService),
		Profile:  handlers.NewProfileHandler(profileService),
		Journal:  handlers.NewJournalHandler(journalService, classifier, eventHub),
		Insights: handlers.NewInsightsHandler(journalService),
		Images:   handlers.NewImagesHandler(pexelsService, cloudinaryService),
		Events:   handlers.NewEventsHandler(eventHub),
	}, sessionService)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/check-username")
	log.Println("  PUT  /api/profile")
	log.Println("  GET  /api/journals/draft")
	log.Println("  POST /api/journals")
	log.Println("  PUT  /api/journals/{id}")
	log.Println("  GET  /api/journals")
	log.Println("  DELETE /api/journals/{id}")
	log.Println("  POST /api/journals/{id}/favourite")
	log.Println("  GET  /api/insights/summary")
	log.Println("  GET  /api/insights/frequency")
	log.Println("  GET  /api/images/search")
	log.Println("  POST /api/upload")
	log.Println("  GET  /ws/journal")

	log.Printf("🚀 Moodler backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
