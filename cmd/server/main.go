package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/triporia/triporia-backend/internal/config"
	"github.com/triporia/triporia-backend/internal/database"
	"github.com/triporia/triporia-backend/internal/handlers"
	"github.com/triporia/triporia-backend/internal/middleware"
	"github.com/triporia/triporia-backend/internal/routes"
	"github.com/triporia/triporia-backend/internal/services"
	"github.com/triporia/triporia-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// The signing secret is the one piece of process-wide auth state;
	// refusing to start without it beats minting unverifiable tokens.
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set. Generate one with: openssl rand -base64 32")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Cloudinary is optional; uploads report unavailable without it
	var cloudinarySvc *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		svc, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
		} else {
			cloudinarySvc = svc
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Google login is optional too
	var verifier services.GoogleVerifier
	var googleFlow *services.GoogleOAuth
	if cfg.GoogleClientID != "" {
		verifier = services.NewGoogleVerifier(cfg.GoogleClientID)
		if cfg.GoogleClientSecret != "" && cfg.GoogleCallbackURL != "" {
			googleFlow = services.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
		}
		log.Println("✅ Google login configured")
	} else {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google login will not be available")
	}

	// Wire the service graph
	users := store.NewUserStore()
	reviews := store.NewReviewStore()
	items := store.NewItemStore()

	var exchanger services.GoogleExchanger
	if googleFlow != nil {
		exchanger = googleFlow
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	identity := services.NewIdentityService(users, tokens, verifier, exchanger)
	ratings := services.NewRatingService(reviews, items)

	handlers.Init(cfg, identity, ratings, googleFlow, cloudinarySvc)

	// Router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
	}
	r.Use(middleware.RateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.Setup(r, tokens, users)

	log.Printf("🚀 Triporia backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
