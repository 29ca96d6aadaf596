package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"select-studio/internal/auth"
	"select-studio/internal/config"
	"select-studio/internal/http"
	"select-studio/internal/notify"
	"select-studio/internal/repository/postgres"
	"select-studio/internal/selection"
	"select-studio/internal/storage/s3"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	serverAddrPrefix = ":"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	projectRepo := postgres.NewProjectRepository(db)

	s3Client, err := s3.NewClient(&cfg.AWS, cfg.App.PresignedURLExpiry, cfg.App.UploadBatchSize)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	log.Println("S3 client initialized")

	mailProvider := notify.NewResendProvider(notify.ResendConfig{APIKey: cfg.Mail.ResendAPIKey})
	dispatcher := notify.NewDispatcher(mailProvider, cfg.Mail.From, cfg.Admin.Email, cfg.App.GalleryBaseURL)

	coordinators := selection.NewManager(projectRepo, dispatcher, cfg.App.ExtraRetouchPriceCents, log.Default())

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	credentials := auth.NewCredentials(cfg.Admin.Email, cfg.Admin.PasswordHash)
	authMiddleware := auth.NewMiddleware(jwtService)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		ProjectRepo:    projectRepo,
		S3Client:       s3Client,
		Coordinators:   coordinators,
		Notifier:       dispatcher,
		JWTService:     jwtService,
		Credentials:    credentials,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
