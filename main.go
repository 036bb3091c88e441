package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"spookin_server/config"
	"spookin_server/routes"
	"spookin_server/services"
	"spookin_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Redis
	redisService, err := services.NewRedisService(cfg.RedisDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	// Initialize the socket hub for real-time chat delivery
	hub := socket.NewHub()
	go func() {
		if err := hub.Server.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer hub.Server.Close()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	mailer := &services.Mailer{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	authService := &services.AuthService{
		Dynamo:       dynamoService,
		Profiles:     userProfileService,
		Redis:        redisService,
		Mail:         mailer,
		ResetBaseURL: cfg.ResetBaseURL,
	}
	chatService := &services.ChatService{
		Dynamo:    dynamoService,
		Profiles:  userProfileService,
		Filter:    services.NewWordFilter(),
		Broadcast: hub,
	}
	wheelService := services.NewWheelService(userProfileService, redisService, &services.SpinLogService{Dynamo: dynamoService})
	leaderboardService := services.NewLeaderboardService(dynamoService, redisService)
	imageService := &services.ImageService{Dynamo: dynamoService, Profiles: userProfileService}
	preferenceService := &services.PreferenceService{Dynamo: dynamoService}

	mediaService, err := services.NewMediaService(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CaptionEndpoint,
		cfg.CaptionAPIKey,
	)
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}

	s3Service, err := services.NewS3Service(cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to SpookIn")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Mount the Socket.IO server
	r.PathPrefix("/socket.io/").Handler(hub.Server)

	// Register routes
	routes.RegisterAuthRoutes(r, authService)
	routes.RegisterUserProfileRoutes(r, userProfileService, authService)
	routes.RegisterChatRoutes(r, chatService, authService)
	routes.RegisterWheelRoutes(r, wheelService, authService)
	routes.RegisterLeaderboardRoutes(r, leaderboardService)
	routes.RegisterImageRoutes(r, imageService, authService)
	routes.RegisterMediaRoutes(r, mediaService, authService)
	routes.RegisterS3Routes(r, s3Service, authService)
	routes.RegisterPreferenceRoutes(r, preferenceService, authService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, corsHandler))
}
