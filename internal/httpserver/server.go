package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/nvarma/eldercare-hub/internal/ai"
	"github.com/nvarma/eldercare-hub/internal/blob"
	"github.com/nvarma/eldercare-hub/internal/chat"
	"github.com/nvarma/eldercare-hub/internal/config"
	"github.com/nvarma/eldercare-hub/internal/documents"
	"github.com/nvarma/eldercare-hub/internal/extract"
	"github.com/nvarma/eldercare-hub/internal/planner"
	"github.com/nvarma/eldercare-hub/internal/reports"
	"github.com/nvarma/eldercare-hub/internal/storage"
	"github.com/nvarma/eldercare-hub/internal/storage/memory"
	"github.com/nvarma/eldercare-hub/internal/storage/postgres"
	"github.com/nvarma/eldercare-hub/internal/users"
)

// Server wires storage, the AI client and all feature handlers onto one mux.
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	storage storage.Storage
}

// New builds a fully wired server from the given config.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage picks the storage backend (memory or Postgres).
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Connecting to PostgreSQL...")
	ctx := context.Background()
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("Falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

// routes registers all HTTP routes.
func (s *Server) routes() {
	// Health check
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	client := ai.NewClient(s.config)

	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize blob store: %v", err)
	}
	log.Printf("INFO blob: mode: %s", blobMode)

	// Users API
	plannerService := planner.NewService(client)
	usersService := users.NewService(s.storage, plannerService)
	usersHandler := users.NewHandler(usersService)

	// POST /v1/users - register user and generate initial meal plan
	s.mux.HandleFunc("POST /v1/users", usersHandler.HandleRegister)

	// GET /v1/users/{uid} - fetch user record
	s.mux.HandleFunc("GET /v1/users/{uid}", usersHandler.HandleGet)

	// PATCH /v1/users/{uid} - partial profile update
	s.mux.HandleFunc("PATCH /v1/users/{uid}", usersHandler.HandleUpdate)

	// PUT /v1/users/{uid}/medications - replace medication batch and regenerate plan
	s.mux.HandleFunc("PUT /v1/users/{uid}/medications", usersHandler.HandleReplaceMedications)

	// POST /v1/users/{uid}/meal-plan - regenerate meal plan on demand
	s.mux.HandleFunc("POST /v1/users/{uid}/meal-plan", usersHandler.HandleRegeneratePlan)

	// Chat API
	chatService := chat.NewService(s.storage, client, s.config.ChatHistoryLimit)
	chatHandler := chat.NewHandler(chatService)

	// POST /v1/chat/{uid} - send message (routed by intent)
	s.mux.HandleFunc("POST /v1/chat/{uid}", chatHandler.HandleSendMessage)

	// GET /v1/chat/{uid} - conversation history
	s.mux.HandleFunc("GET /v1/chat/{uid}", chatHandler.HandleHistory)

	// Weekly reports API
	reportsService := reports.NewService(s.storage)
	reportsGenerator := reports.NewGenerator(s.storage)
	reportsHandler := reports.NewHandler(reportsService, reportsGenerator)

	// POST /v1/reports/{uid} - submit weekly well-being report
	s.mux.HandleFunc("POST /v1/reports/{uid}", reportsHandler.HandleSubmit)

	// GET /v1/reports/{uid} - list reports
	s.mux.HandleFunc("GET /v1/reports/{uid}", reportsHandler.HandleList)

	// GET /v1/reports/{uid}/summary.pdf - downloadable care summary
	s.mux.HandleFunc("GET /v1/reports/{uid}/summary.pdf", reportsHandler.HandleCareSummary)

	// Documents API
	documentsService := documents.NewService(
		s.storage,
		blobStore,
		extract.NewPlainText(),
		client,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
		s.config.Blob.S3.PresignTTL,
	)
	documentsHandler := documents.NewHandler(documentsService)

	// POST /v1/documents/{uid} - upload and analyze a medical document
	s.mux.HandleFunc("POST /v1/documents/{uid}", documentsHandler.HandleUpload)

	// GET /v1/documents/{uid} - list documents
	s.mux.HandleFunc("GET /v1/documents/{uid}", documentsHandler.HandleList)

	// GET /v1/documents/{uid}/{id} - fetch one document with download URL
	s.mux.HandleFunc("GET /v1/documents/{uid}/{id}", documentsHandler.HandleGet)
}

// handleHealthz reports server liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Middleware chain (outermost first): CORS → Rate Limit → Router
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
