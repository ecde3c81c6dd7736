package web

import (
	"context"
	"net/http"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/FileLanderScaner/ANALYZER/internal/driven"
	"github.com/FileLanderScaner/ANALYZER/internal/llm"
	"github.com/FileLanderScaner/ANALYZER/internal/models"
	"github.com/FileLanderScaner/ANALYZER/internal/websocket"
	"github.com/sirupsen/logrus"
)

const (
	maxBodyBytes = 5 << 20
	// генерация отчёта и артефактов может идти минутами
	writeTimeout = 10 * time.Minute
)

type pipelineI interface {
	RunAll(ctx context.Context, sub *models.Submission, caller driven.Caller) *models.AggregateResult
	AskAssistant(ctx context.Context, req *llm.AssistantRequest) (*llm.AssistantResponse, error)
}

type storageI interface {
	ListRecords(ctx context.Context, userID string, limit int) ([]models.AnalysisRecord, error)
	GetRecord(ctx context.Context, userID, id string) (*models.AnalysisRecord, error)
	IsEntitled(ctx context.Context, userID string) (bool, error)
}

type Server struct {
	config   *config.Config
	pipeline pipelineI
	storage  storageI
	server   *http.Server
	hub      *websocket.Hub
	log      logrus.FieldLogger
}

func NewServer(cfg *config.Config, pipeline pipelineI, store storageI, hub *websocket.Hub, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		config:   cfg,
		pipeline: pipeline,
		storage:  store,
		hub:      hub,
		log:      log.WithField("component", "web"),
	}
}

// Handler builds the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/assistant", s.handleAssistant)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /api/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleGetAnalysis)

	// WebSocket endpoint
	if s.hub != nil {
		mux.HandleFunc("/ws", s.hub.ServeWS)
	}

	// Health check
	mux.HandleFunc(
		"GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		},
	)

	return CORS(RequestLogger(s.log)(mux))
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Web.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout,
	}

	s.log.WithField("addr", s.config.Web.ListenAddr).Info("🌐 HTTP server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}
