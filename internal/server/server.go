package server

import (
	"log/slog"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"docrag/config"
	"docrag/internal/domain"
	"docrag/internal/usecase"
)

// Server exposes the retrieval pipeline over HTTP: document upload,
// raw top-k retrieval, retrieval-augmented chat with a streamed
// response, and status/health probes.
type Server struct {
	cfg        *config.Config
	indexUC    *usecase.IndexUseCase
	retrieveUC *usecase.RetrieveUseCase
	chatUC     *usecase.ChatUseCase
	log        *slog.Logger

	mu   sync.RWMutex
	docs []domain.Document
}

func New(
	cfg *config.Config,
	indexUC *usecase.IndexUseCase,
	retrieveUC *usecase.RetrieveUseCase,
	chatUC *usecase.ChatUseCase,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		indexUC:    indexUC,
		retrieveUC: retrieveUC,
		chatUC:     chatUC,
		log:        log,
	}
}

// Router builds the gin engine with CORS open to any origin, matching
// the browser-facing deployments this service fronts.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"*"}
	corsCfg.AllowMethods = []string{"*"}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/status", s.handleStatus)
	api.POST("/upload", s.handleUpload)
	api.POST("/retrieve", s.handleRetrieve)
	api.POST("/chat", s.handleChat)

	return r
}

// Run serves HTTP on the configured address until the listener fails.
func (s *Server) Run() error {
	s.log.Info("starting http server", "addr", s.cfg.Server.Addr)
	return s.Router().Run(s.cfg.Server.Addr)
}

func (s *Server) addDocument(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

func (s *Server) clearDocuments() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}

func (s *Server) documents() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}
