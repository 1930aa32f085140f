package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docrag/internal/adapter/loader"
	"docrag/internal/domain"
)

type uploadResponse struct {
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Passages   int    `json:"passages,omitempty"`
}

type retrieveRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

type retrieveHit struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	SourceID string  `json:"source_id"`
	Offset   int     `json:"offset"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	docs := s.documents()
	if len(docs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"has_documents": false,
			"message":       "no documents uploaded",
		})
		return
	}

	passages := 0
	names := make([]string, len(docs))
	for i, d := range docs {
		passages += d.Passages
		names[i] = d.Name
	}
	c.JSON(http.StatusOK, gin.H{
		"has_documents": true,
		"documents":     names,
		"passages":      passages,
		"message":       fmt.Sprintf("%d document(s) ready for chat", len(docs)),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, uploadResponse{Message: "missing file field", Success: false})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".txt", ".md":
	default:
		c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "only PDF, TXT and MD files are allowed",
			Success: false,
		})
		return
	}

	maxBytes := s.cfg.Server.MaxUploadMB << 20
	if maxBytes > 0 && file.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, uploadResponse{
			Message: fmt.Sprintf("file too large: maximum size is %dMB", s.cfg.Server.MaxUploadMB),
			Success: false,
		})
		return
	}

	tmp, err := os.CreateTemp("", "docrag-upload-*"+ext)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to store upload", err)
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to store upload", err)
		return
	}

	text, err := loader.Load(tmpPath)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "failed to extract text", err)
		return
	}

	if s.cfg.Server.ReplaceOnUpload {
		s.indexUC.Reset()
		s.clearDocuments()
	}

	sourceID := uuid.NewString()
	count, err := s.indexUC.IndexDocument(c.Request.Context(), sourceID, text)
	if err != nil {
		s.fail(c, embeddingStatus(err), "failed to index document", err)
		return
	}

	s.addDocument(domain.Document{
		ID:         sourceID,
		Name:       file.Filename,
		Type:       strings.TrimPrefix(ext, "."),
		UploadedAt: time.Now(),
		Passages:   count,
	})

	c.JSON(http.StatusOK, uploadResponse{
		Message:    fmt.Sprintf("%q uploaded and processed successfully, %d passages created", file.Filename, count),
		Success:    true,
		DocumentID: sourceID,
		Name:       file.Filename,
		Passages:   count,
	})
}

func (s *Server) handleRetrieve(c *gin.Context) {
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.K <= 0 {
		req.K = s.cfg.Retrieve.TopK
	}

	results, err := s.retrieveUC.Retrieve(c.Request.Context(), req.Query, req.K)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.fail(c, embeddingStatus(err), "retrieval failed", err)
		return
	}

	hits := make([]retrieveHit, len(results))
	for i, sp := range results {
		hits[i] = retrieveHit{
			Text:     sp.Passage.Text,
			Score:    sp.Score,
			SourceID: sp.Passage.SourceID,
			Offset:   sp.Passage.Offset,
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	if len(s.documents()) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no document uploaded; upload one first"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	err := s.chatUC.StreamAnswer(c.Request.Context(), req.Message, func(delta string) error {
		if _, err := c.Writer.WriteString(delta); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; all we can do is log and cut the stream.
		s.log.Error("chat stream failed", "error", err)
	}
}

// fail logs err and responds with a JSON error body.
func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	s.log.Error(msg, "error", err)
	c.JSON(status, gin.H{"error": fmt.Sprintf("%s: %v", msg, err)})
}

// embeddingStatus maps embedding-service failures to a gateway status,
// everything else to a plain 500.
func embeddingStatus(err error) int {
	var embErr *domain.EmbeddingError
	if errors.As(err, &embErr) {
		if embErr.Retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
