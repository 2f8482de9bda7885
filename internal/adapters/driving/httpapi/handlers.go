package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// maxRelevantLimit bounds the limit query parameter.
const maxRelevantLimit = 50

type createDocumentRequest struct {
	Title    string `json:"title"`
	HTML     string `json:"html"`
	Content  string `json:"content"`
	FilePath string `json:"file_path"`
}

type documentResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	SourceKind string    `json:"source_kind,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	Preview    string    `json:"preview,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type chunkResponse struct {
	ID           string `json:"id"`
	Index        int    `json:"index"`
	Content      string `json:"content"`
	HasEmbedding bool   `json:"has_embedding"`
}

type transformRequest struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

func toDocumentResponse(doc *domain.Document) documentResponse {
	resp := documentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Status:    doc.Status.String(),
		Preview:   doc.Preview,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.Source != nil {
		resp.SourceKind = string(doc.Source.Kind())
	}
	if src, ok := doc.Source.(domain.FileSource); ok {
		resp.FilePath = src.Path
	}
	return resp
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"pending": s.ports.Dispatcher.Pending(),
	})
}

func (s *Server) handleCreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	doc, err := s.ports.Documents.Create(c.Request.Context(), driving.CreateDocumentRequest{
		Title:    req.Title,
		HTML:     req.HTML,
		Content:  req.Content,
		FilePath: req.FilePath,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.ports.Documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(doc))
}

// handleProcessDocument queues an ingestion run and returns immediately.
func (s *Server) handleProcessDocument(c *gin.Context) {
	id := c.Param("id")

	// Fail fast on unknown documents rather than queueing a run that aborts
	if _, err := s.ports.Documents.Get(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	if err := s.ports.Dispatcher.Submit(id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "document_id": id})
}

func (s *Server) handleListChunks(c *gin.Context) {
	chunks, err := s.ports.Documents.Chunks(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]chunkResponse, len(chunks))
	for i, ch := range chunks {
		out[i] = chunkResponse{
			ID:           ch.ID,
			Index:        ch.Index,
			Content:      ch.Content,
			HasEmbedding: ch.HasEmbedding(),
		}
	}
	c.JSON(http.StatusOK, gin.H{"chunks": out})
}

func (s *Server) handleRelevantChunks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		handleError(c, NewAppError(http.StatusBadRequest, "Missing query parameter q", nil))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRelevantLimit {
			handleError(c, NewAppError(http.StatusBadRequest, "limit must be between 1 and 50", err))
			return
		}
		limit = n
	}

	chunks := s.ports.Retrieval.GetRelevantChunks(c.Request.Context(), c.Param("id"), query, limit)
	c.JSON(http.StatusOK, gin.H{"chunks": chunks})
}

func (s *Server) handleTransform(c *gin.Context) {
	if s.ports.Transform == nil {
		handleError(c, domain.ErrLLMUnavailable)
		return
	}

	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	result, err := s.ports.Transform.Transform(c.Request.Context(), driving.TransformRequest{
		DocumentID: c.Param("id"),
		Text:       req.Text,
		Style:      req.Style,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": result.Text, "context": result.Context})
}
