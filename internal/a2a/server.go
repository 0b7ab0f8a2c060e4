package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tlycode/multi-agent-system/internal/logging"
	"github.com/tlycode/multi-agent-system/internal/tracing"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Processor executes a task on behalf of an agent server.
type Processor interface {
	Process(ctx context.Context, message string, taskTypes []models.TaskType) (interface{}, error)
}

// CapabilityLister reports the tools and resources behind an agent.
type CapabilityLister interface {
	Capabilities() Capabilities
}

// Server exposes one agent over HTTP.
type Server struct {
	card       models.AgentCard
	processor  Processor
	caps       CapabilityLister
	logger     *logging.Logger
	validate   *validator.Validate
	httpServer *http.Server
}

// NewServer creates a Server for card listening on addr. caps may be nil.
func NewServer(addr string, card models.AgentCard, processor Processor, caps CapabilityLister, logger *logging.Logger) *Server {
	s := &Server{
		card:      card,
		processor: processor,
		caps:      caps,
		logger:    logger.With(card.Name),
		validate:  validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes for the agent.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathAgentCard, s.handleAgentCard)
	mux.HandleFunc("POST "+PathProcess, s.handleProcess)
	mux.HandleFunc("GET "+PathCapabilities, s.handleCapabilities)
	return mux
}

// Card returns the agent card served by this server.
func (s *Server) Card() models.AgentCard {
	return s.card
}

// Start starts the HTTP server.
// Blocks until the server is stopped or an error occurs.
func (s *Server) Start() error {
	s.logger.Infof("listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve %s: %w", s.card.Name, err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.card)
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	caps := Capabilities{Tools: []SchemaEntry{}, Resources: []SchemaEntry{}}
	if s.caps != nil {
		caps = s.caps.Capabilities()
	}
	writeJSON(w, http.StatusOK, caps)
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeProcessRequest(r)
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, nil, err)
		return
	}

	s.logger.Infof("processing: %s (%v)", req.Message, req.TaskType)

	ctx, span := tracing.StartSpan(r.Context(), "process", "SERVER")
	span.WithAttributes(map[string]string{"agent": s.card.Name})
	result, err := s.processor.Process(ctx, req.Message, models.ParseTaskTypes(req.TaskType))
	tracing.EndSpan(span, err)
	if err != nil {
		s.logger.Errorf("process failed: %v", err)
		s.writeFailure(w, http.StatusInternalServerError, req.TaskType, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, req.TaskType, fmt.Errorf("encode result: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, ProcessResponse{
		Success:   true,
		Agent:     s.card.Name,
		TaskType:  req.TaskType,
		Result:    payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) decodeProcessRequest(r *http.Request) (ProcessRequest, error) {
	var req ProcessRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return req, fmt.Errorf("read request body: %w", ErrInvalidRequest)
	}
	if len(body) > maxBodySize {
		return req, fmt.Errorf("request body too large (max %d bytes): %w", maxBodySize, ErrInvalidRequest)
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("invalid JSON: %w", ErrInvalidRequest)
	}
	if err := s.validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return req, nil
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, taskTypes []string, err error) {
	writeJSON(w, status, ProcessResponse{
		Success:   false,
		Agent:     s.card.Name,
		TaskType:  taskTypes,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
