package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// replyResponse is the body of every event response: the single reply text
// the orchestrator produced for the user.
type replyResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	s.logger.Debug("upload request",
		zap.String("user_id", userID),
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(data)),
	)
	reply, stored := s.orch.HandleUpload(r.Context(), userID, header.Filename, data)
	status := http.StatusCreated
	if !stored {
		status = http.StatusUnprocessableEntity
	}
	s.respondJSON(w, status, replyResponse{Reply: reply})
}

type messageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	s.logger.Debug("message request", zap.String("user_id", userID))
	reply := s.orch.HandleMessage(r.Context(), userID, req.Content)
	s.respondJSON(w, http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.logger.Debug("reset request", zap.String("user_id", userID))
	reply, _ := s.orch.HandleReset(r.Context(), userID)
	s.respondJSON(w, http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	reply := s.orch.HandleStatus(r.Context(), userID)
	s.respondJSON(w, http.StatusOK, replyResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
