package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/service"
)

func userJSON(u *models.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"name":     u.Name,
		"email":    u.Email,
		"mobile":   u.Mobile,
	}
}

func sessionJSON(s *service.Session) map[string]any {
	return map[string]any{"token": s.Token, "user": userJSON(s.User)}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Mobile   string `json:"mobile"`
		Age      int    `json:"age"`
		Gender   string `json:"gender"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	session, err := s.authSvc.Register(r.Context(), auth.Registration{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Age:      req.Age,
		Gender:   req.Gender,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionJSON(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	session, err := s.authSvc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionJSON(session))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.authSvc.DeleteAccount(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message required"})
		return
	}

	// Chat degrades internally; it never returns an error to the client.
	writeJSON(w, http.StatusOK, map[string]string{"reply": s.planpal.Chat(r.Context(), req.Message)})
}

func (s *Server) handleAssistantSuggestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location  string `json:"location"`
		GroupSize int    `json:"group_size"`
		Mood      string `json:"mood"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Location == "" {
		req.Location = "your city"
	}
	if req.GroupSize <= 0 {
		req.GroupSize = 4
	}

	suggestions := s.planpal.EventSuggestions(r.Context(), req.Location, req.GroupSize, req.Mood)
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}
