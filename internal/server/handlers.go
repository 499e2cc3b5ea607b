package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/service"
)

// requestUserID resolves the acting user: the user_id in the request body
// takes priority (core contract), the JWT subject is the fallback.
func requestUserID(r *http.Request, bodyUserID string) string {
	if bodyUserID != "" {
		return bodyUserID
	}
	return UserID(r.Context())
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": group.Token})
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	_ = decodeJSON(r, &req)

	userID := requestUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	if err := s.groups.Join(r.Context(), chi.URLParam(r, "token"), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

type planJSON struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Place json.RawMessage `json:"place"`
	Votes int             `json:"votes"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.groups.Snapshot(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}

	plans := make([]planJSON, len(snapshot.Plans))
	for i, t := range snapshot.Plans {
		plans[i] = planJSON{ID: t.ID, Title: t.Title, Place: t.Place, Votes: t.Votes}
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (s *Server) handleAddPlans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plans []struct {
			Title string          `json:"title"`
			Place json.RawMessage `json:"place"`
		} `json:"plans"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	batch := make([]service.NewPlan, len(req.Plans))
	for i, p := range req.Plans {
		batch[i] = service.NewPlan{Title: p.Title, Place: p.Place}
	}

	inserted, err := s.plans.Add(r.Context(), chi.URLParam(r, "token"), batch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "inserted": inserted})
}

func (s *Server) handleToggleVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	_ = decodeJSON(r, &req)

	userID := requestUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	state, votes, err := s.votes.Toggle(r.Context(),
		chi.URLParam(r, "token"), chi.URLParam(r, "planID"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": string(state), "votes": votes})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locations []string `json:"locations"`
		Mood      string   `json:"mood"`
		Limit     int      `json:"limit"`
	}
	if err := decodeJSON(r, &req); err != nil || len(req.Locations) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "locations required"})
		return
	}

	token := chi.URLParam(r, "token")
	inserted, err := s.suggest.Publish(r.Context(), token, req.Locations, req.Mood, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}

	// Return the updated ballot so the caller can render without a re-fetch.
	snapshot, err := s.groups.Snapshot(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	plans := make([]planJSON, len(snapshot.Plans))
	for i, t := range snapshot.Plans {
		plans[i] = planJSON{ID: t.ID, Title: t.Title, Place: t.Place, Votes: t.Votes}
	}

	writeJSON(w, http.StatusOK, map[string]any{"inserted": inserted, "plans": plans})
}

func (s *Server) handleUserGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	type groupJSON struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	out := make([]groupJSON, len(groups))
	for i, g := range groups {
		out[i] = groupJSON{Token: g.Token, Name: g.Name}
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": out})
}

func eventJSON(e *models.Event) map[string]any {
	return map[string]any{
		"id":               e.ID,
		"title":            e.Title,
		"starts_at":        e.StartsAt,
		"type":             e.Type,
		"location":         e.Location,
		"duration_hours":   e.DurationHours,
		"description":      e.Description,
		"cost_estimate":    e.CostEstimate,
		"max_participants": e.MaxParticipants,
		"group_id":         e.GroupID,
		"creator_id":       e.CreatorID,
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string  `json:"user_id"`
		Title           string  `json:"title"`
		StartsAt        int64   `json:"starts_at"`
		Type            string  `json:"type"`
		Location        string  `json:"location"`
		DurationHours   float64 `json:"duration_hours"`
		Description     string  `json:"description"`
		CostEstimate    float64 `json:"cost_estimate"`
		MaxParticipants int     `json:"max_participants"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title required"})
		return
	}

	userID := requestUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	event := &models.Event{
		CreatorID:       userID,
		Title:           req.Title,
		StartsAt:        req.StartsAt,
		Type:            req.Type,
		Location:        req.Location,
		DurationHours:   req.DurationHours,
		Description:     req.Description,
		CostEstimate:    req.CostEstimate,
		MaxParticipants: req.MaxParticipants,
	}

	created, err := s.events.Create(r.Context(), chi.URLParam(r, "token"), event)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventJSON(created))
}

func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Status string `json:"status"`
	}
	_ = decodeJSON(r, &req)

	userID := requestUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	if err := s.events.RSVP(r.Context(), chi.URLParam(r, "eventID"), userID, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.events.Participants(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, err)
		return
	}

	type rsvpJSON struct {
		UserID string `json:"user_id"`
		Status string `json:"status"`
	}
	out := make([]rsvpJSON, len(participants))
	for i, p := range participants {
		out[i] = rsvpJSON{UserID: p.UserID, Status: p.Status}
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": out})
}

func (s *Server) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.ListForUser(r.Context(),
		chi.URLParam(r, "userID"), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, len(events))
	for i, e := range events {
		out[i] = eventJSON(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}
