package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/infra/metrics"
)

// usageRecordDTO is the wire shape of one stats row.
type usageRecordDTO struct {
	UserID       int64     `json:"user_id"`
	ChatID       int64     `json:"chat_id"`
	MessageCount int       `json:"message_count"`
	LastUsed     time.Time `json:"last_used"`
}

func toDTO(recs []*model.UsageRecord) []usageRecordDTO {
	out := make([]usageRecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, usageRecordDTO{
			UserID:       r.UserID,
			ChatID:       r.ChatID,
			MessageCount: r.MessageCount,
			LastUsed:     r.LastUsed,
		})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type loginRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Enabled() {
		metrics.IncAdminLogin("disabled")
		http.Error(w, "admin API disabled", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !s.auth.CheckToken(req.Token) {
		metrics.IncAdminLogin("denied")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	signed, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("session mint failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	metrics.IncAdminLogin("ok")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"token": signed})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pairs, messages, err := s.usageUC.Totals(ctx)
	if err != nil {
		http.Error(w, "Failed to get totals", http.StatusInternalServerError)
		return
	}
	top, err := s.usageUC.TopTalkers(ctx, statsLimit(r))
	if err != nil {
		http.Error(w, "Failed to get top talkers", http.StatusInternalServerError)
		return
	}

	response := struct {
		Pairs      int              `json:"pairs"`
		Messages   int64            `json:"messages"`
		TopTalkers []usageRecordDTO `json:"top_talkers"`
	}{
		Pairs:      pairs,
		Messages:   messages,
		TopTalkers: toDTO(top),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleChatStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	recs, err := s.usageUC.ByChat(ctx, chatID, statsLimit(r))
	if err != nil {
		http.Error(w, "Failed to get chat stats", http.StatusInternalServerError)
		return
	}

	response := struct {
		ChatID  int64            `json:"chat_id"`
		Records []usageRecordDTO `json:"records"`
	}{
		ChatID:  chatID,
		Records: toDTO(recs),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// statsLimit parses the optional 'limit' query parameter with a sane default
// and cap.
func statsLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
