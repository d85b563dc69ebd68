package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/rfin/internal/models"
)

// handleChat handles POST /api/chat: one synchronous conversational turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	response, err := s.app.Orchestrator.Chat(r.Context(), req.Message)
	if err != nil {
		// The iteration cap still yields a best-effort answer with the
		// partial scratchpad; surface it rather than failing the request.
		if errors.Is(err, models.ErrToolIterationLimit) && response != nil {
			s.logger.Warn().Str("turn_id", response.TurnID).Msg("Turn hit tool iteration limit")
			WriteJSON(w, http.StatusOK, response)
			return
		}
		s.logger.Error().Err(err).Msg("Chat turn failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, response)
}
