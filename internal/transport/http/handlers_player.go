package httptransport

import (
	"net/http"

	"pokegame/internal/achievement"
	"pokegame/internal/economy"
	"pokegame/internal/platform/middleware"
	"pokegame/internal/player"
	"pokegame/internal/roster"
	"pokegame/internal/transport/http/shared"
	dErrors "pokegame/pkg/domainerrors"
)

type registerResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Player  *player.Player `json:"player"`
	Token   string         `json:"token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.players.Register(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(p.ID, p.Name, tokenTTL)
	if err != nil {
		h.logger.ErrorContext(ctx, "token generation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, registerResponse{
		Success: true,
		Message: "welcome, " + p.Name + "!",
		Player:  p,
		Token:   token,
	})
}

type playerInfoResponse struct {
	Player *player.Player      `json:"player"`
	Party  []roster.Creature   `json:"party"`
	Items  []economy.ItemStock `json:"items"`
	Badges []achievement.Badge `json:"badges"`
}

func (h *Handler) handlePlayerInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.players.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	active, err := h.rosters.Active(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	items, err := h.economy.Items(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	badges, err := h.achievements.Badges(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	party := []roster.Creature{}
	if active != nil {
		party = append(party, *active)
	}
	shared.WriteJSON(w, http.StatusOK, playerInfoResponse{
		Player: p,
		Party:  party,
		Items:  items,
		Badges: badges,
	})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.players.Leaderboard(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "leaderboard": entries})
}
