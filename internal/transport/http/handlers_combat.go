package httptransport

import (
	"errors"
	"fmt"
	"net/http"

	"pokegame/internal/combat"
	"pokegame/internal/platform/middleware"
	"pokegame/internal/transport/http/shared"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
)

func (h *Handler) handleAttack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req attackRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.battles.ResolveTurn(ctx, combat.TurnInput{
		PlayerID: playerID,
		RosterID: req.RosterID,
		Player:   req.Player,
		Enemy:    req.Enemy,
		IsGym:    req.IsGym,
		GymID:    req.GymID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "battle turn failed",
			"request_id", middleware.GetRequestID(ctx),
			"player_id", playerID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.BattleTurns.Inc()
	if res.Victory {
		kind := "wild"
		if req.IsGym {
			kind = "gym"
		}
		h.metrics.BattleVictories.WithLabelValues(kind).Inc()
		if res.ExpResult != nil && res.ExpResult.LeveledUp {
			h.metrics.LevelUps.Add(float64(res.ExpResult.LevelsGained))
		}
		if res.Badge != nil && !res.Badge.AlreadyOwned {
			h.metrics.BadgesAwarded.Inc()
		}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  res,
	})
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req badgeRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	res, err := h.achievements.AwardGymBadge(ctx, playerID, req.GymID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if res.AlreadyOwned {
		shared.WriteJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "you already own this badge",
		})
		return
	}
	h.metrics.BadgesAwarded.Inc()
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("congratulations, you earned the %s!", res.BadgeName),
		"badge":   res.BadgeName,
		"reward":  res.Reward,
	})
}

func (h *Handler) handleGyms(w http.ResponseWriter, r *http.Request) {
	gyms, err := h.catalog.Gyms(r.Context())
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			shared.WriteError(w, dErrors.New(dErrors.CodeCatalogUnavailable, "gym catalog is unavailable"))
			return
		}
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gyms"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "gyms": gyms})
}

func (h *Handler) handleChallengeGym(w http.ResponseWriter, r *http.Request) {
	gymID, err := idParam(r, "gymID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	gym, err := h.catalog.GymByID(r.Context(), gymID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "gym not found"))
			return
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			shared.WriteError(w, dErrors.New(dErrors.CodeCatalogUnavailable, "gym catalog is unavailable"))
			return
		}
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up gym"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%s sent out %s!", gym.LeaderName, gym.SpeciesName),
		"gym":     gym,
	})
}
