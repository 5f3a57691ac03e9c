package httptransport

import (
	"errors"
	"fmt"
	"net/http"

	"pokegame/internal/capture"
	"pokegame/internal/platform/middleware"
	"pokegame/internal/roster"
	"pokegame/internal/transport/http/shared"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
)

func (h *Handler) handleExplore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wild, err := h.encounters.Generate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "encounter generation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	h.metrics.EncountersGenerated.Inc()

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("A wild %s appeared!", wild.Name),
		"pokemon": wild,
	})
}

// Starter creatures are built server-side from the species id; clients never
// supply stats.
const (
	starterLevel  = 5
	starterHP     = 35
	starterAttack = 12
)

func (h *Handler) handleSelectStarter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req selectStarterRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	sp, err := h.catalog.SpeciesByID(ctx, req.SpeciesID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown species"))
			return
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			shared.WriteError(w, dErrors.New(dErrors.CodeCatalogUnavailable, "species catalog is unavailable"))
			return
		}
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up species"))
		return
	}

	_, err = h.rosters.AddStarter(ctx, playerID, roster.Creature{
		SpeciesID: sp.ID,
		Name:      sp.Name,
		Sprite:    sp.Sprite,
		Level:     starterLevel,
		HP:        starterHP,
		MaxHP:     starterHP,
		Attack:    starterAttack,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"caught":   true,
		"location": roster.LocationParty,
		"message":  fmt.Sprintf("You chose %s as your starter!", sp.Name),
	})
}

func (h *Handler) handleCatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req catchRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.Attempt < 1 {
		req.Attempt = 1
	}

	res, err := h.captures.Attempt(ctx, capture.AttemptInput{
		PlayerID:   playerID,
		Wild:       req.Pokemon,
		BallTypeID: req.BallTypeID,
		RosterID:   req.RosterID,
		Attempt:    req.Attempt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "capture attempt failed",
			"request_id", middleware.GetRequestID(ctx),
			"player_id", playerID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	h.metrics.CaptureAttempts.Inc()
	if res.Caught {
		h.metrics.CaptureSuccesses.Inc()
		if res.ExpResult != nil && res.ExpResult.LeveledUp {
			h.metrics.LevelUps.Add(float64(res.ExpResult.LevelsGained))
		}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  res,
	})
}
