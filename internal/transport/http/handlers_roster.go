package httptransport

import (
	"fmt"
	"net/http"

	"pokegame/internal/platform/middleware"
	"pokegame/internal/roster"
	"pokegame/internal/transport/http/shared"
)

func (h *Handler) handleParty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	active, err := h.rosters.Active(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	party := []roster.Creature{}
	if active != nil {
		party = append(party, *active)
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "party": party})
}

func (h *Handler) handleStorage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	stored, err := h.rosters.Storage(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "storage": stored})
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	items, err := h.economy.Items(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

func (h *Handler) handleSwitchMain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req switchMainRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	promoted, err := h.rosters.SwitchActive(ctx, playerID, req.StorageID)
	if err != nil {
		h.logger.WarnContext(ctx, "switch active failed",
			"request_id", middleware.GetRequestID(ctx),
			"player_id", playerID,
			"storage_id", req.StorageID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("%s is now your active creature!", promoted.Name),
		"pokemon": promoted,
	})
}

func (h *Handler) handleMigrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	moved, err := h.rosters.MigrateLegacyRoster(ctx, playerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"moved":   moved,
		"message": fmt.Sprintf("moved %d creatures to storage", moved),
	})
}
