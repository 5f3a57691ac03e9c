package httptransport

import (
	"net/http"

	"pokegame/internal/transport/http/shared"
)

func (h *Handler) handlePokedex(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.achievements.Pokedex(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "pokedex": entries})
}

func (h *Handler) handlePokedexStats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	stats, err := h.achievements.Stats(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (h *Handler) handleSpecialBadges(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	badges, err := h.achievements.SpecialBadges(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "specialBadges": badges})
}
