package httptransport

import (
	"fmt"
	"net/http"

	"pokegame/internal/platform/middleware"
	"pokegame/internal/transport/http/shared"
)

func (h *Handler) handleShop(w http.ResponseWriter, r *http.Request) {
	balls, err := h.economy.ShopInventory(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "items": balls})
}

func (h *Handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := middleware.GetPlayerID(ctx)

	var req buyRequest
	if err := decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	bought, err := h.economy.Purchase(ctx, playerID, req.BallTypeID, req.Quantity)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase failed",
			"request_id", middleware.GetRequestID(ctx),
			"player_id", playerID,
			"ball_type_id", req.BallTypeID,
			"quantity", req.Quantity,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	h.metrics.Purchases.Inc()

	p, err := h.players.Get(ctx, playerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("bought %d %s ball(s)", bought.Quantity, bought.Name),
		"money":   p.Money,
	})
}
