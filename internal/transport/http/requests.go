package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pokegame/internal/combat"
	"pokegame/internal/encounter"
	dErrors "pokegame/pkg/domainerrors"
)

type registerRequest struct {
	Name string `json:"name"`
}

type selectStarterRequest struct {
	SpeciesID int64 `json:"speciesId"`
}

type catchRequest struct {
	Pokemon    encounter.Wild `json:"pokemon"`
	BallTypeID int64          `json:"pokeballTypeId"`
	RosterID   int64          `json:"rosterId,omitempty"`
	Attempt    int            `json:"attempt"`
}

type attackRequest struct {
	Player   combat.Snapshot `json:"player"`
	Enemy    combat.Snapshot `json:"enemy"`
	RosterID int64           `json:"rosterId"`
	IsGym    bool            `json:"isGym"`
	GymID    int64           `json:"gymId,omitempty"`
}

type badgeRequest struct {
	GymID int64 `json:"gymId"`
}

type switchMainRequest struct {
	StorageID int64 `json:"storageId"`
}

type buyRequest struct {
	BallTypeID int64 `json:"pokeballTypeId"`
	Quantity   int   `json:"quantity"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid "+name)
	}
	return id, nil
}
