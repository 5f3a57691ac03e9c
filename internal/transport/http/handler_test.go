package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"pokegame/internal/achievement"
	"pokegame/internal/capture"
	"pokegame/internal/catalog"
	"pokegame/internal/combat"
	"pokegame/internal/economy"
	"pokegame/internal/encounter"
	"pokegame/internal/identity"
	"pokegame/internal/platform/metrics"
	"pokegame/internal/player"
	"pokegame/internal/progression"
	"pokegame/internal/roster"
	"pokegame/pkg/platform/rng"
	"pokegame/pkg/platform/tx"
	"pokegame/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	playerStore := player.NewInMemoryStore()
	rosterStore := roster.NewInMemoryStore()
	stockStore := economy.NewInMemoryStore()
	badgeStore := achievement.NewInMemoryStore()
	provider := catalog.NewProvider(catalog.NewInMemoryStore(), time.Hour)
	runner := tx.NewMemoryRunner(playerStore, rosterStore, stockStore, badgeStore)
	random := rng.NewSeeded(42)

	rosterMgr := roster.NewManager(rosterStore, runner)
	ledger := economy.NewLedger(stockStore, playerStore, provider, runner)
	tracker := achievement.NewTracker(badgeStore, playerStore, provider, runner)
	engine := progression.NewEngine(progression.NewFormulaTable(), random)
	players := player.NewService(playerStore, stockStore, nil, runner)
	generator := encounter.NewGenerator(provider, random)
	captures := capture.NewResolver(ledger, rosterMgr, tracker, engine, provider,
		capture.DefaultFleePolicy, random, runner)
	battles := combat.NewService(combat.NewResolver(random), engine, rosterMgr,
		ledger, tracker, provider, runner)
	jwtSvc := identity.NewJWTService("test-signing-key", "pokegame-test")

	h := New(logger, m, jwtSvc, jwtSvc, generator, captures, battles,
		rosterMgr, players, ledger, tracker, provider)
	s.router = NewRouter(h, reg)
}

func (s *HandlerSuite) post(path, token string, body any) (int, map[string]any) {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := testutil.DoRequest(s.router, req)
	return rr.Code, testutil.DecodeJSON(s.T(), rr)
}

func (s *HandlerSuite) get(path string) (int, map[string]any) {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)
	rr := testutil.DoRequest(s.router, req)
	return rr.Code, testutil.DecodeJSON(s.T(), rr)
}

// register creates a player through the API and returns its id and token.
func (s *HandlerSuite) register(name string) (int64, string) {
	code, body := s.post("/game/register", "", map[string]string{"name": name})
	s.Require().Equal(http.StatusCreated, code)

	playerObj := body["player"].(map[string]any)
	return int64(playerObj["id"].(float64)), body["token"].(string)
}

func (s *HandlerSuite) TestRegister() {
	s.Run("creates a player with starting grants", func() {
		code, body := s.post("/game/register", "", map[string]string{"name": "ash"})
		s.Equal(http.StatusCreated, code)
		s.Equal(true, body["success"])
		s.NotEmpty(body["token"])

		playerObj := body["player"].(map[string]any)
		s.Equal("ash", playerObj["name"])
		s.Equal(float64(1000), playerObj["money"])
	})

	s.Run("duplicate name is a conflict", func() {
		code, _ := s.post("/game/register", "", map[string]string{"name": "ash"})
		s.Equal(http.StatusConflict, code)
	})

	s.Run("empty name is rejected", func() {
		code, _ := s.post("/game/register", "", map[string]string{"name": ""})
		s.Equal(http.StatusBadRequest, code)
	})
}

func (s *HandlerSuite) TestExplore() {
	code, body := s.get("/game/explore")
	s.Equal(http.StatusOK, code)
	s.Equal(true, body["success"])

	wild := body["pokemon"].(map[string]any)
	level := wild["level"].(float64)
	s.GreaterOrEqual(level, float64(1))
	s.LessOrEqual(level, float64(10))
	s.NotEmpty(wild["name"])
}

func (s *HandlerSuite) TestAuthRequired() {
	for _, path := range []string{
		"/game/select-starter", "/game/catch", "/game/attack",
		"/game/badge", "/game/switch-main", "/game/migrate", "/game/shop/buy",
	} {
		code, _ := s.post(path, "", map[string]any{})
		s.Equal(http.StatusUnauthorized, code, path)
	}
}

func (s *HandlerSuite) TestStarterAndShopFlow() {
	playerID, token := s.register("misty")

	s.Run("starter can be chosen once", func() {
		code, body := s.post("/game/select-starter", token, map[string]any{"speciesId": 7})
		s.Equal(http.StatusOK, code)
		s.Equal(true, body["success"])
		s.Contains(body["message"], "squirtle")

		code, _ = s.post("/game/select-starter", token, map[string]any{"speciesId": 1})
		s.Equal(http.StatusUnprocessableEntity, code)
	})

	s.Run("party shows the starter", func() {
		code, body := s.get("/game/party/" + strconv.FormatInt(playerID, 10))
		s.Equal(http.StatusOK, code)
		party := body["party"].([]any)
		s.Require().Len(party, 1)
		s.Equal("squirtle", party[0].(map[string]any)["name"])
	})

	s.Run("purchase debits money and stocks balls", func() {
		code, body := s.post("/game/shop/buy", token, map[string]any{
			"pokeballTypeId": 2, "quantity": 2,
		})
		s.Equal(http.StatusOK, code)
		s.Equal(true, body["success"])
		s.Equal(float64(400), body["money"], "1000 - 2*300")
	})

	s.Run("overspending is refused", func() {
		code, body := s.post("/game/shop/buy", token, map[string]any{
			"pokeballTypeId": 4, "quantity": 1,
		})
		s.Equal(http.StatusUnprocessableEntity, code)
		s.Equal(false, body["success"])
	})
}

func (s *HandlerSuite) TestBadgeEnvelope() {
	_, token := s.register("brock")

	s.Run("first award succeeds", func() {
		code, body := s.post("/game/badge", token, map[string]any{"gymId": 1})
		s.Equal(http.StatusOK, code)
		s.Equal(true, body["success"])
		s.Equal("Boulder Badge", body["badge"])
		s.Equal(float64(500), body["reward"])
	})

	s.Run("second award reports already owned", func() {
		code, body := s.post("/game/badge", token, map[string]any{"gymId": 1})
		s.Equal(http.StatusOK, code)
		s.Equal(false, body["success"])
	})
}

func (s *HandlerSuite) TestLeaderboard() {
	s.register("gary")

	code, body := s.get("/game/leaderboard")
	s.Equal(http.StatusOK, code)
	s.Equal(true, body["success"])
	entries := body["leaderboard"].([]any)
	s.Require().Len(entries, 1)
	s.Equal("gary", entries[0].(map[string]any)["name"])
}
