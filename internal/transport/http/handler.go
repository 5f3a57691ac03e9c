// Package httptransport is the thin HTTP layer: typed request decoding,
// auth context, and delegation to the domain services. No business rules
// live here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokegame/internal/achievement"
	"pokegame/internal/capture"
	"pokegame/internal/catalog"
	"pokegame/internal/combat"
	"pokegame/internal/economy"
	"pokegame/internal/encounter"
	"pokegame/internal/platform/metrics"
	"pokegame/internal/platform/middleware"
	"pokegame/internal/player"
	"pokegame/internal/roster"
)

const tokenTTL = 24 * time.Hour

// TokenIssuer mints access tokens for newly registered players.
type TokenIssuer interface {
	GenerateAccessToken(playerID int64, name string, expiresIn time.Duration) (string, error)
}

// EncounterService generates wild encounters.
type EncounterService interface {
	Generate(ctx context.Context) (*encounter.Wild, error)
}

// CaptureService resolves ball throws.
type CaptureService interface {
	Attempt(ctx context.Context, in capture.AttemptInput) (*capture.AttemptResult, error)
}

// CombatService resolves battle turns.
type CombatService interface {
	ResolveTurn(ctx context.Context, in combat.TurnInput) (*combat.TurnResult, error)
}

// RosterService exposes the roster operations the transport needs.
type RosterService interface {
	Active(ctx context.Context, playerID int64) (*roster.Creature, error)
	Storage(ctx context.Context, playerID int64) ([]roster.Creature, error)
	SwitchActive(ctx context.Context, playerID, storageEntryID int64) (*roster.Creature, error)
	MigrateLegacyRoster(ctx context.Context, playerID int64) (int, error)
	AddStarter(ctx context.Context, playerID int64, c roster.Creature) (int64, error)
}

// PlayerService exposes registration, lookup, and the leaderboard.
type PlayerService interface {
	Register(ctx context.Context, name string) (*player.Player, error)
	Get(ctx context.Context, id int64) (*player.Player, error)
	Leaderboard(ctx context.Context) ([]player.LeaderboardEntry, error)
}

// EconomyService exposes the shop operations.
type EconomyService interface {
	Purchase(ctx context.Context, playerID, ballTypeID int64, qty int) (*economy.ItemStock, error)
	Items(ctx context.Context, playerID int64) ([]economy.ItemStock, error)
	ShopInventory(ctx context.Context) ([]catalog.BallType, error)
}

// AchievementService exposes badges and the pokedex.
type AchievementService interface {
	AwardGymBadge(ctx context.Context, playerID, gymID int64) (*achievement.GymBadgeResult, error)
	Pokedex(ctx context.Context, playerID int64) ([]achievement.PokedexEntry, error)
	Stats(ctx context.Context, playerID int64) (*achievement.PokedexStats, error)
	Badges(ctx context.Context, playerID int64) ([]achievement.Badge, error)
	SpecialBadges(ctx context.Context, playerID int64) ([]achievement.SpecialBadge, error)
}

// CatalogService exposes the read-only reference data the transport serves
// directly.
type CatalogService interface {
	SpeciesByID(ctx context.Context, id int64) (catalog.Species, error)
	Gyms(ctx context.Context) ([]catalog.Gym, error)
	GymByID(ctx context.Context, id int64) (catalog.Gym, error)
}

// Handler owns every game route.
type Handler struct {
	logger       *slog.Logger
	metrics      *metrics.Metrics
	validator    middleware.JWTValidator
	tokens       TokenIssuer
	encounters   EncounterService
	captures     CaptureService
	battles      CombatService
	rosters      RosterService
	players      PlayerService
	economy      EconomyService
	achievements AchievementService
	catalog      CatalogService
}

func New(
	logger *slog.Logger,
	m *metrics.Metrics,
	validator middleware.JWTValidator,
	tokens TokenIssuer,
	encounters EncounterService,
	captures CaptureService,
	battles CombatService,
	rosters RosterService,
	players PlayerService,
	economySvc EconomyService,
	achievements AchievementService,
	catalogSvc CatalogService,
) *Handler {
	return &Handler{
		logger:       logger,
		metrics:      m,
		validator:    validator,
		tokens:       tokens,
		encounters:   encounters,
		captures:     captures,
		battles:      battles,
		rosters:      rosters,
		players:      players,
		economy:      economySvc,
		achievements: achievements,
		catalog:      catalogSvc,
	}
}

// NewRouter builds the full server handler: game routes, health, and the
// prometheus endpoint. Reads are public; every mutation runs behind the JWT
// middleware and takes its player id from the token.
func NewRouter(h *Handler, reg prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	base := []func(http.Handler) http.Handler{
		middleware.Recovery(h.logger),
		middleware.RequestID,
		middleware.Logger(h.logger),
		middleware.Timeout(30 * time.Second),
		middleware.ContentTypeJSON,
		middleware.Latency(h.metrics),
	}

	r.Group(func(r chi.Router) {
		r.Use(base...)
		r.Post("/game/register", h.handleRegister)
		r.Get("/game/explore", h.handleExplore)
		r.Get("/game/leaderboard", h.handleLeaderboard)
		r.Get("/game/shop", h.handleShop)
		r.Get("/game/gyms", h.handleGyms)
		r.Get("/game/gym/{gymID}", h.handleChallengeGym)
		r.Get("/game/player/{playerID}", h.handlePlayerInfo)
		r.Get("/game/party/{playerID}", h.handleParty)
		r.Get("/game/storage/{playerID}", h.handleStorage)
		r.Get("/game/items/{playerID}", h.handleItems)
		r.Get("/game/pokedex/{playerID}", h.handlePokedex)
		r.Get("/game/pokedex-stats/{playerID}", h.handlePokedexStats)
		r.Get("/game/special-badges/{playerID}", h.handleSpecialBadges)
	})

	r.Group(func(r chi.Router) {
		r.Use(base...)
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/game/select-starter", h.handleSelectStarter)
		r.Post("/game/catch", h.handleCatch)
		r.Post("/game/attack", h.handleAttack)
		r.Post("/game/badge", h.handleBadge)
		r.Post("/game/switch-main", h.handleSwitchMain)
		r.Post("/game/migrate", h.handleMigrate)
		r.Post("/game/shop/buy", h.handleBuy)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}
