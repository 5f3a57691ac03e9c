package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pokegame/internal/achievement"
	"pokegame/internal/catalog"
	"pokegame/internal/economy"
	"pokegame/internal/encounter"
	"pokegame/internal/player"
	"pokegame/internal/progression"
	"pokegame/internal/roster"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/tx"
)

func TestRate(t *testing.T) {
	suite.Run(t, new(RateSuite))
}

type RateSuite struct {
	suite.Suite
}

func (s *RateSuite) TestHalfHPBasicBall() {
	// 5.9% base at half HP with a basic ball lands on 20.9%.
	s.InDelta(0.2090, Rate(0.059, 1.0, 30, 60, false), 1e-9)
}

func (s *RateSuite) TestMasterBallAlwaysCatches() {
	s.Equal(1.0, Rate(0.059, 100.0, 60, 60, true))
}

func (s *RateSuite) TestCapAt98Percent() {
	s.Equal(0.98, Rate(0.9, 2.0, 1, 60, false))
}

func (s *RateSuite) TestFullHPNoBonus() {
	s.InDelta(0.0885, Rate(0.059, 1.5, 60, 60, false), 1e-9)
}

// scriptedRNG returns queued values so rolls are deterministic.
type scriptedRNG struct {
	ints   []int
	floats []float64
}

func (r *scriptedRNG) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	players  *player.InMemoryStore
	rosterSt *roster.InMemoryStore
	stock    *economy.InMemoryStore
	random   *scriptedRNG
	resolver *Resolver
	tracker  *achievement.Tracker
	playerID int64
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.random = &scriptedRNG{}
	s.players = player.NewInMemoryStore()
	s.rosterSt = roster.NewInMemoryStore()
	s.stock = economy.NewInMemoryStore()

	provider := catalog.NewProvider(catalog.NewInMemoryStore(), time.Hour)
	badgeStore := achievement.NewInMemoryStore()
	runner := tx.NewMemoryRunner(s.players, s.rosterSt, s.stock, badgeStore)
	ledger := economy.NewLedger(s.stock, s.players, provider, runner)
	rosterMgr := roster.NewManager(s.rosterSt, runner)
	s.tracker = achievement.NewTracker(badgeStore, s.players, provider, runner)
	engine := progression.NewEngine(progression.NewFormulaTable(), s.random)
	s.resolver = NewResolver(ledger, rosterMgr, s.tracker, engine, provider, DefaultFleePolicy, s.random, runner)

	p, err := s.players.Create(s.ctx, "red")
	s.Require().NoError(err)
	s.playerID = p.ID
	s.Require().NoError(s.stock.AddStock(s.ctx, s.playerID, catalog.BallBasic, 5))
}

func (s *ResolverSuite) money() int64 {
	p, err := s.players.Get(s.ctx, s.playerID)
	s.Require().NoError(err)
	return p.Money
}

func (s *ResolverSuite) wild() encounter.Wild {
	return encounter.Wild{
		SpeciesID: 25, Name: "pikachu", Level: 4,
		HP: 30, MaxHP: 60, Attack: 12, BaseCatchRate: 0.059,
	}
}

func (s *ResolverSuite) TestSuccessfulCatchToParty() {
	// Roll 0.1 is under the 0.209 rate; reward roll 0.5 adds 10.
	s.random.floats = []float64{0.1, 0.5}
	before := s.money()

	res, err := s.resolver.Attempt(s.ctx, AttemptInput{
		PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallBasic, Attempt: 1,
	})
	s.Require().NoError(err)

	s.True(res.Caught)
	s.InDelta(0.2090, res.FinalRate, 1e-9)
	s.Equal(roster.LocationParty, res.Location)
	s.Equal(int64(60), res.Reward, "level*10 + floor(0.5*20) + 10")
	s.Equal(before+60, s.money())
	s.Equal(4, s.stock.Quantity(s.playerID, catalog.BallBasic), "ball spent")
	s.Nil(res.ExpResult, "no experience target given")

	s.Require().NotNil(res.Record)
	s.True(res.Record.IsNew)

	active, err := s.rosterSt.GetRosterSlot(s.ctx, s.playerID)
	s.Require().NoError(err)
	s.Equal("pikachu", active.Name)
	s.Equal(30, active.HP, "captured at its weakened hp")
}

func (s *ResolverSuite) TestOverflowToStorageWithExperience() {
	slotID, err := s.rosterSt.InsertRosterSlot(s.ctx, roster.Creature{
		PlayerID: s.playerID, SpeciesID: 1, Name: "bulbasaur",
		Level: 1, Exp: 0, HP: 20, MaxHP: 20, Attack: 6,
	})
	s.Require().NoError(err)

	s.random.floats = []float64{0.1, 0.0}
	res, err := s.resolver.Attempt(s.ctx, AttemptInput{
		PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallBasic,
		RosterID: slotID, Attempt: 1,
	})
	s.Require().NoError(err)

	s.True(res.Caught)
	s.Equal(roster.LocationStorage, res.Location)

	// Capture grants level*15 = 60 experience to the active creature.
	s.Require().NotNil(res.ExpResult)
	s.Equal(60, res.ExpResult.ExpGained)
	s.False(res.ExpResult.LeveledUp)

	active, err := s.rosterSt.GetRosterSlot(s.ctx, s.playerID)
	s.Require().NoError(err)
	s.Equal("bulbasaur", active.Name, "active slot untouched")
	s.Equal(60, active.Exp)
}

func (s *ResolverSuite) TestFailedThrowStillSpendsTheBall() {
	s.Run("early attempt just breaks free", func() {
		s.random.floats = []float64{0.99}
		before := s.money()

		res, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallBasic, Attempt: 1,
		})
		s.Require().NoError(err)

		s.False(res.Caught)
		s.False(res.Fled)
		s.Equal(4, s.stock.Quantity(s.playerID, catalog.BallBasic))
		s.Equal(before, s.money())

		active, err := s.rosterSt.GetRosterSlot(s.ctx, s.playerID)
		s.Require().NoError(err)
		s.Nil(active)
	})

	s.Run("third failure makes it flee", func() {
		s.random.floats = []float64{0.99}
		res, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallBasic, Attempt: 3,
		})
		s.Require().NoError(err)
		s.False(res.Caught)
		s.True(res.Fled)
	})
}

func (s *ResolverSuite) TestPreconditions() {
	s.Run("fainted wild", func() {
		w := s.wild()
		w.HP = 0
		_, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: w, BallTypeID: catalog.BallBasic, Attempt: 1,
		})
		s.Equal(dErrors.CodeInvalidState, dErrors.CodeOf(err))
		s.Equal(5, s.stock.Quantity(s.playerID, catalog.BallBasic), "no ball spent")
	})

	s.Run("no balls of the chosen type", func() {
		_, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallHyper, Attempt: 1,
		})
		s.Equal(dErrors.CodeInsufficientResource, dErrors.CodeOf(err))
		s.Equal("no balls", dErrors.MessageOf(err))
	})

	s.Run("unknown ball type", func() {
		_, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: s.wild(), BallTypeID: 42, Attempt: 1,
		})
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("stale experience target", func() {
		s.random.floats = []float64{0.0, 0.0}
		_, err := s.resolver.Attempt(s.ctx, AttemptInput{
			PlayerID: s.playerID, Wild: s.wild(), BallTypeID: catalog.BallBasic,
			RosterID: 9999, Attempt: 1,
		})
		s.Equal(dErrors.CodeInvalidState, dErrors.CodeOf(err))
	})
}

func TestFleePolicy(t *testing.T) {
	p := FleePolicy{MaxAttempts: 3}
	for attempt, want := range map[int]bool{1: false, 2: false, 3: true, 4: true} {
		if got := p.Fled(attempt); got != want {
			t.Errorf("Fled(%d) = %v, want %v", attempt, got, want)
		}
	}
}
