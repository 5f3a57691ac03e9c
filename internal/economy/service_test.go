package economy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pokegame/internal/catalog"
	"pokegame/internal/player"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/tx"
)

type LedgerSuite struct {
	suite.Suite
	ctx     context.Context
	players *player.InMemoryStore
	stock   *InMemoryStore
	ledger  *Ledger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.players = player.NewInMemoryStore()
	s.stock = NewInMemoryStore()
	balls := catalog.NewProvider(catalog.NewInMemoryStore(), time.Hour)
	runner := tx.NewMemoryRunner(s.players, s.stock)
	s.ledger = NewLedger(s.stock, s.players, balls, runner)
}

// newPlayer creates a player and pins the balance to an exact amount.
func (s *LedgerSuite) newPlayer(money int64) int64 {
	p, err := s.players.Create(s.ctx, "trainer")
	s.Require().NoError(err)
	s.Require().NoError(s.players.AdjustMoney(s.ctx, p.ID, money-p.Money))
	return p.ID
}

func (s *LedgerSuite) balance(id int64) int64 {
	p, err := s.players.Get(s.ctx, id)
	s.Require().NoError(err)
	return p.Money
}

func (s *LedgerSuite) TestCreditDebit() {
	id := s.newPlayer(100)

	s.Run("credit adds", func() {
		s.Require().NoError(s.ledger.Credit(s.ctx, id, 50))
		s.Equal(int64(150), s.balance(id))
	})

	s.Run("debit subtracts", func() {
		s.Require().NoError(s.ledger.Debit(s.ctx, id, 150))
		s.Equal(int64(0), s.balance(id))
	})

	s.Run("overdraft refused", func() {
		err := s.ledger.Debit(s.ctx, id, 1)
		s.Equal(dErrors.CodeInsufficientResource, dErrors.CodeOf(err))
		s.Equal(int64(0), s.balance(id))
	})

	s.Run("negative amounts rejected", func() {
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(s.ledger.Credit(s.ctx, id, -5)))
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(s.ledger.Debit(s.ctx, id, -5)))
	})

	s.Run("unknown player", func() {
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(s.ledger.Credit(s.ctx, 404, 5)))
	})
}

func (s *LedgerSuite) TestPurchase() {
	s.Run("insufficient funds leaves everything untouched", func() {
		id := s.newPlayer(250)

		_, err := s.ledger.Purchase(s.ctx, id, catalog.BallBasic, 3)
		s.Equal(dErrors.CodeInsufficientResource, dErrors.CodeOf(err))
		s.Equal(int64(250), s.balance(id))
		s.Equal(0, s.stock.Quantity(id, catalog.BallBasic))
	})

	s.Run("debits total price and stocks the balls", func() {
		id := s.newPlayer(350)

		bought, err := s.ledger.Purchase(s.ctx, id, catalog.BallBasic, 3)
		s.Require().NoError(err)
		s.Equal(3, bought.Quantity)
		s.Equal("basic", bought.Name)
		s.Equal(int64(50), s.balance(id))
		s.Equal(3, s.stock.Quantity(id, catalog.BallBasic))
	})

	s.Run("stacks onto existing stock", func() {
		id := s.newPlayer(1000)
		s.Require().NoError(s.stock.AddStock(s.ctx, id, catalog.BallBasic, 2))

		_, err := s.ledger.Purchase(s.ctx, id, catalog.BallBasic, 1)
		s.Require().NoError(err)
		s.Equal(3, s.stock.Quantity(id, catalog.BallBasic))
	})

	s.Run("zero quantity rejected", func() {
		id := s.newPlayer(1000)
		_, err := s.ledger.Purchase(s.ctx, id, catalog.BallBasic, 0)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("unknown ball type", func() {
		id := s.newPlayer(1000)
		_, err := s.ledger.Purchase(s.ctx, id, 99, 1)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("stock failure rolls back the debit", func() {
		id := s.newPlayer(500)
		s.stock.FailAddStock = true
		defer func() { s.stock.FailAddStock = false }()

		_, err := s.ledger.Purchase(s.ctx, id, catalog.BallBasic, 2)
		s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
		s.Equal(int64(500), s.balance(id))
	})
}

func (s *LedgerSuite) TestConsumeBall() {
	id := s.newPlayer(1000)
	s.Require().NoError(s.stock.AddStock(s.ctx, id, catalog.BallSuper, 1))

	s.Run("spends one ball", func() {
		s.Require().NoError(s.ledger.ConsumeBall(s.ctx, id, catalog.BallSuper))
		s.Equal(0, s.stock.Quantity(id, catalog.BallSuper))
	})

	s.Run("empty stock", func() {
		err := s.ledger.ConsumeBall(s.ctx, id, catalog.BallSuper)
		s.Equal(dErrors.CodeInsufficientResource, dErrors.CodeOf(err))
		s.Equal("no balls", dErrors.MessageOf(err))
	})
}
