package combat

import (
	"context"
	"errors"
	"fmt"

	"pokegame/internal/achievement"
	"pokegame/internal/catalog"
	"pokegame/internal/economy"
	"pokegame/internal/progression"
	"pokegame/internal/roster"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// GymSource is the catalog slice the combat service needs.
type GymSource interface {
	GymByID(ctx context.Context, id int64) (catalog.Gym, error)
}

// TurnInput is one turn request. Player and Enemy are caller-supplied
// snapshots carried between turns; RosterID names the persistent creature
// that receives experience on victory.
type TurnInput struct {
	PlayerID int64
	RosterID int64
	Player   Snapshot
	Enemy    Snapshot
	IsGym    bool
	GymID    int64
}

// TurnResult is a resolved turn plus the victory side effects, when any.
type TurnResult struct {
	Turn
	Reward    int64                       `json:"reward,omitempty"`
	ExpResult *progression.Result         `json:"expResult,omitempty"`
	Badge     *achievement.GymBadgeResult `json:"badge,omitempty"`
}

// Service resolves turns and applies victory rewards transactionally:
// experience, healing, money, and the gym badge land together or not at all.
// Non-victory turns have no durable side effects.
type Service struct {
	resolver *Resolver
	engine   *progression.Engine
	roster   *roster.Manager
	ledger   *economy.Ledger
	tracker  *achievement.Tracker
	gyms     GymSource
	runner   tx.Runner
}

func NewService(resolver *Resolver, engine *progression.Engine, rosterMgr *roster.Manager,
	ledger *economy.Ledger, tracker *achievement.Tracker, gyms GymSource, runner tx.Runner) *Service {
	return &Service{
		resolver: resolver,
		engine:   engine,
		roster:   rosterMgr,
		ledger:   ledger,
		tracker:  tracker,
		gyms:     gyms,
		runner:   runner,
	}
}

func validateSnapshot(side string, s Snapshot) error {
	if s.HP <= 0 {
		return dErrors.New(dErrors.CodeInvalidState, fmt.Sprintf("%s creature is already fainted", side))
	}
	if s.Attack < 1 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s attack must be positive", side))
	}
	if s.Level < 1 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s level must be positive", side))
	}
	return nil
}

// ResolveTurn runs one exchange. On victory it pays the reward, credits
// experience to the player's active creature, restores it to full HP, and for
// gym battles awards the badge, all in one transaction.
func (s *Service) ResolveTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if err := validateSnapshot("player", in.Player); err != nil {
		return nil, err
	}
	if err := validateSnapshot("enemy", in.Enemy); err != nil {
		return nil, err
	}

	var gym catalog.Gym
	if in.IsGym {
		var err error
		gym, err = s.gyms.GymByID(ctx, in.GymID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "gym not found")
			}
			if errors.Is(err, sentinel.ErrUnavailable) {
				return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "gym catalog is unavailable")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up gym")
		}
	}

	res := &TurnResult{Turn: s.resolver.ResolveTurn(in.Player, in.Enemy)}
	if !res.Victory {
		return res, nil
	}

	reward := s.resolver.WildReward()
	if in.IsGym {
		reward = gym.RewardMoney
	}
	expGained := ExperienceFor(in.Enemy.Level, in.IsGym)

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		active, err := s.roster.Active(ctx, in.PlayerID)
		if err != nil {
			return err
		}
		if active == nil || active.ID != in.RosterID {
			return dErrors.New(dErrors.CodeInvalidState, "creature is not the active one")
		}

		expResult := s.engine.ApplyExperience(progression.Stats{
			Name:   active.Name,
			Level:  active.Level,
			Exp:    active.Exp,
			MaxHP:  active.MaxHP,
			Attack: active.Attack,
		}, expGained)
		if err := s.roster.ApplyProgress(ctx, active.ID,
			expResult.NewExp, expResult.NewLevel, expResult.NewMaxHP, expResult.NewAttack); err != nil {
			return err
		}
		// Victory heals to the possibly raised max HP.
		if err := s.roster.Heal(ctx, active.ID); err != nil {
			return err
		}
		res.ExpResult = &expResult

		if in.IsGym {
			// The first badge award carries the gym payout; repeat victories
			// are paid directly so each win credits the reward exactly once.
			badge, err := s.tracker.AwardGymBadge(ctx, in.PlayerID, in.GymID)
			if err != nil {
				return err
			}
			res.Badge = badge
			if badge.AlreadyOwned {
				return s.ledger.Credit(ctx, in.PlayerID, reward)
			}
			return nil
		}
		return s.ledger.Credit(ctx, in.PlayerID, reward)
	})
	if err != nil {
		return nil, err
	}

	res.Reward = reward
	res.Log = append(res.Log, fmt.Sprintf("Gained %d gold!", reward))
	if res.ExpResult.LeveledUp {
		res.Log = append(res.Log, res.ExpResult.Message)
	} else {
		res.Log = append(res.Log, fmt.Sprintf("%s gained %d experience!", in.Player.Name, expGained))
	}
	return res, nil
}
