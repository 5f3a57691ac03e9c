// Package capture resolves ball throws: the catch probability roll, the
// unconditional ball cost, and the all-or-nothing success side effects.
package capture

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pokegame/internal/achievement"
	"pokegame/internal/catalog"
	"pokegame/internal/economy"
	"pokegame/internal/encounter"
	"pokegame/internal/progression"
	"pokegame/internal/roster"
	dErrors "pokegame/pkg/domainerrors"
	"pokegame/pkg/platform/rng"
	"pokegame/pkg/platform/sentinel"
	"pokegame/pkg/platform/tx"
)

// BallSource is the catalog slice the resolver needs.
type BallSource interface {
	BallTypeByID(ctx context.Context, id int64) (catalog.BallType, error)
}

// AttemptInput is one throw. RosterID optionally names the active creature
// that earns experience for a successful catch; Attempt is the 1-based throw
// count within this encounter, consumed by the flee policy.
type AttemptInput struct {
	PlayerID   int64
	Wild       encounter.Wild
	BallTypeID int64
	RosterID   int64
	Attempt    int
}

// AttemptResult reports one throw's outcome.
type AttemptResult struct {
	Caught    bool                       `json:"caught"`
	Fled      bool                       `json:"fled"`
	FinalRate float64                    `json:"finalRate"`
	BallName  string                     `json:"ballName"`
	Message   string                     `json:"message"`
	Location  roster.Location            `json:"location,omitempty"`
	Reward    int64                      `json:"reward,omitempty"`
	ExpResult *progression.Result        `json:"expResult,omitempty"`
	Record    *achievement.CaptureRecord `json:"record,omitempty"`
}

// Rate computes the final catch probability. A master ball always catches;
// everything else caps at 98%, with up to +30% from missing HP.
func Rate(base, multiplier float64, hp, maxHP int, isMaster bool) float64 {
	if isMaster {
		return 1.0
	}
	hpBonus := (1 - float64(hp)/float64(maxHP)) * 0.3
	return math.Min(base*multiplier+hpBonus, 0.98)
}

// Resolver runs capture attempts. The ball is spent before the roll, win or
// lose; everything a success touches lands in one transaction.
type Resolver struct {
	ledger  *economy.Ledger
	roster  *roster.Manager
	tracker *achievement.Tracker
	engine  *progression.Engine
	balls   BallSource
	flee    FleePolicy
	random  rng.RNG
	runner  tx.Runner
}

func NewResolver(ledger *economy.Ledger, rosterMgr *roster.Manager, tracker *achievement.Tracker,
	engine *progression.Engine, balls BallSource, flee FleePolicy, random rng.RNG, runner tx.Runner) *Resolver {
	return &Resolver{
		ledger:  ledger,
		roster:  rosterMgr,
		tracker: tracker,
		engine:  engine,
		balls:   balls,
		flee:    flee,
		random:  random,
		runner:  runner,
	}
}

// Attempt throws one ball at the wild creature.
func (r *Resolver) Attempt(ctx context.Context, in AttemptInput) (*AttemptResult, error) {
	if in.Wild.HP <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidState, "a fainted creature cannot be caught")
	}
	if in.Wild.MaxHP < in.Wild.HP {
		return nil, dErrors.New(dErrors.CodeValidation, "creature hp exceeds its max hp")
	}
	if in.Wild.Level < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "creature level must be positive")
	}

	ball, err := r.balls.BallTypeByID(ctx, in.BallTypeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "unknown ball type")
		}
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "item catalog is unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up ball type")
	}

	// The ball is spent no matter how the throw goes.
	if err := r.ledger.ConsumeBall(ctx, in.PlayerID, in.BallTypeID); err != nil {
		return nil, err
	}

	res := &AttemptResult{
		BallName:  ball.Name,
		FinalRate: Rate(in.Wild.BaseCatchRate, ball.Multiplier, in.Wild.HP, in.Wild.MaxHP, ball.ID == catalog.BallMaster),
	}
	if r.random.Float64() > res.FinalRate {
		res.Fled = r.flee.Fled(in.Attempt)
		if res.Fled {
			res.Message = fmt.Sprintf("%s broke free and fled!", in.Wild.Name)
		} else {
			res.Message = fmt.Sprintf("%s broke free!", in.Wild.Name)
		}
		return res, nil
	}
	res.Caught = true

	reward := int64(math.Floor(float64(in.Wild.Level*10) + r.random.Float64()*20 + 10))
	err = r.runner.RunInTx(ctx, func(ctx context.Context) error {
		// Resolve the experience target before the catch can fill an empty
		// slot with the new creature.
		var expTarget *roster.Creature
		if in.RosterID != 0 {
			active, err := r.roster.Active(ctx, in.PlayerID)
			if err != nil {
				return err
			}
			if active == nil || active.ID != in.RosterID {
				return dErrors.New(dErrors.CodeInvalidState, "creature is not the active one")
			}
			expTarget = active
		}

		loc, _, err := r.roster.AddCaptured(ctx, in.PlayerID, roster.Creature{
			PlayerID:  in.PlayerID,
			SpeciesID: in.Wild.SpeciesID,
			Name:      in.Wild.Name,
			Sprite:    in.Wild.Sprite,
			Level:     in.Wild.Level,
			HP:        in.Wild.HP,
			MaxHP:     in.Wild.MaxHP,
			Attack:    in.Wild.Attack,
		})
		if err != nil {
			return err
		}
		res.Location = loc

		record, err := r.tracker.RecordCapture(ctx, in.PlayerID, in.Wild.SpeciesID, in.Wild.Name, in.Wild.Sprite)
		if err != nil {
			return err
		}
		res.Record = record

		if err := r.ledger.Credit(ctx, in.PlayerID, reward); err != nil {
			return err
		}
		res.Reward = reward

		if expTarget != nil {
			expResult := r.engine.ApplyExperience(progression.Stats{
				Name:   expTarget.Name,
				Level:  expTarget.Level,
				Exp:    expTarget.Exp,
				MaxHP:  expTarget.MaxHP,
				Attack: expTarget.Attack,
			}, in.Wild.Level*15)
			if err := r.roster.ApplyProgress(ctx, expTarget.ID,
				expResult.NewExp, expResult.NewLevel, expResult.NewMaxHP, expResult.NewAttack); err != nil {
				return err
			}
			res.ExpResult = &expResult
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Location == roster.LocationParty {
		res.Message = fmt.Sprintf("Caught %s with a %s ball! It joined your party.", in.Wild.Name, ball.Name)
	} else {
		res.Message = fmt.Sprintf("Caught %s with a %s ball! Your party is full, it was sent to storage.", in.Wild.Name, ball.Name)
	}
	return res, nil
}
