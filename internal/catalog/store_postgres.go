package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Store loads the full catalog in one pass. Implementations are pure I/O; the
// caching lifecycle belongs to the Provider.
type Store interface {
	LoadSpecies(ctx context.Context) ([]Species, error)
	LoadGyms(ctx context.Context) ([]Gym, error)
	LoadBallTypes(ctx context.Context) ([]BallType, error)
}

// PostgresStore reads catalog tables from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadSpecies(ctx context.Context) ([]Species, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, base_catch_rate, COALESCE(type1, ''), COALESCE(type2, ''), COALESCE(sprite, '')
		FROM species
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}
	defer rows.Close()

	var out []Species
	for rows.Next() {
		var sp Species
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.BaseCatchRate, &sp.Type1, &sp.Type2, &sp.Sprite); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LoadGyms(ctx context.Context) ([]Gym, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, leader_name, species_id, species_name, COALESCE(sprite, ''),
		       level, hp, attack, reward_money, badge_name
		FROM gyms
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load gyms: %w", err)
	}
	defer rows.Close()

	var out []Gym
	for rows.Next() {
		var g Gym
		if err := rows.Scan(&g.ID, &g.Name, &g.LeaderName, &g.SpeciesID, &g.SpeciesName,
			&g.Sprite, &g.Level, &g.HP, &g.Attack, &g.RewardMoney, &g.BadgeName); err != nil {
			return nil, fmt.Errorf("scan gym: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LoadBallTypes(ctx context.Context) ([]BallType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, multiplier, price
		FROM ball_types
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load ball types: %w", err)
	}
	defer rows.Close()

	var out []BallType
	for rows.Next() {
		var b BallType
		if err := rows.Scan(&b.ID, &b.Name, &b.Multiplier, &b.Price); err != nil {
			return nil, fmt.Errorf("scan ball type: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LoadGrowthTable reads the experience curve overrides. An empty table is not
// an error; levels without a row use the built-in formula.
func (s *PostgresStore) LoadGrowthTable(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT level, exp_to_next FROM growth_levels`)
	if err != nil {
		return nil, fmt.Errorf("load growth table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var level, exp int
		if err := rows.Scan(&level, &exp); err != nil {
			return nil, fmt.Errorf("scan growth level: %w", err)
		}
		out[level] = exp
	}
	return out, rows.Err()
}
