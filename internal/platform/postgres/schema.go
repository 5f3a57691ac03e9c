package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates every table the game needs. Statements are idempotent so the
// server can run them on every boot. The partial unique index on roster_slots
// is the storage-level authority for the single-active-creature invariant.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		money BIGINT NOT NULL DEFAULT 1000 CHECK (money >= 0),
		pokemon_caught BIGINT NOT NULL DEFAULT 0,
		gyms_defeated BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS species (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		base_catch_rate DOUBLE PRECISION NOT NULL DEFAULT 0.059,
		type1 TEXT,
		type2 TEXT,
		sprite TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS ball_types (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		multiplier DOUBLE PRECISION NOT NULL,
		price BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS gyms (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		leader_name TEXT NOT NULL,
		species_id BIGINT NOT NULL,
		species_name TEXT NOT NULL,
		sprite TEXT,
		level INT NOT NULL DEFAULT 20,
		hp INT NOT NULL DEFAULT 100,
		attack INT NOT NULL DEFAULT 25,
		reward_money BIGINT NOT NULL DEFAULT 500,
		badge_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS roster_slots (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		species_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		sprite TEXT,
		level INT NOT NULL DEFAULT 5 CHECK (level BETWEEN 1 AND 100),
		exp INT NOT NULL DEFAULT 0,
		hp INT NOT NULL DEFAULT 50 CHECK (hp >= 0),
		max_hp INT NOT NULL DEFAULT 50,
		attack INT NOT NULL DEFAULT 10,
		caught_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS roster_slots_one_per_player
		ON roster_slots (player_id)`,
	`CREATE TABLE IF NOT EXISTS storage_entries (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		species_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		sprite TEXT,
		level INT NOT NULL DEFAULT 5 CHECK (level BETWEEN 1 AND 100),
		hp INT NOT NULL DEFAULT 50 CHECK (hp >= 0),
		max_hp INT NOT NULL DEFAULT 50,
		attack INT NOT NULL DEFAULT 10,
		caught_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS item_stocks (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		ball_type_id BIGINT NOT NULL REFERENCES ball_types(id),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		UNIQUE (player_id, ball_type_id)
	)`,
	`CREATE TABLE IF NOT EXISTS badges (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		gym_id BIGINT NOT NULL REFERENCES gyms(id),
		earned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (player_id, gym_id)
	)`,
	`CREATE TABLE IF NOT EXISTS pokedex_entries (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		species_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		sprite TEXT,
		first_caught_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		total_caught BIGINT NOT NULL DEFAULT 1 CHECK (total_caught >= 1),
		UNIQUE (player_id, species_id)
	)`,
	`CREATE TABLE IF NOT EXISTS special_badges (
		id BIGSERIAL PRIMARY KEY,
		player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		badge_type TEXT NOT NULL,
		badge_name TEXT NOT NULL,
		earned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (player_id, badge_type)
	)`,
	`CREATE TABLE IF NOT EXISTS growth_levels (
		level INT PRIMARY KEY CHECK (level >= 1),
		exp_to_next INT NOT NULL CHECK (exp_to_next > 0)
	)`,
}

// seed inserts the static catalog rows when they are missing.
var seed = []string{
	`INSERT INTO species (id, name, base_catch_rate, type1, type2, sprite) VALUES
		(1, 'bulbasaur', 0.059, 'grass', 'poison', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png'),
		(4, 'charmander', 0.059, 'fire', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/4.png'),
		(7, 'squirtle', 0.059, 'water', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/7.png'),
		(10, 'caterpie', 0.33, 'bug', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/10.png'),
		(16, 'pidgey', 0.33, 'normal', 'flying', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/16.png'),
		(19, 'rattata', 0.33, 'normal', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/19.png'),
		(25, 'pikachu', 0.087, 'electric', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png'),
		(35, 'clefairy', 0.2, 'fairy', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/35.png'),
		(39, 'jigglypuff', 0.22, 'normal', 'fairy', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/39.png'),
		(52, 'meowth', 0.33, 'normal', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/52.png'),
		(54, 'psyduck', 0.25, 'water', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/54.png'),
		(66, 'machop', 0.25, 'fighting', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/66.png'),
		(74, 'geodude', 0.33, 'rock', 'ground', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/74.png'),
		(92, 'gastly', 0.25, 'ghost', 'poison', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/92.png'),
		(120, 'staryu', 0.3, 'water', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/120.png'),
		(129, 'magikarp', 0.5, 'water', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/129.png'),
		(133, 'eevee', 0.059, 'normal', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/133.png'),
		(143, 'snorlax', 0.033, 'normal', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/143.png'),
		(147, 'dratini', 0.059, 'dragon', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/147.png'),
		(150, 'mewtwo', 0.008, 'psychic', NULL, 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/150.png')
	ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO ball_types (id, name, multiplier, price) VALUES
		(1, 'basic', 1.0, 100),
		(2, 'super', 1.5, 300),
		(3, 'hyper', 2.0, 500),
		(4, 'master', 100.0, 10000)
	ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO gyms (id, name, leader_name, species_id, species_name, sprite, level, hp, attack, reward_money, badge_name) VALUES
		(1, 'Rock Gym', 'Brock', 74, 'geodude', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/74.png', 15, 80, 20, 500, 'Boulder Badge'),
		(2, 'Water Gym', 'Misty', 120, 'staryu', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/120.png', 20, 100, 25, 800, 'Cascade Badge'),
		(3, 'Electric Gym', 'Lt. Surge', 25, 'pikachu', 'https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png', 25, 120, 30, 1000, 'Thunder Badge')
	ON CONFLICT (id) DO NOTHING`,
}

// EnsureSchema applies the schema and catalog seed data.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, stmt := range seed {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	return nil
}
