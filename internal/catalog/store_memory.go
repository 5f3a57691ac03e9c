package catalog

import "context"

// InMemoryStore serves a fixed catalog, for unit tests.
type InMemoryStore struct {
	SpeciesRows  []Species
	GymRows      []Gym
	BallTypeRows []BallType
	Err          error
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		SpeciesRows: []Species{
			{ID: 1, Name: "bulbasaur", BaseCatchRate: 0.059, Type1: "grass"},
			{ID: 4, Name: "charmander", BaseCatchRate: 0.059, Type1: "fire"},
			{ID: 7, Name: "squirtle", BaseCatchRate: 0.059, Type1: "water"},
			{ID: 25, Name: "pikachu", BaseCatchRate: 0.087, Type1: "electric"},
		},
		GymRows: []Gym{
			{ID: 1, Name: "Rock Gym", LeaderName: "Brock", SpeciesID: 74, SpeciesName: "geodude",
				Level: 15, HP: 80, Attack: 20, RewardMoney: 500, BadgeName: "Boulder Badge"},
		},
		BallTypeRows: []BallType{
			{ID: BallBasic, Name: "basic", Multiplier: 1.0, Price: 100},
			{ID: BallSuper, Name: "super", Multiplier: 1.5, Price: 300},
			{ID: BallHyper, Name: "hyper", Multiplier: 2.0, Price: 500},
			{ID: BallMaster, Name: "master", Multiplier: 100.0, Price: 10000},
		},
	}
}

func (s *InMemoryStore) LoadSpecies(_ context.Context) ([]Species, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Species{}, s.SpeciesRows...), nil
}

func (s *InMemoryStore) LoadGyms(_ context.Context) ([]Gym, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Gym{}, s.GymRows...), nil
}

func (s *InMemoryStore) LoadBallTypes(_ context.Context) ([]BallType, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]BallType{}, s.BallTypeRows...), nil
}
