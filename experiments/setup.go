package experiments

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	SearchAgent = "search"
	RandomAgent = "random"
)

type AgentConfig struct {
	ID                int     `yaml:"id"`
	Kind              string  `yaml:"kind"` // SearchAgent unless set
	ExplorationFactor float64 `yaml:"exploration_factor,omitempty"`
	SearchIterations  int     `yaml:"search_iterations,omitempty"`
}

// Setup describes an experiment: which agents meet, and how often.
type Setup struct {
	Name            string        `yaml:"name"`
	Game            string        `yaml:"game"`
	GamesPerMatchUp int           `yaml:"games_per_matchup"`
	Concurrency     int           `yaml:"concurrency,omitempty"` // Games in flight, 0 for one per CPU
	MaxPlies        int           `yaml:"max_plies,omitempty"`
	Seed            uint64        `yaml:"seed,omitempty"` // 0 for random seeds
	Agents          []AgentConfig `yaml:"agents"`
	MatchUps        [][2]int      `yaml:"matchups"` // Pairs of agent IDs
}

func LoadSetup(path string) (Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Setup{}, fmt.Errorf("failed to read setup: %w", err)
	}

	var setup Setup
	if err := yaml.Unmarshal(data, &setup); err != nil {
		return Setup{}, fmt.Errorf("failed to parse setup %s: %w", path, err)
	}
	return setup, setup.Validate()
}

func (s Setup) Validate() error {
	if s.Name == "" {
		return errors.New("experiment needs a name")
	}
	if s.GamesPerMatchUp <= 0 {
		return fmt.Errorf("games per matchup must be positive, got %d", s.GamesPerMatchUp)
	}
	if len(s.MatchUps) == 0 {
		return errors.New("experiment has no matchups")
	}

	if dups := lo.FindDuplicatesBy(s.Agents, func(a AgentConfig) int { return a.ID }); len(dups) > 0 {
		return fmt.Errorf("agent id %d is used twice", dups[0].ID)
	}
	for _, a := range s.Agents {
		switch a.Kind {
		case "", SearchAgent:
			if a.SearchIterations <= 0 {
				return fmt.Errorf("agent %d needs positive search iterations", a.ID)
			}
		case RandomAgent:
		default:
			return fmt.Errorf("agent %d has unknown kind %q", a.ID, a.Kind)
		}
	}
	for _, m := range s.MatchUps {
		for _, id := range m {
			if _, ok := s.Agent(id); !ok {
				return fmt.Errorf("matchup %v refers to unknown agent %d", m, id)
			}
		}
	}
	return nil
}

func (s Setup) Agent(id int) (AgentConfig, bool) {
	return lo.Find(s.Agents, func(a AgentConfig) bool { return a.ID == id })
}

// IterationsSetup pits searchers with growing budgets against a random
// baseline and against each other.
func IterationsSetup(game string) Setup {
	agents := []AgentConfig{
		{ID: 0, Kind: RandomAgent},
		{ID: 1, Kind: SearchAgent, ExplorationFactor: 0.7071, SearchIterations: 10},
		{ID: 2, Kind: SearchAgent, ExplorationFactor: 0.7071, SearchIterations: 100},
		{ID: 3, Kind: SearchAgent, ExplorationFactor: 0.7071, SearchIterations: 1000},
	}
	return Setup{
		Name:            "iterations",
		Game:            game,
		GamesPerMatchUp: 30,
		Agents:          agents,
		MatchUps:        [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {2, 3}},
	}
}
