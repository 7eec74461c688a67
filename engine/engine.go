// Package engine plays complete games between agents.
package engine

import (
	"fmt"
	"time"

	"kin/agent"
	"kin/game"
	"kin/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultMaxPlies stops games that do not end on their own.
const DefaultMaxPlies = 500

type MoveMetric[P comparable] struct {
	Step   int
	Player P
	searcher.SearchMetric
}

type GameMetric[P comparable] struct {
	StartingPlayer P
	Winner         P
	HasWinner      bool // False for draws and unfinished games
	Finished       bool // False if the game was stopped at the ply limit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type settings struct {
	maxPlies int
	logger   zerolog.Logger
}

type Option func(s *settings)

func WithMaxPlies(plies int) Option {
	return func(s *settings) {
		s.maxPlies = plies
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

type Engine[S game.State[S, M, P], M comparable, P comparable] struct {
	referee  *Referee[S, M, P]
	agents   map[P]agent.Agent[S, M]
	players  []P
	settings settings
}

// New seats one agent per player. It panics unless there are exactly two
// seats.
func New[S game.State[S, M, P], M comparable, P comparable](initial S, agents map[P]agent.Agent[S, M], options ...Option) *Engine[S, M, P] {
	if len(agents) != 2 {
		panic(fmt.Sprintf("need two players, got %d", len(agents)))
	}

	s := settings{ // Default values
		maxPlies: DefaultMaxPlies,
		logger:   log.Logger,
	}
	for _, option := range options {
		option(&s)
	}

	players := make([]P, 0, len(agents))
	for p := range agents {
		players = append(players, p)
	}

	return &Engine[S, M, P]{
		referee:  NewReferee[S, M, P](initial),
		agents:   agents,
		players:  players,
		settings: s,
	}
}

// State is the current position of the game.
func (e *Engine[S, M, P]) State() S {
	return e.referee.State()
}

// Run plays until the game ends or the ply limit is reached. An agent error
// or an illegal move aborts the game.
func (e *Engine[S, M, P]) Run() (GameMetric[P], []MoveMetric[P], error) {
	gameMetric := GameMetric[P]{
		StartingPlayer: e.referee.State().NextToPlay(),
		StartTime:      time.Now(),
	}
	var moveMetrics []MoveMetric[P]

	e.settings.logger.Debug().Msgf("player %v is starting", gameMetric.StartingPlayer)

	for !e.referee.IsOver() && e.referee.Plies() < e.settings.maxPlies {
		state := e.referee.State()
		player := state.NextToPlay()
		a, ok := e.agents[player]
		if !ok {
			return gameMetric, moveMetrics, fmt.Errorf("no agent for player %v", player)
		}

		move, searchMetric, err := a.FindMove(state)
		if err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("player %v failed to find a move: %w", player, err)
		}
		if err := e.referee.Play(move); err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("player %v: %w", player, err)
		}

		moveMetrics = append(moveMetrics, MoveMetric[P]{
			Step:         e.referee.Plies(),
			Player:       player,
			SearchMetric: searchMetric,
		})
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = e.referee.Plies()
	gameMetric.Finished = e.referee.IsOver()
	gameMetric.Winner, gameMetric.HasWinner = e.referee.Winner(e.players...)

	if gameMetric.Finished {
		e.settings.logger.Debug().Msgf("game ended after %d moves", gameMetric.TotalMoves)
	} else {
		e.settings.logger.Debug().Msgf("stopped after %d moves (no winner yet)", gameMetric.TotalMoves)
	}

	return gameMetric, moveMetrics, nil
}
