// Package experiments runs many games between configured agents and records
// how they went.
package experiments

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"kin/agent"
	"kin/engine"
	"kin/game"
	"kin/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type GameRecord struct {
	ID            int
	MatchUp       int // Index into Setup.MatchUps
	Agent1        int // AgentConfig.ID
	Agent2        int // AgentConfig.ID
	StartingAgent int
	Winner        int // AgentConfig.ID, or NoWinner
	Finished      bool
	TotalMoves    int
	StartTime     time.Time
	Duration      time.Duration
}

// NoWinner marks draws and unfinished games.
const NoWinner = -1

type MoveRecord struct {
	Game       int // GameRecord.ID
	Step       int
	Agent      int
	Duration   time.Duration
	Iterations int
	TreeReused bool
	TreeSize   int
}

type Results struct {
	Games []GameRecord
	Moves []MoveRecord
}

// Runner plays the games of a Setup. Players lists the two seats of the game;
// the agents of a matchup swap seats from one game to the next.
type Runner[S game.State[S, M, P], M comparable, P comparable] struct {
	Setup   Setup
	Initial func() S
	Players [2]P
}

func (r Runner[S, M, P]) Run(ctx context.Context) (Results, error) {
	if err := r.Setup.Validate(); err != nil {
		return Results{}, err
	}

	total := len(r.Setup.MatchUps) * r.Setup.GamesPerMatchUp
	games := make([]GameRecord, total)
	moves := make([][]MoveRecord, total)

	log.Info().Msgf("starting %s experiment with %d games...", r.Setup.Name, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())
	for mi, matchUp := range r.Setup.MatchUps {
		for i := 0; i < r.Setup.GamesPerMatchUp; i++ {
			id := mi*r.Setup.GamesPerMatchUp + i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				record, moveRecords, err := r.runGame(id, mi, matchUp, i%2 == 1)
				if err != nil {
					return fmt.Errorf("game %d of matchup %v: %w", i+1, matchUp, err)
				}
				games[id] = record
				moves[id] = moveRecords
				log.Info().Msgf("completed matchup %d of %d game %d with winner: %d", mi+1, len(r.Setup.MatchUps), i+1, record.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	log.Info().Msgf("completed %s experiment", r.Setup.Name)

	results := Results{Games: games}
	for _, m := range moves {
		results.Moves = append(results.Moves, m...)
	}
	return results, nil
}

func (r Runner[S, M, P]) concurrency() int {
	if r.Setup.Concurrency > 0 {
		return r.Setup.Concurrency
	}
	return runtime.NumCPU()
}

// runGame plays one game of a matchup, with the first agent on the first
// seat unless swapped.
func (r Runner[S, M, P]) runGame(id, matchUpIndex int, matchUp [2]int, swapped bool) (GameRecord, []MoveRecord, error) {
	ids := matchUp
	if swapped {
		ids[0], ids[1] = ids[1], ids[0]
	}

	seats := map[P]int{}
	agents := map[P]agent.Agent[S, M]{}
	for seat, agentID := range ids {
		config, _ := r.Setup.Agent(agentID)
		player := r.Players[seat]
		seats[player] = agentID
		agents[player] = r.newAgent(config, r.seed(id, seat))
	}

	options := []engine.Option{}
	if r.Setup.MaxPlies > 0 {
		options = append(options, engine.WithMaxPlies(r.Setup.MaxPlies))
	}
	e := engine.New[S, M, P](r.Initial(), agents, options...)
	gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return GameRecord{}, nil, err
	}

	record := GameRecord{
		ID:            id,
		MatchUp:       matchUpIndex,
		Agent1:        matchUp[0],
		Agent2:        matchUp[1],
		StartingAgent: seats[gameMetric.StartingPlayer],
		Winner:        NoWinner,
		Finished:      gameMetric.Finished,
		TotalMoves:    gameMetric.TotalMoves,
		StartTime:     gameMetric.StartTime,
		Duration:      gameMetric.Duration,
	}
	if gameMetric.HasWinner {
		record.Winner = seats[gameMetric.Winner]
	}

	moveRecords := make([]MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		moveRecords = append(moveRecords, MoveRecord{
			Game:       id,
			Step:       mm.Step,
			Agent:      seats[mm.Player],
			Duration:   mm.Duration,
			Iterations: mm.Iterations,
			TreeReused: mm.TreeReused,
			TreeSize:   mm.TreeSize,
		})
	}
	return record, moveRecords, nil
}

func (r Runner[S, M, P]) newAgent(config AgentConfig, seed uint64) agent.Agent[S, M] {
	if config.Kind == RandomAgent {
		return agent.NewRandomAgent[S, M, P](seed)
	}

	parameters := searcher.Parameters{
		ExplorationFactor: config.ExplorationFactor,
		SearchIterations:  config.SearchIterations,
	}
	return agent.NewSearchAgent(searcher.New[S, M, P](parameters, searcher.WithSeed(seed), searcher.WithMetrics()))
}

// seed derives a reproducible seed per game and seat when the setup has one.
func (r Runner[S, M, P]) seed(gameID, seat int) uint64 {
	if r.Setup.Seed == 0 {
		return searcher.RandomSeed()
	}
	return r.Setup.Seed + uint64(2*gameID+seat)
}
