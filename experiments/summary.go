package experiments

import (
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the games of one matchup.
type Summary struct {
	MatchUp        int
	Agent1         int
	Agent2         int
	Games          int
	Wins1          int
	Wins2          int
	Draws          int // Finished without a winner
	Unfinished     int
	MeanMoves      float64
	StdDevMoves    float64
	MeanSearchTime time.Duration // Over moves that ran a search
}

func Summarize(setup Setup, results Results) []Summary {
	byMatchUp := lo.GroupBy(results.Games, func(g GameRecord) int { return g.MatchUp })
	matchUpOf := lo.SliceToMap(results.Games, func(g GameRecord) (int, int) { return g.ID, g.MatchUp })
	searchTimes := lo.GroupBy(
		lo.Filter(results.Moves, func(m MoveRecord, _ int) bool { return m.Iterations > 0 }),
		func(m MoveRecord) int { return matchUpOf[m.Game] },
	)

	summaries := make([]Summary, 0, len(setup.MatchUps))
	for mi, matchUp := range setup.MatchUps {
		games := byMatchUp[mi]
		s := Summary{
			MatchUp: mi,
			Agent1:  matchUp[0],
			Agent2:  matchUp[1],
			Games:   len(games),
			Wins1:   lo.CountBy(games, func(g GameRecord) bool { return g.Winner == matchUp[0] }),
			Wins2:   lo.CountBy(games, func(g GameRecord) bool { return g.Winner == matchUp[1] }),
			Draws: lo.CountBy(games, func(g GameRecord) bool {
				return g.Finished && g.Winner == NoWinner
			}),
			Unfinished: lo.CountBy(games, func(g GameRecord) bool { return !g.Finished }),
		}

		if len(games) > 0 {
			moves := lo.Map(games, func(g GameRecord, _ int) float64 { return float64(g.TotalMoves) })
			s.MeanMoves, s.StdDevMoves = stat.MeanStdDev(moves, nil)
			if len(games) == 1 {
				s.StdDevMoves = 0
			}
		}
		if times := searchTimes[mi]; len(times) > 0 {
			durations := lo.Map(times, func(m MoveRecord, _ int) float64 { return float64(m.Duration) })
			s.MeanSearchTime = time.Duration(stat.Mean(durations, nil))
		}
		summaries = append(summaries, s)
	}
	return summaries
}
