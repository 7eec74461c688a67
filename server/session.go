package server

import (
	"fmt"

	"kin/game"
	"kin/searcher"

	"github.com/rs/zerolog"
)

// session answers the requests of one connection with its own Searcher.
type session[S game.State[S, M, P], M any, P comparable] struct {
	searcher *searcher.Searcher[S, M, P]
	logger   zerolog.Logger
	requests int
}

func (s *session[S, M, P]) answer(request Request[S]) (response Response[M]) {
	s.requests++
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Int("request", s.requests).Msg("search failed")
			response = Response[M]{Error: fmt.Sprintf("search failed: %v", r)}
		}
	}()

	if game.IsTerminal[P](request.State) {
		return Response[M]{Error: "game is already over"}
	}

	move := s.searcher.Search(request.State)
	metric := s.searcher.LastMetric()
	s.logger.Debug().
		Int("request", s.requests).
		Bool("tree_reused", metric.TreeReused).
		Dur("duration", metric.Duration).
		Msg("answered request")
	return Response[M]{Move: move}
}
