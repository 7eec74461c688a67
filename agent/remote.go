package agent

import (
	"kin/client"
	"kin/searcher"
)

type remoteAgent[S any, M any] struct {
	client *client.Client[S, M]
}

// NewRemoteAgent asks a search server for every move. Metrics of remote
// searches are not reported.
func NewRemoteAgent[S any, M any](c *client.Client[S, M]) Agent[S, M] {
	return remoteAgent[S, M]{client: c}
}

func (a remoteAgent[S, M]) FindMove(state S) (M, searcher.SearchMetric, error) {
	move, err := a.client.FindMove(state)
	return move, searcher.SearchMetric{}, err
}
