package server

// Request asks for a move from State. Requests on one connection are
// expected to follow a single game, so that the search tree carries over.
type Request[S any] struct {
	State S `json:"state"`
}

// Response carries either the chosen move or the reason there is none.
type Response[M any] struct {
	Move  M      `json:"move"`
	Error string `json:"error,omitempty"`
}
