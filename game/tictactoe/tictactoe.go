// Package tictactoe implements noughts and crosses on a 3x3 board. X moves
// first.
package tictactoe

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"kin/game"

	"golang.org/x/exp/rand"
)

type Player int8

const (
	Nobody Player = iota
	X
	O
)

// Move is the index of the cell to mark, 0 to 8 in row-major order.
type Move int

type State struct {
	Board  [9]Player `json:"board"`
	ToPlay Player    `json:"to_play"`
}

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func Initial() State {
	return State{ToPlay: X}
}

func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return Nobody
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "."
}

func (p Player) MarshalText() ([]byte, error) {
	if p == Nobody {
		return []byte{}, nil
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "X":
		*p = X
	case "O":
		*p = O
	case "", ".":
		*p = Nobody
	default:
		return fmt.Errorf("unknown player %q", text)
	}
	return nil
}

func (s State) AvailableMoves() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		if s.winner() != Nobody {
			return
		}
		for i, cell := range s.Board {
			if cell == Nobody && !yield(Move(i)) {
				return
			}
		}
	}
}

func (s State) NextToPlay() Player {
	return s.ToPlay
}

func (s State) ApplyMove(move Move) State {
	next := s
	next.Board[move] = s.ToPlay
	next.ToPlay = s.ToPlay.Opponent()
	return next
}

func (s State) TerminalValue(forPlayer Player) (float64, bool) {
	switch winner := s.winner(); {
	case winner == forPlayer:
		return game.Win, true
	case winner != Nobody:
		return game.Loss, true
	case s.full():
		return game.Draw, true
	}
	return 0, false
}

func (s State) Equal(other State) bool {
	return s == other
}

// ChooseMove completes a line when it can and otherwise picks at random,
// which makes playouts a little less naive.
func (s State) ChooseMove(moves []Move, rng *rand.Rand) int {
	for i, m := range moves {
		if s.ApplyMove(m).winner() == s.ToPlay {
			return i
		}
	}
	return game.UniformIndex(len(moves), rng)
}

// Winner is the player owning a full line, if any.
func (s State) Winner() Player {
	return s.winner()
}

func (s State) winner() Player {
	for _, line := range lines {
		p := s.Board[line[0]]
		if p != Nobody && p == s.Board[line[1]] && p == s.Board[line[2]] {
			return p
		}
	}
	return Nobody
}

func (s State) full() bool {
	for _, cell := range s.Board {
		if cell == Nobody {
			return false
		}
	}
	return true
}

func (s State) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sb.WriteString(s.Board[row*3+col].String())
		}
		if row < 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseMove reads a cell index between 0 and 8.
func ParseMove(text string) (Move, error) {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse move %q: %w", text, err)
	}
	if i < 0 || i > 8 {
		return 0, fmt.Errorf("move %d is off the board", i)
	}
	return Move(i), nil
}
