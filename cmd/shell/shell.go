package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kin/engine"
	"kin/game/tictactoe"
	"kin/searcher"

	"github.com/kballard/go-shellquote"
	"github.com/muesli/termenv"
)

var errExit = errors.New("exit")

const helpText = `commands:
  new [x|o]        start a game, playing x (moves first) or o
  play <cell>      mark a cell, 0 to 8 in row-major order; a bare number works too
  go               let the computer move
  show             print the board
  iterations <n>   set the search budget for the next game
  help             show this text
  exit             leave`

type controller struct {
	parameters searcher.Parameters
	options    []searcher.Option
	output     *termenv.Output

	human    tictactoe.Player
	referee  *engine.Referee[tictactoe.State, tictactoe.Move, tictactoe.Player]
	searcher *searcher.Searcher[tictactoe.State, tictactoe.Move, tictactoe.Player]
}

func newController(parameters searcher.Parameters, options []searcher.Option, output *termenv.Output) *controller {
	c := &controller{parameters: parameters, options: options, output: output}
	c.newGame(tictactoe.X)
	return c
}

func (c *controller) newGame(human tictactoe.Player) {
	c.human = human
	c.referee = engine.NewReferee[tictactoe.State, tictactoe.Move, tictactoe.Player](tictactoe.Initial())
	c.searcher = searcher.New[tictactoe.State, tictactoe.Move, tictactoe.Player](c.parameters, c.options...)
}

// execute runs one line of input and returns what to print.
func (c *controller) execute(line string) (string, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return "", fmt.Errorf("could not parse %q: %w", line, err)
	}
	if len(fields) == 0 {
		return "", nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if _, err := strconv.Atoi(cmd); err == nil {
		cmd, args = "play", fields
	}

	switch cmd {
	case "new":
		human := tictactoe.X
		if len(args) > 0 {
			if err := human.UnmarshalText([]byte(strings.ToUpper(args[0]))); err != nil || human == tictactoe.Nobody {
				return "", fmt.Errorf("pick x or o, not %q", args[0])
			}
		}
		c.newGame(human)
		if human == tictactoe.O {
			return c.computerMove()
		}
		return c.render(), nil

	case "play":
		if len(args) != 1 {
			return "", errors.New("usage: play <cell>")
		}
		move, err := tictactoe.ParseMove(args[0])
		if err != nil {
			return "", err
		}
		if c.referee.State().NextToPlay() != c.human {
			return "", errors.New("it is not your turn, type go")
		}
		if err := c.referee.Play(move); err != nil {
			return "", err
		}
		if c.referee.IsOver() {
			return c.render(), nil
		}
		return c.computerMove()

	case "go":
		return c.computerMove()

	case "show":
		return c.render(), nil

	case "iterations":
		if len(args) != 1 {
			return "", errors.New("usage: iterations <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return "", fmt.Errorf("iterations must be a positive number, not %q", args[0])
		}
		c.parameters.SearchIterations = n
		return fmt.Sprintf("search iterations set to %d for the next game", n), nil

	case "help":
		return helpText, nil

	case "exit", "quit":
		return "", errExit
	}
	return "", fmt.Errorf("unknown command %q, try help", cmd)
}

func (c *controller) computerMove() (string, error) {
	if c.referee.IsOver() {
		return "", engine.ErrGameOver
	}
	move := c.searcher.Search(c.referee.State())
	if err := c.referee.Play(move); err != nil {
		return "", err
	}
	return fmt.Sprintf("computer plays %d\n%s", move, c.render()), nil
}

func (c *controller) render() string {
	state := c.referee.State()

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			sb.WriteString(c.cell(state.Board[cell], cell))
			if col < 2 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	switch {
	case !c.referee.IsOver():
		fmt.Fprintf(&sb, "%v to play", state.NextToPlay())
	case state.Winner() == c.human:
		sb.WriteString("you win")
	case state.Winner() != tictactoe.Nobody:
		sb.WriteString("computer wins")
	default:
		sb.WriteString("draw")
	}
	return sb.String()
}

func (c *controller) cell(p tictactoe.Player, index int) string {
	switch p {
	case tictactoe.X:
		return c.output.String("X").Foreground(c.output.Color("1")).Bold().String()
	case tictactoe.O:
		return c.output.String("O").Foreground(c.output.Color("4")).Bold().String()
	}
	return c.output.String(strconv.Itoa(index)).Faint().String()
}
