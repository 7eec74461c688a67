package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> for the files of one run.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	data, err := yaml.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.baseDir, "setup.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "exploration_factor", "search_iterations"}
	return writeCSV(w.path("agent_configs.csv"), header, configs, func(config AgentConfig) []string {
		return []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.FormatFloat(config.ExplorationFactor, 'g', -1, 64),
			strconv.Itoa(config.SearchIterations),
		}
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "matchup", "agent1", "agent2", "starting_agent", "winner", "finished", "total_moves", "start_time", "duration"}
	return writeCSV(w.path("game_records.csv"), header, records, func(record GameRecord) []string {
		return []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.MatchUp),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.StartingAgent),
			strconv.Itoa(record.Winner),
			strconv.FormatBool(record.Finished),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "agent", "duration", "iterations", "is_tree_reused", "tree_size"}
	return writeCSV(w.path("move_records.csv"), header, records, func(record MoveRecord) []string {
		return []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Agent),
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.FormatBool(record.TreeReused),
			strconv.Itoa(record.TreeSize),
		}
	})
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	header := []string{"matchup", "agent1", "agent2", "games", "wins1", "wins2", "draws", "unfinished", "mean_moves", "stddev_moves", "mean_search_time"}
	return writeCSV(w.path("summary.csv"), header, summaries, func(s Summary) []string {
		return []string{
			strconv.Itoa(s.MatchUp),
			strconv.Itoa(s.Agent1),
			strconv.Itoa(s.Agent2),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.Wins1),
			strconv.Itoa(s.Wins2),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.Unfinished),
			strconv.FormatFloat(s.MeanMoves, 'f', 2, 64),
			strconv.FormatFloat(s.StdDevMoves, 'f', 2, 64),
			s.MeanSearchTime.String(),
		}
	})
}

// WriteAll stores the setup and every result of a run.
func (w *Writer) WriteAll(setup Setup, results Results, summaries []Summary) error {
	if err := w.WriteSetup(setup); err != nil {
		return err
	}
	if err := w.WriteAgentConfigs(setup.Agents); err != nil {
		return err
	}
	if err := w.WriteGameRecords(results.Games); err != nil {
		return err
	}
	if err := w.WriteMoveRecords(results.Moves); err != nil {
		return err
	}
	return w.WriteSummaries(summaries)
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.baseDir, name)
}

func writeCSV[T any](path string, header []string, rows []T, row func(T) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", filepath.Base(path), err)
	}
	for _, r := range rows {
		if err := writer.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", filepath.Base(path), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
