package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one configured agent of an experiment roster.
type AgentConfig struct {
	ID           int
	Name         string
	Kind         string
	Depth        int
	Simulations  int
	TimeLimit    time.Duration
	RolloutDepth int
	Seed         uint64
}

type GameRecord struct {
	ID    int
	White int // AgentConfig.ID
	Black int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Writer emits experiment results as CSV files under a timestamped
// directory.
type Writer struct {
	baseDir string
}

func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(root, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the directory records are written into.
func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	return w.writeCSV("agent_configs.csv",
		[]string{"id", "name", "kind", "depth", "simulations", "time_limit", "rollout_depth", "seed"},
		len(configs), func(i int) []string {
			c := configs[i]
			return []string{
				strconv.Itoa(c.ID),
				c.Name,
				c.Kind,
				strconv.Itoa(c.Depth),
				strconv.Itoa(c.Simulations),
				c.TimeLimit.String(),
				strconv.Itoa(c.RolloutDepth),
				strconv.FormatUint(c.Seed, 10),
			}
		})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	return w.writeCSV("game_records.csv",
		[]string{"id", "white", "black", "result", "plies", "start_time", "end_time", "duration"},
		len(records), func(i int) []string {
			r := records[i]
			return []string{
				strconv.Itoa(r.ID),
				strconv.Itoa(r.White),
				strconv.Itoa(r.Black),
				strconv.FormatFloat(r.Result, 'f', -1, 64),
				strconv.Itoa(r.Plies),
				r.StartTime.Format(time.RFC3339),
				r.EndTime.Format(time.RFC3339),
				r.Duration.String(),
			}
		})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	return w.writeCSV("move_records.csv",
		[]string{"game", "ply", "player", "duration", "simulations", "full_playouts"},
		len(records), func(i int) []string {
			r := records[i]
			return []string{
				strconv.Itoa(r.Game),
				strconv.Itoa(r.Ply),
				r.Player,
				r.Duration.String(),
				strconv.Itoa(r.Simulations),
				strconv.Itoa(r.FullPlayouts),
			}
		})
}

func (w *Writer) writeCSV(name string, header []string, rows int, row func(int) []string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for i := 0; i < rows; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
