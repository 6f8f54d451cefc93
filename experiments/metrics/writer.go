package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type AgentConfig struct {
	ID        int
	Agent     string // dealer, threshold, random, qlearn, mcts, remote
	Duration  time.Duration
	Episodes  int
	Threshold int
	Training  int    // Rounds of self-play before evaluation
	URL       string // Decision server of a remote agent
}

type RoundRecord struct {
	Agent int // AgentConfig.ID
	RoundMetric
}

type Writer struct {
	runID   uuid.UUID
	baseDir string
}

// NewWriter creates root/name/<timestamp> for one experiment run.
func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		runID:   uuid.New(),
		baseDir: baseDir,
	}, nil
}

func (w *Writer) RunID() uuid.UUID { return w.runID }
func (w *Writer) Dir() string      { return w.baseDir }

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	// Create a file
	path := filepath.Join(w.baseDir, "agent_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create agent configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"run", "id", "agent", "duration", "episodes", "threshold", "training", "url"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write agent configs header: %w", err)
	}

	// Write each row
	for _, config := range configs {
		row := []string{
			w.runID.String(),
			strconv.Itoa(config.ID),
			config.Agent,
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Threshold),
			strconv.Itoa(config.Training),
			config.URL,
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write agent config row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteRoundRecords(records []RoundRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "round_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create round records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"run", "agent", "table", "round", "payoff", "player_value", "dealer_value",
		"player_cards", "heat", "reshuffled", "decisions", "episodes", "search_time"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write round records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			w.runID.String(),
			strconv.Itoa(record.Agent),
			strconv.Itoa(record.Table),
			strconv.Itoa(record.Round),
			strconv.FormatFloat(record.Payoff, 'f', 1, 64),
			strconv.Itoa(record.PlayerValue),
			strconv.Itoa(record.DealerValue),
			strconv.Itoa(record.PlayerCards),
			strconv.FormatFloat(record.Heat, 'f', 3, 64),
			strconv.FormatBool(record.Reshuffled),
			strconv.Itoa(len(record.Decisions)),
			strconv.Itoa(record.Episodes()),
			record.SearchTime().String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write round record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
