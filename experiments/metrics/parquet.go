package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// RoundRow is the columnar form of a RoundRecord.
type RoundRow struct {
	Run          string  `parquet:"run"`
	Agent        int32   `parquet:"agent"`
	Table        int32   `parquet:"table"`
	Round        int32   `parquet:"round"`
	Payoff       float64 `parquet:"payoff"`
	PlayerValue  int32   `parquet:"player_value"`
	DealerValue  int32   `parquet:"dealer_value"`
	PlayerCards  int32   `parquet:"player_cards"`
	Heat         float64 `parquet:"heat"`
	Reshuffled   bool    `parquet:"reshuffled"`
	Decisions    int32   `parquet:"decisions"`
	Episodes     int64   `parquet:"episodes"`
	SearchTimeUS int64   `parquet:"search_time_us"`
}

func newRoundRow(run string, record RoundRecord) RoundRow {
	return RoundRow{
		Run:          run,
		Agent:        int32(record.Agent),
		Table:        int32(record.Table),
		Round:        int32(record.Round),
		Payoff:       record.Payoff,
		PlayerValue:  int32(record.PlayerValue),
		DealerValue:  int32(record.DealerValue),
		PlayerCards:  int32(record.PlayerCards),
		Heat:         record.Heat,
		Reshuffled:   record.Reshuffled,
		Decisions:    int32(len(record.Decisions)),
		Episodes:     int64(record.Episodes()),
		SearchTimeUS: record.SearchTime().Microseconds(),
	}
}

// WriteRoundParquet stores round records as rounds.parquet. The file is
// written under tmp/ first and renamed into place once complete.
func (w *Writer) WriteRoundParquet(records []RoundRecord) (string, error) {
	tmpDir := filepath.Join(w.baseDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}
	tmpPath := filepath.Join(tmpDir, "rounds.parquet")
	outPath := filepath.Join(w.baseDir, "rounds.parquet")

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open tmp parquet: %w", err)
	}
	defer f.Close()

	pw := parquet.NewGenericWriter[RoundRow](
		f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	)
	pw.SetKeyValueMetadata("schema", "round_row_v1")
	pw.SetKeyValueMetadata("run", w.runID.String())

	rows := make([]RoundRow, len(records))
	for i, record := range records {
		rows[i] = newRoundRow(w.runID.String(), record)
	}
	if _, err := pw.Write(rows); err != nil {
		return "", fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return "", fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close parquet file: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	_ = os.Remove(tmpDir)
	return outPath, nil
}
