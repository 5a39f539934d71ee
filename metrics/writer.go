package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Writer struct {
	baseDir string
}

// NewWriter writes records under dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: dir,
	}, nil
}

// WriteSearches writes one row per search to searches.csv.
func (w *Writer) WriteSearches(records []SearchMetric) error {
	path := filepath.Join(w.baseDir, "searches.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create searches file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"run", "workers", "duration", "episodes", "full_playouts", "evaluations", "nodes"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write searches header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.RunID,
			strconv.Itoa(record.Workers),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Evaluations),
			strconv.Itoa(record.Nodes),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush searches file: %w", err)
	}
	return nil
}
