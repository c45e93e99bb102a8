package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCSV reads a headerless numeric CSV into a Dataset. labelCol is the
// column index holding the label; every other column becomes a feature.
// limit > 0 caps the number of rows read (the HIGGS file is far larger
// than any single experiment needs).
func LoadCSV(path string, labelCol, limit int) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true

	var features [][]float64
	var labels []float64
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read dataset row %d: %w", len(labels), err)
		}
		if labelCol < 0 || labelCol >= len(rec) {
			return Dataset{}, fmt.Errorf("label column %d out of range for %d-column row", labelCol, len(rec))
		}

		row := make([]float64, 0, len(rec)-1)
		var label float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Dataset{}, fmt.Errorf("parse row %d column %d: %w", len(labels), i, err)
			}
			if i == labelCol {
				label = v
			} else {
				row = append(row, v)
			}
		}
		features = append(features, row)
		labels = append(labels, label)

		if limit > 0 && len(labels) >= limit {
			break
		}
	}

	return FromSlices(features, labels)
}
