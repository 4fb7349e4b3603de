package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pageza/foodgram/backend/internal/types"
)

func readIngredientsFile(path string) ([]types.IngredientRow, error) {
	records, err := readCSVFile(path, 2)
	if err != nil {
		return nil, err
	}
	rows := make([]types.IngredientRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, types.IngredientRow{Name: rec[0], MeasurementUnit: rec[1]})
	}
	return rows, nil
}

func readTagsFile(path string) ([]types.TagRow, error) {
	records, err := readCSVFile(path, 3)
	if err != nil {
		return nil, err
	}
	rows := make([]types.TagRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, types.TagRow{Name: rec[0], Color: rec[1], Slug: rec[2]})
	}
	return rows, nil
}

func readCSVFile(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readCSV(f, fields)
}

// readCSV reads rows of exactly fields columns. A first row starting with
// "name" is taken as a header and skipped.
func readCSV(r io.Reader, fields int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = fields
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "name") {
		records = records[1:]
	}
	return records, nil
}
