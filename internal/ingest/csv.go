package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one listing read from a CSV file.
type Row struct {
	Line     int    `json:"line"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	AssetRef string `json:"asset_ref,omitempty"`
}

var columnAliases = map[string]string{
	"name":      "name",
	"club":      "name",
	"club_name": "name",
	"location":  "location",
	"city":      "location",
	"town":      "location",
	"asset_ref": "asset_ref",
	"crest":     "asset_ref",
	"logo":      "asset_ref",
}

// ReadCSV parses a headered CSV stream. The header must name a club column;
// location and asset columns are optional. Blank lines are skipped.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("csv header %q has no name column", strings.Join(header, ","))
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		row := Row{
			Line:     line,
			Name:     field(record, "name"),
			Location: field(record, "location"),
			AssetRef: field(record, "asset_ref"),
		}
		if row.Name == "" && row.Location == "" && row.AssetRef == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
