// Package traindata prepares model training inputs: it parses the city's
// solid-waste characterization CSV into per-district baselines and generates
// synthetic training samples with realistic seasonal variation.
package traindata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// District is one row of the waste characterization study.
type District struct {
	Name                string  `json:"barangay"`
	Population          int     `json:"population"`
	TotalWaste          float64 `json:"total_waste"`
	WastePerCapita      float64 `json:"waste_per_capita"`
	CollectionFrequency string  `json:"collection_frequency"`
}

// perCapitaRate substitutes for districts with no usable waste column.
const perCapitaRate = 0.42

// ParseBaselineCSV reads the characterization spreadsheet export. The file
// has two header lines, ragged columns, thousands separators inside quoted
// cells, trailing spaces in names, and a trailing Total row; all are
// tolerated. Rows without a positive population are skipped.
func ParseBaselineCSV(r io.Reader) ([]District, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read baseline csv: %w", err)
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("baseline csv has no data rows")
	}

	var districts []District
	for _, row := range rows[2:] {
		if len(row) < 9 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" || strings.HasPrefix(name, "Total:") {
			continue
		}

		population := parseGroupedInt(row[1])
		if population <= 0 {
			continue
		}

		totalWaste := parseGroupedFloat(row[3])
		perCapita := perCapitaRate
		if totalWaste > 0 {
			perCapita = totalWaste / float64(population)
		} else {
			totalWaste = float64(population) * perCapitaRate
		}

		districts = append(districts, District{
			Name:                name,
			Population:          population,
			TotalWaste:          totalWaste,
			WastePerCapita:      perCapita,
			CollectionFrequency: strings.TrimSpace(row[8]),
		})
	}

	if len(districts) == 0 {
		return nil, fmt.Errorf("baseline csv yielded no districts")
	}

	return districts, nil
}

// WriteBaselineJSON emits the district-to-waste map consumed by the
// prediction service at startup.
func WriteBaselineJSON(w io.Writer, districts []District) error {
	baselines := make(map[string]float64, len(districts))
	for _, d := range districts {
		baselines[d.Name] = d.TotalWaste
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(baselines)
}

func parseGroupedInt(raw string) int {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

func parseGroupedFloat(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.ReplaceAll(cleaned, `"`, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}
