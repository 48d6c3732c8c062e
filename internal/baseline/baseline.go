// Package baseline maps district names to their surveyed average daily
// waste generation in kilograms.
package baseline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// PerCapitaRate is the surveyed average solid-waste generation per person
// per day in kilograms, used when a district has no baseline record.
const PerCapitaRate = 0.42

// Table is an immutable name-to-kilograms lookup loaded once at startup.
type Table struct {
	waste map[string]float64
}

// Default returns the compiled-in city baseline table.
func Default() *Table {
	return &Table{waste: cdoBaselines}
}

// Load reads a baseline override file ({"name": kg, ...}); on any failure
// it degrades to the compiled-in table.
func Load(path string, logger *slog.Logger) *Table {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("baseline file unavailable, using built-in table", "path", path, "error", err)
		return Default()
	}

	var waste map[string]float64
	if err := json.Unmarshal(data, &waste); err != nil {
		logger.Warn("baseline file malformed, using built-in table", "path", path, "error", err)
		return Default()
	}

	logger.Info("baseline table loaded", "path", path, "districts", len(waste))
	return &Table{waste: waste}
}

// HistoricalWaste returns the recorded average daily waste for the district
// in kilograms, or 0 when the district has no record. Lookup is by exact
// name.
func (t *Table) HistoricalWaste(district string) float64 {
	return t.waste[district]
}

// BaselineFor returns the district's historical waste, substituting the
// population-derived estimate when no record exists. It never fails.
func (t *Table) BaselineFor(district string, population float64) float64 {
	if w := t.HistoricalWaste(district); w > 0 {
		return w
	}
	return population * PerCapitaRate
}

// Len reports the number of districts with a baseline record.
func (t *Table) Len() int {
	return len(t.waste)
}

// String implements fmt.Stringer for log output.
func (t *Table) String() string {
	return fmt.Sprintf("baseline.Table(%d districts)", len(t.waste))
}
