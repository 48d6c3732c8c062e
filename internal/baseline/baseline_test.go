package baseline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultTableCoversMajorDistricts(t *testing.T) {
	tbl := Default()

	if tbl.Len() == 0 {
		t.Fatal("built-in table is empty")
	}

	for _, name := range []string{"Carmen", "Lapasan", "Kauswagan", "Puntod"} {
		if tbl.HistoricalWaste(name) <= 0 {
			t.Errorf("no baseline for %s", name)
		}
	}
}

func TestHistoricalWasteUnknownDistrict(t *testing.T) {
	if got := Default().HistoricalWaste("Atlantis"); got != 0 {
		t.Errorf("HistoricalWaste(Atlantis) = %v, want 0", got)
	}
}

func TestBaselineForFallsBackToPerCapita(t *testing.T) {
	tbl := Default()

	if got, want := tbl.BaselineFor("Atlantis", 1000), 420.0; got != want {
		t.Errorf("fallback = %v, want %v", got, want)
	}

	// A recorded district ignores population entirely.
	recorded := tbl.HistoricalWaste("Carmen")
	if got := tbl.BaselineFor("Carmen", 1); got != recorded {
		t.Errorf("BaselineFor(Carmen, 1) = %v, want recorded %v", got, recorded)
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baselines.json")
	if err := os.WriteFile(path, []byte(`{"Carmen": 99.5, "New Site": 12}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl := Load(path, testLogger())
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
	if got := tbl.HistoricalWaste("Carmen"); got != 99.5 {
		t.Errorf("override Carmen = %v, want 99.5", got)
	}
	if got := tbl.HistoricalWaste("Lapasan"); got != 0 {
		t.Errorf("override table leaked built-in entry: %v", got)
	}
}

func TestLoadDegradesToBuiltIn(t *testing.T) {
	missing := Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if missing.Len() != Default().Len() {
		t.Error("missing file did not fall back to built-in table")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`["not", "a", "map"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(bad, testLogger()); got.Len() != Default().Len() {
		t.Error("malformed file did not fall back to built-in table")
	}

	if got := Load("", testLogger()); got.Len() != Default().Len() {
		t.Error("empty path did not use built-in table")
	}
}
