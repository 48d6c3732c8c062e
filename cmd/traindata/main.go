// Command traindata converts the city's waste characterization CSV into the
// baseline JSON served at runtime and a synthetic training sample set.
package main

import (
	"flag"
	"fmt"
	"os"

	"log/slog"

	"github.com/wastewatch/wastewatch/internal/traindata"
)

func main() {
	var (
		input     = flag.String("input", "", "waste characterization CSV (required)")
		baselines = flag.String("baselines", "baselines.json", "output path for the baseline JSON")
		samples   = flag.String("samples", "training_samples.csv", "output path for the sample CSV")
		n         = flag.Int("n", 5000, "number of synthetic samples")
		seed      = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: traindata -input characterization.csv [-baselines out.json] [-samples out.csv] [-n 5000] [-seed 42]")
		os.Exit(2)
	}

	if err := run(*input, *baselines, *samples, *n, *seed, logger); err != nil {
		logger.Error("traindata failed", "error", err)
		os.Exit(1)
	}
}

func run(input, baselinesPath, samplesPath string, n int, seed int64, logger *slog.Logger) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	districts, err := traindata.ParseBaselineCSV(in)
	if err != nil {
		return err
	}
	logger.Info("parsed characterization data", "districts", len(districts))

	out, err := os.Create(baselinesPath)
	if err != nil {
		return fmt.Errorf("create baselines output: %w", err)
	}
	defer out.Close()

	if err := traindata.WriteBaselineJSON(out, districts); err != nil {
		return fmt.Errorf("write baselines: %w", err)
	}
	logger.Info("wrote baselines", "path", baselinesPath)

	gen := traindata.NewGenerator(seed)
	sampleSet := gen.Generate(districts, n)

	sout, err := os.Create(samplesPath)
	if err != nil {
		return fmt.Errorf("create samples output: %w", err)
	}
	defer sout.Close()

	if err := traindata.WriteSamplesCSV(sout, sampleSet); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	logger.Info("wrote training samples", "path", samplesPath, "count", len(sampleSet), "seed", seed)

	return nil
}
