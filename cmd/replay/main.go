package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/config"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/logging"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/replay"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to provenance db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	configPath := flag.String("config", "", "classifier config JSON (DB mode only)")
	verbose := flag.Bool("v", false, "print mismatch details")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/provenance.db [--config cfg.json]")
		fmt.Fprintln(os.Stderr, "       (rows for custom poses need the --config that defined them, otherwise they are skipped)")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	logging.ConfigureLogging()

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *verbose)
	} else {
		exitCode = runDBMode(*dbPath, *configPath, *verbose)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-mode

// runDBMode re-classifies every stored observation and compares the verdict
// with the one recorded at the time.
func runDBMode(dbPath, configPath string, verbose bool) int {
	db, err := logging.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer db.Close()

	entries, err := logging.ListDecisions(db, "", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list decisions: %v\n", err)
		return 2
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no entries found in provenance_log")
		return 2
	}

	cfg := classifier.DefaultConfig()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			return 2
		}
	}
	c, err := classifier.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "classifier: %v\n", err)
		return 2
	}

	// List returns newest first; replay chronologically.
	cases := make([]replay.Case, len(entries))
	for i, e := range entries {
		obs, err := e.Observation()
		if err != nil {
			fmt.Fprintf(os.Stderr, "entry %s: %v\n", e.ID, err)
			return 2
		}
		conf := e.Confidence
		cases[len(entries)-1-i] = replay.Case{
			Name:        shortID(e.ID),
			Pose:        rules.PoseID(e.Pose),
			Observation: obs,
			Expected: replay.Expectation{
				Correct:    e.Decision == logging.DecisionCorrect,
				Gated:      e.Decision == logging.DecisionGated,
				Confidence: &conf,
			},
		}
	}

	cases, skipped := replay.SplitKnown(c, cases)
	for _, tc := range skipped {
		slog.Warn("skipping entry for unregistered pose", "entry", tc.Name, "pose", tc.Pose, "hint", "pass --config")
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "no entries for registered poses")
		return 2
	}

	results, err := replay.Replay(c, cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	return printComparison(results, verbose)
}

// #endregion db-mode

// #region fixture-mode

func runFixtureMode(path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	c, err := classifier.New(f.ClassifierConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "classifier: %v\n", err)
		return 2
	}

	results, err := replay.Replay(c, f.ToCases())
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}
	return printComparison(results, verbose)
}

// #endregion fixture-mode

// #region output

// printComparison outputs a comparison table and returns the exit code.
func printComparison(results []replay.CaseResult, verbose bool) int {
	fmt.Printf("%-32s| %-10s| %-10s| %s\n", "Case", "Verdict", "Confidence", "Match")
	fmt.Printf("%-32s+%-10s+%-10s+%s\n",
		"--------------------------------", "-----------", "-----------", "------")

	for _, r := range results {
		match := "OK"
		if r.Drifted() {
			match = "DIFF"
		}
		fmt.Printf("%-32s| %-10s| %-10.4f| %s\n", r.Name, logging.DecisionFor(r.Result), r.Result.Confidence, match)
		if verbose {
			for _, m := range r.Mismatches {
				fmt.Printf("    %s\n", m)
			}
		}
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d correct, %d incorrect, %d gated, %d diverge\n",
		s.Total, s.Correct, s.Incorrect, s.Gated, s.Drifted)
	fmt.Printf("Confidence: mean %.4f, stddev %.4f, min %.4f, max %.4f\n",
		s.MeanConfidence, s.StdConfidence, s.MinConfidence, s.MaxConfidence)

	if s.Drifted > 0 {
		return 1
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
