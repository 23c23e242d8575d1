package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/codec"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/config"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/logging"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// #region main
func main() {
	configPath := flag.String("config", envOr("POSE_CONFIG", ""), "path to classifier config JSON")
	pose := flag.String("pose", "", "pose id (overrides config)")
	lang := flag.String("lang", "", "feedback language: en | id (overrides config)")
	estimator := flag.String("estimator", envOr("POSE_ESTIMATOR_ADDR", ""), "pose estimator gRPC address")
	image := flag.String("image", "", "image to send to the estimator (requires --estimator)")
	dbPath := flag.String("db", envOr("POSE_DB", ""), "append the result to this provenance db")
	timeout := flag.Duration("timeout", 30*time.Second, "estimator call timeout")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: classify [flags] [observation.json]")
		fmt.Fprintln(os.Stderr, "       classify [flags] --estimator host:port --image photo.jpg")
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.ConfigureLogging()

	cfg := classifier.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if *pose != "" {
		cfg.Pose = rules.PoseID(*pose)
	}
	if *lang != "" {
		cfg.Language = *lang
	}

	c, err := classifier.New(cfg, classifier.WithTracer(logging.NewSlogTracer(slog.Default())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "classifier: %v\n", err)
		os.Exit(2)
	}

	obs, source, err := readObservation(*estimator, *image, flag.Arg(0), *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	result := c.Classify(obs)

	if *dbPath != "" {
		if err := record(*dbPath, source, cfg.Language, obs, result); err != nil {
			slog.Error("provenance", "err", err)
		}
	}

	if *jsonOut {
		if err := printJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		printResult(result)
	}
	if !result.IsPoseCorrect {
		os.Exit(3)
	}
}

// #endregion main

// #region input
// readObservation loads joints from the estimator when an image is given, otherwise
// from a JSON file or stdin.
func readObservation(addr, image, path string, timeout time.Duration) (joints.Observation, string, error) {
	if image != "" {
		if addr == "" {
			return joints.Observation{}, "", fmt.Errorf("--image requires --estimator")
		}
		return detect(addr, image, timeout)
	}

	var (
		data   []byte
		err    error
		source = "stdin"
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		source = path
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return joints.Observation{}, "", fmt.Errorf("read observation: %w", err)
	}

	var obs joints.Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return joints.Observation{}, "", fmt.Errorf("parse observation %s: %w", source, err)
	}
	return obs, source, nil
}

func detect(addr, image string, timeout time.Duration) (joints.Observation, string, error) {
	data, err := os.ReadFile(image)
	if err != nil {
		return joints.Observation{}, "", fmt.Errorf("read image: %w", err)
	}

	client, err := codec.NewEstimatorClient(addr)
	if err != nil {
		return joints.Observation{}, "", err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	obs, err := client.Detect(ctx, data, filepath.Base(image))
	if err != nil {
		return joints.Observation{}, "", err
	}
	slog.Debug("estimator", "addr", addr, "image", image, "joints", obs.Len())
	return obs, "estimator:" + addr, nil
}

// #endregion input

// #region output
func record(dbPath, source, lang string, obs joints.Observation, r classifier.Result) error {
	db, err := logging.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := logging.NewEntry(source, lang, obs, r)
	if err != nil {
		return err
	}
	id, err := logging.LogDecision(db, entry)
	if err != nil {
		return err
	}
	slog.Debug("provenance", "id", id, "db", dbPath)
	return nil
}

func printResult(r classifier.Result) {
	verdict := "INCORRECT"
	if r.IsPoseCorrect {
		verdict = "CORRECT"
	}
	fmt.Printf("Pose:       %s\n", r.Pose)
	fmt.Printf("Verdict:    %s\n", verdict)
	fmt.Printf("Confidence: %.2f\n", r.Confidence)
	fmt.Printf("Feedback:   %s\n", r.Feedback)
	fmt.Println("Joints:")
	for _, id := range joints.All() {
		if seen, ok := r.DetectedJoints[id]; ok {
			mark := "-"
			if seen {
				mark = "+"
			}
			fmt.Printf("  %s %s\n", mark, id)
		}
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion output

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
