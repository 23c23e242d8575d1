package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/features"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/logging"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to provenance db")
	last := flag.Int("last", 20, "show N most recent classifications")
	id := flag.String("id", "", "show single classification detail")
	pose := flag.String("pose", "", "filter list to one pose id")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/provenance.db [--last N] [--id id] [--pose name] [--json]")
		os.Exit(2)
	}

	db, err := logging.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *id != "" {
		entry, err := logging.GetDecision(db, *id)
		if err == nil {
			err = runDetailMode(entry, *jsonOut)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	entries, err := logging.ListDecisions(db, *pose, *last)
	if err == nil {
		err = runListMode(entries, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	ID         string  `json:"id"`
	Pose       string  `json:"pose"`
	Decision   string  `json:"decision"`
	Confidence float64 `json:"confidence"`
	Joints     int     `json:"joints"`
	Source     string  `json:"source,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(entries []logging.ProvenanceEntry, jsonOut bool) error {
	// Store returns DESC, reverse for chronological.
	rows := make([]listRow, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		obs, err := e.Observation()
		if err != nil {
			return err
		}
		rows = append(rows, listRow{
			ID:         e.ID,
			Pose:       e.Pose,
			Decision:   e.Decision,
			Confidence: e.Confidence,
			Joints:     obs.Len(),
			Source:     e.Source,
			CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "no classifications found")
		return nil
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-26s  %-10s  %10s  %6s  %s\n",
		"ID", "Pose", "Decision", "Confidence", "Joints", "Time")
	fmt.Printf("%-10s+-%-26s+-%-10s+-%10s+-%6s+-%s\n",
		"----------", "--------------------------", "----------", "----------", "------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-10s  %-26s  %-10s  %10.2f  %6d  %s\n",
			shortID(r.ID), r.Pose, r.Decision, r.Confidence, r.Joints, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	logging.ProvenanceEntry
	Joints   joints.Observation `json:"joints"`
	Geometry geometry           `json:"geometry"`
}

// geometry holds the measurements the bicep rules read. Nil when a joint is absent.
type geometry struct {
	LeftArmDeltaY   *float64 `json:"left_arm_delta_y,omitempty"`
	RightArmDeltaY  *float64 `json:"right_arm_delta_y,omitempty"`
	LeftWristRise   *float64 `json:"left_wrist_rise,omitempty"`
	RightWristRise  *float64 `json:"right_wrist_rise,omitempty"`
	ElbowSeparation *float64 `json:"elbow_separation,omitempty"`
	LeftForearm     *float64 `json:"left_forearm,omitempty"`
	RightForearm    *float64 `json:"right_forearm,omitempty"`
}

func runDetailMode(e logging.ProvenanceEntry, jsonOut bool) error {
	obs, err := e.Observation()
	if err != nil {
		return err
	}
	out := detailOutput{ProvenanceEntry: e, Joints: obs, Geometry: measure(obs)}
	out.ObservationJSON = ""

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("ID:         %s\n", e.ID)
	fmt.Printf("Pose:       %s\n", e.Pose)
	fmt.Printf("Source:     %s\n", e.Source)
	fmt.Printf("Created:    %s\n", e.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("Decision:   %s\n", e.Decision)
	fmt.Printf("Confidence: %.2f\n", e.Confidence)
	fmt.Printf("Feedback:   %s\n", e.Feedback)

	fmt.Printf("\nJoints:\n")
	for _, id := range joints.All() {
		if p, ok := obs.Get(id); ok {
			fmt.Printf("  %-15s x=%7.3f y=%7.3f z=%7.3f\n", id, p.X, p.Y, p.Z)
		}
	}

	g := out.Geometry
	fmt.Printf("\nGeometry:\n")
	printMetric("left arm ΔY", g.LeftArmDeltaY)
	printMetric("right arm ΔY", g.RightArmDeltaY)
	printMetric("left wrist rise", g.LeftWristRise)
	printMetric("right wrist rise", g.RightWristRise)
	printMetric("elbow separation", g.ElbowSeparation)
	printMetric("left forearm", g.LeftForearm)
	printMetric("right forearm", g.RightForearm)
	return nil
}

// #endregion detail-mode

// #region metrics

func measure(obs joints.Observation) geometry {
	var g geometry
	g.LeftArmDeltaY = delta(obs, joints.LeftShoulder, joints.LeftElbow)
	g.RightArmDeltaY = delta(obs, joints.RightShoulder, joints.RightElbow)
	g.LeftWristRise = rise(obs, joints.LeftShoulder, joints.LeftElbow, joints.LeftWrist)
	g.RightWristRise = rise(obs, joints.RightShoulder, joints.RightElbow, joints.RightWrist)
	g.LeftForearm = length(obs, joints.LeftElbow, joints.LeftWrist)
	g.RightForearm = length(obs, joints.RightElbow, joints.RightWrist)

	if obs.HasAll(joints.LeftShoulder, joints.RightShoulder, joints.LeftElbow, joints.RightElbow) {
		ls, _ := obs.Get(joints.LeftShoulder)
		rs, _ := obs.Get(joints.RightShoulder)
		le, _ := obs.Get(joints.LeftElbow)
		re, _ := obs.Get(joints.RightElbow)
		v := features.Normalize(features.AbsVerticalDiff(le, re), features.AbsVerticalDiff(ls, rs))
		g.ElbowSeparation = &v
	}
	return g
}

func delta(obs joints.Observation, from, to joints.ID) *float64 {
	d, ok := features.Delta(obs, from, to)
	if !ok {
		return nil
	}
	return &d
}

// rise is the wrist-over-elbow delta normalized by the vertical arm span.
func rise(obs joints.Observation, shoulder, elbow, wrist joints.ID) *float64 {
	if !obs.HasAll(shoulder, elbow, wrist) {
		return nil
	}
	s, _ := obs.Get(shoulder)
	e, _ := obs.Get(elbow)
	w, _ := obs.Get(wrist)
	v := features.Normalize(features.VerticalDelta(e, w), features.AbsVerticalDiff(s, e))
	return &v
}

func length(obs joints.Observation, a, b joints.ID) *float64 {
	if !obs.HasAll(a, b) {
		return nil
	}
	pa, _ := obs.Get(a)
	pb, _ := obs.Get(b)
	v := features.SegmentLength(pa, pb)
	return &v
}

// #endregion metrics

// #region output

func printMetric(name string, v *float64) {
	if v == nil {
		fmt.Printf("  %-17s —\n", name)
		return
	}
	fmt.Printf("  %-17s %.4f\n", name, *v)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
