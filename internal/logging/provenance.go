package logging

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// ErrNotFound is returned by GetDecision for an unknown id.
var ErrNotFound = errors.New("provenance entry not found")

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS provenance_log (
	id            TEXT PRIMARY KEY,
	pose          TEXT NOT NULL,
	source        TEXT,
	language      TEXT,
	observation   TEXT,
	decision      TEXT NOT NULL,
	confidence    REAL NOT NULL,
	feedback      TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region open
// Open opens a SQLite database and creates the provenance table.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// #endregion open

// #region new-entry
// NewEntry builds a provenance entry for one classification.
func NewEntry(source, language string, obs joints.Observation, r classifier.Result) (ProvenanceEntry, error) {
	obsJSON, err := json.Marshal(obs)
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("marshal observation: %w", err)
	}
	return ProvenanceEntry{
		Pose:            string(r.Pose),
		Source:          source,
		Language:        language,
		ObservationJSON: string(obsJSON),
		Decision:        DecisionFor(r),
		Confidence:      r.Confidence,
		Feedback:        r.Feedback,
	}, nil
}

// DecisionFor maps a result to its provenance decision.
func DecisionFor(r classifier.Result) string {
	switch {
	case r.Gated:
		return DecisionGated
	case r.IsPoseCorrect:
		return DecisionCorrect
	}
	return DecisionIncorrect
}

// #endregion new-entry

// #region log-decision
// LogDecision writes a provenance entry to the provenance_log table and returns its id.
// A new uuid is assigned when entry.ID is empty.
func LogDecision(db *sql.DB, entry ProvenanceEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO provenance_log (id, pose, source, language, observation, decision, confidence, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Pose,
		nullIfEmpty(entry.Source),
		nullIfEmpty(entry.Language),
		nullIfEmpty(entry.ObservationJSON),
		entry.Decision,
		entry.Confidence,
		nullIfEmpty(entry.Feedback),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("log decision: %w", err)
	}
	return entry.ID, nil
}

// #endregion log-decision

// #region list-decisions
const selectColumns = `SELECT id, pose, source, language, observation, decision, confidence, feedback, created_at FROM provenance_log`

// ListDecisions returns the most recent entries, newest first. A non-empty pose keeps
// only that pose's rows before the limit applies. A non-positive limit returns all rows.
func ListDecisions(db *sql.DB, pose string, limit int) ([]ProvenanceEntry, error) {
	query := selectColumns
	args := []any{}
	if pose != "" {
		query += ` WHERE pose = ?`
		args = append(args, pose)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var entries []ProvenanceEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list decisions: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	return entries, nil
}

// GetDecision returns the entry with the given id.
func GetDecision(db *sql.DB, id string) (ProvenanceEntry, error) {
	e, err := scanEntry(db.QueryRow(selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ProvenanceEntry{}, fmt.Errorf("get decision %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("get decision %s: %w", id, err)
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (ProvenanceEntry, error) {
	var (
		e                                       ProvenanceEntry
		source, language, observation, feedback sql.NullString
		createdAt                               string
	)
	if err := s.Scan(&e.ID, &e.Pose, &source, &language, &observation, &e.Decision, &e.Confidence, &feedback, &createdAt); err != nil {
		return ProvenanceEntry{}, err
	}
	e.Source = source.String
	e.Language = language.String
	e.ObservationJSON = observation.String
	e.Feedback = feedback.String

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ProvenanceEntry{}, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = t
	return e, nil
}

// #endregion list-decisions

// #region observation
// Observation decodes the stored observation of e.
func (e ProvenanceEntry) Observation() (joints.Observation, error) {
	var obs joints.Observation
	if e.ObservationJSON == "" {
		return obs, nil
	}
	if err := json.Unmarshal([]byte(e.ObservationJSON), &obs); err != nil {
		return obs, fmt.Errorf("decode observation %s: %w", e.ID, err)
	}
	return obs, nil
}

// #endregion observation

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
