package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the outcome of a generation run
type RunStatus string

const (
	RunStatusOK     RunStatus = "ok"
	RunStatusFailed RunStatus = "failed"
)

// ErrRunNotFound is returned by GetRun for an unknown id
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded model generation
type Run struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	GraphPath      string    `json:"graph_path"`
	RatioPath      string    `json:"ratio_path"`
	Reverse        bool      `json:"reverse"`
	Naming         string    `json:"naming"`
	OutputPath     string    `json:"output_path"`
	ObjectiveTerms int       `json:"objective_terms"`
	Bounds         int       `json:"bounds"`
	Constraints    int       `json:"constraints"`
	Size           int64     `json:"size"`
	Digest         string    `json:"digest"`
	Status         RunStatus `json:"status"`
	Error          string    `json:"error,omitempty"`
}

// Duration returns how long the run took
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = `id, started_at, finished_at, graph_path, ratio_path, reverse, naming, output_path,
	objective_terms, bounds, constraints, size, digest, status, error`

// InsertRun stores a run, assigning it a new id when it has none
func (db *DB) InsertRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := db.conn.Exec(
		`INSERT INTO runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		run.GraphPath, run.RatioPath, run.Reverse, run.Naming, run.OutputPath,
		run.ObjectiveTerms, run.Bounds, run.Constraints, run.Size, run.Digest,
		string(run.Status), run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ListRuns returns the most recent runs first. A limit of 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetStats returns the total and failed run counts
func (db *DB) GetStats() (total, failed int64, err error) {
	err = db.conn.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) FROM runs`,
		string(RunStatusFailed),
	).Scan(&total, &failed)
	return total, failed, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run               Run
		started, finished int64
		status            string
	)
	err := s.Scan(
		&run.ID, &started, &finished, &run.GraphPath, &run.RatioPath, &run.Reverse,
		&run.Naming, &run.OutputPath, &run.ObjectiveTerms, &run.Bounds, &run.Constraints,
		&run.Size, &run.Digest, &status, &run.Error,
	)
	if err != nil {
		return nil, err
	}
	run.StartedAt = time.Unix(0, started)
	run.FinishedAt = time.Unix(0, finished)
	run.Status = RunStatus(status)
	return &run, nil
}
