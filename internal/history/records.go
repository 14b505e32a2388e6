package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dailies/internal/pipeline"
	"dailies/internal/services"
	"dailies/internal/stageexec"
)

// Run status values stored in the ledger.
const (
	StatusSucceeded = "succeeded"
	StatusWarnings  = "warnings"
	StatusFailed    = "failed"
)

// Record is one ledger row.
type Record struct {
	RunID          string
	VersionDir     string
	VideoName      string
	Deliverable    string
	AudioRequested bool
	AudioMuxed     bool
	Status         string
	FailedStage    string
	Error          string
	Warnings       int
	Notes          int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Duration is the wall time of the run.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRecord summarizes a pipeline report and the error the run ended with.
// versionDir is used when the path never resolved.
func NewRecord(versionDir string, report pipeline.Report, runErr error) Record {
	rec := Record{
		RunID:          report.RunID,
		VersionDir:     versionDir,
		VideoName:      report.VideoName,
		Deliverable:    report.Deliverable,
		AudioRequested: report.AudioRequested,
		AudioMuxed:     report.AudioMuxed,
		Warnings:       len(report.Warnings),
		Notes:          len(report.Slate.Spec.Notes()),
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		Status:         StatusSucceeded,
	}
	if report.Version.VersionDir != "" {
		rec.VersionDir = report.Version.VersionDir
	}
	if rec.Warnings > 0 {
		rec.Status = StatusWarnings
	}
	if runErr != nil {
		rec.Status = StatusFailed
		rec.Error = services.Details(runErr).Message
		for _, outcome := range report.Outcomes {
			if outcome.Status == stageexec.StatusFailed {
				rec.FailedStage = outcome.Stage
			}
		}
	}
	return rec
}

// Append inserts rec.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.RunID == "" {
		return errors.New("history record missing run id")
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO runs (
                run_id, version_dir, video_name, deliverable, audio_requested, audio_muxed,
                status, failed_stage, error_message, warnings, notes, started_at, finished_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, rec.VersionDir, rec.VideoName, rec.Deliverable,
			boolToInt(rec.AudioRequested), boolToInt(rec.AudioMuxed),
			rec.Status, rec.FailedStage, rec.Error, rec.Warnings, rec.Notes,
			formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
		)
		return err
	})
}

// Recent returns up to limit records, newest first. A versionDir filters to
// one version.
func (s *Store) Recent(ctx context.Context, versionDir string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT run_id, version_dir, video_name, deliverable, audio_requested, audio_muxed,
        status, failed_stage, error_message, warnings, notes, started_at, finished_at
        FROM runs`
	args := []any{}
	if versionDir != "" {
		query += " WHERE version_dir = ?"
		args = append(args, versionDir)
	}
	query += " ORDER BY started_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	var records []Record
	err := retryOnBusy(ctx, func() error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		records = records[:0]
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec               Record
		audioRequested    int
		audioMuxed        int
		started, finished string
	)
	if err := rows.Scan(
		&rec.RunID, &rec.VersionDir, &rec.VideoName, &rec.Deliverable, &audioRequested, &audioMuxed,
		&rec.Status, &rec.FailedStage, &rec.Error, &rec.Warnings, &rec.Notes, &started, &finished,
	); err != nil {
		return Record{}, err
	}
	rec.AudioRequested = audioRequested != 0
	rec.AudioMuxed = audioMuxed != 0
	var err error
	if rec.StartedAt, err = parseTime(started); err != nil {
		return Record{}, err
	}
	if rec.FinishedAt, err = parseTime(finished); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
