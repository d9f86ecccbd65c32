package journal

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("not found")

// GetRun returns a single run by id.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, dataset, config, start_time, end_time, samples, bars, indicator_values, math_errors
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Dataset,
		&rec.Config,
		&rec.Start,
		&rec.End,
		&rec.Samples,
		&rec.Bars,
		&rec.Values,
		&rec.MathErrors,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q: %w", runID, ErrNotFound)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListBars returns the bars of a run in time order.
func (j *SQLite) ListBars(runID string) ([]BarRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, open, high, low, close, volume
		FROM bars
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BarRecord
	for rows.Next() {
		var rec BarRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Time,
			&rec.Open,
			&rec.High,
			&rec.Low,
			&rec.Close,
			&rec.Volume,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListValues returns the values one indicator produced during a run, in
// time order.
func (j *SQLite) ListValues(runID, indicator string) ([]ValueRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, indicator, value, ready, status
		FROM indicator_values
		WHERE run_id = ? AND indicator = ?
		ORDER BY time ASC, rowid ASC`, runID, indicator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ValueRecord
	for rows.Next() {
		var rec ValueRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Time,
			&rec.Indicator,
			&rec.Value,
			&rec.Ready,
			&rec.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
