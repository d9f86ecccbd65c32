package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordRun inserts the run or replaces an earlier record with the same id.
func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, dataset, config, start_time, end_time, samples, bars, indicator_values, math_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Dataset, r.Config, r.Start, r.End,
		r.Samples, r.Bars, r.Values, r.MathErrors,
	)
	return err
}

func (j *SQLite) RecordBar(b BarRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO bars
		(run_id, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume,
	)
	return err
}

func (j *SQLite) RecordValue(v ValueRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO indicator_values
		(run_id, time, indicator, value, ready, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.RunID, v.Time, v.Indicator, v.Value, v.Ready, v.Status,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
