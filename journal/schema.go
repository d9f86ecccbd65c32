package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	dataset TEXT NOT NULL,
	config BLOB,
	start_time DATETIME,
	end_time DATETIME,
	samples INTEGER NOT NULL DEFAULT 0,
	bars INTEGER NOT NULL DEFAULT 0,
	indicator_values INTEGER NOT NULL DEFAULT 0,
	math_errors INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bars (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS indicator_values (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	indicator TEXT NOT NULL,
	value REAL NOT NULL,
	ready BOOLEAN NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bars_run_time ON bars(run_id, time);
CREATE INDEX IF NOT EXISTS idx_values_run_indicator ON indicator_values(run_id, indicator, time);
`
