// Package journal records what a streaming run produced: the run itself,
// every consolidated bar and every indicator value.
package journal

import "time"

// RunRecord summarises one run. It is recorded when the run starts and
// again, with totals, when it ends.
type RunRecord struct {
	RunID      string
	Created    time.Time
	Dataset    string
	Config     []byte
	Start      time.Time // first sample time
	End        time.Time // last sample time
	Samples    int64
	Bars       int64
	Values     int64
	MathErrors int64
}

// BarRecord is one completed bar.
type BarRecord struct {
	RunID  string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ValueRecord is one indicator update.
type ValueRecord struct {
	RunID     string
	Time      time.Time
	Indicator string
	Value     float64
	Ready     bool
	Status    string
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordBar(BarRecord) error
	RecordValue(ValueRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error     { return nil }
func (Nop) RecordBar(BarRecord) error     { return nil }
func (Nop) RecordValue(ValueRecord) error { return nil }
func (Nop) Close() error                  { return nil }
