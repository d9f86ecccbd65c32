package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes bars and values to two CSV files. Runs are not kept;
// every row carries its run id instead.
type CSVJournal struct {
	bars   *csv.Writer
	values *csv.Writer
	bf, vf *os.File
}

func NewCSV(barsPath, valuesPath string) (*CSVJournal, error) {
	bf, err := os.Create(barsPath)
	if err != nil {
		return nil, err
	}
	vf, err := os.Create(valuesPath)
	if err != nil {
		bf.Close()
		return nil, err
	}

	j := &CSVJournal{
		bars:   csv.NewWriter(bf),
		values: csv.NewWriter(vf),
		bf:     bf,
		vf:     vf,
	}
	if err := j.write(j.bars, []string{"run_id", "time", "open", "high", "low", "close", "volume"}); err != nil {
		return nil, errors.Join(err, j.Close())
	}
	if err := j.write(j.values, []string{"run_id", "time", "indicator", "value", "ready", "status"}); err != nil {
		return nil, errors.Join(err, j.Close())
	}
	return j, nil
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) RecordRun(RunRecord) error { return nil }

func (j *CSVJournal) RecordBar(b BarRecord) error {
	return j.write(j.bars, []string{
		b.RunID,
		b.Time.UTC().Format(time.RFC3339Nano),
		f(b.Open),
		f(b.High),
		f(b.Low),
		f(b.Close),
		f(b.Volume),
	})
}

func (j *CSVJournal) RecordValue(v ValueRecord) error {
	return j.write(j.values, []string{
		v.RunID,
		v.Time.UTC().Format(time.RFC3339Nano),
		v.Indicator,
		f(v.Value),
		strconv.FormatBool(v.Ready),
		v.Status,
	})
}

func (j *CSVJournal) Close() error {
	j.bars.Flush()
	j.values.Flush()
	return errors.Join(j.bars.Error(), j.values.Error(), j.bf.Close(), j.vf.Close())
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
