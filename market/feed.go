package market

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ulikunitz/xz"
)

// FeedOptions filters and normalises rows read by a CSVFeed.
type FeedOptions struct {
	// From and To bound candles to [From, To) when set.
	From time.Time
	To   time.Time

	// Precision is the number of decimal places kept on prices. Zero keeps
	// the values as written.
	Precision int32

	// Ticks reads time,instrument,bid,ask rows instead of candles. Each tick
	// becomes a flat candle at its mid price.
	Ticks bool
}

// CSVFeed reads candle rows:
//
//	time,open,high,low,close[,volume]
//
// where time is RFC3339, RFC3339Nano or unix milliseconds. A single header
// row ("time,...") is allowed and empty or short rows are skipped.
type CSVFeed struct {
	closers []io.Closer
	r       *csv.Reader
	opts    FeedOptions
	parse   func(row []string, precision int32) (Candle, bool, error)

	sawFirst bool
}

// OpenFeed opens a CSV file. Files ending in .xz are decompressed on the
// fly.
func OpenFeed(path string, opts FeedOptions) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		r = xr
	}

	feed := NewCSVFeed(r, opts)
	feed.closers = append(feed.closers, f)
	return feed, nil
}

// NewCSVFeed reads candles from r. The caller keeps ownership of r.
func NewCSVFeed(r io.Reader, opts FeedOptions) *CSVFeed {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	parse := parseCandleRow
	if opts.Ticks {
		parse = parseTickRow
	}
	return &CSVFeed{r: cr, opts: opts, parse: parse}
}

func (f *CSVFeed) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c.Close())
	}
	f.closers = nil
	return errors.Join(errs...)
}

// Next returns the next candle. ok is false once the input is exhausted.
func (f *CSVFeed) Next() (Candle, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			return Candle{}, false, nil
		}
		if err != nil {
			return Candle{}, false, err
		}
		if len(row) == 0 {
			continue
		}

		if !f.sawFirst {
			f.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, ok, err := f.parse(row, f.opts.Precision)
		if err != nil {
			line, _ := f.r.FieldPos(0)
			return Candle{}, false, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok || !inRange(c.Time, f.opts.From, f.opts.To) {
			continue
		}
		return c, true, nil
	}
}

func parseCandleRow(row []string, precision int32) (Candle, bool, error) {
	if len(row) < 5 {
		return Candle{}, false, nil
	}

	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Candle{}, false, nil
	}
	t, err := parseTime(ts)
	if err != nil {
		return Candle{}, false, err
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := range 5 {
		if i == 4 && len(row) < 6 {
			break
		}
		p := precision
		if i == 4 {
			p = 0
		}
		v, err := parsePrice(names[i], row[i+1], p)
		if err != nil {
			return Candle{}, false, err
		}
		vals[i] = v
	}

	return Candle{Time: t, TradeBar: NewTradeBar(vals[0], vals[1], vals[2], vals[3], vals[4])}, true, nil
}

// parsePrice parses a decimal field, rounding to precision places when
// precision is positive.
func parsePrice(name, raw string, precision int32) (float64, error) {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, raw, err)
	}
	if precision > 0 {
		d = d.Round(precision)
	}
	return d.InexactFloat64(), nil
}

func parseTime(ts string) (time.Time, error) {
	if ms, err := strconv.ParseInt(ts, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}
	return t, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// SliceFeed replays candles held in memory.
type SliceFeed struct {
	candles []Candle
	next    int
}

func NewSliceFeed(candles []Candle) *SliceFeed { return &SliceFeed{candles: candles} }

func (f *SliceFeed) Next() (Candle, bool, error) {
	if f.next >= len(f.candles) {
		return Candle{}, false, nil
	}
	c := f.candles[f.next]
	f.next++
	return c, true, nil
}
