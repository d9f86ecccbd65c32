// Package pipeline runs a candle feed through an optional consolidator and
// a configured indicator graph, journaling what comes out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/config"
	"github.com/rustyeddy/streamta/consolidators"
	"github.com/rustyeddy/streamta/indicators"
	"github.com/rustyeddy/streamta/journal"
	"github.com/rustyeddy/streamta/market"
	"github.com/rustyeddy/streamta/pkg/id"
)

// Feed yields candles in time order until ok is false.
type Feed interface {
	Next() (c market.Candle, ok bool, err error)
}

// Summary is what a run did.
type Summary struct {
	RunID      string
	Start      time.Time
	End        time.Time
	Samples    int64
	Bars       int64
	Values     int64
	MathErrors int64
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithJournal(j journal.Journal) Option {
	return func(p *Pipeline) {
		if j != nil {
			p.journal = j
		}
	}
}

func WithMetrics(m *Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

// WithRunID fixes the run id instead of generating one.
func WithRunID(runID string) Option { return func(p *Pipeline) { p.runID = runID } }

// Pipeline owns one indicator graph. It is not safe for concurrent use;
// Run drives the graph from the calling goroutine.
type Pipeline struct {
	cfg     *config.Config
	logger  *zap.Logger
	journal journal.Journal
	metrics *Metrics
	runID   string

	root         indicators.Updatable
	consolidator *consolidators.Consolidator
	graph        *graph

	summary Summary
	err     error // first journal error raised inside a callback
}

// New validates cfg and builds the graph.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		logger:  zap.NewNop(),
		journal: journal.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	if p.runID == "" {
		p.runID = id.New()
	}
	p.logger = p.logger.With(zap.String("run_id", p.runID))

	if cfg.Consolidator.Enabled() {
		policy, err := cfg.Consolidator.Policy()
		if err != nil {
			return nil, err
		}
		c, err := consolidators.NewTradeBar(policy)
		if err != nil {
			return nil, err
		}
		p.consolidator = c
		p.root = c
		c.OnUpdated(p.recordBar)
	} else {
		p.root = indicators.NewIdentity("feed")
	}

	g, err := buildGraph(p.root, cfg.Indicators, cfg.Candlestick)
	if err != nil {
		return nil, err
	}
	p.graph = g
	for _, n := range g.nodes {
		p.watch(n)
	}

	p.logger.Debug("pipeline built",
		zap.Int("indicators", len(g.nodes)),
		zap.Bool("consolidated", p.consolidator != nil),
	)
	return p, nil
}

func (p *Pipeline) RunID() string { return p.runID }

// Nodes lists the configured indicators in configuration order.
func (p *Pipeline) Nodes() []Node { return p.graph.nodes }

// Indicator looks a node up by its configured name.
func (p *Pipeline) Indicator(name string) (indicators.Updatable, bool) {
	u, ok := p.graph.byName[name]
	return u, ok
}

// Consolidator is nil when candles feed the indicators directly.
func (p *Pipeline) Consolidator() *consolidators.Consolidator { return p.consolidator }

func (p *Pipeline) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Pipeline) recordBar(t int64, bar *array.Array) {
	p.summary.Bars++
	p.metrics.BarsTotal.Inc()
	tb := market.TradeBarOf(bar)
	err := p.journal.RecordBar(journal.BarRecord{
		RunID:  p.runID,
		Time:   time.UnixMilli(t).UTC(),
		Open:   tb.Open,
		High:   tb.High,
		Low:    tb.Low,
		Close:  tb.Close,
		Volume: tb.Volume,
	})
	if err != nil {
		p.fail(fmt.Errorf("record bar: %w", err))
	}
}

func (p *Pipeline) watch(n Node) {
	u := n.Indicator
	u.OnUpdated(func(t int64, current *array.Array) {
		p.summary.Values++
		p.metrics.ValuesTotal.WithLabelValues(n.Name).Inc()
		status := u.Status()
		if status == indicators.StatusMathError {
			p.summary.MathErrors++
			p.metrics.MathErrorsTotal.WithLabelValues(n.Name).Inc()
			p.logger.Debug("math error", zap.String("indicator", n.Name), zap.Int64("time", t))
		}
		ready := u.Ready()
		if ready {
			p.metrics.Ready.WithLabelValues(n.Name).Set(1)
		} else {
			p.metrics.Ready.WithLabelValues(n.Name).Set(0)
		}
		err := p.journal.RecordValue(journal.ValueRecord{
			RunID:     p.runID,
			Time:      time.UnixMilli(t).UTC(),
			Indicator: n.Name,
			Value:     current.Value(),
			Ready:     ready,
			Status:    status.String(),
		})
		if err != nil {
			p.fail(fmt.Errorf("record %s: %w", n.Name, err))
		}
	})
	u.OnReset(func() {
		p.metrics.Ready.WithLabelValues(n.Name).Set(0)
	})
}

func (p *Pipeline) runRecord(created time.Time) journal.RunRecord {
	raw, err := yaml.Marshal(p.cfg)
	if err != nil {
		p.logger.Warn("marshal config", zap.Error(err))
	}
	return journal.RunRecord{
		RunID:      p.runID,
		Created:    created,
		Dataset:    p.cfg.Feed.Path,
		Config:     raw,
		Start:      p.summary.Start,
		End:        p.summary.End,
		Samples:    p.summary.Samples,
		Bars:       p.summary.Bars,
		Values:     p.summary.Values,
		MathErrors: p.summary.MathErrors,
	}
}

// Run pulls candles from feed until it is exhausted, ctx is done or the
// journal fails. The run is journaled at the start and again with totals
// at the end, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, feed Feed) (sum Summary, err error) {
	created := time.Now().UTC()
	p.summary = Summary{RunID: p.runID}
	p.err = nil

	if err := p.journal.RecordRun(p.runRecord(created)); err != nil {
		return p.summary, fmt.Errorf("record run: %w", err)
	}
	p.logger.Info("run started", zap.String("dataset", p.cfg.Feed.Path))

	defer func() {
		if rerr := p.journal.RecordRun(p.runRecord(created)); rerr != nil {
			err = errors.Join(err, fmt.Errorf("record run: %w", rerr))
		}
		sum = p.summary
		fields := []zap.Field{
			zap.Int64("samples", sum.Samples),
			zap.Int64("bars", sum.Bars),
			zap.Int64("values", sum.Values),
			zap.Int64("math_errors", sum.MathErrors),
		}
		if err != nil {
			p.logger.Error("run failed", append(fields, zap.Error(err))...)
			return
		}
		p.logger.Info("run finished", fields...)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return p.summary, err
		}

		c, ok, err := feed.Next()
		if err != nil {
			return p.summary, fmt.Errorf("feed: %w", err)
		}
		if !ok {
			break
		}

		if p.summary.Samples == 0 {
			p.summary.Start = c.Time.UTC()
		}
		p.summary.End = c.Time.UTC()
		p.summary.Samples++
		p.metrics.SamplesTotal.Inc()

		p.root.Update(c.Epoch(), c.Array())
		if p.err != nil {
			return p.summary, p.err
		}
	}

	if p.consolidator != nil && p.consolidator.WorkingBar() != nil {
		p.logger.Debug("incomplete bar dropped", zap.Int64("bars", p.consolidator.Emitted()))
	}
	return p.summary, nil
}

// Reset returns every node to its initial state so the pipeline can run
// another feed. Resetting the root cascades down every chain; composites
// only listen to their sides' updates, so each one is cleared on its own
// and cascades to the nodes chained below it. Every node resets once.
func (p *Pipeline) Reset() {
	p.root.Reset()
	for _, n := range p.graph.nodes {
		if c, ok := n.Indicator.(*indicators.Composite); ok {
			c.ResetSelf()
		}
	}
}
