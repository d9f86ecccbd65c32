package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/consolidators"
	"github.com/rustyeddy/streamta/indicators"
	"github.com/rustyeddy/streamta/indicators/candlestick"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config describes one streaming run: where candles come from, how they
// are consolidated, which indicators are computed and where results go.
type Config struct {
	Feed         FeedConfig           `json:"feed" yaml:"feed"`
	Consolidator ConsolidatorConfig   `json:"consolidator" yaml:"consolidator"`
	Indicators   []IndicatorConfig    `json:"indicators" yaml:"indicators"`
	Candlestick  candlestick.Settings `json:"candlestick" yaml:"candlestick"`
	Journal      JournalConfig        `json:"journal" yaml:"journal"`
	Log          LogConfig            `json:"log" yaml:"log"`
	Metrics      MetricsConfig        `json:"metrics" yaml:"metrics"`
}

// FeedConfig points at a CSV (or .csv.xz) candle file
type FeedConfig struct {
	Path      string    `json:"path" yaml:"path"`
	From      time.Time `json:"from,omitzero" yaml:"from,omitempty"`
	To        time.Time `json:"to,omitzero" yaml:"to,omitempty"`
	Precision int32     `json:"precision,omitempty" yaml:"precision,omitempty"`
	Ticks     bool      `json:"ticks,omitempty" yaml:"ticks,omitempty"` // time,instrument,bid,ask rows
}

// ConsolidatorConfig turns candles into coarser bars before the indicators
// see them. Leaving both fields empty feeds candles straight through.
type ConsolidatorConfig struct {
	MaxCount int    `json:"max_count,omitempty" yaml:"max_count,omitempty"`
	Span     string `json:"span,omitempty" yaml:"span,omitempty"` // e.g. "5m", "1h"
}

// Enabled reports whether a consolidator is configured.
func (c ConsolidatorConfig) Enabled() bool { return c.MaxCount != 0 || c.Span != "" }

// Policy converts the section to a consolidator policy.
func (c ConsolidatorConfig) Policy() (consolidators.Policy, error) {
	p := consolidators.Policy{MaxCount: c.MaxCount}
	if c.Span != "" {
		d, err := time.ParseDuration(c.Span)
		if err != nil {
			return p, fmt.Errorf("consolidator.span: %w", err)
		}
		p.Span = d.Milliseconds()
	}
	return p, p.Validate()
}

// IndicatorConfig is one node of the indicator graph. Nodes are fed by the
// consolidator (or the raw feed) unless Of names an earlier node.
type IndicatorConfig struct {
	Name   string  `json:"name" yaml:"name"`
	Type   string  `json:"type" yaml:"type"`
	Period int     `json:"period,omitempty" yaml:"period,omitempty"`
	Of     string  `json:"of,omitempty" yaml:"of,omitempty"`
	With   string  `json:"with,omitempty" yaml:"with,omitempty"` // right hand side of plus/minus/times/over
	K      float64 `json:"k,omitempty" yaml:"k,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	MAType string  `json:"ma_type,omitempty" yaml:"ma_type,omitempty"`
	Field  string  `json:"field,omitempty" yaml:"field,omitempty"`

	// Ungated forwards every upstream update, ready or not.
	Ungated bool `json:"ungated,omitempty" yaml:"ungated,omitempty"`
}

// JournalConfig selects where bars and indicator values are recorded
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	BarsFile   string `json:"bars_file,omitempty" yaml:"bars_file,omitempty"`
	ValuesFile string `json:"values_file,omitempty" yaml:"values_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// Build returns a zap logger for the section.
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// MetricsConfig exposes prometheus metrics on Addr when set.
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file and validates
// it. Candlestick settings that the file leaves out keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile parses a YAML or JSON config without validating it, for callers
// that override fields before calling Validate.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{Candlestick: candlestick.DefaultSettings()}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{Candlestick: candlestick.DefaultSettings()}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the configuration without building anything. Indicator
// types are checked when the pipeline builds the graph.
func (c *Config) Validate() error {
	if c.Feed.Path == "" {
		return invalid("feed.path is required")
	}
	if c.Feed.Precision < 0 {
		return invalid("feed.precision must not be negative")
	}
	if !c.Feed.From.IsZero() && !c.Feed.To.IsZero() && !c.Feed.From.Before(c.Feed.To) {
		return invalid("feed.from must be before feed.to")
	}

	if c.Consolidator.Enabled() {
		if _, err := c.Consolidator.Policy(); err != nil {
			return invalid("%v", err)
		}
	}

	if len(c.Indicators) == 0 {
		return invalid("at least one indicator is required")
	}
	seen := map[string]bool{}
	for i, ic := range c.Indicators {
		if ic.Name == "" {
			return invalid("indicators[%d].name is required", i)
		}
		if seen[ic.Name] {
			return invalid("duplicate indicator name %q", ic.Name)
		}
		if ic.Type == "" {
			return invalid("indicator %s: type is required", ic.Name)
		}
		if ic.Period < 0 {
			return invalid("indicator %s: period must not be negative", ic.Name)
		}
		if ic.Of != "" && !seen[ic.Of] {
			return invalid("indicator %s: of %q must name an earlier indicator", ic.Name, ic.Of)
		}
		if ic.With != "" && !seen[ic.With] {
			return invalid("indicator %s: with %q must name an earlier indicator", ic.Name, ic.With)
		}
		if _, err := indicators.ParseMovingAverageType(ic.MAType); err != nil {
			return invalid("indicator %s: %v", ic.Name, err)
		}
		if _, ok := array.SelectorByName(ic.Field); !ok {
			return invalid("indicator %s: unknown field %q", ic.Name, ic.Field)
		}
		seen[ic.Name] = true
	}

	if err := c.Candlestick.Validate(); err != nil {
		return invalid("candlestick: %v", err)
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.BarsFile == "" || c.Journal.ValuesFile == "" {
			return invalid("journal bars_file and values_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return invalid("journal db_path required for SQLite type")
		}
	default:
		return invalid("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// Default returns a runnable configuration: five minute bars from
// candles.csv with a handful of indicators, journaled to CSV.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{Path: "./candles.csv"},
		Consolidator: ConsolidatorConfig{
			Span: "5m",
		},
		Indicators: []IndicatorConfig{
			{Name: "sma20", Type: "sma", Period: 20},
			{Name: "ema20", Type: "ema", Period: 20},
			{Name: "atr14", Type: "atr", Period: 14, MAType: "wilders"},
			{Name: "spread", Type: "minus", Of: "ema20", With: "sma20"},
			{Name: "kc20", Type: "kc", Period: 20, K: 2},
			{Name: "spinning_top", Type: "spinningtop"},
		},
		Candlestick: candlestick.DefaultSettings(),
		Journal: JournalConfig{
			Type:       "csv",
			BarsFile:   "./bars.csv",
			ValuesFile: "./values.csv",
		},
		Log: LogConfig{Level: "info"},
	}
}
