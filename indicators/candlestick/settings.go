// Package candlestick recognises classic candlestick patterns on a stream
// of bars. Each pattern is an indicator whose value is zero when the
// pattern is absent and the pattern direction (+1 bullish, -1 bearish)
// when it completes on the current bar.
package candlestick

import "fmt"

// RangeType selects which part of a candle a setting measures.
type RangeType int

const (
	// RealBody is |close - open|.
	RealBody RangeType = iota
	// HighLow is high - low.
	HighLow
	// Shadows is the upper plus the lower shadow.
	Shadows
)

func (r RangeType) String() string {
	switch r {
	case RealBody:
		return "real_body"
	case HighLow:
		return "high_low"
	case Shadows:
		return "shadows"
	}
	return fmt.Sprintf("RangeType(%d)", int(r))
}

func (r RangeType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RangeType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "real_body":
		*r = RealBody
	case "high_low":
		*r = HighLow
	case "shadows":
		*r = Shadows
	default:
		return fmt.Errorf("unknown range type %q", b)
	}
	return nil
}

// SettingType names a candle measure used by the patterns.
type SettingType int

const (
	BodyLong SettingType = iota
	BodyVeryLong
	BodyShort
	BodyDoji
	ShadowLong
	ShadowVeryLong
	ShadowShort
	ShadowVeryShort
	Near
	Far
	Equal
)

// Setting describes how a measure is averaged: over AveragePeriod previous
// candles (or the current candle when zero), scaled by Factor.
type Setting struct {
	RangeType     RangeType `json:"range_type" yaml:"range_type"`
	AveragePeriod int       `json:"average_period" yaml:"average_period"`
	Factor        float64   `json:"factor" yaml:"factor"`
}

// Settings holds one Setting per SettingType. Patterns copy the settings
// they are built with, so changing a Settings value never affects running
// patterns.
type Settings struct {
	BodyLong        Setting `json:"body_long" yaml:"body_long"`
	BodyVeryLong    Setting `json:"body_very_long" yaml:"body_very_long"`
	BodyShort       Setting `json:"body_short" yaml:"body_short"`
	BodyDoji        Setting `json:"body_doji" yaml:"body_doji"`
	ShadowLong      Setting `json:"shadow_long" yaml:"shadow_long"`
	ShadowVeryLong  Setting `json:"shadow_very_long" yaml:"shadow_very_long"`
	ShadowShort     Setting `json:"shadow_short" yaml:"shadow_short"`
	ShadowVeryShort Setting `json:"shadow_very_short" yaml:"shadow_very_short"`
	Near            Setting `json:"near" yaml:"near"`
	Far             Setting `json:"far" yaml:"far"`
	Equal           Setting `json:"equal" yaml:"equal"`
}

// DefaultSettings are the TA-Lib defaults.
func DefaultSettings() Settings {
	return Settings{
		BodyLong:        Setting{RealBody, 10, 1.0},
		BodyVeryLong:    Setting{RealBody, 10, 3.0},
		BodyShort:       Setting{RealBody, 10, 1.0},
		BodyDoji:        Setting{HighLow, 10, 0.1},
		ShadowLong:      Setting{RealBody, 0, 1.0},
		ShadowVeryLong:  Setting{RealBody, 0, 2.0},
		ShadowShort:     Setting{Shadows, 10, 1.0},
		ShadowVeryShort: Setting{HighLow, 10, 0.1},
		Near:            Setting{HighLow, 5, 0.2},
		Far:             Setting{HighLow, 5, 0.6},
		Equal:           Setting{HighLow, 5, 0.05},
	}
}

// Get returns the setting for t.
func (s Settings) Get(t SettingType) Setting {
	switch t {
	case BodyLong:
		return s.BodyLong
	case BodyVeryLong:
		return s.BodyVeryLong
	case BodyShort:
		return s.BodyShort
	case BodyDoji:
		return s.BodyDoji
	case ShadowLong:
		return s.ShadowLong
	case ShadowVeryLong:
		return s.ShadowVeryLong
	case ShadowShort:
		return s.ShadowShort
	case ShadowVeryShort:
		return s.ShadowVeryShort
	case Near:
		return s.Near
	case Far:
		return s.Far
	case Equal:
		return s.Equal
	}
	panic(fmt.Sprintf("candlestick: unknown setting type %d", int(t)))
}

// Validate rejects negative periods and non positive factors.
func (s Settings) Validate() error {
	for t := BodyLong; t <= Equal; t++ {
		st := s.Get(t)
		if st.AveragePeriod < 0 {
			return fmt.Errorf("candlestick setting %d: average_period must be >= 0", int(t))
		}
		if st.Factor <= 0 {
			return fmt.Errorf("candlestick setting %d: factor must be positive", int(t))
		}
		if st.RangeType < RealBody || st.RangeType > Shadows {
			return fmt.Errorf("candlestick setting %d: unknown range type", int(t))
		}
	}
	return nil
}
