package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/config"
	"github.com/rustyeddy/streamta/indicators"
	"github.com/rustyeddy/streamta/indicators/candlestick"
)

// ErrUnknownType is returned for an indicator type the graph cannot build.
var ErrUnknownType = errors.New("unknown indicator type")

// Node is one configured indicator in the graph.
type Node struct {
	Name      string
	Type      string
	Indicator indicators.Updatable
}

type graph struct {
	root   indicators.Updatable
	nodes  []Node
	byName map[string]indicators.Updatable
}

func composeFor(typ string) (func(l, r indicators.Updatable, opts ...indicators.Option) *indicators.Composite, bool) {
	switch typ {
	case "plus":
		return indicators.Plus, true
	case "minus":
		return indicators.Minus, true
	case "times":
		return indicators.Times, true
	case "over":
		return indicators.Over, true
	}
	return nil, false
}

// buildGraph wires every configured indicator below root, in order.
func buildGraph(root indicators.Updatable, ics []config.IndicatorConfig, settings candlestick.Settings) (*graph, error) {
	g := &graph{root: root, byName: map[string]indicators.Updatable{}}
	for _, ic := range ics {
		u, err := g.add(ic, settings)
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", ic.Name, err)
		}
		g.nodes = append(g.nodes, Node{Name: ic.Name, Type: ic.Type, Indicator: u})
		g.byName[ic.Name] = u
	}
	return g, nil
}

func (g *graph) source(name string) (indicators.Updatable, error) {
	if name == "" {
		return g.root, nil
	}
	u, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("no indicator named %q", name)
	}
	return u, nil
}

func (g *graph) add(ic config.IndicatorConfig, settings candlestick.Settings) (indicators.Updatable, error) {
	typ := strings.ToLower(ic.Type)
	name := indicators.WithName(ic.Name)

	src, err := g.source(ic.Of)
	if err != nil {
		return nil, err
	}

	// composites subscribe to both of their sides themselves
	if compose, ok := composeFor(typ); ok {
		var right indicators.Updatable = indicators.NewConstant(ic.K)
		if ic.With != "" {
			if right, err = g.source(ic.With); err != nil {
				return nil, err
			}
		}
		return compose(src, right, name), nil
	}

	wait := !ic.Ungated
	if typ == "field" {
		sel, ok := array.SelectorByName(ic.Field)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", ic.Field)
		}
		return indicators.Function(src, func(v float64) float64 { return v }, sel, wait, name), nil
	}

	u, err := newIndicator(typ, ic, settings, name)
	if err != nil {
		return nil, err
	}
	indicators.Chain(src, u, wait)
	return u, nil
}

func needPeriod(ic config.IndicatorConfig) error {
	if ic.Period < 1 {
		return fmt.Errorf("%s needs a period", ic.Type)
	}
	return nil
}

func newIndicator(typ string, ic config.IndicatorConfig, settings candlestick.Settings, name indicators.Option) (indicators.Updatable, error) {
	maType, err := indicators.ParseMovingAverageType(ic.MAType)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "identity":
		return indicators.NewIdentity(ic.Name), nil
	case "ad":
		return indicators.NewAccumulationDistribution(name), nil
	case "ha":
		return indicators.NewHeikinAshi(name), nil
	case "tr":
		return indicators.NewTrueRange(name), nil
	}

	if p, ok := candlestick.New(strings.ToUpper(typ), settings); ok {
		return p, nil
	}

	if err := needPeriod(ic); err != nil {
		switch typ {
		case "sma", "ema", "wilders", "sum", "max", "min", "delay", "atr", "wilr", "dpo", "kc", "abands", "adx":
			return nil, err
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownType, ic.Type)
	}

	switch typ {
	case "sma":
		return indicators.NewSMA(ic.Period, name), nil
	case "ema":
		if ic.K > 0 {
			return indicators.NewEMAWithFactor(ic.Period, ic.K, name), nil
		}
		return indicators.NewEMA(ic.Period, name), nil
	case "wilders":
		return indicators.NewWilders(ic.Period, name), nil
	case "sum":
		return indicators.NewSum(ic.Period, name), nil
	case "max":
		return indicators.NewMaximum(ic.Period, name), nil
	case "min":
		return indicators.NewMinimum(ic.Period, name), nil
	case "delay":
		return indicators.NewDelay(ic.Period, name), nil
	case "atr":
		return indicators.NewATR(ic.Period, maType, name), nil
	case "wilr":
		return indicators.NewWilliamsPercentR(ic.Period, name), nil
	case "dpo":
		return indicators.NewDPO(ic.Period, name), nil
	case "kc":
		return indicators.NewKeltnerChannels(ic.Period, ic.K, maType, name), nil
	case "abands":
		return indicators.NewAccelerationBands(ic.Period, ic.Width, maType, name), nil
	case "adx":
		return indicators.NewADX(ic.Period, name), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownType, ic.Type)
}
