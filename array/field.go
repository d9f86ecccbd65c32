package array

// Selector extracts one value from a sample. Selectors read the first
// sample and fall back to Value when a bar field is missing.
type Selector func(a *Array) float64

var (
	Open   Selector = (*Array).Open
	High   Selector = (*Array).High
	Low    Selector = (*Array).Low
	Close  Selector = (*Array).Close
	Volume Selector = (*Array).Volume

	// Average is (O+H+L+C)/4.
	Average Selector = func(a *Array) float64 {
		return (a.Open() + a.High() + a.Low() + a.Close()) / 4
	}

	// Median is (H+L)/2.
	Median Selector = func(a *Array) float64 {
		return (a.High() + a.Low()) / 2
	}

	// Typical is (H+L+C)/3.
	Typical Selector = func(a *Array) float64 {
		return (a.High() + a.Low() + a.Close()) / 3
	}

	// Weighted is (H+L+2C)/4.
	Weighted Selector = func(a *Array) float64 {
		return (a.High() + a.Low() + 2*a.Close()) / 4
	}

	// SevenBar is (2O+H+L+3C)/7.
	SevenBar Selector = func(a *Array) float64 {
		return (2*a.Open() + a.High() + a.Low() + 3*a.Close()) / 7
	}
)

// SelectorByName resolves the lower case selector names used in config
// files. An empty name selects Close.
func SelectorByName(name string) (Selector, bool) {
	switch name {
	case "", "close":
		return Close, true
	case "open":
		return Open, true
	case "high":
		return High, true
	case "low":
		return Low, true
	case "volume":
		return Volume, true
	case "average":
		return Average, true
	case "median":
		return Median, true
	case "typical":
		return Typical, true
	case "weighted":
		return Weighted, true
	case "sevenbar":
		return SevenBar, true
	}
	return nil, false
}
