package array

import "iter"

// Values yields every element in linear order. The sequence reads the
// array each time it is ranged over.
func (a *Array) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		a.mustLive()
		for _, v := range a.data {
			if !yield(v) {
				return
			}
		}
	}
}

// PropertyValues yields property p of each sample.
func (a *Array) PropertyValues(p int) (iter.Seq[float64], error) {
	if err := a.liveErr(); err != nil {
		return nil, err
	}
	if p < 0 || p >= a.props {
		return nil, indexError("property", p, a.props)
	}
	return func(yield func(float64) bool) {
		a.mustLive()
		for i := p; i < len(a.data); i += a.props {
			if !yield(a.data[i]) {
				return
			}
		}
	}, nil
}

// Samples yields an owned copy of each sample with its index.
func (a *Array) Samples() iter.Seq2[int, *Array] {
	return func(yield func(int, *Array) bool) {
		for i := 0; i < a.count; i++ {
			if !yield(i, a.Sample(i)) {
				return
			}
		}
	}
}

// Sum of every element.
func (a *Array) Sum() float64 {
	a.mustLive()
	var s float64
	for _, v := range a.data {
		s += v
	}
	return s
}

// SumProperty sums property p over all samples.
func (a *Array) SumProperty(p int) (float64, error) {
	seq, err := a.PropertyValues(p)
	if err != nil {
		return 0, err
	}
	var s float64
	for v := range seq {
		s += v
	}
	return s, nil
}

// Mean is Sum divided by Count.
func (a *Array) Mean() float64 { return a.Sum() / float64(a.count) }

func (a *Array) MeanProperty(p int) (float64, error) {
	s, err := a.SumProperty(p)
	if err != nil {
		return 0, err
	}
	return s / float64(a.count), nil
}

// Median returns the element at linear index (Count+1)/2. No sorting takes
// place; callers feed ordered data.
func (a *Array) Median() (float64, error) {
	if err := a.liveErr(); err != nil {
		return 0, err
	}
	i := (a.count + 1) / 2
	if i >= len(a.data) {
		return 0, indexError("median element", i, len(a.data))
	}
	return a.data[i], nil
}

// MedianProperty returns property p of sample (Count+1)/2.
func (a *Array) MedianProperty(p int) (float64, error) {
	return a.Get((a.count+1)/2, p)
}
