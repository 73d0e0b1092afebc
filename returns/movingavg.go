package returns

import (
	"errors"

	"github.com/profit-tool/profit/date"
)

// ErrInvalidWindow is returned for a moving-average window shorter than one.
var ErrInvalidWindow = errors.New("returns: moving-average window must be at least 1")

// MovingAverage smooths a daily value series with a trailing window of
// window days. Each output value is the mean of the window ending on its
// date, so the output starts window-1 days after the input. Input shorter
// than the window collapses to a single point: the last date with the mean
// of everything.
func MovingAverage(dates []date.Date, values []float64, window int) ([]date.Date, []float64, error) {
	if window < 1 {
		return nil, nil, ErrInvalidWindow
	}
	if len(dates) != len(values) {
		return nil, nil, ErrMismatchedLengths
	}
	if len(dates) == 0 {
		return nil, nil, nil
	}

	if len(dates) <= window {
		return []date.Date{dates[len(dates)-1]}, []float64{sum(values) / float64(len(values))}, nil
	}

	outDates := make([]date.Date, 0, len(dates)-window+1)
	outValues := make([]float64, 0, len(dates)-window+1)
	for i := window; i <= len(values); i++ {
		outDates = append(outDates, dates[i-1])
		outValues = append(outValues, sum(values[i-window:i])/float64(window))
	}
	return outDates, outValues, nil
}
