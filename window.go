package profit

import (
	"fmt"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/marketdata"
)

// AnalysisWindow is the reporting horizon of one run. The stop date can
// never lie in the future: asset values of tomorrow do not exist yet, and a
// window reaching past today would silently extrapolate them.
type AnalysisWindow struct {
	date.Range
}

// NewAnalysisWindow returns a window from start to stop, both included.
func NewAnalysisWindow(start, stop date.Date) (AnalysisWindow, error) {
	if stop.Before(start) {
		return AnalysisWindow{}, fmt.Errorf("analysis window start %s is after stop %s", start, stop)
	}
	if stop.After(date.Today()) {
		return AnalysisWindow{}, fmt.Errorf("%w: analysis stop %s", marketdata.ErrFutureDateRequested, stop)
	}
	return AnalysisWindow{Range: date.NewRange(start, stop)}, nil
}

// LastDays returns the window covering the n days up to and including today.
func LastDays(n int) AnalysisWindow {
	today := date.Today()
	if n < 1 {
		n = 1
	}
	return AnalysisWindow{Range: date.NewRange(today.Add(-(n - 1)), today)}
}
