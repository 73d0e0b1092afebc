package returns

import (
	"errors"
	"testing"

	"github.com/profit-tool/profit/date"
)

func days(from string, n int) []date.Date {
	start := date.MustParse(from)
	out := make([]date.Date, n)
	for i := range out {
		out[i] = start.Add(i)
	}
	return out
}

func denseSet(from string, values []float64) SeriesSet {
	n := len(values)
	return SeriesSet{
		Dates:    days(from, n),
		Values:   values,
		Costs:    make([]float64, n),
		Payouts:  make([]float64, n),
		Inflows:  make([]float64, n),
		Outflows: make([]float64, n),
	}
}

func TestCalcReturn(t *testing.T) {
	tests := []struct {
		name                                       string
		val1, val2, outflow, inflow, payout, cost  float64
		want                                       Percent
	}{
		{"plain gain", 100, 110, 0, 0, 0, 0, 10},
		{"flows cancel", 100, 100, 5, 5, 0, 0, 0},
		{"payout adds", 100, 100, 0, 0, 10, 0, 10},
		{"cost subtracts", 100, 100, 0, 0, 0, 10, -10},
		{"zero start value", 0, 100, 0, 0, 0, 0, 0},
	}
	for _, tc := range tests {
		got := CalcReturn(tc.val1, tc.val2, tc.outflow, tc.inflow, tc.payout, tc.cost)
		if !got.Equal(tc.want) {
			t.Errorf("%s: CalcReturn() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReturnsOverPeriodScenario(t *testing.T) {
	set := denseSet("2025-01-01", []float64{1, 100, 105, 105, 55, 50})
	set.Inflows[1] = 99
	set.Outflows[1] = 5
	set.Outflows[4] = 50
	set.Outflows[5] = 5
	set.Costs[1] = 10
	set.Payouts[1] = 10

	got, err := ReturnsOverPeriod(set, 4)
	if err != nil {
		t.Fatalf("ReturnsOverPeriod() unexpected error: %v", err)
	}
	// The trailing 2-day block is incomplete and dropped.
	if len(got) != 1 {
		t.Fatalf("ReturnsOverPeriod() yields %d blocks, want 1", len(got))
	}
	if got[0].End != date.MustParse("2025-01-04") {
		t.Errorf("block end = %v, want 2025-01-04", got[0].End)
	}
	// (105 + 5 + 10 - 10 - 99 - 1) / 1 * 100
	if want := Percent(1000); !got[0].Return.Equal(want) {
		t.Errorf("block return = %v, want %v", got[0].Return, want)
	}
}

func TestReturnsOverPeriodChainsBlocks(t *testing.T) {
	set := denseSet("2025-01-01", []float64{100, 110, 120, 130, 140, 150})

	got, err := ReturnsOverPeriod(set, 3)
	if err != nil {
		t.Fatalf("ReturnsOverPeriod() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReturnsOverPeriod() yields %d blocks, want 2", len(got))
	}
	// The second block starts from the first block's closing value 120.
	if want := Percent(20); !got[0].Return.Equal(want) {
		t.Errorf("first block return = %v, want %v", got[0].Return, want)
	}
	if want := Percent(25); !got[1].Return.Equal(want) {
		t.Errorf("second block return = %v, want %v", got[1].Return, want)
	}
}

func TestReturnsOverPeriodMidBlockBuy(t *testing.T) {
	set := denseSet("2025-01-01", []float64{0, 0, 100, 110})
	set.Inflows[2] = 100 // the buy that created the position

	got, err := ReturnsOverPeriod(set, 4)
	if err != nil {
		t.Fatalf("ReturnsOverPeriod() unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ReturnsOverPeriod() yields %d blocks, want 1", len(got))
	}
	// The opening inflow bought the position and must not count as dilution.
	if want := Percent(10); !got[0].Return.Equal(want) {
		t.Errorf("return = %v, want %v", got[0].Return, want)
	}
}

func TestReturnsOverPeriodEmptyBlocksAreZero(t *testing.T) {
	set := denseSet("2025-01-01", []float64{0, 0, 0, 0})

	got, err := ReturnsOverPeriod(set, 2)
	if err != nil {
		t.Fatalf("ReturnsOverPeriod() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReturnsOverPeriod() yields %d blocks, want 2", len(got))
	}
	for _, pr := range got {
		if !pr.Return.Equal(0) {
			t.Errorf("empty block return = %v, want 0.00%%", pr.Return)
		}
	}
}

func TestReturnsOverPeriodRejectsBadInput(t *testing.T) {
	holed := denseSet("2025-01-01", []float64{1, 2})
	holed.Dates[1] = date.MustParse("2025-01-03")
	if _, err := ReturnsOverPeriod(holed, 1); !errors.Is(err, ErrNonConsecutiveDates) {
		t.Errorf("holed dates: error = %v, want ErrNonConsecutiveDates", err)
	}

	short := denseSet("2025-01-01", []float64{1, 2})
	short.Costs = short.Costs[:1]
	if _, err := ReturnsOverPeriod(short, 1); !errors.Is(err, ErrMismatchedLengths) {
		t.Errorf("short costs: error = %v, want ErrMismatchedLengths", err)
	}

	if _, err := ReturnsOverPeriod(denseSet("2025-01-01", []float64{1}), 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("period 0: error = %v, want ErrInvalidPeriod", err)
	}
}

func TestTotalReturn(t *testing.T) {
	set := denseSet("2025-01-01", []float64{100, 105, 110, 121})
	got, err := TotalReturn(set)
	if err != nil {
		t.Fatalf("TotalReturn() unexpected error: %v", err)
	}
	if want := Percent(21); !got.Equal(want) {
		t.Errorf("TotalReturn() = %v, want %v", got, want)
	}
}

func TestPercentFormatting(t *testing.T) {
	if got := Percent(3.456).String(); got != "3.46%" {
		t.Errorf("String() = %q, want %q", got, "3.46%")
	}
	if got := Percent(-1.5).SignedString(); got != "-1.50%" {
		t.Errorf("SignedString() = %q, want %q", got, "-1.50%")
	}
	if got := Percent(0).SignedString(); got != "-" {
		t.Errorf("SignedString() of zero = %q, want %q", got, "-")
	}
	if !Percent(10).Equal(10.00005) {
		t.Errorf("Equal() must tolerate tiny float differences")
	}
}
