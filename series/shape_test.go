package series

import (
	"testing"

	"github.com/profit-tool/profit/date"
)

func TestInterpolate(t *testing.T) {
	days := []date.Date{d("2025-01-01"), d("2025-01-03")}
	vals := []float64{10, 30}

	dense, err := Interpolate(days, vals)
	if err != nil {
		t.Fatalf("Interpolate() unexpected error: %v", err)
	}

	want := map[string]float64{"2025-01-01": 10, "2025-01-02": 10, "2025-01-03": 30}
	if dense.Len() != len(want) {
		t.Fatalf("Interpolate() has %d entries, want %d", dense.Len(), len(want))
	}
	for on, wantV := range want {
		if v, ok := dense.Get(d(on)); !ok || v != wantV {
			t.Errorf("Interpolate() at %s = %v, want %v", on, v, wantV)
		}
	}
	if !dense.IsConsecutive() {
		t.Errorf("Interpolate() result is not consecutive")
	}
}

func TestInterpolateDuplicatesKeepLast(t *testing.T) {
	days := []date.Date{d("2025-01-01"), d("2025-01-01"), d("2025-01-02")}
	vals := []float64{10, 15, 20}

	dense, err := Interpolate(days, vals)
	if err != nil {
		t.Fatalf("Interpolate() unexpected error: %v", err)
	}
	if v, _ := dense.Get(d("2025-01-01")); v != 15 {
		t.Errorf("duplicate date kept value %v, want last occurrence 15", v)
	}
}

func TestInterpolateErrors(t *testing.T) {
	if _, err := Interpolate(nil, nil); err != ErrEmptyInput {
		t.Errorf("empty input: err = %v, want ErrEmptyInput", err)
	}
	if _, err := Interpolate([]date.Date{d("2025-01-01")}, nil); err != ErrLengthMismatch {
		t.Errorf("length mismatch: err = %v, want ErrLengthMismatch", err)
	}
	days := []date.Date{d("2025-01-02"), d("2025-01-01")}
	if _, err := Interpolate(days, []float64{1, 2}); err != ErrUnordered {
		t.Errorf("unordered input: err = %v, want ErrUnordered", err)
	}
}

// TestInterpolateRoundTrip checks that interpolation followed by a crop to the
// original span reproduces every originally-observed pair unchanged.
func TestInterpolateRoundTrip(t *testing.T) {
	days := []date.Date{d("2025-01-01"), d("2025-01-04"), d("2025-01-09"), d("2025-01-10")}
	vals := []float64{1.5, 4.25, 9, 10.125}

	dense, err := Interpolate(days, vals)
	if err != nil {
		t.Fatalf("Interpolate() unexpected error: %v", err)
	}
	cropped, err := dense.Crop(days[0], days[len(days)-1])
	if err != nil {
		t.Fatalf("Crop() unexpected error: %v", err)
	}
	for i, on := range days {
		if v, ok := cropped.Get(on); !ok || v != vals[i] {
			t.Errorf("round trip at %s = %v, want %v", on, v, vals[i])
		}
	}
}

func TestExtendPast(t *testing.T) {
	s := New().Append(d("2025-01-05"), 50).Append(d("2025-01-06"), 60)

	hold, err := s.ExtendPast(d("2025-01-03"), false)
	if err != nil {
		t.Fatalf("ExtendPast() unexpected error: %v", err)
	}
	if hold.Len() != 4 {
		t.Fatalf("ExtendPast() has %d entries, want 4", hold.Len())
	}
	if v, _ := hold.Get(d("2025-01-03")); v != 50 {
		t.Errorf("held value = %v, want 50", v)
	}

	zeros, err := s.ExtendPast(d("2025-01-03"), true)
	if err != nil {
		t.Fatalf("ExtendPast() unexpected error: %v", err)
	}
	if v, _ := zeros.Get(d("2025-01-04")); v != 0 {
		t.Errorf("zero-padded value = %v, want 0", v)
	}

	if _, err := s.ExtendPast(d("2025-01-05"), false); err != ErrTargetAfterStart {
		t.Errorf("target == first: err = %v, want ErrTargetAfterStart", err)
	}
}

func TestExtendFuture(t *testing.T) {
	s := New().Append(d("2025-01-05"), 50).Append(d("2025-01-06"), 60)

	hold, err := s.ExtendFuture(d("2025-01-08"), false)
	if err != nil {
		t.Fatalf("ExtendFuture() unexpected error: %v", err)
	}
	if hold.Len() != 4 {
		t.Fatalf("ExtendFuture() has %d entries, want 4", hold.Len())
	}
	if v, _ := hold.Get(d("2025-01-08")); v != 60 {
		t.Errorf("held value = %v, want 60", v)
	}

	zeros, err := s.ExtendFuture(d("2025-01-07"), true)
	if err != nil {
		t.Fatalf("ExtendFuture() unexpected error: %v", err)
	}
	if v, _ := zeros.Get(d("2025-01-07")); v != 0 {
		t.Errorf("zero-padded value = %v, want 0", v)
	}

	if _, err := s.ExtendFuture(d("2025-01-06"), false); err != ErrTargetBeforeStop {
		t.Errorf("target == last: err = %v, want ErrTargetBeforeStop", err)
	}
}

// TestFormatToRangeDensity checks the density invariant over every structural
// relationship between the requested window and the existing span.
func TestFormatToRangeDensity(t *testing.T) {
	s := New().Append(d("2025-02-10"), 10).Append(d("2025-02-14"), 14)

	tests := []struct {
		name        string
		start, stop string
	}{
		{"inside", "2025-02-11", "2025-02-13"},
		{"exact", "2025-02-10", "2025-02-14"},
		{"entirely before", "2025-02-01", "2025-02-05"},
		{"entirely after", "2025-02-20", "2025-02-25"},
		{"overlap start", "2025-02-05", "2025-02-12"},
		{"overlap end", "2025-02-12", "2025-02-20"},
		{"surrounds", "2025-02-01", "2025-02-28"},
		{"single day", "2025-02-12", "2025-02-12"},
	}
	for _, tc := range tests {
		start, stop := d(tc.start), d(tc.stop)
		got, err := s.FormatToRange(start, stop, false, false)
		if err != nil {
			t.Errorf("%s: FormatToRange() unexpected error: %v", tc.name, err)
			continue
		}
		wantLen := stop.Sub(start) + 1
		if got.Len() != wantLen {
			t.Errorf("%s: FormatToRange() has %d entries, want %d", tc.name, got.Len(), wantLen)
		}
		if !got.IsConsecutive() {
			t.Errorf("%s: FormatToRange() result is not consecutive", tc.name)
		}
		first, _ := got.First()
		last, _ := got.Last()
		if first != start || last != stop {
			t.Errorf("%s: FormatToRange() spans %v..%v, want %v..%v", tc.name, first, last, start, stop)
		}
	}
}

func TestFormatToRangePadding(t *testing.T) {
	s := New().Append(d("2025-02-10"), 10).Append(d("2025-02-12"), 12)

	got, err := s.FormatToRange(d("2025-02-08"), d("2025-02-14"), true, false)
	if err != nil {
		t.Fatalf("FormatToRange() unexpected error: %v", err)
	}
	if v, _ := got.Get(d("2025-02-08")); v != 0 {
		t.Errorf("past pad = %v, want 0 (zeroPadPast)", v)
	}
	if v, _ := got.Get(d("2025-02-11")); v != 10 {
		t.Errorf("inner hole = %v, want 10 (zero-order hold)", v)
	}
	if v, _ := got.Get(d("2025-02-14")); v != 12 {
		t.Errorf("future pad = %v, want 12 (hold last)", v)
	}

	if _, err := s.FormatToRange(d("2025-02-14"), d("2025-02-08"), false, false); err != ErrInvalidRange {
		t.Errorf("stop < start: err = %v, want ErrInvalidRange", err)
	}
}
