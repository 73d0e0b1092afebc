package profit

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/returns"
	"github.com/profit-tool/profit/series"
)

type cannedProvider struct {
	data *series.Series
}

func (p *cannedProvider) FetchSeries(_ context.Context, _ marketdata.Instrument, from, to date.Date) (*series.Series, error) {
	return p.data.Crop(from, to)
}

type testAsset struct {
	name     string
	currency string
	data     returns.SeriesSet

	transactions []date.Date
	balances     []float64
	prices       []float64
	latestOn     date.Date
	latest       float64
	hasLatest    bool
}

func (a *testAsset) Name() string                       { return a.name }
func (a *testAsset) Currency() string                   { return a.currency }
func (a *testAsset) AnalysisData() returns.SeriesSet    { return a.data }
func (a *testAsset) TransactionDates() []date.Date      { return a.transactions }
func (a *testAsset) Balances() []float64                { return a.balances }
func (a *testAsset) Prices() []float64                  { return a.prices }
func (a *testAsset) Costs() []float64                   { return make([]float64, len(a.transactions)) }
func (a *testAsset) Payouts() []float64                 { return make([]float64, len(a.transactions)) }
func (a *testAsset) Inflows() []float64                 { return make([]float64, len(a.transactions)) }
func (a *testAsset) Outflows() []float64                { return make([]float64, len(a.transactions)) }
func (a *testAsset) Converter() returns.Converter       { return nil }
func (a *testAsset) LatestMarketPrice() (date.Date, float64, bool) {
	return a.latestOn, a.latest, a.hasLatest
}

func newTestPipeline(t *testing.T, provider marketdata.Provider) *Pipeline {
	t.Helper()
	cfg, err := LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage.Dir = t.TempDir()
	p, err := NewPipeline(cfg, provider, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func analysisSet(from string, values []float64) returns.SeriesSet {
	start := date.MustParse(from)
	n := len(values)
	dates := make([]date.Date, n)
	for i := range dates {
		dates[i] = start.Add(i)
	}
	return returns.SeriesSet{
		Dates:    dates,
		Values:   values,
		Costs:    make([]float64, n),
		Payouts:  make([]float64, n),
		Inflows:  make([]float64, n),
		Outflows: make([]float64, n),
	}
}

func TestPipelineUpdate(t *testing.T) {
	prices := series.New()
	prices.Append(date.MustParse("2025-01-02"), 100)
	prices.Append(date.MustParse("2025-01-08"), 105)
	p := newTestPipeline(t, &cannedProvider{data: prices})

	window, err := NewAnalysisWindow(date.MustParse("2025-01-01"), date.MustParse("2025-01-10"))
	if err != nil {
		t.Fatal(err)
	}

	insts := []marketdata.Instrument{
		marketdata.NewIndex("GSPC"),
		marketdata.NewForex("EUR", "CHF"),
	}
	outcomes, err := p.Update(context.Background(), insts, window)
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("Update() yields %d outcomes, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.Available {
			t.Errorf("outcome for %s not available, want available", o.Instrument)
		}
	}
}

func TestPipelineConverterForBaseCurrency(t *testing.T) {
	p := newTestPipeline(t, &cannedProvider{data: series.New()})
	window, _ := NewAnalysisWindow(date.MustParse("2025-01-01"), date.MustParse("2025-01-10"))

	conv, err := p.Converter(context.Background(), "CHF", window)
	if err != nil {
		t.Fatalf("Converter() unexpected error: %v", err)
	}
	if conv != nil {
		t.Errorf("Converter() for the base currency = %v, want nil", conv)
	}
}

func TestPipelineReturns(t *testing.T) {
	p := newTestPipeline(t, &cannedProvider{data: series.New()})

	a := &testAsset{name: "fund", currency: "CHF", data: analysisSet("2025-01-01", []float64{100, 110, 120, 130})}
	b := &testAsset{name: "account", currency: "CHF", data: analysisSet("2025-01-01", []float64{50, 50, 50, 50})}

	assetReturns, err := p.AssetReturns([]Asset{a, b}, 2)
	if err != nil {
		t.Fatalf("AssetReturns() unexpected error: %v", err)
	}
	if len(assetReturns) != 2 || len(assetReturns[0].Periods) != 2 {
		t.Fatalf("AssetReturns() = %+v, want 2 assets with 2 periods each", assetReturns)
	}
	if want := returns.Percent(10); !assetReturns[0].Periods[0].Return.Equal(want) {
		t.Errorf("first fund period = %v, want %v", assetReturns[0].Periods[0].Return, want)
	}

	total, err := p.PortfolioReturn([]Asset{a, b})
	if err != nil {
		t.Fatalf("PortfolioReturn() unexpected error: %v", err)
	}
	// Combined 150 -> 180.
	if want := returns.Percent(20); !total.Equal(want) {
		t.Errorf("PortfolioReturn() = %v, want %v", total, want)
	}
}

func TestPipelineHoldingPeriods(t *testing.T) {
	p := newTestPipeline(t, &cannedProvider{data: series.New()})
	today := date.Today()

	priced := &testAsset{
		name:         "fund",
		currency:     "CHF",
		transactions: []date.Date{today.Add(-30)},
		balances:     []float64{10},
		prices:       []float64{10},
		latestOn:     today,
		latest:       12,
		hasLatest:    true,
	}
	stale := &testAsset{
		name:         "dusty certificate",
		currency:     "CHF",
		transactions: []date.Date{today.Add(-30)},
		balances:     []float64{1},
		prices:       []float64{500},
	}

	results, err := p.HoldingPeriods([]Asset{priced, stale})
	if err != nil {
		t.Fatalf("HoldingPeriods() unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("HoldingPeriods() yields %d results, want 2", len(results))
	}
	if !results[0].Available || !results[0].Return.Equal(20) {
		t.Errorf("priced asset = %+v, want available 20.00%%", results[0])
	}
	if results[1].Available {
		t.Errorf("stale asset must be reported unavailable, got %+v", results[1])
	}
}
