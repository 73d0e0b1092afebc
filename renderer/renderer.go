// Package renderer turns analysis results into markdown reports.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/profit-tool/profit"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/returns"
)

// SummaryMarkdown renders the whole-portfolio view: the total return over
// the analysis window and the holding period return of each asset.
func SummaryMarkdown(baseCurrency string, window profit.AnalysisWindow, total returns.Percent, holdings []profit.HoldingResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary %s", window.Range))
	doc.PlainText(fmt.Sprintf("All values in %s. Total return over the analysis window: %s", baseCurrency, total.SignedString()))

	doc.H2("Holding Period Returns")
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		ret := "unavailable"
		if h.Available {
			ret = h.Return.SignedString()
		}
		rows = append(rows, []string{h.Name, ret})
	}
	doc.Table(md.TableSet{
		Header: []string{"Asset", "Return"},
		Rows:   rows,
	})

	return doc.String()
}

// ReturnsMarkdown renders the per-block returns of each asset, one table
// per asset with the block end date and the block's return.
func ReturnsMarkdown(assetReturns []profit.AssetReturn, periodDays int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Returns per %d-Day Period", periodDays))
	for _, ar := range assetReturns {
		doc.H2(ar.Name)
		if len(ar.Periods) == 0 {
			doc.PlainText("No full period inside the analysis window.")
			continue
		}
		rows := make([][]string, 0, len(ar.Periods))
		for _, pr := range ar.Periods {
			rows = append(rows, []string{pr.End.String(), pr.Return.SignedString()})
		}
		doc.Table(md.TableSet{
			Header: []string{"Period End", "Return"},
			Rows:   rows,
		})
	}

	return doc.String()
}

// UpdateMarkdown renders the outcome of a market data update run.
func UpdateMarkdown(outcomes []marketdata.Outcome) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Market Data Update")
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		observations, span := "0", "-"
		if o.Available {
			observations = fmt.Sprintf("%d", o.Series.Len())
			if s, ok := o.Series.Span(); ok {
				span = s.String()
			}
		}
		rows = append(rows, []string{
			o.Instrument.String(),
			observations,
			span,
			fmt.Sprintf("%d", len(o.Discrepancies)),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Instrument", "Observations", "Range", "Discrepancies"},
		Rows:   rows,
	})

	return doc.String()
}
