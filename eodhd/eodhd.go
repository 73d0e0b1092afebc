// Package eodhd fetches end-of-day prices from the EODHD HTTP API and
// exposes them through the market data provider contract. Responses are
// cached on disk with a key that expires daily, so repeated runs on the same
// day never hit the API twice for the same request.
package eodhd

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/marketdata"
	"github.com/profit-tool/profit/series"
)

const defaultBaseURL = "https://eodhd.com/api"

// Client queries the EODHD end-of-day endpoint. It implements the market
// data Provider contract.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// New returns a client using the given API key and a daily-expiring disk
// cache for all requests.
func New(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  daily(),
		log:     log.With().Str("component", "eodhd").Logger(),
	}
}

// ticker maps an instrument to the EODHD ticker grammar: "EURCHF.FOREX" for
// currency pairs, "SYM.EXCHANGE" for stocks and "SYM.INDX" for indices.
func ticker(inst marketdata.Instrument) (string, error) {
	switch inst.Kind {
	case marketdata.Forex:
		return inst.Symbol + inst.Currency + ".FOREX", nil
	case marketdata.Stock:
		return inst.Symbol + "." + inst.Exchange, nil
	case marketdata.Index:
		return inst.Symbol + ".INDX", nil
	}
	return "", fmt.Errorf("no eodhd ticker for instrument %s", inst)
}

// FetchSeries returns daily observations for the instrument between from and
// to, bounds included. Forex pairs use the open of the following day as the
// close: the close reported by the API mirrors the open most of the time and
// cannot be trusted.
func (c *Client) FetchSeries(ctx context.Context, inst marketdata.Instrument, from, to date.Date) (*series.Series, error) {
	if to.After(date.Today()) {
		return nil, fmt.Errorf("%w: %s", marketdata.ErrFutureDateRequested, to)
	}
	tic, err := ticker(inst)
	if err != nil {
		return nil, err
	}

	fetchFrom := from
	if inst.Kind == marketdata.Forex {
		// The day shift below needs one extra observation at the end of the
		// range; the range start moves with it.
		fetchFrom = from.Add(1)
	}
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		c.baseURL, url.PathEscape(tic), url.QueryEscape(c.apiKey), fetchFrom, to)

	var payload any
	if err := c.jwget(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", marketdata.ErrProviderUnavailable, inst, err)
	}

	field := "adjusted_close"
	if inst.Kind == marketdata.Forex {
		field = "open"
	}
	days, values, err := extract(payload, field)
	if err != nil {
		return nil, fmt.Errorf("decoding eodhd response for %s: %w", inst, err)
	}

	out := series.New()
	for i, on := range days {
		if inst.Kind == marketdata.Forex {
			on = on.Add(-1)
		}
		out.Append(on, values[i])
	}
	c.log.Debug().Str("ticker", tic).Int("observations", out.Len()).Msg("fetched end-of-day data")
	return out, nil
}

// extract pulls the date and value columns out of the decoded JSON payload,
// an array of per-day objects.
func extract(payload any, field string) ([]date.Date, []float64, error) {
	jdates, err := jsonpath.Get("$[*].date", payload)
	if err != nil {
		return nil, nil, fmt.Errorf("no date column: %w", err)
	}
	jvalues, err := jsonpath.Get("$[*]."+field, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s column: %w", field, err)
	}

	rawDates, ok := jdates.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("date column is not a list")
	}
	rawValues, ok := jvalues.([]any)
	if !ok || len(rawValues) != len(rawDates) {
		return nil, nil, fmt.Errorf("%s column does not match the date column", field)
	}

	days := make([]date.Date, len(rawDates))
	values := make([]float64, len(rawValues))
	for i := range rawDates {
		s, ok := rawDates[i].(string)
		if !ok {
			return nil, nil, fmt.Errorf("date %v is not a string", rawDates[i])
		}
		on, err := date.Parse(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		v, ok := rawValues[i].(float64)
		if !ok {
			return nil, nil, fmt.Errorf("%s %v is not a number", field, rawValues[i])
		}
		days[i] = on
		values[i] = v
	}
	return days, values, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// diskCache implements a simple disk cache for HTTP responses. The cache
// key includes today's date, so entries expire every day.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	if cached, err := c.get(key, req); err == nil {
		return cached, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// cache write errors are ignored, the response is served either way
	c.put(key, resp)
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	// DumpResponse leaves resp.Body readable for the caller.
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// daily returns a client whose responses are cached until the end of the day.
func daily() *http.Client {
	return &http.Client{Transport: &diskCache{http.DefaultTransport}}
}
