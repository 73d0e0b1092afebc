package marketdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/profit-tool/profit/date"
	"github.com/profit-tool/profit/series"
)

// This file persists one price history per instrument in a line-oriented text
// file that is human-readable and git-friendly. The data section is fully
// regenerated from the merged series on every successful reconciliation;
// the header lines are preserved verbatim.

// ErrCorruptStore is returned when a storage file cannot be trusted:
// malformed lines, misordered dates, or a broken header/data layout.
// It is fatal; the run must not proceed on silently-truncated history.
var ErrCorruptStore = errors.New("marketdata: corrupt storage file")

// Storage file layout constants. Delimiter and date format are configurable
// here rather than hard-coded at the use sites.
const (
	Delimiter      = ";"
	FileDateFormat = date.Format

	headerPrefix      = "Header" + Delimiter
	interpolationKey  = "MAX_INTERPOLATION_DAYS"
	splitPrefix       = "Split" + Delimiter
	dataMarker        = "Data" + Delimiter
	defaultMaxInterpo = 7
)

// Split is a stock-split adjustment recorded in a storage file header.
// Provider data before On is divided by Ratio before reconciliation.
// Normal splits have Ratio > 1; reverse splits < 1.
type Split struct {
	On    date.Date
	Ratio decimal.Decimal
}

// History is the in-memory form of one instrument's storage file.
type History struct {
	Instrument Instrument
	// MaxInterpolationDays is a data-quality hint from the header: the
	// largest hole the file's maintainer considers safe to interpolate.
	// It is descriptive and not enforced as a hard cutoff.
	MaxInterpolationDays int
	Splits               []Split
	Series               *series.Series

	header []string // header lines, kept verbatim for rewriting
}

// Store is the handle over a directory of per-instrument storage files.
// It is the sole writer of that directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore returns a store over dir, creating the directory if needed.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create storage directory %q: %w", dir, err)
	}
	return &Store{dir: dir, log: log.With().Str("component", "store").Logger()}, nil
}

func (s *Store) path(inst Instrument) (string, error) {
	name, err := inst.Filename()
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Load reads the history of an instrument. A missing file is created with a
// header-only content and an empty data section; the first reconciliation
// populates it. The stored dates are re-validated on every load to protect
// against external corruption.
func (s *Store) Load(inst Instrument) (*History, error) {
	path, err := s.path(inst)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info().Str("instrument", inst.String()).Msg("no storage file yet, creating an empty one")
		h := newHistory(inst)
		if err := s.Write(h); err != nil {
			return nil, err
		}
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open storage file %q: %w", path, err)
	}
	defer f.Close()

	h, err := decodeHistory(inst, path, f)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func newHistory(inst Instrument) *History {
	id := inst.String()
	return &History{
		Instrument:           inst,
		MaxInterpolationDays: defaultMaxInterpo,
		Series:               series.New(),
		header: []string{
			headerPrefix + id,
			fmt.Sprintf("%s=%d", interpolationKey, defaultMaxInterpo),
			dataMarker,
		},
	}
}

// decodeHistory parses one storage file. path is for error messages only.
func decodeHistory(inst Instrument, path string, r io.Reader) (*History, error) {
	h := &History{Instrument: inst, Series: series.New()}

	scanner := bufio.NewScanner(r)
	lineNr := 0
	inData := false
	var days []date.Date
	var vals []float64

	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case lineNr == 1:
			if !strings.HasPrefix(line, headerPrefix) {
				return nil, corrupt(path, lineNr, "file must start with the header line")
			}
			h.header = append(h.header, line)

		case !inData && strings.HasPrefix(line, interpolationKey+"="):
			hint, err := strconv.Atoi(strings.TrimPrefix(line, interpolationKey+"="))
			if err != nil || hint < 0 {
				return nil, corrupt(path, lineNr, "invalid interpolation hint")
			}
			h.MaxInterpolationDays = hint
			h.header = append(h.header, line)

		case !inData && strings.HasPrefix(line, splitPrefix):
			split, err := parseSplit(line)
			if err != nil {
				return nil, corrupt(path, lineNr, err.Error())
			}
			h.Splits = append(h.Splits, split)
			h.header = append(h.header, line)

		case !inData && line == dataMarker:
			if len(h.header) < 2 {
				return nil, corrupt(path, lineNr, "data section before interpolation hint")
			}
			h.header = append(h.header, line)
			inData = true

		case inData:
			on, v, err := parseDataLine(line)
			if err != nil {
				return nil, corrupt(path, lineNr, err.Error())
			}
			days = append(days, on)
			vals = append(vals, v)

		default:
			return nil, corrupt(path, lineNr, fmt.Sprintf("unexpected line %q before data section", line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read storage file %q: %w", path, err)
	}
	if !inData {
		return nil, corrupt(path, lineNr, "missing data section marker")
	}

	if len(days) > 0 && !series.Ordered(days, false) {
		return nil, corrupt(path, 0, "dates are not strictly increasing")
	}
	for i, on := range days {
		h.Series.Append(on, vals[i])
	}
	return h, nil
}

func parseSplit(line string) (Split, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != 3 {
		return Split{}, fmt.Errorf("split line must be Split%sdate%sratio", Delimiter, Delimiter)
	}
	on, err := parseFileDate(fields[1])
	if err != nil {
		return Split{}, fmt.Errorf("invalid split date %q", fields[1])
	}
	ratio, err := decimal.NewFromString(fields[2])
	if err != nil || !ratio.IsPositive() {
		return Split{}, fmt.Errorf("invalid split ratio %q", fields[2])
	}
	return Split{On: on, Ratio: ratio}, nil
}

func parseDataLine(line string) (date.Date, float64, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != 2 {
		return date.Date{}, 0, fmt.Errorf("data line must be date%svalue", Delimiter)
	}
	on, err := parseFileDate(fields[0])
	if err != nil {
		return date.Date{}, 0, fmt.Errorf("invalid date %q", fields[0])
	}
	// Values go through decimal so the accepted grammar is the same one
	// Write produces.
	v, err := decimal.NewFromString(fields[1])
	if err != nil {
		return date.Date{}, 0, fmt.Errorf("invalid value %q", fields[1])
	}
	return on, v.InexactFloat64(), nil
}

func parseFileDate(s string) (date.Date, error) {
	t, err := time.Parse(FileDateFormat, s)
	if err != nil {
		return date.Date{}, err
	}
	return date.New(t.Date()), nil
}

func corrupt(path string, line int, msg string) error {
	if line > 0 {
		return fmt.Errorf("%w: %s line %d: %s", ErrCorruptStore, path, line, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrCorruptStore, path, msg)
}

// Write rewrites the instrument's storage file: header lines verbatim, then
// a fully regenerated data section in strictly increasing date order.
func (s *Store) Write(h *History) error {
	path, err := s.path(h.Instrument)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, line := range h.header {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for on, v := range h.Series.Values() {
		b.WriteString(on.Format(FileDateFormat))
		b.WriteString(Delimiter)
		b.WriteString(decimal.NewFromFloat(v).String())
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("cannot write storage file %q: %w", path, err)
	}
	return nil
}
