package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/pulse"
)

// ReadASCII reads a tab-delimited table and stores column cols[i], divided
// by params[i].Gain, as channel params[i].Name. Fields that do not parse
// as numbers, header cells included, read as NaN. Blank lines and lines
// starting with '#' are skipped. Every row must have the same number of
// fields.
func ReadASCII(r io.Reader, params []Param, cols []int) (*pulse.Shot, error) {
	if len(params) != len(cols) {
		return nil, fmt.Errorf("load: %d channels for %d columns: %w", len(params), len(cols), core.ErrShapeMismatch)
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	table, width, err := readTable(r)
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		if c < 0 || c >= width {
			return nil, fmt.Errorf("load: channel %q column %d outside [0, %d): %w", params[i].Name, c, width, core.ErrInvalidArgument)
		}
	}

	shot := pulse.NewShot("")
	column := make([]float64, len(table))
	for i, p := range params {
		for row := range table {
			column[row] = table[row][cols[i]]
		}
		store(shot, p, column)
	}
	return shot, nil
}

func readTable(r io.Reader) ([][]float64, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var (
		table [][]float64
		width int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, 0, fmt.Errorf("load: %w: %w", err, core.ErrShapeMismatch)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("load: %w", err)
		}
		width = len(rec)
		row := make([]float64, len(rec))
		for i, field := range rec {
			row[i] = parseField(field)
		}
		table = append(table, row)
	}
	if len(table) == 0 {
		return nil, 0, fmt.Errorf("load: no rows: %w", core.ErrEmptyInput)
	}
	return table, width, nil
}

func parseField(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
