package sensor

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

var (
	ErrNoTimeColumn = errors.New("sensor: no time column")
	ErrEmptyTable   = errors.New("sensor: empty table")
)

// Series is one sensor's recording.
type Series struct {
	Name   string    `json:"name"`
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

func (s Series) Len() int { return len(s.Values) }

type Stats struct {
	Min, Max, Mean, RMS float64
}

func (s Series) Stats() Stats {
	if len(s.Values) == 0 {
		return Stats{}
	}
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum, sq float64
	for _, v := range s.Values {
		st.Min = min(st.Min, v)
		st.Max = max(st.Max, v)
		sum += v
		sq += v * v
	}
	n := float64(len(s.Values))
	st.Mean = sum / n
	st.RMS = math.Sqrt(sq / n)
	return st
}

// ParseTable reads a sheet whose first row is a header with a "Time" column
// followed by one column per sensor. A row whose time cell does not parse is
// skipped; a bad sensor cell drops only that sample.
func ParseTable(rows [][]string, num ParseFunc) ([]Series, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	if num == nil {
		num = ParseFloat
	}
	header := rows[0]
	timeCol := -1
	for i, h := range header {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(h)), "time") {
			timeCol = i
			break
		}
	}
	if timeCol < 0 {
		return nil, ErrNoTimeColumn
	}

	var out []Series
	cols := make(map[int]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == timeCol || name == "" {
			continue
		}
		cols[i] = len(out)
		out = append(out, Series{Name: name})
	}

	for _, row := range rows[1:] {
		if timeCol >= len(row) {
			continue
		}
		t, err := num(row[timeCol])
		if err != nil {
			continue
		}
		for c, idx := range cols {
			if c >= len(row) {
				continue
			}
			v, err := num(row[c])
			if err != nil {
				continue
			}
			out[idx].Times = append(out[idx].Times, t)
			out[idx].Values = append(out[idx].Values, v)
		}
	}
	return out, nil
}

// Find returns the series with the given name, ignoring case.
func Find(series []Series, name string) (Series, bool) {
	for _, s := range series {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Series{}, false
}

// Plot draws a series as an ASCII chart.
func Plot(s Series, width, height int) string {
	if len(s.Values) == 0 {
		return ""
	}
	st := s.Stats()
	caption := fmt.Sprintf("%s  min %.4g  max %.4g  rms %.4g", s.Name, st.Min, st.Max, st.RMS)
	return asciigraph.Plot(s.Values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}

// PlotMany overlays several value series that share an x axis.
func PlotMany(caption string, width, height int, values ...[]float64) string {
	var data [][]float64
	for _, v := range values {
		if len(v) > 0 {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
