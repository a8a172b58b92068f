package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// number parses a numeric cell. With decimalComma set "1,5" reads as 1.5.
type number struct {
	decimalComma bool
}

func (n number) value(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyCell
	}
	if n.decimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return v, nil
}

// id accepts integral floats such as "625.0", which spreadsheets produce for
// id columns.
func (n number) id(s string) (int, error) {
	v, err := n.value(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is not an id", ErrBadNumber, s)
	}
	return int(v), nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string, from, to int) bool {
	for i := from; i < to; i++ {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}
