// Package sensor describes the instruments mounted on the bridge: where they
// sit, what kind they are, and the time series they recorded.
package sensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/bridgeviz/internal/colormap"
	"github.com/san-kum/bridgeviz/internal/mesh"
)

var (
	ErrUnknownKind   = errors.New("sensor: unknown sensor kind")
	ErrShortRecord   = errors.New("sensor: record has too few columns")
	ErrBadCoordinate = errors.New("sensor: invalid coordinate")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindAccelerometer
	KindStrainGauge
	KindCamera
	KindDisplacement
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindAccelerometer: "accelerometer",
	KindStrainGauge:   "strain gauge",
	KindCamera:        "camera",
	KindDisplacement:  "displacement",
}

func (k Kind) String() string { return kindNames[k] }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, b)
}

var (
	Orange  = colormap.RGB{R: 1, G: 0.5, B: 0}
	Magenta = colormap.RGB{R: 1, G: 0, B: 1}
	Gray    = colormap.RGB{R: 0.5, G: 0.5, B: 0.5}
)

// Color is the overlay color used for markers of this kind.
func (k Kind) Color() colormap.RGB {
	switch k {
	case KindAccelerometer:
		return colormap.Red
	case KindStrainGauge:
		return colormap.Green
	case KindCamera:
		return Orange
	case KindDisplacement:
		return Magenta
	}
	return Gray
}

// Classify derives the kind from a sensor name such as "Accelerometer 3".
func Classify(name string) Kind {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "accelerometer"):
		return KindAccelerometer
	case strings.Contains(n, "strain"):
		return KindStrainGauge
	case strings.Contains(n, "camera"):
		return KindCamera
	case strings.Contains(n, "displacement"):
		return KindDisplacement
	}
	return KindUnknown
}

type Sensor struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Pos         mesh.Vec3 `json:"pos"`
	Kind        Kind      `json:"kind"`
}

func (s Sensor) Color() colormap.RGB { return s.Kind.Color() }

// ParseFunc converts one cell to a number.
type ParseFunc func(string) (float64, error)

// ErrNotFinite rejects inf and nan cells.
var ErrNotFinite = errors.New("sensor: value is not finite")

// ParseFloat parses a cell with a dot decimal separator. Infinities and NaN
// are rejected.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotFinite, s)
	}
	return v, nil
}

// Parse reads a location record laid out as name, description, location, x,
// y, z. Trailing columns are ignored.
func Parse(rec []string, num ParseFunc) (Sensor, error) {
	if len(rec) < 6 {
		return Sensor{}, fmt.Errorf("%w: got %d", ErrShortRecord, len(rec))
	}
	if num == nil {
		num = ParseFloat
	}
	s := Sensor{
		Name:        strings.TrimSpace(rec[0]),
		Description: strings.TrimSpace(rec[1]),
		Location:    strings.TrimSpace(rec[2]),
		Kind:        Classify(rec[0]),
	}
	if s.Kind == KindUnknown {
		return Sensor{}, fmt.Errorf("%w: %q", ErrUnknownKind, s.Name)
	}
	var xyz [3]float64
	for i := range xyz {
		v, err := num(rec[3+i])
		if err != nil {
			return Sensor{}, fmt.Errorf("%w: %s column %d: %v", ErrBadCoordinate, s.Name, 4+i, err)
		}
		xyz[i] = v
	}
	s.Pos = mesh.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	if !s.Pos.IsFinite() {
		return Sensor{}, fmt.Errorf("%w: %s", ErrBadCoordinate, s.Name)
	}
	return s, nil
}

// Group splits sensors by kind, keeping input order within each kind.
func Group(sensors []Sensor) map[Kind][]Sensor {
	out := make(map[Kind][]Sensor)
	for _, s := range sensors {
		out[s.Kind] = append(out[s.Kind], s)
	}
	return out
}
