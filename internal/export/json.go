package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// FrameData is the JSON form of a frame.
type FrameData struct {
	Variable string           `json:"variable"`
	Step     int              `json:"step"`
	Steps    int              `json:"steps"`
	Range    field.Range      `json:"range"`
	Points   []render.Point   `json:"points"`
	Segments []render.Segment `json:"segments"`
	Quads    []render.Quad    `json:"quads"`
	Sensors  []sensor.Sensor  `json:"sensors,omitempty"`
}

func NewFrameData(f *render.Frame, sensors []sensor.Sensor) FrameData {
	return FrameData{
		Variable: f.Variable,
		Step:     f.Step,
		Steps:    f.Steps,
		Range:    f.Range,
		Points:   f.Points,
		Segments: f.Segments,
		Quads:    f.Quads,
		Sensors:  sensors,
	}
}

func ExportJSON(path string, f *render.Frame, sensors []sensor.Sensor) error {
	if f == nil {
		return render.ErrNotLoaded
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, f, sensors)
}

func WriteJSON(w io.Writer, f *render.Frame, sensors []sensor.Sensor) error {
	if f == nil {
		return render.ErrNotLoaded
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewFrameData(f, sensors))
}
