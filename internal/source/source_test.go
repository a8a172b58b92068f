package source

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

func setRow(t *testing.T, f *excelize.File, sheet, col string, row int, vals ...any) {
	t.Helper()
	c, err := excelize.ColumnNameToNumber(col)
	require.NoError(t, err)
	addr, err := excelize.CoordinatesToCellName(c, row)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet, addr, &vals))
}

// writeWorkbook lays out a two-variable, two-step model in the original
// single-sheet geometry format plus the data sheets.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	// connectivity from row 5, nodes from row 6
	setRow(t, f, "Sheet1", "A", 5, 1, 1, 2)
	setRow(t, f, "Sheet1", "A", 6, 2, 1, 2, 3, 4)
	setRow(t, f, "Sheet1", "A", 7, 3, 2, 99)
	setRow(t, f, "Sheet1", "A", 8, "x", 1, 2)
	setRow(t, f, "Sheet1", "A", 9, 5, 1, 2, 3)
	setRow(t, f, "Sheet1", "I", 6, 1, 0, 0, 0)
	setRow(t, f, "Sheet1", "I", 7, 2, 1, 0, 0)
	setRow(t, f, "Sheet1", "I", 8, 3, 1, 1, 0)
	setRow(t, f, "Sheet1", "I", 9, 4, 0, 1, "n/a")
	setRow(t, f, "Sheet1", "I", 10, 4, 0, 1, 0)
	setRow(t, f, "Sheet1", "I", 11, 2, 5, 5, 5)

	_, err := f.NewSheet("Variables for 5 Timesteps")
	require.NoError(t, err)
	// node, A0 B0 A1 B1
	setRow(t, f, "Variables for 5 Timesteps", "A", 1, "Node", "A_1", "B_1", "A_2", "B_2")
	setRow(t, f, "Variables for 5 Timesteps", "A", 2, 1, 0, 5, 10, 50)
	setRow(t, f, "Variables for 5 Timesteps", "A", 3, 2, 0, 6, 20, 60)
	setRow(t, f, "Variables for 5 Timesteps", "A", 4, 3, 1, 7, "oops", 70)

	_, err = f.NewSheet("Sensor Location")
	require.NoError(t, err)
	setRow(t, f, "Sensor Location", "A", 2, "Sensors", "Descriptions", "Location", "x(m)", "y(m)", "z(m)", "Color")
	setRow(t, f, "Sensor Location", "A", 3, "Accelerometer 1", "vertical", "mid span", 0.5, 0, 0, "Red")
	setRow(t, f, "Sensor Location", "A", 4, "Thermometer", "", "", 0, 0, 0, "")

	_, err = f.NewSheet("Accelerometer Data")
	require.NoError(t, err)
	setRow(t, f, "Accelerometer Data", "A", 1, "Time (s)", "Accelerometer 1")
	setRow(t, f, "Accelerometer Data", "A", 2, 0, 0.1)
	setRow(t, f, "Accelerometer Data", "A", 3, 0.01, 0.2)

	path := filepath.Join(t.TempDir(), "bridge.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func excelLayout(path string) Layout {
	l := DefaultLayout()
	l.Variables = []string{"A", "B"}
	l.Steps = 2
	l.Excel.Geometry = path
	l.Excel.Data = ""
	l.Excel.SeriesSheets = []string{"Accelerometer Data", "Strain Gauge Data"}
	return l
}

func TestReadExcel(t *testing.T) {
	path := writeWorkbook(t)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	ds, err := Open(excelLayout(path), log)
	require.NoError(t, err)

	require.Len(t, ds.Nodes, 5, "duplicate node 4 is left for mesh.Build")
	assert.Equal(t, mesh.Vec3{X: 1, Y: 1}, ds.Nodes[2].Pos)

	require.Len(t, ds.Rows, 4)
	assert.Equal(t, mesh.EdgeRow(1, 1, 2), ds.Rows[0])
	assert.Equal(t, mesh.QuadRow(2, 1, 2, 3, 4), ds.Rows[1])

	assert.Equal(t, []string{"A", "B"}, ds.Fields.Variables())
	assert.Equal(t, 2, ds.Fields.Steps())
	b, err := ds.Fields.Get("B")
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 60}, b[2])
	a, _ := ds.Fields.Get("A")
	assert.Equal(t, []float64{1, 0}, a[3], "unparseable value reads as 0")

	require.Len(t, ds.Sensors, 1)
	assert.Equal(t, sensor.KindAccelerometer, ds.Sensors[0].Kind)
	require.Len(t, ds.Series, 1)
	assert.Equal(t, []float64{0.1, 0.2}, ds.Series[0].Values)

	// bad element id, bad coordinate, unknown sensor kind
	assert.Equal(t, 3, ds.Skipped)
	assert.Contains(t, logs.String(), "Sheet1 row 8")
	assert.Contains(t, logs.String(), "Strain Gauge Data")
}

func TestReadExcelIntoRenderer(t *testing.T) {
	ds, err := Open(excelLayout(writeWorkbook(t)), nil)
	require.NoError(t, err)

	r := render.New()
	rep, err := ds.Load(r)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Nodes)
	assert.Equal(t, 1, rep.SkippedNodes)
	assert.Equal(t, 1, rep.DroppedElements, "edge 3 references node 99")
	assert.Equal(t, 1, rep.SkippedRows, "triangle 5 is unsupported")

	f := r.Frame()
	require.Len(t, f.Segments, 1)
	require.Len(t, f.Quads, 1)
	assert.Equal(t, "A", f.Variable)
}

func TestReadExcelErrors(t *testing.T) {
	_, err := Open(excelLayout(filepath.Join(t.TempDir(), "missing.xlsx")), nil)
	assert.Error(t, err)

	l := excelLayout(writeWorkbook(t))
	l.Excel.FieldSheet = "Nope"
	_, err = Open(l, nil)
	assert.ErrorIs(t, err, ErrMissingSheet)

	l = excelLayout(writeWorkbook(t))
	l.Excel.FieldCol = "A"
	_, err = Open(l, nil)
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Open(Layout{Format: "parquet"}, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.csv",
		"NODE_number;x;y;z;Element1;Element2;Element3;Element4;U2_1;U2_2",
		"1;0;0;0;1;2;;;0,5;1,5",
		"2;1,5;0;0;2;3;4;1;2;",
		"3;1,5;1;0;;;;;x;1",
		"4;0;1;;1;bad;;;;",
	)
	writeFile(t, dir, "heat.csv",
		"NODES_1;U1_1;U1_2",
		"1;10;20",
		"2;30;40",
	)
	writeFile(t, dir, "sensors.csv",
		"Sensors;Descriptions;Location;x;y;z",
		"Camera 1;;abutment;0;0;1,25",
	)
	writeFile(t, dir, "series.csv",
		"Time (s);Camera 1",
		"0;1",
		"0,5;2",
	)

	l := DefaultLayout()
	l.Format = FormatCSV
	l.Variables = nil
	l.Steps = 0
	l.CSV = CSVLayout{Nodes: "nodes.csv", Heatmap: "heat.csv", Sensors: "sensors.csv", Series: "series.csv", Separator: ";", DecimalComma: true}

	ds, err := Open(l.WithBase(dir), nil)
	require.NoError(t, err)

	require.Len(t, ds.Nodes, 3, "node 4 has no z")
	assert.Equal(t, 1.5, ds.Nodes[1].Pos.X)

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, mesh.ConnectivityRow{Element: 1, Nodes: [4]int{1, 2}, Has: [4]bool{true, true}}, ds.Rows[0])
	assert.Equal(t, mesh.QuadRow(2, 2, 3, 4, 1), ds.Rows[1])

	assert.Equal(t, []string{"U2", "U1"}, ds.Fields.Variables())
	assert.Equal(t, 2, ds.Fields.Steps())
	u2, _ := ds.Fields.Get("U2")
	assert.Equal(t, []float64{0.5, 1.5}, u2[1])
	assert.Equal(t, []float64{2, 0}, u2[2])
	assert.Equal(t, []float64{0, 1}, u2[3])
	u1, _ := ds.Fields.Get("U1")
	assert.Equal(t, []float64{30, 40}, u1[2])

	require.Len(t, ds.Sensors, 1)
	assert.Equal(t, 1.25, ds.Sensors[0].Pos.Z)
	require.Len(t, ds.Series, 1)
	assert.Equal(t, []float64{0, 0.5}, ds.Series[0].Times)

	assert.Equal(t, 2, ds.Skipped)
}

func TestNonFiniteFieldCellsReadAsZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.csv",
		"NODE_number;x;y;z;Element1;Element2;Element3;Element4;U1_1",
		"1;0;0;0;1;2;;;0",
		"2;1;0;0;;;;;inf",
		"3;2;0;0;;;;;nan",
	)

	l := DefaultLayout()
	l.Format = FormatCSV
	l.Variables = nil
	l.Steps = 0
	l.CSV = CSVLayout{Nodes: "nodes.csv", Separator: ";", DecimalComma: true}

	ds, err := Open(l.WithBase(dir), nil)
	require.NoError(t, err)

	u1, err := ds.Fields.Get("U1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, u1.At(2, 0))
	assert.Equal(t, 0.0, u1.At(3, 0))

	r := render.New()
	_, err = ds.Load(r)
	require.NoError(t, err)
	f := r.Frame()
	assert.Equal(t, -0.5, f.Range.Min)
	assert.Equal(t, 0.5, f.Range.Max)
	for _, p := range f.Points {
		assert.False(t, math.IsNaN(p.Color.G), "node %d", p.Node)
	}

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(f))
}

func TestReadCSVMissingColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nodes.csv", "id;x;y", "1;0;0")
	l := DefaultLayout()
	l.Format = FormatCSV
	l.CSV.Nodes = "nodes.csv"

	_, err := Open(l.WithBase(dir), nil)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDemo(t *testing.T) {
	l := DefaultLayout()
	l.Format = FormatDemo
	ds, err := Open(l, nil)
	require.NoError(t, err)

	r := render.New()
	rep, err := ds.Load(r)
	require.NoError(t, err)
	assert.Zero(t, rep.DroppedElements)
	assert.Zero(t, rep.SkippedNodes)
	assert.Equal(t, len(ds.Rows), rep.Edges+rep.Quads)
	assert.Equal(t, DefaultVariables, r.Variables())
	assert.Equal(t, DefaultSteps, r.Steps())
	assert.NotEmpty(t, ds.Sensors)
}

func TestRowError(t *testing.T) {
	err := &RowError{Sheet: "Sheet1", Row: 7, Err: ErrBadNumber}
	assert.ErrorIs(t, err, ErrBadNumber)
	assert.Equal(t, "source: Sheet1 row 7: source: not a number", err.Error())
}

func TestNumber(t *testing.T) {
	n := number{decimalComma: true}
	v, err := n.value(" 1,25 ")
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	id, err := number{}.id("625.0")
	require.NoError(t, err)
	assert.Equal(t, 625, id)

	_, err = number{}.id("1.5")
	assert.ErrorIs(t, err, ErrBadNumber)
	_, err = number{}.value("")
	assert.ErrorIs(t, err, ErrEmptyCell)

	for _, s := range []string{"inf", "-Inf", "+infinity", "NaN"} {
		_, err = number{}.value(s)
		assert.ErrorIs(t, err, ErrBadNumber, s)
	}
}
