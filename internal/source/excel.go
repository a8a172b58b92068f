package source

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// ReadExcel reads geometry from l.Excel.Geometry and fields, sensors and
// sensor series from l.Excel.Data. When Data is empty everything comes from
// the geometry workbook.
func ReadExcel(l Layout, log *slog.Logger) (*Dataset, error) {
	x := l.Excel
	r := &reader{log: log}

	geo, err := excelize.OpenFile(x.Geometry)
	if err != nil {
		return nil, fmt.Errorf("open geometry workbook: %w", err)
	}
	defer geo.Close()

	data := geo
	if x.Data != "" && x.Data != x.Geometry {
		data, err = excelize.OpenFile(x.Data)
		if err != nil {
			return nil, fmt.Errorf("open data workbook: %w", err)
		}
		defer data.Close()
	}

	rows, err := sheetRows(geo, x.GeometrySheet)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{}
	if ds.Rows, err = r.connectivity(x, rows); err != nil {
		return nil, err
	}
	if ds.Nodes, err = r.nodes(x, rows); err != nil {
		return nil, err
	}

	rows, err = sheetRows(data, x.FieldSheet)
	if err != nil {
		return nil, err
	}
	if ds.Fields, err = r.fields(l, rows); err != nil {
		return nil, err
	}

	if x.SensorSheet != "" {
		rows, err := sheetRows(data, x.SensorSheet)
		switch {
		case errors.Is(err, ErrMissingSheet):
			log.Warn("sensor sheet not found", slog.String("sheet", x.SensorSheet))
		case err != nil:
			return nil, err
		default:
			ds.Sensors = r.sensors(x.SensorSheet, x.SensorRow, rows)
		}
	}
	for _, name := range x.SeriesSheets {
		rows, err := sheetRows(data, name)
		if err != nil {
			log.Warn("sensor series sheet not readable", slog.String("sheet", name), slog.Any("error", err))
			continue
		}
		series, err := sensor.ParseTable(rows, r.num.value)
		if err != nil {
			log.Warn("sensor series sheet not readable", slog.String("sheet", name), slog.Any("error", err))
			continue
		}
		ds.Series = append(ds.Series, series...)
	}

	ds.Skipped = r.skipped
	return ds, nil
}

func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingSheet, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// column converts a column letter to a 0-based index.
func column(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMissingColumn, err)
	}
	return n - 1, nil
}

// window returns the rows from the 1-based first row, at most limit of them
// when limit is positive, with the 1-based number of the first one.
func window(rows [][]string, first, limit int) ([][]string, int) {
	start := max(first-1, 0)
	if start >= len(rows) {
		return nil, first
	}
	end := len(rows)
	if limit > 0 {
		end = min(end, start+limit)
	}
	return rows[start:end], start + 1
}

// connectivity reads element, node1..node4 blocks.
func (r *reader) connectivity(x ExcelLayout, rows [][]string) ([]mesh.ConnectivityRow, error) {
	c0, err := column(x.ConnCol)
	if err != nil {
		return nil, err
	}
	block, first := window(rows, x.ConnRow, x.MaxRows)
	var out []mesh.ConnectivityRow
	for i, row := range block {
		if blank(row, c0, c0+5) {
			continue
		}
		cr, err := r.connRow(row, c0)
		if err != nil {
			r.skip(x.GeometrySheet, first+i, err)
			continue
		}
		out = append(out, cr)
	}
	return out, nil
}

func (r *reader) connRow(row []string, c0 int) (mesh.ConnectivityRow, error) {
	var cr mesh.ConnectivityRow
	el, err := r.num.id(cell(row, c0))
	if err != nil {
		return cr, fmt.Errorf("element: %w", err)
	}
	cr.Element = el
	for k := range 4 {
		s := cell(row, c0+1+k)
		if s == "" {
			continue
		}
		id, err := r.num.id(s)
		if err != nil {
			return cr, fmt.Errorf("node %d: %w", k+1, err)
		}
		cr.Nodes[k], cr.Has[k] = id, true
	}
	return cr, nil
}

// nodes reads id, x, y, z blocks.
func (r *reader) nodes(x ExcelLayout, rows [][]string) ([]mesh.Node, error) {
	c0, err := column(x.NodeCol)
	if err != nil {
		return nil, err
	}
	block, first := window(rows, x.NodeRow, x.MaxRows)
	var out []mesh.Node
	for i, row := range block {
		if blank(row, c0, c0+4) {
			continue
		}
		n, err := r.node(cell(row, c0), cell(row, c0+1), cell(row, c0+2), cell(row, c0+3))
		if err != nil {
			r.skip(x.GeometrySheet, first+i, err)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *reader) node(id, x, y, z string) (mesh.Node, error) {
	n := mesh.Node{}
	var err error
	if n.ID, err = r.num.id(id); err != nil {
		return n, fmt.Errorf("node id: %w", err)
	}
	coords := [3]*float64{&n.Pos.X, &n.Pos.Y, &n.Pos.Z}
	for k, s := range [3]string{x, y, z} {
		if *coords[k], err = r.num.value(s); err != nil {
			return n, fmt.Errorf("node %d coordinate %d: %w", n.ID, k+1, err)
		}
	}
	return n, nil
}

// fields reads the node id column followed by the variable blocks. The node id
// sits in the column just left of FieldCol.
func (r *reader) fields(l Layout, rows [][]string) (*field.Set, error) {
	x := l.Excel
	f0, err := column(x.FieldCol)
	if err != nil {
		return nil, err
	}
	if f0 == 0 {
		return nil, fmt.Errorf("%w: field column %s leaves no room for node ids", ErrMissingColumn, x.FieldCol)
	}
	vars, steps := l.variables(), l.steps()
	b := newFieldBuilder(vars, steps)
	block, first := window(rows, x.FieldRow, x.MaxRows)

	for i, row := range block {
		if blank(row, f0-1, f0+len(vars)*steps) {
			continue
		}
		node, err := r.num.id(cell(row, f0-1))
		if err != nil {
			r.skip(x.FieldSheet, first+i, fmt.Errorf("node id: %w", err))
			continue
		}
		if b.has(vars[0], node) {
			r.skip(x.FieldSheet, first+i, fmt.Errorf("%w: %d", mesh.ErrDuplicateNode, node))
			continue
		}
		var bad error
		for t := range steps {
			for p, name := range vars {
				s := cell(row, f0+p+t*len(vars))
				v, err := r.num.value(s)
				if err != nil && s != "" && bad == nil {
					bad = fmt.Errorf("%s step %d: %w", name, t, err)
				}
				b.set(name, node, t, v)
			}
		}
		if bad != nil {
			r.log.Warn("unreadable field values read as 0",
				slog.Any("error", &RowError{Sheet: x.FieldSheet, Row: first + i, Err: bad}))
		}
	}
	return b.build()
}

func (r *reader) sensors(sheet string, firstRow int, rows [][]string) []sensor.Sensor {
	block, first := window(rows, firstRow, 0)
	var out []sensor.Sensor
	for i, row := range block {
		if blank(row, 0, 6) {
			continue
		}
		s, err := sensor.Parse(row, r.num.value)
		if err != nil {
			r.skip(sheet, first+i, err)
			continue
		}
		out = append(out, s)
	}
	return out
}
