package source

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/sensor"
)

// nodeKeys are header names that hold the node id in CSV exports.
var nodeKeys = []string{"NODE_number", "NODES_1", "NODE", "NODES"}

var elementCols = []string{"Element1", "Element2", "Element3", "Element4"}

// fieldColumn matches "U2_3": variable U2 at 1-based step 3.
var fieldColumn = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)_([0-9]+)$`)

type table struct {
	name   string
	header map[string]int
	cols   []string
	rows   [][]string
}

func (t *table) col(name string) int {
	if i, ok := t.header[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

func (t *table) nodeCol() int {
	for _, k := range nodeKeys {
		if i := t.col(k); i >= 0 {
			return i
		}
	}
	return -1
}

func readTable(path string, sep string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if sep != "" {
		r.Comma = []rune(sep)[0]
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t := &table{name: path, header: make(map[string]int)}
	if len(records) == 0 {
		return t, nil
	}
	t.cols = records[0]
	for i, h := range t.cols {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.cols[i] = h
		if _, dup := t.header[strings.ToLower(h)]; !dup {
			t.header[strings.ToLower(h)] = i
		}
	}
	t.rows = records[1:]
	return t, nil
}

// ReadCSV reads the node file (ids, coordinates, element node lists and
// optionally field columns) and an optional heatmap file with more field
// columns. Elements carry no id in this format and are numbered by row.
func ReadCSV(l Layout, log *slog.Logger) (*Dataset, error) {
	c := l.CSV
	r := &reader{log: log, num: number{decimalComma: c.DecimalComma}}

	nodes, err := readTable(c.Nodes, c.Separator)
	if err != nil {
		return nil, err
	}
	tables := []*table{nodes}
	if c.Heatmap != "" {
		heat, err := readTable(c.Heatmap, c.Separator)
		if err != nil {
			return nil, err
		}
		tables = append(tables, heat)
	}

	ds := &Dataset{}
	if ds.Nodes, err = r.csvNodes(nodes); err != nil {
		return nil, err
	}
	ds.Rows = r.csvElements(nodes)

	vars, steps := discoverFields(tables)
	if len(l.Variables) > 0 {
		vars = l.Variables
	}
	if l.Steps > 0 || steps == 0 {
		steps = l.steps()
	}
	b := newFieldBuilder(vars, steps)
	for _, t := range tables {
		r.csvFields(t, b)
	}
	if ds.Fields, err = b.build(); err != nil {
		return nil, err
	}

	if c.Sensors != "" {
		t, err := readTable(c.Sensors, c.Separator)
		if err != nil {
			return nil, err
		}
		for i, row := range t.rows {
			if blank(row, 0, len(row)) {
				continue
			}
			s, err := sensor.Parse(row, r.num.value)
			if err != nil {
				r.skip(t.name, i+2, err)
				continue
			}
			ds.Sensors = append(ds.Sensors, s)
		}
	}
	if c.Series != "" {
		t, err := readTable(c.Series, c.Separator)
		if err != nil {
			return nil, err
		}
		ds.Series, err = sensor.ParseTable(append([][]string{t.cols}, t.rows...), r.num.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.name, err)
		}
	}

	ds.Skipped = r.skipped
	return ds, nil
}

func (r *reader) csvNodes(t *table) ([]mesh.Node, error) {
	id := t.nodeCol()
	x, y, z := t.col("x"), t.col("y"), t.col("z")
	if id < 0 || x < 0 || y < 0 || z < 0 {
		return nil, fmt.Errorf("%w: %s needs NODE_number, x, y and z", ErrMissingColumn, t.name)
	}
	var out []mesh.Node
	for i, row := range t.rows {
		if cell(row, id) == "" {
			continue
		}
		n, err := r.node(cell(row, id), cell(row, x), cell(row, y), cell(row, z))
		if err != nil {
			r.skip(t.name, i+2, err)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *reader) csvElements(t *table) []mesh.ConnectivityRow {
	idx := make([]int, len(elementCols))
	found := false
	for k, name := range elementCols {
		idx[k] = t.col(name)
		found = found || idx[k] >= 0
	}
	if !found {
		return nil
	}
	var out []mesh.ConnectivityRow
	for i, row := range t.rows {
		cr := mesh.ConnectivityRow{Element: len(out) + 1}
		empty, bad := true, error(nil)
		for k, c := range idx {
			s := cell(row, c)
			if s == "" {
				continue
			}
			empty = false
			v, err := r.num.id(s)
			if err != nil {
				bad = fmt.Errorf("%s: %w", elementCols[k], err)
				break
			}
			cr.Nodes[k], cr.Has[k] = v, true
		}
		switch {
		case empty:
		case bad != nil:
			r.skip(t.name, i+2, bad)
		default:
			out = append(out, cr)
		}
	}
	return out
}

// discoverFields lists variables in header order and the largest step index.
func discoverFields(tables []*table) ([]string, int) {
	var vars []string
	seen := make(map[string]bool)
	steps := 0
	for _, t := range tables {
		for _, h := range t.cols {
			name, step, ok := parseFieldColumn(h)
			if !ok {
				continue
			}
			if !seen[name] {
				seen[name] = true
				vars = append(vars, name)
			}
			steps = max(steps, step+1)
		}
	}
	return vars, steps
}

func parseFieldColumn(h string) (string, int, bool) {
	for _, k := range nodeKeys {
		if strings.EqualFold(h, k) {
			return "", 0, false
		}
	}
	m := fieldColumn.FindStringSubmatch(h)
	if m == nil {
		return "", 0, false
	}
	step, err := strconv.Atoi(m[2])
	if err != nil || step < 1 {
		return "", 0, false
	}
	return m[1], step - 1, true
}

func (r *reader) csvFields(t *table, b *fieldBuilder) {
	id := t.nodeCol()
	if id < 0 {
		r.log.Warn("no node column, ignoring field values", slog.String("file", t.name))
		return
	}
	type target struct {
		col  int
		name string
		step int
	}
	var targets []target
	for c, h := range t.cols {
		if name, step, ok := parseFieldColumn(h); ok {
			targets = append(targets, target{c, name, step})
		}
	}
	if len(targets) == 0 {
		return
	}
	for i, row := range t.rows {
		if cell(row, id) == "" {
			continue
		}
		node, err := r.num.id(cell(row, id))
		if err != nil {
			r.skip(t.name, i+2, fmt.Errorf("node id: %w", err))
			continue
		}
		for _, tg := range targets {
			s := cell(row, tg.col)
			if s == "" {
				b.set(tg.name, node, tg.step, 0)
				continue
			}
			v, err := r.num.value(s)
			if err != nil {
				r.log.Warn("unreadable field value read as 0",
					slog.Any("error", &RowError{Sheet: t.name, Row: i + 2, Err: fmt.Errorf("%s: %w", t.cols[tg.col], err)}))
			}
			b.set(tg.name, node, tg.step, v)
		}
	}
}
