// Package storage keeps exported animations on disk. Each run is a directory
// holding metadata.json and values.csv with every primitive's value at every
// step of every variable.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/render"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir is the directory of a run, for files written alongside it.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Source    string                   `json:"source"`
	Timestamp time.Time                `json:"timestamp"`
	Variables []string                 `json:"variables"`
	Steps     int                      `json:"steps"`
	Nodes     int                      `json:"nodes"`
	Edges     int                      `json:"edges"`
	Quads     int                      `json:"quads"`
	Ranges    map[string][]field.Range `json:"ranges"`
}

// Value is one row of values.csv.
type Value struct {
	Variable string
	Step     int
	Kind     string
	ID       int
	Value    float64
}

const (
	KindNode = "node"
	KindEdge = "edge"
	KindQuad = "quad"
)

// Save renders every variable at every step and stores the result. The
// renderer is returned to its current variable and step afterwards.
func (s *Store) Save(name, source string, r *render.Renderer) (string, error) {
	if !r.Loaded() {
		return "", render.ErrNotLoaded
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := s.Dir(runID)
	for i := 2; ; i++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d_%d", name, time.Now().Unix(), i)
		runDir = s.Dir(runID)
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	variable, step := r.Variable(), r.Step()
	defer func() {
		_ = r.SetActiveVariable(variable)
		_ = r.SetTimeStep(step)
	}()

	csvFile, err := os.Create(filepath.Join(runDir, "values.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"variable", "step", "kind", "id", "value", "color"}); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Source:    source,
		Timestamp: time.Now(),
		Variables: r.Variables(),
		Steps:     r.Steps(),
		Ranges:    make(map[string][]field.Range),
	}
	if g := r.Geometry(); g != nil {
		meta.Nodes, meta.Edges, meta.Quads = len(g.Nodes), len(g.Edges), len(g.Quads)
	}

	for _, v := range meta.Variables {
		if err := r.SetActiveVariable(v); err != nil {
			return "", err
		}
		for t := 0; t < meta.Steps; t++ {
			if err := r.SetTimeStep(t); err != nil {
				return "", err
			}
			f := r.Frame()
			meta.Ranges[v] = append(meta.Ranges[v], f.Range)
			if err := writeFrame(w, f); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runID, nil
}

func writeFrame(w *csv.Writer, f *render.Frame) error {
	step := strconv.Itoa(f.Step)
	row := func(kind string, id int, v float64, hex string) error {
		return w.Write([]string{f.Variable, step, kind, strconv.Itoa(id), strconv.FormatFloat(v, 'g', -1, 64), hex})
	}
	for _, p := range f.Points {
		if err := row(KindNode, p.Node, p.Value, p.Color.Hex()); err != nil {
			return err
		}
	}
	for _, s := range f.Segments {
		if err := row(KindEdge, s.Element, s.Value, s.Color.Hex()); err != nil {
			return err
		}
	}
	for _, q := range f.Quads {
		if err := row(KindQuad, q.Element, q.Value, q.Color.Hex()); err != nil {
			return err
		}
	}
	return nil
}

// List returns stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadValues reads values.csv. Rows that do not parse are skipped.
func (s *Store) LoadValues(runID string) ([]Value, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), "values.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Value{}, nil
	}

	values := make([]Value, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}
		step, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		id, err := strconv.Atoi(rec[3])
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			continue
		}
		values = append(values, Value{Variable: rec[0], Step: step, Kind: rec[2], ID: id, Value: v})
	}
	return values, nil
}
