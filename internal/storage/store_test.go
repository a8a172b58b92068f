package storage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/bridgeviz/internal/field"
	"github.com/san-kum/bridgeviz/internal/mesh"
	"github.com/san-kum/bridgeviz/internal/render"
)

func loaded(t *testing.T) *render.Renderer {
	t.Helper()
	nodes := []mesh.Node{{ID: 1}, {ID: 2, Pos: mesh.Vec3{X: 1}}}
	set, err := field.NewSet(2)
	require.NoError(t, err)
	require.NoError(t, set.Add("U1", field.Field{1: {0, 10}, 2: {0, 20}}))
	require.NoError(t, set.Add("U2", field.Field{1: {1, 1}, 2: {3, 3}}))

	r := render.New()
	_, err = r.Load(slices.Values(nodes), slices.Values([]mesh.ConnectivityRow{mesh.EdgeRow(7, 1, 2)}), set)
	require.NoError(t, err)
	return r
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	r := loaded(t)
	require.NoError(t, r.SetTimeStep(1))

	runID, err := st.Save("test", "demo", r)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}
	assert.Equal(t, 1, r.Step(), "renderer state restored")
	assert.Equal(t, "U1", r.Variable())

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "test", meta.Name)
	assert.Equal(t, []string{"U1", "U2"}, meta.Variables)
	assert.Equal(t, 2, meta.Steps)
	assert.Equal(t, 2, meta.Nodes)
	assert.Equal(t, 1, meta.Edges)
	assert.Equal(t, []field.Range{{Min: -0.5, Max: 0.5}, {Min: 10, Max: 20}}, meta.Ranges["U1"])

	values, err := st.LoadValues(runID)
	require.NoError(t, err)
	// 2 variables x 2 steps x (2 nodes + 1 edge)
	require.Len(t, values, 12)
	assert.Contains(t, values, Value{Variable: "U1", Step: 1, Kind: KindEdge, ID: 7, Value: 15})
	assert.Contains(t, values, Value{Variable: "U2", Step: 0, Kind: KindNode, ID: 2, Value: 3})
}

func TestStoreSaveUnloaded(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Save("test", "", render.New())
	assert.ErrorIs(t, err, render.ErrNotLoaded)
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	r := loaded(t)
	first, err := st.Save("test", "", r)
	require.NoError(t, err)
	second, err := st.Save("test", "", r)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = New(filepath.Join(tmpDir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	require.NoError(t, st.Init())

	runID, err := st.Save("test", "", loaded(t))
	require.NoError(t, err)

	for _, name := range []string{"metadata.json", "values.csv"} {
		if _, err := os.Stat(filepath.Join(st.Dir(runID), name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadValues("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
