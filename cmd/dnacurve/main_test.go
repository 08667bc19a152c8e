package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soypat/dnacurve/render"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// straightDoc is a straight Bezier segment along Z as a JSON descriptor.
func straightDoc(length float64) string {
	return fmt.Sprintf(`{"Bezier": {
	"start":    {"X": 0, "Y": 0, "Z": 0},
	"control1": {"X": 0, "Y": 0, "Z": %v},
	"control2": {"X": 0, "Y": 0, "Z": %v},
	"end":      {"X": 0, "Y": 0, "Z": %v}
}}`, length/3, 2*length/3, length)
}

var bezierDoc = straightDoc(10)

const torusDoc = `
[Torus]
theta0 = 0.0
half_nb_helix = 1
big_radius = 15.0
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	viper.Reset()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "dnacurve %s", strings.Join(args, " "))
	return out.String()
}

func writeDoc(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestDiscretizeCommand(t *testing.T) {
	path := writeDoc(t, "line.json", bezierDoc)
	var s summary
	require.NoError(t, json.Unmarshal([]byte(run(t, "discretize", "--points", path)), &s))
	require.Equal(t, 31, s.Nucleotides)
	require.Len(t, s.Axis, 31)
	require.InDelta(t, 10, s.Length, 1e-6)
	require.Zero(t, s.FullTurn)

	torus := writeDoc(t, "torus.toml", torusDoc)
	out := run(t, "discretize", "-f", "yaml", torus)
	require.Contains(t, out, "full_turn:")
}

func TestSTLCommand(t *testing.T) {
	path := writeDoc(t, "line.yaml", "Bezier:\n  start: {X: 0, Y: 0, Z: 0}\n  control1: {X: 1, Y: 0, Z: 0}\n  control2: {X: 2, Y: 0, Z: 0}\n  end: {X: 3, Y: 0, Z: 0}\n")
	dir := t.TempDir()
	stl := filepath.Join(dir, "line.stl")
	inst := filepath.Join(dir, "line.bin")
	out := run(t, "stl", "-o", stl, "--instances", inst, path)
	require.Contains(t, out, stl)

	f, err := os.Open(stl)
	require.NoError(t, err)
	defer f.Close()
	triangles, err := render.ReadSTL(f)
	require.NoError(t, err)
	require.NotEmpty(t, triangles)

	b, err := os.Open(inst)
	require.NoError(t, err)
	defer b.Close()
	instances, err := render.ReadInstances(b)
	require.NoError(t, err)
	require.Len(t, instances.Tubes, 9)
}

func TestProfileAndPickCommands(t *testing.T) {
	path := writeDoc(t, "line.json", bezierDoc)
	img := filepath.Join(t.TempDir(), "line.svg")
	require.Contains(t, run(t, "profile", "-q", "spacing", "-o", img, path), img)
	info, err := os.Stat(img)
	require.NoError(t, err)
	require.NotZero(t, info.Size())

	out := run(t, "pick", "-k", "3", path, "0,0,5")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
	_, err = parseVec("1,2")
	require.Error(t, err)
}

func TestDesignDependentRejected(t *testing.T) {
	path := writeDoc(t, "path.json", `{"TranslatedPath": {"path_id": 1, "translation": {"X": 0, "Y": 0, "Z": 0}}}`)
	viper.Reset()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"discretize", path})
	require.Error(t, rootCmd.Execute())
}

func TestWatchExportsOnChange(t *testing.T) {
	viper.Reset()
	viper.Set("watch.debounce", "20ms")
	path := writeDoc(t, "line.json", bezierDoc)
	stl := filepath.Join(t.TempDir(), "line.stl")
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	require.NoError(t, loadConfig(rootCmd, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchSTL(ctx, watchCmd, path, stl) }()

	// The STL header is written last, a readable file is a complete one.
	triangles := func() int {
		f, err := os.Open(stl)
		if err != nil {
			return 0
		}
		defer f.Close()
		tris, err := render.ReadSTL(f)
		if err != nil {
			return 0
		}
		return len(tris)
	}
	var first int
	require.Eventually(t, func() bool {
		first = triangles()
		return first > 0
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(straightDoc(20)), 0o644))
	require.Eventually(t, func() bool {
		return triangles() > first
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
