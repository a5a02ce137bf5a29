package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tecmesh/container"
	"github.com/notargets/tecmesh/hysteresis"
)

const twoZones = "../readfiles/testdata/two_zones.tec"

func readCSV(t *testing.T, filename string) [][]string {
	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func checkMoments(t *testing.T, rows [][]string) {
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"index", "mom_x", "mom_y", "mom_z"}, rows[0])
	want := [][3]float64{{0.5, 0, 0}, {0, 1, 0.5}}
	for i, row := range rows[1:] {
		assert.Equal(t, strconv.Itoa(i+1), row[0])
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(row[j+1], 64)
			require.NoError(t, err)
			assert.InDelta(t, want[i][j], v, 1.e-14)
		}
	}
}

func TestWriteMomentsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMomentsCSV(&buf, [][3]float64{{0.5, 0, -1.25}, {1.e-20, 2, 3}}))
	assert.Equal(t, "index,mom_x,mom_y,mom_z\n1,0.5,0,-1.25\n2,1e-20,2,3\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteMomentsCSV(&buf, nil))
	assert.Equal(t, "index,mom_x,mom_y,mom_z\n", buf.String())
}

func TestRunQuants(t *testing.T) {
	out := filepath.Join(t.TempDir(), "moments.csv")
	require.NoError(t, runQuants(twoZones, out))
	checkMoments(t, readCSV(t, out))

	err := runQuants(filepath.Join(t.TempDir(), "missing.tec"), out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestQuantsBatch(t *testing.T) {
	data, err := os.ReadFile(twoZones)
	require.NoError(t, err)
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.tec", "b.tec", "c.tec"} {
		fn := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fn, data, 0644))
		files = append(files, fn)
	}
	require.NoError(t, forEachFile(context.Background(), files, 2, func(_ int, file string) error {
		return runQuants(file, withExt(file, ".csv"))
	}))
	for _, fn := range files {
		checkMoments(t, readCSV(t, withExt(fn, ".csv")))
	}
}

func TestForEachFile(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e", "f"}
	{ // Results land by input index
		out := make([]string, len(files))
		require.NoError(t, forEachFile(context.Background(), files, 3, func(i int, file string) error {
			out[i] = strings.ToUpper(file)
			return nil
		}))
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, out)
	}
	{ // The first failure is returned and stops files not yet started
		boom := errors.New("boom")
		var ran int32
		err := forEachFile(context.Background(), files, 1, func(i int, file string) error {
			atomic.AddInt32(&ran, 1)
			if file == "b" {
				return boom
			}
			return nil
		})
		assert.True(t, errors.Is(err, boom))
		assert.Less(t, int(atomic.LoadInt32(&ran)), len(files))
	}
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "run.csv", withExt("run.tec", ".csv"))
	assert.Equal(t, "dir.v2/run", withExt("dir.v2/run.tec", ""))
	assert.Equal(t, "run.csv", withExt("run", ".csv"))
}

func TestRunConvert(t *testing.T) {
	wantPaths := []string{
		"/mesh/vertices", "/mesh/elements", "/mesh/submesh",
		"/fields/field0/vectors", "/fields/field1/vectors", "/fields/labels",
	}
	paths := func(datasets []container.Dataset) (p []string) {
		for _, ds := range datasets {
			p = append(p, ds.Path)
		}
		return
	}
	dir := t.TempDir()
	{ // HDF5
		base := filepath.Join(dir, "run")
		require.NoError(t, runConvert(twoZones, base, container.DefaultLabelWidth, formatH5))
		datasets, err := container.ReadHDF5(base + ".h5")
		require.NoError(t, err)
		assert.Equal(t, wantPaths, paths(datasets))
		assert.Equal(t, []uint64{0, 1, 2, 3, 1, 2, 3, 4}, datasets[1].Uint64)
		assert.Equal(t, []string{"400.0000 mT", "380.0000 mT"}, datasets[5].Strings)
	}
	{ // Directory fallback
		base := filepath.Join(dir, "run")
		require.NoError(t, runConvert(twoZones, base, container.DefaultLabelWidth, formatDir))
		man, datasets, err := container.ReadDir(base + ".mesh")
		require.NoError(t, err)
		assert.Equal(t, "Histo two zones", man.Label)
		assert.Equal(t, wantPaths, paths(datasets))
		assert.Equal(t, []uint64{0, 1, 2, 3, 1, 2, 3, 4}, datasets[1].Uint64)
	}
}

func writeLoop(t *testing.T, filename string, rows ...string) {
	text := "B, Bx, By, Bz, Mx, My, Mz, Ms, Vol\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(filename, []byte(text), 0644))
}

func TestSelectLoopFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"loop_2.dat", "loop_1.dat", "notes.txt"} {
		writeLoop(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "loop_dir"), 0755))
	files, err := SelectLoopFiles(dir, `^loop_`)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "loop_1.dat"), filepath.Join(dir, "loop_2.dat")}, files)

	// Links to loop files are followed, dangling links are not
	other := t.TempDir()
	writeLoop(t, filepath.Join(other, "shared.dat"))
	require.NoError(t, os.Symlink(filepath.Join(other, "shared.dat"), filepath.Join(dir, "loop_3.dat")))
	require.NoError(t, os.Symlink(filepath.Join(other, "gone.dat"), filepath.Join(dir, "loop_4.dat")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "loop_dir"), filepath.Join(dir, "loop_5")))
	files, err = SelectLoopFiles(dir, `^loop_`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "loop_1.dat"), filepath.Join(dir, "loop_2.dat"), filepath.Join(dir, "loop_3.dat"),
	}, files)

	_, err = SelectLoopFiles(dir, `(`)
	assert.Error(t, err)
	_, err = SelectLoopFiles(filepath.Join(dir, "missing"), `.`)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteLoopTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLoopTable(&buf, []hysteresis.Measurement{
		{B: 0.2, Bx: 0.6, By: 0.8, Mx: 1, My: 0.5, Ms: 4.8e5, Vol: 2.e-21},
	}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "      B (Tesla),      <M> (Am^2),        Ms (A/m),    Volume (m^3)", lines[0])
	assert.Equal(t, " 2.00000000E-01,  1.00000000E+00,  4.80000000E+05,  2.00000000E-21", lines[1])
}

func TestRunLoopAvg(t *testing.T) {
	dir := t.TempDir()
	writeLoop(t, filepath.Join(dir, "loop_a.dat"),
		"0.2, 1.0, 0.0, 0.0, 1.0, 0.0, 0.0, 4.8e5, 1.0e-21",
		"0.1, 1.0, 0.0, 0.0, 0.5, 0.5, 0.0, 4.8e5, 1.0e-21")
	writeLoop(t, filepath.Join(dir, "loop_b.dat"),
		"0.2, 1.0, 0.0, 0.0, 0.5, 0.0, 0.0, 4.8e5, 3.0e-21",
		"0.1, 1.0, 0.0, 0.0, 0.0, 0.5, 0.0, 4.8e5, 3.0e-21")
	out := filepath.Join(t.TempDir(), "avg.txt")
	require.NoError(t, runLoopAvg(dir, `\.dat$`, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, " 2.00000000E-01,  7.50000000E-01,  4.80000000E+05,  2.00000000E-21", lines[1])
	assert.Equal(t, " 1.00000000E-01,  2.50000000E-01,  4.80000000E+05,  2.00000000E-21", lines[2])

	// A loop over a different sweep is rejected
	writeLoop(t, filepath.Join(dir, "loop_c.dat"),
		"0.3, 1.0, 0.0, 0.0, 0.5, 0.0, 0.0, 4.8e5, 3.0e-21",
		"0.2, 1.0, 0.0, 0.0, 0.0, 0.5, 0.0, 4.8e5, 3.0e-21")
	err = runLoopAvg(dir, `\.dat$`, out)
	assert.True(t, errors.Is(err, hysteresis.ErrFieldRange))

	err = runLoopAvg(dir, `nothing matches`, out)
	assert.True(t, errors.Is(err, hysteresis.ErrNoLoops))
}

func TestParseFloats(t *testing.T) {
	floats, err := ParseFloats([]byte("1.0 2.0\t3.0\n\n 4.0e-3  \n-5\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4.e-3, -5}, floats)

	floats, err = ParseFloats([]byte(" \n"))
	require.NoError(t, err)
	assert.Empty(t, floats)

	_, err = ParseFloats([]byte("1.0 two 3.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token 2")
}

func TestSpaghettifyCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "column.txt")
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader("1.0 2.0 3.0\n4.0\n"))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"spaghettify", out})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())
	finish()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1.0000000E+00\n2.0000000E+00\n3.0000000E+00\n4.0000000E+00\n", string(data))
	assert.Contains(t, stdout.String(), "4 floats written")
	assert.Contains(t, stderr.String(), "Ctrl+D")
	require.NotNil(t, params)
	assert.Equal(t, container.DefaultLabelWidth, params.LabelWidth)
}
