package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/tetremesh/InputParameters"
	"github.com/notargets/tetremesh/tetrahedra/readers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInput(t *testing.T) {
	var (
		err    error
		icFile = filepath.Join(t.TempDir(), "flip.yaml")
	)
	fileInput := []byte(`
Title: Test Case
Criterion: AverageAngle # Can be MinAngle
MaxPasses: 2
SelectedSubdomains: [2, 1]
TagInterfaces: true
`)
	require.NoError(t, os.WriteFile(icFile, fileInput, 0644))
	{
		_, err = processInput(&Model3D{ICFile: icFile})
		assert.Error(t, err)
		_, err = processInput(&Model3D{GridFile: "mesh.msh", ICFile: icFile + ".missing"})
		assert.Error(t, err)
	}
	{ // Without an input file the defaults apply
		fp, err := processInput(&Model3D{GridFile: "mesh.msh", Passes: 3})
		require.NoError(t, err)
		assert.Equal(t, "MinAngle", fp.Criterion)
		assert.Equal(t, 3, fp.MaxPasses)
		assert.False(t, fp.TagInterfaces)
	}
	{
		fp, err := processInput(&Model3D{GridFile: "mesh.msh", ICFile: icFile})
		require.NoError(t, err)
		assert.Equal(t, "Test Case", fp.Title)
		assert.Equal(t, "AverageAngle", fp.Criterion)
		assert.Equal(t, 2, fp.MaxPasses)
		assert.Equal(t, []int{2, 1}, fp.SelectedSubdomains)
		assert.True(t, fp.TagInterfaces)
		assert.False(t, fp.ProtectBoundaries)
		assert.False(t, fp.CheckValidity)
		fp.Print()
	}
	{ // Flags override the file
		fp, err := processInput(&Model3D{GridFile: "mesh.msh", ICFile: icFile,
			Criterion: "MinAngle", Passes: 5, ProtectBoundaries: true, Verbose: true})
		require.NoError(t, err)
		assert.Equal(t, "MinAngle", fp.Criterion)
		assert.Equal(t, 5, fp.MaxPasses)
		assert.True(t, fp.ProtectBoundaries)
		assert.True(t, fp.Verbose)
	}
}

func TestRunFlip(t *testing.T) {
	var (
		dir     = t.TempDir()
		grid    = filepath.Join(dir, "cube.msh")
		flipped = filepath.Join(dir, "flipped.msh")
	)
	assert.Error(t, RunLattice(&ModelLattice{N: 3}))
	assert.Error(t, RunLattice(&ModelLattice{N: 0, OutputFile: grid}))
	require.NoError(t, RunLattice(&ModelLattice{N: 3, Jitter: 0.05, Seed: 2, TagInterfaces: true, OutputFile: grid}))
	in, err := readers.ReadMeshFile(grid)
	require.NoError(t, err)
	require.NotEmpty(t, in.Triangles)
	require.Len(t, in.Lines, 3)

	fp := InputParameters.NewFlipParameters()
	fp.MaxPasses = 2
	fp.CheckValidity = true
	fp.Verbose = true
	stats, err := RunFlip(&Model3D{GridFile: grid, OutputFile: flipped, Profile: true, ProfileDir: dir}, fp)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.FileExists(t, filepath.Join(dir, "cpu.pprof"))

	out, err := readers.ReadMeshFile(flipped)
	require.NoError(t, err)
	assert.Len(t, out.Points, len(in.Points))
	assert.Len(t, out.Triangles, len(in.Triangles))
	assert.Equal(t, in.Lines, out.Lines)
	cx, err := out.Build()
	require.NoError(t, err)
	assert.NoError(t, cx.IsValid())

	_, err = RunFlip(&Model3D{GridFile: filepath.Join(dir, "missing.msh")}, fp)
	assert.Error(t, err)
	fp.Criterion = "Delaunay"
	_, err = RunFlip(&Model3D{GridFile: grid}, fp)
	assert.Error(t, err)
}
