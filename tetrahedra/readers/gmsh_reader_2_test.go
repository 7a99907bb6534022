package readers

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

// Helper function to create temporary test files
func createTempMshFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.msh")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

const twoTetMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
4
1 3 "Edge"
2 7 "Interface"
3 1 "Fluid"
3 2 "Solid body"
$EndPhysicalNames
$Nodes
5
10 0 0 0
20 1 0 0
30 0 1 0
40 0 0 1
50 0.2 0.2 -1
$EndNodes
$Elements
6
1 15 2 0 1 10
2 1 2 3 1 10 20
3 2 2 7 1 10 20 30
4 2 2 0 2 20 30 40
5 4 2 1 1 10 20 30 40
6 4 2 2 2 10 30 20 50
$EndElements
$NodeData
1
"ignored"
$EndNodeData
`

// TestReadGmsh22 reads two tetrahedra sharing a tagged face
func TestReadGmsh22(t *testing.T) {
	tmpFile := createTempMshFile(t, twoTetMsh)

	md, err := ReadMeshFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read Gmsh file: %v", err)
	}
	if md.FormatVersion != "2.2" || md.IsBinary || md.DataSize != 8 {
		t.Errorf("Unexpected format %s binary=%v size=%d", md.FormatVersion, md.IsBinary, md.DataSize)
	}
	if md.PhysicalNames[2] != "Solid body" {
		t.Errorf("Expected physical name \"Solid body\", got %q", md.PhysicalNames[2])
	}
	if len(md.Points) != 5 {
		t.Fatalf("Expected 5 points, got %d", len(md.Points))
	}
	if len(md.Tets) != 2 {
		t.Fatalf("Expected 2 tetrahedra, got %d", len(md.Tets))
	}
	if md.Subdomains[0] != 1 || md.Subdomains[1] != 2 {
		t.Errorf("Expected subdomains [1 2], got %v", md.Subdomains)
	}
	// The untagged triangle is not part of the complex
	if len(md.Triangles) != 1 || md.Triangles[0] != [4]int{0, 1, 2, 7} {
		t.Errorf("Expected one triangle [0 1 2 7], got %v", md.Triangles)
	}
	if len(md.Lines) != 1 || md.Lines[0] != [3]int{0, 1, 3} {
		t.Errorf("Expected one line [0 1 3], got %v", md.Lines)
	}

	cx, err := md.Build()
	if err != nil {
		t.Fatalf("Failed to build complex: %v", err)
	}
	if err = cx.IsValid(); err != nil {
		t.Fatalf("Invalid complex: %v", err)
	}
	if n := cx.NumberOfCells(); n != 2 {
		t.Errorf("Expected 2 cells, got %d", n)
	}
	f, ok := cx.IsFacet(cx.InputVertex(0), cx.InputVertex(1), cx.InputVertex(2))
	if !ok || cx.SurfacePatchIndex(f) != 7 {
		t.Errorf("Expected the shared face on patch 7")
	}
	if cx.CurveIndexOf(cx.InputVertex(1), cx.InputVertex(0)) != 3 {
		t.Errorf("Expected the first edge on curve 3")
	}
}

func TestReadGmsh22Errors(t *testing.T) {
	replace := func(old, with string) string {
		if !strings.Contains(twoTetMsh, old) {
			t.Fatalf("test content has no %q", old)
		}
		return strings.Replace(twoTetMsh, old, with, 1)
	}
	cases := map[string]string{
		"hexahedron":   replace("6 4 2 2 2 10 30 20 50", "6 5 2 2 2 10 20 30 40 50 10 20 30"),
		"unknown node": replace("6 4 2 2 2 10 30 20 50", "6 4 2 2 2 10 30 20 60"),
		"short nodes":  replace("6 4 2 2 2 10 30 20 50", "6 4 2 2 2 10 30 20"),
		"binary":       replace("2.2 0 8", "2.2 1 8"),
		"bad node":     replace("50 0.2 0.2 -1", "50 0.2 zero -1"),
		"truncated":    twoTetMsh[:strings.Index(twoTetMsh, "4 2 2 0 2")],
	}
	for name, content := range cases {
		if _, err := ParseGmsh22(strings.NewReader(content)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
	{ // Version 4 files are detected and refused
		tmpFile := createTempMshFile(t, replace("2.2 0 8", "4.1 0 8"))
		if _, err := ReadGmshAuto(tmpFile); err == nil {
			t.Errorf("Expected an error for version 4.1")
		}
	}
	if _, err := ReadMeshFile("mesh.vtk"); err == nil {
		t.Errorf("Expected an error for the .vtk extension")
	}
	{ // A flat cell parses but does not build
		md, err := ParseGmsh22(strings.NewReader(replace("50 0.2 0.2 -1", "50 0.2 0.2 0")))
		if err != nil {
			t.Fatalf("Failed to parse: %v", err)
		}
		if _, err = md.Build(); err == nil {
			t.Errorf("Expected a flat cell error")
		}
	}
}

// cellSubdomains maps the sorted vertex indices of each finite cell to its subdomain
func cellSubdomains(cx *c3t3.Complex) map[[4]int]int {
	sds := make(map[[4]int]int)
	for _, c := range cx.FiniteCells() {
		cv := cx.Vertices(c)
		key := []int{cv[0].Index, cv[1].Index, cv[2].Index, cv[3].Index}
		sort.Ints(key)
		sds[[4]int{key[0], key[1], key[2], key[3]}] = cx.Subdomain(c)
	}
	return sds
}

func TestWriteGmsh22RoundTrip(t *testing.T) {
	f := c3t3.KuhnLattice(2, 0.05, 5)
	cx, err := f.Build()
	if err != nil {
		t.Fatalf("Failed to build lattice: %v", err)
	}
	cx.TagSubdomainInterfaces()

	var buf bytes.Buffer
	if err = WriteGmsh22(&buf, cx); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	md, err := ParseGmsh22(&buf)
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if len(md.Triangles) != cx.NumberOfFacetsInComplex() {
		t.Errorf("Expected %d triangles, got %d", cx.NumberOfFacetsInComplex(), len(md.Triangles))
	}
	sorted := sort.SliceIsSorted(md.Triangles, func(i, j int) bool {
		a, b := md.Triangles[i], md.Triangles[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	if !sorted {
		t.Errorf("Triangles are not written in vertex order: %v", md.Triangles)
	}
	cx2, err := md.Build()
	if err != nil {
		t.Fatalf("Failed to build the complex read back: %v", err)
	}
	if err = cx2.IsValid(); err != nil {
		t.Fatalf("Invalid complex read back: %v", err)
	}
	if cx2.NumberOfVertices() != cx.NumberOfVertices() || cx2.NumberOfCells() != cx.NumberOfCells() {
		t.Errorf("Expected %d vertices and %d cells, got %d and %d",
			cx.NumberOfVertices(), cx.NumberOfCells(), cx2.NumberOfVertices(), cx2.NumberOfCells())
	}
	for _, v := range cx.FiniteVertices() {
		if cx.Point(v) != cx2.Point(cx2.VertexByIndex(v.Index)) {
			t.Errorf("Vertex %v moved from %v to %v", v, cx.Point(v), cx2.Point(cx2.VertexByIndex(v.Index)))
		}
	}
	if !mapsEqual(cx.TaggedFacets(), cx2.TaggedFacets()) {
		t.Errorf("Tagged facets differ")
	}
	if len(cx.TaggedEdges()) != len(cx2.TaggedEdges()) {
		t.Errorf("Expected %d feature edges, got %d", len(cx.TaggedEdges()), len(cx2.TaggedEdges()))
	}
	for k, v := range cx.TaggedEdges() {
		if cx2.TaggedEdges()[k] != v {
			t.Errorf("Feature edge %v lost its curve %d", k.GetVertices(false), v)
		}
	}
	if !mapsEqual(cellSubdomains(cx), cellSubdomains(cx2)) {
		t.Errorf("Cell subdomains differ")
	}

	// Through a file
	tmpFile := filepath.Join(t.TempDir(), "lattice.msh")
	if err = WriteGmsh22File(tmpFile, cx); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if md, err = ReadMeshFile(tmpFile); err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if len(md.Tets) != cx.NumberOfCells() {
		t.Errorf("Expected %d tetrahedra, got %d", cx.NumberOfCells(), len(md.Tets))
	}
}

func mapsEqual[K comparable](a, b map[K]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
