package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/notargets/tetremesh/tetrahedra/c3t3"
)

// WriteGmsh22File writes the complex to filename, see WriteGmsh22
func WriteGmsh22File(filename string, cx *c3t3.Complex) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteGmsh22(file, cx)
}

/*
WriteGmsh22 writes the complex in the ASCII Gmsh 2.2 format. Node IDs are the vertex indices, so reading the file
back gives the same vertex numbering. Feature edges are written as lines tagged with their curve, tagged facets as
triangles tagged with their patch, and finite cells as tetrahedra tagged with their subdomain.
*/
func WriteGmsh22(w io.Writer, cx *c3t3.Complex) error {
	var (
		bw     = bufio.NewWriter(w)
		verts  = cx.FiniteVertices()
		edges  = cx.EdgesInComplex()
		curves = cx.TaggedEdges()
		facets = cx.TaggedFacets()
		cells  = cx.FiniteCells()
	)
	fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")

	fmt.Fprintf(bw, "$Nodes\n%d\n", len(verts))
	for _, v := range verts {
		p := cx.Point(v)
		fmt.Fprintf(bw, "%d %.17g %.17g %.17g\n", v.Index, p.X, p.Y, p.Z)
	}
	fmt.Fprintf(bw, "$EndNodes\n")

	// Format: elem-id elem-type num-tags physical elementary node1 node2 ...
	fmt.Fprintf(bw, "$Elements\n%d\n", len(edges)+len(facets)+len(cells))
	elemID := 1
	for _, key := range edges {
		ab := key.GetVertices(false)
		curve := curves[key]
		fmt.Fprintf(bw, "%d 1 2 %d %d %d %d\n", elemID, curve, curve, ab[0], ab[1])
		elemID++
	}
	tris := make([][3]int, 0, len(facets))
	for tri := range facets {
		tris = append(tris, tri)
	}
	sort.Slice(tris, func(i, j int) bool {
		a, b := tris[i], tris[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	for _, tri := range tris {
		patch := facets[tri]
		fmt.Fprintf(bw, "%d 2 2 %d %d %d %d %d\n", elemID, patch, patch, tri[0], tri[1], tri[2])
		elemID++
	}
	for _, c := range cells {
		cv := cx.Vertices(c)
		sd := cx.Subdomain(c)
		fmt.Fprintf(bw, "%d 4 2 %d %d %d %d %d %d\n", elemID, sd, sd,
			cv[0].Index, cv[1].Index, cv[2].Index, cv[3].Index)
		elemID++
	}
	fmt.Fprintf(bw, "$EndElements\n")
	return bw.Flush()
}
