package c3t3

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Fixture is a small tetrahedral mesh with named points and complex tags, used by the tests of this module
type Fixture struct {
	Points     []r3.Vec
	PointMap   map[string]int // Logical name -> point index
	Tets       [][4]int
	Subdomains []int
	Surfaces   [][4]int // a, b, c, patch
	Features   [][3]int // a, b, curve
}

// Build creates the complex and applies the surface and feature tags
func (f *Fixture) Build() (cx *Complex, err error) {
	if cx, err = NewComplex(f.Points, f.Tets, f.Subdomains); err != nil {
		return
	}
	for _, s := range f.Surfaces {
		if err = cx.AddSurfaceTriangle(s[0], s[1], s[2], s[3]); err != nil {
			return
		}
	}
	for _, fe := range f.Features {
		if err = cx.AddFeatureEdge(fe[0], fe[1], fe[2]); err != nil {
			return
		}
	}
	return
}

// V returns the vertex of the named point
func (f *Fixture) V(cx *Complex, name string) VertexHandle {
	i, ok := f.PointMap[name]
	if !ok {
		panic(fmt.Errorf("fixture has no point named %q", name))
	}
	return cx.InputVertex(i)
}

// TestMeshes is the set of edge ring configurations exercised by the flip tests
type TestMeshes struct {
	// Three cells around an interior edge
	SliverRing   Fixture // the 3-2 flip improves the worst dihedral angle
	InvertedRing Fixture // both endpoints on the same side of the opposite triangle, the 3-2 flip inverts a cell

	// Four and five cells around an interior edge
	Octahedron            Fixture
	TwoMaterialOctahedron Fixture // subdomain interfaces through u-w-o0 and u-w-o2
	PentagonalBipyramid   Fixture // a single best apex, o4

	// Four cells around an edge on a tagged surface through u-w-a and u-w-b
	SurfaceQuad         Fixture // the flip to a-b improves quality
	SurfaceQuadNoBest   Fixture // the flip to a-b worsens quality
	SurfaceQuadInverted Fixture // the flip to a-b inverts a cell
	PerpendicularQuad   Fixture // surface through u-w-c and u-w-d
}

func GetStandardTestMeshes() *TestMeshes {
	var (
		tm       = &TestMeshes{}
		s3       = math.Sqrt(3) / 2
		up, down = r3.Vec{Z: 2}, r3.Vec{Z: -2}
	)
	triangle := []r3.Vec{{X: 1}, {X: -0.5, Y: s3}, {X: -0.5, Y: -s3}}
	tm.SliverRing = ringFixture(up, down, triangle, nil, nil)
	tm.InvertedRing = ringFixture(up, r3.Vec{Z: 1}, triangle, nil, nil)

	diamond := []r3.Vec{{X: 0.6}, {Y: 1.2}, {X: -0.6}, {Y: -1.2}}
	tm.Octahedron = ringFixture(r3.Vec{Z: 1}, r3.Vec{Z: -1}, diamond, nil, nil)
	tm.TwoMaterialOctahedron = ringFixture(r3.Vec{Z: 1}, r3.Vec{Z: -1}, diamond, nil, []int{1, 1, 2, 2})

	pentagon := []r3.Vec{
		{X: 1.5}, {X: 0.37, Y: 1.14}, {X: -0.81, Y: 0.59}, {X: -1.21, Y: -0.88}, {X: 0.12, Y: -0.38},
	}
	tm.PentagonalBipyramid = ringFixture(up, down, pentagon, nil, nil)

	var (
		quadNames = []string{"a", "c", "b", "d"}
		left      = r3.Vec{X: -1.5}
		right     = r3.Vec{X: 1.5}
		cd        = []r3.Vec{{Z: 1}, {Z: -1}}
	)
	quad := func(u, w, a, b r3.Vec, c, d r3.Vec) Fixture {
		return ringFixture(u, w, []r3.Vec{a, c, b, d}, quadNames, []int{1, 1, 2, 2})
	}
	tm.SurfaceQuad = quad(left, right, r3.Vec{Y: -0.7}, r3.Vec{Y: 0.7}, cd[0], cd[1])
	tm.SurfaceQuad.tagRingFacets(1, "a", "b")
	tm.SurfaceQuadNoBest = quad(r3.Vec{X: -0.5}, r3.Vec{X: 0.5}, r3.Vec{Y: -1.5}, r3.Vec{Y: 1.5}, cd[0], cd[1])
	tm.SurfaceQuadNoBest.tagRingFacets(1, "a", "b")
	tm.SurfaceQuadInverted = quad(left, right, r3.Vec{X: 2, Y: -0.2}, r3.Vec{Y: 0.7}, cd[0], cd[1])
	tm.SurfaceQuadInverted.tagRingFacets(1, "a", "b")

	// cells holding a are in subdomain 1, cells holding b in subdomain 2
	tm.PerpendicularQuad = ringFixture(left, right,
		[]r3.Vec{{Y: -0.7}, {Z: 0.5}, {Y: 0.7}, {Z: -0.5}}, quadNames, []int{1, 2, 2, 1})
	tm.PerpendicularQuad.tagRingFacets(1, "c", "d")
	return tm
}

/*
ringFixture builds the ring of cells around the edge u-w, cell k joining u and w to opposite[k] and opposite[k+1].
Points are named u, w and o0, o1... unless names are given for the opposite points.
*/
func ringFixture(u, w r3.Vec, opposite []r3.Vec, names []string, subdomains []int) (f Fixture) {
	n := len(opposite)
	f.Points = append([]r3.Vec{u, w}, opposite...)
	f.PointMap = map[string]int{"u": 0, "w": 1}
	for k := range opposite {
		name := fmt.Sprintf("o%d", k)
		if names != nil {
			name = names[k]
		}
		f.PointMap[name] = 2 + k
	}
	for k := 0; k < n; k++ {
		f.Tets = append(f.Tets, [4]int{0, 1, 2 + k, 2 + (k+1)%n})
	}
	f.Subdomains = subdomains
	return
}

// tagRingFacets puts the facets u-w-name in the complex
func (f *Fixture) tagRingFacets(patch int, names ...string) {
	for _, name := range names {
		f.Surfaces = append(f.Surfaces, [4]int{f.PointMap["u"], f.PointMap["w"], f.PointMap[name], patch})
	}
}

/*
KuhnLattice splits each cube of an n x n x n lattice into the six tetrahedra along its main diagonal and jitters the
interior points by up to jitter in each direction. Cubes with x below n/2 are in subdomain 1, the others in subdomain 2.
The lattice edges on the line x = n/2, y = 0 are tagged as feature curve 1.
*/
func KuhnLattice(n int, jitter float64, seed int64) (f Fixture) {
	var (
		rng   = rand.New(rand.NewSource(seed))
		np    = n + 1
		index = func(i, j, k int) int { return i + np*(j+np*k) }
		perms = [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	)
	f.PointMap = make(map[string]int)
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				p := r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}
				if i > 0 && i < n && j > 0 && j < n && k > 0 && k < n {
					p.X += jitter * (2*rng.Float64() - 1)
					p.Y += jitter * (2*rng.Float64() - 1)
					p.Z += jitter * (2*rng.Float64() - 1)
				}
				f.PointMap[fmt.Sprintf("p%d_%d_%d", i, j, k)] = len(f.Points)
				f.Points = append(f.Points, p)
			}
		}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				sd := 1
				if 2*i >= n {
					sd = 2
				}
				for _, perm := range perms {
					var (
						c   = [3]int{i, j, k}
						tet [4]int
					)
					tet[0] = index(c[0], c[1], c[2])
					for s := 0; s < 3; s++ {
						c[perm[s]]++
						tet[s+1] = index(c[0], c[1], c[2])
					}
					f.Tets = append(f.Tets, tet)
					f.Subdomains = append(f.Subdomains, sd)
				}
			}
		}
	}
	for k := 0; k < n; k++ {
		f.Features = append(f.Features, [3]int{index(n/2, 0, k), index(n/2, 0, k+1), 1})
	}
	return
}
