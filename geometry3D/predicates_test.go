package geometry3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	origin = r3.Vec{}
	ex     = r3.Vec{X: 1}
	ey     = r3.Vec{Y: 1}
	ez     = r3.Vec{Z: 1}
)

func TestOrientation(t *testing.T) {
	k := RobustKernel{}
	{ // Right handed corner tetrahedron
		assert.Equal(t, Positive, k.Orientation(origin, ex, ey, ez))
		assert.True(t, IsWellOriented(k, origin, ex, ey, ez))
		// Any odd permutation flips the sign
		assert.Equal(t, Negative, k.Orientation(origin, ey, ex, ez))
		assert.Equal(t, Negative, k.Orientation(ex, origin, ey, ez))
		// Even permutations keep it
		assert.Equal(t, Positive, k.Orientation(ey, origin, ex, ez))
		assert.Equal(t, Positive, k.Orientation(ez, origin, ey, ex))
	}
	{ // Coplanar points go through the exact path and return Zero
		p := r3.Vec{X: 0.1, Y: 0.7}
		assert.Equal(t, Zero, k.Orientation(origin, ex, ey, p))
		assert.False(t, IsWellOriented(k, origin, ex, ey, p))
		// Collinear points in a plane far from the origin
		a := r3.Vec{X: 1e8 + 0.5, Y: 3, Z: 0.25}
		b := r3.Vec{X: 1e8 + 1.0, Y: 3, Z: 0.25}
		c := r3.Vec{X: 1e8 + 1.5, Y: 3, Z: 0.25}
		assert.Equal(t, Zero, k.Orientation(a, b, c, ez))
	}
	{ // A point a hair above the plane is still resolved
		p := r3.Vec{X: 0.25, Y: 0.25, Z: 1e-300}
		assert.Equal(t, Positive, k.Orientation(origin, ex, ey, p))
		assert.Equal(t, Negative, k.Orientation(origin, ey, ex, p))
	}
	{ // The exact evaluation agrees with the filtered one away from degeneracy
		assert.Equal(t, exactOrientation(origin, ex, ey, ez), k.Orientation(origin, ex, ey, ez))
		assert.Equal(t, exactOrientation(origin, ey, ex, ez), k.Orientation(origin, ey, ex, ez))
	}
}

func TestDihedralAngleCosine(t *testing.T) {
	{ // Ordering follows the numeric value
		var (
			m1   = MinusOne()
			neg8 = NewDihedralAngleCosine(Negative, 0.64, 1)
			neg5 = NewDihedralAngleCosine(Negative, 1, 4)
			zero = NewDihedralAngleCosine(Zero, 0, 1)
			pos5 = NewDihedralAngleCosine(Positive, 1, 4)
			pos8 = NewDihedralAngleCosine(Positive, 64, 100)
			one  = NewDihedralAngleCosine(Positive, 3, 3)
		)
		ordered := []DihedralAngleCosine{m1, neg8, neg5, zero, pos5, pos8, one}
		for i := range ordered {
			for j := range ordered {
				switch {
				case i < j:
					assert.True(t, ordered[i].Less(ordered[j]), "%v < %v", ordered[i], ordered[j])
				case i > j:
					assert.False(t, ordered[i].Less(ordered[j]), "%v !< %v", ordered[i], ordered[j])
				default:
					assert.Equal(t, 0, ordered[i].Compare(ordered[j]))
				}
			}
		}
		assert.True(t, one.IsOne())
		assert.False(t, pos8.IsOne())
		assert.False(t, m1.IsOne())
		assert.InDelta(t, -0.8, neg8.Value(), 1.e-12)
		assert.InDelta(t, 0.8, pos8.Value(), 1.e-12)
		assert.Equal(t, pos8, MaxCosine(pos5, pos8))
		assert.Equal(t, pos8, MaxCosine(pos8, neg8))
		// Equal ratios with different scaling compare equal
		assert.Equal(t, 0, NewDihedralAngleCosine(Positive, 1, 4).Compare(NewDihedralAngleCosine(Positive, 2, 8)))
	}
	{ // Corner tetrahedron: three right angles and three angles of acos(1/sqrt(3))
		assert.Equal(t, Zero, CosDihedralAngle(origin, ex, ey, ez).Sign())
		maxCos := MaxCosDihedralAngle(origin, ex, ey, ez)
		assert.InDelta(t, 1/math.Sqrt(3), maxCos.Value(), 1.e-12)
		assert.InDelta(t, math.Acos(1/math.Sqrt(3))*180/math.Pi, MinDihedralAngle(origin, ex, ey, ez), 1.e-9)
	}
	{ // Regular tetrahedron: all six angles are acos(1/3)
		var (
			a = r3.Vec{X: 1, Y: 1, Z: 1}
			b = r3.Vec{X: 1, Y: -1, Z: -1}
			c = r3.Vec{X: -1, Y: 1, Z: -1}
			d = r3.Vec{X: -1, Y: -1, Z: 1}
		)
		assert.InDelta(t, 1./3., MaxCosDihedralAngle(a, b, c, d).Value(), 1.e-12)
		assert.InDelta(t, 70.52877936550931, MinDihedralAngle(a, b, c, d), 1.e-9)
		// The regular tetrahedron is better than the corner one
		assert.True(t, MaxCosDihedralAngle(a, b, c, d).Less(MaxCosDihedralAngle(origin, ex, ey, ez)))
	}
	{ // A sliver: four nearly coplanar points have a cosine close to one
		sliver := MaxCosDihedralAngle(origin, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1, Z: 0.01}, r3.Vec{Y: 1, Z: 0.01})
		assert.Greater(t, sliver.Value(), 0.99)
		// Flat faces rank as the worst possible
		assert.True(t, CosDihedralAngle(origin, ex, r3.Scale(2, ex), ey).IsOne())
	}
}

func TestSignedVolume(t *testing.T) {
	assert.InDelta(t, 1./6., SignedVolume(origin, ex, ey, ez), 1.e-14)
	assert.InDelta(t, -1./6., SignedVolume(origin, ey, ex, ez), 1.e-14)
	assert.InDelta(t, 0., SignedVolume(origin, ex, ey, r3.Vec{X: 0.5, Y: 0.5}), 1.e-14)
}
