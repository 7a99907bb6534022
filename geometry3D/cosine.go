package geometry3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
DihedralAngleCosine stores the cosine of a dihedral angle as a sign and a squared ratio, cos = sign*sqrt(sqNum/sqDen).

Values are compared by cross multiplication of the squared terms, which avoids the square root and any inverse trig call.
A larger cosine is a sharper (worse) dihedral angle.
*/
type DihedralAngleCosine struct {
	sign         Sign
	sqNum, sqDen float64
}

func NewDihedralAngleCosine(s Sign, sqNum, sqDen float64) DihedralAngleCosine {
	if sqDen <= 0 {
		panic(fmt.Errorf("dihedral angle cosine needs a positive denominator, have %v", sqDen))
	}
	if s == Zero || sqNum == 0 {
		return DihedralAngleCosine{sign: Zero, sqNum: 0, sqDen: 1}
	}
	return DihedralAngleCosine{sign: s, sqNum: sqNum, sqDen: sqDen}
}

// MinusOne is the smallest representable cosine, the starting point of a max reduction
func MinusOne() DihedralAngleCosine {
	return DihedralAngleCosine{sign: Negative, sqNum: 1, sqDen: 1}
}

func (d DihedralAngleCosine) Sign() Sign { return d.sign }

func (d DihedralAngleCosine) IsOne() bool {
	return d.sign == Positive && d.sqNum == d.sqDen
}

func (d DihedralAngleCosine) Value() float64 {
	if d.sign == Zero {
		return 0
	}
	return float64(d.sign) * math.Sqrt(d.sqNum/d.sqDen)
}

// Compare returns -1, 0 or 1 as d is less than, equal to or greater than o
func (d DihedralAngleCosine) Compare(o DihedralAngleCosine) int {
	if d.sign != o.sign {
		if d.sign < o.sign {
			return -1
		}
		return 1
	}
	if d.sign == Zero {
		return 0
	}
	var (
		lhs = d.sqNum * o.sqDen
		rhs = o.sqNum * d.sqDen
		c   int
	)
	switch {
	case lhs < rhs:
		c = -1
	case lhs > rhs:
		c = 1
	}
	if d.sign == Negative {
		c = -c
	}
	return c
}

func (d DihedralAngleCosine) Less(o DihedralAngleCosine) bool { return d.Compare(o) < 0 }

func (d DihedralAngleCosine) String() string {
	return fmt.Sprintf("cos(%s, %g/%g) = %8.5f", d.sign, d.sqNum, d.sqDen, d.Value())
}

func MaxCosine(a, b DihedralAngleCosine) DihedralAngleCosine {
	if a.Less(b) {
		return b
	}
	return a
}

// CosDihedralAngle is the cosine of the interior dihedral angle of tetrahedron abcd at edge ab
func CosDihedralAngle(a, b, c, d r3.Vec) DihedralAngleCosine {
	var (
		ab = r3.Sub(b, a)
		n1 = r3.Cross(ab, r3.Sub(c, a))
		n2 = r3.Cross(ab, r3.Sub(d, a))
		sp = r3.Dot(n1, n2)
	)
	den := r3.Dot(n1, n1) * r3.Dot(n2, n2)
	if den == 0 {
		// A flat face has no defined angle, it ranks as the worst possible
		return DihedralAngleCosine{sign: Positive, sqNum: 1, sqDen: 1}
	}
	switch {
	case sp > 0:
		return DihedralAngleCosine{sign: Positive, sqNum: sp * sp, sqDen: den}
	case sp < 0:
		return DihedralAngleCosine{sign: Negative, sqNum: sp * sp, sqDen: den}
	}
	return DihedralAngleCosine{sign: Zero, sqNum: 0, sqDen: 1}
}

// tetEdges lists each edge (i,j) of a tetrahedron followed by the two remaining vertices
var tetEdges = [6][4]int{
	{0, 1, 2, 3}, {0, 2, 1, 3}, {0, 3, 1, 2},
	{1, 2, 0, 3}, {1, 3, 0, 2}, {2, 3, 0, 1},
}

// MaxCosDihedralAngle returns the largest dihedral cosine over the six edges, the worst angle of the tetrahedron
func MaxCosDihedralAngle(p0, p1, p2, p3 r3.Vec) (maxCos DihedralAngleCosine) {
	var (
		p = [4]r3.Vec{p0, p1, p2, p3}
	)
	maxCos = MinusOne()
	for _, e := range tetEdges {
		maxCos = MaxCosine(maxCos, CosDihedralAngle(p[e[0]], p[e[1]], p[e[2]], p[e[3]]))
	}
	return
}

// MinDihedralAngle returns the smallest dihedral angle in degrees
func MinDihedralAngle(p0, p1, p2, p3 r3.Vec) (minAngle float64) {
	var (
		p = [4]r3.Vec{p0, p1, p2, p3}
	)
	minAngle = 180.
	for _, e := range tetEdges {
		cosA := CosDihedralAngle(p[e[0]], p[e[1]], p[e[2]], p[e[3]]).Value()
		cosA = math.Max(-1, math.Min(1, cosA))
		minAngle = math.Min(minAngle, math.Acos(cosA)*180./math.Pi)
	}
	return
}

// SignedVolume is the determinant of the tetrahedron Jacobian divided by 6
func SignedVolume(p0, p1, p2, p3 r3.Vec) float64 {
	var (
		a, b, c = r3.Sub(p1, p0), r3.Sub(p2, p0), r3.Sub(p3, p0)
	)
	J := mat.NewDense(3, 3, []float64{
		a.X, a.Y, a.Z,
		b.X, b.Y, b.Z,
		c.X, c.Y, c.Z,
	})
	return mat.Det(J) / 6.
}
