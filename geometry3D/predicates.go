package geometry3D

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"
)

type Sign int

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "NEGATIVE"
	case Positive:
		return "POSITIVE"
	default:
		return "ZERO"
	}
}

// Kernel is the predicate contract consumed by the triangulation and the flip
// engine. Orientation returns the sign of det[p1-p0, p2-p0, p3-p0].
type Kernel interface {
	Orientation(p0, p1, p2, p3 r3.Vec) Sign
}

// RobustKernel evaluates the orientation determinant in floating point and
// falls back to exact rational arithmetic when the result is within the
// rounding error bound.
type RobustKernel struct{}

// o3dErrBound is the static filter bound for the 3x3 determinant, (7+56eps)eps
const o3dErrBound = (7.0 + 56.0*epsilon) * epsilon

const epsilon = 1.0 / (1 << 53)

func (RobustKernel) Orientation(p0, p1, p2, p3 r3.Vec) Sign {
	var (
		a = r3.Sub(p1, p0)
		b = r3.Sub(p2, p0)
		c = r3.Sub(p3, p0)
	)
	bycz, bzcy := b.Y*c.Z, b.Z*c.Y
	cyaz, czay := c.Y*a.Z, c.Z*a.Y
	aybz, azby := a.Y*b.Z, a.Z*b.Y
	det := a.X*(bycz-bzcy) + b.X*(cyaz-czay) + c.X*(aybz-azby)
	permanent := math.Abs(a.X)*(math.Abs(bycz)+math.Abs(bzcy)) +
		math.Abs(b.X)*(math.Abs(cyaz)+math.Abs(czay)) +
		math.Abs(c.X)*(math.Abs(aybz)+math.Abs(azby))
	errBound := o3dErrBound * permanent
	switch {
	case det > errBound:
		return Positive
	case -det > errBound:
		return Negative
	}
	return exactOrientation(p0, p1, p2, p3)
}

func exactOrientation(p0, p1, p2, p3 r3.Vec) Sign {
	sub := func(p, q r3.Vec) (d [3]*big.Rat) {
		pp, qq := [3]float64{p.X, p.Y, p.Z}, [3]float64{q.X, q.Y, q.Z}
		for i := range d {
			x := new(big.Rat).SetFloat64(pp[i])
			y := new(big.Rat).SetFloat64(qq[i])
			d[i] = x.Sub(x, y)
		}
		return
	}
	mul := func(x, y *big.Rat) *big.Rat { return new(big.Rat).Mul(x, y) }
	minor := func(u, v [3]*big.Rat, i, j int) *big.Rat {
		m := mul(u[i], v[j])
		return m.Sub(m, mul(u[j], v[i]))
	}
	a, b, c := sub(p1, p0), sub(p2, p0), sub(p3, p0)
	det := mul(a[0], minor(b, c, 1, 2))
	det.Add(det, mul(b[0], minor(c, a, 1, 2)))
	det.Add(det, mul(c[0], minor(a, b, 1, 2)))
	return Sign(det.Sign())
}

// DefaultKernel is used when no kernel is supplied.
var DefaultKernel Kernel = RobustKernel{}

// IsWellOriented is true iff the ordered orientation test is Positive.
func IsWellOriented(k Kernel, p0, p1, p2, p3 r3.Vec) bool {
	return k.Orientation(p0, p1, p2, p3) == Positive
}
