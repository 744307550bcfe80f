package curve

import (
	"fmt"
	"math"
	"sort"
)

// spline is a piecewise cubic interpolant stored as knots and second derivatives.
//
// End conditions are not-a-knot for four or more knots, which makes the first
// two and last two pieces share one cubic. Three knots give the interpolating
// parabola, two knots a straight line. Outside [x0, xn] the end pieces are
// extended.
type spline struct {
	x []float64
	y []float64
	m []float64 // second derivatives at the knots
}

// withKnots copies s onto x and y, which must hold the same values as s.x
// and s.y.
func (s *spline) withKnots(x, y []float64) *spline {
	return &spline{x: x, y: y, m: append([]float64(nil), s.m...)}
}

func fitSpline(x, y []float64) (*spline, error) {
	n := len(x)
	s := &spline{x: x, y: y, m: make([]float64, n)}

	switch {
	case n == 2:
		return s, nil
	case n == 3:
		h0, h1 := x[1]-x[0], x[2]-x[1]
		d0, d1 := (y[1]-y[0])/h0, (y[2]-y[1])/h1
		c := 2 * (d1 - d0) / (h0 + h1)
		for i := range s.m {
			s.m[i] = c
		}
		return s, nil
	}

	h := make([]float64, n-1)
	for i := range h {
		h[i] = x[i+1] - x[i]
	}

	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	rhs := make([]float64, n)

	// not-a-knot at x1: third derivative continuous
	a[0][0] = h[1]
	a[0][1] = -(h[0] + h[1])
	a[0][2] = h[0]

	for i := 1; i < n-1; i++ {
		a[i][i-1] = h[i-1]
		a[i][i] = 2 * (h[i-1] + h[i])
		a[i][i+1] = h[i]
		rhs[i] = 6 * ((y[i+1]-y[i])/h[i] - (y[i]-y[i-1])/h[i-1])
	}

	// not-a-knot at x_{n-2}
	a[n-1][n-3] = h[n-2]
	a[n-1][n-2] = -(h[n-3] + h[n-2])
	a[n-1][n-1] = h[n-3]

	m, err := solveDense(a, rhs)
	if err != nil {
		return nil, err
	}
	s.m = m
	return s, nil
}

// at evaluates the spline at t.
func (s *spline) at(t float64) float64 {
	n := len(s.x)
	// index of the first knot > t, then step back to the piece start
	i := sort.SearchFloat64s(s.x, t)
	if i < len(s.x) && s.x[i] == t {
		return s.y[i]
	}
	i--
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}

	x0, x1 := s.x[i], s.x[i+1]
	hh := x1 - x0
	a := x1 - t
	b := t - x0
	return s.m[i]*a*a*a/(6*hh) + s.m[i+1]*b*b*b/(6*hh) +
		(s.y[i]/hh-s.m[i]*hh/6)*a + (s.y[i+1]/hh-s.m[i+1]*hh/6)*b
}

// solveDense solves a·x = b by Gaussian elimination with partial pivoting.
// Curves carry a handful of tenors so the dense system stays small.
func solveDense(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-300 {
			return nil, fmt.Errorf("spline: singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
