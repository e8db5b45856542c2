package mutils

import "math"

const brentEpsilon = 2.220446049250313e-16

// FindRootBrent searches [lower, upper] for a root of f using Brent's method
// (bisection, secant and inverse quadratic interpolation).
//
// f(lower) and f(upper) must bracket the root, otherwise ok is false and root is 0.
// When maxIterations is exhausted the best estimate is returned with ok set to false.
func FindRootBrent(f func(float64) float64, lower, upper, tolerance float64, maxIterations int) (root float64, ok bool) {
	a, b := lower, upper
	fa, fb := f(a), f(b)

	if fa == 0 {
		return a, true
	}

	if fb == 0 {
		return b, true
	}

	if math.Signbit(fa) == math.Signbit(fb) {
		return 0, false
	}

	c, fc := b, fb

	var d, e float64

	for i := 0; i < maxIterations; i++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}

		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*brentEpsilon*math.Abs(b) + 0.5*tolerance
		xm := 0.5 * (c - b)

		if math.Abs(xm) <= tol || fb == 0 {
			return b, true
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa

			var p, q float64

			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}

			if p > 0 {
				q = -q
			}

			p = math.Abs(p)

			if 2*p < min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb

		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}

		fb = f(b)
	}

	return b, false
}
