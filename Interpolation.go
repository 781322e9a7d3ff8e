package go_ballisticengine

import "math"

//interpolate2pt calculates the linear interpolation of x between the points
//(x0,y0) and (x1,y1)
func interpolate2pt(x, x0, y0, x1, y1 float64) (float64, error) {
	if x1 == x0 {
		return 0, ErrZeroDivision
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0), nil
}

//pchipSlopes3 computes monotonicity-preserving Hermite slopes at three knots
//sorted by x.
//
//The middle slope is zero when the two secants disagree in sign (a local
//extremum must stay an extremum), otherwise a weighted harmonic mean of the
//secants. Endpoint slopes use a one-sided three-point estimate, clamped to
//zero when they disagree in sign with the adjacent secant and capped in
//magnitude to three times that secant.
func pchipSlopes3(x0, y0, x1, y1, x2, y2 float64) (m0, m1, m2 float64) {
	h0 := x1 - x0
	h1 := x2 - x1
	d0 := (y1 - y0) / h0
	d1 := (y2 - y1) / h1

	if d0*d1 <= 0 {
		m1 = 0
	} else {
		w0 := 2*h1 + h0
		w1 := h1 + 2*h0
		m1 = (w0 + w1) / (w0/d0 + w1/d1)
	}

	m0 = ((2*h0+h1)*d0 - h0*d1) / (h0 + h1)
	if m0*d0 <= 0 {
		m0 = 0
	} else if math.Abs(m0) > 3*math.Abs(d0) {
		m0 = 3 * d0
	}

	m2 = ((2*h1+h0)*d1 - h1*d0) / (h0 + h1)
	if m2*d1 <= 0 {
		m2 = 0
	} else if math.Abs(m2) > 3*math.Abs(d1) {
		m2 = 3 * d1
	}
	return m0, m1, m2
}

//hermite evaluates the cubic Hermite basis on [xl,xr] with values yl,yr and
//slopes ml,mr at the interval ends
func hermite(x, xl, yl, ml, xr, yr, mr float64) float64 {
	h := xr - xl
	t := (x - xl) / h
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*yl + h10*h*ml + h01*yr + h11*h*mr
}

//interpolate3pt calculates the monotone piecewise-cubic (PCHIP) interpolation
//of x over three points.
//
//The points may arrive in any order; they are sorted by x first. The query is
//evaluated on whichever of the two sub-intervals contains x, with x == middle
//knot going to the left piece. Returns ErrZeroDivision when any two of the
//three x values coincide.
func interpolate3pt(x, x0, y0, x1, y1, x2, y2 float64) (float64, error) {
	//three-element selection sort keeps the tie-break order deterministic
	if x1 < x0 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	if x2 < x0 {
		x0, x2 = x2, x0
		y0, y2 = y2, y0
	}
	if x2 < x1 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	if x0 == x1 || x1 == x2 {
		return 0, ErrZeroDivision
	}

	m0, m1, m2 := pchipSlopes3(x0, y0, x1, y1, x2, y2)

	if x <= x1 {
		return hermite(x, x0, y0, m0, x1, y1, m1), nil
	}
	return hermite(x, x1, y1, m1, x2, y2, m2), nil
}

//bisectCenterIndex runs a binary search over a monotone key projection and
//returns a center index usable for three-point interpolation.
//
//The direction of monotonicity is determined from the endpoint values. The
//returned index is the first one whose key is >= value (increasing) or
//<= value (decreasing), clamped into [1, n-2] so that both neighbors exist.
func bisectCenterIndex(n int, key func(int) float64, value float64) (int, error) {
	if n < 3 {
		return 0, ErrInsufficientPoints
	}

	increasing := key(n-1) >= key(0)

	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		var before bool
		if increasing {
			before = key(mid) < value
		} else {
			before = key(mid) > value
		}
		if before {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	idx := lo
	if idx < 1 {
		idx = 1
	}
	if idx > n-2 {
		idx = n - 2
	}
	return idx, nil
}
