package go_ballisticengine

import (
	"fmt"
	"math"
)

//DragTableG1 identifies the standard G1 drag model (flat-based bullet)
const DragTableG1 byte = 1

//DragTableG7 identifies the standard G7 drag model (boat-tail bullet)
const DragTableG7 byte = 2

//cFormFactor converts a drag-model coefficient into the retardation factor
//for a bullet of ballistic coefficient 1
const cFormFactor float64 = 2.08551e-04

//DragDataPoint is one input knot of a drag curve: the drag coefficient
//measured at a Mach number
type DragDataPoint struct {
	Mach float64
	CD   float64
}

//dragSegment keeps the cubic coefficients of one curve piece, evaluated as
//((a*t+b)*t+c)*t+d with t relative to the left breakpoint
type dragSegment struct {
	a, b, c, d float64
}

//DragCurve is a piecewise-cubic, monotonicity-preserving fit over a list of
//Mach breakpoints.
//
//The curve is built once from the input knots and cached for repeated
//evaluation; evaluating it at any breakpoint reproduces the input value
//exactly.
type DragCurve struct {
	breakpoints []float64
	segments    []dragSegment
}

//CreateDragCurve builds a drag curve from parallel arrays of Mach breakpoints
//and drag coefficients.
//
//At least two points are required and the breakpoints must be strictly
//increasing. The fit produces exactly len(mach)-1 cubic segments with
//Fritsch-Carlson slope estimation, so the curve never overshoots between
//monotone knots.
func CreateDragCurve(mach, cd []float64) (*DragCurve, error) {
	n := len(mach)
	if n < 2 {
		return nil, fmt.Errorf("DragCurve: at least 2 data points are required, got %d", n)
	}
	if len(cd) != n {
		return nil, fmt.Errorf("DragCurve: mach and drag arrays differ in length (%d vs %d)", n, len(cd))
	}
	for i := 1; i < n; i++ {
		if mach[i] <= mach[i-1] {
			return nil, fmt.Errorf("DragCurve: mach breakpoints must be strictly increasing at index %d", i)
		}
	}

	slopes := fritschCarlsonSlopes(mach, cd)

	segments := make([]dragSegment, n-1)
	for i := 0; i < n-1; i++ {
		h := mach[i+1] - mach[i]
		d := (cd[i+1] - cd[i]) / h
		segments[i] = dragSegment{
			a: (slopes[i] + slopes[i+1] - 2*d) / (h * h),
			b: (3*d - 2*slopes[i] - slopes[i+1]) / h,
			c: slopes[i],
			d: cd[i],
		}
	}

	breakpoints := make([]float64, n)
	copy(breakpoints, mach)
	return &DragCurve{breakpoints: breakpoints, segments: segments}, nil
}

//CreateDragCurveFromPoints builds a drag curve from a knot list
func CreateDragCurveFromPoints(points []DragDataPoint) (*DragCurve, error) {
	mach := make([]float64, len(points))
	cd := make([]float64, len(points))
	for i, p := range points {
		mach[i] = p.Mach
		cd[i] = p.CD
	}
	return CreateDragCurve(mach, cd)
}

//fritschCarlsonSlopes estimates monotonicity-preserving knot slopes for
//strictly increasing x
func fritschCarlsonSlopes(x, y []float64) []float64 {
	n := len(x)
	slopes := make([]float64, n)

	if n == 2 {
		d := (y[1] - y[0]) / (x[1] - x[0])
		slopes[0] = d
		slopes[1] = d
		return slopes
	}

	for i := 1; i < n-1; i++ {
		h0 := x[i] - x[i-1]
		h1 := x[i+1] - x[i]
		d0 := (y[i] - y[i-1]) / h0
		d1 := (y[i+1] - y[i]) / h1
		if d0*d1 <= 0 {
			slopes[i] = 0
			continue
		}
		w0 := 2*h1 + h0
		w1 := h1 + 2*h0
		slopes[i] = (w0 + w1) / (w0/d0 + w1/d1)
	}

	slopes[0] = endpointSlope(x[1]-x[0], x[2]-x[1],
		(y[1]-y[0])/(x[1]-x[0]), (y[2]-y[1])/(x[2]-x[1]))
	slopes[n-1] = endpointSlope(x[n-1]-x[n-2], x[n-2]-x[n-3],
		(y[n-1]-y[n-2])/(x[n-1]-x[n-2]), (y[n-2]-y[n-3])/(x[n-2]-x[n-3]))
	return slopes
}

func endpointSlope(h0, h1, d0, d1 float64) float64 {
	m := ((2*h0+h1)*d0 - h0*d1) / (h0 + h1)
	if m*d0 <= 0 {
		return 0
	}
	if math.Abs(m) > 3*math.Abs(d0) {
		return 3 * d0
	}
	return m
}

//Evaluate returns the drag coefficient at the Mach number given.
//
//Queries outside the breakpoint range are evaluated on the nearest end
//segment.
func (v *DragCurve) Evaluate(mach float64) float64 {
	numPoints := len(v.breakpoints)
	mlo := 0
	mhi := numPoints - 2

	for mhi-mlo > 1 {
		mid := (mhi + mlo) / 2
		if v.breakpoints[mid] <= mach {
			mlo = mid
		} else {
			mhi = mid
		}
	}

	m := mlo
	if v.breakpoints[mhi] <= mach {
		m = mhi
	}

	seg := v.segments[m]
	t := mach - v.breakpoints[m]
	return ((seg.a*t+seg.b)*t+seg.c)*t + seg.d
}

//The ballistic coefficient (BC) of a body is a measure of its
//ability to overcome air resistance in flight, expressed against a standard
//drag model projectile
type BallisticCoefficient struct {
	value float64
	curve *DragCurve
}

//CreateBallisticCoefficient creates a ballistic coefficient against a custom
//drag curve
func CreateBallisticCoefficient(value float64, curve *DragCurve) (BallisticCoefficient, error) {
	if value <= 0 {
		return BallisticCoefficient{}, fmt.Errorf("BallisticCoefficient: value must be greater than zero")
	}
	if curve == nil {
		return BallisticCoefficient{}, fmt.Errorf("BallisticCoefficient: drag curve is required")
	}
	return BallisticCoefficient{value: value, curve: curve}, nil
}

//CreateStandardBallisticCoefficient creates a ballistic coefficient against
//one of the built-in standard drag models
func CreateStandardBallisticCoefficient(value float64, dragTable byte) (BallisticCoefficient, error) {
	curve, err := StandardDragCurve(dragTable)
	if err != nil {
		return BallisticCoefficient{}, err
	}
	return CreateBallisticCoefficient(value, curve)
}

//Value returns the ballistic coefficient value
func (v BallisticCoefficient) Value() float64 {
	return v.value
}

//Curve returns the drag curve the coefficient is measured against
func (v BallisticCoefficient) Curve() *DragCurve {
	return v.curve
}

//Drag returns the retardation factor for the given velocity expressed in Mach
func (v BallisticCoefficient) Drag(mach float64) float64 {
	return v.curve.Evaluate(mach) * cFormFactor / v.value
}

var g1Curve = mustCreateStandardCurve(g1Table)
var g7Curve = mustCreateStandardCurve(g7Table)

//StandardDragCurve returns the built-in curve for a standard drag model
func StandardDragCurve(dragTable byte) (*DragCurve, error) {
	switch dragTable {
	case DragTableG1:
		return g1Curve, nil
	case DragTableG7:
		return g7Curve, nil
	default:
		return nil, fmt.Errorf("DragCurve: unknown drag table %d", dragTable)
	}
}

func mustCreateStandardCurve(points []DragDataPoint) *DragCurve {
	curve, err := CreateDragCurveFromPoints(points)
	if err != nil {
		panic(err)
	}
	return curve
}

var g1Table = []DragDataPoint{
	{Mach: 0.00, CD: 0.2629},
	{Mach: 0.05, CD: 0.2558},
	{Mach: 0.10, CD: 0.2487},
	{Mach: 0.15, CD: 0.2413},
	{Mach: 0.20, CD: 0.2344},
	{Mach: 0.25, CD: 0.2278},
	{Mach: 0.30, CD: 0.2214},
	{Mach: 0.35, CD: 0.2155},
	{Mach: 0.40, CD: 0.2104},
	{Mach: 0.45, CD: 0.2061},
	{Mach: 0.50, CD: 0.2032},
	{Mach: 0.55, CD: 0.2020},
	{Mach: 0.60, CD: 0.2034},
	{Mach: 0.70, CD: 0.2165},
	{Mach: 0.725, CD: 0.2230},
	{Mach: 0.75, CD: 0.2313},
	{Mach: 0.775, CD: 0.2417},
	{Mach: 0.80, CD: 0.2546},
	{Mach: 0.825, CD: 0.2706},
	{Mach: 0.85, CD: 0.2901},
	{Mach: 0.875, CD: 0.3136},
	{Mach: 0.90, CD: 0.3415},
	{Mach: 0.925, CD: 0.3734},
	{Mach: 0.95, CD: 0.4084},
	{Mach: 0.975, CD: 0.4448},
	{Mach: 1.0, CD: 0.4805},
	{Mach: 1.025, CD: 0.5136},
	{Mach: 1.05, CD: 0.5427},
	{Mach: 1.075, CD: 0.5677},
	{Mach: 1.10, CD: 0.5883},
	{Mach: 1.125, CD: 0.6053},
	{Mach: 1.15, CD: 0.6191},
	{Mach: 1.20, CD: 0.6393},
	{Mach: 1.25, CD: 0.6518},
	{Mach: 1.30, CD: 0.6589},
	{Mach: 1.35, CD: 0.6621},
	{Mach: 1.40, CD: 0.6625},
	{Mach: 1.45, CD: 0.6607},
	{Mach: 1.50, CD: 0.6573},
	{Mach: 1.55, CD: 0.6528},
	{Mach: 1.60, CD: 0.6474},
	{Mach: 1.65, CD: 0.6413},
	{Mach: 1.70, CD: 0.6347},
	{Mach: 1.75, CD: 0.6280},
	{Mach: 1.80, CD: 0.6210},
	{Mach: 1.85, CD: 0.6141},
	{Mach: 1.90, CD: 0.6072},
	{Mach: 1.95, CD: 0.6003},
	{Mach: 2.00, CD: 0.5934},
	{Mach: 2.05, CD: 0.5867},
	{Mach: 2.10, CD: 0.5804},
	{Mach: 2.15, CD: 0.5743},
	{Mach: 2.20, CD: 0.5685},
	{Mach: 2.25, CD: 0.5630},
	{Mach: 2.30, CD: 0.5577},
	{Mach: 2.35, CD: 0.5527},
	{Mach: 2.40, CD: 0.5481},
	{Mach: 2.45, CD: 0.5438},
	{Mach: 2.50, CD: 0.5397},
	{Mach: 2.60, CD: 0.5325},
	{Mach: 2.70, CD: 0.5264},
	{Mach: 2.80, CD: 0.5211},
	{Mach: 2.90, CD: 0.5168},
	{Mach: 3.00, CD: 0.5133},
	{Mach: 3.10, CD: 0.5105},
	{Mach: 3.20, CD: 0.5084},
	{Mach: 3.30, CD: 0.5067},
	{Mach: 3.40, CD: 0.5054},
	{Mach: 3.50, CD: 0.5040},
	{Mach: 3.60, CD: 0.5030},
	{Mach: 3.70, CD: 0.5022},
	{Mach: 3.80, CD: 0.5016},
	{Mach: 3.90, CD: 0.5010},
	{Mach: 4.00, CD: 0.5006},
	{Mach: 4.20, CD: 0.4998},
	{Mach: 4.40, CD: 0.4995},
	{Mach: 4.60, CD: 0.4992},
	{Mach: 4.80, CD: 0.4990},
	{Mach: 5.00, CD: 0.4988},
}

var g7Table = []DragDataPoint{
	{Mach: 0.00, CD: 0.1198},
	{Mach: 0.05, CD: 0.1197},
	{Mach: 0.10, CD: 0.1196},
	{Mach: 0.15, CD: 0.1194},
	{Mach: 0.20, CD: 0.1193},
	{Mach: 0.25, CD: 0.1194},
	{Mach: 0.30, CD: 0.1194},
	{Mach: 0.35, CD: 0.1194},
	{Mach: 0.40, CD: 0.1193},
	{Mach: 0.45, CD: 0.1193},
	{Mach: 0.50, CD: 0.1194},
	{Mach: 0.55, CD: 0.1193},
	{Mach: 0.60, CD: 0.1194},
	{Mach: 0.65, CD: 0.1197},
	{Mach: 0.70, CD: 0.1202},
	{Mach: 0.725, CD: 0.1207},
	{Mach: 0.75, CD: 0.1215},
	{Mach: 0.775, CD: 0.1226},
	{Mach: 0.80, CD: 0.1242},
	{Mach: 0.825, CD: 0.1266},
	{Mach: 0.85, CD: 0.1306},
	{Mach: 0.875, CD: 0.1368},
	{Mach: 0.90, CD: 0.1464},
	{Mach: 0.925, CD: 0.1660},
	{Mach: 0.95, CD: 0.2054},
	{Mach: 0.975, CD: 0.2993},
	{Mach: 1.0, CD: 0.3803},
	{Mach: 1.025, CD: 0.4015},
	{Mach: 1.05, CD: 0.4043},
	{Mach: 1.075, CD: 0.4034},
	{Mach: 1.10, CD: 0.4014},
	{Mach: 1.125, CD: 0.3987},
	{Mach: 1.15, CD: 0.3955},
	{Mach: 1.20, CD: 0.3884},
	{Mach: 1.25, CD: 0.3810},
	{Mach: 1.30, CD: 0.3732},
	{Mach: 1.35, CD: 0.3657},
	{Mach: 1.40, CD: 0.3580},
	{Mach: 1.50, CD: 0.3440},
	{Mach: 1.55, CD: 0.3376},
	{Mach: 1.60, CD: 0.3315},
	{Mach: 1.65, CD: 0.3260},
	{Mach: 1.70, CD: 0.3209},
	{Mach: 1.75, CD: 0.3160},
	{Mach: 1.80, CD: 0.3117},
	{Mach: 1.85, CD: 0.3078},
	{Mach: 1.90, CD: 0.3042},
	{Mach: 1.95, CD: 0.3010},
	{Mach: 2.00, CD: 0.2980},
	{Mach: 2.05, CD: 0.2951},
	{Mach: 2.10, CD: 0.2922},
	{Mach: 2.15, CD: 0.2892},
	{Mach: 2.20, CD: 0.2864},
	{Mach: 2.25, CD: 0.2835},
	{Mach: 2.30, CD: 0.2807},
	{Mach: 2.35, CD: 0.2779},
	{Mach: 2.40, CD: 0.2752},
	{Mach: 2.45, CD: 0.2725},
	{Mach: 2.50, CD: 0.2697},
	{Mach: 2.55, CD: 0.2670},
	{Mach: 2.60, CD: 0.2643},
	{Mach: 2.65, CD: 0.2615},
	{Mach: 2.70, CD: 0.2588},
	{Mach: 2.75, CD: 0.2561},
	{Mach: 2.80, CD: 0.2533},
	{Mach: 2.85, CD: 0.2506},
	{Mach: 2.90, CD: 0.2479},
	{Mach: 2.95, CD: 0.2451},
	{Mach: 3.00, CD: 0.2424},
	{Mach: 3.10, CD: 0.2368},
	{Mach: 3.20, CD: 0.2313},
	{Mach: 3.30, CD: 0.2258},
	{Mach: 3.40, CD: 0.2205},
	{Mach: 3.50, CD: 0.2154},
	{Mach: 3.60, CD: 0.2106},
	{Mach: 3.70, CD: 0.2060},
	{Mach: 3.80, CD: 0.2017},
	{Mach: 3.90, CD: 0.1975},
	{Mach: 4.00, CD: 0.1935},
	{Mach: 4.20, CD: 0.1861},
	{Mach: 4.40, CD: 0.1793},
	{Mach: 4.60, CD: 0.1730},
	{Mach: 4.80, CD: 0.1672},
	{Mach: 5.00, CD: 0.1618},
}
