package go_ballisticengine

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticengine/bmath/vector"
)

//WindSegment describes a constant wind acting until the projectile reaches
//the untilDistance downrange position
type WindSegment struct {
	Velocity      float64 //feet per second
	Direction     float64 //radians, 0 - along the shot line, pi/2 - from the right
	UntilDistance float64 //feet
}

//Vector returns the wind velocity vector of the segment
func (v WindSegment) Vector() vector.Vector {
	return vector.Create(v.Velocity*math.Cos(v.Direction), 0, v.Velocity*math.Sin(v.Direction))
}

//WindTimeline exposes the wind vector acting at a downrange position over an
//ordered list of wind segments.
//
//The cursor only ever moves forward: integration queries arrive in
//increasing downrange order, so a passed segment is never re-evaluated.
type WindTimeline struct {
	segments  []WindSegment
	current   int
	nextRange float64
	vector    vector.Vector
}

//CreateWindTimeline creates a timeline over the segments given.
//
//Segments must be ordered by increasing untilDistance; once the projectile is
//past the last segment the wind is zero.
func CreateWindTimeline(segments ...WindSegment) *WindTimeline {
	t := &WindTimeline{segments: segments}
	if len(segments) == 0 {
		t.nextRange = math.Inf(1)
		return t
	}
	t.vector = segments[0].Vector()
	t.nextRange = segments[0].UntilDistance
	return t
}

//CreateNoWind creates a timeline with no wind
func CreateNoWind() *WindTimeline {
	return CreateWindTimeline()
}

//VectorForRange returns the wind vector acting at the downrange position
//given in feet
func (t *WindTimeline) VectorForRange(distance float64) vector.Vector {
	for distance >= t.nextRange {
		t.current++
		if t.current >= len(t.segments) {
			t.vector = vector.Create(0, 0, 0)
			t.nextRange = math.Inf(1)
			break
		}
		t.vector = t.segments[t.current].Vector()
		t.nextRange = t.segments[t.current].UntilDistance
	}
	return t.vector
}
