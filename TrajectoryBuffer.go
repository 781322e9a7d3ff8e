package go_ballisticengine

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticengine/bmath/vector"
)

const cInitialBufferCapacity int = 64
const cExactKeyEpsilon float64 = 1e-9

//TrajectorySample keeps one physical state snapshot of the projectile
type TrajectorySample struct {
	Time     float64       //seconds since the shot
	Position vector.Vector //feet, X - downrange, Y - up, Z - cross
	Velocity vector.Vector //feet per second
	Mach     float64       //velocity expressed in the local speed of sound
}

//SampleKey identifies the field of a trajectory sample used as the lookup and
//interpolation key
type SampleKey int

const (
	KeyTime SampleKey = iota
	KeyPosX
	KeyPosY
	KeyPosZ
	KeyVelX
	KeyVelY
	KeyVelZ
	KeyMach
)

//keyNone marks projected lookups (e.g. slant height) that do not correspond
//to a stored field
const keyNone SampleKey = -1

//trajRecord is the packed in-buffer representation of a sample
type trajRecord struct {
	time, px, py, pz, vx, vy, vz, mach float64
}

func (r *trajRecord) keyValue(key SampleKey) float64 {
	switch key {
	case KeyTime:
		return r.time
	case KeyPosX:
		return r.px
	case KeyPosY:
		return r.py
	case KeyPosZ:
		return r.pz
	case KeyVelX:
		return r.vx
	case KeyVelY:
		return r.vy
	case KeyVelZ:
		return r.vz
	case KeyMach:
		return r.mach
	default:
		return math.NaN()
	}
}

//slant projects the position onto the axis perpendicular to a line of sight
//at the look angle given by its sine and cosine
func (r *trajRecord) slant(sinLook, cosLook float64) float64 {
	return r.py*cosLook - r.px*sinLook
}

func (r *trajRecord) sample() TrajectorySample {
	return TrajectorySample{
		Time:     r.time,
		Position: vector.Create(r.px, r.py, r.pz),
		Velocity: vector.Create(r.vx, r.vy, r.vz),
		Mach:     r.mach,
	}
}

//TrajectoryBuffer is a growable contiguous sequence of trajectory samples.
//
//The buffer is created empty at the start of an integration run and owned by
//that run's caller; it must not be shared between concurrent runs. Elements
//are only ever appended, never rewritten in place.
type TrajectoryBuffer struct {
	records []trajRecord //allocated to capacity
	length  int
}

//CreateTrajectoryBuffer creates an empty trajectory buffer
func CreateTrajectoryBuffer() *TrajectoryBuffer {
	return &TrajectoryBuffer{}
}

//Len returns the number of samples stored
func (b *TrajectoryBuffer) Len() int {
	return b.length
}

//EnsureCapacity grows the buffer so it can hold at least min samples.
//
//Growth allocates a new backing array, copies the existing elements and only
//then replaces the old one, so previously stored data survives any growth.
func (b *TrajectoryBuffer) EnsureCapacity(min int) {
	if min <= cap(b.records) {
		return
	}
	capacity := len(b.records) * 2
	if capacity < cInitialBufferCapacity {
		capacity = cInitialBufferCapacity
	}
	if capacity < min {
		capacity = min
	}
	grown := make([]trajRecord, capacity)
	copy(grown, b.records[:b.length])
	b.records = grown
}

//Append stores one sample at the end of the buffer
func (b *TrajectoryBuffer) Append(s TrajectorySample) {
	b.appendRaw(s.Time, s.Position, s.Velocity, s.Mach)
}

func (b *TrajectoryBuffer) appendRaw(time float64, position, velocity vector.Vector, mach float64) {
	b.EnsureCapacity(b.length + 1)
	r := &b.records[b.length]
	r.time = time
	r.px, r.py, r.pz = position.X, position.Y, position.Z
	r.vx, r.vy, r.vz = velocity.X, velocity.Y, velocity.Z
	r.mach = mach
	b.length++
}

//resolveIndex maps a possibly negative index onto the stored range.
//Negative indices count from the end, so -1 is the last sample.
func (b *TrajectoryBuffer) resolveIndex(i int) (int, error) {
	if i < 0 {
		i += b.length
	}
	if i < 0 || i >= b.length {
		return 0, ErrIndexOutOfRange
	}
	return i, nil
}

//ItemAt returns the sample at the index given.
//
//Negative indices count from the end of the buffer.
func (b *TrajectoryBuffer) ItemAt(i int) (TrajectorySample, error) {
	idx, err := b.resolveIndex(i)
	if err != nil {
		return TrajectorySample{}, err
	}
	return b.records[idx].sample(), nil
}

//interpolateProjected builds an interpolated sample centered at the interior
//index given, using keyFn as the interpolation abscissa.
//
//When the key is a stored field that equals the query key (time or mach), the
//corresponding output field is set to the query value exactly instead of
//being recomputed through the curve.
func (b *TrajectoryBuffer) interpolateProjected(center int, keyFn func(*trajRecord) float64, exact SampleKey, value float64) (TrajectorySample, error) {
	if center < 1 || center > b.length-2 {
		return TrajectorySample{}, ErrIndexOutOfRange
	}

	r0 := &b.records[center-1]
	r1 := &b.records[center]
	r2 := &b.records[center+1]
	k0, k1, k2 := keyFn(r0), keyFn(r1), keyFn(r2)

	fields := [8][3]float64{
		{r0.time, r1.time, r2.time},
		{r0.px, r1.px, r2.px},
		{r0.py, r1.py, r2.py},
		{r0.pz, r1.pz, r2.pz},
		{r0.vx, r1.vx, r2.vx},
		{r0.vy, r1.vy, r2.vy},
		{r0.vz, r1.vz, r2.vz},
		{r0.mach, r1.mach, r2.mach},
	}

	var out [8]float64
	for i := range fields {
		v, err := interpolate3pt(value, k0, fields[i][0], k1, fields[i][1], k2, fields[i][2])
		if err != nil {
			return TrajectorySample{}, err
		}
		out[i] = v
	}

	s := TrajectorySample{
		Time:     out[0],
		Position: vector.Create(out[1], out[2], out[3]),
		Velocity: vector.Create(out[4], out[5], out[6]),
		Mach:     out[7],
	}
	switch exact {
	case KeyTime:
		s.Time = value
	case KeyMach:
		s.Mach = value
	}
	return s, nil
}

//scanBracket looks for a pair of adjacent samples whose key values bracket
//the target, scanning forward from start to the end and then backward to the
//beginning. Returns the left index of the bracket.
func (b *TrajectoryBuffer) scanBracket(start int, keyFn func(*trajRecord) float64, value float64) (int, bool) {
	bracketed := func(i int) bool {
		a := keyFn(&b.records[i]) - value
		c := keyFn(&b.records[i+1]) - value
		return a*c <= 0
	}
	for i := start; i+1 < b.length; i++ {
		if bracketed(i) {
			return i, true
		}
	}
	for i := start - 1; i >= 0; i-- {
		if bracketed(i) {
			return i, true
		}
	}
	return 0, false
}

//GetAt returns the sample at which the key field reaches the value given,
//interpolating between stored samples when no exact match exists.
//
//startFromTime narrows the search to the part of the trajectory at or after
//that time; pass a negative value to search the whole run. When a stored
//sample's key is within 1e-9 of the query the sample is returned as-is,
//avoiding a needless cubic evaluation.
func (b *TrajectoryBuffer) GetAt(key SampleKey, value float64, startFromTime float64) (TrajectorySample, error) {
	if b.length < 3 {
		return TrajectorySample{}, ErrInsufficientPoints
	}

	keyFn := func(r *trajRecord) float64 { return r.keyValue(key) }

	if startFromTime >= 0 && key != KeyTime {
		start := 0
		for start < b.length && b.records[start].time < startFromTime {
			start++
		}
		if start >= b.length {
			start = b.length - 1
		}
		if idx, ok := b.scanBracket(start, keyFn, value); ok {
			if math.Abs(keyFn(&b.records[idx])-value) < cExactKeyEpsilon {
				return b.records[idx].sample(), nil
			}
			if math.Abs(keyFn(&b.records[idx+1])-value) < cExactKeyEpsilon {
				return b.records[idx+1].sample(), nil
			}
		}
	}

	center, err := bisectCenterIndex(b.length, func(i int) float64 { return b.records[i].keyValue(key) }, value)
	if err != nil {
		return TrajectorySample{}, err
	}
	if math.Abs(b.records[center].keyValue(key)-value) < cExactKeyEpsilon {
		return b.records[center].sample(), nil
	}
	return b.interpolateProjected(center, keyFn, key, value)
}

//GetAtSlantHeight returns the sample at which the slant height relative to a
//line of sight at lookAngle reaches the value given.
//
//The slant projection p.y*cos(a) - p.x*sin(a) substitutes for a stored field
//wherever the key lookup is used, so bisection and interpolation behave
//exactly as for stored keys.
func (b *TrajectoryBuffer) GetAtSlantHeight(lookAngle, value float64) (TrajectorySample, error) {
	if b.length < 3 {
		return TrajectorySample{}, ErrInsufficientPoints
	}

	sinLook := math.Sin(lookAngle)
	cosLook := math.Cos(lookAngle)
	keyFn := func(r *trajRecord) float64 { return r.slant(sinLook, cosLook) }

	center, err := bisectCenterIndex(b.length, func(i int) float64 { return b.records[i].slant(sinLook, cosLook) }, value)
	if err != nil {
		return TrajectorySample{}, err
	}
	if math.Abs(keyFn(&b.records[center])-value) < cExactKeyEpsilon {
		return b.records[center].sample(), nil
	}
	return b.interpolateProjected(center, keyFn, keyNone, value)
}
