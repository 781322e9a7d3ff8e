package go_ballisticengine

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticengine/bmath/vector"
)

//cFilterStepEpsilon is the tolerance within which a raw sample is taken as a
//scheduled boundary instead of interpolating
const cFilterStepEpsilon float64 = 1e-6

//interpolateSampleTriple builds an interpolated sample from three consecutive
//samples using keyFn as the interpolation abscissa.
//
//When the key is the time or mach field, that field is set to the query value
//exactly instead of being recomputed through the curve.
func interpolateSampleTriple(s0, s1, s2 TrajectorySample, keyFn func(TrajectorySample) float64, exact SampleKey, value float64) (TrajectorySample, error) {
	k0, k1, k2 := keyFn(s0), keyFn(s1), keyFn(s2)

	fields := [8][3]float64{
		{s0.Time, s1.Time, s2.Time},
		{s0.Position.X, s1.Position.X, s2.Position.X},
		{s0.Position.Y, s1.Position.Y, s2.Position.Y},
		{s0.Position.Z, s1.Position.Z, s2.Position.Z},
		{s0.Velocity.X, s1.Velocity.X, s2.Velocity.X},
		{s0.Velocity.Y, s1.Velocity.Y, s2.Velocity.Y},
		{s0.Velocity.Z, s1.Velocity.Z, s2.Velocity.Z},
		{s0.Mach, s1.Mach, s2.Mach},
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

//TrajectoryDataFilter reduces the raw integration sample stream to the rows
//a user cares about: scheduled range and time boundaries, the apex, the
//transonic transition and the line-of-sight crossings.
//
//The filter is stateful: it consumes one sample per integration step in
//arrival order, keeps the previous two samples for three-point interpolation
//at crossing points, and disarms each one-shot detection after it fires.
type TrajectoryDataFilter struct {
	records RecordList
	filter  TrajectoryFlag

	rangeStep         float64
	rangeLimit        float64
	nextRangeDistance float64
	timeStep          float64
	nextRecordTime    float64

	lookAngle float64
	sinLook   float64
	cosLook   float64

	prev, prev2 TrajectorySample
	seen        int
}

//CreateTrajectoryDataFilter creates a filter emitting the row kinds requested
//by the filter flags.
//
//rangeStep and timeStep schedule boundary rows and are ignored when zero;
//rangeLimit stops range-step scheduling once a boundary would exceed it;
//lookAngle defines the line of sight for zero-crossing detection.
func CreateTrajectoryDataFilter(filter TrajectoryFlag, rangeStep, timeStep, rangeLimit, lookAngle float64) *TrajectoryDataFilter {
	f := &TrajectoryDataFilter{
		filter:     filter,
		rangeStep:  rangeStep,
		timeStep:   timeStep,
		rangeLimit: rangeLimit,
		lookAngle:  lookAngle,
		sinLook:    math.Sin(lookAngle),
		cosLook:    math.Cos(lookAngle),
	}
	if rangeStep <= 0 {
		f.filter &^= FlagRangeStep
	}
	if timeStep <= 0 {
		f.filter &^= FlagTimeStep
	}
	return f
}

//Records returns the collected rows ordered by time
func (f *TrajectoryDataFilter) Records() []TrajectoryRow {
	return f.records.Rows()
}

func (f *TrajectoryDataFilter) slant(s TrajectorySample) float64 {
	return s.Position.Y*f.cosLook - s.Position.X*f.sinLook
}

//Record consumes the next raw sample, emitting zero or more rows
func (f *TrajectoryDataFilter) Record(s TrajectorySample) error {
	defer func() {
		f.prev2 = f.prev
		f.prev = s
		f.seen++
	}()

	if f.seen == 0 {
		flags := FlagNone
		if f.filter.Has(FlagRangeStep) {
			flags = FlagRangeStep
			f.nextRangeDistance = f.rangeStep
		}
		if f.filter.Has(FlagTimeStep) {
			f.nextRecordTime = f.timeStep
		}
		f.records.Insert(TrajectoryRow{Sample: s, Flags: flags})
		return nil
	}

	if err := f.recordRangeSteps(s); err != nil {
		return err
	}
	if err := f.recordTimeSteps(s); err != nil {
		return err
	}
	if err := f.recordApex(s); err != nil {
		return err
	}
	if err := f.recordMachCrossing(s); err != nil {
		return err
	}
	return f.recordZeroCrossing(s)
}

func (f *TrajectoryDataFilter) recordRangeSteps(s TrajectorySample) error {
	if !f.filter.Has(FlagRangeStep) {
		return nil
	}
	for f.nextRangeDistance <= s.Position.X {
		var row TrajectorySample
		if f.seen < 2 || math.Abs(s.Position.X-f.nextRangeDistance) < cFilterStepEpsilon {
			row = s
		} else {
			var err error
			row, err = interpolateSampleTriple(f.prev2, f.prev, s,
				func(p TrajectorySample) float64 { return p.Position.X },
				KeyPosX, f.nextRangeDistance)
			if err != nil {
				return err
			}
		}
		f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagRangeStep})

		f.nextRangeDistance += f.rangeStep
		if f.nextRangeDistance > f.rangeLimit+cFilterStepEpsilon {
			f.filter &^= FlagRangeStep
			break
		}
	}
	return nil
}

func (f *TrajectoryDataFilter) recordTimeSteps(s TrajectorySample) error {
	if !f.filter.Has(FlagTimeStep) || f.seen < 2 {
		return nil
	}
	for f.nextRecordTime <= s.Time {
		row, err := interpolateSampleTriple(f.prev2, f.prev, s,
			func(p TrajectorySample) float64 { return p.Time },
			KeyTime, f.nextRecordTime)
		if err != nil {
			return err
		}
		f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagTimeStep})
		f.nextRecordTime += f.timeStep
	}
	return nil
}

func (f *TrajectoryDataFilter) recordApex(s TrajectorySample) error {
	if !f.filter.Has(FlagApex) || f.seen < 2 {
		return nil
	}
	if !(f.prev.Velocity.Y > 0 && s.Velocity.Y <= 0) {
		return nil
	}
	row, err := interpolateSampleTriple(f.prev2, f.prev, s,
		func(p TrajectorySample) float64 { return p.Velocity.Y },
		KeyVelY, 0)
	if err != nil {
		return err
	}
	f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagApex})
	f.filter &^= FlagApex
	return nil
}

func (f *TrajectoryDataFilter) recordMachCrossing(s TrajectorySample) error {
	if !f.filter.Has(FlagMach) || f.seen < 2 {
		return nil
	}
	//a crossing needs an actual transition, a shot that never went
	//supersonic has no transonic point to mark
	if !(f.prev.Mach >= 1.0 && s.Mach < 1.0) {
		return nil
	}
	row, err := interpolateSampleTriple(f.prev2, f.prev, s,
		func(p TrajectorySample) float64 { return p.Mach },
		KeyMach, 1.0)
	if err != nil {
		return err
	}
	f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagMach})
	f.filter &^= FlagMach
	return nil
}

func (f *TrajectoryDataFilter) recordZeroCrossing(s TrajectorySample) error {
	if f.filter&FlagZero == 0 || f.seen < 2 {
		return nil
	}

	prevSlant := f.slant(f.prev)
	curSlant := f.slant(s)
	slantKey := func(p TrajectorySample) float64 { return f.slant(p) }

	if f.filter.Has(FlagZeroUp) && prevSlant < 0 && curSlant >= 0 {
		row, err := interpolateSampleTriple(f.prev2, f.prev, s, slantKey, keyNone, 0)
		if err != nil {
			return err
		}
		f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagZeroUp})
		f.filter &^= FlagZeroUp
		return nil
	}
	if f.filter.Has(FlagZeroDown) && prevSlant > 0 && curSlant <= 0 {
		row, err := interpolateSampleTriple(f.prev2, f.prev, s, slantKey, keyNone, 0)
		if err != nil {
			return err
		}
		f.records.Insert(TrajectoryRow{Sample: row, Flags: FlagZeroDown})
		f.filter &^= FlagZeroDown
	}
	return nil
}
