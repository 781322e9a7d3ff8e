package go_ballisticengine

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticengine/bmath/vector"
)

//TerminationReason is the cause an integration run ended with
type TerminationReason int

const (
	//TerminationRangeLimit is the ordinary termination: the projectile
	//covered the requested range
	TerminationRangeLimit TerminationReason = iota
	//TerminationMinimumVelocity - the projectile slowed below the configured
	//minimum velocity
	TerminationMinimumVelocity
	//TerminationMaximumDrop - the descending projectile fell below the
	//configured maximum drop
	TerminationMaximumDrop
	//TerminationMinimumAltitude - the descending projectile fell below the
	//configured minimum altitude
	TerminationMinimumAltitude
)

func (r TerminationReason) String() string {
	switch r {
	case TerminationRangeLimit:
		return "range_limit"
	case TerminationMinimumVelocity:
		return "minimum_velocity"
	case TerminationMaximumDrop:
		return "maximum_drop"
	case TerminationMinimumAltitude:
		return "minimum_altitude"
	default:
		return "unknown"
	}
}

//Integrator advances a shot through one full integration run, appending raw
//samples to the buffer and feeding the filter when one is given.
//
//The engine invokes its integrator only through this interface, so
//alternative integration schemes can be substituted at engine construction
//without changing any caller.
type Integrator interface {
	Integrate(e *Engine, rangeLimit float64, filter *TrajectoryDataFilter, buffer *TrajectoryBuffer) (TerminationReason, error)
}

//RK4Integrator advances the projectile state with the classical four-stage
//Runge-Kutta scheme over the ODE
//
//	dv/dt = gravity - k*|v_rel|*v_rel + coriolis(v)
//	dp/dt = v
//
//where v_rel is the velocity relative to the wind and k combines the local
//density ratio with the drag-curve retardation at the relative Mach number.
type RK4Integrator struct{}

//Integrate runs the shot until a termination condition fires.
//
//Wind, density ratio and speed of sound are refreshed once per step and held
//constant across the four stages. The pre-step state is appended before each
//advance, and the post-loop state is appended unconditionally, so the buffer
//always holds at least one point beyond a naturally-triggered termination.
func (RK4Integrator) Integrate(e *Engine, rangeLimit float64, filter *TrajectoryDataFilter, buffer *TrajectoryBuffer) (TerminationReason, error) {
	shot := e.Shot
	cfg := &e.Config

	if shot.MuzzleVelocity <= 0 {
		return 0, newValueError("Integrate: muzzle velocity must be greater than zero")
	}

	calcStep := shot.CalcStep
	if calcStep <= 0 || calcStep > cfg.MaximumCalculatorStepSize {
		calcStep = cfg.MaximumCalculatorStepSize
	}
	h := calcStep / shot.MuzzleVelocity

	gravity := vector.Create(0, cfg.GravityConstant, 0)
	winds := CreateWindTimeline(e.Winds...)
	atmo := &shot.Atmosphere
	alt0 := atmo.Altitude()

	pos := vector.Create(0,
		-math.Cos(shot.CantAngle)*shot.SightHeight,
		-math.Sin(shot.CantAngle)*shot.SightHeight)
	vel := vector.Create(
		math.Cos(shot.BarrelElevation)*math.Cos(shot.BarrelAzimuth),
		math.Sin(shot.BarrelElevation),
		math.Cos(shot.BarrelElevation)*math.Sin(shot.BarrelAzimuth),
	).MultiplyByConst(shot.MuzzleVelocity)
	time := 0.0

	record := func(s TrajectorySample) error {
		buffer.Append(s)
		if filter != nil {
			return filter.Record(s)
		}
		return nil
	}

	var reason TerminationReason
	var mach1 float64
	steps := 0

	for {
		wind := winds.VectorForRange(pos.X)
		var density float64
		density, mach1 = atmo.DensityAndMachAtAltitude(alt0 + pos.Y)
		if mach1 <= 0 {
			return 0, newValueError("Integrate: zero speed of sound at altitude %.1f ft", alt0+pos.Y)
		}

		if err := record(TrajectorySample{Time: time, Position: pos, Velocity: vel, Mach: vel.Magnitude() / mach1}); err != nil {
			return 0, err
		}

		accel := func(v vector.Vector) vector.Vector {
			vrel := v.Subtract(wind)
			speed := vrel.Magnitude()
			drag := density * shot.DragByMach(speed/mach1) * speed
			a := gravity.Subtract(vrel.MultiplyByConst(drag))
			if shot.Coriolis.Enabled() {
				a = a.Add(shot.Coriolis.Acceleration(v))
			}
			return a
		}

		k1v := accel(vel)
		k1p := vel
		k2p := vel.Add(k1v.MultiplyByConst(h / 2))
		k2v := accel(k2p)
		k3p := vel.Add(k2v.MultiplyByConst(h / 2))
		k3v := accel(k3p)
		k4p := vel.Add(k3v.MultiplyByConst(h))
		k4v := accel(k4p)

		vel = vel.Add(k1v.Add(k2v.MultiplyByConst(2)).Add(k3v.MultiplyByConst(2)).Add(k4v).MultiplyByConst(h / 6))
		pos = pos.Add(k1p.Add(k2p.MultiplyByConst(2)).Add(k3p.MultiplyByConst(2)).Add(k4p).MultiplyByConst(h / 6))
		time += h
		steps++

		//termination conditions, checked in order
		if cfg.MinimumVelocity > 0 && vel.Magnitude() < cfg.MinimumVelocity {
			reason = TerminationMinimumVelocity
			break
		}
		if vel.Y <= 0 && pos.Y < cfg.MaximumDrop {
			reason = TerminationMaximumDrop
			break
		}
		if vel.Y <= 0 && alt0+pos.Y < cfg.MinimumAltitude {
			reason = TerminationMinimumAltitude
			break
		}
		//at least 3 points must exist before the range limit may fire, so
		//that downstream 3-point interpolation always has a triple
		if steps >= 3 && pos.X >= rangeLimit {
			reason = TerminationRangeLimit
			break
		}
	}

	_, mach1 = atmo.DensityAndMachAtAltitude(alt0 + pos.Y)
	if err := record(TrajectorySample{Time: time, Position: pos, Velocity: vel, Mach: vel.Magnitude() / mach1}); err != nil {
		return 0, err
	}

	e.stepCount += uint64(steps)
	integrationStepsTotal.Add(float64(steps))
	integrationRunsTotal.WithLabelValues(reason.String()).Inc()
	return reason, nil
}
