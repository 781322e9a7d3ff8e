package go_ballisticengine

import (
	"fmt"
	"math"
)

//cUnlimitedRange substitutes for the range limit when a solver needs the
//trajectory to run until a physical termination condition fires
const cUnlimitedRange float64 = 9e9

//cNearVerticalAngle is the look angle beyond which a shot is treated as
//vertical by the solvers
const cNearVerticalAngle float64 = 89.0 * math.Pi / 180

//cGoldenRatioInverse is the inverse golden ratio used by the max-range search
const cGoldenRatioInverse float64 = 0.6180339887498949

//cMaxRangeIterations caps the golden-section search
const cMaxRangeIterations int = 100

//cMaxRangeBracketTolerance is the bracket width, in degrees, at which the
//golden-section search stops
const cMaxRangeBracketTolerance float64 = 1e-5

//cAngleConvergence is the angle update, in radians, below which successive
//zero-angle iterations are considered converged
const cAngleConvergence float64 = 1e-9

//cNarrowBracketFallback is the residual bracket width, in radians, accepted
//as a zero when the root finder ran out of iterations
const cNarrowBracketFallback float64 = 1e-6

//cMinimumDamping is the damping floor of the iterative zero solver; once
//halving would go below it the solver reports failure instead
const cMinimumDamping float64 = 0.3

//Engine drives one shot's worth of trajectory queries.
//
//An engine bundles the tuning config, the shot properties, the wind segments
//and the active integrator. It is used by exactly one logical call chain at a
//time; hosts computing multiple shots concurrently must use independent
//engines. Solvers temporarily override parts of the config and restore them
//on every exit path.
type Engine struct {
	Config Config
	Shot   *ShotProperties
	Winds  []WindSegment

	integrator Integrator
	stepCount  uint64
}

//CreateEngine creates an engine for the shot given.
//
//A nil integrator selects the built-in RK4 scheme.
func CreateEngine(config Config, shot *ShotProperties, winds []WindSegment, integrator Integrator) *Engine {
	if integrator == nil {
		integrator = RK4Integrator{}
	}
	return &Engine{
		Config:     config,
		Shot:       shot,
		Winds:      winds,
		integrator: integrator,
	}
}

//StepCount returns the total number of integration steps the engine has
//performed over all runs
func (e *Engine) StepCount() uint64 {
	return e.stepCount
}

//runIntegration performs one integration run into a fresh buffer, feeding a
//filter when any filter flags are requested
func (e *Engine) runIntegration(rangeLimit, rangeStep, timeStep float64, flags TrajectoryFlag) (*TrajectoryBuffer, *TrajectoryDataFilter, TerminationReason, error) {
	buffer := CreateTrajectoryBuffer()
	var filter *TrajectoryDataFilter
	if flags != FlagNone {
		filter = CreateTrajectoryDataFilter(flags, rangeStep, timeStep, rangeLimit, e.Shot.LookAngle)
	}
	reason, err := e.integrator.Integrate(e, rangeLimit, filter, buffer)
	return buffer, filter, reason, err
}

//Trajectory integrates the shot out to rangeLimit feet and returns the
//filtered trajectory rows.
//
//rangeStep and timeStep schedule boundary rows; flags select which row kinds
//are emitted. The termination reason reports why the run ended.
//
//When the shot carries a stability coefficient (see
//ShotProperties.UpdateStabilityCoefficient) the spin-drift displacement is
//folded into the cross position of every returned row.
func (e *Engine) Trajectory(rangeLimit, rangeStep, timeStep float64, flags TrajectoryFlag) ([]TrajectoryRow, TerminationReason, error) {
	if flags == FlagNone {
		flags = FlagRangeStep
	}
	if flags.Has(FlagRangeStep) && rangeStep <= 0 {
		rangeStep = e.Config.ChartResolution
	}
	_, filter, reason, err := e.runIntegration(rangeLimit, rangeStep, timeStep, flags)
	if err != nil {
		return nil, reason, fmt.Errorf("Trajectory: %w", err)
	}
	rows := filter.Records()
	if e.Shot.StabilityCoefficient != 0 {
		for i := range rows {
			rows[i].Sample.Position.Z += e.Shot.SpinDrift(rows[i].Sample.Time)
		}
	}
	return rows, reason, nil
}

//Apex integrates the shot without a range limit and returns the trajectory
//point where vertical velocity crosses zero.
//
//The minimum-velocity termination is disabled for the duration of the run so
//slow lofted shots still reach their apex; the config is restored on every
//exit path.
func (e *Engine) Apex() (TrajectorySample, error) {
	if e.Shot.BarrelElevation <= 0 {
		return TrajectorySample{}, newValueError("Apex: barrel elevation must be positive to have an apex")
	}

	saved := e.Config
	defer func() { e.Config = saved }()
	e.Config.MinimumVelocity = 0

	buffer, _, _, err := e.runIntegration(cUnlimitedRange, 0, 0, FlagApex)
	if err != nil {
		return TrajectorySample{}, fmt.Errorf("Apex: %w", err)
	}

	apex, err := buffer.GetAt(KeyVelY, 0, -1)
	if err != nil {
		return TrajectorySample{}, fmt.Errorf("Apex: %w", err)
	}
	return apex, nil
}

//errorAtDistance integrates at the barrel elevation given and returns the
//signed miss at the target: the height error when the target distance was
//reached, reduced by the shortfall when it was not. Root finders rely on the
//value staying negative beyond the maximum range.
func (e *Engine) errorAtDistance(angle, targetX, targetY float64) (float64, error) {
	e.Shot.BarrelElevation = angle
	buffer, _, _, err := e.runIntegration(targetX, 0, 0, FlagNone)
	if err != nil {
		return 0, err
	}
	if buffer.Len() < 3 {
		return 0, ErrInsufficientPoints
	}
	last, err := buffer.ItemAt(-1)
	if err != nil {
		return 0, err
	}
	if last.Time == 0 {
		return 0, newValueError("errorAtDistance: integration produced no time advance")
	}

	if last.Position.X < targetX {
		return (last.Position.Y - targetY) - (targetX - last.Position.X), nil
	}
	s, err := buffer.GetAt(KeyPosX, targetX, -1)
	if err != nil {
		return 0, err
	}
	return s.Position.Y - targetY, nil
}

//rangeForAngle integrates at the barrel elevation given and returns the
//slant distance at which the trajectory last crosses the line of sight from
//above, scanning the completed run backward and linearly interpolating the
//crossing.
func (e *Engine) rangeForAngle(angle float64) (float64, error) {
	e.Shot.BarrelElevation = angle
	buffer, _, _, err := e.runIntegration(cUnlimitedRange, 0, 0, FlagNone)
	if err != nil {
		return 0, err
	}

	sinLook := math.Sin(e.Shot.LookAngle)
	cosLook := math.Cos(e.Shot.LookAngle)

	for i := buffer.Len() - 1; i >= 1; i-- {
		cur := &buffer.records[i]
		prev := &buffer.records[i-1]
		sc := cur.slant(sinLook, cosLook)
		sp := prev.slant(sinLook, cosLook)
		if sc <= 0 && sp > 0 {
			x, err := interpolate2pt(0, sp, prev.px, sc, cur.px)
			if err != nil {
				return 0, err
			}
			return x / cosLook, nil
		}
	}
	return 0, nil
}

//MaxRange finds the barrel elevation maximizing the slant distance along the
//line of sight and returns that distance together with the elevation.
//
//Near-vertical look angles shortcut to the apex slant distance. Otherwise a
//golden-section search runs over the elevation in degrees between the look
//angle and the vertical; the max-drop and minimum-velocity terminations are
//disabled while searching and restored on every exit path.
func (e *Engine) MaxRange() (float64, float64, error) {
	look := e.Shot.LookAngle

	if look >= cNearVerticalAngle {
		savedElevation := e.Shot.BarrelElevation
		defer func() { e.Shot.BarrelElevation = savedElevation }()
		e.Shot.BarrelElevation = look

		apex, err := e.Apex()
		if err != nil {
			return 0, 0, fmt.Errorf("MaxRange: %w", err)
		}
		slantDistance := apex.Position.X*math.Cos(look) + apex.Position.Y*math.Sin(look)
		lastMaxRangeGauge.Set(slantDistance)
		return slantDistance, look, nil
	}

	saved := e.Config
	savedElevation := e.Shot.BarrelElevation
	defer func() {
		e.Config = saved
		e.Shot.BarrelElevation = savedElevation
	}()
	e.Config.MinimumVelocity = 0
	e.Config.MaximumDrop = math.Inf(-1)

	f := func(deg float64) (float64, error) {
		return e.rangeForAngle(deg * math.Pi / 180)
	}

	a := look * 180 / math.Pi
	b := 90.0
	c := b - (b-a)*cGoldenRatioInverse
	d := a + (b-a)*cGoldenRatioInverse

	fc, err := f(c)
	if err != nil {
		return 0, 0, fmt.Errorf("MaxRange: %w", err)
	}
	fd, err := f(d)
	if err != nil {
		return 0, 0, fmt.Errorf("MaxRange: %w", err)
	}

	for i := 0; i < cMaxRangeIterations && b-a > cMaxRangeBracketTolerance; i++ {
		solverIterationsTotal.WithLabelValues("max_range").Inc()
		if fc > fd {
			b = d
			d = c
			fd = fc
			c = b - (b-a)*cGoldenRatioInverse
			fc, err = f(c)
		} else {
			a = c
			c = d
			fc = fd
			d = a + (b-a)*cGoldenRatioInverse
			fd, err = f(d)
		}
		if err != nil {
			return 0, 0, fmt.Errorf("MaxRange: %w", err)
		}
	}

	angle := (a + b) / 2 * math.Pi / 180
	maxRange := fc
	if fd > fc {
		maxRange = fd
	}
	lastMaxRangeGauge.Set(maxRange)
	Logger.Debug().
		Float64("maxRange", maxRange).
		Float64("angle", angle).
		Msg("max range search finished")
	return maxRange, angle, nil
}

//FindZeroAngle finds the barrel elevation at which the trajectory crosses
//the line of sight at the slant distance given, using Ridder's bracketed
//root search over the miss-at-distance error.
//
//The non-lofted branch brackets between the sight-corrected look angle and
//the max-range elevation; the lofted branch brackets between the max-range
//elevation and the near-vertical. Distances beyond the maximum range are
//reported as OutOfRangeError; non-convergence as ZeroFindingError.
func (e *Engine) FindZeroAngle(distance float64, lofted bool) (float64, error) {
	look := e.Shot.LookAngle
	targetX := distance * math.Cos(look)
	targetY := distance * math.Sin(look)

	//trivial shots: nothing to solve
	if targetX <= e.zeroStepTolerance() || look >= cNearVerticalAngle {
		return look, nil
	}

	maxRange, maxAngle, err := e.MaxRange()
	if err != nil {
		return 0, fmt.Errorf("FindZeroAngle: %w", err)
	}
	if distance > maxRange {
		return 0, &OutOfRangeError{RequestedDistance: distance, MaxRange: maxRange, LookAngle: look}
	}

	savedConfig := e.Config
	savedElevation := e.Shot.BarrelElevation
	restore := true
	defer func() {
		e.Config = savedConfig
		if restore {
			e.Shot.BarrelElevation = savedElevation
		}
	}()
	//lofted brackets climb nearly vertical where the bullet slows through
	//the minimum-velocity threshold near the apex; the checks are disabled
	//while solving so the miss function stays continuous
	e.Config.MinimumVelocity = 0
	e.Config.MaximumDrop = math.Inf(-1)

	var low, high float64
	if lofted {
		low = maxAngle
		high = 89.9 * math.Pi / 180
	} else {
		low = look + math.Atan2(e.Shot.SightHeight, targetX)
		high = maxAngle
	}

	f := func(angle float64) (float64, error) {
		return e.errorAtDistance(angle, targetX, targetY)
	}

	f0, err := f(low)
	if err != nil {
		return 0, fmt.Errorf("FindZeroAngle: %w", err)
	}
	if math.Abs(f0) < e.Config.ZeroFindingAccuracy {
		restore = false
		e.Shot.BarrelElevation = low
		return low, nil
	}
	f1, err := f(high)
	if err != nil {
		return 0, fmt.Errorf("FindZeroAngle: %w", err)
	}
	if math.Abs(f1) < e.Config.ZeroFindingAccuracy {
		restore = false
		e.Shot.BarrelElevation = high
		return high, nil
	}

	if f0*f1 > 0 {
		return 0, &ZeroFindingError{
			Iterations:    0,
			Residual:      math.Min(math.Abs(f0), math.Abs(f1)),
			LastElevation: low,
			Reason:        "bracket does not change sign",
		}
	}

	x0, x1 := low, high
	iterations := 0
	for ; iterations < e.Config.MaxIterations; iterations++ {
		solverIterationsTotal.WithLabelValues("zero_angle_ridder").Inc()

		xm := 0.5 * (x0 + x1)
		fm, err := f(xm)
		if err != nil {
			return 0, fmt.Errorf("FindZeroAngle: %w", err)
		}
		if math.Abs(fm) < e.Config.ZeroFindingAccuracy {
			restore = false
			e.Shot.BarrelElevation = xm
			return xm, nil
		}

		s := math.Sqrt(fm*fm - f0*f1)
		if s == 0 {
			break
		}
		xnew := xm + (xm-x0)*math.Copysign(1, f0-f1)*fm/s
		fnew, err := f(xnew)
		if err != nil {
			return 0, fmt.Errorf("FindZeroAngle: %w", err)
		}
		if math.Abs(fnew) < e.Config.ZeroFindingAccuracy {
			restore = false
			e.Shot.BarrelElevation = xnew
			return xnew, nil
		}

		if fm*fnew < 0 {
			x0, f0 = xm, fm
			x1, f1 = xnew, fnew
		} else if f0*fnew < 0 {
			x1, f1 = xnew, fnew
		} else {
			x0, f0 = xnew, fnew
		}

		if math.Abs(x1-x0) < cAngleConvergence {
			restore = false
			mid := 0.5 * (x0 + x1)
			e.Shot.BarrelElevation = mid
			return mid, nil
		}
	}

	//non-convergence fallbacks: a collapsed bracket or a small residual is
	//still a usable zero
	if math.Abs(x1-x0) < cNarrowBracketFallback {
		restore = false
		mid := 0.5 * (x0 + x1)
		e.Shot.BarrelElevation = mid
		return mid, nil
	}
	residual := math.Min(math.Abs(f0), math.Abs(f1))
	best := x0
	if math.Abs(f1) < math.Abs(f0) {
		best = x1
	}
	if residual < e.Config.ZeroFindingAccuracy*10 {
		restore = false
		e.Shot.BarrelElevation = best
		return best, nil
	}
	return 0, &ZeroFindingError{
		Iterations:    iterations,
		Residual:      residual,
		LastElevation: best,
		Reason:        "did not converge",
	}
}

//ZeroAngle finds the barrel elevation for a line-of-sight zero at the slant
//distance given by walking the elevation with a damped correction derived
//from the miss at the target.
//
//The damping is halved whenever the height error worsens, reverting the last
//correction first; once halving would fall below the floor the solver fails
//with a ZeroFindingError carrying the last residual and elevation tried.
func (e *Engine) ZeroAngle(distance float64) (float64, error) {
	look := e.Shot.LookAngle
	targetX := distance * math.Cos(look)
	targetY := distance * math.Sin(look)

	if targetX <= e.zeroStepTolerance() || look >= cNearVerticalAngle {
		return look, nil
	}

	savedElevation := e.Shot.BarrelElevation
	restore := true
	defer func() {
		if restore {
			e.Shot.BarrelElevation = savedElevation
		}
	}()

	elevation := look + math.Atan2(e.Shot.SightHeight, targetX)
	damping := 1.0
	lastCorrection := 0.0
	prevHeightError := math.Inf(1)
	prevRangeError := math.Inf(1)

	for i := 0; i < e.Config.MaxIterations; i++ {
		solverIterationsTotal.WithLabelValues("zero_angle").Inc()

		e.Shot.BarrelElevation = elevation
		buffer, _, _, err := e.runIntegration(targetX, 0, 0, FlagNone)
		if err != nil {
			return 0, fmt.Errorf("ZeroAngle: %w", err)
		}
		if buffer.Len() < 3 {
			return 0, fmt.Errorf("ZeroAngle: %w", ErrInsufficientPoints)
		}
		last, err := buffer.ItemAt(-1)
		if err != nil {
			return 0, fmt.Errorf("ZeroAngle: %w", err)
		}

		if last.Position.X < targetX {
			//the trajectory fell short: walk the elevation up until the
			//target range becomes reachable
			rangeError := targetX - last.Position.X
			if rangeError >= prevRangeError {
				return 0, &ZeroFindingError{
					Iterations:    i,
					Residual:      rangeError,
					LastElevation: elevation,
					Reason:        "range error stopped decreasing",
				}
			}
			prevRangeError = rangeError
			lastCorrection = damping * rangeError / targetX
			elevation += lastCorrection
			continue
		}

		s, err := buffer.GetAt(KeyPosX, targetX, -1)
		if err != nil {
			return 0, fmt.Errorf("ZeroAngle: %w", err)
		}
		heightError := s.Position.Y - targetY

		if math.Abs(heightError) > prevHeightError {
			//diverging: revert the step and damp the walk
			elevation -= lastCorrection
			damping *= 0.5
			if damping < cMinimumDamping {
				return 0, &ZeroFindingError{
					Iterations:    i,
					Residual:      math.Abs(heightError),
					LastElevation: elevation,
					Reason:        "correction damping exhausted",
				}
			}
			continue
		}
		prevHeightError = math.Abs(heightError)

		if math.Abs(heightError) < e.Config.ZeroFindingAccuracy {
			restore = false
			e.Shot.BarrelElevation = elevation
			Logger.Debug().
				Int("iterations", i+1).
				Float64("elevation", elevation).
				Msg("zero angle converged")
			return elevation, nil
		}

		denominator := s.Position.X
		if denominator == 0 {
			return 0, &ZeroFindingError{
				Iterations:    i,
				Residual:      math.Abs(heightError),
				LastElevation: elevation,
				Reason:        "correction denominator vanished",
			}
		}
		lastCorrection = -damping * heightError / denominator
		elevation += lastCorrection
	}

	return 0, &ZeroFindingError{
		Iterations:    e.Config.MaxIterations,
		Residual:      prevHeightError,
		LastElevation: elevation,
		Reason:        "did not converge",
	}
}

//zeroStepTolerance returns the horizontal distance below which a zero query
//is trivially answered by the look angle itself
func (e *Engine) zeroStepTolerance() float64 {
	step := e.Shot.CalcStep
	if step <= 0 || step > e.Config.MaximumCalculatorStepSize {
		step = e.Config.MaximumCalculatorStepSize
	}
	return step
}
