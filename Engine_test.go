package go_ballisticengine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineTrajectoryRows(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		BarrelElevation:      2 * math.Pi / 180,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	rows, reason, err := e.Trajectory(500, 100, 0, FlagRangeStep)
	require.NoError(t, err)
	assert.Equal(t, TerminationRangeLimit, reason)
	require.Len(t, rows, 6)

	for i, r := range rows {
		assert.True(t, r.Flags.Has(FlagRangeStep), "row %d", i)
		assert.InDelta(t, float64(i)*100, r.Sample.Position.X, 1e-3, "row %d", i)
	}
	assert.Greater(t, e.StepCount(), uint64(0))
}

func TestEngineTrajectoryChartResolution(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		BarrelElevation:      2 * math.Pi / 180,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	//no range step given: the config chart resolution (100 ft) applies
	rows, _, err := e.Trajectory(300, 0, 0, FlagNone)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, r := range rows {
		assert.InDelta(t, float64(i)*100, r.Sample.Position.X, 1e-3, "row %d", i)
	}
}

func TestEngineTrajectorySubsonicShot(t *testing.T) {
	//900 fps never exceeds the speed of sound, so requesting every row kind
	//must not produce a transonic row or break the run
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       900,
		BarrelElevation:      2 * math.Pi / 180,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	rows, reason, err := e.Trajectory(500, 100, 0, FlagAll)
	require.NoError(t, err)
	assert.Equal(t, TerminationRangeLimit, reason)
	assert.Empty(t, rowsWithFlag(rows, FlagMach))
	for i, r := range rows {
		assert.GreaterOrEqual(t, r.Sample.Time, 0.0, "row %d", i)
		assert.GreaterOrEqual(t, r.Sample.Position.X, 0.0, "row %d", i)
	}
}

func TestEngineTrajectorySpinDrift(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       2600,
		BarrelElevation:      2 * math.Pi / 180,
		Twist:                10,
		BulletLength:         1.24,
		BulletDiameter:       0.308,
		BulletWeight:         168,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	shot.UpdateStabilityCoefficient()
	require.NotZero(t, shot.StabilityCoefficient)
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	rows, _, err := e.Trajectory(1500, 300, 0, FlagRangeStep)
	require.NoError(t, err)
	require.Greater(t, len(rows), 2)

	//no wind and no Coriolis: the cross position of every row is exactly
	//the spin-drift displacement, growing to the right for right-hand twist
	for i, r := range rows {
		assert.InDelta(t, shot.SpinDrift(r.Sample.Time), r.Sample.Position.Z, 1e-12, "row %d", i)
	}
	assert.Greater(t, rows[len(rows)-1].Sample.Position.Z, 0.0)
}

func TestEngineApex(t *testing.T) {
	elevation := 30 * math.Pi / 180
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		BarrelElevation:      elevation,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	cfg := DefaultConfig()
	e := CreateEngine(cfg, shot, nil, nil)

	apex, err := e.Apex()
	require.NoError(t, err)

	g := -cGravityConstant
	vy := 1000 * math.Sin(elevation)
	assert.InDelta(t, 0, apex.Velocity.Y, 1e-6)
	assert.InDelta(t, vy/g, apex.Time, 1e-4)
	assert.InDelta(t, vy*vy/(2*g), apex.Position.Y, 0.1)

	//the solver restores the config it overrode
	assert.Equal(t, cfg.MinimumVelocity, e.Config.MinimumVelocity)
}

func TestEngineApexRequiresElevation(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	_, err := e.Apex()
	require.Error(t, err)
	var ve *ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestEngineMaxRange(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       300,
		CalcStep:             10,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	cfg := DefaultConfig()
	cfg.MaximumCalculatorStepSize = 10
	e := CreateEngine(cfg, shot, nil, nil)

	maxRange, angle, err := e.MaxRange()
	require.NoError(t, err)

	//drag-free maximum range is v^2/g at 45 degrees
	g := -cGravityConstant
	assert.InDelta(t, 300*300/g, maxRange, 1.0)
	assert.InDelta(t, math.Pi/4, angle, 0.5*math.Pi/180)

	//config and elevation come back untouched
	assert.Equal(t, cfg.MinimumVelocity, e.Config.MinimumVelocity)
	assert.Equal(t, cfg.MaximumDrop, e.Config.MaximumDrop)
	assert.Equal(t, 0.0, e.Shot.BarrelElevation)
}

func TestEngineZeroAngleTrivial(t *testing.T) {
	look := 0.3
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       600,
		LookAngle:            look,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	angle, err := e.ZeroAngle(0)
	require.NoError(t, err)
	assert.Equal(t, look, angle)

	angle, err = e.FindZeroAngle(0, false)
	require.NoError(t, err)
	assert.Equal(t, look, angle)
}

//analyticZeroElevation solves the drag-free zero elevation for a flat look
//angle: x*tan(e) - g*x^2/(2*v^2*cos^2(e)) = sightHeight
func analyticZeroElevation(v, x, sightHeight float64, lofted bool) float64 {
	g := -cGravityConstant
	c := g * x / (2 * v * v)
	disc := math.Sqrt(1 - 4*c*(c+sightHeight/x))
	if lofted {
		return math.Atan((1 + disc) / (2 * c))
	}
	return math.Atan((1 - disc) / (2 * c))
}

func TestEngineZeroAngle(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       600,
		SightHeight:          0.2,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	angle, err := e.ZeroAngle(600)
	require.NoError(t, err)

	want := analyticZeroElevation(600, 600, 0.2, false)
	assert.InDelta(t, want, angle, 1e-4)
	//a successful zero leaves the barrel elevation at the solution
	assert.Equal(t, angle, e.Shot.BarrelElevation)

	//the found elevation actually puts the bullet on the sight line
	buffer, _, _, err := e.runIntegration(600, 0, 0, FlagNone)
	require.NoError(t, err)
	s, err := buffer.GetAt(KeyPosX, 600, -1)
	require.NoError(t, err)
	assert.InDelta(t, 0, s.Position.Y, 1e-3)
}

func TestEngineFindZeroAngle(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       600,
		SightHeight:          0.2,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	nonLofted, err := e.FindZeroAngle(600, false)
	require.NoError(t, err)
	assert.InDelta(t, analyticZeroElevation(600, 600, 0.2, false), nonLofted, 1e-4)

	lofted, err := e.FindZeroAngle(600, true)
	require.NoError(t, err)
	assert.InDelta(t, analyticZeroElevation(600, 600, 0.2, true), lofted, 1e-3)

	assert.Greater(t, lofted, nonLofted)
	//the temporary overrides are rolled back
	assert.Equal(t, DefaultConfig().MinimumVelocity, e.Config.MinimumVelocity)
}

func TestEngineFindZeroAngleOutOfRange(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       300,
		CalcStep:             10,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	cfg := DefaultConfig()
	cfg.MaximumCalculatorStepSize = 10
	e := CreateEngine(cfg, shot, nil, nil)

	_, err := e.FindZeroAngle(5000, false)
	require.Error(t, err)

	var oor *OutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, 5000.0, oor.RequestedDistance)
	g := -cGravityConstant
	assert.InDelta(t, 300*300/g, oor.MaxRange, 5.0)
}
