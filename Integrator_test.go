package go_ballisticengine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//zeroDragBC builds a ballistic coefficient whose drag is zero at any Mach,
//turning the trajectory into a closed-form parabola
func zeroDragBC(t *testing.T) BallisticCoefficient {
	t.Helper()
	curve, err := CreateDragCurve([]float64{0, 5}, []float64{0, 0})
	require.NoError(t, err)
	bc, err := CreateBallisticCoefficient(1, curve)
	require.NoError(t, err)
	return bc
}

func TestRK4ZeroDragMatchesClosedForm(t *testing.T) {
	elevation := 5 * math.Pi / 180
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       3000,
		BarrelElevation:      elevation,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	buffer, _, reason, err := e.runIntegration(1500, 0, 0, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, TerminationRangeLimit, reason)

	s, err := buffer.GetAt(KeyPosX, 1000, -1)
	require.NoError(t, err)

	g := -cGravityConstant
	vx := 3000 * math.Cos(elevation)
	vy := 3000 * math.Sin(elevation)
	ft := 1000 / vx
	wantY := vy*ft - 0.5*g*ft*ft

	assert.InDelta(t, wantY, s.Position.Y, 1e-4)
	assert.InDelta(t, ft, s.Time, 1e-7)
	assert.InDelta(t, vx, s.Velocity.X, 1e-6)
	assert.InDelta(t, vy-g*ft, s.Velocity.Y, 1e-4)
}

func TestRK4SightHeightOffset(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       2000,
		SightHeight:          0.25,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	buffer, _, _, err := e.runIntegration(100, 0, 0, FlagNone)
	require.NoError(t, err)

	first, err := buffer.ItemAt(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.Time)
	assert.InDelta(t, -0.25, first.Position.Y, 1e-12)
	assert.InDelta(t, 0, first.Position.X, 1e-12)
}

func TestRK4TerminationMaximumDrop(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	cfg := DefaultConfig()
	cfg.MaximumDrop = -100
	e := CreateEngine(cfg, shot, nil, nil)

	buffer, _, reason, err := e.runIntegration(cUnlimitedRange, 0, 0, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, TerminationMaximumDrop, reason)

	last, err := buffer.ItemAt(-1)
	require.NoError(t, err)
	assert.Less(t, last.Position.Y, -100.0)
}

func TestRK4TerminationMinimumVelocity(t *testing.T) {
	bc, err := CreateStandardBallisticCoefficient(0.002, DragTableG1)
	require.NoError(t, err)

	shot := &ShotProperties{
		BallisticCoefficient: bc,
		MuzzleVelocity:       3000,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	cfg := DefaultConfig()
	cfg.MaximumDrop = math.Inf(-1)
	cfg.MinimumAltitude = math.Inf(-1)
	e := CreateEngine(cfg, shot, nil, nil)

	buffer, _, reason, err := e.runIntegration(cUnlimitedRange, 0, 0, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, TerminationMinimumVelocity, reason)

	last, err := buffer.ItemAt(-1)
	require.NoError(t, err)
	assert.Less(t, last.Velocity.Magnitude(), cfg.MinimumVelocity)
}

func TestRK4ShortRangeStillProducesTriple(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       1000,
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	//the range limit may not fire before three steps were taken, so even a
	//degenerate request leaves enough samples for interpolation
	buffer, _, reason, err := e.runIntegration(0.0001, 0, 0, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, TerminationRangeLimit, reason)
	assert.GreaterOrEqual(t, buffer.Len(), 4)
}

func TestRK4InvalidMuzzleVelocity(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		Atmosphere:           CreateDefaultAtmosphere(),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	_, _, _, err := e.runIntegration(100, 0, 0, FlagNone)
	require.Error(t, err)
	var ve *ValueError
	assert.True(t, errors.As(err, &ve))
}

func TestRK4CrosswindDeflection(t *testing.T) {
	bc, err := CreateStandardBallisticCoefficient(0.5, DragTableG1)
	require.NoError(t, err)

	newShot := func() *ShotProperties {
		return &ShotProperties{
			BallisticCoefficient: bc,
			MuzzleVelocity:       2000,
			Atmosphere:           CreateDefaultAtmosphere(),
		}
	}

	calm := CreateEngine(DefaultConfig(), newShot(), nil, nil)
	calmBuffer, _, _, err := calm.runIntegration(500, 0, 0, FlagNone)
	require.NoError(t, err)

	winds := []WindSegment{{Velocity: 10, Direction: math.Pi / 2, UntilDistance: math.Inf(1)}}
	windy := CreateEngine(DefaultConfig(), newShot(), winds, nil)
	windyBuffer, _, _, err := windy.runIntegration(500, 0, 0, FlagNone)
	require.NoError(t, err)

	calmLast, err := calmBuffer.ItemAt(-1)
	require.NoError(t, err)
	windyLast, err := windyBuffer.ItemAt(-1)
	require.NoError(t, err)

	//the wind pushes the bullet along +Z through drag; a calm run has no
	//lateral motion at all
	assert.Equal(t, 0.0, calmLast.Position.Z)
	assert.Greater(t, windyLast.Position.Z, 0.0)
}

func TestRK4CoriolisDeflection(t *testing.T) {
	shot := &ShotProperties{
		BallisticCoefficient: zeroDragBC(t),
		MuzzleVelocity:       2000,
		Atmosphere:           CreateDefaultAtmosphere(),
		Coriolis:             CreateCoriolis(45, 0),
	}
	e := CreateEngine(DefaultConfig(), shot, nil, nil)

	buffer, _, _, err := e.runIntegration(1000, 0, 0, FlagNone)
	require.NoError(t, err)

	last, err := buffer.ItemAt(-1)
	require.NoError(t, err)
	//northern hemisphere: rightward drift
	assert.Greater(t, last.Position.Z, 0.0)
}
