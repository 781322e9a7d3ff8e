package go_ballisticengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStabilityCoefficient(t *testing.T) {
	bc, err := CreateStandardBallisticCoefficient(0.462, DragTableG1)
	require.NoError(t, err)

	shot := &ShotProperties{
		BallisticCoefficient: bc,
		MuzzleVelocity:       2600,
		Twist:                10,
		BulletLength:         1.2,
		BulletDiameter:       0.308,
		BulletWeight:         168,
		Atmosphere:           CreateICAOAtmosphere(0),
	}

	assert.True(t, shot.HasDimensions())

	shot.UpdateStabilityCoefficient()
	//a 168gr .308 bullet out of a 1:10 barrel is comfortably stable
	assert.Greater(t, shot.StabilityCoefficient, 2.0)
	assert.Less(t, shot.StabilityCoefficient, 3.0)
}

func TestStabilityWithoutDimensions(t *testing.T) {
	shot := &ShotProperties{
		MuzzleVelocity: 2600,
		Atmosphere:     CreateDefaultAtmosphere(),
	}

	assert.False(t, shot.HasDimensions())
	shot.UpdateStabilityCoefficient()
	assert.Equal(t, 0.0, shot.StabilityCoefficient)
	assert.Equal(t, 0.0, shot.SpinDrift(1.5))
}

func TestSpinDrift(t *testing.T) {
	shot := &ShotProperties{
		MuzzleVelocity: 2600,
		Twist:          10,
		BulletLength:   1.2,
		BulletDiameter: 0.308,
		BulletWeight:   168,
		Atmosphere:     CreateICAOAtmosphere(0),
	}
	shot.UpdateStabilityCoefficient()

	//right-hand twist drifts right, and the drift grows with time
	early := shot.SpinDrift(0.5)
	late := shot.SpinDrift(1.5)
	assert.Greater(t, early, 0.0)
	assert.Greater(t, late, early)

	shot.Twist = -10
	shot.UpdateStabilityCoefficient()
	assert.Less(t, shot.SpinDrift(1.5), 0.0)
}

func TestEnergyAndGameWeight(t *testing.T) {
	energy := CalculateEnergy(168, 2600)
	assert.InDelta(t, 168*2600*2600/450400.0, energy, 1e-9)
	assert.InDelta(t, 2521.5, energy, 0.5)

	ogw := CalculateOptimalGameWeight(168, 2600)
	assert.InDelta(t, 168*168*2600*2600*2600*1.5e-12, ogw, 1e-9)
	assert.Greater(t, ogw, 0.0)
}
