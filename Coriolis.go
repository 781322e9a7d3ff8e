package go_ballisticengine

import (
	"math"

	"github.com/gehtsoft-usa/go_ballisticengine/bmath/vector"
)

//cEarthAngularVelocity is the angular velocity of Earth's rotation in rad/s
const cEarthAngularVelocity float64 = 7.292e-05

//Coriolis keeps the precomputed local-frame rotation data needed to correct
//the projectile acceleration for Earth's rotation.
//
//The zero value is a disabled (flat-fire) model producing no correction.
type Coriolis struct {
	sinLat, cosLat float64
	sinAz, cosAz   float64
	factor         float64 //2 * earth angular velocity
	enabled        bool
}

//CreateCoriolis precomputes the rotation data for a shot fired at the
//latitude given in degrees with the azimuth given in degrees clockwise from
//north
func CreateCoriolis(latitudeDeg, azimuthDeg float64) Coriolis {
	lat := latitudeDeg * math.Pi / 180
	az := azimuthDeg * math.Pi / 180
	return Coriolis{
		sinLat:  math.Sin(lat),
		cosLat:  math.Cos(lat),
		sinAz:   math.Sin(az),
		cosAz:   math.Cos(az),
		factor:  2 * cEarthAngularVelocity,
		enabled: true,
	}
}

//Enabled reports whether the model produces a correction
func (c Coriolis) Enabled() bool {
	return c.enabled
}

//Acceleration returns the local-frame Coriolis acceleration correction for
//the ground velocity given.
//
//The velocity is transformed into east/north/up components, the standard
//Coriolis term -2*Omega x v is applied and the result is rotated back into
//the range/up/cross frame. A disabled model returns the zero vector.
func (c Coriolis) Acceleration(groundVelocity vector.Vector) vector.Vector {
	if !c.enabled {
		return vector.Create(0, 0, 0)
	}

	east := groundVelocity.X*c.sinAz + groundVelocity.Z*c.cosAz
	north := groundVelocity.X*c.cosAz - groundVelocity.Z*c.sinAz
	up := groundVelocity.Y

	accEast := c.factor * (c.sinLat*north - c.cosLat*up)
	accNorth := -c.factor * c.sinLat * east
	accUp := c.factor * c.cosLat * east

	return vector.Create(
		accEast*c.sinAz+accNorth*c.cosAz,
		accUp,
		accEast*c.cosAz-accNorth*c.sinAz,
	)
}
