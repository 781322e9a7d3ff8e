package go_ballisticengine

import "math"

//ShotProperties keeps the fully-populated description of one shot.
//
//The host constructs the value before invoking the engine; all quantities are
//raw imperial values (feet, fps, grains, inches, radians). BarrelElevation is
//the only field the engine itself mutates, while solvers walk it towards a
//zero.
type ShotProperties struct {
	BallisticCoefficient BallisticCoefficient
	MuzzleVelocity       float64 //fps
	SightHeight          float64 //feet, scope centerline over the barrel centerline
	CantAngle            float64 //radians
	BarrelElevation      float64 //radians over the horizon
	BarrelAzimuth        float64 //radians
	LookAngle            float64 //radians, slope of the line of sight
	Twist                float64 //inches per turn, positive - right-hand twist
	BulletLength         float64 //inches
	BulletDiameter       float64 //inches
	BulletWeight         float64 //grains
	CalcStep             float64 //feet covered per integration step
	Atmosphere           Atmosphere
	Coriolis             Coriolis

	//StabilityCoefficient is derived from the other fields by
	//UpdateStabilityCoefficient
	StabilityCoefficient float64
}

//HasDimensions reports whether the twist and bullet dimensions needed for
//spin-drift calculation are set
func (v *ShotProperties) HasDimensions() bool {
	return v.Twist != 0 && v.BulletLength > 0 && v.BulletDiameter > 0
}

//UpdateStabilityCoefficient recalculates the Miller stability coefficient
//from the bullet dimensions, the twist and the atmosphere.
//
//Shots without dimensions get a coefficient of zero and no spin drift.
func (v *ShotProperties) UpdateStabilityCoefficient() {
	if !v.HasDimensions() {
		v.StabilityCoefficient = 0
		return
	}

	weight := v.BulletWeight
	diameter := v.BulletDiameter
	twist := math.Abs(v.Twist) / diameter
	length := v.BulletLength / diameter
	sd := 30 * weight / (math.Pow(twist, 2) * math.Pow(diameter, 3) * length * (1 + math.Pow(length, 2)))
	fv := math.Pow(v.MuzzleVelocity/2800, 1.0/3.0)

	ft := v.Atmosphere.Temperature()
	pt := v.Atmosphere.Pressure()
	ftp := ((ft + 460) / (59 + 460)) * (29.92 / pt)

	v.StabilityCoefficient = sd * fv * ftp
}

//SpinDrift returns the lateral displacement in feet caused by the bullet spin
//after the flight time given in seconds.
//
//The drift is not part of the integrated state; Engine.Trajectory applies it
//to the cross position of the rows it returns, and hosts reading raw samples
//add it to Position.Z themselves.
func (v *ShotProperties) SpinDrift(time float64) float64 {
	if v.StabilityCoefficient == 0 || !v.HasDimensions() {
		return 0
	}
	sign := -1.0
	if v.Twist > 0 {
		sign = 1.0
	}
	return (1.25 * (v.StabilityCoefficient + 1.2) * math.Pow(time, 1.83) * sign) / 12.0
}

//DragByMach returns the retardation factor at the velocity given in Mach
func (v *ShotProperties) DragByMach(mach float64) float64 {
	return v.BallisticCoefficient.Drag(mach)
}

//CalculateEnergy returns the kinetic energy in ft-lb of a bullet of the
//weight given in grains at the velocity given in fps
func CalculateEnergy(bulletWeight, velocity float64) float64 {
	return bulletWeight * math.Pow(velocity, 2) / 450400
}

//CalculateOptimalGameWeight returns the weight of game in pounds to which a
//kill shot is probable with the kinetic energy the bullet carries
func CalculateOptimalGameWeight(bulletWeight, velocity float64) float64 {
	return math.Pow(bulletWeight, 2) * math.Pow(velocity, 3) * 1.5e-12
}
