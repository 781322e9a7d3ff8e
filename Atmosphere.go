package go_ballisticengine

import (
	"fmt"
	"math"
)

const cIcaoStandardTemperatureR float64 = 518.67
const cIcaoFreezingPointTemperatureR float64 = 459.67
const cTemperatureGradient float64 = -3.56616e-03
const cPressureExponent float64 = -5.255876
const cSpeedOfSound float64 = 49.0223
const cA0 float64 = 1.24871
const cA1 float64 = 0.0988438
const cA2 float64 = 0.00152907
const cA3 float64 = -3.07031e-06
const cA4 float64 = 4.21329e-07
const cA5 float64 = 3.342e-04
const cStandardTemperatureF float64 = 59.0
const cStandardPressureInHg float64 = 29.92
const cStandardDensity float64 = 0.076474

//cLowestTempF is the lowest temperature the density model is considered valid
//for; queries that resolve below it are clamped with a diagnostic
const cLowestTempF float64 = -130.0

//cTroposphereCeilingFt is the altitude above which the fixed-lapse-rate model
//stops being representative
const cTroposphereCeilingFt float64 = 36089.0

//cAtmosphereCacheBandFt is the half-width of the altitude band around the
//base altitude within which the cached density ratio and speed of sound are
//reused instead of being recomputed
const cAtmosphereCacheBandFt float64 = 30.0

//Atmosphere describes the air conditions the shot is calculated in.
//
//All quantities are kept in imperial units: altitude in feet, temperature in
//degrees Fahrenheit, pressure in inches of mercury. The structure caches the
//density ratio and the speed of sound at the base altitude; queries within
//the cache band return the cached values unchanged.
type Atmosphere struct {
	altitude     float64 //base altitude, feet
	temperature  float64 //temperature at the base altitude, F
	pressure     float64 //pressure at the base altitude, inHg
	humidity     float64 //relative humidity, 0..1
	densityRatio float64 //air density relative to the standard density
	mach1        float64 //speed of sound at the base altitude, fps
}

//CreateDefaultAtmosphere creates the standard sea-level atmosphere
func CreateDefaultAtmosphere() Atmosphere {
	a := Atmosphere{
		altitude:    0,
		pressure:    cStandardPressureInHg,
		temperature: cStandardTemperatureF,
		humidity:    0.78,
	}
	a.calculate()
	return a
}

//CreateAtmosphere creates the atmosphere with the parameters specified.
//
//altitude is in feet, temperature in degrees Fahrenheit, pressure in inches
//of mercury; humidity is accepted either as a 0..1 coefficient or in percents
func CreateAtmosphere(altitude, temperature, pressure, humidity float64) (Atmosphere, error) {
	if humidity < 0 || humidity > 100 {
		return CreateDefaultAtmosphere(), fmt.Errorf("Atmosphere: humidity must be in 0..1 or 0..100 range")
	}
	if humidity > 1 {
		humidity = humidity / 100
	}
	if pressure <= 0 {
		return CreateDefaultAtmosphere(), fmt.Errorf("Atmosphere: pressure must be greater than zero")
	}

	a := Atmosphere{
		altitude:    altitude,
		temperature: temperature,
		pressure:    pressure,
		humidity:    humidity,
	}
	a.calculate()
	return a, nil
}

//CreateICAOAtmosphere creates the standard ICAO atmosphere for the altitude
//specified in feet
func CreateICAOAtmosphere(altitude float64) Atmosphere {
	temperature := cIcaoStandardTemperatureR +
		altitude*cTemperatureGradient - cIcaoFreezingPointTemperatureR
	pressure := cStandardPressureInHg *
		math.Pow(cIcaoStandardTemperatureR/(temperature+cIcaoFreezingPointTemperatureR),
			cPressureExponent)

	a := Atmosphere{
		altitude:    altitude,
		temperature: temperature,
		pressure:    pressure,
		humidity:    0,
	}
	a.calculate()
	return a
}

//Altitude returns the base altitude in feet
func (a Atmosphere) Altitude() float64 {
	return a.altitude
}

//Temperature returns the temperature at the base altitude in F
func (a Atmosphere) Temperature() float64 {
	return a.temperature
}

//Pressure returns the pressure at the base altitude in inHg
func (a Atmosphere) Pressure() float64 {
	return a.pressure
}

//Humidity returns the relative humidity as a 0..1 coefficient
func (a Atmosphere) Humidity() float64 {
	return a.humidity
}

//DensityRatio returns the air density at the base altitude relative to the
//standard atmospheric density
func (a Atmosphere) DensityRatio() float64 {
	return a.densityRatio
}

//Mach1 returns the speed of sound at the base altitude in fps
func (a Atmosphere) Mach1() float64 {
	return a.mach1
}

func (a Atmosphere) String() string {
	return fmt.Sprintf("Altitude:%.0fft,Pressure:%.2finHg,Temperature:%.1fF,Humidity:%.2f%%",
		a.altitude, a.pressure, a.temperature, a.humidity*100)
}

//calculate0 computes the humidity-corrected density and the speed of sound
//for a temperature in F and a pressure in inHg
func (a *Atmosphere) calculate0(t, p float64) (float64, float64) {
	var hc, et, et0, density, mach float64

	if t > 0.0 {
		et0 = cA0 + t*(cA1+t*(cA2+t*(cA3+t*cA4)))
		et = cA5 * a.humidity * et0
		hc = (p - 0.3783*et) / cStandardPressureInHg
	} else {
		hc = 1.0
	}
	density = cStandardDensity * (cIcaoStandardTemperatureR / (t + cIcaoFreezingPointTemperatureR)) * hc
	mach = math.Sqrt(t+cIcaoFreezingPointTemperatureR) * cSpeedOfSound
	return density, mach
}

func (a *Atmosphere) calculate() {
	density, mach := a.calculate0(a.temperature, a.pressure)
	a.densityRatio = density / cStandardDensity
	a.mach1 = mach
}

//DensityAndMachAtAltitude returns the density ratio and the speed of sound at
//the altitude specified in feet.
//
//Queries within the cache band of the base altitude reuse the cached values.
//Temperatures falling below the model floor are clamped with a diagnostic;
//altitudes above the troposphere ceiling produce a model-validity warning but
//do not fail.
func (a *Atmosphere) DensityAndMachAtAltitude(altitude float64) (float64, float64) {
	if math.Abs(a.altitude-altitude) < cAtmosphereCacheBandFt {
		return a.densityRatio, a.mach1
	}

	if altitude > cTroposphereCeilingFt {
		Logger.Warn().
			Float64("altitude", altitude).
			Msg("altitude above the troposphere ceiling, the density model is unreliable")
	}

	t0 := a.temperature
	ta := cIcaoStandardTemperatureR + a.altitude*cTemperatureGradient - cIcaoFreezingPointTemperatureR
	tb := cIcaoStandardTemperatureR + altitude*cTemperatureGradient - cIcaoFreezingPointTemperatureR
	t := t0 + ta - tb

	if t < -cIcaoFreezingPointTemperatureR {
		Logger.Warn().
			Float64("altitude", altitude).
			Float64("temperature", t).
			Msg("temperature clamped to absolute zero")
		t = -cIcaoFreezingPointTemperatureR
	}
	if t < cLowestTempF {
		Logger.Warn().
			Float64("altitude", altitude).
			Float64("temperature", t).
			Msg("temperature clamped to the model floor")
		t = cLowestTempF
	}

	p := a.pressure * math.Pow(t0/t, cPressureExponent)

	density, mach := a.calculate0(t, p)
	return density / cStandardDensity, mach
}
