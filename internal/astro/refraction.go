package astro

import "math"

const (
	// StandardPressure is the sea-level pressure the refraction formula assumes (hPa).
	StandardPressure = 1010.0
	// StandardTemperature is the air temperature the refraction formula assumes (°C).
	StandardTemperature = 10.0

	// Below taperStart the correction fades linearly to zero at taperEnd,
	// so objects clearly below the horizon stay there.
	refractionTaperStart = -0.5
	refractionTaperEnd   = -2.0
)

// saemundsson returns the refraction in degrees for a geometric elevation h
// (degrees), zeroed at the zenith. Valid for h >= refractionTaperStart.
func saemundsson(h float64) float64 {
	r := 1.02/math.Tan(degToRad(h+10.3/(h+5.11))) + 0.0019279 // arc-minutes
	if r < 0 {
		return 0
	}
	return r / 60
}

// Refraction returns the atmospheric refraction correction in degrees for a
// geometric elevation, at standard pressure and temperature. The correction
// is about 0.57° at the horizon and vanishes toward the zenith.
func Refraction(elDeg float64) float64 {
	switch {
	case elDeg >= 90:
		return 0
	case elDeg >= refractionTaperStart:
		return saemundsson(elDeg)
	case elDeg > refractionTaperEnd:
		edge := saemundsson(refractionTaperStart)
		return edge * (elDeg - refractionTaperEnd) / (refractionTaperStart - refractionTaperEnd)
	default:
		return 0
	}
}

// RefractionAt scales Refraction for the given pressure (hPa) and temperature (°C).
func RefractionAt(elDeg, pressureHPa, tempC float64) float64 {
	return Refraction(elDeg) * (pressureHPa / StandardPressure) * (283 / (273 + tempC))
}

// Refract returns the apparent elevation of an object at geometric elevation elDeg.
func Refract(elDeg float64) float64 {
	return math.Min(elDeg+Refraction(elDeg), 90)
}

// PressureAtElevation returns the standard-atmosphere pressure in hPa at a
// height in meters above sea level.
func PressureAtElevation(heightM float64) float64 {
	base := 1 - 2.25577e-5*heightM
	if base <= 0 {
		return 0
	}
	return StandardPressure * math.Pow(base, 5.25588)
}
