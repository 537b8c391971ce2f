package astro

import "math"

const arcsec = 1.0 / 3600

// MeanObliquity returns the mean obliquity of the ecliptic in degrees (IAU 1980).
func MeanObliquity(jd float64) float64 {
	T := julianCenturies(jd)
	return 23.4392911111 - (46.8150*T+0.00059*T*T-0.001813*T*T*T)*arcsec
}

// TrueObliquity returns the mean obliquity plus nutation in obliquity, degrees.
func TrueObliquity(jd float64) float64 {
	_, dEps := Nutation(jd)
	return MeanObliquity(jd) + dEps
}

// Nutation returns nutation in longitude and in obliquity, in degrees.
// Four-term series; good to about 0.5 arcsec.
func Nutation(jd float64) (dPsi, dEps float64) {
	T := julianCenturies(jd)

	omega := degToRad(125.04452 - 1934.136261*T)
	L := degToRad(280.4665 + 36000.7698*T)
	Lm := degToRad(218.3165 + 481267.8813*T)

	dPsi = -17.20*math.Sin(omega) - 1.32*math.Sin(2*L) - 0.23*math.Sin(2*Lm) + 0.21*math.Sin(2*omega)
	dEps = 9.20*math.Cos(omega) + 0.57*math.Cos(2*L) + 0.10*math.Cos(2*Lm) - 0.09*math.Cos(2*omega)

	return dPsi * arcsec, dEps * arcsec
}

// precessionMatrix rotates mean equatorial vectors of epoch fromJD to the
// mean equator and equinox of toJD (IAU 1976 angles).
func precessionMatrix(fromJD, toJD float64) Mat3 {
	T := julianCenturies(fromJD)
	t := (toJD - fromJD) / daysPerCentury

	base := 2306.2181 + 1.39656*T - 0.000139*T*T
	zeta := base*t + (0.30188-0.000344*T)*t*t + 0.017998*t*t*t
	z := base*t + (1.09468+0.000066*T)*t*t + 0.018203*t*t*t
	theta := (2004.3109-0.85330*T-0.000217*T*T)*t - (0.42665+0.000217*T)*t*t - 0.041833*t*t*t

	zeta = degToRad(zeta * arcsec)
	z = degToRad(z * arcsec)
	theta = degToRad(theta * arcsec)

	return rotZ(-z).Mul(rotY(theta)).Mul(rotZ(-zeta))
}

// nutationMatrix rotates mean equatorial vectors of date to true ones.
func nutationMatrix(jd float64) Mat3 {
	dPsi, dEps := Nutation(jd)
	eps0 := degToRad(MeanObliquity(jd))
	eps := eps0 + degToRad(dEps)
	return rotX(-eps).Mul(rotZ(-degToRad(dPsi))).Mul(rotX(eps0))
}

// PrecessionNutation converts a mean place at fromJD into the apparent
// (true equator and equinox) place at toJD. Accuracy is well inside one
// arc-minute for epochs within a few centuries of J2000.
func PrecessionNutation(raDeg, decDeg, fromJD, toJD float64) (float64, float64) {
	m := nutationMatrix(toJD).Mul(precessionMatrix(fromJD, toJD))
	return m.Apply(UnitVector(raDeg, decDeg)).Spherical()
}
