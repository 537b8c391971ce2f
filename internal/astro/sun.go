package astro

import (
	"math"
	"time"
)

// sunSemidiameterAU is the solar semidiameter at 1 AU in arcseconds.
const sunSemidiameterAU = 959.63

// SunPlace is the apparent geocentric place of the Sun.
type SunPlace struct {
	RAdeg       float64 // apparent right ascension of date
	DecDeg      float64 // apparent declination of date
	LonDeg      float64 // apparent ecliptic longitude
	DistAU      float64 // Earth-Sun distance
	DiameterDeg float64 // apparent angular diameter
}

// SunApparent computes the apparent place of the Sun for a Julian Date.
// Uses a simplified solar ephemeris based on the Astronomical Almanac;
// accuracy ~0.01 degrees.
func SunApparent(jd float64) SunPlace {
	T := julianCenturies(jd)

	// Mean longitude of the Sun (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	trueLon := L0 + C
	trueAnomaly := degToRad(M + C)

	// Radius vector (AU)
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	R := 1.000001018 * (1 - e*e) / (1 + e*math.Cos(trueAnomaly))

	// Apparent longitude (aberration and nutation)
	omega := degToRad(125.04 - 1934.136*T)
	appLon := normalizeAngle360(trueLon - 0.00569 - 0.00478*math.Sin(omega))

	// Corrected obliquity
	eps := MeanObliquity(jd) + 0.00256*math.Cos(omega)

	ra, dec := EclipticToRADec(appLon, 0, eps)

	return SunPlace{
		RAdeg:       ra,
		DecDeg:      dec,
		LonDeg:      appLon,
		DistAU:      R,
		DiameterDeg: 2 * sunSemidiameterAU / R / 3600,
	}
}

// SunPosition calculates the apparent equatorial coordinates of the Sun.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	p := SunApparent(JulianDate(t))
	return p.RAdeg, p.DecDeg
}

// SunSeparation calculates the angular separation between the Sun and a target.
// Returns the separation angle in degrees.
func SunSeparation(targetRA, targetDec float64, t time.Time) float64 {
	sunRA, sunDec := SunPosition(t)
	return AngularSeparation(sunRA, sunDec, targetRA, targetDec)
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	// Clamp to avoid numerical errors with asin
	if a > 1 {
		a = 1
	}

	c := 2 * math.Asin(math.Sqrt(a))

	return radToDeg(c)
}

// SunMagnitude returns the Sun's apparent visual magnitude at distAU.
func SunMagnitude(distAU float64) float64 {
	return -26.74 + 5*math.Log10(distAU)
}
