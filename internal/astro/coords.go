// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch.
const J2000 = 2451545.0

// daysPerCentury is the length of a Julian century in days.
const daysPerCentury = 36525.0

// SiderealRate is the number of sidereal rotations per solar day.
const SiderealRate = 1.00273790935

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	ElevM  float64 // Height above sea level in meters
	Name   string  // Optional name for the site
}

// NormalizeLongitude maps a longitude given in [-180, 180] or [0, 360)
// to the half-open range (-180, 180].
func NormalizeLongitude(lonDeg float64) float64 {
	lon := normalizeAngle360(lonDeg)
	if lon > 180 {
		lon -= 360
	}
	return lon
}

// EquatorialToHorizontal converts an apparent RA/Dec to azimuth and elevation
// for the given local sidereal time and observer latitude.
//
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West, in [0, 360)
//   - Elevation: 0° = horizon, 90° = zenith; negative below the horizon
func EquatorialToHorizontal(raDeg, decDeg, lstDeg, latDeg float64) (azDeg, elDeg float64) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)

	// Hour Angle = LST - RA
	ha := degToRad(lstDeg - raDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	y := -math.Cos(dec) * math.Sin(ha)
	x := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Cos(ha)*math.Sin(lat)
	az := normalizeAngle360(radToDeg(math.Atan2(y, x)))

	return az, radToDeg(alt)
}

// LocalSiderealTime calculates the local apparent sidereal time in degrees
// for a given UTC time and observer longitude (east positive).
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(ApparentSiderealTime(t) + lonDeg)
}

// ApparentSiderealTime returns Greenwich apparent sidereal time in degrees:
// the mean sidereal time corrected by the equation of the equinoxes.
func ApparentSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)
	dPsi, _ := Nutation(jd)
	eps := TrueObliquity(jd)
	return normalizeAngle360(GreenwichMeanSiderealTime(t) + dPsi*math.Cos(degToRad(eps)))
}

// GreenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU formula based on Julian Date.
func GreenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)

	// Julian centuries since J2000.0
	T := (jd - J2000) / daysPerCentury

	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Treat January/February as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// TimeFromJulian converts a Julian Date back to a UTC time.
func TimeFromJulian(jd float64) time.Time {
	unixSec := (jd - 2440587.5) * secondsPerDay
	sec := math.Floor(unixSec)
	nsec := math.Round((unixSec - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

// julianCenturies returns Julian centuries elapsed since J2000.0.
func julianCenturies(jd float64) float64 {
	return (jd - J2000) / daysPerCentury
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeAngle360 normalizes an angle to [0, 360) degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// normalizeAngle180 normalizes an angle to (-180, 180] degrees.
func normalizeAngle180(a float64) float64 {
	a = normalizeAngle360(a)
	if a > 180 {
		a -= 360
	}
	return a
}
