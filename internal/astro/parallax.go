package astro

import "math"

const (
	// earthAxisRatio is the polar to equatorial radius ratio (b/a).
	earthAxisRatio = 0.99664719
	// solarParallax is the equatorial horizontal parallax at 1 AU (arcsec).
	solarParallax = 8.794148
)

// geocentricSite returns rho·sin(phi') and rho·cos(phi') for a geodetic
// latitude and height, in units of the Earth's equatorial radius.
func geocentricSite(latDeg, heightM float64) (rhoSin, rhoCos float64) {
	lat := degToRad(latDeg)
	u := math.Atan(earthAxisRatio * math.Tan(lat))
	h := heightM / (earthRadiusKm * 1000)
	rhoSin = earthAxisRatio*math.Sin(u) + h*math.Sin(lat)
	rhoCos = math.Cos(u) + h*math.Cos(lat)
	return rhoSin, rhoCos
}

// Topocentric corrects a geocentric apparent RA/Dec for diurnal parallax as
// seen from the site. distAU is the geocentric distance of the body and
// lstDeg the local sidereal time. Stars (distAU <= 0) are returned unchanged.
func Topocentric(raDeg, decDeg, distAU float64, site Observer, lstDeg float64) (float64, float64) {
	if distAU <= 0 {
		return raDeg, decDeg
	}
	rhoSin, rhoCos := geocentricSite(site.LatDeg, site.ElevM)
	sinPi := math.Sin(degToRad(solarParallax*arcsec)) / distAU

	ha := degToRad(lstDeg - raDeg)
	dec := degToRad(decDeg)

	dA := math.Atan2(-rhoCos*sinPi*math.Sin(ha), math.Cos(dec)-rhoCos*sinPi*math.Cos(ha))
	topoDec := math.Atan2((math.Sin(dec)-rhoSin*sinPi)*math.Cos(dA), math.Cos(dec)-rhoCos*sinPi*math.Cos(ha))

	return normalizeAngle360(raDeg + radToDeg(dA)), radToDeg(topoDec)
}
