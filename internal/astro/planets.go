package astro

import (
	"errors"
	"math"
)

// Planet identifies one of the eight planetary bodies (Pluto included).
type Planet int

const (
	Mercury Planet = iota
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

// ErrUnknownPlanet is returned for values outside Mercury..Pluto.
var ErrUnknownPlanet = errors.New("unknown planet")

// String returns the planet name.
func (p Planet) String() string {
	if p < Mercury || p > Pluto {
		return "unknown"
	}
	return planetDefs[p].name
}

// Valid reports whether p is a known planet.
func (p Planet) Valid() bool {
	return p >= Mercury && p <= Pluto
}

// keplerElements are the JPL approximate mean elements at J2000 and their
// rates per Julian century (E. M. Standish, valid 1800-2050 AD).
// Angles in degrees, a in AU.
type keplerElements struct {
	a, e, i, L, peri, node                   float64
	aDot, eDot, iDot, LDot, periDot, nodeDot float64
}

type planetDef struct {
	name       string
	diameterKm float64
	elements   keplerElements
}

var planetDefs = [...]planetDef{
	Mercury: {"Mercury", 4879.4, keplerElements{
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081}},
	Venus: {"Venus", 12103.6, keplerElements{
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418}},
	Mars: {"Mars", 6792.4, keplerElements{
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343}},
	Jupiter: {"Jupiter", 142984, keplerElements{
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106}},
	Saturn: {"Saturn", 120536, keplerElements{
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794}},
	Uranus: {"Uranus", 51118, keplerElements{
		19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
		-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589}},
	Neptune: {"Neptune", 49528, keplerElements{
		30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
		0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664}},
	Pluto: {"Pluto", 2376.6, keplerElements{
		39.48211675, 0.24882730, 17.14001206, 238.92903833, 224.06891629, 110.30393684,
		-0.00031596, 0.00005170, 0.00004818, 145.20780515, -0.04062942, -0.01183482}},
}

// Earth-Moon barycentre elements, used as the observer's orbit.
var earthElements = keplerElements{
	1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0,
	0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0,
}

const secondsPerDay = 86400.0

// heliocentric returns the heliocentric ecliptic (J2000) position in AU.
func (k keplerElements) heliocentric(jd float64) Vec3 {
	T := julianCenturies(jd)

	a := k.a + k.aDot*T
	e := k.e + k.eDot*T
	inc := degToRad(k.i + k.iDot*T)
	L := k.L + k.LDot*T
	peri := k.peri + k.periDot*T
	node := k.node + k.nodeDot*T

	argPeri := degToRad(peri - node)
	M := degToRad(normalizeAngle180(L - peri))
	nodeR := degToRad(node)

	E := solveKepler(M, e)

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(argPeri), math.Sin(argPeri)
	cn, sn := math.Cos(nodeR), math.Sin(nodeR)
	ci, si := math.Cos(inc), math.Sin(inc)

	return Vec3{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
}

// solveKepler solves M = E - e sin E for the eccentric anomaly (radians).
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < 30; i++ {
		dE := (M - (E - e*math.Sin(E))) / (1 - e*math.Cos(E))
		E += dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// PlanetPlace is the apparent geocentric place of a planet with its
// photometric and geometric extras.
type PlanetPlace struct {
	RAdeg         float64 // apparent right ascension of date
	DecDeg        float64 // apparent declination of date
	DistAU        float64 // geocentric distance (light-time corrected)
	HelioDistAU   float64 // heliocentric distance
	SunDistAU     float64 // Earth-Sun distance
	PhaseAngleDeg float64 // Sun-planet-Earth angle
	Magnitude     float64 // apparent visual magnitude
	DiameterDeg   float64 // apparent equatorial diameter
}

// PlanetApparent computes the apparent place of planet p at jd from the
// approximate Keplerian elements, iterating the light-time correction.
func PlanetApparent(p Planet, jd float64) (PlanetPlace, error) {
	if !p.Valid() {
		return PlanetPlace{}, ErrUnknownPlanet
	}
	def := planetDefs[p]

	earth := earthElements.heliocentric(jd)

	helio := def.elements.heliocentric(jd)
	geo := helio.Sub(earth)
	for i := 0; i < 2; i++ {
		tau := LightTimeFromAU(geo.Norm()) / secondsPerDay
		helio = def.elements.heliocentric(jd - tau)
		geo = helio.Sub(earth)
	}

	delta := geo.Norm()
	r := helio.Norm()
	R := earth.Norm()

	cosPhase := clamp((r*r+delta*delta-R*R)/(2*r*delta), -1, 1)
	phase := radToDeg(math.Acos(cosPhase))

	ra0, dec0 := EclipticToEquatorial(geo).Spherical()
	ra, dec := PrecessionNutation(ra0, dec0, J2000, jd)

	mag := planetMagnitude(p, r, delta, phase, helio, geo, jd)

	return PlanetPlace{
		RAdeg:         ra,
		DecDeg:        dec,
		DistAU:        delta,
		HelioDistAU:   r,
		SunDistAU:     R,
		PhaseAngleDeg: phase,
		Magnitude:     mag,
		DiameterDeg:   AngularDiameter(def.diameterKm, delta),
	}, nil
}

// AngularDiameter returns the apparent diameter in degrees of a body of
// physical diameter diameterKm at distAU.
func AngularDiameter(diameterKm, distAU float64) float64 {
	if distAU <= 0 {
		return 0
	}
	return radToDeg(2 * math.Atan(diameterKm/2/AUToKm(distAU)))
}

// planetMagnitude evaluates the visual magnitude expressions of the
// Astronomical Almanac (Meeus ch. 41). i is the phase angle in degrees.
func planetMagnitude(p Planet, r, delta, i float64, helio, geo Vec3, jd float64) float64 {
	base := 5 * math.Log10(r*delta)
	switch p {
	case Mercury:
		return -0.42 + base + 0.0380*i - 0.000273*i*i + 0.000002*i*i*i
	case Venus:
		return -4.40 + base + 0.0009*i + 0.000239*i*i - 0.00000065*i*i*i
	case Mars:
		return -1.52 + base + 0.016*i
	case Jupiter:
		return -9.40 + base + 0.005*i
	case Saturn:
		sinB, dU := saturnRingAspect(helio, geo, jd)
		return -8.88 + base + 0.044*dU - 2.60*math.Abs(sinB) + 1.25*sinB*sinB
	case Uranus:
		return -7.19 + base
	case Neptune:
		return -6.87 + base
	case Pluto:
		return -1.00 + base
	}
	return math.NaN()
}

// saturnRingAspect returns the sine of the Saturnicentric latitude of the
// Earth referred to the ring plane, and the difference in degrees between
// the Saturnicentric longitudes of the Sun and the Earth in that plane.
func saturnRingAspect(helio, geo Vec3, jd float64) (sinB, dUDeg float64) {
	T := julianCenturies(jd)
	inc := degToRad(28.075216 - 0.012998*T + 0.000004*T*T)
	node := 169.508470 + 1.394681*T + 0.000412*T*T

	ring := func(v Vec3) (sinLat, lonDeg float64) {
		lam := degToRad(EclipticLongitude(v) - node)
		beta := degToRad(EclipticLatitude(v))
		sinLat = math.Sin(inc)*math.Cos(beta)*math.Sin(lam) - math.Cos(inc)*math.Sin(beta)
		lonDeg = radToDeg(math.Atan2(
			math.Sin(inc)*math.Sin(beta)+math.Cos(inc)*math.Cos(beta)*math.Sin(lam),
			math.Cos(beta)*math.Cos(lam)))
		return sinLat, lonDeg
	}

	sinB, earthU := ring(geo)
	_, sunU := ring(helio)
	return sinB, math.Abs(normalizeAngle180(sunU - earthU))
}
