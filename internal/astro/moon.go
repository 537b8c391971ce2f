package astro

import "math"

// MeanSynodicMonth is the mean interval between new moons in days.
const MeanSynodicMonth = 29.530588853

// earthRadiusKm is the equatorial radius of the Earth.
const earthRadiusKm = 6378.14

// MoonPlace is the apparent geocentric place of the Moon.
type MoonPlace struct {
	RAdeg       float64 // apparent right ascension of date
	DecDeg      float64 // apparent declination of date
	LonDeg      float64 // apparent ecliptic longitude
	LatDeg      float64 // ecliptic latitude
	DistKm      float64 // Earth-Moon distance (centres)
	DiameterDeg float64 // apparent angular diameter (geocentric)
}

// DistAU returns the Earth-Moon distance in AU.
func (m MoonPlace) DistAU() float64 {
	return KmToAU(m.DistKm)
}

// lunarTerm is one periodic term of the lunar series: multiples of
// D, M, M', F and the amplitudes for longitude (1e-6 deg) and distance (1e-3 km).
type lunarTerm struct {
	d, m, mp, f int
	l, r        float64
}

// Largest terms of the ELP-2000/82 series as tabulated by Meeus (ch. 47).
var lunarLonDist = []lunarTerm{
	{0, 0, 1, 0, 6288774, -20905355},
	{2, 0, -1, 0, 1274027, -3699111},
	{2, 0, 0, 0, 658314, -2955968},
	{0, 0, 2, 0, 213618, -569925},
	{0, 1, 0, 0, -185116, 48888},
	{0, 0, 0, 2, -114332, -3149},
	{2, 0, -2, 0, 58793, 246158},
	{2, -1, -1, 0, 57066, -152138},
	{2, 0, 1, 0, 53322, -170733},
	{2, -1, 0, 0, 45758, -204586},
	{0, 1, -1, 0, -40923, -129620},
	{1, 0, 0, 0, -34720, 108743},
	{0, 1, 1, 0, -30383, 104755},
	{2, 0, 0, -2, 15327, 10321},
	{0, 0, 1, 2, -12528, 0},
	{0, 0, 1, -2, 10980, 79661},
	{4, 0, -1, 0, 10675, -34782},
	{0, 0, 3, 0, 10034, -23210},
	{4, 0, -2, 0, 8548, -21636},
	{2, 1, -1, 0, -7888, 24208},
	{2, 1, 0, 0, -6766, 30824},
	{1, 0, -1, 0, -5163, -8379},
	{1, 1, 0, 0, 4987, -16675},
	{2, -1, 1, 0, 4036, -12831},
	{2, 0, 2, 0, 3994, -10445},
}

// Latitude terms; amplitude in 1e-6 deg stored in l.
var lunarLat = []lunarTerm{
	{0, 0, 0, 1, 5128122, 0},
	{0, 0, 1, 1, 280602, 0},
	{0, 0, 1, -1, 277693, 0},
	{2, 0, 0, -1, 173237, 0},
	{2, 0, -1, 1, 55413, 0},
	{2, 0, -1, -1, 46271, 0},
	{2, 0, 0, 1, 32573, 0},
	{0, 0, 2, 1, 17198, 0},
	{2, 0, 1, -1, 9266, 0},
	{0, 0, 2, -1, 8822, 0},
	{2, -1, 0, -1, 8216, 0},
	{2, 0, -2, -1, 4324, 0},
	{2, 0, 1, 1, 4200, 0},
}

// moonEcliptic returns the geometric ecliptic longitude/latitude (mean
// equinox of date, degrees) and distance (km) of the Moon.
func moonEcliptic(jd float64) (lon, lat, distKm float64) {
	T := julianCenturies(jd)

	Lp := normalizeAngle360(218.3164477 + 481267.88123421*T - 0.0015786*T*T)
	D := normalizeAngle360(297.8501921 + 445267.1114034*T - 0.0018819*T*T)
	M := normalizeAngle360(357.5291092 + 35999.0502909*T - 0.0001536*T*T)
	Mp := normalizeAngle360(134.9633964 + 477198.8675055*T + 0.0087414*T*T)
	F := normalizeAngle360(93.2720950 + 483202.0175233*T - 0.0036539*T*T)

	A1 := degToRad(119.75 + 131.849*T)
	A2 := degToRad(53.09 + 479264.290*T)
	A3 := degToRad(313.45 + 481266.484*T)

	// Eccentricity of Earth's orbit scales terms containing M
	E := 1 - 0.002516*T - 0.0000074*T*T
	eFactor := func(m int) float64 {
		switch m {
		case 1, -1:
			return E
		case 2, -2:
			return E * E
		default:
			return 1
		}
	}

	var sumL, sumR, sumB float64
	for _, t := range lunarLonDist {
		arg := degToRad(float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F)
		ef := eFactor(t.m)
		sumL += t.l * ef * math.Sin(arg)
		sumR += t.r * ef * math.Cos(arg)
	}
	for _, t := range lunarLat {
		arg := degToRad(float64(t.d)*D + float64(t.m)*M + float64(t.mp)*Mp + float64(t.f)*F)
		sumB += t.l * eFactor(t.m) * math.Sin(arg)
	}

	LpR, MpR, FR := degToRad(Lp), degToRad(Mp), degToRad(F)
	sumL += 3958*math.Sin(A1) + 1962*math.Sin(LpR-FR) + 318*math.Sin(A2)
	sumB += -2235*math.Sin(LpR) + 382*math.Sin(A3) + 175*math.Sin(A1-FR) +
		175*math.Sin(A1+FR) + 127*math.Sin(LpR-MpR) - 115*math.Sin(LpR+MpR)

	lon = normalizeAngle360(Lp + sumL/1e6)
	lat = sumB / 1e6
	distKm = 385000.56 + sumR/1000
	return lon, lat, distKm
}

// MoonApparent computes the apparent geocentric place of the Moon.
// Truncated series; accuracy is a few arc-minutes in longitude.
func MoonApparent(jd float64) MoonPlace {
	lon, lat, dist := moonEcliptic(jd)

	dPsi, _ := Nutation(jd)
	appLon := normalizeAngle360(lon + dPsi)

	ra, dec := EclipticToRADec(appLon, lat, TrueObliquity(jd))

	// Semidiameter in arcseconds: 358473400 / distance(km)
	diameter := 2 * 358473400 / dist / 3600

	return MoonPlace{
		RAdeg:       ra,
		DecDeg:      dec,
		LonDeg:      appLon,
		LatDeg:      lat,
		DistKm:      dist,
		DiameterDeg: diameter,
	}
}

// LunarPhase describes where the Moon is in its synodic cycle.
type LunarPhase struct {
	AgeDays       float64 // days since the most recent new moon
	MonthDays     float64 // length of the current lunation (new moon to new moon)
	ElongationDeg float64 // Moon minus Sun apparent longitude, [0, 360)
	Illuminated   float64 // illuminated fraction of the disk, [0, 1]
	PrevNewMoonJD float64
	NextNewMoonJD float64
}

// lunarElongation returns the Moon-Sun apparent longitude difference in [0, 360).
func lunarElongation(jd float64) float64 {
	lon, _, _ := moonEcliptic(jd)
	dPsi, _ := Nutation(jd)
	return normalizeAngle360(lon + dPsi - SunApparent(jd).LonDeg)
}

// newMoonNear refines a guess to the nearest instant of zero elongation.
func newMoonNear(jd float64) float64 {
	rate := 360 / MeanSynodicMonth
	for i := 0; i < 12; i++ {
		step := normalizeAngle180(lunarElongation(jd)) / rate
		jd -= step
		if math.Abs(step) < 1e-7 {
			break
		}
	}
	return jd
}

// Phase computes the lunar age and the length of the current lunation from
// the true new moons bracketing jd. The month length therefore tracks the
// lunar anomaly rather than staying at its mean value.
func Phase(jd float64) LunarPhase {
	rate := 360 / MeanSynodicMonth
	elong := lunarElongation(jd)

	prev := newMoonNear(jd - elong/rate)
	if prev > jd {
		if prev-jd < 1e-6 {
			prev = jd
		} else {
			prev = newMoonNear(prev - MeanSynodicMonth)
		}
	}
	next := newMoonNear(prev + MeanSynodicMonth)
	if next <= jd {
		prev = next
		next = newMoonNear(prev + MeanSynodicMonth)
	}

	sun := SunApparent(jd)
	moon := MoonApparent(jd)
	psi := degToRad(AngularSeparation(moon.RAdeg, moon.DecDeg, sun.RAdeg, sun.DecDeg))
	sunKm := AUToKm(sun.DistAU)
	phaseAngle := math.Atan2(sunKm*math.Sin(psi), moon.DistKm-sunKm*math.Cos(psi))

	return LunarPhase{
		AgeDays:       jd - prev,
		MonthDays:     next - prev,
		ElongationDeg: elong,
		Illuminated:   (1 + math.Cos(phaseAngle)) / 2,
		PrevNewMoonJD: prev,
		NextNewMoonJD: next,
	}
}

// BrightLimbAngle returns the position angle of the midpoint of the Moon's
// bright limb, measured from celestial north through east, in degrees.
func BrightLimbAngle(moonRA, moonDec, sunRA, sunDec float64) float64 {
	a, d := degToRad(moonRA), degToRad(moonDec)
	a0, d0 := degToRad(sunRA), degToRad(sunDec)
	y := math.Cos(d0) * math.Sin(a0-a)
	x := math.Sin(d0)*math.Cos(d) - math.Cos(d0)*math.Sin(d)*math.Cos(a0-a)
	return normalizeAngle360(radToDeg(math.Atan2(y, x)))
}

// ParallacticAngle returns the position angle of the zenith as seen at an
// object with the given hour angle and declination, in degrees.
func ParallacticAngle(haDeg, decDeg, latDeg float64) float64 {
	h, d, lat := degToRad(haDeg), degToRad(decDeg), degToRad(latDeg)
	y := math.Sin(h)
	x := math.Tan(lat)*math.Cos(d) - math.Sin(d)*math.Cos(h)
	if x == 0 && y == 0 {
		return 0
	}
	return radToDeg(math.Atan2(y, x))
}

// MoonMagnitude returns the Moon's apparent visual magnitude for a phase
// angle in degrees and a geocentric distance in km (Allen's expression,
// scaled from the mean distance).
func MoonMagnitude(phaseAngleDeg, distKm float64) float64 {
	i := math.Abs(phaseAngleDeg)
	return -12.73 + 0.026*i + 4e-9*i*i*i*i + 5*math.Log10(distKm/384400)
}
