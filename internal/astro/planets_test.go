package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestPlanetApparent_VenusMeeus(t *testing.T) {
	// 1992 December 20.0 TD (Meeus, examples 33.a and 41.a)
	p, err := PlanetApparent(Venus, 2448976.5)
	if err != nil {
		t.Fatalf("PlanetApparent() error = %v", err)
	}

	// 21h04m41.454s
	if math.Abs(p.RAdeg-316.17273) > 0.05 {
		t.Errorf("RA = %.5f°, want 316.17273°", p.RAdeg)
	}
	if math.Abs(p.DecDeg-(-18.88801)) > 0.05 {
		t.Errorf("Dec = %.5f°, want -18.88801°", p.DecDeg)
	}
	if math.Abs(p.DistAU-0.910947) > 0.001 {
		t.Errorf("distance = %.6f AU, want 0.910947", p.DistAU)
	}
	if math.Abs(p.HelioDistAU-0.724604) > 0.001 {
		t.Errorf("heliocentric distance = %.6f AU, want 0.724604", p.HelioDistAU)
	}
	// The example's phase angle of 72.96° gives -4.22 with the
	// Astronomical Almanac expression
	if math.Abs(p.PhaseAngleDeg-72.96) > 0.1 {
		t.Errorf("phase angle = %.2f°, want 72.96°", p.PhaseAngleDeg)
	}
	if math.Abs(p.Magnitude-(-4.22)) > 0.05 {
		t.Errorf("magnitude = %.2f, want -4.22", p.Magnitude)
	}
}

func TestPlanetApparent_Unknown(t *testing.T) {
	for _, p := range []Planet{-1, Pluto + 1} {
		if _, err := PlanetApparent(p, J2000); !errors.Is(err, ErrUnknownPlanet) {
			t.Errorf("PlanetApparent(%d) error = %v, want ErrUnknownPlanet", p, err)
		}
		if p.Valid() || p.String() != "unknown" {
			t.Errorf("Planet(%d) should be invalid", p)
		}
	}
}

func TestPlanet_String(t *testing.T) {
	want := []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"}
	for i, name := range want {
		if got := Planet(i).String(); got != name {
			t.Errorf("Planet(%d).String() = %q, want %q", i, got, name)
		}
	}
}

func TestSaturnRingAspect_Meeus(t *testing.T) {
	// 1992 December 16.0 TD (Meeus, example 45.a)
	jd := 2448972.50068
	earth := earthElements.heliocentric(jd)
	helio := planetDefs[Saturn].elements.heliocentric(jd)
	for i := 0; i < 2; i++ {
		tau := LightTimeFromAU(helio.Sub(earth).Norm()) / secondsPerDay
		helio = planetDefs[Saturn].elements.heliocentric(jd - tau)
	}
	geo := helio.Sub(earth)

	sinB, dU := saturnRingAspect(helio, geo, jd)
	if B := radToDeg(math.Asin(sinB)); math.Abs(B-16.442) > 0.1 {
		t.Errorf("B = %.3f°, want 16.442°", B)
	}
	if math.Abs(dU-4.198) > 0.05 {
		t.Errorf("ΔU = %.3f°, want 4.198°", dU)
	}

	r, delta := helio.Norm(), geo.Norm()
	got := planetMagnitude(Saturn, r, delta, 0, helio, geo, jd)
	noDU := -8.88 + 5*math.Log10(r*delta) - 2.60*math.Abs(sinB) + 1.25*sinB*sinB
	if math.Abs(got-noDU-0.044*dU) > 1e-12 {
		t.Errorf("magnitude = %.4f, want %.4f + 0.044·ΔU", got, noDU)
	}
}

func TestPlanetApparent_Ranges(t *testing.T) {
	tests := []struct {
		planet         Planet
		magMin, magMax float64
		diaMin, diaMax float64 // arcsec
	}{
		{Mercury, -3.0, 10.0, 4.4, 13.0},
		{Venus, -5.0, -3.5, 9.0, 67.0},
		{Mars, -3.1, 2.1, 3.3, 25.5},
		{Jupiter, -3.0, -1.5, 29.5, 50.5},
		{Saturn, -0.7, 1.6, 14.0, 21.0},
		{Uranus, 5.2, 6.1, 3.2, 4.2},
		{Neptune, 7.7, 8.1, 2.1, 2.4},
		{Pluto, 13.5, 15.2, 0.08, 0.12},
	}

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.planet.String(), func(t *testing.T) {
			for m := 0; m < 40*12; m++ {
				jd := JulianDate(start.AddDate(0, m, 0))
				p, err := PlanetApparent(tt.planet, jd)
				if err != nil {
					t.Fatalf("PlanetApparent() error = %v", err)
				}
				if p.RAdeg < 0 || p.RAdeg >= 360 || p.DecDeg < -90 || p.DecDeg > 90 {
					t.Fatalf("month %d: RA/Dec (%v, %v) out of range", m, p.RAdeg, p.DecDeg)
				}
				if p.Magnitude < tt.magMin || p.Magnitude > tt.magMax {
					t.Errorf("month %d: magnitude %.2f outside [%v, %v]", m, p.Magnitude, tt.magMin, tt.magMax)
				}
				dia := p.DiameterDeg * 3600
				if dia < tt.diaMin || dia > tt.diaMax {
					t.Errorf("month %d: diameter %.3f\" outside [%v, %v]", m, dia, tt.diaMin, tt.diaMax)
				}
				if p.PhaseAngleDeg < 0 || p.PhaseAngleDeg > 180 {
					t.Errorf("month %d: phase angle %.2f°", m, p.PhaseAngleDeg)
				}
			}
		})
	}
}

func TestPlanetApparent_Configurations(t *testing.T) {
	tests := []struct {
		name     string
		planet   Planet
		time     time.Time
		min, max float64 // elongation from the Sun, degrees
	}{
		{"Jupiter opposition 2023", Jupiter, time.Date(2023, 11, 3, 5, 0, 0, 0, time.UTC), 175, 180},
		{"Venus inferior conjunction 2023", Venus, time.Date(2023, 8, 13, 12, 0, 0, 0, time.UTC), 0, 10},
		{"Saturn conjunction 2024", Saturn, time.Date(2024, 2, 28, 21, 0, 0, 0, time.UTC), 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jd := JulianDate(tt.time)
			p, err := PlanetApparent(tt.planet, jd)
			if err != nil {
				t.Fatalf("PlanetApparent() error = %v", err)
			}
			sun := SunApparent(jd)
			sep := AngularSeparation(p.RAdeg, p.DecDeg, sun.RAdeg, sun.DecDeg)
			if sep < tt.min || sep > tt.max {
				t.Errorf("elongation = %.2f°, want in [%v, %v]", sep, tt.min, tt.max)
			}
		})
	}
}

func TestAngularDiameter(t *testing.T) {
	// The Sun's photosphere (1392700 km) at 1 AU subtends ~0.533°
	if got := AngularDiameter(1392700, 1); math.Abs(got-0.5333) > 0.001 {
		t.Errorf("AngularDiameter(Sun) = %.4f°, want ~0.5333°", got)
	}
	if got := AngularDiameter(1000, 0); got != 0 {
		t.Errorf("AngularDiameter at zero distance = %v, want 0", got)
	}
}
