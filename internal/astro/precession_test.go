package astro

import (
	"math"
	"testing"
)

func TestMeanObliquity(t *testing.T) {
	// 1987 April 10.0 TD (Meeus, example 22.a): 23°26'27.407"
	got := MeanObliquity(2446895.5)
	want := 23 + 26.0/60 + 27.407/3600
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("MeanObliquity() = %.7f°, want %.7f°", got, want)
	}
}

func TestNutation(t *testing.T) {
	// 1987 April 10.0 TD (Meeus, example 22.a): dPsi = -3.788", dEps = +9.443"
	dPsi, dEps := Nutation(2446895.5)

	if math.Abs(dPsi/arcsec-(-3.788)) > 0.5 {
		t.Errorf("dPsi = %.3f\", want -3.788\"", dPsi/arcsec)
	}
	if math.Abs(dEps/arcsec-9.443) > 0.1 {
		t.Errorf("dEps = %.3f\", want 9.443\"", dEps/arcsec)
	}
}

// precess moves a mean place between epochs without nutation.
func precess(raDeg, decDeg, fromJD, toJD float64) (float64, float64) {
	return precessionMatrix(fromJD, toJD).Apply(UnitVector(raDeg, decDeg)).Spherical()
}

func TestPrecessionMatrix(t *testing.T) {
	// Theta Persei (Meeus, example 21.b), J2000 to 2028 November 13.19 TD
	ra, dec := precess(41.054063, 49.227750, J2000, 2462088.69)

	if math.Abs(ra-41.547214) > 1e-4 {
		t.Errorf("RA = %.6f°, want 41.547214°", ra)
	}
	if math.Abs(dec-49.348483) > 1e-4 {
		t.Errorf("Dec = %.6f°, want 49.348483°", dec)
	}
}

func TestPrecessionMatrix_Identity(t *testing.T) {
	ra, dec := precess(101.287, -16.716, J2000, J2000)
	if math.Abs(ra-101.287) > 1e-9 || math.Abs(dec-(-16.716)) > 1e-9 {
		t.Errorf("precess to same epoch = (%v, %v)", ra, dec)
	}
}

func TestPrecessionMatrix_RoundTrip(t *testing.T) {
	jd := J2000 + 75*daysPerCentury

	for _, c := range []struct{ ra, dec float64 }{
		{0, 0}, {37.95, 89.26}, {95.99, -52.70}, {279.23, 38.78}, {359.99, -89.9},
	} {
		ra1, dec1 := precess(c.ra, c.dec, J2000, jd)
		ra2, dec2 := precess(ra1, dec1, jd, J2000)
		if math.Abs(dec2-c.dec) > 1e-8 {
			t.Errorf("(%v, %v): Dec round trip = %v", c.ra, c.dec, dec2)
		}
		// RA is degenerate at the poles
		if math.Abs(c.dec) < 89.5 && math.Abs(normalizeAngle180(ra2-c.ra)) > 1e-6 {
			t.Errorf("(%v, %v): RA round trip = %v", c.ra, c.dec, ra2)
		}
	}
}

func TestPrecessionNutation(t *testing.T) {
	// Theta Persei (Meeus, example 23.a). The apparent place there also
	// carries annual aberration (+30.045", +6.697"), which is not applied
	// here, so compare against precession plus nutation (+15.843", +6.218")
	// tightly and against the full apparent place to one arc-minute.
	ra, dec := PrecessionNutation(41.054063, 49.227750, J2000, 2462088.69)

	wantRA := 41.547214 + 15.843*arcsec
	wantDec := 49.348483 + 6.218*arcsec
	if math.Abs(ra-wantRA) > 2e-4 {
		t.Errorf("RA = %.6f°, want %.6f°", ra, wantRA)
	}
	if math.Abs(dec-wantDec) > 2e-4 {
		t.Errorf("Dec = %.6f°, want %.6f°", dec, wantDec)
	}

	appRA := (2 + 46.0/60 + 14.390/3600) * 15
	appDec := 49 + 21.0/60 + 7.45/3600
	if sep := AngularSeparation(ra, dec, appRA, appDec); sep > 1.0/60 {
		t.Errorf("separation from apparent place = %.5f°, want < 1'", sep)
	}
}

func TestPrecessionNutation_NearPole(t *testing.T) {
	for _, jd := range []float64{J2000 - 10*daysPerCentury, J2000, J2000 + 10*daysPerCentury} {
		ra, dec := PrecessionNutation(37.95, 89.26, J2000, jd)
		if math.IsNaN(ra) || math.IsNaN(dec) || ra < 0 || ra >= 360 || dec > 90 || dec < 80 {
			t.Errorf("jd %.1f: Polaris = (%v, %v)", jd, ra, dec)
		}
	}
}
