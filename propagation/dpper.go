package propagation

import "math"

// periodicOffsets is the set of lunar/solar long-period corrections dpper
// derives at a given time: eccentricity, inclination, mean longitude,
// argument of perigee and node.
type periodicOffsets struct {
	pe, pinc, pl, pgh, ph float64
}

// dpperOffsets evaluates the solar then lunar long-period series at t
// minutes past epoch. Each body contributes through the same two harmonics
// f2/f3 of its eccentric-longitude argument.
func (s *SatelliteRecord) dpperOffsets(t float64) periodicOffsets {
	d := &s.ds

	// Solar terms.
	zm := d.zmos + zns*t
	zf := zm + 2.0*zes*math.Sin(zm)
	sinzf := math.Sin(zf)
	f2 := 0.5*sinzf*sinzf - 0.25
	f3 := -0.5 * sinzf * math.Cos(zf)
	ses := d.se2*f2 + d.se3*f3
	sis := d.si2*f2 + d.si3*f3
	sls := d.sl2*f2 + d.sl3*f3 + d.sl4*sinzf
	sghs := d.sgh2*f2 + d.sgh3*f3 + d.sgh4*sinzf
	shs := d.sh2*f2 + d.sh3*f3

	// Lunar terms.
	zm = d.zmol + znl*t
	zf = zm + 2.0*zel*math.Sin(zm)
	sinzf = math.Sin(zf)
	f2 = 0.5*sinzf*sinzf - 0.25
	f3 = -0.5 * sinzf * math.Cos(zf)
	sel := d.ee2*f2 + d.e3*f3
	sil := d.xi2*f2 + d.xi3*f3
	sll := d.xl2*f2 + d.xl3*f3 + d.xl4*sinzf
	sghl := d.xgh2*f2 + d.xgh3*f3 + d.xgh4*sinzf
	shll := d.xh2*f2 + d.xh3*f3

	return periodicOffsets{
		pe:   ses + sel,
		pinc: sis + sil,
		pl:   sls + sll,
		pgh:  sghs + sghl,
		ph:   shs + shll,
	}
}

// dpperElements is the element subset dpper corrects in place.
type dpperElements struct {
	ep    float64 // eccentricity
	inclp float64 // inclination, rad
	nodep float64 // node, rad
	argpp float64 // argument of perigee, rad
	mp    float64 // mean anomaly, rad
}

// dpper applies the lunar/solar long-period periodic corrections to the
// mean elements at t minutes past epoch. The baseline offsets captured at
// initialization are subtracted first, so the correction vanishes at epoch.
//
// Below 0.2 rad inclination the node correction is applied through the
// Lyddane variables (sin i sin O, sin i cos O) to avoid the node
// singularity, and the resulting node is unwrapped across +-2pi so it stays
// on the same branch as the uncorrected angle.
func (s *SatelliteRecord) dpper(t float64, el *dpperElements) {
	off := s.dpperOffsets(t)
	pe := off.pe - s.ds.peo
	pinc := off.pinc - s.ds.pinco
	pl := off.pl - s.ds.plo
	pgh := off.pgh - s.ds.pgho
	ph := off.ph - s.ds.pho

	el.inclp += pinc
	el.ep += pe
	sinip := math.Sin(el.inclp)
	cosip := math.Cos(el.inclp)

	if el.inclp >= 0.2 {
		ph /= sinip
		pgh -= cosip * ph
		el.argpp += pgh
		el.nodep += ph
		el.mp += pl
		return
	}

	// Lyddane modification.
	sinop := math.Sin(el.nodep)
	cosop := math.Cos(el.nodep)
	alfdp := sinip * sinop
	betdp := sinip * cosop
	dalf := ph*cosop + pinc*cosip*sinop
	dbet := -ph*sinop + pinc*cosip*cosop
	alfdp += dalf
	betdp += dbet
	el.nodep = math.Mod(el.nodep, twoPi)
	if el.nodep < 0.0 && s.Mode == ModeAFSPC {
		el.nodep += twoPi
	}
	xls := el.mp + el.argpp + cosip*el.nodep
	dls := pl + pgh - pinc*el.nodep*sinip
	xls += dls
	xnoh := el.nodep
	el.nodep = math.Atan2(alfdp, betdp)
	if el.nodep < 0.0 && s.Mode == ModeAFSPC {
		el.nodep += twoPi
	}
	if math.Abs(xnoh-el.nodep) > math.Pi {
		if el.nodep < xnoh {
			el.nodep += twoPi
		} else {
			el.nodep -= twoPi
		}
	}
	el.mp += pl
	el.argpp = xls - el.mp - cosip*el.nodep
}
