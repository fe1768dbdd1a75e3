package propagation

import (
	"math"

	"github.com/star/orbitcore/transform"
)

// initlResult carries the geometry initl derives from the raw elements:
// the un-Kozai'd mean motion, the semi-major axis family and the
// inclination functions the secular model is built from.
type initlResult struct {
	no     float64 // recovered mean motion, rad/min
	ao     float64 // recovered semi-major axis, Earth radii
	ainv   float64
	con41  float64
	con42  float64
	cosio  float64
	cosio2 float64
	sinio  float64
	eccsq  float64
	omeosq float64 // 1-e^2
	rteosq float64 // sqrt(1-e^2)
	po     float64 // semi-latus rectum
	posq   float64
	rp     float64 // perigee radius, Earth radii
	gsto   float64 // Greenwich sidereal time at epoch, rad
}

// initl recovers the original ("un-Kozai'd") mean motion and semi-major
// axis from the input elements and computes the epoch geometry. The
// recovery is exactly two fixed-point refinements, not iteration to
// convergence; published ephemerides depend on stopping there.
//
// epoch1950 is the epoch in days since 1950-01-01 00:00 UT.
func initl(grav gravityConstants, ecco, epoch1950, inclo, no float64, mode OperationMode) initlResult {
	var r initlResult

	r.eccsq = ecco * ecco
	r.omeosq = 1.0 - r.eccsq
	r.rteosq = math.Sqrt(r.omeosq)
	r.cosio = math.Cos(inclo)
	r.cosio2 = r.cosio * r.cosio

	// Un-Kozai the mean motion: two passes through the first-order J2
	// relation between Kozai and Brouwer mean motion.
	ak := math.Pow(grav.xke/no, x2o3)
	d1 := 0.75 * grav.j2 * (3.0*r.cosio2 - 1.0) / (r.rteosq * r.omeosq)
	del := d1 / (ak * ak)
	adel := ak * (1.0 - del*del - del*(1.0/3.0+134.0*del*del/81.0))
	del = d1 / (adel * adel)
	r.no = no / (1.0 + del)

	r.ao = math.Pow(grav.xke/r.no, x2o3)
	r.sinio = math.Sin(inclo)
	r.po = r.ao * r.omeosq
	r.con42 = 1.0 - 5.0*r.cosio2
	r.con41 = -r.con42 - r.cosio2 - r.cosio2
	r.ainv = 1.0 / r.ao
	r.posq = r.po * r.po
	r.rp = r.ao * (1.0 - ecco)

	if mode == ModeAFSPC {
		// Original Spacetrack derivation: sidereal time from the day
		// count since 1970 Jan 0.
		ts70 := epoch1950 - 7305.0
		ds70 := math.Floor(ts70 + 1.0e-8)
		tfrac := ts70 - ds70
		const c1 = 1.72027916940703639e-2
		const thgr70 = 1.7321343856509374
		const fk5r = 5.07551419432269442e-15
		c1p2p := c1 + twoPi
		r.gsto = math.Mod(thgr70+c1*ds70+c1p2p*tfrac+ts70*ts70*fk5r, twoPi)
		if r.gsto < 0.0 {
			r.gsto += twoPi
		}
	} else {
		r.gsto = transform.GMSTFromJulian(epoch1950 + jdEpoch1950)
	}

	return r
}

// Initialize builds a propagation record from parsed orbital elements using
// the WGS-72 gravity model, the fit standard for published element sets.
//
// Initialization never fails: an internally inconsistent element set yields
// a record whose first Propagate call reports the corresponding typed error.
func Initialize(el OrbitalElements) *SatelliteRecord {
	return InitializeWithOptions(el, GravityWGS72, ModeImproved)
}

// InitializeWithOptions is Initialize with an explicit gravity model and
// operation mode.
func InitializeWithOptions(el OrbitalElements, model GravityModel, mode OperationMode) *SatelliteRecord {
	grav := gravity(model)

	s := &SatelliteRecord{
		Catalog: el.CatalogNumber,
		Gravity: model,
		Mode:    mode,
		grav:    grav,

		bstar: el.Bstar,
		ecco:  el.Eccentricity,
		argpo: el.ArgPerigee * deg2rad,
		inclo: el.Inclination * deg2rad,
		mo:    el.MeanAnomaly * deg2rad,
		nodeo: el.RightAscen * deg2rad,
		no:    el.MeanMotion / xpdotp,
	}

	s.JdsatEpoch = transform.JulianDateFromEpoch(el.EpochYear, el.EpochDays)
	s.epoch1950 = s.JdsatEpoch - jdEpoch1950

	sgp4init(s)
	return s
}

// sgp4init derives every secular-rate, drag and resonance-trigger
// coefficient from the epoch elements, decides the near-Earth/deep-space
// branch, and settles the record with one propagation at t=0.
func sgp4init(s *SatelliteRecord) {
	grav := s.grav

	const temp4 = 1.5e-12
	ss := 78.0/grav.radiusEarthKm + 1.0
	qzms2t := math.Pow((120.0-78.0)/grav.radiusEarthKm, 4.0)

	il := initl(grav, s.ecco, s.epoch1950, s.inclo, s.no, s.Mode)
	s.no = il.no
	s.con41 = il.con41
	s.gsto = il.gsto
	s.cosio = il.cosio
	s.sinio = il.sinio
	s.a = math.Pow(s.no*grav.tumin, -x2o3)
	s.alta = il.ao*(1.0+s.ecco) - 1.0
	s.altp = il.ao*(1.0-s.ecco) - 1.0
	s.rp = il.rp

	if il.omeosq < 0.0 || s.no <= 0.0 {
		// Degenerate element set; leave the record zeroed past this
		// point so the first Propagate call fails cleanly.
		return
	}

	// Simplified drag path for perigee below 220 km.
	s.isimp = il.rp < 220.0/grav.radiusEarthKm+1.0

	// Density-model constants, re-derived when perigee altitude drops
	// below 156 km, with a hard 20 km floor below 98 km. The sharp
	// breakpoints are original-theory behavior.
	sfour := ss
	qzms24 := qzms2t
	perige := (il.rp - 1.0) * grav.radiusEarthKm
	if perige < 156.0 {
		sfour = perige - 78.0
		if perige < 98.0 {
			sfour = 20.0
		}
		qzms24 = math.Pow((120.0-sfour)/grav.radiusEarthKm, 4.0)
		sfour = sfour/grav.radiusEarthKm + 1.0
	}

	pinvsq := 1.0 / il.posq

	tsi := 1.0 / (il.ao - sfour)
	s.eta = il.ao * s.ecco * tsi
	etasq := s.eta * s.eta
	eeta := s.ecco * s.eta
	psisq := math.Abs(1.0 - etasq)
	coef := qzms24 * math.Pow(tsi, 4.0)
	coef1 := coef / math.Pow(psisq, 3.5)
	cc2 := coef1 * s.no * (il.ao*(1.0+1.5*etasq+eeta*(4.0+etasq)) +
		0.375*grav.j2*tsi/psisq*s.con41*(8.0+3.0*etasq*(8.0+etasq)))
	s.cc1 = s.bstar * cc2
	cc3 := 0.0
	if s.ecco > 1.0e-4 {
		cc3 = -2.0 * coef * tsi * grav.j3oj2 * s.no * s.sinio / s.ecco
	}
	s.x1mth2 = 1.0 - il.cosio2
	s.cc4 = 2.0 * s.no * coef1 * il.ao * il.omeosq *
		(s.eta*(2.0+0.5*etasq) + s.ecco*(0.5+2.0*etasq) -
			grav.j2*tsi/(il.ao*psisq)*
				(-3.0*s.con41*(1.0-2.0*eeta+etasq*(1.5-0.5*eeta))+
					0.75*s.x1mth2*(2.0*etasq-eeta*(1.0+etasq))*math.Cos(2.0*s.argpo)))
	s.cc5 = 2.0 * coef1 * il.ao * il.omeosq * (1.0 + 2.75*(etasq+eeta) + eeta*etasq)

	cosio4 := il.cosio2 * il.cosio2
	temp1 := 1.5 * grav.j2 * pinvsq * s.no
	temp2 := 0.5 * temp1 * grav.j2 * pinvsq
	temp3 := -0.46875 * grav.j4 * pinvsq * pinvsq * s.no
	s.mdot = s.no + 0.5*temp1*il.rteosq*s.con41 +
		0.0625*temp2*il.rteosq*(13.0-78.0*il.cosio2+137.0*cosio4)
	s.argpdot = -0.5*temp1*il.con42 +
		0.0625*temp2*(7.0-114.0*il.cosio2+395.0*cosio4) +
		temp3*(3.0-36.0*il.cosio2+49.0*cosio4)
	xhdot1 := -temp1 * il.cosio
	s.nodedot = xhdot1 + (0.5*temp2*(4.0-19.0*il.cosio2)+
		2.0*temp3*(3.0-7.0*il.cosio2))*il.cosio
	xpidot := s.argpdot + s.nodedot

	s.omgcof = s.bstar * cc3 * math.Cos(s.argpo)
	s.xmcof = 0.0
	if s.ecco > 1.0e-4 {
		s.xmcof = -x2o3 * coef * s.bstar / eeta
	}
	s.nodecf = 3.5 * il.omeosq * xhdot1 * s.cc1
	s.t2cof = 1.5 * s.cc1
	if math.Abs(il.cosio+1.0) > 1.5e-12 {
		s.xlcof = -0.25 * grav.j3oj2 * s.sinio * (3.0 + 5.0*il.cosio) / (1.0 + il.cosio)
	} else {
		s.xlcof = -0.25 * grav.j3oj2 * s.sinio * (3.0 + 5.0*il.cosio) / temp4
	}
	s.aycof = -0.5 * grav.j3oj2 * s.sinio
	delmotemp := 1.0 + s.eta*math.Cos(s.mo)
	s.delmo = delmotemp * delmotemp * delmotemp
	s.sinmao = math.Sin(s.mo)
	s.x7thm1 = 7.0*il.cosio2 - 1.0

	// Deep-space branch for periods of 225 minutes and up.
	if twoPi/s.no >= 225.0 {
		s.deepSpace = true
		s.isimp = true

		dsc := dscom(dscomInput{
			epoch1950: s.epoch1950,
			ep:        s.ecco,
			argpp:     s.argpo,
			tc:        0.0,
			inclp:     s.inclo,
			nodep:     s.nodeo,
			np:        s.no,
		})
		s.ds.se2, s.ds.se3 = dsc.se2, dsc.se3
		s.ds.si2, s.ds.si3 = dsc.si2, dsc.si3
		s.ds.sl2, s.ds.sl3, s.ds.sl4 = dsc.sl2, dsc.sl3, dsc.sl4
		s.ds.sgh2, s.ds.sgh3, s.ds.sgh4 = dsc.sgh2, dsc.sgh3, dsc.sgh4
		s.ds.sh2, s.ds.sh3 = dsc.sh2, dsc.sh3
		s.ds.ee2, s.ds.e3 = dsc.ee2, dsc.e3
		s.ds.xi2, s.ds.xi3 = dsc.xi2, dsc.xi3
		s.ds.xl2, s.ds.xl3, s.ds.xl4 = dsc.xl2, dsc.xl3, dsc.xl4
		s.ds.xgh2, s.ds.xgh3, s.ds.xgh4 = dsc.xgh2, dsc.xgh3, dsc.xgh4
		s.ds.xh2, s.ds.xh3 = dsc.xh2, dsc.xh3
		s.ds.zmol, s.ds.zmos = dsc.zmol, dsc.zmos

		// Capture the dpper baseline offsets at epoch so that update-mode
		// corrections vanish at t=0 and the record reproduces its mean
		// elements at epoch.
		base := s.dpperOffsets(0.0)
		s.ds.peo = base.pe
		s.ds.pinco = base.pinc
		s.ds.plo = base.pl
		s.ds.pgho = base.pgh
		s.ds.pho = base.ph

		dsi := dsinit(&dsc, dsinitInput{
			grav:    s.grav,
			argpo:   s.argpo,
			tc:      0.0,
			gsto:    s.gsto,
			mo:      s.mo,
			mdot:    s.mdot,
			no:      s.no,
			nodeo:   s.nodeo,
			nodedot: s.nodedot,
			xpidot:  xpidot,
			ecco:    s.ecco,
			eccsq:   il.eccsq,
			inclm:   s.inclo,
		})
		s.irez = dsi.irez
		s.ds.dedt = dsi.dedt
		s.ds.didt = dsi.didt
		s.ds.dmdt = dsi.dmdt
		s.ds.dnodt = dsi.dnodt
		s.ds.domdt = dsi.domdt
		s.ds.del1, s.ds.del2, s.ds.del3 = dsi.del1, dsi.del2, dsi.del3
		s.ds.d2201, s.ds.d2211 = dsi.d2201, dsi.d2211
		s.ds.d3210, s.ds.d3222 = dsi.d3210, dsi.d3222
		s.ds.d4410, s.ds.d4422 = dsi.d4410, dsi.d4422
		s.ds.d5220, s.ds.d5232 = dsi.d5220, dsi.d5232
		s.ds.d5421, s.ds.d5433 = dsi.d5421, dsi.d5433
		s.xlamo = dsi.xlamo
		s.xfact = dsi.xfact
		s.rs = resonanceState{atime: 0.0, xli: dsi.xlamo, xni: s.no}
	}

	// Higher-order drag coefficients are only used off the simplified path.
	if !s.isimp {
		cc1sq := s.cc1 * s.cc1
		s.d2 = 4.0 * il.ao * tsi * cc1sq
		temp := s.d2 * tsi * s.cc1 / 3.0
		s.d3 = (17.0*il.ao + sfour) * temp
		s.d4 = 0.5 * temp * il.ao * tsi * (221.0*il.ao + 31.0*sfour) * s.cc1
		s.t3cof = s.d2 + 2.0*cc1sq
		s.t4cof = 0.25 * (3.0*s.d3 + s.cc1*(12.0*s.d2+10.0*cc1sq))
		s.t5cof = 0.2 * (3.0*s.d4 + 12.0*s.cc1*s.d3 + 6.0*s.d2*s.d2 +
			15.0*cc1sq*(2.0*s.d2+cc1sq))
	}

	// One settle pass at the epoch; the result is discarded, any error
	// will surface again on the caller's first real propagation.
	s.Propagate(0.0)
}
