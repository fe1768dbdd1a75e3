package propagation

import "math"

// dscomInput is the narrow view of the epoch elements the deep-space
// common-term derivation works from.
type dscomInput struct {
	epoch1950 float64 // days since 1950-01-01 00:00 UT
	ep        float64 // eccentricity
	argpp     float64 // argument of perigee, rad
	tc        float64 // minutes past epoch
	inclp     float64 // inclination, rad
	nodep     float64 // node, rad
	np        float64 // mean motion, rad/min
}

// dscomOutput carries the solar/lunar third-body geometry and the amplitude
// coefficients feeding both the long-period periodics and the resonance
// initializer.
type dscomOutput struct {
	sinim, cosim float64
	emsq         float64

	// Per-body intermediates kept for dsinit (solar = ss*, sz*;
	// lunar = s*, z*).
	s1, s2, s3, s4, s5, s6, s7        float64
	ss1, ss2, ss3, ss4, ss5, ss6, ss7 float64
	sz1, sz2, sz3                     float64
	sz11, sz12, sz13                  float64
	sz21, sz22, sz23                  float64
	sz31, sz32, sz33                  float64
	z1, z2, z3                        float64
	z11, z12, z13                     float64
	z21, z22, z23                     float64
	z31, z32, z33                     float64

	// Solar periodic amplitudes.
	se2, se3         float64
	si2, si3         float64
	sl2, sl3, sl4    float64
	sgh2, sgh3, sgh4 float64
	sh2, sh3         float64

	// Lunar periodic amplitudes.
	ee2, e3          float64
	xi2, xi3         float64
	xl2, xl3, xl4    float64
	xgh2, xgh3, xgh4 float64
	xh2, xh3         float64

	// Mean longitude of the Moon/Sun at epoch, rad.
	zmol, zmos float64
}

// dscom computes the lunar and solar third-body geometry from the low-order
// day-number series embedded in the 1980 Spacetrack Report #3 theory (this
// is not a general ephemeris) and derives the periodic amplitude
// coefficients. The solar and lunar passes share one loop body; the second
// pass swaps in the lunar orientation constants derived from the Moon's
// node series.
func dscom(in dscomInput) dscomOutput {
	var o dscomOutput

	nm := in.np
	em := in.ep
	snodm := math.Sin(in.nodep)
	cnodm := math.Cos(in.nodep)
	sinomm := math.Sin(in.argpp)
	cosomm := math.Cos(in.argpp)
	o.sinim = math.Sin(in.inclp)
	o.cosim = math.Cos(in.inclp)
	o.emsq = em * em
	betasq := 1.0 - o.emsq
	rtemsq := math.Sqrt(betasq)

	// Lunar ascending-node geometry from the epoch day number.
	day := in.epoch1950 + 18261.5 + in.tc/1440.0
	xnodce := math.Mod(4.5236020-9.2422029e-4*day, twoPi)
	stem := math.Sin(xnodce)
	ctem := math.Cos(xnodce)
	zcosil := 0.91375164 - 0.03568096*ctem
	zsinil := math.Sqrt(1.0 - zcosil*zcosil)
	zsinhl := 0.089683511 * stem / zsinil
	zcoshl := math.Sqrt(1.0 - zsinhl*zsinhl)
	gam := 5.8351514 + 0.0019443680*day
	zx := 0.39785416 * stem / zsinil
	zy := zcoshl*ctem + 0.91744867*zsinhl*stem
	zx = math.Atan2(zx, zy)
	zx = gam + zx - xnodce
	zcosgl := math.Cos(zx)
	zsingl := math.Sin(zx)

	// First pass: solar constants. Second pass: lunar.
	zcosg := zcosgs
	zsing := zsings
	zcosi := zcosis
	zsini := zsinis
	zcosh := cnodm
	zsinh := snodm
	cc := c1ss
	xnoi := 1.0 / nm

	var s1, s2, s3, s4, s5, s6, s7 float64
	var z1, z2, z3 float64
	var z11, z12, z13, z21, z22, z23, z31, z32, z33 float64

	for lsflg := 1; lsflg <= 2; lsflg++ {
		a1 := zcosg*zcosh + zsing*zcosi*zsinh
		a3 := -zsing*zcosh + zcosg*zcosi*zsinh
		a7 := -zcosg*zsinh + zsing*zcosi*zcosh
		a8 := zsing * zsini
		a9 := zsing*zsinh + zcosg*zcosi*zcosh
		a10 := zcosg * zsini
		a2 := o.cosim*a7 + o.sinim*a8
		a4 := o.cosim*a9 + o.sinim*a10
		a5 := -o.sinim*a7 + o.cosim*a8
		a6 := -o.sinim*a9 + o.cosim*a10

		x1 := a1*cosomm + a2*sinomm
		x2 := a3*cosomm + a4*sinomm
		x3 := -a1*sinomm + a2*cosomm
		x4 := -a3*sinomm + a4*cosomm
		x5 := a5 * sinomm
		x6 := a6 * sinomm
		x7 := a5 * cosomm
		x8 := a6 * cosomm

		z31 = 12.0*x1*x1 - 3.0*x3*x3
		z32 = 24.0*x1*x2 - 6.0*x3*x4
		z33 = 12.0*x2*x2 - 3.0*x4*x4
		z1 = 3.0*(a1*a1+a2*a2) + z31*o.emsq
		z2 = 6.0*(a1*a3+a2*a4) + z32*o.emsq
		z3 = 3.0*(a3*a3+a4*a4) + z33*o.emsq
		z11 = -6.0*a1*a5 + o.emsq*(-24.0*x1*x7-6.0*x3*x5)
		z12 = -6.0*(a1*a6+a3*a5) + o.emsq*(-24.0*(x2*x7+x1*x8)-6.0*(x3*x6+x4*x5))
		z13 = -6.0*a3*a6 + o.emsq*(-24.0*x2*x8-6.0*x4*x6)
		z21 = 6.0*a2*a5 + o.emsq*(24.0*x1*x5-6.0*x3*x7)
		z22 = 6.0*(a4*a5+a2*a6) + o.emsq*(24.0*(x2*x5+x1*x6)-6.0*(x4*x7+x3*x8))
		z23 = 6.0*a4*a6 + o.emsq*(24.0*x2*x6-6.0*x4*x8)
		z1 = z1 + z1 + betasq*z31
		z2 = z2 + z2 + betasq*z32
		z3 = z3 + z3 + betasq*z33
		s3 = cc * xnoi
		s2 = -0.5 * s3 / rtemsq
		s4 = s3 * rtemsq
		s1 = -15.0 * em * s4
		s5 = x1*x3 + x2*x4
		s6 = x2*x3 + x1*x4
		s7 = x2*x4 - x1*x3

		if lsflg == 1 {
			o.ss1, o.ss2, o.ss3, o.ss4 = s1, s2, s3, s4
			o.ss5, o.ss6, o.ss7 = s5, s6, s7
			o.sz1, o.sz2, o.sz3 = z1, z2, z3
			o.sz11, o.sz12, o.sz13 = z11, z12, z13
			o.sz21, o.sz22, o.sz23 = z21, z22, z23
			o.sz31, o.sz32, o.sz33 = z31, z32, z33
			zcosg = zcosgl
			zsing = zsingl
			zcosi = zcosil
			zsini = zsinil
			zcosh = zcoshl*cnodm + zsinhl*snodm
			zsinh = snodm*zcoshl - cnodm*zsinhl
			cc = c1l
		}
	}

	o.s1, o.s2, o.s3, o.s4 = s1, s2, s3, s4
	o.s5, o.s6, o.s7 = s5, s6, s7
	o.z1, o.z2, o.z3 = z1, z2, z3
	o.z11, o.z12, o.z13 = z11, z12, z13
	o.z21, o.z22, o.z23 = z21, z22, z23
	o.z31, o.z32, o.z33 = z31, z32, z33

	o.zmol = math.Mod(4.7199672+0.22997150*day-gam, twoPi)
	o.zmos = math.Mod(6.2565837+0.017201977*day, twoPi)

	// Solar amplitudes.
	o.se2 = 2.0 * o.ss1 * o.ss6
	o.se3 = 2.0 * o.ss1 * o.ss7
	o.si2 = 2.0 * o.ss2 * o.sz12
	o.si3 = 2.0 * o.ss2 * (o.sz13 - o.sz11)
	o.sl2 = -2.0 * o.ss3 * o.sz2
	o.sl3 = -2.0 * o.ss3 * (o.sz3 - o.sz1)
	o.sl4 = -2.0 * o.ss3 * (-21.0 - 9.0*o.emsq) * zes
	o.sgh2 = 2.0 * o.ss4 * o.sz32
	o.sgh3 = 2.0 * o.ss4 * (o.sz33 - o.sz31)
	o.sgh4 = -18.0 * o.ss4 * zes
	o.sh2 = -2.0 * o.ss2 * o.sz22
	o.sh3 = -2.0 * o.ss2 * (o.sz23 - o.sz21)

	// Lunar amplitudes.
	o.ee2 = 2.0 * s1 * s6
	o.e3 = 2.0 * s1 * s7
	o.xi2 = 2.0 * s2 * z12
	o.xi3 = 2.0 * s2 * (z13 - z11)
	o.xl2 = -2.0 * s3 * z2
	o.xl3 = -2.0 * s3 * (z3 - z1)
	o.xl4 = -2.0 * s3 * (-21.0 - 9.0*o.emsq) * zel
	o.xgh2 = 2.0 * s4 * z32
	o.xgh3 = 2.0 * s4 * (z33 - z31)
	o.xgh4 = -18.0 * s4 * zel
	o.xh2 = -2.0 * s2 * z22
	o.xh3 = -2.0 * s2 * (z23 - z21)

	return o
}

// dsinitInput is the record-side view dsinit needs on top of the dscom
// output: epoch elements, secular rates and sidereal time.
type dsinitInput struct {
	grav    gravityConstants
	argpo   float64
	tc      float64
	gsto    float64
	mo      float64
	mdot    float64
	no      float64
	nodeo   float64
	nodedot float64
	xpidot  float64
	ecco    float64
	eccsq   float64
	inclm   float64
}

// dsinitOutput carries the resonance classification, the third-body secular
// rates, and the resonance amplitude/phase coefficients for the integrator.
type dsinitOutput struct {
	irez int

	dedt, didt, dmdt, dnodt, domdt float64

	// Synchronous (irez=1) coefficients.
	del1, del2, del3 float64

	// Half-day (irez=2) geopotential coefficients.
	d2201, d2211 float64
	d3210, d3222 float64
	d4410, d4422 float64
	d5220, d5232 float64
	d5421, d5433 float64

	xlamo float64
	xfact float64
}

// dsinit classifies the orbit's resonance with Earth's rotation and derives
// the integrator coefficients. Synchronous resonance covers mean motions in
// (0.0034906585, 0.0052359877) rad/min; the half-day band is
// [0.00826, 0.00924] rad/min with eccentricity of at least 0.5.
func dsinit(c *dscomOutput, in dsinitInput) dsinitOutput {
	var o dsinitOutput

	nm := in.no
	em := in.ecco
	emsq := c.emsq

	if nm < 0.0052359877 && nm > 0.0034906585 {
		o.irez = 1
	}
	if nm >= 8.26e-3 && nm <= 9.24e-3 && em >= 0.5 {
		o.irez = 2
	}

	// Solar secular rates.
	ses := c.ss1 * zns * c.ss5
	sis := c.ss2 * zns * (c.sz11 + c.sz13)
	sls := -zns * c.ss3 * (c.sz1 + c.sz3 - 14.0 - 6.0*emsq)
	sghs := zns * c.ss4 * (c.sz31 + c.sz33 - 6.0)
	shs := -zns * c.ss2 * (c.sz21 + c.sz23)
	// Inclinations within ~3 degrees of 0 or 180 would divide by a
	// vanishing sin(i); zero the node rate instead.
	if in.inclm < 5.2359877e-2 || in.inclm > math.Pi-5.2359877e-2 {
		shs = 0.0
	}
	if c.sinim != 0.0 {
		shs = shs / c.sinim
	}
	sgs := sghs - c.cosim*shs

	// Lunar secular rates, same guard.
	o.dedt = ses + c.s1*znl*c.s5
	o.didt = sis + c.s2*znl*(c.z11+c.z13)
	o.dmdt = sls - znl*c.s3*(c.z1+c.z3-14.0-6.0*emsq)
	sghl := znl * c.s4 * (c.z31 + c.z33 - 6.0)
	shll := -znl * c.s2 * (c.z21 + c.z23)
	if in.inclm < 5.2359877e-2 || in.inclm > math.Pi-5.2359877e-2 {
		shll = 0.0
	}
	o.domdt = sgs + sghl
	o.dnodt = shs
	if c.sinim != 0.0 {
		o.domdt -= c.cosim / c.sinim * shll
		o.dnodt += shll / c.sinim
	}

	theta := math.Mod(in.gsto+in.tc*rptim, twoPi)

	if o.irez == 0 {
		return o
	}

	aonv := math.Pow(nm/in.grav.xke, x2o3)
	cosim := c.cosim
	sinim := c.sinim

	if o.irez == 2 {
		// Geopotential resonance for 12-hour orbits. The g-polynomials
		// switch coefficient sets at the published eccentricity
		// breakpoints (0.65, 0.7, 0.715).
		cosisq := cosim * cosim
		em = in.ecco
		emsq = in.eccsq
		eoc := em * emsq
		g201 := -0.306 - (em-0.64)*0.440

		var g211, g310, g322, g410, g422, g520 float64
		if em <= 0.65 {
			g211 = 3.616 - 13.2470*em + 16.2900*emsq
			g310 = -19.302 + 117.3900*em - 228.4190*emsq + 156.5910*eoc
			g322 = -18.9068 + 109.7927*em - 214.6334*emsq + 146.5816*eoc
			g410 = -41.122 + 242.6940*em - 471.0940*emsq + 313.9530*eoc
			g422 = -146.407 + 841.8800*em - 1629.014*emsq + 1083.4350*eoc
			g520 = -532.114 + 3017.977*em - 5740.032*emsq + 3708.2760*eoc
		} else {
			g211 = -72.099 + 331.819*em - 508.738*emsq + 266.724*eoc
			g310 = -346.844 + 1582.851*em - 2415.925*emsq + 1246.113*eoc
			g322 = -342.585 + 1554.908*em - 2366.899*emsq + 1215.972*eoc
			g410 = -1052.797 + 4758.686*em - 7193.992*emsq + 3651.957*eoc
			g422 = -3581.690 + 16178.110*em - 24462.770*emsq + 12422.520*eoc
			if em > 0.715 {
				g520 = -5149.66 + 29936.92*em - 54087.36*emsq + 31324.56*eoc
			} else {
				g520 = 1464.74 - 4664.75*em + 3763.64*emsq
			}
		}

		var g533, g521, g532 float64
		if em < 0.7 {
			g533 = -919.22770 + 4988.6100*em - 9064.7700*emsq + 5542.21*eoc
			g521 = -822.71072 + 4568.6173*em - 8491.4146*emsq + 5337.524*eoc
			g532 = -853.66600 + 4690.2500*em - 8624.7700*emsq + 5341.4*eoc
		} else {
			g533 = -37995.780 + 161616.52*em - 229838.20*emsq + 109377.94*eoc
			g521 = -51752.104 + 218913.95*em - 309468.16*emsq + 146349.42*eoc
			g532 = -40023.880 + 170470.89*em - 242699.48*emsq + 115605.82*eoc
		}

		sini2 := sinim * sinim
		f220 := 0.75 * (1.0 + 2.0*cosim + cosisq)
		f221 := 1.5 * sini2
		f321 := 1.875 * sinim * (1.0 - 2.0*cosim - 3.0*cosisq)
		f322 := -1.875 * sinim * (1.0 + 2.0*cosim - 3.0*cosisq)
		f441 := 35.0 * sini2 * f220
		f442 := 39.3750 * sini2 * sini2
		f522 := 9.84375 * sinim * (sini2*(1.0-2.0*cosim-5.0*cosisq) +
			0.33333333*(-2.0+4.0*cosim+6.0*cosisq))
		f523 := sinim * (4.92187512*sini2*(-2.0-4.0*cosim+10.0*cosisq) +
			6.56250012*(1.0+2.0*cosim-3.0*cosisq))
		f542 := 29.53125 * sinim * (2.0 - 8.0*cosim +
			cosisq*(-12.0+8.0*cosim+10.0*cosisq))
		f543 := 29.53125 * sinim * (-2.0 - 8.0*cosim +
			cosisq*(12.0+8.0*cosim-10.0*cosisq))

		xno2 := nm * nm
		ainv2 := aonv * aonv
		temp1 := 3.0 * xno2 * ainv2
		temp := temp1 * root22
		o.d2201 = temp * f220 * g201
		o.d2211 = temp * f221 * g211
		temp1 = temp1 * aonv
		temp = temp1 * root32
		o.d3210 = temp * f321 * g310
		o.d3222 = temp * f322 * g322
		temp1 = temp1 * aonv
		temp = 2.0 * temp1 * root44
		o.d4410 = temp * f441 * g410
		o.d4422 = temp * f442 * g422
		temp1 = temp1 * aonv
		temp = temp1 * root52
		o.d5220 = temp * f522 * g520
		o.d5232 = temp * f523 * g532
		temp = 2.0 * temp1 * root54
		o.d5421 = temp * f542 * g521
		o.d5433 = temp * f543 * g533

		o.xlamo = math.Mod(in.mo+2.0*in.nodeo-2.0*theta, twoPi)
		o.xfact = in.mdot + o.dmdt + 2.0*(in.nodedot+o.dnodt-rptim) - in.no
	}

	if o.irez == 1 {
		// Synchronous resonance.
		g200 := 1.0 + emsq*(-2.5+0.8125*emsq)
		g310 := 1.0 + 2.0*emsq
		g300 := 1.0 + emsq*(-6.0+6.60937*emsq)
		f220 := 0.75 * (1.0 + cosim) * (1.0 + cosim)
		f311 := 0.9375*sinim*sinim*(1.0+3.0*cosim) - 0.75*(1.0+cosim)
		f330 := 1.0 + cosim
		f330 = 1.875 * f330 * f330 * f330
		o.del1 = 3.0 * nm * nm * aonv * aonv
		o.del2 = 2.0 * o.del1 * f220 * g200 * q22
		o.del3 = 3.0 * o.del1 * f330 * g300 * q33 * aonv
		o.del1 = o.del1 * f311 * g310 * q31 * aonv

		o.xlamo = math.Mod(in.mo+in.nodeo+in.argpo-theta, twoPi)
		o.xfact = in.mdot + in.xpidot - rptim + o.dmdt + o.domdt - in.no
	}

	return o
}
