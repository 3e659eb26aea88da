// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. Kronecker property and partition of unity")

	r := []float64{0, 0, 0}
	for name, shape := range factory {

		io.Pfyel("------------------------- %-6s-------------------------\n", name)

		// shape functions must evaluate to 1 @ their own node and 0 @ others
		errS := 0.0
		for n := 0; n < shape.Nverts; n++ {
			for i := 0; i < shape.Gndim; i++ {
				r[i] = shape.NatCoords[i][n]
			}
			shape.Func(shape.S, shape.DSdR, r, false)
			for m := 0; m < shape.Nverts; m++ {
				if n == m {
					errS += math.Abs(shape.S[m] - 1.0)
				} else {
					errS += math.Abs(shape.S[m])
				}
			}
		}
		if errS > 1e-17 {
			tst.Errorf("%s failed with err = %g\n", name, errS)
			return
		}

		// partition of unity and zero-sum of derivatives @ all ips
		for _, ip := range shape.Ips {
			shape.Func(shape.S, shape.DSdR, ip, true)
			sum := 0.0
			for m := 0; m < shape.Nverts; m++ {
				sum += shape.S[m]
			}
			chk.Scalar(tst, io.Sf("%s: sum(S)", name), 1e-15, sum, 1.0)
			for j := 0; j < shape.Gndim; j++ {
				dsum := 0.0
				for m := 0; m < shape.Nverts; m++ {
					dsum += shape.DSdR[m][j]
				}
				chk.Scalar(tst, io.Sf("%s: sum(dSdR[:][%d])", name, j), 1e-15, dsum, 0.0)
			}
		}

		// quadrature weights must add up to the reference cell volume
		wtot := 0.0
		for _, ip := range shape.Ips {
			wtot += ip[3]
		}
		switch name {
		case "tri3":
			chk.Scalar(tst, "tri3: sum(w)", 1e-15, wtot, 0.5)
		case "qua4":
			chk.Scalar(tst, "qua4: sum(w)", 1e-15, wtot, 4.0)
		case "tet4":
			chk.Scalar(tst, "tet4: sum(w)", 1e-15, wtot, 1.0/6.0)
		}

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. Jacobian and G of stretched qua4")

	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	r := []float64{0, 0, 0}
	shape := Get("qua4", 0)
	err := shape.CalcAtIp(xmat, r, true)
	if err != nil {
		tst.Errorf("CalcAtIp failed: %v\n", err)
		return
	}
	io.Pforan("J = %v\n", shape.J)
	chk.Scalar(tst, "J", 1e-17, shape.J, (dx/dr)*(dy/ds))

	// gradient of the linear function f(x,y) = x + 2y interpolated on the cell
	f := []float64{10 + 2*8, 13 + 2*8, 13 + 2*9, 10 + 2*9}
	gx, gy := 0.0, 0.0
	for m := 0; m < shape.Nverts; m++ {
		gx += shape.G[m][0] * f[m]
		gy += shape.G[m][1] * f[m]
	}
	chk.Scalar(tst, "df/dx", 1e-14, gx, 1.0)
	chk.Scalar(tst, "df/dy", 1e-14, gy, 2.0)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. inverse mapping and boundary distance")

	xtri := [][]float64{
		{0, 2, 0},
		{0, 0, 2},
	}
	shape := Get("tri3", 0)
	r := []float64{0, 0, 0}

	// interior point
	y := []float64{0.5, 0.5}
	err := shape.InvMap(r, y, xtri)
	if err != nil {
		tst.Errorf("InvMap failed: %v\n", err)
		return
	}
	chk.Vector(tst, "r", 1e-14, r[:2], []float64{0.25, 0.25})
	if shape.CellBryDist(r) < 0 {
		tst.Errorf("interior point detected as outside\n")
		return
	}

	// exterior point
	y = []float64{3, 3}
	err = shape.InvMap(r, y, xtri)
	if err != nil {
		tst.Errorf("InvMap failed: %v\n", err)
		return
	}
	if shape.CellBryDist(r) >= 0 {
		tst.Errorf("exterior point detected as inside\n")
		return
	}
}
