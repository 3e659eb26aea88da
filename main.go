// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"

	"github.com/AndriusT/SELCIE/cham"
	"github.com/AndriusT/SELCIE/fem"
	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	n := io.ArgToInt(0, 1)
	alpha := io.ArgToFloat(1, 1e-2)
	ndiv := io.ArgToInt(2, 40)
	radius := io.ArgToFloat(3, 0.25)
	sourceDensity := io.ArgToFloat(4, 1e2)
	vacuumDensity := io.ArgToFloat(5, 1e-2)
	newton := io.ArgToBool(6, false)
	verbose := io.ArgToBool(7, true)

	// message
	if verbose {
		io.PfWhite("\nSELCIE -- Chameleon Screened Scalar Field Solver\n\n")
		io.Pf("%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"potential exponent", "n", n,
			"coupling constant", "alpha", alpha,
			"mesh divisions per side", "ndiv", ndiv,
			"source radius", "radius", radius,
			"source density", "sourceDensity", sourceDensity,
			"vacuum density", "vacuumDensity", vacuumDensity,
			"use Newton instead of Picard", "newton", newton,
			"show messages", "verbose", verbose,
		))
	}

	// disc source centred at the origin of a unit-radius vacuum box, solved
	// as a slice of a cylinder-symmetric configuration
	tagDisc, tagVacuum := -2, -1
	msh, err := inp.GenQuadRegionTri(ndiv, ndiv, -1, -1, 2, 2, inp.SymCylinderSlice, func(xc []float64) int {
		if math.Sqrt(xc[0]*xc[0]+xc[1]*xc[1]) < radius {
			return tagDisc
		}
		return tagVacuum
	})
	if err != nil {
		chk.Panic("cannot create mesh:\n%v", err)
	}
	rho := inp.NewConstDensity(map[int]float64{
		tagDisc:   sourceDensity,
		tagVacuum: vacuumDensity,
	})

	// domain and solver
	dom, err := fem.NewDomain(msh, rho)
	if err != nil {
		chk.Panic("cannot create domain:\n%v", err)
	}
	sol, err := cham.NewSolver(alpha, n, dom)
	if err != nil {
		chk.Panic("cannot create solver:\n%v", err)
	}
	sol.Verbose = verbose

	// solve for the field
	mode := cham.Picard
	if newton {
		mode = cham.Newton
	}
	err = sol.Solve(mode, "", "")
	if err != nil {
		chk.Panic("solve failed:\n%v", err)
	}
	if verbose {
		io.Pf("\nfinished after %d iterations: ‖du‖∞ = %g\n", sol.Niter, sol.DuNorm)
		io.Pf("field range: [%g, %g]\n", minOf(sol.Field), dom.MaxVertexValue(sol.Field))
	}

	// field profile along the horizontal axis
	profile, err := sol.ProbeFunction(sol.Field, []float64{0.02, 0}, nil, 1.0)
	if err != nil {
		chk.Panic("probe failed:\n%v", err)
	}
	if verbose {
		io.Pf("\nfield along +x:\n")
		for k, v := range profile {
			io.Pf("  r = %5.2f  φ = %g\n", float64(k)*0.02, v)
		}
	}

	// strongest fifth force near the source surface
	ff, at, err := sol.MeasureBoundaryExtremum(tagDisc, 0.0, 4.0/float64(ndiv))
	if err != nil {
		chk.Panic("cannot measure fifth force:\n%v", err)
	}
	if verbose {
		io.Pf("\nmax |∇φ| on the source surface: %g at %v\n", ff, at)
	}

	// save results
	err = sol.SaveResults("/tmp/selcie", "disc", "gob")
	if err != nil {
		io.Pfred("cannot save results: %v\n", err)
		return
	}
	if verbose {
		io.PfGreen("results saved to /tmp/selcie\n")
	}
}

// minOf returns the smallest entry of a vector
func minOf(u []float64) (min float64) {
	min = u[0]
	for _, v := range u {
		if v < min {
			min = v
		}
	}
	return
}
