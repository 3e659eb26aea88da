// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// unitSquare builds a uniformly-dense triangulated unit square
func unitSquare(tst *testing.T, nx, ny int, symmetry string) *Domain {
	msh, err := inp.GenQuadRegionTri(nx, ny, 0, 0, 1, 1, symmetry, nil)
	if err != nil {
		tst.Fatalf("mesh generation failed:\n%v", err)
	}
	dom, err := NewDomain(msh, inp.NewConstDensity(map[int]float64{-1: 1}))
	if err != nil {
		tst.Fatalf("domain setup failed:\n%v", err)
	}
	return dom
}

func Test_dom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom01. domain setup and interpolation")

	dom := unitSquare(tst, 4, 4, inp.SymNone)
	chk.IntAssert(dom.Ny, 25)
	chk.IntAssert(dom.Nv, 50)

	// P1 interpolant of a linear function is exact at the vertices
	u := dom.Interpolate(func(x []float64) float64 { return 1 + 2*x[0] - x[1] })
	for i, v := range dom.Msh.Verts {
		chk.Scalar(tst, io.Sf("u[%d]", i), 1e-15, u[i], 1+2*v.C[0]-v.C[1])
	}
	chk.Scalar(tst, "norm inf", 1e-15, dom.NormInf(u), 3)
}

func Test_dom02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom02. eager configuration checks")

	// unknown symmetry tag fails before any setup work
	_, err := inp.GenQuadRegionTri(2, 2, 0, 0, 1, 1, "spherical", nil)
	if err == nil {
		tst.Errorf("symmetry tag \"spherical\" should be invalid")
		return
	}

	// uncovered subdomain fails domain construction
	msh, err := inp.GenQuadRegionTri(2, 2, 0, 0, 1, 1, inp.SymNone, func(xc []float64) int {
		if xc[0] < 0.5 {
			return -2
		}
		return -1
	})
	if err != nil {
		tst.Errorf("mesh generation failed:\n%v", err)
		return
	}
	_, err = NewDomain(msh, inp.NewConstDensity(map[int]float64{-1: 1}))
	if err == nil {
		tst.Errorf("uncovered subdomain -2 should fail domain setup")
		return
	}
	if _, ok := err.(inp.ConfigurationError); !ok {
		tst.Errorf("wrong error type: %v", err)
	}
}

func Test_dom03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom03. density interpolation takes the max at interfaces")

	msh, err := inp.GenQuadRegionTri(2, 1, 0, 0, 2, 1, inp.SymNone, func(xc []float64) int {
		if xc[0] < 1 {
			return -2
		}
		return -1
	})
	if err != nil {
		tst.Errorf("mesh generation failed:\n%v", err)
		return
	}
	dom, err := NewDomain(msh, inp.NewConstDensity(map[int]float64{-2: 10, -1: 1}))
	if err != nil {
		tst.Errorf("domain setup failed:\n%v", err)
		return
	}
	u := dom.InterpolateDensity()
	chk.Vector(tst, "density", 1e-17, u, []float64{10, 10, 1, 10, 10, 1})
	chk.Scalar(tst, "max", 1e-17, dom.MaxVertexValue(u), 10)
}

func Test_asm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm01. mass matrix integrates the symmetry weight")

	// without symmetry: 1^T M 1 == area
	dom := unitSquare(tst, 4, 4, inp.SymNone)
	M, err := dom.Mass()
	if err != nil {
		tst.Errorf("mass assembly failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "1^T M 1 (none)", 1e-14, matTotal(M, dom.Ny), 1)

	// with vertical-axis symmetry over [0,1]^2: integral of |x| == 1/2
	dom = unitSquare(tst, 4, 4, inp.SymVerticalAxis)
	M, err = dom.Mass()
	if err != nil {
		tst.Errorf("mass assembly failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "1^T M 1 (vertical-axis)", 1e-14, matTotal(M, dom.Ny), 0.5)
}

func Test_asm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm02. stiffness matrix annihilates constants")

	dom := unitSquare(tst, 4, 4, inp.SymNone)
	A0, err := dom.Stiffness()
	if err != nil {
		tst.Errorf("stiffness assembly failed:\n%v", err)
		return
	}
	ones := make([]float64, dom.Ny)
	y := make([]float64, dom.Ny)
	for i := range ones {
		ones[i] = 1
	}
	A0.MatVec(y, ones)
	chk.Scalar(tst, "‖A0·1‖∞", 1e-12, dom.NormInf(y), 0)
}

func Test_asm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm03. linear forms over a linear field")

	dom := unitSquare(tst, 4, 4, inp.SymNone)
	u := dom.Interpolate(func(x []float64) float64 { return x[0] })

	// |∇u| == 1 hence the total of the gradient-magnitude form is the area
	b, err := dom.AssembleLinForm(LinForm{Kind: FormGradMagnitude, Field: u})
	if err != nil {
		tst.Errorf("assembly failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "sum b", 1e-14, vecTotal(b), 1)

	// source form totals the density integral
	b, err = dom.AssembleLinForm(LinForm{Kind: FormSourceDensity})
	if err != nil {
		tst.Errorf("assembly failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "sum P", 1e-14, vecTotal(b), 1)
}

func Test_asm04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm04. non-positive field values abort the assembly")

	dom := unitSquare(tst, 2, 2, inp.SymNone)
	u := make([]float64, dom.Ny) // all zeros: φ^-(n+1) is undefined
	_, err := dom.AssembleLinForm(LinForm{Kind: FormPicardRHS, N: 1, Field: u})
	if err == nil {
		tst.Errorf("zero field should abort the Picard RHS assembly")
		return
	}
	if _, ok := err.(NumericDomainError); !ok {
		tst.Errorf("wrong error type: %v", err)
		return
	}
	_, err = dom.WeightedMass(u, PowNegCoef(2, 3))
	if err == nil {
		tst.Errorf("zero field should abort the weighted mass assembly")
		return
	}
	if _, ok := err.(NumericDomainError); !ok {
		tst.Errorf("wrong error type: %v", err)
	}
}

func Test_sol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sol01. conjugate gradients on the mass matrix")

	dom := unitSquare(tst, 4, 4, inp.SymNone)
	M, err := dom.Mass()
	if err != nil {
		tst.Errorf("mass assembly failed:\n%v", err)
		return
	}
	xtrue := dom.Interpolate(func(x []float64) float64 { return 1 + x[0]*x[1] })
	b := make([]float64, dom.Ny)
	M.MatVec(b, xtrue)

	x, err := dom.SolveLin(LinConfig{}, M, b)
	if err != nil {
		tst.Errorf("cg failed:\n%v", err)
		return
	}
	chk.Vector(tst, "x", 1e-8, x, xtrue)
	chk.IntAssert(dom.Nsolves, 1)
}

func Test_sol02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sol02. richardson iteration and preconditioner failures")

	dom := unitSquare(tst, 2, 2, inp.SymNone)

	// diagonally dominant system
	A := &SpMat{M: 2, N: 2}
	A.Put(0, 0, 4)
	A.Put(0, 1, 1)
	A.Put(1, 0, 1)
	A.Put(1, 1, 3)
	x, err := dom.SolveLin(LinConfig{Method: "richardson"}, A, []float64{6, 7})
	if err != nil {
		tst.Errorf("richardson failed:\n%v", err)
		return
	}
	chk.Vector(tst, "x", 1e-8, x, []float64{1, 2})

	// zero diagonal cannot be diagonally preconditioned
	Z := &SpMat{M: 2, N: 2}
	Z.Put(0, 1, 1)
	Z.Put(1, 0, 1)
	_, err = dom.SolveLin(LinConfig{Method: "cg"}, Z, []float64{1, 1})
	if err == nil {
		tst.Errorf("zero diagonal should fail")
		return
	}
	if _, ok := err.(LinearSolveFailure); !ok {
		tst.Errorf("wrong error type: %v", err)
	}

	// unknown direct-solver names must fail with an error, not a panic
	_, err = dom.SolveLin(LinConfig{Method: "ilu"}, A, []float64{6, 7})
	if err == nil {
		tst.Errorf("unknown solver name should fail")
		return
	}
	if _, ok := err.(LinearSolveFailure); !ok {
		tst.Errorf("wrong error type: %v", err)
	}
}

func Test_geo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geo01. pointwise evaluation")

	dom := unitSquare(tst, 4, 4, inp.SymNone)
	u := dom.Interpolate(func(x []float64) float64 { return 2*x[0] - 3*x[1] })

	// P1 interpolation of a linear function is exact everywhere
	for _, x := range [][]float64{{0.13, 0.41}, {0.5, 0.5}, {0.99, 0.01}, {0, 1}} {
		v, err := dom.EvalScalarAt(u, x)
		if err != nil {
			tst.Errorf("evaluation at %v failed:\n%v", x, err)
			return
		}
		chk.Scalar(tst, io.Sf("u(%v)", x), 1e-13, v, 2*x[0]-3*x[1])
	}

	// vector evaluation with an interleaved constant field
	q := make([]float64, dom.Nv)
	for i := 0; i < dom.Ny; i++ {
		q[i*2] = 1
		q[i*2+1] = -2
	}
	qv, err := dom.EvalVectorAt(q, []float64{0.33, 0.77})
	if err != nil {
		tst.Errorf("vector evaluation failed:\n%v", err)
		return
	}
	chk.Vector(tst, "q", 1e-13, qv, []float64{1, -2})

	// outside the mesh
	_, err = dom.EvalScalarAt(u, []float64{1.5, 0.5})
	if err == nil {
		tst.Errorf("point outside the mesh should fail")
		return
	}
	if _, ok := err.(OutOfDomainError); !ok {
		tst.Errorf("wrong error type: %v", err)
	}
}

func Test_geo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geo02. boundary distances of a subdomain")

	// the whole square is one subdomain; the centre vertex of the 2x2 grid
	// sits at distance 1/2 from the boundary
	dom := unitSquare(tst, 2, 2, inp.SymNone)
	verts, dists, err := dom.SubdomainBoundaryDistances(-1)
	if err != nil {
		tst.Errorf("boundary distances failed:\n%v", err)
		return
	}
	chk.IntAssert(len(verts), dom.Ny)
	for i, vid := range verts {
		c := dom.Msh.Verts[vid].C
		if c[0] == 0.5 && c[1] == 0.5 {
			chk.Scalar(tst, "centre distance", 1e-14, dists[i], 0.5)
		}
		if c[0] == 0 || c[0] == 1 || c[1] == 0 || c[1] == 1 {
			chk.Scalar(tst, io.Sf("boundary vertex %d", vid), 1e-14, dists[i], 0)
		}
	}
}

// matTotal returns 1^T A 1
func matTotal(A *SpMat, n int) (total float64) {
	ones := make([]float64, n)
	y := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	A.MatVec(y, ones)
	return vecTotal(y)
}

// vecTotal returns the sum of the entries of a vector
func vecTotal(v []float64) (total float64) {
	for _, x := range v {
		total += x
	}
	return
}
