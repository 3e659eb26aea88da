// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"gonum.org/v1/gonum/floats"
)

// LinearSolveFailure indicates that an inner linear solve did not reach its
// tolerance within its own iteration cap, or that factorisation failed
type LinearSolveFailure string

// Error returns the error message
func (e LinearSolveFailure) Error() string { return string(e) }

// LinConfig configures a linear solve
type LinConfig struct {
	Method  string  // "cg", "richardson", "umfpack" or "mumps"; "" == "cg"
	Precond string  // "default", "jacobi" or "icc" == diagonal scaling; "none" == identity
	TolAbs  float64 // absolute tolerance on the preconditioned residual norm
	TolRel  float64 // relative tolerance w.r.t the RHS norm
	MaxIt   int     // iteration cap of the Krylov methods
}

// withDefaults fills unset entries
func (o LinConfig) withDefaults() LinConfig {
	if o.Method == "" {
		o.Method = "cg"
	}
	if o.Precond == "" {
		o.Precond = "default"
	}
	if o.TolAbs <= 0 {
		o.TolAbs = 1e-14
	}
	if o.TolRel <= 0 {
		o.TolRel = 1e-10
	}
	if o.MaxIt <= 0 {
		o.MaxIt = 1000
	}
	return o
}

// SolveLin solves A*x = b according to cfg. Krylov methods ("cg",
// "richardson") honour the tolerances and iteration cap and fail with
// LinearSolveFailure when the cap is reached; the remaining method names are
// handed to the gosl direct sparse solvers
func (o *Domain) SolveLin(cfg LinConfig, A *SpMat, b []float64) (x []float64, err error) {
	cfg = cfg.withDefaults()
	o.Nsolves++
	x = make([]float64, len(b))
	switch cfg.Method {
	case "cg":
		err = solveCG(cfg, A, x, b)
	case "richardson":
		err = solveRichardson(cfg, A, x, b)
	default:
		err = solveDirect(cfg, A, x, b)
	}
	return
}

// precondDiag builds the inverse-diagonal preconditioner. The "icc" name is
// accepted for compatibility and maps to diagonal scaling as well
func precondDiag(cfg LinConfig, A *SpMat) (mi []float64, err error) {
	mi = make([]float64, A.M)
	if cfg.Precond == "none" {
		la.VecFill(mi, 1)
		return
	}
	d := A.Diag()
	for i, v := range d {
		if v == 0 {
			return nil, LinearSolveFailure(io.Sf("zero diagonal entry at row %d: cannot build diagonal preconditioner", i))
		}
		mi[i] = 1.0 / v
	}
	return
}

// solveCG runs preconditioned conjugate gradients
func solveCG(cfg LinConfig, A *SpMat, x, b []float64) (err error) {

	// preconditioner and tolerance
	mi, err := precondDiag(cfg, A)
	if err != nil {
		return
	}
	normb := floats.Norm(b, 2)
	if normb == 0 {
		return // x = 0 solves exactly
	}
	tol := math.Max(cfg.TolAbs, cfg.TolRel*normb)

	// r = b - A*x = b (x starts at zero)
	n := len(b)
	r := make([]float64, n)
	copy(r, b)
	if floats.Norm(r, 2) <= tol {
		return // x = 0 is already good enough
	}
	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)
	for i := 0; i < n; i++ {
		z[i] = mi[i] * r[i]
	}
	copy(p, z)
	rz := floats.Dot(r, z)

	// iterations
	for it := 0; it < cfg.MaxIt; it++ {
		A.MatVec(ap, p)
		pap := floats.Dot(p, ap)
		if pap == 0 {
			return LinearSolveFailure("cg breakdown: p·Ap == 0")
		}
		α := rz / pap
		floats.AddScaled(x, α, p)
		floats.AddScaled(r, -α, ap)
		if floats.Norm(r, 2) <= tol {
			return nil
		}
		for i := 0; i < n; i++ {
			z[i] = mi[i] * r[i]
		}
		rznew := floats.Dot(r, z)
		β := rznew / rz
		rz = rznew
		for i := 0; i < n; i++ {
			p[i] = z[i] + β*p[i]
		}
	}
	return LinearSolveFailure(io.Sf("cg did not converge within %d iterations (‖r‖=%g, tol=%g)", cfg.MaxIt, floats.Norm(r, 2), tol))
}

// solveRichardson runs the preconditioned Richardson iteration
// x += M⁻¹ (b - A*x)
func solveRichardson(cfg LinConfig, A *SpMat, x, b []float64) (err error) {
	mi, err := precondDiag(cfg, A)
	if err != nil {
		return
	}
	normb := floats.Norm(b, 2)
	if normb == 0 {
		return
	}
	tol := math.Max(cfg.TolAbs, cfg.TolRel*normb)
	n := len(b)
	r := make([]float64, n)
	for it := 0; it < cfg.MaxIt; it++ {
		A.MatVec(r, x)
		for i := 0; i < n; i++ {
			r[i] = b[i] - r[i]
		}
		if floats.Norm(r, 2) <= tol {
			return nil
		}
		for i := 0; i < n; i++ {
			x[i] += mi[i] * r[i]
		}
	}
	return LinearSolveFailure(io.Sf("richardson did not converge within %d iterations", cfg.MaxIt))
}

// solveDirect factorises with the gosl sparse solvers (e.g. "umfpack").
// la.GetSolver panics on unknown names, hence the check up front
func solveDirect(cfg LinConfig, A *SpMat, x, b []float64) (err error) {
	if cfg.Method != "umfpack" && cfg.Method != "mumps" {
		return LinearSolveFailure(io.Sf("linear solver %q is not available", cfg.Method))
	}
	sol := la.GetSolver(cfg.Method)
	defer sol.Free()
	t := A.Triplet()
	err = sol.InitR(t, false, false, false)
	if err != nil {
		return LinearSolveFailure(io.Sf("cannot initialise linear solver: %v", err))
	}
	err = sol.Fact()
	if err != nil {
		return LinearSolveFailure(io.Sf("factorisation failed: %v", err))
	}
	err = sol.SolveR(x, b, false)
	if err != nil {
		return LinearSolveFailure(io.Sf("solve failed: %v", err))
	}
	return
}
