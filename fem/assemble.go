// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// SpMat holds a sparse matrix in coordinate (triplet) format. Duplicated
// (i,j) entries are implicitly summed. Assembled matrices are immutable
// after setup; the Krylov kernels only read them
type SpMat struct {
	M, N int       // dimensions
	I, J []int     // row/column indices
	V    []float64 // values
}

// Put inserts a new entry, summing with existing (i,j) entries
func (o *SpMat) Put(i, j int, v float64) {
	o.I = append(o.I, i)
	o.J = append(o.J, j)
	o.V = append(o.V, v)
}

// MatVec computes y := A*x
func (o *SpMat) MatVec(y, x []float64) {
	la.VecFill(y, 0)
	for k, v := range o.V {
		y[o.I[k]] += v * x[o.J[k]]
	}
}

// Diag returns the (summed) diagonal of the matrix
func (o *SpMat) Diag() (d []float64) {
	d = make([]float64, o.M)
	for k, v := range o.V {
		if o.I[k] == o.J[k] {
			d[o.I[k]] += v
		}
	}
	return
}

// Triplet copies this matrix into a gosl triplet for the direct solvers
func (o *SpMat) Triplet() (t *la.Triplet) {
	t = new(la.Triplet)
	t.Init(o.M, o.N, len(o.V))
	for k := range o.V {
		t.Put(o.I[k], o.J[k], o.V[k])
	}
	return
}

// JoinScaled returns α*A + B as a new matrix
func JoinScaled(α float64, A, B *SpMat) (C *SpMat) {
	C = &SpMat{M: A.M, N: A.N}
	C.I = make([]int, 0, len(A.V)+len(B.V))
	C.J = make([]int, 0, len(A.V)+len(B.V))
	C.V = make([]float64, 0, len(A.V)+len(B.V))
	for k := range A.V {
		C.Put(A.I[k], A.J[k], α*A.V[k])
	}
	for k := range B.V {
		C.Put(B.I[k], B.J[k], B.V[k])
	}
	return
}

// CoefFn computes a scalar coefficient at an integration point given the real
// coordinates and the local field value
type CoefFn func(x []float64, φ float64) (float64, error)

// Mass assembles the mass matrix A = ∫ u v w over the scalar space
func (o *Domain) Mass() (*SpMat, error) {
	return o.WeightedMass(nil, nil)
}

// WeightedMass assembles A1 = ∫ c(x,φ) u v w over the scalar space.
// A nil coefficient function means c == 1 (plain mass matrix)
func (o *Domain) WeightedMass(field []float64, c CoefFn) (A *SpMat, err error) {
	A = &SpMat{M: o.Ny, N: o.Ny}
	for icell, cell := range o.Msh.Cells {
		sh := cell.Shp
		for _, ip := range sh.Ips {
			err = sh.CalcAtIp(o.X[icell], ip, true)
			if err != nil {
				return nil, err
			}
			coef := sh.J * ip[3] * o.wAtIp(o.X[icell], sh.S, sh.Nverts)
			if c != nil {
				φ := o.fieldAtIp(field, cell.Verts, sh.S)
				var cval float64
				cval, err = c(o.ipRealCoords(o.X[icell], sh.S, sh.Nverts), φ)
				if err != nil {
					return nil, err
				}
				coef *= cval
			}
			for m := 0; m < sh.Nverts; m++ {
				for n := 0; n < sh.Nverts; n++ {
					A.Put(cell.Verts[m], cell.Verts[n], coef*sh.S[m]*sh.S[n])
				}
			}
		}
	}
	return
}

// Stiffness assembles A0 = ∫ ∇u·∇v w over the scalar space
func (o *Domain) Stiffness() (A *SpMat, err error) {
	A = &SpMat{M: o.Ny, N: o.Ny}
	ndim := o.Msh.Ndim
	for icell, cell := range o.Msh.Cells {
		sh := cell.Shp
		for _, ip := range sh.Ips {
			err = sh.CalcAtIp(o.X[icell], ip, true)
			if err != nil {
				return nil, err
			}
			coef := sh.J * ip[3] * o.wAtIp(o.X[icell], sh.S, sh.Nverts)
			for m := 0; m < sh.Nverts; m++ {
				for n := 0; n < sh.Nverts; n++ {
					dot := 0.0
					for d := 0; d < ndim; d++ {
						dot += sh.G[m][d] * sh.G[n][d]
					}
					A.Put(cell.Verts[m], cell.Verts[n], coef*dot)
				}
			}
		}
	}
	return
}

// VectorMass assembles ∫ u_vec·v_vec w over the vector space
func (o *Domain) VectorMass() (A *SpMat, err error) {
	A = &SpMat{M: o.Nv, N: o.Nv}
	ndim := o.Msh.Ndim
	for icell, cell := range o.Msh.Cells {
		sh := cell.Shp
		for _, ip := range sh.Ips {
			err = sh.CalcAtIp(o.X[icell], ip, true)
			if err != nil {
				return nil, err
			}
			coef := sh.J * ip[3] * o.wAtIp(o.X[icell], sh.S, sh.Nverts)
			for m := 0; m < sh.Nverts; m++ {
				for n := 0; n < sh.Nverts; n++ {
					for d := 0; d < ndim; d++ {
						A.Put(cell.Verts[m]*ndim+d, cell.Verts[n]*ndim+d, coef*sh.S[m]*sh.S[n])
					}
				}
			}
		}
	}
	return
}

// LinFormKind selects one of the closed set of linear-form requests handled
// by AssembleLinForm
type LinFormKind int

const (
	FormSourceDensity  LinFormKind = iota // ∫ ρ v w
	FormPicardRHS                         // ∫ (n+2) φ^-(n+1) v w
	FormNewtonRHS                         // ∫ [−α ∇φ·∇v + φ^-(n+1) v] w
	FormPotentialDeriv                    // ∫ φ^-(n+1) v w
	FormGradMagnitude                     // ∫ |∇φ| v w
	FormLaplacian                         // ∫ (∇·q) v w
	FormResidual                          // ∫ [α ∇·q + φ^-(n+1) − ρ] v w
	FormGradProjection                    // ∫ ∇φ·v_vec w (vector space)
)

// LinForm is a linear-form request: a tagged right-hand-side expression to be
// integrated against the test functions of the scalar (or vector) space
type LinForm struct {
	Kind   LinFormKind
	Alpha  float64   // α coefficient (NewtonRHS, Residual)
	N      int       // potential exponent (φ^-(N+1) terms)
	Field  []float64 // φ over the scalar space
	Vfield []float64 // q over the vector space (Laplacian, Residual)
}

// AssembleLinForm assembles b_m = ∫ f(φ,∇φ,q,ρ) v_m w for the requested form.
// FormGradProjection produces a vector-space RHS of size Nv; the remaining
// kinds produce scalar-space RHS of size Ny
func (o *Domain) AssembleLinForm(f LinForm) (b []float64, err error) {

	// result size
	ndim := o.Msh.Ndim
	if f.Kind == FormGradProjection {
		b = make([]float64, o.Nv)
	} else {
		b = make([]float64, o.Ny)
	}

	// scratch
	gradφ := make([]float64, ndim)

	// for each cell
	for icell, cell := range o.Msh.Cells {
		sh := cell.Shp
		for _, ip := range sh.Ips {
			err = sh.CalcAtIp(o.X[icell], ip, true)
			if err != nil {
				return nil, err
			}
			x := o.ipRealCoords(o.X[icell], sh.S, sh.Nverts)
			coef := sh.J * ip[3] * o.Wfn(x)

			// local field values
			var φ float64
			if f.Field != nil {
				φ = o.fieldAtIp(f.Field, cell.Verts, sh.S)
				for d := 0; d < ndim; d++ {
					gradφ[d] = 0
					for m := 0; m < sh.Nverts; m++ {
						gradφ[d] += sh.G[m][d] * f.Field[cell.Verts[m]]
					}
				}
			}
			var divq float64
			if f.Vfield != nil {
				divq = 0
				for m := 0; m < sh.Nverts; m++ {
					for d := 0; d < ndim; d++ {
						divq += sh.G[m][d] * f.Vfield[cell.Verts[m]*ndim+d]
					}
				}
			}

			// dispatch
			switch f.Kind {
			case FormSourceDensity:
				ρ := o.Rho.At(cell.Tag, x)
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * ρ * sh.S[m]
				}

			case FormPicardRHS:
				pw, e := powNeg(φ, f.N+1, x)
				if e != nil {
					return nil, e
				}
				val := float64(f.N+2) * pw
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * val * sh.S[m]
				}

			case FormNewtonRHS:
				pw, e := powNeg(φ, f.N+1, x)
				if e != nil {
					return nil, e
				}
				for m := 0; m < sh.Nverts; m++ {
					dot := 0.0
					for d := 0; d < ndim; d++ {
						dot += gradφ[d] * sh.G[m][d]
					}
					b[cell.Verts[m]] += coef * (-f.Alpha*dot + pw*sh.S[m])
				}

			case FormPotentialDeriv:
				pw, e := powNeg(φ, f.N+1, x)
				if e != nil {
					return nil, e
				}
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * pw * sh.S[m]
				}

			case FormGradMagnitude:
				mag := 0.0
				for d := 0; d < ndim; d++ {
					mag += gradφ[d] * gradφ[d]
				}
				mag = math.Sqrt(mag)
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * mag * sh.S[m]
				}

			case FormLaplacian:
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * divq * sh.S[m]
				}

			case FormResidual:
				pw, e := powNeg(φ, f.N+1, x)
				if e != nil {
					return nil, e
				}
				ρ := o.Rho.At(cell.Tag, x)
				val := f.Alpha*divq + pw - ρ
				for m := 0; m < sh.Nverts; m++ {
					b[cell.Verts[m]] += coef * val * sh.S[m]
				}

			case FormGradProjection:
				for m := 0; m < sh.Nverts; m++ {
					for d := 0; d < ndim; d++ {
						b[cell.Verts[m]*ndim+d] += coef * gradφ[d] * sh.S[m]
					}
				}

			default:
				return nil, chk.Err("unknown linear form kind %d", f.Kind)
			}
		}
	}
	return
}

// PowNegCoef returns a coefficient function computing c·φ^(-expo), verifying
// that φ stays strictly positive
func PowNegCoef(c float64, expo int) CoefFn {
	return func(x []float64, φ float64) (float64, error) {
		pw, err := powNeg(φ, expo, x)
		if err != nil {
			return 0, err
		}
		return c * pw, nil
	}
}

// powNeg computes φ^(-expo) failing with NumericDomainError on φ <= 0
func powNeg(φ float64, expo int, x []float64) (float64, error) {
	if φ <= 0 {
		return 0, NumericDomainError(io.Sf("field value %g at x=%v is non-positive: φ^(-%d) is undefined", φ, x, expo))
	}
	return math.Pow(φ, -float64(expo)), nil
}

// fieldAtIp interpolates a scalar DOF vector at the current integration point
func (o *Domain) fieldAtIp(u []float64, verts []int, S []float64) (φ float64) {
	for m, v := range verts {
		φ += S[m] * u[v]
	}
	return
}

// ipRealCoords returns the real coordinates of the current integration point
func (o *Domain) ipRealCoords(X [][]float64, S []float64, nverts int) (x []float64) {
	x = make([]float64, o.Msh.Ndim)
	for i := 0; i < o.Msh.Ndim; i++ {
		for m := 0; m < nverts; m++ {
			x[i] += S[m] * X[i][m]
		}
	}
	return
}

// wAtIp evaluates the symmetry weight at the current integration point
func (o *Domain) wAtIp(X [][]float64, S []float64, nverts int) float64 {
	return o.Wfn(o.ipRealCoords(X, S, nverts))
}
