// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/AndriusT/SELCIE/inp"

	"github.com/cpmech/gosl/io"
)

// natural-coordinate tolerance for containment tests
const bryTol = 1e-8

// cellGrid is a uniform bucket grid over cell bounding boxes, used to narrow
// the candidate cells containing a point. gm.Bins only answers exact-match
// point queries, hence this dedicated structure for containment queries
type cellGrid struct {
	ndim    int
	xmin    []float64
	size    []float64 // bucket size per dimension
	ndiv    []int
	buckets map[int][]int // flattened bucket index => cell ids
}

// newCellGrid builds the grid with roughly one bucket per cell per dimension
func newCellGrid(msh *inp.Mesh, X [][][]float64) (o *cellGrid) {
	o = &cellGrid{
		ndim:    msh.Ndim,
		xmin:    make([]float64, msh.Ndim),
		size:    make([]float64, msh.Ndim),
		ndiv:    make([]int, msh.Ndim),
		buckets: make(map[int][]int),
	}
	xmax := []float64{msh.Xmax, msh.Ymax, msh.Zmax}
	copy(o.xmin, []float64{msh.Xmin, msh.Ymin, msh.Zmin})
	n := int(math.Ceil(math.Pow(float64(len(msh.Cells)), 1.0/float64(msh.Ndim))))
	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}
	for d := 0; d < o.ndim; d++ {
		o.ndiv[d] = n
		o.size[d] = (xmax[d] - o.xmin[d]) / float64(n)
		if o.size[d] <= 0 {
			o.size[d] = 1
			o.ndiv[d] = 1
		}
	}

	// insert cells into all buckets overlapped by their bounding box
	for icell := range X {
		lo := make([]int, o.ndim)
		hi := make([]int, o.ndim)
		for d := 0; d < o.ndim; d++ {
			cmin, cmax := X[icell][d][0], X[icell][d][0]
			for _, v := range X[icell][d] {
				if v < cmin {
					cmin = v
				}
				if v > cmax {
					cmax = v
				}
			}
			lo[d] = o.clampIdx(d, cmin-TolC)
			hi[d] = o.clampIdx(d, cmax+TolC)
		}
		o.forEachBucket(lo, hi, func(key int) {
			o.buckets[key] = append(o.buckets[key], icell)
		})
	}
	return
}

// clampIdx returns the bucket index along dimension d containing coordinate v
func (o *cellGrid) clampIdx(d int, v float64) int {
	i := int((v - o.xmin[d]) / o.size[d])
	if i < 0 {
		i = 0
	}
	if i >= o.ndiv[d] {
		i = o.ndiv[d] - 1
	}
	return i
}

// forEachBucket visits all buckets in the index box [lo,hi]
func (o *cellGrid) forEachBucket(lo, hi []int, fn func(key int)) {
	if o.ndim == 2 {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				fn(j*o.ndiv[0] + i)
			}
		}
		return
	}
	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				fn((k*o.ndiv[1]+j)*o.ndiv[0] + i)
			}
		}
	}
}

// candidates returns the cells whose bounding boxes may contain x
func (o *cellGrid) candidates(x []float64) []int {
	idx := make([]int, o.ndim)
	for d := 0; d < o.ndim; d++ {
		if x[d] < o.xmin[d]-TolC || x[d] > o.xmin[d]+float64(o.ndiv[d])*o.size[d]+TolC {
			return nil
		}
		idx[d] = o.clampIdx(d, x[d])
	}
	// key layout must match forEachBucket: ((k*ny + j)*nx + i)
	var key int
	if o.ndim == 2 {
		key = idx[1]*o.ndiv[0] + idx[0]
	} else {
		key = (idx[2]*o.ndiv[1]+idx[1])*o.ndiv[0] + idx[0]
	}
	return o.buckets[key]
}

// FindCell locates the cell containing point x and returns its id together
// with the shape functions evaluated at x. Returns OutOfDomainError when x
// lies outside the mesh
func (o *Domain) FindCell(x []float64) (icell int, S []float64, err error) {
	if len(x) != o.Msh.Ndim {
		return -1, nil, OutOfDomainError(io.Sf("point %v has wrong dimension for a %dD mesh", x, o.Msh.Ndim))
	}
	r := []float64{0, 0, 0}
	for _, ic := range o.grid.candidates(x) {
		cell := o.Msh.Cells[ic]
		sh := cell.Shp
		if e := sh.InvMap(r, x, o.X[ic]); e != nil {
			continue
		}
		if sh.CellBryDist(r) >= -bryTol {
			sh.Func(sh.S, sh.DSdR, r, false)
			S = make([]float64, sh.Nverts)
			copy(S, sh.S)
			return ic, S, nil
		}
	}
	return -1, nil, OutOfDomainError(io.Sf("point %v is outside the mesh domain", x))
}

// EvalScalarAt evaluates a scalar DOF vector at an arbitrary point
func (o *Domain) EvalScalarAt(u []float64, x []float64) (val float64, err error) {

	// fast path: x coincides with a vertex
	if vid, sqDist := o.NodBins.FindClosest(x); vid >= 0 && sqDist <= TolC*TolC {
		return u[vid], nil
	}

	// general path: containing cell interpolation
	icell, S, err := o.FindCell(x)
	if err != nil {
		return 0, err
	}
	for m, v := range o.Msh.Cells[icell].Verts {
		val += S[m] * u[v]
	}
	return
}

// EvalVectorAt evaluates a vector DOF vector (interleaved) at a point
func (o *Domain) EvalVectorAt(q []float64, x []float64) (val []float64, err error) {
	ndim := o.Msh.Ndim
	val = make([]float64, ndim)

	// fast path: x coincides with a vertex
	if vid, sqDist := o.NodBins.FindClosest(x); vid >= 0 && sqDist <= TolC*TolC {
		for d := 0; d < ndim; d++ {
			val[d] = q[vid*ndim+d]
		}
		return
	}

	icell, S, err := o.FindCell(x)
	if err != nil {
		return nil, err
	}
	for m, v := range o.Msh.Cells[icell].Verts {
		for d := 0; d < ndim; d++ {
			val[d] += S[m] * q[v*ndim+d]
		}
	}
	return
}

// SubdomainBoundaryDistances computes, for every vertex of the sub-mesh
// tagged with tag, the geometric distance to the exterior boundary of that
// sub-mesh
//  Output:
//   verts -- sorted vertex ids of the sub-mesh
//   dists -- [len(verts)] distance of each vertex to the boundary
func (o *Domain) SubdomainBoundaryDistances(tag int) (verts []int, dists []float64, err error) {
	facets, verts, err := o.Msh.SubdomainBoundary(tag)
	if err != nil {
		return nil, nil, err
	}
	dists = make([]float64, len(verts))
	for i, vid := range verts {
		p := o.Msh.Verts[vid].C
		dmin := math.Inf(1)
		for _, f := range facets {
			var d float64
			if len(f) == 2 {
				d = distPointSegment(p, o.Msh.Verts[f[0]].C, o.Msh.Verts[f[1]].C)
			} else {
				d = distPointTriangle(p, o.Msh.Verts[f[0]].C, o.Msh.Verts[f[1]].C, o.Msh.Verts[f[2]].C)
			}
			if d < dmin {
				dmin = d
			}
		}
		dists[i] = dmin
	}
	return
}

// ptDist returns the Euclidean distance between two points
func ptDist(a, b []float64) (d float64) {
	for i := range a {
		d += (a[i] - b[i]) * (a[i] - b[i])
	}
	return math.Sqrt(d)
}

// distPointSegment returns the distance between point p and segment a-b
func distPointSegment(p, a, b []float64) float64 {
	nd := len(p)
	ab2, apab := 0.0, 0.0
	for i := 0; i < nd; i++ {
		ab2 += (b[i] - a[i]) * (b[i] - a[i])
		apab += (p[i] - a[i]) * (b[i] - a[i])
	}
	t := 0.0
	if ab2 > 0 {
		t = apab / ab2
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	d := 0.0
	for i := 0; i < nd; i++ {
		c := a[i] + t*(b[i]-a[i])
		d += (p[i] - c) * (p[i] - c)
	}
	return math.Sqrt(d)
}

// distPointTriangle returns the distance between point p and triangle a-b-c
func distPointTriangle(p, a, b, c []float64) float64 {

	// project p onto the triangle plane using barycentric coordinates
	var ab, ac, ap [3]float64
	for i := 0; i < 3; i++ {
		ab[i] = b[i] - a[i]
		ac[i] = c[i] - a[i]
		ap[i] = p[i] - a[i]
	}
	d00 := ab[0]*ab[0] + ab[1]*ab[1] + ab[2]*ab[2]
	d01 := ab[0]*ac[0] + ab[1]*ac[1] + ab[2]*ac[2]
	d11 := ac[0]*ac[0] + ac[1]*ac[1] + ac[2]*ac[2]
	d20 := ap[0]*ab[0] + ap[1]*ab[1] + ap[2]*ab[2]
	d21 := ap[0]*ac[0] + ap[1]*ac[1] + ap[2]*ac[2]
	den := d00*d11 - d01*d01
	if den > 0 {
		v := (d11*d20 - d01*d21) / den
		w := (d00*d21 - d01*d20) / den
		if v >= 0 && w >= 0 && v+w <= 1 {
			// closest point is interior: distance along the normal
			var q [3]float64
			for i := 0; i < 3; i++ {
				q[i] = a[i] + v*ab[i] + w*ac[i]
			}
			return ptDist(p, q[:])
		}
	}

	// closest point is on an edge
	d1 := distPointSegment(p, a, b)
	d2 := distPointSegment(p, b, c)
	d3 := distPointSegment(p, c, a)
	return math.Min(d1, math.Min(d2, d3))
}
