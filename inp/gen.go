// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// structured mesh generators. these cover the needs of tests and console
// examples; real geometries come from external meshing tools via ReadMsh

// TagFn assigns a (negative) cell tag given the cell centroid.
// A nil TagFn tags every cell with -1
type TagFn func(xc []float64) int

// GenQuadRegionTri generates a structured triangular mesh over the rectangle
// [x0,x0+lx] x [y0,y0+ly] with nx by ny quads, each split in two tri3 cells
func GenQuadRegionTri(nx, ny int, x0, y0, lx, ly float64, symmetry string, tagfn TagFn) (*Mesh, error) {
	verts := genGridVerts2d(nx, ny, x0, y0, lx, ly)
	var cells []*Cell
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00 := j*(nx+1) + i
			v10 := v00 + 1
			v01 := v00 + nx + 1
			v11 := v01 + 1
			cells = append(cells, &Cell{Type: "tri3", Verts: []int{v00, v10, v11}})
			cells = append(cells, &Cell{Type: "tri3", Verts: []int{v00, v11, v01}})
		}
	}
	finishCells(cells, verts, tagfn)
	return NewMesh(verts, cells, symmetry)
}

// GenQuadRegionQua generates a structured quadrilateral (qua4) mesh over the
// rectangle [x0,x0+lx] x [y0,y0+ly] with nx by ny cells
func GenQuadRegionQua(nx, ny int, x0, y0, lx, ly float64, symmetry string, tagfn TagFn) (*Mesh, error) {
	verts := genGridVerts2d(nx, ny, x0, y0, lx, ly)
	var cells []*Cell
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00 := j*(nx+1) + i
			v10 := v00 + 1
			v01 := v00 + nx + 1
			v11 := v01 + 1
			cells = append(cells, &Cell{Type: "qua4", Verts: []int{v00, v10, v11, v01}})
		}
	}
	finishCells(cells, verts, tagfn)
	return NewMesh(verts, cells, symmetry)
}

// GenBoxRegionTet generates a structured tetrahedral mesh over the box
// [x0,x0+lx] x [y0,y0+ly] x [z0,z0+lz] with nx by ny by nz hexahedra, each
// split in six tet4 cells (Kuhn decomposition; conforming across cells)
func GenBoxRegionTet(nx, ny, nz int, x0, y0, z0, lx, ly, lz float64, symmetry string, tagfn TagFn) (*Mesh, error) {
	var verts []*Vert
	id := 0
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				verts = append(verts, &Vert{
					Id: id,
					C: []float64{
						x0 + lx*float64(i)/float64(nx),
						y0 + ly*float64(j)/float64(ny),
						z0 + lz*float64(k)/float64(nz),
					},
				})
				id++
			}
		}
	}
	vid := func(i, j, k int) int { return k*(ny+1)*(nx+1) + j*(nx+1) + i }
	// six tets sharing the main diagonal v000-v111
	paths := [][3][3]int{
		{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
		{{1, 1, 0}, {0, 1, 0}, {1, 1, 1}},
		{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}},
		{{0, 1, 1}, {0, 0, 1}, {1, 1, 1}},
		{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}},
		{{1, 0, 1}, {1, 0, 0}, {1, 1, 1}},
	}
	var cells []*Cell
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v0 := vid(i, j, k)
				for _, p := range paths {
					vv := []int{
						v0,
						vid(i+p[0][0], j+p[0][1], k+p[0][2]),
						vid(i+p[1][0], j+p[1][1], k+p[1][2]),
						vid(i+p[2][0], j+p[2][1], k+p[2][2]),
					}
					if tetVolume(verts, vv) < 0 {
						vv[1], vv[2] = vv[2], vv[1]
					}
					cells = append(cells, &Cell{Type: "tet4", Verts: vv})
				}
			}
		}
	}
	finishCells(cells, verts, tagfn)
	return NewMesh(verts, cells, symmetry)
}

// genGridVerts2d generates the vertices of a structured 2D grid
func genGridVerts2d(nx, ny int, x0, y0, lx, ly float64) (verts []*Vert) {
	id := 0
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			verts = append(verts, &Vert{
				Id: id,
				C: []float64{
					x0 + lx*float64(i)/float64(nx),
					y0 + ly*float64(j)/float64(ny),
				},
			})
			id++
		}
	}
	return
}

// finishCells sets ids and tags
func finishCells(cells []*Cell, verts []*Vert, tagfn TagFn) {
	for i, c := range cells {
		c.Id = i
		if tagfn == nil {
			c.Tag = -1
			continue
		}
		xc := make([]float64, len(verts[c.Verts[0]].C))
		for _, v := range c.Verts {
			for d := range xc {
				xc[d] += verts[v].C[d]
			}
		}
		for d := range xc {
			xc[d] /= float64(len(c.Verts))
		}
		c.Tag = tagfn(xc)
	}
}

// tetVolume returns the signed volume of a tet4 cell
func tetVolume(verts []*Vert, vv []int) float64 {
	a, b, c, d := verts[vv[0]].C, verts[vv[1]].C, verts[vv[2]].C, verts[vv[3]].C
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	w := [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	return (u[0]*(v[1]*w[2]-v[2]*w[1]) - u[1]*(v[0]*w[2]-v[2]*w[0]) + u[2]*(v[0]*w[1]-v[1]*w[0])) / 6.0
}
