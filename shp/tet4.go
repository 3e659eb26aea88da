// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// shape function of tet4
//                 t
//                 |
//                 3
//                /|',
//              /  |  ',
//            /    |    ',
//          /      |      ',
//        0 - - - -|- - - - - 2 --> s
//          ',     |       ,'
//             ',  |    ,'
//                ',|,'
//                  1
//                 /
//                r
func init() {

	a := (5.0 + 3.0*sqrt5) / 20.0
	b := (5.0 - sqrt5) / 20.0
	ips := []Ipoint{
		{b, b, b, 1.0 / 24.0},
		{a, b, b, 1.0 / 24.0},
		{b, a, b, 1.0 / 24.0},
		{b, b, a, 1.0 / 24.0},
	}

	o := &Shape{
		Type:       "tet4",
		Gndim:      3,
		Nverts:     4,
		FaceNverts: 3,
		FaceLocalVerts: [][]int{
			{0, 3, 2}, {0, 1, 3}, {0, 2, 1}, {1, 2, 3},
		},
		NatCoords: [][]float64{
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
		Ips: ips,
	}

	o.Func = func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
		S[0] = 1.0 - r[0] - r[1] - r[2]
		S[1] = r[0]
		S[2] = r[1]
		S[3] = r[2]
		if !derivs {
			return
		}
		dSdR[0][0], dSdR[0][1], dSdR[0][2] = -1.0, -1.0, -1.0
		dSdR[1][0], dSdR[1][1], dSdR[1][2] = 1.0, 0.0, 0.0
		dSdR[2][0], dSdR[2][1], dSdR[2][2] = 0.0, 1.0, 0.0
		dSdR[3][0], dSdR[3][1], dSdR[3][2] = 0.0, 0.0, 1.0
	}

	o.init_scratchpad()
	factory["tet4"] = o
}

const sqrt5 = 2.2360679774997896964091736687747
