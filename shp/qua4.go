// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// shape function of qua4
//      3 ----------- 2
//      |      s      |
//      |      |      |
//      |      +--r   |
//      |             |
//      |             |
//      0 ----------- 1
func init() {

	g := 1.0 / math.Sqrt(3.0)
	ips := []Ipoint{
		{-g, -g, 0, 1},
		{g, -g, 0, 1},
		{g, g, 0, 1},
		{-g, g, 0, 1},
	}

	o := &Shape{
		Type:       "qua4",
		Gndim:      2,
		Nverts:     4,
		FaceNverts: 2,
		FaceLocalVerts: [][]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
		},
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		},
		Ips: ips,
	}

	o.Func = func(S []float64, dSdR [][]float64, r []float64, derivs bool) {
		S[0] = (1.0 - r[0]) * (1.0 - r[1]) / 4.0
		S[1] = (1.0 + r[0]) * (1.0 - r[1]) / 4.0
		S[2] = (1.0 + r[0]) * (1.0 + r[1]) / 4.0
		S[3] = (1.0 - r[0]) * (1.0 + r[1]) / 4.0
		if !derivs {
			return
		}
		dSdR[0][0], dSdR[0][1] = -(1.0-r[1])/4.0, -(1.0-r[0])/4.0
		dSdR[1][0], dSdR[1][1] = (1.0-r[1])/4.0, -(1.0+r[0])/4.0
		dSdR[2][0], dSdR[2][1] = (1.0+r[1])/4.0, (1.0+r[0])/4.0
		dSdR[3][0], dSdR[3][1] = -(1.0+r[1])/4.0, (1.0-r[0])/4.0
	}

	o.init_scratchpad()
	factory["qua4"] = o
}
