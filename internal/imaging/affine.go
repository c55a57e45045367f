package imaging

import (
	"math"
)

// matrix is a 3x3 affine transform in row-major order.
type matrix [9]float64

func identity() matrix {
	return matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Rotation Matrix (CCW in a y-up system, CW on screen)
//
//	cos(angle)   -sin(angle)    0
//	sin(angle)    cos(angle)    0
//	0             0             1
func rotation(angle float64) matrix {
	m := identity()
	// snap quarter turns so that pixel lookups stay exact
	sin, cos := math.Round(math.Sin(angle)*1e12)/1e12, math.Round(math.Cos(angle)*1e12)/1e12
	m[0] = cos
	m[1] = -sin
	m[3] = sin
	m[4] = cos
	return m
}

// Translation Matrix:
//
//	1  0  dx
//	0  1  dy
//	0  0  1
func translation(dx, dy float64) matrix {
	m := identity()
	m[2] = dx
	m[5] = dy
	return m
}

// multiply combines two affine transforms; b is applied first.
func multiply(a, b matrix) matrix {
	var m matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			for k := 0; k < 3; k++ {
				m[row*3+col] += a[row*3+k] * b[k*3+col]
			}
		}
	}
	return m
}

// transform applies an affine transform to the given x,y point.
func transform(m matrix, x, y float64) (float64, float64) {
	tx := m[0]*x + m[1]*y + m[2]
	ty := m[3]*x + m[4]*y + m[5]
	return tx, ty
}
