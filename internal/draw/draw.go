// Package draw renders to a terminal using half-block characters.
package draw

import "image/color"

// Point represents a 2D coordinate in logical canvas space.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// White is the default pen.
var White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
