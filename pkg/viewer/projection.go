package viewer

import (
	"math"

	"github.com/oxygene76/orrery/internal/types"
)

// Extent returns the largest planar distance of any body from the center,
// used to fit the system to the screen. It never returns less than 1.
func Extent(frame types.FrameMessage) float64 {
	if len(frame.Bodies) == 0 {
		return 1
	}
	c := frame.Bodies[0].World
	extent := 1.0
	for _, b := range frame.Bodies[1:] {
		d := math.Hypot(b.World.X-c.X, b.World.Z-c.Z)
		if d > extent && !math.IsInf(d, 0) {
			extent = d
		}
	}
	return extent
}

// Project maps a world position onto a w x h cell grid looking down the Y
// axis. The center sits in the middle of the grid and extent reaches the
// edge. Cells are about twice as tall as wide, so x uses the half width
// and z the half height.
func Project(p, center types.Vec3, extent float64, w, h int) (int, int) {
	if extent <= 0 {
		extent = 1
	}
	cx, cy := w/2, h/2
	rx := float64(max(cx-2, 1))
	ry := float64(max(cy-1, 1))

	x := cx + int(math.Round((p.X-center.X)/extent*rx))
	y := cy + int(math.Round((p.Z-center.Z)/extent*ry))
	return x, y
}
