package sat

import (
	"math/rand"
)

// FindFree scans every valid top-left anchor for r in row-major order and
// returns one chosen uniformly at random among all free anchors, or ok=false
// when no anchor is free.
//
// Uniformity comes from size-1 reservoir sampling: the i-th free anchor
// found (counting from zero) replaces the current pick with probability
// 1/(i+1). This spreads words over the whole canvas instead of clustering
// them at the first free corner, while the stream of candidates is never
// materialized.
//
// In mask mode the scan is restricted per row to the skip-list bounds of the
// anchor row; the occupancy query remains authoritative for the rows the
// rectangle spans below.
func (o *Occupancy) FindFree(r Rect, rng *rand.Rand) (Point, bool) {
	maxX := o.width - r.Width
	maxY := o.height - r.Height
	if maxX <= 0 || maxY <= 0 || r.Width <= 0 || r.Height <= 0 {
		return Point{}, false
	}

	var pick Point
	found := 0
	for y := 0; y < maxY; y++ {
		x0, x1 := 0, maxX
		if o.skip != nil {
			b := o.skip[y]
			if b.Left > b.Right {
				continue
			}
			x0 = b.Left
			// Anchor column must leave the whole width inside the row bounds.
			if lim := b.Right - r.Width + 2; lim < x1 {
				x1 = lim
			}
		}
		for x := x0; x < x1; x++ {
			if !o.Free(x, y, r.Width, r.Height) {
				continue
			}
			if rng.Intn(found+1) == found {
				pick = Point{X: x, Y: y}
			}
			found++
		}
	}
	if found == 0 {
		return Point{}, false
	}
	return pick, true
}
