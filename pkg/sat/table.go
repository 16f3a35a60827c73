package sat

// at returns the table value at (x, y), with out-of-range coordinates
// contributing zero. This keeps the prefix-sum recurrence
//
//	table[y][x] = table[y-1][x] + table[y][x-1] - table[y-1][x-1] + grid[y][x]
//
// valid at the edges without padding the table.
func (o *Occupancy) at(x, y int) int {
	if x < 0 || y < 0 {
		return 0
	}
	return int(o.table[y*o.width+x])
}

// Free reports whether the rectangle with top-left anchor (x, y) and the
// given dimensions contains no occupied cell. The caller must keep the
// rectangle within the canvas.
//
// Four lookups: the region sum over [x, x+w) x [y, y+h) is
// br - tr - bl + tl with the corner samples taken one cell outside the
// region on the top and left. The region is free iff the sum is zero.
func (o *Occupancy) Free(x, y, w, h int) bool {
	br := o.at(x+w-1, y+h-1)
	tr := o.at(x+w-1, y-1)
	bl := o.at(x-1, y+h-1)
	tl := o.at(x-1, y-1)
	return br-tr-bl+tl == 0
}

// Commit marks the rectangle with top-left anchor p as occupied and rebuilds
// the summed-area table for all rows at or below the topmost dirtied row.
// Rows above it are prefix sums over unchanged data and need no work.
//
// The rectangle is clipped to the canvas. Cells already occupied stay
// occupied; occupancy is monotone.
func (o *Occupancy) Commit(r Rect, p Point) {
	x0, y0 := p.X, p.Y
	x1, y1 := p.X+r.Width, p.Y+r.Height
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > o.width {
		x1 = o.width
	}
	if y1 > o.height {
		y1 = o.height
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for y := y0; y < y1; y++ {
		row := o.grid[y*o.width : (y+1)*o.width]
		for x := x0; x < x1; x++ {
			if !row[x] {
				row[x] = true
				o.freeCells--
			}
		}
	}
	o.rebuild(y0)
}

// rebuild recomputes the summed-area table for rows startRow..height-1.
func (o *Occupancy) rebuild(startRow int) {
	if startRow < 0 {
		startRow = 0
	}
	for y := startRow; y < o.height; y++ {
		rowSum := 0
		base := y * o.width
		for x := 0; x < o.width; x++ {
			if o.grid[base+x] {
				rowSum++
			}
			o.table[base+x] = int32(rowSum + o.at(x, y-1))
		}
	}
}
