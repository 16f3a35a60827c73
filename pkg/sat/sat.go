// Package sat implements the occupancy model for word cloud placement.
//
// The model pairs a boolean occupancy grid with a summed-area table (SAT)
// over the same cells. The SAT holds, at each cell, the number of occupied
// cells in the rectangle from the origin to that cell inclusive. This makes
// "is this rectangle entirely free?" a four-lookup O(1) query, which the
// placement planner relies on for its exhaustive anchor scans.
//
// Cells move from free to occupied and never back. A single planner owns the
// model for the duration of one layout run; the type is not safe for
// concurrent use.
//
// # Usage
//
//	occ, err := sat.New(800, 600)
//	if err != nil {
//	    return err
//	}
//	r := sat.Rect{Width: 120, Height: 40}
//	if p, ok := occ.FindFree(r, rng); ok {
//	    occ.Commit(r, p)
//	}
package sat

import (
	"github.com/wordhaze/wordhaze/pkg/errors"
)

// Point is a top-left placement anchor in grid coordinates.
type Point struct {
	X int
	Y int
}

// Rect is a candidate bounding box for a word at a given font size and
// orientation.
type Rect struct {
	Width  int
	Height int
}

// rowBounds holds the leftmost and rightmost placeable columns of one mask
// row. A row with no placeable pixels has Left > Right.
type rowBounds struct {
	Left  int
	Right int
}

// Occupancy is the occupancy grid plus its derived summed-area table.
//
// The grid marks occupied cells (placed word rectangles, or mask cells
// outside the silhouette). The table is rebuilt incrementally on Commit,
// from the topmost dirtied row downward.
type Occupancy struct {
	width  int
	height int
	grid   []bool
	table  []int32

	// skip restricts per-row anchor scans to the mask silhouette.
	// Nil for plain rectangular canvases.
	skip []rowBounds

	freeCells int
}

// New creates an empty occupancy model for a rectangular canvas.
// Degenerate dimensions are a configuration error.
func New(width, height int) (*Occupancy, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"canvas dimensions must be positive, got %dx%d", width, height)
	}
	return &Occupancy{
		width:     width,
		height:    height,
		grid:      make([]bool, width*height),
		table:     make([]int32, width*height),
		freeCells: width * height,
	}, nil
}

// NewFromMask creates an occupancy model seeded from a grayscale mask.
//
// Pixel value 0 ("black") marks the placeable silhouette; any other value is
// permanently occupied. The per-row skip list for masked anchor scans is
// derived here and read-only afterward.
func NewFromMask(pix []uint8, width, height int) (*Occupancy, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidMask,
			"mask dimensions must be positive, got %dx%d", width, height)
	}
	if len(pix) != width*height {
		return nil, errors.New(errors.ErrCodeInvalidMask,
			"mask pixel count %d does not match %dx%d", len(pix), width, height)
	}

	o := &Occupancy{
		width:  width,
		height: height,
		grid:   make([]bool, width*height),
		table:  make([]int32, width*height),
		skip:   make([]rowBounds, height),
	}
	for i, v := range pix {
		if v != 0 {
			o.grid[i] = true
		} else {
			o.freeCells++
		}
	}
	for y := 0; y < height; y++ {
		o.skip[y] = scanRow(pix[y*width : (y+1)*width])
	}
	o.rebuild(0)
	return o, nil
}

// scanRow finds the leftmost and rightmost placeable columns of one row.
func scanRow(row []uint8) rowBounds {
	b := rowBounds{Left: len(row), Right: -1}
	for x, v := range row {
		if v == 0 {
			if b.Left > x {
				b.Left = x
			}
			b.Right = x
		}
	}
	return b
}

// Width returns the canvas width in cells.
func (o *Occupancy) Width() int { return o.width }

// Height returns the canvas height in cells.
func (o *Occupancy) Height() int { return o.height }

// Masked reports whether the model was seeded from a mask.
func (o *Occupancy) Masked() bool { return o.skip != nil }

// FreeFraction returns the fraction of cells still unoccupied.
// The planner uses it to shrink the starting font size in mask mode.
func (o *Occupancy) FreeFraction() float64 {
	return float64(o.freeCells) / float64(o.width*o.height)
}

// OccupiedAt reports whether a single cell is occupied.
// Out-of-range cells are reported occupied.
func (o *Occupancy) OccupiedAt(x, y int) bool {
	if x < 0 || y < 0 || x >= o.width || y >= o.height {
		return true
	}
	return o.grid[y*o.width+x]
}

// RowBounds returns the skip-list bounds for one mask row.
// ok is false for rectangular canvases or rows without placeable pixels.
func (o *Occupancy) RowBounds(y int) (left, right int, ok bool) {
	if o.skip == nil || y < 0 || y >= o.height {
		return 0, 0, false
	}
	b := o.skip[y]
	if b.Left > b.Right {
		return 0, 0, false
	}
	return b.Left, b.Right, true
}
