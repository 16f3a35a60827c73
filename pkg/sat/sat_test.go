package sat

import (
	"math/rand"
	"testing"
)

// freeBrute answers the same query as Free by scanning the grid directly.
func freeBrute(o *Occupancy, x, y, w, h int) bool {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if o.OccupiedAt(xx, yy) {
				return false
			}
		}
	}
	return true
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name   string
		w, h   int
		wantOK bool
	}{
		{"valid", 10, 10, true},
		{"zero width", 0, 10, false},
		{"zero height", 10, 0, false},
		{"negative", -1, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.w, tc.h)
			if tc.wantOK && err != nil {
				t.Errorf("New(%d, %d) error: %v", tc.w, tc.h, err)
			}
			if !tc.wantOK && err == nil {
				t.Errorf("New(%d, %d) should fail", tc.w, tc.h)
			}
		})
	}
}

func TestFreeEmptyCanvas(t *testing.T) {
	o, err := New(20, 15)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Free(0, 0, 20, 15) {
		t.Error("Whole empty canvas should be free")
	}
	if !o.Free(5, 5, 10, 5) {
		t.Error("Interior rectangle of empty canvas should be free")
	}
	if got := o.FreeFraction(); got != 1.0 {
		t.Errorf("FreeFraction of empty canvas = %g, want 1", got)
	}
}

func TestCommitAndFree(t *testing.T) {
	o, err := New(20, 20)
	if err != nil {
		t.Fatal(err)
	}

	o.Commit(Rect{Width: 5, Height: 3}, Point{X: 4, Y: 6})

	// The committed region and anything overlapping it is blocked.
	if o.Free(4, 6, 5, 3) {
		t.Error("Committed region should not be free")
	}
	if o.Free(8, 8, 3, 3) {
		t.Error("Rectangle overlapping the committed region should not be free")
	}
	if o.Free(0, 0, 5, 7) {
		t.Error("Rectangle touching the committed region should not be free")
	}

	// Disjoint regions stay free.
	if !o.Free(0, 0, 4, 6) {
		t.Error("Rectangle left of the committed region should be free")
	}
	if !o.Free(9, 6, 5, 3) {
		t.Error("Rectangle right of the committed region should be free")
	}
	if !o.Free(4, 9, 5, 3) {
		t.Error("Rectangle below the committed region should be free")
	}

	if got, want := o.FreeFraction(), 1-15.0/400.0; got != want {
		t.Errorf("FreeFraction = %g, want %g", got, want)
	}
}

func TestCommitClipping(t *testing.T) {
	o, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Rectangle hanging off the bottom-right corner clips to the canvas.
	o.Commit(Rect{Width: 5, Height: 5}, Point{X: 8, Y: 8})
	if o.Free(8, 8, 2, 2) {
		t.Error("Clipped commit should occupy the in-canvas corner")
	}
	if !o.Free(0, 0, 8, 8) {
		t.Error("Clipped commit should not touch the rest of the canvas")
	}

	// Fully out-of-canvas commits are no-ops.
	before := o.FreeFraction()
	o.Commit(Rect{Width: 3, Height: 3}, Point{X: 20, Y: 20})
	if o.FreeFraction() != before {
		t.Error("Out-of-canvas commit should change nothing")
	}
}

func TestCommitMonotone(t *testing.T) {
	o, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	o.Commit(Rect{Width: 4, Height: 4}, Point{X: 2, Y: 2})
	frac := o.FreeFraction()

	// Re-committing overlapping cells must not double-count.
	o.Commit(Rect{Width: 4, Height: 4}, Point{X: 2, Y: 2})
	if o.FreeFraction() != frac {
		t.Error("Re-committing the same region should not change FreeFraction")
	}
}

func TestFreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	o, err := New(40, 30)
	if err != nil {
		t.Fatal(err)
	}

	// Scatter random commits, cross-checking queries after each.
	for i := 0; i < 25; i++ {
		r := Rect{Width: 1 + rng.Intn(8), Height: 1 + rng.Intn(8)}
		p := Point{X: rng.Intn(40 - r.Width), Y: rng.Intn(30 - r.Height)}
		o.Commit(r, p)

		for q := 0; q < 50; q++ {
			w := 1 + rng.Intn(10)
			h := 1 + rng.Intn(10)
			x := rng.Intn(40 - w)
			y := rng.Intn(30 - h)
			got := o.Free(x, y, w, h)
			want := freeBrute(o, x, y, w, h)
			if got != want {
				t.Fatalf("Free(%d, %d, %d, %d) = %v after %d commits, brute force says %v",
					x, y, w, h, got, i+1, want)
			}
		}
	}
}

func TestFindFreeSingleSlot(t *testing.T) {
	o, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Occupy everything except a 3x3 pocket at (4, 4).
	o.Commit(Rect{Width: 10, Height: 4}, Point{X: 0, Y: 0})
	o.Commit(Rect{Width: 10, Height: 3}, Point{X: 0, Y: 7})
	o.Commit(Rect{Width: 4, Height: 3}, Point{X: 0, Y: 4})
	o.Commit(Rect{Width: 3, Height: 3}, Point{X: 7, Y: 4})

	rng := rand.New(rand.NewSource(7))
	p, ok := o.FindFree(Rect{Width: 3, Height: 3}, rng)
	if !ok {
		t.Fatal("FindFree should locate the only free pocket")
	}
	if p.X != 4 || p.Y != 4 {
		t.Errorf("FindFree = (%d, %d), want (4, 4)", p.X, p.Y)
	}
}

func TestFindFreeNoSlot(t *testing.T) {
	o, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	o.Commit(Rect{Width: 10, Height: 10}, Point{X: 0, Y: 0})

	rng := rand.New(rand.NewSource(7))
	if _, ok := o.FindFree(Rect{Width: 2, Height: 2}, rng); ok {
		t.Error("FindFree on a full canvas should fail")
	}
}

func TestFindFreeRejectsOversized(t *testing.T) {
	o, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))

	if _, ok := o.FindFree(Rect{Width: 11, Height: 2}, rng); ok {
		t.Error("Rectangle wider than the canvas should not place")
	}
	if _, ok := o.FindFree(Rect{Width: 2, Height: 11}, rng); ok {
		t.Error("Rectangle taller than the canvas should not place")
	}
	if _, ok := o.FindFree(Rect{Width: 0, Height: 2}, rng); ok {
		t.Error("Degenerate rectangle should not place")
	}
}

func TestFindFreeDeterministic(t *testing.T) {
	build := func() *Occupancy {
		o, err := New(30, 30)
		if err != nil {
			t.Fatal(err)
		}
		o.Commit(Rect{Width: 10, Height: 10}, Point{X: 5, Y: 5})
		o.Commit(Rect{Width: 8, Height: 4}, Point{X: 18, Y: 20})
		return o
	}

	r := Rect{Width: 5, Height: 5}
	p1, ok1 := build().FindFree(r, rand.New(rand.NewSource(99)))
	p2, ok2 := build().FindFree(r, rand.New(rand.NewSource(99)))
	if ok1 != ok2 || p1 != p2 {
		t.Errorf("Same seed should pick the same anchor: got %v/%v and %v/%v", p1, ok1, p2, ok2)
	}
}

func TestFindFreeOnlyReturnsFreeAnchors(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	o, err := New(25, 25)
	if err != nil {
		t.Fatal(err)
	}

	// Repeatedly place and commit; every returned anchor must be free at
	// the time of the query.
	r := Rect{Width: 4, Height: 4}
	for {
		p, ok := o.FindFree(r, rng)
		if !ok {
			break
		}
		if !freeBrute(o, p.X, p.Y, r.Width, r.Height) {
			t.Fatalf("FindFree returned occupied anchor (%d, %d)", p.X, p.Y)
		}
		o.Commit(r, p)
	}
}

func TestNewFromMask(t *testing.T) {
	// 6x4 mask: black (0) pixels are placeable, a ring of white blocks the rest.
	//
	//	W W W W W W
	//	W . . . . W
	//	W . . . . W
	//	W W W W W W
	pix := make([]uint8, 6*4)
	for i := range pix {
		pix[i] = 255
	}
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 4; x++ {
			pix[y*6+x] = 0
		}
	}

	o, err := NewFromMask(pix, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Masked() {
		t.Error("Mask-seeded model should report Masked")
	}
	if got, want := o.FreeFraction(), 8.0/24.0; got != want {
		t.Errorf("FreeFraction = %g, want %g", got, want)
	}

	if !o.OccupiedAt(0, 0) {
		t.Error("White mask pixel should be occupied")
	}
	if o.OccupiedAt(1, 1) {
		t.Error("Black mask pixel should be free")
	}
	if !o.Free(1, 1, 4, 2) {
		t.Error("The silhouette interior should be free")
	}
	if o.Free(0, 0, 2, 2) {
		t.Error("Region crossing the mask border should not be free")
	}
}

func TestRowBounds(t *testing.T) {
	pix := make([]uint8, 5*3)
	for i := range pix {
		pix[i] = 255
	}
	// Row 1 placeable in columns 2..3 only.
	pix[1*5+2] = 0
	pix[1*5+3] = 0

	o, err := NewFromMask(pix, 5, 3)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, ok := o.RowBounds(0); ok {
		t.Error("Row without placeable pixels should report no bounds")
	}
	left, right, ok := o.RowBounds(1)
	if !ok || left != 2 || right != 3 {
		t.Errorf("RowBounds(1) = %d, %d, %v; want 2, 3, true", left, right, ok)
	}
	if _, _, ok := o.RowBounds(-1); ok {
		t.Error("Out-of-range row should report no bounds")
	}

	// Rectangular canvases have no skip list.
	plain, err := New(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := plain.RowBounds(1); ok {
		t.Error("Rectangular canvas should report no row bounds")
	}
}

func TestNewFromMaskValidation(t *testing.T) {
	if _, err := NewFromMask(nil, 0, 4); err == nil {
		t.Error("Zero width should fail")
	}
	if _, err := NewFromMask(make([]uint8, 10), 4, 4); err == nil {
		t.Error("Pixel count mismatch should fail")
	}
}

func TestMaskedFindFreeStaysInSilhouette(t *testing.T) {
	// A 20x20 mask with a free 8x8 square at (6, 6).
	pix := make([]uint8, 20*20)
	for i := range pix {
		pix[i] = 200
	}
	for y := 6; y < 14; y++ {
		for x := 6; x < 14; x++ {
			pix[y*20+x] = 0
		}
	}
	o, err := NewFromMask(pix, 20, 20)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(11))
	r := Rect{Width: 3, Height: 3}
	for i := 0; i < 20; i++ {
		p, ok := o.FindFree(r, rng)
		if !ok {
			t.Fatal("Silhouette should have room for a 3x3 rectangle")
		}
		if p.X < 6 || p.Y < 6 || p.X+r.Width > 14 || p.Y+r.Height > 14 {
			t.Fatalf("Anchor (%d, %d) is outside the silhouette", p.X, p.Y)
		}
	}
}
